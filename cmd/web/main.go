package main

import (
	"log"

	"github.com/mouwaficbdr/my-facebook/internal/app"
)

func main() {
	if err := app.Run(); err != nil {
		log.Fatalf("fatal: %v", err)
	}
}
