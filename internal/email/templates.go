package email

import (
	"bytes"
	"fmt"
	"html/template"
)

type templateData struct {
	ActionURL  string
	ActionText string
}

const confirmationTemplate = `<html>
<body style="font-family: sans-serif;">
  <h2>Bienvenue sur MyFacebook !</h2>
  <p>Merci de confirmer votre adresse email pour activer votre compte.</p>
  <p><a href="{{.ActionURL}}">{{.ActionText}}</a></p>
  <p>Si vous n'avez pas créé de compte, ignorez ce message.</p>
</body>
</html>`

const passwordResetTemplate = `<html>
<body style="font-family: sans-serif;">
  <h2>Réinitialisation du mot de passe</h2>
  <p>Vous avez demandé la réinitialisation de votre mot de passe.
     Ce lien expire dans une heure.</p>
  <p><a href="{{.ActionURL}}">{{.ActionText}}</a></p>
  <p>Si vous n'êtes pas à l'origine de cette demande, ignorez ce message.</p>
</body>
</html>`

var templates = template.Must(template.New("confirmation").Parse(confirmationTemplate))

func init() {
	template.Must(templates.New("password_reset").Parse(passwordResetTemplate))
}

func render(name string, data templateData) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("failed to render template %s: %w", name, err)
	}
	return buf.String(), nil
}
