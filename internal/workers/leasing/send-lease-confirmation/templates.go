// internal/workers/leasing/send-lease-confirmation/templates.go
package sendleaseconfirmation

import (
	"strings"
	"text/template"

	"leasing-wizard/internal/models"
)

const subjectText = `Your {{.Draft.ProductType}} lease application {{.ApplicationID}}`

const emailText = `Hello {{.Draft.FullName}},

We received your application to lease a {{.Draft.ProductModel}} for {{.Draft.LeaseDuration}} months
with a monthly budget of {{printf "%.2f" .Draft.MonthlyBudget}}.

Reference: {{.ApplicationID}}
{{- if .Draft.EmployerName}}
Employer: {{.Draft.EmployerName}}
{{- end}}

We will be in touch shortly.
`

const smsText = `Lease application {{.ApplicationID}} received. We will contact you at {{.Draft.Email}}.`

var (
	subjectTemplate = template.Must(template.New("subject").Parse(subjectText))
	emailTemplate   = template.Must(template.New("email").Parse(emailText))
	smsTemplate     = template.Must(template.New("sms").Parse(smsText))
)

type messageData struct {
	ApplicationID string
	Draft         models.ApplicationDraft
}

func render(t *template.Template, data messageData) (string, error) {
	var b strings.Builder
	if err := t.Execute(&b, data); err != nil {
		return "", err
	}
	return b.String(), nil
}
