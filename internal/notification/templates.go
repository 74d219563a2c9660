package notification

import (
	"bytes"
	htmltemplate "html/template"
	"strings"
	texttemplate "text/template"
)

const codeDeliveryText = `Thank you for your purchase.

Plan: {{.PlanName}}
Your code: {{.Code}}

Keep this code private. It can be used once.
`

const codeDeliveryHTML = `<p>Thank you for your purchase.</p>
<p>Plan: <strong>{{.PlanName}}</strong></p>
<p>Your code: <code>{{.Code}}</code></p>
<p>Keep this code private. It can be used once.</p>
`

const stockAlertText = `{{if eq .Remaining 0}}Plan "{{.PlanName}}" has run out of codes.{{else}}Plan "{{.PlanName}}" is running low: {{.Remaining}} code(s) left (threshold {{.Threshold}}).{{end}}

Plan ID: {{.PlanID}}
Kind: {{.PlanKind}}
`

var (
	codeDeliveryTextTmpl = texttemplate.Must(texttemplate.New("code_text").Parse(codeDeliveryText))
	codeDeliveryHTMLTmpl = htmltemplate.Must(htmltemplate.New("code_html").Parse(codeDeliveryHTML))
	stockAlertTextTmpl   = texttemplate.Must(texttemplate.New("stock_text").Parse(stockAlertText))
)

// CodeDelivery is the data rendered into a purchase email.
type CodeDelivery struct {
	PlanName string
	Code     string
}

// StockAlert is the data rendered into an operator alert.
type StockAlert struct {
	PlanID    string
	PlanName  string
	PlanKind  string
	Remaining int
	Threshold int
}

// NewCodeDeliveryMessage renders the purchase email for one recipient.
func NewCodeDeliveryMessage(to string, data CodeDelivery) (Message, error) {
	var text, html bytes.Buffer
	if err := codeDeliveryTextTmpl.Execute(&text, data); err != nil {
		return Message{}, err
	}
	if err := codeDeliveryHTMLTmpl.Execute(&html, data); err != nil {
		return Message{}, err
	}
	return Message{
		To:       []string{to},
		Subject:  "Your " + data.PlanName + " code",
		TextBody: text.String(),
		HTMLBody: html.String(),
	}, nil
}

// NewStockAlertMessage renders the low-stock alert sent to operators.
func NewStockAlertMessage(to []string, data StockAlert) (Message, error) {
	var text bytes.Buffer
	if err := stockAlertTextTmpl.Execute(&text, data); err != nil {
		return Message{}, err
	}

	subject := "Low stock: " + data.PlanName
	if data.Remaining == 0 {
		subject = "Out of stock: " + data.PlanName
	}
	return Message{
		To:       to,
		Subject:  subject,
		TextBody: strings.TrimSpace(text.String()) + "\n",
	}, nil
}
