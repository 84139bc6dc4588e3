package notify

import (
	"bytes"
	htmltpl "html/template"
	texttpl "text/template"
)

type template struct {
	text *texttpl.Template
	html *htmltpl.Template
}

func newTemplate(name, text, html string) template {
	return template{
		text: texttpl.Must(texttpl.New(name).Parse(text)),
		html: htmltpl.Must(htmltpl.New(name).Parse(html)),
	}
}

func (t template) render(data any) (string, string, error) {
	var tb, hb bytes.Buffer
	if err := t.text.Execute(&tb, data); err != nil {
		return "", "", err
	}
	if err := t.html.Execute(&hb, data); err != nil {
		return "", "", err
	}
	return tb.String(), hb.String(), nil
}

var contactTpl = newTemplate("contact",
	`You have a new message from:

Name: {{.Name}}
Email: {{.Email}}

Subject: {{.Subject}}

Message:
{{.Message}}
`,
	`<h3>New message from your {{.Site}} contact form:</h3>
<ul>
  <li><strong>Name:</strong> {{.Name}}</li>
  <li><strong>Email:</strong> <a href="mailto:{{.Email}}">{{.Email}}</a></li>
</ul>
<h4>Subject:</h4>
<p>{{.Subject}}</p>
<h4>Message:</h4>
<p style="white-space: pre-line">{{.Message}}</p>
`)

var welcomeTpl = newTemplate("welcome",
	`Thank you for subscribing to the {{.Site}} newsletter. Stay tuned for the latest tech updates!
`,
	`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <h2 style="color: #000;">Welcome to {{.Site}}!</h2>
  <p>Hi there,</p>
  <p>Thanks for subscribing to our newsletter. You're now part of a community of tech enthusiasts.</p>
  <p>We'll keep you updated with the latest articles, tutorials, and insights.</p>
  <p>Best regards,<br>The {{.Site}} Team</p>
</div>
`)

var resetTpl = newTemplate("reset",
	`Hi {{.Name}},

Someone asked to reset the password of your {{.Site}} account.
Open the link below within {{.TTL}} to choose a new one:

{{.Link}}

If this wasn't you, ignore this email.
`,
	`<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
  <p>Hi {{.Name}},</p>
  <p>Someone asked to reset the password of your {{.Site}} account.</p>
  <p><a href="{{.Link}}">Choose a new password</a> (valid for {{.TTL}}).</p>
  <p>If this wasn't you, ignore this email.</p>
</div>
`)
