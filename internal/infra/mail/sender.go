package mail

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"
)

//go:embed templates/*.html
var templatesFS embed.FS

var welcomeTemplate = template.Must(template.ParseFS(templatesFS, "templates/lead_welcome.html"))

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, appURL string) *EmailSender {
	return &EmailSender{
		From:   from,
		AppURL: appURL,
		dialer: gomail.NewDialer(host, port, user, password),
	}
}

func (s *EmailSender) SendLeadWelcome(to string) error {
	m, err := s.buildWelcome(to)
	if err != nil {
		return err
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("send welcome email: %w", err)
	}
	return nil
}

func (s *EmailSender) buildWelcome(to string) (*gomail.Message, error) {
	var body bytes.Buffer
	if err := welcomeTemplate.Execute(&body, LeadWelcomeData{Email: to, AppURL: s.AppURL}); err != nil {
		return nil, fmt.Errorf("render welcome template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", "Welcome to Nexmart: your category insights are on the way")
	m.SetBody("text/html", body.String())
	return m, nil
}
