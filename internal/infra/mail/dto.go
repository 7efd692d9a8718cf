package mail

type LeadWelcomeData struct {
	Email  string
	AppURL string
}

// EmailSender keeps SMTP credentials only inside its dialer.
type EmailSender struct {
	From   string
	AppURL string

	dialer dialer
}
