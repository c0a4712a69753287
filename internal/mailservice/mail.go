package mailservice

import (
	"strings"
	"time"

	"github.com/go-mail/mail/v2"
)

const dialTimeout = 5 * time.Second

// NewMailer returns the SMTP mailer that delivers moderator notifications
// from sender, rendering each mail with tp.
func NewMailer(host string, port int, username, password, sender string, tp *Template) *Mail {
	dialer := mail.NewDialer(host, port, username, password)
	dialer.Timeout = dialTimeout

	return &Mail{
		dialer: dialer,
		sender: sender,
		parser: tp,
	}
}

// send renders templateFile with data and mails it to recipient as a
// multipart plain text and HTML message. Sends are serialized on one dialer.
func (m *Mail) send(recipient string, data any, templateFile string) error {
	subject, plainBody, htmlBody, err := m.parser.ParseTemplate(templateFile, data)
	if err != nil {
		return err
	}

	msg := mail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", recipient)
	msg.SetHeader("Subject", strings.TrimSpace(subject.String()))
	msg.SetBody("text/plain", plainBody.String())
	msg.AddAlternative("text/html", htmlBody.String())

	m.mu.Lock()
	defer m.mu.Unlock()

	return m.dialer.DialAndSend(msg)
}
