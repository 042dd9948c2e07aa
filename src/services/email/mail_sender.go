package email

import (
	"fmt"
	"strings"

	gomail "gopkg.in/gomail.v2"

	"Auto-Checkin-EHR/src/config"
)

type MailSender interface {
	Send(subject, body string) error
}

type SMTPSender struct {
	Host string
	Port int
	User string
	Pass string
	To   string
}

func NewSMTPSender(cfg *config.Config) (*SMTPSender, error) {
	missing := []string{}
	if cfg.SMTPHost == "" {
		missing = append(missing, "SMTP_SERVER")
	}
	if cfg.SMTPUser == "" {
		missing = append(missing, "SMTP_USER")
	}
	if cfg.SMTPPass == "" {
		missing = append(missing, "SMTP_PASS")
	}
	if cfg.EmailTo == "" {
		missing = append(missing, "EMAIL_TO")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing SMTP env: %v", strings.Join(missing, ", "))
	}
	return &SMTPSender{
		Host: cfg.SMTPHost, Port: cfg.SMTPPort,
		User: cfg.SMTPUser, Pass: cfg.SMTPPass, To: cfg.EmailTo,
	}, nil
}

func (s *SMTPSender) Send(subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.User)
	m.SetHeader("To", s.To)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Pass)
	return d.DialAndSend(m)
}
