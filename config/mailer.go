package config

import (
	"crypto/tls"
	"fmt"
	"os"
	"strconv"

	mail "github.com/go-mail/mail/v2"
)

// SendMail delivers an HTML email through the configured SMTP relay.
// Settings are read from the environment at call time so a .env loaded in
// main is honored.
func SendMail(to []string, subject, html string) error {
	if len(to) == 0 {
		return nil
	}

	smtpHost := os.Getenv("SMTP_HOST")
	smtpFrom := os.Getenv("SMTP_FROM") // e.g. "Conference <no-reply@your.org>"
	if smtpHost == "" || smtpFrom == "" {
		return fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}

	smtpPort, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if smtpPort == 0 {
		smtpPort = 587
	}

	m := mail.NewMessage()
	m.SetHeader("From", smtpFrom)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", html)

	d := mail.NewDialer(smtpHost, smtpPort, os.Getenv("SMTP_USER"), os.Getenv("SMTP_PASS"))

	// Mandatory STARTTLS on 587 works with Gmail/Office365.
	d.StartTLSPolicy = mail.MandatoryStartTLS

	// ServerName must match the SMTP hostname; InsecureSkipVerify is dev-only.
	d.TLSConfig = &tls.Config{
		ServerName:         smtpHost,
		InsecureSkipVerify: os.Getenv("SMTP_SKIP_TLS_VERIFY") == "1",
	}

	return d.DialAndSend(m)
}
