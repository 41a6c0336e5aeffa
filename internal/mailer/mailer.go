// internal/mailer/mailer.go
//
// Plain-text SMTP mail: OTP login codes and thank-you notes for contact
// and review submissions. Configured entirely from environment variables;
// an unconfigured mailer reports ErrNotConfigured instead of sending.

package mailer

import (
	"errors"
	"fmt"
	"net/smtp"
	"os"
	"strconv"
	"strings"
)

// ErrNotConfigured is returned when the SMTP env vars are absent.
var ErrNotConfigured = errors.New("smtp not configured")

// Mailer sends plain-text mail over authenticated SMTP.
type Mailer struct {
	host string
	port int
	user string
	pass string
	from string
}

// FromEnv builds a Mailer from SMTP_HOST/SMTP_PORT/SMTP_USER/SMTP_PASS/
// SMTP_FROM. Port defaults to 587.
func FromEnv() *Mailer {
	port := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			port = n
		}
	}
	return &Mailer{
		host: os.Getenv("SMTP_HOST"),
		port: port,
		user: os.Getenv("SMTP_USER"),
		pass: os.Getenv("SMTP_PASS"),
		from: os.Getenv("SMTP_FROM"),
	}
}

// Configured reports whether sending is possible.
func (m *Mailer) Configured() bool {
	return m.host != "" && m.user != "" && m.pass != "" && m.from != ""
}

// Send delivers one plain-text message.
func (m *Mailer) Send(to, subject, body string) error {
	if !m.Configured() {
		return ErrNotConfigured
	}
	msg := strings.Join([]string{
		"From: " + m.from,
		"To: " + to,
		"Subject: " + subject,
		"MIME-Version: 1.0",
		"Content-Type: text/plain; charset=utf-8",
		"",
		body,
	}, "\r\n")

	addr := fmt.Sprintf("%s:%d", m.host, m.port)
	auth := smtp.PlainAuth("", m.user, m.pass, m.host)
	return smtp.SendMail(addr, auth, m.from, []string{to}, []byte(msg))
}

// SendOTP mails a login code.
func (m *Mailer) SendOTP(to, code string) error {
	body := fmt.Sprintf(
		"Your OTP for Banana Game login is: %s\n\nThis OTP is valid for 10 minutes.", code)
	return m.Send(to, "Your Banana Game Login OTP", body)
}

// SendContactThanks mails a thank-you note after a contact submission.
func (m *Mailer) SendContactThanks(to, name string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Thank you for contacting us! We have received your message and will get back to you as soon as possible.\n\n"+
			"Best regards,\nBanana Brain Blitz Team", name)
	return m.Send(to, "Thank You for Contacting Banana Brain Blitz!", body)
}

// SendReviewThanks mails a thank-you note after a review submission.
func (m *Mailer) SendReviewThanks(to, username, title string) error {
	body := fmt.Sprintf(
		"Hello %s,\n\n"+
			"Thank you for reviewing Banana Brain Blitz!\n\n"+
			"We have received your review titled %q. It will be published once approved.\n\n"+
			"Best regards,\nBanana Brain Blitz Team", username, title)
	return m.Send(to, "Thank You for Your Review - Banana Brain Blitz!", body)
}
