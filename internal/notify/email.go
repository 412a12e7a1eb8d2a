// Package notify delivers new-job digests. Channels are independent and
// best-effort: a failed send is logged, never fatal to the run.
package notify

import (
	"fmt"
	"html"
	"log"
	"net/smtp"
	"strings"

	"jobradar-engine/internal/config"
	"jobradar-engine/internal/domain"
	"jobradar-engine/internal/secrets"
)

type EmailSender struct {
	cfg config.Config
}

func NewEmailSender(cfg config.Config) *EmailSender {
	return &EmailSender{cfg: cfg}
}

func (e *EmailSender) Name() string { return "email" }

// Send mails the digest over SMTP with STARTTLS. An empty job list is a
// quiet no-op.
func (e *EmailSender) Send(jobs []domain.Job) error {
	if len(jobs) == 0 {
		return nil
	}
	em := e.cfg.Notify.Email

	password, err := secrets.GetSMTPPassword(secrets.SMTPKeyringAccount(e.cfg))
	if err != nil {
		return fmt.Errorf("email notify: %w", err)
	}

	msg := buildMessage(em.From, em.To, emailSubject(len(jobs)), FormatText(jobs), FormatHTML(jobs))
	addr := fmt.Sprintf("%s:%d", em.SMTPHost, em.SMTPPort)
	auth := smtp.PlainAuth("", em.From, password, em.SMTPHost)

	if err := smtp.SendMail(addr, auth, em.From, []string{em.To}, msg); err != nil {
		return fmt.Errorf("send mail via %s: %w", addr, err)
	}
	log.Printf("[notify:email] sent jobs=%d to=%q", len(jobs), em.To)
	return nil
}

func emailSubject(n int) string {
	noun := "positions"
	if n == 1 {
		noun = "position"
	}
	return fmt.Sprintf("New Job Alerts - %d %s found", n, noun)
}

// buildMessage assembles a multipart/alternative MIME message so clients
// without HTML still get a readable digest.
func buildMessage(from, to, subject, textBody, htmlBody string) []byte {
	const boundary = "jobradar-alt-boundary"

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	b.WriteString(textBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s\r\n", boundary)
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n\r\n")
	b.WriteString(htmlBody)
	b.WriteString("\r\n")

	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

func FormatText(jobs []domain.Job) string {
	var b strings.Builder
	fmt.Fprintf(&b, "New Jobs Found (%d positions):\n\n", len(jobs))
	for _, j := range jobs {
		fmt.Fprintf(&b, "Company: %s\n", j.Company)
		fmt.Fprintf(&b, "Title: %s\n", j.Title)
		fmt.Fprintf(&b, "Location: %s\n", j.Location)
		link := j.URL
		if link == "" {
			link = "N/A"
		}
		fmt.Fprintf(&b, "Link: %s\n\n", link)
		b.WriteString(strings.Repeat("-", 50) + "\n\n")
	}
	return b.String()
}

func FormatHTML(jobs []domain.Job) string {
	var b strings.Builder
	b.WriteString(`<html><body style="font-family: Arial, sans-serif; color: #333;">`)
	b.WriteString(`<h2>New Job Alerts</h2>`)
	fmt.Fprintf(&b, "<p>Found <strong>%d</strong> new posting(s):</p>", len(jobs))
	for _, j := range jobs {
		b.WriteString(`<div style="margin-bottom: 20px; padding: 12px; border-left: 4px solid #4CAF50; background: #f9f9f9;">`)
		fmt.Fprintf(&b, `<div style="font-weight: bold; color: #2196F3;">%s</div>`, html.EscapeString(j.Company))
		fmt.Fprintf(&b, `<div style="font-weight: bold;">%s</div>`, html.EscapeString(j.Title))
		fmt.Fprintf(&b, `<div style="color: #666;">%s</div>`, html.EscapeString(j.Location))
		if j.URL != "" {
			fmt.Fprintf(&b, `<div><a href=%q>View Job Posting</a></div>`, j.URL)
		}
		b.WriteString(`</div>`)
	}
	b.WriteString(`<p style="color: #999; font-size: 12px;">Automated message from jobradar</p>`)
	b.WriteString(`</body></html>`)
	return b.String()
}
