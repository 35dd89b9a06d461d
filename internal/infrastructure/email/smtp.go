package email

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"gopkg.in/gomail.v2"

	"github.com/nrjbutsecond/tessera/internal/domain/ticketing"
)

type SMTPConfig struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromAddress string
	FromName    string
}

// SMTPDelivery sends paid tickets by email with the QR image attached inline.
type SMTPDelivery struct {
	config SMTPConfig
	dialer *gomail.Dialer
	perks  *PerksRenderer
}

func NewSMTPDelivery(config SMTPConfig) *SMTPDelivery {
	return &SMTPDelivery{
		config: config,
		dialer: gomail.NewDialer(config.Host, config.Port, config.Username, config.Password),
		perks:  NewPerksRenderer(),
	}
}

func (s *SMTPDelivery) Deliver(ctx context.Context, payload *ticketing.DeliveryPayload) error {
	if payload == nil || payload.Attendee == nil || payload.Ticket == nil || payload.Class == nil {
		return fmt.Errorf("incomplete delivery payload")
	}

	perksHTML, err := s.perks.RenderHTML(payload.Class.Perks())
	if err != nil {
		return err
	}

	subject := fmt.Sprintf("Your ticket for %s", payload.EventTitle)
	if payload.EventTitle == "" {
		subject = "Your ticket is confirmed"
	}

	htmlBody := fmt.Sprintf(`
		<html>
		<body>
			<h2>You're in, %s!</h2>
			<p>Your <strong>%s</strong> ticket is confirmed.</p>
			<p>Ticket code: <strong>%s</strong></p>
			<p>Present the attached QR code at the entrance between %s and %s (UTC).</p>
			%s
		</body>
		</html>
	`,
		payload.Attendee.Name,
		payload.Class.Name(),
		payload.Ticket.Code(),
		payload.Ticket.ValidFrom().Format("Jan 2 15:04"),
		payload.Ticket.ValidUntil().Format("Jan 2 15:04"),
		perksSection(perksHTML),
	)

	plainBody := fmt.Sprintf(`
You're in, %s!

Your %s ticket is confirmed.
Ticket code: %s

Present the attached QR code at the entrance between %s and %s (UTC).
	`,
		payload.Attendee.Name,
		payload.Class.Name(),
		payload.Ticket.Code(),
		payload.Ticket.ValidFrom().Format("Jan 2 15:04"),
		payload.Ticket.ValidUntil().Format("Jan 2 15:04"),
	)

	m := gomail.NewMessage()
	m.SetHeader("From", m.FormatAddress(s.config.FromAddress, s.config.FromName))
	m.SetHeader("To", payload.Attendee.Email)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", plainBody)
	m.AddAlternative("text/html", htmlBody)

	if len(payload.QRImage) > 0 {
		image := payload.QRImage
		m.Attach(
			fmt.Sprintf("ticket-%s.png", payload.Ticket.Code()),
			gomail.SetCopyFunc(func(w io.Writer) error {
				_, err := w.Write(image)
				return err
			}),
		)
	}

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send ticket email: %w", err)
	}

	return nil
}

func perksSection(perksHTML string) string {
	if perksHTML == "" {
		return ""
	}
	var buf bytes.Buffer
	buf.WriteString("<h3>Included with your ticket</h3>")
	buf.WriteString(perksHTML)
	return buf.String()
}
