package services

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/resend/resend-go/v2"
	"gopkg.in/gomail.v2"
)

const emailSendTimeout = 15 * time.Second

type EmailType string

const (
	EmailInvite             EmailType = "INVITE"
	EmailWelcome            EmailType = "WELCOME"
	EmailPaymentApproved    EmailType = "PAYMENT_APPROVED"
	EmailVerificationUpdate EmailType = "VERIFICATION_UPDATE"
	EmailGeneric            EmailType = "GENERIC"
)

// EmailPayload carries the template fields of every notification type;
// each template reads only the fields it needs.
type EmailPayload struct {
	To         string `json:"email"`
	Name       string `json:"name"`
	CoachName  string `json:"coachName,omitempty"`
	InviteCode string `json:"inviteCode,omitempty"`
	Months     int    `json:"months,omitempty"`
	ExpiryDate string `json:"expiryDate,omitempty"`
	Status     string `json:"status,omitempty"`
	Subject    string `json:"subject,omitempty"`
	Message    string `json:"message,omitempty"`
}

type EmailMessage struct {
	To      string
	Subject string
	HTML    string
}

type EmailSender interface {
	Send(ctx context.Context, msg EmailMessage) error
}

type emailTemplate struct {
	subject string
	body    *template.Template
}

var emailTemplates = map[EmailType]emailTemplate{
	EmailInvite: {
		subject: "You're invited to train with {{.CoachName}}",
		body: template.Must(template.New("invite").Parse(
			`<p>Hi {{.Name}},</p><p>{{.CoachName}} invited you to FitPro. Use the code <strong>{{.InviteCode}}</strong> to connect.</p>`)),
	},
	EmailWelcome: {
		subject: "Welcome to FitPro",
		body: template.Must(template.New("welcome").Parse(
			`<p>Hi {{.Name}},</p><p>Your FitPro account is ready.</p>`)),
	},
	EmailPaymentApproved: {
		subject: "Your Premium subscription is active",
		body: template.Must(template.New("payment").Parse(
			`<p>Hi {{.Name}},</p><p>Your payment was approved. Premium is active for {{.Months}} month(s){{if .ExpiryDate}}, until {{.ExpiryDate}}{{end}}.</p>`)),
	},
	EmailVerificationUpdate: {
		subject: "Coach verification: {{.Status}}",
		body: template.Must(template.New("verification").Parse(
			`<p>Hi {{.Name}},</p><p>Your coach verification status is now <strong>{{.Status}}</strong>.</p>`)),
	},
	EmailGeneric: {
		subject: "{{.Subject}}",
		body: template.Must(template.New("generic").Parse(
			`<p>Hi {{.Name}},</p><p>{{.Message}}</p>`)),
	},
}

func ParseEmailType(s string) (EmailType, bool) {
	t := EmailType(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := emailTemplates[t]
	return t, ok
}

// RenderEmail builds the subject and HTML body of a notification.
func RenderEmail(kind EmailType, p EmailPayload) (EmailMessage, error) {
	tpl, ok := emailTemplates[kind]
	if !ok {
		return EmailMessage{}, ErrInvalidInput
	}
	if strings.TrimSpace(p.To) == "" {
		return EmailMessage{}, ErrInvalidInput
	}
	if p.Name == "" {
		p.Name = "User"
	}
	if kind == EmailGeneric && strings.TrimSpace(p.Subject) == "" {
		return EmailMessage{}, ErrInvalidInput
	}

	subject, err := renderSubject(tpl.subject, p)
	if err != nil {
		return EmailMessage{}, err
	}
	var body bytes.Buffer
	if err := tpl.body.Execute(&body, p); err != nil {
		return EmailMessage{}, fmt.Errorf("render %s email: %w", kind, err)
	}
	return EmailMessage{To: p.To, Subject: subject, HTML: body.String()}, nil
}

func renderSubject(text string, p EmailPayload) (string, error) {
	if !strings.Contains(text, "{{") {
		return text, nil
	}
	tpl, err := template.New("subject").Parse(text)
	if err != nil {
		return "", err
	}
	var out strings.Builder
	if err := tpl.Execute(&out, p); err != nil {
		return "", err
	}
	return out.String(), nil
}

// EmailService sends notifications in the background. Dispatch returns as
// soon as the message is rendered; delivery failures are only logged.
type EmailService struct {
	sender EmailSender
	wg     sync.WaitGroup
}

func NewEmailService(sender EmailSender) *EmailService {
	if sender == nil {
		sender = LogSender{}
	}
	return &EmailService{sender: sender}
}

func (s *EmailService) Dispatch(kind EmailType, p EmailPayload) error {
	msg, err := RenderEmail(kind, p)
	if err != nil {
		return err
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), emailSendTimeout)
		defer cancel()
		if err := s.sender.Send(ctx, msg); err != nil {
			slog.Error("send email", "type", kind, "to", msg.To, "error", err)
			return
		}
		slog.Info("email sent", "type", kind, "to", msg.To)
	}()
	return nil
}

// Wait blocks until in-flight sends finish.
func (s *EmailService) Wait() {
	s.wg.Wait()
}

type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{
		client: resend.NewClient(apiKey),
		from:   from,
	}
}

func (s *ResendSender) Send(ctx context.Context, msg EmailMessage) error {
	sent, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{msg.To},
		Subject: msg.Subject,
		Html:    msg.HTML,
	})
	if err != nil {
		return fmt.Errorf("resend send: %w", err)
	}
	slog.Debug("resend accepted email", "message_id", sent.Id)
	return nil
}

type SMTPSender struct {
	dialer *gomail.Dialer
	from   string
}

func NewSMTPSender(host string, port int, username, password, from string) *SMTPSender {
	return &SMTPSender{
		dialer: gomail.NewDialer(host, port, username, password),
		from:   from,
	}
}

// Send ignores ctx cancellation once the SMTP dialog has started.
func (s *SMTPSender) Send(ctx context.Context, msg EmailMessage) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m := gomail.NewMessage()
	m.SetHeader("From", s.from)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}

// LogSender only records the message; used when no provider is configured.
type LogSender struct{}

func (LogSender) Send(_ context.Context, msg EmailMessage) error {
	slog.Info("email not delivered, no provider configured", "to", msg.To, "subject", msg.Subject)
	return nil
}
