package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"fanhouse/pkg/logger"
	"fanhouse/pkg/queue"

	"github.com/resend/resend-go/v2"
)

// Recipient resolves the address a user's notifications go to.
type Recipient interface {
	EmailFor(ctx context.Context, userID string) (string, error)
}

type Sender interface {
	Send(ctx context.Context, to, subject, html string) error
}

type ResendSender struct {
	client *resend.Client
	from   string
}

func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

func (s *ResendSender) Send(ctx context.Context, to, subject, html string) error {
	_, err := s.client.Emails.SendWithContext(ctx, &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}

type LogSender struct {
	log *logger.Logger
}

func NewLogSender(log *logger.Logger) *LogSender {
	return &LogSender{log: log}
}

func (s *LogSender) Send(ctx context.Context, to, subject, html string) error {
	s.log.Info("[EMAIL] to=%s subject=%q", to, subject)
	return nil
}

type emailTemplate struct {
	subject string
	body    *template.Template
}

var templates = map[string]emailTemplate{
	TypeNewPost: {
		subject: "New post from a creator you follow",
		body: template.Must(template.New(TypeNewPost).Parse(
			`<p>{{.message}}</p><p><a href="{{.link}}">{{with .title}}{{.}}{{else}}View post{{end}}</a></p>`)),
	},
}

var fallbackTemplate = emailTemplate{
	subject: "You have a new notification",
	body:    template.Must(template.New("default").Parse(`<p>{{.message}}</p>`)),
}

// Dispatcher turns queued tasks into emails.
type Dispatcher struct {
	recipients Recipient
	sender     Sender
	log        *logger.Logger
}

func NewDispatcher(recipients Recipient, sender Sender, log *logger.Logger) *Dispatcher {
	return &Dispatcher{recipients: recipients, sender: sender, log: log}
}

func (d *Dispatcher) Handle(ctx context.Context, task queue.NotificationTask) error {
	to, err := d.recipients.EmailFor(ctx, task.UserID)
	if err != nil {
		return fmt.Errorf("failed to resolve recipient %s: %w", task.UserID, err)
	}

	subject, html, err := Render(task)
	if err != nil {
		return err
	}

	if err := d.sender.Send(ctx, to, subject, html); err != nil {
		return err
	}
	d.log.Info("Dispatched %s notification to user %s", task.Type, task.UserID)
	return nil
}

func Render(task queue.NotificationTask) (string, string, error) {
	tmpl, ok := templates[task.Type]
	if !ok {
		tmpl = fallbackTemplate
	}

	data := task.Data
	if data == nil {
		data = map[string]interface{}{}
	}

	var body bytes.Buffer
	if err := tmpl.body.Execute(&body, data); err != nil {
		return "", "", fmt.Errorf("failed to render %s email: %w", task.Type, err)
	}
	return tmpl.subject, body.String(), nil
}
