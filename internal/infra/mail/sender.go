package mail

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"github.com/xavierca1/seller-console/internal/entity"
)

//go:embed templates/*.html
var templates embed.FS

var alertTemplate = template.Must(template.ParseFS(templates, "templates/alert.html"))

// dialer is satisfied by *gomail.Dialer.
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

func NewEmailSender(host string, port int, user, password, from, to string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
		To:       to,
	}
}

// AlertSender mails error notifications to the operations inbox.
type AlertSender struct {
	cfg    EmailSender
	dialer dialer
}

func NewAlertSender(cfg *EmailSender) *AlertSender {
	return &AlertSender{
		cfg:    *cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password),
	}
}

func (s *AlertSender) SendAlert(ctx context.Context, n entity.Notification) error {
	if s.cfg.To == "" {
		return errors.New("destinatário de alerta não configurado")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	m, err := s.buildMessage(n)
	if err != nil {
		return err
	}
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("erro ao enviar email SMTP: %w", err)
	}
	return nil
}

func (s *AlertSender) buildMessage(n entity.Notification) (*gomail.Message, error) {
	data := AlertEmailData{
		Title:     n.Title,
		Message:   n.Message,
		Type:      string(n.Type),
		ID:        n.ID,
		CreatedAt: n.CreatedAt.UTC(),
	}

	var body bytes.Buffer
	if err := alertTemplate.Execute(&body, data); err != nil {
		return nil, fmt.Errorf("erro ao processar template: %w", err)
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", s.cfg.To)
	m.SetHeader("Subject", fmt.Sprintf("[Seller Console] %s", n.Title))
	m.SetBody("text/html", body.String())
	return m, nil
}
