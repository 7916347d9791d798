package infra

import (
	"fmt"
	"net/smtp"

	"inventario/internal/config"

	"github.com/jordan-wright/email"
)

// Mailer wraps SMTP configuration for outgoing notifications.
type Mailer struct {
	host     string
	user     string
	password string
	addr     string
}

func NewMailer(cfg *config.Config) *Mailer {
	return &Mailer{
		host:     cfg.SMTPHost,
		user:     cfg.SMTPUser,
		password: cfg.SMTPPassword,
		addr:     fmt.Sprintf("%s:%d", cfg.SMTPHost, cfg.SMTPPort),
	}
}

// SendAlertaStock notifies that a product fell below the low-stock threshold.
func (m *Mailer) SendAlertaStock(to, codigo, nombre string, stock int) error {
	e := email.NewEmail()
	e.From = m.user
	e.To = []string{to}
	e.Subject = fmt.Sprintf("Stock bajo: %s (%s)", nombre, codigo)
	e.Text = []byte(fmt.Sprintf(
		"El producto %s (código %s) quedó con %d unidades en stock.\n", nombre, codigo, stock))

	var auth smtp.Auth
	if m.user != "" {
		auth = smtp.PlainAuth("", m.user, m.password, m.host)
	}
	if err := e.Send(m.addr, auth); err != nil {
		return fmt.Errorf("mailer: send alerta: %w", err)
	}
	return nil
}
