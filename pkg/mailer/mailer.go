package mailer

import (
	"bytes"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"

	"github.com/drukmenu/drukmenu-backend/config"
	"github.com/drukmenu/drukmenu-backend/pkg/logger"
)

// SendFunc matches smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// Mailer sends transactional HTML mail over SMTP. With no credentials
// configured it only logs what would have been sent.
type Mailer struct {
	cfg  config.SMTPConfig
	send SendFunc
}

func New(cfg config.SMTPConfig) *Mailer {
	return &Mailer{cfg: cfg, send: smtp.SendMail}
}

// NewWithSender is used by tests to capture outgoing messages.
func NewWithSender(cfg config.SMTPConfig, send SendFunc) *Mailer {
	return &Mailer{cfg: cfg, send: send}
}

// StatusNotice describes a change of a business's approval status.
type StatusNotice struct {
	To           string
	OwnerName    string
	BusinessName string
	Status       string // approved, rejected, suspended, reactivated
	Reason       string
}

var noticeTemplate = template.Must(template.New("notice").Parse(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px;">
		<h1 style="color: #333; margin-bottom: 20px;">{{.Headline}}</h1>
		<p style="color: #666; line-height: 1.6;">Hello {{.OwnerName}},</p>
		<p style="color: #666; line-height: 1.6;">{{.Body}}</p>
		{{if .Reason}}<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px;">{{.Reason}}</div>{{end}}
	</div>
</body>
</html>
`))

type noticeView struct {
	Headline  string
	OwnerName string
	Body      string
	Reason    string
}

func buildNotice(n StatusNotice) (subject string, view noticeView) {
	view = noticeView{OwnerName: n.OwnerName, Reason: n.Reason}
	switch n.Status {
	case "approved":
		subject = fmt.Sprintf("%s is approved", n.BusinessName)
		view.Headline = "Your restaurant is live"
		view.Body = fmt.Sprintf("%s has been approved. Your menu is now visible to customers who scan your table QR codes.", n.BusinessName)
	case "rejected":
		subject = fmt.Sprintf("%s registration was not approved", n.BusinessName)
		view.Headline = "Registration not approved"
		view.Body = fmt.Sprintf("We could not approve %s at this time.", n.BusinessName)
	case "suspended":
		subject = fmt.Sprintf("%s has been suspended", n.BusinessName)
		view.Headline = "Restaurant suspended"
		view.Body = fmt.Sprintf("%s has been suspended and its public menu is no longer reachable.", n.BusinessName)
	default:
		subject = fmt.Sprintf("%s has been reactivated", n.BusinessName)
		view.Headline = "Restaurant reactivated"
		view.Body = fmt.Sprintf("%s is active again and its public menu is reachable.", n.BusinessName)
	}
	return subject, view
}

// SendStatusNotice mails the owner about a status change.
func (m *Mailer) SendStatusNotice(n StatusNotice) error {
	subject, view := buildNotice(n)

	if !m.cfg.Enabled() {
		logger.Info("[DEV MODE] status notice not sent, SMTP not configured", map[string]interface{}{
			"to":      n.To,
			"subject": subject,
		})
		return nil
	}

	var body bytes.Buffer
	if err := noticeTemplate.Execute(&body, view); err != nil {
		return fmt.Errorf("failed to render status notice: %w", err)
	}

	from := m.cfg.From
	if from == "" {
		from = m.cfg.Username
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		from, n.To, sanitizeHeader(subject), body.String(),
	))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	if err := m.send(m.cfg.Host+":"+m.cfg.Port, auth, from, []string{n.To}, message); err != nil {
		logger.Error("Failed to send status notice", err, map[string]interface{}{
			"to": n.To,
		})
		return fmt.Errorf("failed to send email: %w", err)
	}

	logger.Info("Status notice sent", map[string]interface{}{
		"to":     n.To,
		"status": n.Status,
	})
	return nil
}

func sanitizeHeader(s string) string {
	return strings.NewReplacer("\r", " ", "\n", " ").Replace(s)
}
