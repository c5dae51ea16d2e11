// Package notify emails approvers when a submission reaches their stage.
package notify

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"sync"

	mail "github.com/go-mail/mail/v2"
)

type SMTPConfig struct {
	Host          string
	Port          int
	User          string
	Pass          string
	From          string
	SkipTLSVerify bool
}

type Message struct {
	To      []string
	Subject string
	HTML    string
}

type Notifier interface {
	Send(msg Message) error
}

type Mailer struct {
	cfg    SMTPConfig
	dialer *mail.Dialer
}

func NewMailer(cfg SMTPConfig) (*Mailer, error) {
	if cfg.Host == "" || cfg.From == "" {
		return nil, fmt.Errorf("smtp not configured (SMTP_HOST/SMTP_FROM)")
	}
	if cfg.Port == 0 {
		cfg.Port = 587
	}

	d := mail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	d.StartTLSPolicy = mail.MandatoryStartTLS
	d.TLSConfig = &tls.Config{
		ServerName:         cfg.Host,
		InsecureSkipVerify: cfg.SkipTLSVerify,
	}
	return &Mailer{cfg: cfg, dialer: d}, nil
}

func (m *Mailer) Send(msg Message) error {
	if len(msg.To) == 0 {
		return nil
	}

	message := mail.NewMessage()
	message.SetHeader("From", m.cfg.From)
	message.SetHeader("To", msg.To...)
	message.SetHeader("Subject", msg.Subject)
	message.SetBody("text/html", msg.HTML)

	return m.dialer.DialAndSend(message)
}

// Nop discards every message. Used when SMTP is not configured.
type Nop struct{}

func (Nop) Send(Message) error {
	return nil
}

// Outbox keeps sent messages in memory.
type Outbox struct {
	mu   sync.Mutex
	Sent []Message
}

func (o *Outbox) Send(msg Message) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.Sent = append(o.Sent, msg)
	return nil
}

type ApprovalRequest struct {
	ApproverName   string
	EmployeeName   string
	EmployeeNIK    string
	SubmissionDate string
	StartTime      string
	EndTime        string
	TotalHours     float64
	JobDescription string
	Stage          int
}

var approvalTemplate = template.Must(template.New("approval").Parse(`<p>Hello {{.ApproverName}},</p>
<p>{{.EmployeeName}} ({{.EmployeeNIK}}) submitted overtime that is waiting for your level {{.Stage}} approval.</p>
<table>
<tr><td>Date</td><td>{{.SubmissionDate}}</td></tr>
<tr><td>Time</td><td>{{.StartTime}} - {{.EndTime}}</td></tr>
<tr><td>Total hours</td><td>{{printf "%.2f" .TotalHours}}</td></tr>
<tr><td>Job description</td><td>{{.JobDescription}}</td></tr>
</table>`))

// ApprovalRequestMessage renders the mail sent to the approver of the next stage.
func ApprovalRequestMessage(to string, req ApprovalRequest) (Message, error) {
	var body bytes.Buffer
	if err := approvalTemplate.Execute(&body, req); err != nil {
		return Message{}, err
	}
	return Message{
		To:      []string{to},
		Subject: fmt.Sprintf("Overtime approval needed: %s (%s)", req.EmployeeName, req.SubmissionDate),
		HTML:    body.String(),
	}, nil
}
