package mailer

import (
	"bytes"
	"fmt"
	"html/template"

	"gopkg.in/gomail.v2"

	"partnerlab-agent-be/internal/pkg/logger"
)

// Receipt is what the requester is told after a successful submission.
type Receipt struct {
	RequestID   uint
	CompanyName string
	ProjectName string
	StartDate   string
	Cloud       string
}

type IEmailService interface {
	SendRequestReceived(toEmail string, receipt Receipt) error
}

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailService struct {
	dialer      dialer
	senderEmail string
	logger      logger.ILogger
}

var receiptTemplate = template.Must(template.New("receipt").Parse(`
<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
	<h2>Lab request received</h2>
	<p>Your request <strong>#{{.RequestID}}</strong> for <strong>{{.ProjectName}}</strong> ({{.CompanyName}}) is pending review.</p>
	<p>Desired start: {{.StartDate}}<br>Cloud provider: {{.Cloud}}</p>
	<p>We will contact you once the request has been evaluated.</p>
</div>
`))

func NewEmailService(host string, port int, username, password, senderEmail string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: senderEmail,
		logger:      log,
	}
}

func (s *emailService) SendRequestReceived(toEmail string, receipt Receipt) error {
	body, err := renderReceipt(receipt)
	if err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", s.senderEmail)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Lab request #%d received", receipt.RequestID))
	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("MAILER", "Failed to send receipt", map[string]interface{}{
			"to":         toEmail,
			"request_id": receipt.RequestID,
			"error":      err.Error(),
		})
		return err
	}

	s.logger.Info("MAILER", "Receipt sent", map[string]interface{}{
		"to":         toEmail,
		"request_id": receipt.RequestID,
	})
	return nil
}

func renderReceipt(receipt Receipt) (string, error) {
	var body bytes.Buffer
	if err := receiptTemplate.Execute(&body, receipt); err != nil {
		return "", fmt.Errorf("render receipt: %w", err)
	}
	return body.String(), nil
}

type noopEmailService struct {
	logger logger.ILogger
}

// NewNoopEmailService is used when no SMTP host is configured.
func NewNoopEmailService(log logger.ILogger) IEmailService {
	return &noopEmailService{logger: log}
}

func (s *noopEmailService) SendRequestReceived(toEmail string, receipt Receipt) error {
	s.logger.Debug("MAILER", "SMTP disabled, receipt not sent", map[string]interface{}{
		"to":         toEmail,
		"request_id": receipt.RequestID,
	})
	return nil
}
