package email

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"net/smtp"
	"strings"
)

// ErrNotConfigured is returned when no SMTP host is set
var ErrNotConfigured = errors.New("email: smtp not configured")

// EmailConfig holds SMTP configuration
type EmailConfig struct {
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	FromName     string
	FromEmail    string
	StoreName    string
}

// SendFunc matches smtp.SendMail
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// EmailService handles email sending
type EmailService struct {
	config EmailConfig
	send   SendFunc
}

// NewEmailService creates a new email service
func NewEmailService(config EmailConfig) *EmailService {
	return &EmailService{config: config, send: smtp.SendMail}
}

// WithSender replaces the SMTP transport, mainly for tests
func (s *EmailService) WithSender(fn SendFunc) *EmailService {
	s.send = fn
	return s
}

// Enabled reports whether an SMTP host is configured
func (s *EmailService) Enabled() bool {
	return s.config.SMTPHost != ""
}

// OrderReadyLine is one item in the ready-for-pickup email
type OrderReadyLine struct {
	Name     string
	Quantity int
}

// OrderReadyData is the content of the ready-for-pickup email. Amounts are preformatted.
type OrderReadyData struct {
	CustomerName   string
	OrderNo        string
	CollectionDate string
	Items          []OrderReadyLine
	Total          string
	Due            string
}

// SendOrderReadyEmail tells the customer their order can be collected
func (s *EmailService) SendOrderReadyEmail(toEmail string, data OrderReadyData) error {
	if !s.Enabled() {
		return ErrNotConfigured
	}
	if strings.TrimSpace(toEmail) == "" {
		return errors.New("email: recipient is empty")
	}

	htmlContent, err := s.renderOrderReadyEmail(data)
	if err != nil {
		return fmt.Errorf("failed to render email template: %w", err)
	}

	subject := fmt.Sprintf("Your order %s is ready for pickup - %s", data.OrderNo, s.storeName())
	message := s.buildHTMLEmail(toEmail, subject, htmlContent)

	return s.sendEmail(toEmail, message)
}

// sendEmail sends an email using SMTP
func (s *EmailService) sendEmail(to string, message []byte) error {
	addr := fmt.Sprintf("%s:%d", s.config.SMTPHost, s.config.SMTPPort)

	var auth smtp.Auth
	if s.config.SMTPUsername != "" {
		auth = smtp.PlainAuth("", s.config.SMTPUsername, s.config.SMTPPassword, s.config.SMTPHost)
	}

	if err := s.send(addr, auth, s.config.FromEmail, []string{to}, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}

// buildHTMLEmail builds an HTML email message
func (s *EmailService) buildHTMLEmail(to, subject, htmlBody string) []byte {
	headers := fmt.Sprintf(
		"From: %s <%s>\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=\"UTF-8\"\r\n"+
			"\r\n",
		s.config.FromName,
		s.config.FromEmail,
		to,
		subject,
	)

	return []byte(headers + htmlBody)
}

func (s *EmailService) storeName() string {
	if s.config.StoreName != "" {
		return s.config.StoreName
	}
	return s.config.FromName
}

var orderReadyTmpl = template.Must(template.New("order_ready").Parse(orderReadyTemplate))

func (s *EmailService) renderOrderReadyEmail(data OrderReadyData) (string, error) {
	view := struct {
		OrderReadyData
		StoreName string
	}{
		OrderReadyData: data,
		StoreName:      s.storeName(),
	}

	var buf bytes.Buffer
	if err := orderReadyTmpl.Execute(&buf, view); err != nil {
		return "", err
	}

	return buf.String(), nil
}

const orderReadyTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="UTF-8">
    <title>Your order is ready</title>
</head>
<body style="margin: 0; padding: 0; font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; background-color: #f4f7fa;">
    <table role="presentation" style="max-width: 600px; margin: 40px auto; background-color: #ffffff; border-radius: 12px;">
        <tr>
            <td style="background-color: #2b6cb0; padding: 30px; text-align: center;">
                <h1 style="color: #ffffff; margin: 0; font-size: 26px;">{{.StoreName}}</h1>
            </td>
        </tr>
        <tr>
            <td style="padding: 30px;">
                <p style="color: #4a5568; font-size: 16px;">Hello {{.CustomerName}},</p>
                <p style="color: #4a5568; font-size: 16px;">
                    Your order <strong>{{.OrderNo}}</strong> is ready for pickup.
                </p>
                <table style="width: 100%; border-collapse: collapse; margin: 20px 0;">
                    {{range .Items}}
                    <tr>
                        <td style="padding: 6px 0; color: #2d3748;">{{.Name}}</td>
                        <td style="padding: 6px 0; color: #2d3748; text-align: right;">x{{.Quantity}}</td>
                    </tr>
                    {{end}}
                </table>
                <p style="color: #2d3748; font-size: 16px;">Total: <strong>{{.Total}}</strong></p>
                {{if .Due}}<p style="color: #c53030; font-size: 16px;">Amount due at pickup: <strong>{{.Due}}</strong></p>{{end}}
                {{if .CollectionDate}}<p style="color: #718096; font-size: 14px;">Expected collection date: {{.CollectionDate}}</p>{{end}}
            </td>
        </tr>
        <tr>
            <td style="background-color: #f8fafc; padding: 20px; text-align: center; color: #a0aec0; font-size: 13px;">
                This email was sent by {{.StoreName}}
            </td>
        </tr>
    </table>
</body>
</html>
`
