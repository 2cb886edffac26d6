package mailer

import (
	"fmt"
	"html"

	"howdy-portal-be/internal/pkg/logger"

	"gopkg.in/gomail.v2"
)

// Receipt is what a settled tuition payment email shows.
type Receipt struct {
	OrderID  string
	Username string
	Item     string
	Amount   int64
}

type IEmailService interface {
	SendPaymentReceipt(toEmail string, receipt Receipt) error
}

type emailService struct {
	dialer      *gomail.Dialer
	senderEmail string
	senderName  string
	portalURL   string
	logger      logger.ILogger
}

func NewEmailService(host string, port int, username, password, senderName, portalURL string, log logger.ILogger) IEmailService {
	return &emailService{
		dialer:      gomail.NewDialer(host, port, username, password),
		senderEmail: username,
		senderName:  senderName,
		portalURL:   portalURL,
		logger:      log,
	}
}

func (s *emailService) SendPaymentReceipt(toEmail string, receipt Receipt) error {
	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.senderEmail, s.senderName)
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", "Howdy! Your payment was received")
	m.SetBody("text/html", receiptBody(receipt, s.portalURL))

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error("Mailer", "Failed to send receipt", map[string]interface{}{
			"order_id": receipt.OrderID,
			"error":    err.Error(),
		})
		return err
	}

	s.logger.Info("Mailer", "Receipt sent", map[string]interface{}{"order_id": receipt.OrderID})
	return nil
}

func receiptBody(r Receipt, portalURL string) string {
	return fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; padding: 20px; color: #333;">
			<h2 style="color: #500000;">Howdy, %s!</h2>
			<p>We received your payment for <strong>%s</strong>.</p>
			<p>Amount: <strong>%s</strong></p>
			<p>Order: %s</p>
			<p><a href="%s" style="color: #500000;">Back to the portal</a></p>
			<p>Gig 'em!</p>
		</div>
	`, html.EscapeString(r.Username), html.EscapeString(r.Item), FormatAmount(r.Amount), html.EscapeString(r.OrderID), html.EscapeString(portalURL))
}

// FormatAmount renders whole currency units with thousands separators,
// e.g. 1500000 becomes "1,500,000".
func FormatAmount(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	digits := fmt.Sprintf("%d", amount)
	out := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, digits[i])
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// logOnlyEmailService stands in when SMTP is not configured.
type logOnlyEmailService struct {
	logger logger.ILogger
}

func NewLogOnlyEmailService(log logger.ILogger) IEmailService {
	return &logOnlyEmailService{logger: log}
}

func (s *logOnlyEmailService) SendPaymentReceipt(toEmail string, receipt Receipt) error {
	s.logger.Info("Mailer", "SMTP not configured, receipt not sent", map[string]interface{}{
		"order_id": receipt.OrderID,
		"to":       toEmail,
	})
	return nil
}
