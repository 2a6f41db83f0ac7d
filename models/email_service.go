package models

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/gomail.v2"
)

type EmailService struct {
	dialer *gomail.Dialer
}

func NewEmailService() (*EmailService, error) {
	smtpHost := os.Getenv("SMTP_HOST")
	smtpPort := os.Getenv("SMTP_PORT")
	smtpUser := os.Getenv("SMTP_USER")
	smtpPass := os.Getenv("SMTP_PASS")

	if smtpHost == "" || smtpUser == "" || smtpPass == "" {
		return nil, fmt.Errorf("SMTP configuration missing")
	}

	port, err := strconv.Atoi(smtpPort)
	if err != nil {
		port = 587
	}

	dialer := gomail.NewDialer(smtpHost, port, smtpUser, smtpPass)

	return &EmailService{dialer: dialer}, nil
}

// SendOrderNotification tells the store a new order came in. The customer is
// reached over WhatsApp, not email, so this goes to the store's own inbox.
func (s *EmailService) SendOrderNotification(toEmail string, order Order) error {
	m := gomail.NewMessage()
	m.SetHeader("From", os.Getenv("SMTP_FROM"))
	m.SetHeader("To", toEmail)
	m.SetHeader("Subject", fmt.Sprintf("Novo Pedido #%s - Tambaqui Prime", order.ID))

	var items strings.Builder
	for _, item := range order.Items {
		line := fmt.Sprintf("<li>%skg %s", item.Quantity.String(), item.Name)
		if item.SelectedOption != "" {
			line += fmt.Sprintf(" (%s)", item.SelectedOption)
		}
		items.WriteString(line + "</li>")
	}

	body := fmt.Sprintf(`
<!DOCTYPE html>
<html>
<head>
    <style>
        body { font-family: Arial, sans-serif; background-color: #f4f4f4; padding: 20px; }
        .container { max-width: 600px; margin: 0 auto; background-color: white; padding: 30px; border-radius: 10px; box-shadow: 0 2px 10px rgba(0,0,0,0.1); }
        .header { text-align: center; margin-bottom: 30px; }
        .logo { font-size: 24px; font-weight: bold; color: #0ea5e9; }
        .order-box { background-color: #f0f9ff; padding: 20px; margin: 20px 0; border-radius: 8px; }
        .footer { text-align: center; margin-top: 30px; color: #666; font-size: 12px; }
    </style>
</head>
<body>
    <div class="container">
        <div class="header">
            <div class="logo">Tambaqui Prime</div>
        </div>
        <h2 style="color: #333;">Novo Pedido Recebido</h2>

        <div class="order-box">
            <p><strong>Pedido:</strong> #%s</p>
            <p><strong>Cliente:</strong> %s (%s)</p>
            <p><strong>Endere&ccedil;o:</strong> %s, %s - %s</p>
            <p><strong>Itens:</strong></p>
            <ul>%s</ul>
            <p><strong>Pagamento:</strong> %s</p>
            <p><strong>Total:</strong> R$ %s</p>
        </div>

        <div class="footer">
            <p>Tambaqui Prime - Sabor Amaz&ocirc;nico</p>
        </div>
    </div>
</body>
</html>
	`,
		order.ID,
		order.CustomerName,
		order.WhatsApp,
		order.DeliveryDetails.Street,
		order.DeliveryDetails.Number,
		order.DeliveryDetails.Neighborhood,
		items.String(),
		order.PaymentMethod,
		order.Total.StringFixed(2),
	)

	m.SetBody("text/html", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	return nil
}
