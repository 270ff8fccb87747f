package notify

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"sazo-orders/internal/config"
	"sazo-orders/internal/model"
)

// EmailTransport sends the admin a summary email for each new order over
// SMTP. Construct it only when credentials are configured; an absent
// transport is the silent no-op the creation path expects.
type EmailTransport struct {
	cfg  config.SMTPConfig
	send func(addr string, auth smtp.Auth, from string, to []string, msg []byte) error
}

// NewEmailTransport creates an SMTP-backed email transport.
func NewEmailTransport(cfg config.SMTPConfig) *EmailTransport {
	return &EmailTransport{
		cfg:  cfg,
		send: smtp.SendMail,
	}
}

// Name identifies the transport in logs.
func (t *EmailTransport) Name() string { return "email" }

// Send delivers the admin summary for one order.
func (t *EmailTransport) Send(_ context.Context, order *model.Order) error {
	addr := fmt.Sprintf("%s:%d", t.cfg.Host, t.cfg.Port)
	auth := smtp.PlainAuth("", t.cfg.Username, t.cfg.Password, t.cfg.Host)

	msg := buildAdminMessage(t.cfg.Sender(), t.cfg.Recipient(), order)

	if err := t.send(addr, auth, t.cfg.Sender(), []string{t.cfg.Recipient()}, msg); err != nil {
		return fmt.Errorf("smtp send failed: %w", err)
	}

	return nil
}

// buildAdminMessage renders the admin order summary: customer block,
// one row per cart item, and the products subtotal as the payable total.
func buildAdminMessage(from, to string, order *model.Order) []byte {
	var subtotal float64
	for _, item := range order.CartItems {
		subtotal += item.Subtotal()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "From: SAZO Order Desk <%s>\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: New Order #%s\r\n", order.OrderID)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")

	b.WriteString("<div><h1>New Order!</h1>")
	fmt.Fprintf(&b, "<p>ID: #%s</p>", order.OrderID)
	b.WriteString("<h3>Customer Details</h3>")
	fmt.Fprintf(&b, "<p>Name: %s %s<br>Phone: %s<br>Address: %s<br>Payment: %s</p>",
		order.FirstName, order.LastName, order.Phone, order.Address, order.PaymentMethod)

	b.WriteString("<table>")
	for _, item := range order.CartItems {
		fmt.Fprintf(&b, "<tr><td>%s</td><td>Size: %s | Qty: %d</td><td>%.2f</td></tr>",
			item.Name, item.Size, item.Quantity, item.Subtotal())
	}
	b.WriteString("</table>")

	fmt.Fprintf(&b, "<p><strong>Total Payable: %.2f</strong></p></div>", subtotal)

	return []byte(b.String())
}
