// Package mail envía correos transaccionales del POS por SMTP.
package mail

import (
	"fmt"
	"io"

	"gopkg.in/gomail.v2"
)

// Mailer envía correos usando un servidor SMTP configurado.
type Mailer struct {
	dialer *gomail.Dialer
	from   string
}

// NewMailer construye el mailer con las credenciales SMTP.
func NewMailer(host string, port int, user, password, from string) *Mailer {
	return &Mailer{
		dialer: gomail.NewDialer(host, port, user, password),
		from:   from,
	}
}

// SendReceipt envía el recibo de venta en PDF al correo del cliente.
func (m *Mailer) SendReceipt(to, vendorName, saleNumber string, pdf []byte) error {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Subject", fmt.Sprintf("Recibo de compra %s - %s", saleNumber, vendorName))
	msg.SetBody("text/html", fmt.Sprintf(
		"<p>Gracias por tu compra en <b>%s</b>.</p><p>Adjuntamos el recibo <b>%s</b> en PDF.</p>",
		vendorName, saleNumber,
	))
	msg.Attach(
		fmt.Sprintf("recibo-%s.pdf", saleNumber),
		gomail.SetCopyFunc(func(w io.Writer) error {
			_, err := w.Write(pdf)
			return err
		}),
	)

	if err := m.dialer.DialAndSend(msg); err != nil {
		return fmt.Errorf("mail: enviar recibo %s: %w", saleNumber, err)
	}
	return nil
}
