// Package email envía los mails transaccionales del servicio:
// activación de cuenta y confirmación de cambio de email.
package email

// Sender es la interfaz para enviar emails. Implementada por
// SMTPSender; los tests usan un fake que captura los mensajes.
type Sender interface {
	// Send envía un email. textBody siempre presente; htmlBody puede
	// ser vacío (los mails de este servicio son texto plano).
	Send(to, subject, htmlBody, textBody string) error
}
