package email

import (
	"github.com/dropDatabas3/holamaria/internal/observability/logger"
)

// LogSender escribe los mails al log en vez de mandarlos. Para
// desarrollo local sin SMTP: el link firmado queda visible en la
// consola.
type LogSender struct{}

func (LogSender) Send(to, subject, htmlBody, textBody string) error {
	logger.Named("email").Info("mail (not sent, log mode)",
		logger.String("to", to),
		logger.String("subject", subject),
		logger.String("body", textBody),
	)
	return nil
}
