package email

import (
	"fmt"

	"github.com/dropDatabas3/holamaria/internal/security/signedlink"
)

// Service arma y envía los mails con links firmados. El mismo codec
// firma los links de activación y los de cambio de email; solo cambia
// el path del endpoint que los consume.
type Service struct {
	Sender  Sender
	Links   *signedlink.Codec
	BaseURL string
}

func NewService(sender Sender, links *signedlink.Codec, baseURL string) *Service {
	return &Service{Sender: sender, Links: links, BaseURL: baseURL}
}

func (s *Service) link(uri, email string) string {
	return fmt.Sprintf("%s/%s/?code=%s", s.BaseURL, uri, s.Links.Sign(email))
}

// SendActivation manda el mail de confirmación de cuenta nueva.
// El link apunta a /active/ y activa la cuenta al consumirse.
func (s *Service) SendActivation(toEmail, displayName string) error {
	url := s.link("active", toEmail)
	subject := "Confirm your Account"
	body := fmt.Sprintf(
		"Hi %s,\n\nPlease click the link below to confirm your account:\n%s",
		displayName, url,
	)
	return s.Sender.Send(toEmail, subject, "", body)
}

// SendChangeEmail manda el mail de confirmación de cambio de email.
// El link apunta a /verify/ y marca el email como verificado.
func (s *Service) SendChangeEmail(toEmail, displayName string) error {
	url := s.link("verify", toEmail)
	subject := "Confirm Your Email Change"
	body := fmt.Sprintf(
		"Hi %s,\n\n"+
			"We received a request to change the email address associated with your account.\n\n"+
			"To confirm this change, please click the link below:\n%s",
		displayName, url,
	)
	return s.Sender.Send(toEmail, subject, "", body)
}
