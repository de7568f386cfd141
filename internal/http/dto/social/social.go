// Package social contiene los DTOs del flujo de social login.
package social

// CallbackResponse es la respuesta de un callback exitoso.
type CallbackResponse struct {
	SocialType string `json:"social_type"`
	UserEmail  string `json:"user_email"`
	Username   string `json:"username"`
}
