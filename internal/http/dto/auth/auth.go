// Package auth contiene los DTOs de registro, login y perfil.
package auth

// RegisterRequest alta por password.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse eco del alta.
type RegisterResponse struct {
	Success  bool   `json:"success"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// LoginRequest login por password.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse login exitoso.
type LoginResponse struct {
	Success  bool   `json:"success"`
	Email    string `json:"email"`
	Username string `json:"username"`
}

// SuccessResponse respuesta mínima {"success": true}.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// MessageResponse respuesta {"message": ...}.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileResponse vista de la cuenta propia.
type ProfileResponse struct {
	ID            string `json:"id"`
	Email         string `json:"email"`
	Username      string `json:"username"`
	Provider      string `json:"provider"`
	EmailVerified bool   `json:"email_verified"`
	Active        bool   `json:"active"`
}

// ProfileUpdateRequest actualización parcial del perfil.
type ProfileUpdateRequest struct {
	Username *string `json:"username,omitempty"`
}

// ChangeEmailRequest cambio de dirección de email.
type ChangeEmailRequest struct {
	NewEmail string `json:"new_email"`
}

// ChangeEmailResponse eco del cambio.
type ChangeEmailResponse struct {
	Success bool   `json:"success"`
	Email   string `json:"email"`
}

// ResetPasswordRequest cambio de password de la sesión actual.
type ResetPasswordRequest struct {
	Password string `json:"password"`
}

// ResendRequest reenvío de mail de activación por email.
type ResendRequest struct {
	Email string `json:"email"`
}
