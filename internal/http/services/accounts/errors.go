package accounts

import "errors"

var (
	// ErrEmailTaken ya existe una cuenta local con ese email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidCredentials email desconocido o password incorrecto.
	// Un solo sentinel para ambos: la respuesta no distingue.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrInactive la cuenta existe pero nunca confirmó su email.
	ErrInactive = errors.New("account is not active")
	// ErrValidation la entrada no pasó las validaciones básicas.
	ErrValidation = errors.New("invalid input")
	// ErrFederated la operación solo aplica a cuentas locales.
	ErrFederated = errors.New("operation not available for social accounts")
)
