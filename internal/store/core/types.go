package core

import "time"

// Account is a local user account. The (Email, Provider) pair is
// unique: a password account ("common") and a social account for the
// same address are distinct rows.
type Account struct {
	ID            string
	Email         string // always stored lowercase
	DisplayName   string
	Provider      string // common | kakao | naver | google
	EmailVerified bool
	Active        bool
	PasswordHash  *string // nil for social accounts
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
