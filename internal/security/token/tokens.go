// Package token genera tokens opacos para sesiones.
package token

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// Generate genera un token opaco aleatorio (base64url sin padding).
func Generate(nBytes int) (string, error) {
	b := make([]byte, nBytes)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Hash devuelve sha256(token) en base64url sin padding. Las sesiones
// se indexan por hash para no guardar el token en claro.
func Hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}
