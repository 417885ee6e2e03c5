package models

import "time"

// Sesion is a server-side session row. Only the SHA-256 hash of the opaque
// cookie token is stored; the token itself never touches the database.
type Sesion struct {
	ID        string
	UsuarioID string
	TokenHash []byte
	ExpiresAt time.Time
	Activa    bool
	CreatedAt time.Time
}

func (s Sesion) Expirada(t time.Time) bool {
	return !s.ExpiresAt.After(t)
}
