package models

import "time"

type Rol string

const (
	RolAdmin Rol = "admin"
)

// Usuario is an administrative back-office account. Accounts are never hard
// deleted; Activo=false disables login.
type Usuario struct {
	ID               string
	Username         string
	Email            string
	PasswordHash     []byte
	Nombre           string
	Rol              Rol
	Activo           bool
	IntentosFallidos int
	BloqueadoHasta   *time.Time
	UltimoAcceso     *time.Time
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// Bloqueado reports whether the account is under a login lockout at t.
func (u Usuario) Bloqueado(t time.Time) bool {
	return u.BloqueadoHasta != nil && u.BloqueadoHasta.After(t)
}
