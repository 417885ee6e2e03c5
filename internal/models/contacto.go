package models

import "time"

// MensajeContacto is a message submitted through the public contact form.
type MensajeContacto struct {
	ID        string
	Nombre    string
	Email     string
	Telefono  string
	Mensaje   string
	Leido     bool
	CreatedAt time.Time
}
