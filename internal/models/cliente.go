package models

import "time"

type TipoCliente string

const (
	ClientePersona TipoCliente = "persona"
	ClienteEmpresa TipoCliente = "empresa"
)

func (t TipoCliente) Valido() bool {
	return t == ClientePersona || t == ClienteEmpresa
}

// Cliente is a rental customer. RUT is the unique tax id and is immutable
// after creation. Clients are soft deleted via Activo.
type Cliente struct {
	ID                  string
	Tipo                TipoCliente
	RUT                 string
	Nombre              string
	Email               string
	Telefono            string
	Direccion           string
	CreditoAprobado     bool
	LimiteCredito       float64
	DescuentoPorcentaje float64
	Activo              bool
	CreatedAt           time.Time
	UpdatedAt           time.Time
}
