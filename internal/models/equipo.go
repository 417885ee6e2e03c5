package models

import "time"

// EstadoEquipo values are wire-level strings; the spelling is part of the
// public contract and must not change.
type EstadoEquipo string

const (
	EquipoDisponible    EstadoEquipo = "disponible"
	EquipoArrendado     EstadoEquipo = "arrendado"
	EquipoMantenimiento EstadoEquipo = "mantenimiento"
	EquipoReparacion    EstadoEquipo = "reparacion"
	EquipoBaja          EstadoEquipo = "baja"
)

var estadosEquipo = map[EstadoEquipo]struct{}{
	EquipoDisponible:    {},
	EquipoArrendado:     {},
	EquipoMantenimiento: {},
	EquipoReparacion:    {},
	EquipoBaja:          {},
}

func (e EstadoEquipo) Valido() bool {
	_, ok := estadosEquipo[e]
	return ok
}

// TransicionesEquipo is the allowed-transition table for equipment status.
// Service states (mantenimiento, reparacion, baja) are reachable from any
// state by direct admin action; arrendado/disponible follow the rental cycle.
var TransicionesEquipo = map[EstadoEquipo][]EstadoEquipo{
	EquipoDisponible:    {EquipoArrendado, EquipoMantenimiento, EquipoReparacion, EquipoBaja},
	EquipoArrendado:     {EquipoDisponible, EquipoMantenimiento, EquipoReparacion, EquipoBaja},
	EquipoMantenimiento: {EquipoDisponible, EquipoReparacion, EquipoBaja},
	EquipoReparacion:    {EquipoDisponible, EquipoMantenimiento, EquipoBaja},
	EquipoBaja:          {EquipoMantenimiento, EquipoReparacion},
}

func (e EstadoEquipo) PuedeTransicionarA(destino EstadoEquipo) bool {
	for _, s := range TransicionesEquipo[e] {
		if s == destino {
			return true
		}
	}
	return false
}

type Categoria struct {
	ID          string
	Nombre      string
	Descripcion string
	Activo      bool
}

// Equipo is a rentable equipment unit with day/week/month pricing tiers.
type Equipo struct {
	ID           string
	CategoriaID  string
	Codigo       string
	Nombre       string
	Descripcion  string
	Estado       EstadoEquipo
	Stock        int
	PrecioDia    float64
	PrecioSemana float64
	PrecioMes    float64
	ImagenURL    string
	Activo       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
