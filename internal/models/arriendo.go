package models

import "time"

// EstadoArriendo values are wire-level strings; the spelling is part of the
// public contract and must not change.
type EstadoArriendo string

const (
	ArriendoBorrador   EstadoArriendo = "borrador"
	ArriendoCotizacion EstadoArriendo = "cotizacion"
	ArriendoAprobado   EstadoArriendo = "aprobado"
	ArriendoActivo     EstadoArriendo = "activo"
	ArriendoFinalizado EstadoArriendo = "finalizado"
	ArriendoCancelado  EstadoArriendo = "cancelado"
)

var estadosArriendo = map[EstadoArriendo]struct{}{
	ArriendoBorrador:   {},
	ArriendoCotizacion: {},
	ArriendoAprobado:   {},
	ArriendoActivo:     {},
	ArriendoFinalizado: {},
	ArriendoCancelado:  {},
}

func (e EstadoArriendo) Valido() bool {
	_, ok := estadosArriendo[e]
	return ok
}

// TransicionesArriendo is the allowed-transition table for the contract
// lifecycle: borrador → cotizacion → aprobado → activo → finalizado/cancelado.
// finalizado and cancelado are terminal.
var TransicionesArriendo = map[EstadoArriendo][]EstadoArriendo{
	ArriendoBorrador:   {ArriendoCotizacion, ArriendoCancelado},
	ArriendoCotizacion: {ArriendoBorrador, ArriendoAprobado, ArriendoCancelado},
	ArriendoAprobado:   {ArriendoActivo, ArriendoCancelado},
	ArriendoActivo:     {ArriendoFinalizado, ArriendoCancelado},
	ArriendoFinalizado: {},
	ArriendoCancelado:  {},
}

func (e EstadoArriendo) PuedeTransicionarA(destino EstadoArriendo) bool {
	for _, s := range TransicionesArriendo[e] {
		if s == destino {
			return true
		}
	}
	return false
}

// EfectoEnEquipos returns the equipment status implied by entering the given
// contract status, if any: activo marks line-item equipment arrendado,
// finalizado/cancelado releases it back to disponible.
func (e EstadoArriendo) EfectoEnEquipos() (EstadoEquipo, bool) {
	switch e {
	case ArriendoActivo:
		return EquipoArrendado, true
	case ArriendoFinalizado, ArriendoCancelado:
		return EquipoDisponible, true
	default:
		return "", false
	}
}

// EstadosArriendoVigentes are the contract states that block deletion of the
// owning client and of referenced equipment.
var EstadosArriendoVigentes = []EstadoArriendo{ArriendoAprobado, ArriendoActivo}

type ArriendoItem struct {
	ID             string
	ArriendoID     string
	EquipoID       string
	Cantidad       int
	PrecioUnitario float64
}

type Pago struct {
	ID         string
	ArriendoID string
	Monto      float64
	Metodo     string
	FechaPago  time.Time
	Referencia string
}

// Arriendo is a rental contract. It owns its line items and payments.
type Arriendo struct {
	ID             string
	ClienteID      string
	NumeroContrato string
	Estado         EstadoArriendo
	FechaInicio    time.Time
	FechaFin       time.Time
	Total          float64
	Observaciones  string
	Items          []ArriendoItem
	Pagos          []Pago
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
