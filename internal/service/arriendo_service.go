package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/config"
	"github.com/rentamaq/api/internal/ids"
	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
)

type ArriendoStore interface {
	Create(ctx context.Context, arriendo models.Arriendo) error
	GetByID(ctx context.Context, id string) (models.Arriendo, error)
	List(ctx context.Context, filter repository.ArriendoFilter) ([]models.Arriendo, error)
	UpdateEstado(ctx context.Context, id string, estado models.EstadoArriendo) error
	DeleteCascade(ctx context.Context, id string) error
	AddPago(ctx context.Context, pago models.Pago) error
}

type ArriendoService struct {
	arriendos ArriendoStore
	clientes  ClienteStore
	equipos   EquipoStore
	cache     *redis.Client
	cfg       *config.AppConfig
	log       zerolog.Logger
	now       func() time.Time
}

func NewArriendoService(
	arriendos ArriendoStore,
	clientes ClienteStore,
	equipos EquipoStore,
	cache *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *ArriendoService {
	return &ArriendoService{
		arriendos: arriendos,
		clientes:  clientes,
		equipos:   equipos,
		cache:     cache,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

type ArriendoItemInput struct {
	EquipoID       string
	Cantidad       int
	PrecioUnitario float64
}

type ArriendoInput struct {
	ClienteID     string
	FechaInicio   time.Time
	FechaFin      time.Time
	Observaciones string
	Items         []ArriendoItemInput
}

// Create registers a new contract in borrador state. Line items default their
// unit price to the equipment's daily rate; the total is the sum of the
// items.
func (s *ArriendoService) Create(ctx context.Context, input ArriendoInput) (models.Arriendo, error) {
	if len(input.Items) == 0 {
		return models.Arriendo{}, Validationf("el arriendo debe incluir al menos un equipo")
	}
	if input.FechaFin.Before(input.FechaInicio) {
		return models.Arriendo{}, Validationf("la fecha de término no puede ser anterior al inicio")
	}

	cliente, err := s.clientes.GetByID(ctx, input.ClienteID)
	if err != nil {
		if errors.Is(err, repository.ErrClienteNotFound) {
			return models.Arriendo{}, NotFoundf("cliente no encontrado")
		}
		return models.Arriendo{}, err
	}
	if !cliente.Activo {
		return models.Arriendo{}, Validationf("el cliente está inactivo")
	}

	arriendoID := ids.New()
	arriendo := models.Arriendo{
		ID:             arriendoID,
		ClienteID:      cliente.ID,
		NumeroContrato: fmt.Sprintf("ARR-%s", arriendoID),
		Estado:         models.ArriendoBorrador,
		FechaInicio:    input.FechaInicio,
		FechaFin:       input.FechaFin,
		Observaciones:  input.Observaciones,
	}

	for _, item := range input.Items {
		if item.Cantidad <= 0 {
			return models.Arriendo{}, Validationf("la cantidad debe ser mayor que cero")
		}

		equipo, err := s.equipos.GetByID(ctx, item.EquipoID)
		if err != nil {
			if errors.Is(err, repository.ErrEquipoNotFound) {
				return models.Arriendo{}, NotFoundf("equipo no encontrado: %s", item.EquipoID)
			}
			return models.Arriendo{}, err
		}
		if !equipo.Activo {
			return models.Arriendo{}, Validationf("el equipo %s está inactivo", equipo.Codigo)
		}

		precio := item.PrecioUnitario
		if precio <= 0 {
			precio = equipo.PrecioDia
		}

		arriendo.Items = append(arriendo.Items, models.ArriendoItem{
			ID:             ids.New(),
			ArriendoID:     arriendo.ID,
			EquipoID:       equipo.ID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: precio,
		})
		arriendo.Total += float64(item.Cantidad) * precio
	}

	if err := s.arriendos.Create(ctx, arriendo); err != nil {
		return models.Arriendo{}, err
	}
	return arriendo, nil
}

func (s *ArriendoService) Get(ctx context.Context, id string) (models.Arriendo, error) {
	arriendo, err := s.arriendos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrArriendoNotFound) {
			return models.Arriendo{}, NotFoundf("arriendo no encontrado")
		}
		return models.Arriendo{}, err
	}
	return arriendo, nil
}

func (s *ArriendoService) List(ctx context.Context, filter repository.ArriendoFilter) ([]models.Arriendo, error) {
	if filter.Estado != "" && !filter.Estado.Valido() {
		return nil, Validationf("estado de arriendo inválido: %s", filter.Estado)
	}
	return s.arriendos.List(ctx, filter)
}

// CambiarEstado transitions the contract and lets the repository apply the
// equipment side effects atomically: activo marks line-item equipment
// arrendado, finalizado/cancelado releases it.
func (s *ArriendoService) CambiarEstado(ctx context.Context, id string, estado models.EstadoArriendo) (models.Arriendo, error) {
	if !estado.Valido() {
		return models.Arriendo{}, Validationf("estado de arriendo inválido: %s", estado)
	}

	arriendo, err := s.Get(ctx, id)
	if err != nil {
		return models.Arriendo{}, err
	}
	if arriendo.Estado == estado {
		return arriendo, nil
	}

	if s.cfg.Rentals.StrictTransitions && !arriendo.Estado.PuedeTransicionarA(estado) {
		return models.Arriendo{}, Conflictf("transición de arriendo no permitida: %s → %s", arriendo.Estado, estado)
	}

	if err := s.arriendos.UpdateEstado(ctx, id, estado); err != nil {
		return models.Arriendo{}, err
	}
	arriendo.Estado = estado

	if _, ok := estado.EfectoEnEquipos(); ok {
		s.invalidateCatalogo(ctx)
	}
	return arriendo, nil
}

// Delete removes a non-active contract with its items and payments. The
// repository runs the cascade in one transaction.
func (s *ArriendoService) Delete(ctx context.Context, id string) error {
	if err := s.arriendos.DeleteCascade(ctx, id); err != nil {
		switch {
		case errors.Is(err, repository.ErrArriendoNotFound):
			return NotFoundf("arriendo no encontrado")
		case errors.Is(err, repository.ErrArriendoActivo):
			return Conflictf("No se puede eliminar un arriendo activo")
		default:
			return err
		}
	}

	s.invalidateCatalogo(ctx)
	return nil
}

type PagoInput struct {
	Monto      float64
	Metodo     string
	FechaPago  time.Time
	Referencia string
}

func (s *ArriendoService) AddPago(ctx context.Context, arriendoID string, input PagoInput) (models.Pago, error) {
	if input.Monto <= 0 {
		return models.Pago{}, Validationf("el monto debe ser mayor que cero")
	}

	if _, err := s.Get(ctx, arriendoID); err != nil {
		return models.Pago{}, err
	}

	fecha := input.FechaPago
	if fecha.IsZero() {
		fecha = s.now()
	}

	pago := models.Pago{
		ID:         ids.New(),
		ArriendoID: arriendoID,
		Monto:      input.Monto,
		Metodo:     input.Metodo,
		FechaPago:  fecha,
		Referencia: input.Referencia,
	}
	if err := s.arriendos.AddPago(ctx, pago); err != nil {
		return models.Pago{}, err
	}
	return pago, nil
}

func (s *ArriendoService) invalidateCatalogo(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, catalogoCacheKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo invalidar el catálogo")
	}
}
