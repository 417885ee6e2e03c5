package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/ids"
	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
)

// MensajeRUTDuplicado is wire-level: the admin frontend matches on it.
const MensajeRUTDuplicado = "Ya existe un cliente con ese RUT"

type ClienteStore interface {
	Create(ctx context.Context, cliente models.Cliente) error
	GetByID(ctx context.Context, id string) (models.Cliente, error)
	FindByRUT(ctx context.Context, rut string) (models.Cliente, error)
	List(ctx context.Context, incluirInactivos bool) ([]models.Cliente, error)
	Update(ctx context.Context, cliente models.Cliente) error
	Deactivate(ctx context.Context, id string) error
}

// ArriendoContador exposes the dependent-contract counts that guard client
// and equipment deletion.
type ArriendoContador interface {
	CountPorCliente(ctx context.Context, clienteID string, estados []models.EstadoArriendo) (int, error)
	CountPorEquipo(ctx context.Context, equipoID string, estados []models.EstadoArriendo) (int, error)
}

type ClienteService struct {
	clientes  ClienteStore
	arriendos ArriendoContador
	log       zerolog.Logger
}

func NewClienteService(clientes ClienteStore, arriendos ArriendoContador, log zerolog.Logger) *ClienteService {
	return &ClienteService{clientes: clientes, arriendos: arriendos, log: log}
}

type ClienteInput struct {
	Tipo                models.TipoCliente
	RUT                 string
	Nombre              string
	Email               string
	Telefono            string
	Direccion           string
	CreditoAprobado     bool
	LimiteCredito       float64
	DescuentoPorcentaje float64
}

func (s *ClienteService) Create(ctx context.Context, input ClienteInput) (models.Cliente, error) {
	input.RUT = strings.TrimSpace(input.RUT)
	if input.RUT == "" {
		return models.Cliente{}, Validationf("el RUT es obligatorio")
	}
	if strings.TrimSpace(input.Nombre) == "" {
		return models.Cliente{}, Validationf("el nombre es obligatorio")
	}
	if !input.Tipo.Valido() {
		return models.Cliente{}, Validationf("tipo de cliente inválido: %s", input.Tipo)
	}
	if input.DescuentoPorcentaje < 0 || input.DescuentoPorcentaje > 100 {
		return models.Cliente{}, Validationf("el descuento debe estar entre 0 y 100")
	}

	if _, err := s.clientes.FindByRUT(ctx, input.RUT); err == nil {
		return models.Cliente{}, Conflictf(MensajeRUTDuplicado)
	} else if !errors.Is(err, repository.ErrClienteNotFound) {
		return models.Cliente{}, err
	}

	cliente := models.Cliente{
		ID:                  ids.New(),
		Tipo:                input.Tipo,
		RUT:                 input.RUT,
		Nombre:              input.Nombre,
		Email:               input.Email,
		Telefono:            input.Telefono,
		Direccion:           input.Direccion,
		CreditoAprobado:     input.CreditoAprobado,
		LimiteCredito:       input.LimiteCredito,
		DescuentoPorcentaje: input.DescuentoPorcentaje,
		Activo:              true,
	}
	if err := s.clientes.Create(ctx, cliente); err != nil {
		return models.Cliente{}, err
	}
	return cliente, nil
}

func (s *ClienteService) Get(ctx context.Context, id string) (models.Cliente, error) {
	cliente, err := s.clientes.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrClienteNotFound) {
			return models.Cliente{}, NotFoundf("cliente no encontrado")
		}
		return models.Cliente{}, err
	}
	return cliente, nil
}

func (s *ClienteService) List(ctx context.Context, incluirInactivos bool) ([]models.Cliente, error) {
	return s.clientes.List(ctx, incluirInactivos)
}

// Update rewrites the mutable fields. The RUT is immutable: whatever the
// caller sends, the stored value remains.
func (s *ClienteService) Update(ctx context.Context, id string, input ClienteInput) (models.Cliente, error) {
	cliente, err := s.Get(ctx, id)
	if err != nil {
		return models.Cliente{}, err
	}

	if !input.Tipo.Valido() {
		return models.Cliente{}, Validationf("tipo de cliente inválido: %s", input.Tipo)
	}
	if strings.TrimSpace(input.Nombre) == "" {
		return models.Cliente{}, Validationf("el nombre es obligatorio")
	}
	if input.DescuentoPorcentaje < 0 || input.DescuentoPorcentaje > 100 {
		return models.Cliente{}, Validationf("el descuento debe estar entre 0 y 100")
	}

	cliente.Tipo = input.Tipo
	cliente.Nombre = input.Nombre
	cliente.Email = input.Email
	cliente.Telefono = input.Telefono
	cliente.Direccion = input.Direccion
	cliente.CreditoAprobado = input.CreditoAprobado
	cliente.LimiteCredito = input.LimiteCredito
	cliente.DescuentoPorcentaje = input.DescuentoPorcentaje

	if err := s.clientes.Update(ctx, cliente); err != nil {
		return models.Cliente{}, err
	}
	return cliente, nil
}

// Delete soft-deletes the client unless it owns contracts in aprobado or
// activo state; the error message carries the blocking count.
func (s *ClienteService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	vigentes, err := s.arriendos.CountPorCliente(ctx, id, models.EstadosArriendoVigentes)
	if err != nil {
		return err
	}
	if vigentes > 0 {
		return Conflictf("No se puede eliminar el cliente: tiene %d arriendos vigentes", vigentes)
	}

	return s.clientes.Deactivate(ctx, id)
}
