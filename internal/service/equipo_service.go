package service

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/config"
	"github.com/rentamaq/api/internal/ids"
	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
)

const (
	catalogoCacheKey = "catalogo:publico"
	catalogoCacheTTL = 5 * time.Minute
)

type EquipoStore interface {
	Create(ctx context.Context, equipo models.Equipo) error
	GetByID(ctx context.Context, id string) (models.Equipo, error)
	FindByCodigo(ctx context.Context, codigo string) (models.Equipo, error)
	List(ctx context.Context, filter repository.EquipoFilter) ([]models.Equipo, error)
	ListDisponibles(ctx context.Context) ([]models.Equipo, error)
	Update(ctx context.Context, equipo models.Equipo) error
	UpdateEstado(ctx context.Context, id string, estado models.EstadoEquipo) error
	Deactivate(ctx context.Context, id string) error
}

type CategoriaStore interface {
	GetByID(ctx context.Context, id string) (models.Categoria, error)
	List(ctx context.Context) ([]models.Categoria, error)
}

type EquipoService struct {
	equipos    EquipoStore
	categorias CategoriaStore
	arriendos  ArriendoContador
	cache      *redis.Client
	cfg        *config.AppConfig
	log        zerolog.Logger
}

func NewEquipoService(
	equipos EquipoStore,
	categorias CategoriaStore,
	arriendos ArriendoContador,
	cache *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *EquipoService {
	return &EquipoService{
		equipos:    equipos,
		categorias: categorias,
		arriendos:  arriendos,
		cache:      cache,
		cfg:        cfg,
		log:        log,
	}
}

type EquipoInput struct {
	CategoriaID  string
	Codigo       string
	Nombre       string
	Descripcion  string
	Stock        int
	PrecioDia    float64
	PrecioSemana float64
	PrecioMes    float64
	ImagenURL    string
}

func (s *EquipoService) Create(ctx context.Context, input EquipoInput) (models.Equipo, error) {
	if strings.TrimSpace(input.Codigo) == "" {
		return models.Equipo{}, Validationf("el código es obligatorio")
	}
	if strings.TrimSpace(input.Nombre) == "" {
		return models.Equipo{}, Validationf("el nombre es obligatorio")
	}
	if input.Stock < 0 {
		return models.Equipo{}, Validationf("el stock no puede ser negativo")
	}

	if _, err := s.categorias.GetByID(ctx, input.CategoriaID); err != nil {
		if errors.Is(err, repository.ErrCategoriaNotFound) {
			return models.Equipo{}, NotFoundf("categoría no encontrada")
		}
		return models.Equipo{}, err
	}

	if _, err := s.equipos.FindByCodigo(ctx, input.Codigo); err == nil {
		return models.Equipo{}, Conflictf("Ya existe un equipo con el código %s", input.Codigo)
	} else if !errors.Is(err, repository.ErrEquipoNotFound) {
		return models.Equipo{}, err
	}

	equipo := models.Equipo{
		ID:           ids.New(),
		CategoriaID:  input.CategoriaID,
		Codigo:       input.Codigo,
		Nombre:       input.Nombre,
		Descripcion:  input.Descripcion,
		Estado:       models.EquipoDisponible,
		Stock:        input.Stock,
		PrecioDia:    input.PrecioDia,
		PrecioSemana: input.PrecioSemana,
		PrecioMes:    input.PrecioMes,
		ImagenURL:    input.ImagenURL,
		Activo:       true,
	}
	if err := s.equipos.Create(ctx, equipo); err != nil {
		return models.Equipo{}, err
	}

	s.invalidateCatalogo(ctx)
	return equipo, nil
}

func (s *EquipoService) Get(ctx context.Context, id string) (models.Equipo, error) {
	equipo, err := s.equipos.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrEquipoNotFound) {
			return models.Equipo{}, NotFoundf("equipo no encontrado")
		}
		return models.Equipo{}, err
	}
	return equipo, nil
}

func (s *EquipoService) List(ctx context.Context, filter repository.EquipoFilter) ([]models.Equipo, error) {
	if filter.Estado != "" && !filter.Estado.Valido() {
		return nil, Validationf("estado de equipo inválido: %s", filter.Estado)
	}
	return s.equipos.List(ctx, filter)
}

func (s *EquipoService) Categorias(ctx context.Context) ([]models.Categoria, error) {
	return s.categorias.List(ctx)
}

func (s *EquipoService) Update(ctx context.Context, id string, input EquipoInput) (models.Equipo, error) {
	equipo, err := s.Get(ctx, id)
	if err != nil {
		return models.Equipo{}, err
	}
	if strings.TrimSpace(input.Nombre) == "" {
		return models.Equipo{}, Validationf("el nombre es obligatorio")
	}
	if input.Stock < 0 {
		return models.Equipo{}, Validationf("el stock no puede ser negativo")
	}
	if input.CategoriaID != equipo.CategoriaID {
		if _, err := s.categorias.GetByID(ctx, input.CategoriaID); err != nil {
			if errors.Is(err, repository.ErrCategoriaNotFound) {
				return models.Equipo{}, NotFoundf("categoría no encontrada")
			}
			return models.Equipo{}, err
		}
	}

	equipo.CategoriaID = input.CategoriaID
	equipo.Nombre = input.Nombre
	equipo.Descripcion = input.Descripcion
	equipo.Stock = input.Stock
	equipo.PrecioDia = input.PrecioDia
	equipo.PrecioSemana = input.PrecioSemana
	equipo.PrecioMes = input.PrecioMes
	equipo.ImagenURL = input.ImagenURL

	if err := s.equipos.Update(ctx, equipo); err != nil {
		return models.Equipo{}, err
	}

	s.invalidateCatalogo(ctx)
	return equipo, nil
}

// CambiarEstado moves an equipment unit to a new status. The target must be a
// member of the enum; with strict transitions on it must also be allowed by
// the transition table.
func (s *EquipoService) CambiarEstado(ctx context.Context, id string, estado models.EstadoEquipo) (models.Equipo, error) {
	if !estado.Valido() {
		return models.Equipo{}, Validationf("estado de equipo inválido: %s", estado)
	}

	equipo, err := s.Get(ctx, id)
	if err != nil {
		return models.Equipo{}, err
	}
	if equipo.Estado == estado {
		return equipo, nil
	}

	if s.cfg.Rentals.StrictTransitions && !equipo.Estado.PuedeTransicionarA(estado) {
		return models.Equipo{}, Conflictf("transición de equipo no permitida: %s → %s", equipo.Estado, estado)
	}

	if err := s.equipos.UpdateEstado(ctx, id, estado); err != nil {
		return models.Equipo{}, err
	}
	equipo.Estado = estado

	s.invalidateCatalogo(ctx)
	return equipo, nil
}

// Delete soft-deletes the unit unless a contract in aprobado or activo state
// references it through a line item.
func (s *EquipoService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}

	vigentes, err := s.arriendos.CountPorEquipo(ctx, id, models.EstadosArriendoVigentes)
	if err != nil {
		return err
	}
	if vigentes > 0 {
		return Conflictf("No se puede eliminar el equipo: está incluido en %d arriendos vigentes", vigentes)
	}

	if err := s.equipos.Deactivate(ctx, id); err != nil {
		return err
	}

	s.invalidateCatalogo(ctx)
	return nil
}

// Catalogo returns the public rental catalog, cached briefly in redis.
func (s *EquipoService) Catalogo(ctx context.Context) ([]models.Equipo, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, catalogoCacheKey).Bytes(); err == nil {
			var equipos []models.Equipo
			if err := json.Unmarshal(cached, &equipos); err == nil {
				return equipos, nil
			}
		}
	}

	equipos, err := s.equipos.ListDisponibles(ctx)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if payload, err := json.Marshal(equipos); err == nil {
			if err := s.cache.Set(ctx, catalogoCacheKey, payload, catalogoCacheTTL).Err(); err != nil {
				s.log.Warn().Err(err).Msg("no se pudo cachear el catálogo")
			}
		}
	}
	return equipos, nil
}

func (s *EquipoService) invalidateCatalogo(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, catalogoCacheKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo invalidar el catálogo")
	}
}
