package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
)

const (
	configCacheKey = "configuracion:all"
	configCacheTTL = time.Hour
)

type ConfiguracionStore interface {
	Get(ctx context.Context, clave string) (models.Configuracion, error)
	List(ctx context.Context, grupo string) ([]models.Configuracion, error)
	Upsert(ctx context.Context, entry models.Configuracion) error
}

type ConfiguracionService struct {
	store ConfiguracionStore
	cache *redis.Client
	log   zerolog.Logger
}

func NewConfiguracionService(store ConfiguracionStore, cache *redis.Client, log zerolog.Logger) *ConfiguracionService {
	return &ConfiguracionService{store: store, cache: cache, log: log}
}

func (s *ConfiguracionService) List(ctx context.Context, grupo string) ([]models.Configuracion, error) {
	if grupo == "" && s.cache != nil {
		if cached, err := s.cache.Get(ctx, configCacheKey).Bytes(); err == nil {
			var entries []models.Configuracion
			if err := json.Unmarshal(cached, &entries); err == nil {
				return entries, nil
			}
		}
	}

	entries, err := s.store.List(ctx, grupo)
	if err != nil {
		return nil, err
	}

	if grupo == "" {
		s.cachear(ctx, entries)
	}
	return entries, nil
}

func (s *ConfiguracionService) Get(ctx context.Context, clave string) (models.Configuracion, error) {
	entry, err := s.store.Get(ctx, clave)
	if err != nil {
		if errors.Is(err, repository.ErrConfiguracionNotFound) {
			return models.Configuracion{}, NotFoundf("configuración no encontrada: %s", clave)
		}
		return models.Configuracion{}, err
	}
	return entry, nil
}

type ConfiguracionInput struct {
	Valor       string
	Tipo        models.TipoConfiguracion
	Grupo       string
	Descripcion string
}

// Upsert validates the value against its declared type and writes it by key.
// Repeated writes of the same key update in place.
func (s *ConfiguracionService) Upsert(ctx context.Context, clave string, input ConfiguracionInput) (models.Configuracion, error) {
	clave = strings.TrimSpace(clave)
	if clave == "" {
		return models.Configuracion{}, Validationf("la clave es obligatoria")
	}
	if !input.Tipo.Valido() {
		return models.Configuracion{}, Validationf("tipo de configuración inválido: %s", input.Tipo)
	}
	if err := validarValor(input.Tipo, input.Valor); err != nil {
		return models.Configuracion{}, err
	}

	entry := models.Configuracion{
		Clave:       clave,
		Valor:       input.Valor,
		Tipo:        input.Tipo,
		Grupo:       input.Grupo,
		Descripcion: input.Descripcion,
	}
	if err := s.store.Upsert(ctx, entry); err != nil {
		return models.Configuracion{}, err
	}

	s.invalidar(ctx)
	return s.Get(ctx, clave)
}

func validarValor(tipo models.TipoConfiguracion, valor string) error {
	switch tipo {
	case models.ConfigNumero:
		if _, err := strconv.ParseFloat(valor, 64); err != nil {
			return Validationf("el valor debe ser numérico: %s", valor)
		}
	case models.ConfigBooleano:
		if valor != "true" && valor != "false" {
			return Validationf(`el valor debe ser "true" o "false": %s`, valor)
		}
	case models.ConfigJSON:
		if !json.Valid([]byte(valor)) {
			return Validationf("el valor no es JSON válido")
		}
	}
	return nil
}

func clavesDocumento(tipo models.TipoDocumento) (contenido, version, vigencia, activo string) {
	return fmt.Sprintf("%s_contenido", tipo),
		fmt.Sprintf("%s_version", tipo),
		fmt.Sprintf("%s_fecha_vigencia", tipo),
		fmt.Sprintf("%s_activo", tipo)
}

// GetDocumento materializes a legal document from its four reserved keys.
// Missing keys yield zero values rather than an error so a never-published
// document reads as empty and inactive.
func (s *ConfiguracionService) GetDocumento(ctx context.Context, tipo models.TipoDocumento) (models.DocumentoLegal, error) {
	if !tipo.Valido() {
		return models.DocumentoLegal{}, Validationf("tipo de documento inválido: %s", tipo)
	}

	doc := models.DocumentoLegal{Tipo: tipo}
	claveContenido, claveVersion, claveVigencia, claveActivo := clavesDocumento(tipo)

	for clave, apply := range map[string]func(string){
		claveContenido: func(v string) { doc.Contenido = v },
		claveVersion:   func(v string) { doc.Version = v },
		claveVigencia:  func(v string) { doc.FechaVigencia = v },
		claveActivo:    func(v string) { doc.Activo = v == "true" },
	} {
		entry, err := s.store.Get(ctx, clave)
		if err != nil {
			if errors.Is(err, repository.ErrConfiguracionNotFound) {
				continue
			}
			return models.DocumentoLegal{}, err
		}
		apply(entry.Valor)
	}

	return doc, nil
}

type DocumentoInput struct {
	Contenido     string
	Version       string
	FechaVigencia string
	Activo        bool
}

// SaveDocumento upserts the four reserved keys of a legal document.
func (s *ConfiguracionService) SaveDocumento(ctx context.Context, tipo models.TipoDocumento, input DocumentoInput) (models.DocumentoLegal, error) {
	if !tipo.Valido() {
		return models.DocumentoLegal{}, Validationf("tipo de documento inválido: %s", tipo)
	}
	if strings.TrimSpace(input.Version) == "" {
		return models.DocumentoLegal{}, Validationf("la versión es obligatoria")
	}

	claveContenido, claveVersion, claveVigencia, claveActivo := clavesDocumento(tipo)
	grupo := "documentos_legales"

	entries := []models.Configuracion{
		{Clave: claveContenido, Valor: input.Contenido, Tipo: models.ConfigTexto, Grupo: grupo, Descripcion: fmt.Sprintf("Contenido de %s", tipo)},
		{Clave: claveVersion, Valor: input.Version, Tipo: models.ConfigTexto, Grupo: grupo, Descripcion: fmt.Sprintf("Versión de %s", tipo)},
		{Clave: claveVigencia, Valor: input.FechaVigencia, Tipo: models.ConfigTexto, Grupo: grupo, Descripcion: fmt.Sprintf("Fecha de vigencia de %s", tipo)},
		{Clave: claveActivo, Valor: strconv.FormatBool(input.Activo), Tipo: models.ConfigBooleano, Grupo: grupo, Descripcion: fmt.Sprintf("Vigencia de %s", tipo)},
	}
	for _, entry := range entries {
		if err := s.store.Upsert(ctx, entry); err != nil {
			return models.DocumentoLegal{}, err
		}
	}

	s.invalidar(ctx)
	return s.GetDocumento(ctx, tipo)
}

// WarmCache refreshes the configuration cache; called by the hourly job.
func (s *ConfiguracionService) WarmCache(ctx context.Context) error {
	entries, err := s.store.List(ctx, "")
	if err != nil {
		return err
	}
	s.cachear(ctx, entries)
	return nil
}

func (s *ConfiguracionService) cachear(ctx context.Context, entries []models.Configuracion) {
	if s.cache == nil {
		return
	}
	payload, err := json.Marshal(entries)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, configCacheKey, payload, configCacheTTL).Err(); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo cachear la configuración")
	}
}

func (s *ConfiguracionService) invalidar(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Del(ctx, configCacheKey).Err(); err != nil {
		s.log.Warn().Err(err).Msg("no se pudo invalidar la configuración")
	}
}
