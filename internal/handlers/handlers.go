package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/rentamaq/api/internal/config"
	"github.com/rentamaq/api/internal/middleware"
	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
	"github.com/rentamaq/api/internal/service"
	"github.com/rentamaq/api/internal/storage"
)

type HandlerSet struct {
	log           zerolog.Logger
	cfg           *config.AppConfig
	authService   *service.AuthService
	clienteSvc    *service.ClienteService
	equipoSvc     *service.EquipoService
	arriendoSvc   *service.ArriendoService
	configSvc     *service.ConfiguracionService
	uploadService *service.UploadService
	contactos     *repository.ContactoRepository
	db            *pgxpool.Pool
	cache         *redis.Client
}

func NewHandlerSet(log zerolog.Logger, db *pgxpool.Pool, cache *redis.Client, store storage.Store, cfg *config.AppConfig) HandlerSet {
	usuarioRepo := repository.NewUsuarioRepository(db)
	sesionRepo := repository.NewSesionRepository(db)
	clienteRepo := repository.NewClienteRepository(db)
	categoriaRepo := repository.NewCategoriaRepository(db)
	equipoRepo := repository.NewEquipoRepository(db)
	arriendoRepo := repository.NewArriendoRepository(db)
	configRepo := repository.NewConfiguracionRepository(db)
	contactoRepo := repository.NewContactoRepository(db)

	return HandlerSet{
		log:           log,
		cfg:           cfg,
		authService:   service.NewAuthService(usuarioRepo, sesionRepo, cfg, log),
		clienteSvc:    service.NewClienteService(clienteRepo, arriendoRepo, log),
		equipoSvc:     service.NewEquipoService(equipoRepo, categoriaRepo, arriendoRepo, cache, cfg, log),
		arriendoSvc:   service.NewArriendoService(arriendoRepo, clienteRepo, equipoRepo, cache, cfg, log),
		configSvc:     service.NewConfiguracionService(configRepo, cache, log),
		uploadService: service.NewUploadService(store, cfg, log),
		contactos:     contactoRepo,
		db:            db,
		cache:         cache,
	}
}

// AuthService exposes the auth flow for startup bootstrap and the scheduler.
func (h HandlerSet) AuthService() *service.AuthService { return h.authService }

// ConfigService exposes the configuration cache warmer for the scheduler.
func (h HandlerSet) ConfigService() *service.ConfiguracionService { return h.configSvc }

func (h HandlerSet) Register(router *gin.RouterGroup) {
	router.GET("/healthz", h.Health)

	v1 := router.Group("/v1")

	public := v1.Group("/public")
	{
		public.GET("/catalogo", h.PublicCatalogo)
		public.GET("/categorias", h.PublicCategorias)
		public.GET("/documentos/:tipo", h.PublicDocumento)
		public.POST("/contacto", h.PublicContacto)
	}

	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/logout", h.Logout)

		me := auth.Group("")
		me.Use(middleware.Auth(h.authService, h.cfg.Production()))
		me.GET("/me", h.Me)
	}

	admin := v1.Group("/admin")
	admin.Use(
		middleware.Auth(h.authService, h.cfg.Production()),
		middleware.RequireRoles(models.RolAdmin),
	)
	{
		admin.GET("/clientes", h.ListClientes)
		admin.POST("/clientes", h.CreateCliente)
		admin.GET("/clientes/:id", h.GetCliente)
		admin.PUT("/clientes/:id", h.UpdateCliente)
		admin.DELETE("/clientes/:id", h.DeleteCliente)

		admin.GET("/categorias", h.ListCategorias)
		admin.GET("/equipos", h.ListEquipos)
		admin.POST("/equipos", h.CreateEquipo)
		admin.GET("/equipos/:id", h.GetEquipo)
		admin.PUT("/equipos/:id", h.UpdateEquipo)
		admin.PATCH("/equipos/:id/estado", h.CambiarEstadoEquipo)
		admin.DELETE("/equipos/:id", h.DeleteEquipo)

		admin.GET("/arriendos", h.ListArriendos)
		admin.POST("/arriendos", h.CreateArriendo)
		admin.GET("/arriendos/:id", h.GetArriendo)
		admin.PATCH("/arriendos/:id/estado", h.CambiarEstadoArriendo)
		admin.DELETE("/arriendos/:id", h.DeleteArriendo)
		admin.POST("/arriendos/:id/pagos", h.AddPago)

		admin.GET("/configuracion", h.ListConfiguracion)
		admin.PUT("/configuracion/:clave", h.UpsertConfiguracion)
		admin.GET("/documentos/:tipo", h.GetDocumento)
		admin.PUT("/documentos/:tipo", h.SaveDocumento)

		admin.GET("/contactos", h.ListContactos)
		admin.PATCH("/contactos/:id/leido", h.MarcarContactoLeido)

		admin.POST("/media/hero", h.UploadHero)
	}
}

// respondError maps domain errors to HTTP codes. Infrastructure errors are
// logged and flattened to a generic message.
func (h HandlerSet) respondError(c *gin.Context, err error) {
	var (
		validationErr *service.ValidationError
		notFoundErr   *service.NotFoundError
		conflictErr   *service.ConflictError
	)

	switch {
	case errors.As(err, &validationErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Error()})
	case errors.As(err, &notFoundErr):
		c.JSON(http.StatusNotFound, gin.H{"error": notFoundErr.Error()})
	case errors.As(err, &conflictErr):
		c.JSON(http.StatusConflict, gin.H{"error": conflictErr.Error()})
	case errors.Is(err, repository.ErrMensajeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCredencialesInvalidas),
		errors.Is(err, service.ErrCuentaBloqueada),
		errors.Is(err, service.ErrSesionInvalida):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	default:
		h.log.Error().Err(err).
			Str("path", c.Request.URL.Path).
			Msg("internal error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "error interno del servidor"})
	}
}

func currentUser(c *gin.Context) (models.Usuario, bool) {
	userVal, exists := c.Get(middleware.ContextUser)
	if !exists {
		return models.Usuario{}, false
	}
	usuario, ok := userVal.(models.Usuario)
	return usuario, ok
}
