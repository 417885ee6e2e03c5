package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
	"github.com/rentamaq/api/internal/service"
)

type equipoRequest struct {
	CategoriaID  string  `json:"categoriaId" binding:"required"`
	Codigo       string  `json:"codigo"`
	Nombre       string  `json:"nombre" binding:"required"`
	Descripcion  string  `json:"descripcion"`
	Stock        int     `json:"stock"`
	PrecioDia    float64 `json:"precioDia"`
	PrecioSemana float64 `json:"precioSemana"`
	PrecioMes    float64 `json:"precioMes"`
	ImagenURL    string  `json:"imagenUrl"`
}

func (r equipoRequest) toInput() service.EquipoInput {
	return service.EquipoInput{
		CategoriaID:  r.CategoriaID,
		Codigo:       r.Codigo,
		Nombre:       r.Nombre,
		Descripcion:  r.Descripcion,
		Stock:        r.Stock,
		PrecioDia:    r.PrecioDia,
		PrecioSemana: r.PrecioSemana,
		PrecioMes:    r.PrecioMes,
		ImagenURL:    r.ImagenURL,
	}
}

func (h HandlerSet) ListCategorias(c *gin.Context) {
	categorias, err := h.equipoSvc.Categorias(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categorias": categorias})
}

func (h HandlerSet) ListEquipos(c *gin.Context) {
	filter := repository.EquipoFilter{
		CategoriaID:      c.Query("categoriaId"),
		Estado:           models.EstadoEquipo(c.Query("estado")),
		IncluirInactivos: c.Query("incluirInactivos") == "true",
	}

	equipos, err := h.equipoSvc.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipos": equipos})
}

func (h HandlerSet) CreateEquipo(c *gin.Context) {
	var req equipoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	equipo, err := h.equipoSvc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"equipo": equipo})
}

func (h HandlerSet) GetEquipo(c *gin.Context) {
	equipo, err := h.equipoSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipo": equipo})
}

func (h HandlerSet) UpdateEquipo(c *gin.Context) {
	var req equipoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	equipo, err := h.equipoSvc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipo": equipo})
}

type cambiarEstadoRequest struct {
	Estado string `json:"estado" binding:"required"`
}

func (h HandlerSet) CambiarEstadoEquipo(c *gin.Context) {
	var req cambiarEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	equipo, err := h.equipoSvc.CambiarEstado(c.Request.Context(), c.Param("id"), models.EstadoEquipo(req.Estado))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipo": equipo})
}

func (h HandlerSet) DeleteEquipo(c *gin.Context) {
	if err := h.equipoSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
