package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/service"
)

func (h HandlerSet) ListConfiguracion(c *gin.Context) {
	entries, err := h.configSvc.List(c.Request.Context(), c.Query("grupo"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"configuracion": entries})
}

type configuracionRequest struct {
	Valor       string `json:"valor"`
	Tipo        string `json:"tipo" binding:"required"`
	Grupo       string `json:"grupo"`
	Descripcion string `json:"descripcion"`
}

func (h HandlerSet) UpsertConfiguracion(c *gin.Context) {
	var req configuracionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry, err := h.configSvc.Upsert(c.Request.Context(), c.Param("clave"), service.ConfiguracionInput{
		Valor:       req.Valor,
		Tipo:        models.TipoConfiguracion(req.Tipo),
		Grupo:       req.Grupo,
		Descripcion: req.Descripcion,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"configuracion": entry})
}

func (h HandlerSet) GetDocumento(c *gin.Context) {
	doc, err := h.configSvc.GetDocumento(c.Request.Context(), models.TipoDocumento(c.Param("tipo")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documento": doc})
}

type documentoRequest struct {
	Contenido     string `json:"contenido" binding:"required"`
	Version       string `json:"version" binding:"required"`
	FechaVigencia string `json:"fechaVigencia"`
	Activo        bool   `json:"activo"`
}

func (h HandlerSet) SaveDocumento(c *gin.Context) {
	var req documentoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc, err := h.configSvc.SaveDocumento(c.Request.Context(), models.TipoDocumento(c.Param("tipo")), service.DocumentoInput{
		Contenido:     req.Contenido,
		Version:       req.Version,
		FechaVigencia: req.FechaVigencia,
		Activo:        req.Activo,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"documento": doc})
}
