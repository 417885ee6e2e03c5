package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentamaq/api/internal/ids"
	"github.com/rentamaq/api/internal/models"
)

// PublicCatalogo serves the marketing site's rental catalog.
func (h HandlerSet) PublicCatalogo(c *gin.Context) {
	equipos, err := h.equipoSvc.Catalogo(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"equipos": equipos})
}

func (h HandlerSet) PublicCategorias(c *gin.Context) {
	categorias, err := h.equipoSvc.Categorias(c.Request.Context())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"categorias": categorias})
}

// PublicDocumento exposes the active legal documents (terminos, privacidad).
func (h HandlerSet) PublicDocumento(c *gin.Context) {
	doc, err := h.configSvc.GetDocumento(c.Request.Context(), models.TipoDocumento(c.Param("tipo")))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !doc.Activo {
		c.JSON(http.StatusNotFound, gin.H{"error": "documento no disponible"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"documento": doc})
}

type contactoRequest struct {
	Nombre   string `json:"nombre" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Telefono string `json:"telefono"`
	Mensaje  string `json:"mensaje" binding:"required"`
}

func (h HandlerSet) PublicContacto(c *gin.Context) {
	var req contactoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	mensaje := models.MensajeContacto{
		ID:       ids.New(),
		Nombre:   req.Nombre,
		Email:    req.Email,
		Telefono: req.Telefono,
		Mensaje:  req.Mensaje,
	}
	if err := h.contactos.Create(c.Request.Context(), mensaje); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"mensaje": "Gracias por contactarnos, responderemos a la brevedad"})
}

func (h HandlerSet) ListContactos(c *gin.Context) {
	mensajes, err := h.contactos.List(c.Request.Context(), c.Query("soloNoLeidos") == "true")
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"mensajes": mensajes})
}

func (h HandlerSet) MarcarContactoLeido(c *gin.Context) {
	if err := h.contactos.MarcarLeido(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
