package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/repository"
	"github.com/rentamaq/api/internal/service"
)

type arriendoItemRequest struct {
	EquipoID       string  `json:"equipoId" binding:"required"`
	Cantidad       int     `json:"cantidad" binding:"required"`
	PrecioUnitario float64 `json:"precioUnitario"`
}

type arriendoRequest struct {
	ClienteID     string                `json:"clienteId" binding:"required"`
	FechaInicio   time.Time             `json:"fechaInicio" binding:"required"`
	FechaFin      time.Time             `json:"fechaFin" binding:"required"`
	Observaciones string                `json:"observaciones"`
	Items         []arriendoItemRequest `json:"items" binding:"required"`
}

func (h HandlerSet) ListArriendos(c *gin.Context) {
	filter := repository.ArriendoFilter{
		ClienteID: c.Query("clienteId"),
		Estado:    models.EstadoArriendo(c.Query("estado")),
	}

	arriendos, err := h.arriendoSvc.List(c.Request.Context(), filter)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"arriendos": arriendos})
}

func (h HandlerSet) CreateArriendo(c *gin.Context) {
	var req arriendoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	input := service.ArriendoInput{
		ClienteID:     req.ClienteID,
		FechaInicio:   req.FechaInicio,
		FechaFin:      req.FechaFin,
		Observaciones: req.Observaciones,
	}
	for _, item := range req.Items {
		input.Items = append(input.Items, service.ArriendoItemInput{
			EquipoID:       item.EquipoID,
			Cantidad:       item.Cantidad,
			PrecioUnitario: item.PrecioUnitario,
		})
	}

	arriendo, err := h.arriendoSvc.Create(c.Request.Context(), input)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"arriendo": arriendo})
}

func (h HandlerSet) GetArriendo(c *gin.Context) {
	arriendo, err := h.arriendoSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"arriendo": arriendo})
}

func (h HandlerSet) CambiarEstadoArriendo(c *gin.Context) {
	var req cambiarEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	arriendo, err := h.arriendoSvc.CambiarEstado(c.Request.Context(), c.Param("id"), models.EstadoArriendo(req.Estado))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"arriendo": arriendo})
}

func (h HandlerSet) DeleteArriendo(c *gin.Context) {
	if err := h.arriendoSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type pagoRequest struct {
	Monto      float64   `json:"monto" binding:"required"`
	Metodo     string    `json:"metodo" binding:"required"`
	FechaPago  time.Time `json:"fechaPago"`
	Referencia string    `json:"referencia"`
}

func (h HandlerSet) AddPago(c *gin.Context) {
	var req pagoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	pago, err := h.arriendoSvc.AddPago(c.Request.Context(), c.Param("id"), service.PagoInput{
		Monto:      req.Monto,
		Metodo:     req.Metodo,
		FechaPago:  req.FechaPago,
		Referencia: req.Referencia,
	})
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"pago": pago})
}
