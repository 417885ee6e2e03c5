package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/rentamaq/api/internal/models"
	"github.com/rentamaq/api/internal/service"
)

type clienteRequest struct {
	Tipo                string  `json:"tipo" binding:"required"`
	RUT                 string  `json:"rut"`
	Nombre              string  `json:"nombre" binding:"required"`
	Email               string  `json:"email"`
	Telefono            string  `json:"telefono"`
	Direccion           string  `json:"direccion"`
	CreditoAprobado     bool    `json:"creditoAprobado"`
	LimiteCredito       float64 `json:"limiteCredito"`
	DescuentoPorcentaje float64 `json:"descuentoPorcentaje"`
}

func (r clienteRequest) toInput() service.ClienteInput {
	return service.ClienteInput{
		Tipo:                models.TipoCliente(r.Tipo),
		RUT:                 r.RUT,
		Nombre:              r.Nombre,
		Email:               r.Email,
		Telefono:            r.Telefono,
		Direccion:           r.Direccion,
		CreditoAprobado:     r.CreditoAprobado,
		LimiteCredito:       r.LimiteCredito,
		DescuentoPorcentaje: r.DescuentoPorcentaje,
	}
}

func (h HandlerSet) ListClientes(c *gin.Context) {
	incluirInactivos := c.Query("incluirInactivos") == "true"

	clientes, err := h.clienteSvc.List(c.Request.Context(), incluirInactivos)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"clientes": clientes})
}

func (h HandlerSet) CreateCliente(c *gin.Context) {
	var req clienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cliente, err := h.clienteSvc.Create(c.Request.Context(), req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"cliente": cliente})
}

func (h HandlerSet) GetCliente(c *gin.Context) {
	cliente, err := h.clienteSvc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cliente": cliente})
}

func (h HandlerSet) UpdateCliente(c *gin.Context) {
	var req clienteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	cliente, err := h.clienteSvc.Update(c.Request.Context(), c.Param("id"), req.toInput())
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"cliente": cliente})
}

func (h HandlerSet) DeleteCliente(c *gin.Context) {
	if err := h.clienteSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
