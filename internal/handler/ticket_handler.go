package handler

import (
	"net/http"

	"event-ticketing/internal/model"
	"event-ticketing/internal/service"

	"github.com/gin-gonic/gin"
)

type TicketHandler struct {
	service service.TicketService
}

func NewTicketHandler(service service.TicketService) *TicketHandler {
	return &TicketHandler{service: service}
}

func (h *TicketHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.POST("tickets", h.Issue)
		router.GET("tickets/:id", h.GetByID)
		router.PUT("tickets/:id/confirm", h.Confirm)
		router.PUT("tickets/:id/cancel", h.Cancel)
		router.GET("events/:id/tickets", h.ListByEvent)
		router.GET("users/:id/tickets", h.ListByUser)
		router.POST("check-ins", h.CheckIn)
	}
}

func (h *TicketHandler) Issue(c *gin.Context) {
	var req model.IssueTicketRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	ticket, err := h.service.Issue(c, req.EventID, req.UserID)
	if err != nil {
		handleError(c, err, "Issue")
		return
	}
	c.JSON(http.StatusCreated, ticket)
}

func (h *TicketHandler) GetByID(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	ticket, err := h.service.GetByID(c, id)
	if err != nil {
		handleError(c, err, "GetByID")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Confirm(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	ticket, err := h.service.Confirm(c, id)
	if err != nil {
		handleError(c, err, "Confirm")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) Cancel(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	ticket, err := h.service.Cancel(c, id)
	if err != nil {
		handleError(c, err, "Cancel")
		return
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *TicketHandler) ListByEvent(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	tickets, err := h.service.ListByEvent(c, id)
	if err != nil {
		handleError(c, err, "ListByEvent")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) ListByUser(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	tickets, err := h.service.ListByUser(c, id)
	if err != nil {
		handleError(c, err, "ListByUser")
		return
	}
	c.JSON(http.StatusOK, tickets)
}

func (h *TicketHandler) CheckIn(c *gin.Context) {
	var req model.CheckInRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	ticket, err := h.service.CheckIn(c, req.QRCode)
	if err != nil {
		handleError(c, err, "CheckIn")
		return
	}
	c.JSON(http.StatusOK, ticket)
}
