package handler

import (
	"net/http"
	"time"

	"event-ticketing/internal/model"
	"event-ticketing/internal/service"

	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	service service.EventService
}

func NewEventHandler(service service.EventService) *EventHandler {
	return &EventHandler{service: service}
}

func (h *EventHandler) RegisterRoutes(r *gin.Engine) {
	router := r.Group("/api/v1")
	{
		router.GET("events", h.List)
		router.GET("events/:id", h.GetByID)
		router.GET("events/:id/availability", h.Availability)
		router.POST("events", h.Create)
		router.PUT("events/:id", h.Update)
		router.PUT("events/:id/publish", h.Publish)
		router.PUT("events/:id/cancel", h.Cancel)
	}
}

// CreateEventRequest 建立活動請求，price 省略代表免費
type CreateEventRequest struct {
	Title       string            `json:"title" binding:"required"`
	Slug        string            `json:"slug" binding:"required"`
	Description string            `json:"description"`
	Image       *string           `json:"image"`
	StartDate   time.Time         `json:"start_date" binding:"required"`
	EndDate     *time.Time        `json:"end_date"`
	Location    string            `json:"location"`
	Address     string            `json:"address"`
	City        string            `json:"city"`
	Country     string            `json:"country"`
	Capacity    int               `json:"capacity" binding:"required"`
	Price       *float64          `json:"price"`
	Status      model.EventStatus `json:"status"`
	Featured    bool              `json:"featured"`
	Tags        []string          `json:"tags"`
	OrganizerID int               `json:"organizer_id" binding:"required"`
	CategoryID  int               `json:"category_id" binding:"required"`
}

// UpdateEventRequest clear_price=true 時將活動改為免費
type UpdateEventRequest struct {
	Title       *string  `json:"title"`
	Description *string  `json:"description"`
	Price       *float64 `json:"price"`
	ClearPrice  bool     `json:"clear_price"`
	Featured    *bool    `json:"featured"`
	Tags        []string `json:"tags"`
}

func (h *EventHandler) List(c *gin.Context) {
	if slug := c.Query("slug"); slug != "" {
		event, err := h.service.GetBySlug(c, slug)
		if err != nil {
			handleError(c, err, "GetBySlug")
			return
		}
		c.JSON(http.StatusOK, []*model.Event{event})
		return
	}

	events, err := h.service.List(c)
	if err != nil {
		handleError(c, err, "List")
		return
	}
	c.JSON(http.StatusOK, events)
}

func (h *EventHandler) GetByID(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.GetByID(c, id)
	if err != nil {
		handleError(c, err, "GetByID")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Availability(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	availability, err := h.service.Availability(c, id)
	if err != nil {
		handleError(c, err, "Availability")
		return
	}
	c.JSON(http.StatusOK, availability)
}

func (h *EventHandler) Create(c *gin.Context) {
	var req CreateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	event := &model.Event{
		Title:       req.Title,
		Slug:        req.Slug,
		Description: req.Description,
		Image:       req.Image,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Location:    req.Location,
		Address:     req.Address,
		City:        req.City,
		Country:     req.Country,
		Capacity:    req.Capacity,
		Price:       req.Price,
		Status:      req.Status,
		Featured:    req.Featured,
		Tags:        req.Tags,
		OrganizerID: req.OrganizerID,
		CategoryID:  req.CategoryID,
	}
	created, err := h.service.Create(c, event)
	if err != nil {
		handleError(c, err, "Create")
		return
	}
	c.JSON(http.StatusCreated, created)
}

func (h *EventHandler) Update(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if err := BindJson(c, &req); err != nil {
		return
	}
	if req.Title == nil && req.Description == nil && req.Price == nil && !req.ClearPrice && req.Featured == nil && req.Tags == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "At least one field is required"})
		return
	}
	params := model.UpdateEventParams{
		Title:       req.Title,
		Description: req.Description,
		Price:       req.Price,
		ClearPrice:  req.ClearPrice,
		Featured:    req.Featured,
		Tags:        req.Tags,
	}
	updated, err := h.service.Update(c, id, params)
	if err != nil {
		handleError(c, err, "Update")
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *EventHandler) Publish(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Publish(c, id)
	if err != nil {
		handleError(c, err, "Publish")
		return
	}
	c.JSON(http.StatusOK, event)
}

func (h *EventHandler) Cancel(c *gin.Context) {
	id, ok := BindID(c, "id")
	if !ok {
		return
	}
	event, err := h.service.Cancel(c, id)
	if err != nil {
		handleError(c, err, "Cancel")
		return
	}
	c.JSON(http.StatusOK, event)
}
