package handler

import (
	"net/http"
	"testing"
	"time"

	"event-ticketing/internal/model"
	apperrors "event-ticketing/pkg/app_errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func validCreateEventRequest() CreateEventRequest {
	return CreateEventRequest{
		Title:       "Workshop de TypeScript Avanzado",
		Slug:        "typescript-workshop-2025",
		StartDate:   time.Date(2025, 12, 20, 14, 0, 0, 0, time.UTC),
		Capacity:    30,
		OrganizerID: 1,
		CategoryID:  2,
	}
}

func TestCreateEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		events.On("Create", mock.Anything, mock.MatchedBy(func(e *model.Event) bool {
			return e.Slug == "typescript-workshop-2025" && e.Capacity == 30 && e.Price == nil
		})).Return(&model.Event{ID: 1, Slug: "typescript-workshop-2025", Status: model.EventStatusDraft}, nil).Once()

		w := serve(t, router, createJSONHTTPRequest("POST", "/api/v1/events", validCreateEventRequest()))

		assert.Equal(t, http.StatusCreated, w.Code)
		events.AssertExpectations(t)
	})

	t.Run("Failed - missing capacity", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		req := validCreateEventRequest()
		req.Capacity = 0

		w := serve(t, router, createJSONHTTPRequest("POST", "/api/v1/events", req))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		events.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("Failed - duplicate slug", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		events.On("Create", mock.Anything, mock.Anything).Return(nil, apperrors.ErrDuplicateSlug).Once()

		w := serve(t, router, createJSONHTTPRequest("POST", "/api/v1/events", validCreateEventRequest()))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failed - service validation", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		events.On("Create", mock.Anything, mock.Anything).Return(nil, apperrors.ErrInvalidInput).Once()

		w := serve(t, router, createJSONHTTPRequest("POST", "/api/v1/events", validCreateEventRequest()))

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestPublishEvent(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		events.On("Publish", mock.Anything, 1).Return(&model.Event{ID: 1, Status: model.EventStatusPublished, Published: true}, nil).Once()

		w := serve(t, router, createJSONHTTPRequest("PUT", "/api/v1/events/1/publish", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, decode[model.Event](t, w).Published)
	})

	t.Run("Failed - cancelled event", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		events.On("Publish", mock.Anything, 1).Return(nil, apperrors.ErrInvalidTransition).Once()

		w := serve(t, router, createJSONHTTPRequest("PUT", "/api/v1/events/1/publish", nil))

		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Failed - not found", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		events.On("Publish", mock.Anything, 1).Return(nil, apperrors.ErrEventNotFound).Once()

		w := serve(t, router, createJSONHTTPRequest("PUT", "/api/v1/events/1/publish", nil))

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestCancelEvent(t *testing.T) {
	router, events, _ := setupTestRouter()
	events.On("Cancel", mock.Anything, 4).Return(&model.Event{ID: 4, Status: model.EventStatusCancelled}, nil).Once()

	w := serve(t, router, createJSONHTTPRequest("PUT", "/api/v1/events/4/cancel", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.EventStatusCancelled, decode[model.Event](t, w).Status)
}

func TestEventAvailability(t *testing.T) {
	router, events, _ := setupTestRouter()
	events.On("Availability", mock.Anything, 2).Return(model.Availability{EventID: 2, Capacity: 30, Outstanding: 10, Remaining: 20}, nil).Once()

	w := serve(t, router, createJSONHTTPRequest("GET", "/api/v1/events/2/availability", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 20, decode[model.Availability](t, w).Remaining)
}

func TestUpdateEvent(t *testing.T) {
	t.Run("Success - price change", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		newPrice := 30.0
		events.On("Update", mock.Anything, 1, model.UpdateEventParams{Price: &newPrice}).Return(&model.Event{ID: 1, Price: &newPrice}, nil).Once()

		w := serve(t, router, createJSONHTTPRequest("PUT", "/api/v1/events/1", map[string]any{"price": 30.0}))

		assert.Equal(t, http.StatusOK, w.Code)
		events.AssertExpectations(t)
	})

	t.Run("Failed - empty body", func(t *testing.T) {
		router, events, _ := setupTestRouter()

		w := serve(t, router, createJSONHTTPRequest("PUT", "/api/v1/events/1", map[string]any{}))

		assert.Equal(t, http.StatusBadRequest, w.Code)
		events.AssertNotCalled(t, "Update", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestListEvents(t *testing.T) {
	t.Run("All", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		events.On("List", mock.Anything).Return([]*model.Event{{ID: 1}, {ID: 2}}, nil).Once()

		w := serve(t, router, createJSONHTTPRequest("GET", "/api/v1/events", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Len(t, decode[[]model.Event](t, w), 2)
	})

	t.Run("By slug", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		events.On("GetBySlug", mock.Anything, "ba-js-meetup-december").Return(&model.Event{ID: 3}, nil).Once()

		w := serve(t, router, createJSONHTTPRequest("GET", "/api/v1/events?slug=ba-js-meetup-december", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		events.AssertNotCalled(t, "List", mock.Anything)
	})

	t.Run("Failed - storage error", func(t *testing.T) {
		router, events, _ := setupTestRouter()
		events.On("List", mock.Anything).Return(nil, assert.AnError).Once()

		w := serve(t, router, createJSONHTTPRequest("GET", "/api/v1/events", nil))

		assert.Equal(t, http.StatusInternalServerError, w.Code)
	})
}
