package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-ticketing/internal/cache"
	"event-ticketing/internal/model"
	"event-ticketing/internal/repository"
	apperrors "event-ticketing/pkg/app_errors"
	"event-ticketing/pkg/logger"
	"event-ticketing/pkg/metrics"

	"go.uber.org/zap"
)

type EventService interface {
	List(ctx context.Context) ([]*model.Event, error)
	GetByID(ctx context.Context, id int) (*model.Event, error)
	GetBySlug(ctx context.Context, slug string) (*model.Event, error)
	Create(ctx context.Context, event *model.Event) (*model.Event, error)
	Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error)
	// Publish DRAFT -> PUBLISHED，已發布時為 no-op，並預熱容量快取
	Publish(ctx context.Context, id int) (*model.Event, error)
	Cancel(ctx context.Context, id int) (*model.Event, error)
	// CurrentCapacity 從已提交的資料計算，不經過快取
	CurrentCapacity(ctx context.Context, id int) (model.Availability, error)
	Price(ctx context.Context, id int) (*float64, error)
	// Availability 讀取路徑：先查快取，miss 時回 DB 並回填
	Availability(ctx context.Context, id int) (model.Availability, error)
	RefreshAvailability(ctx context.Context, id int) error
}

type EventServiceImpl struct {
	repo         repository.EventRepository
	ticketRepo   repository.TicketRepository
	availability cache.AvailabilityCache
	log          *zap.Logger
}

// NewEventService availability 可為 nil，此時所有讀取都直接走 DB
func NewEventService(repo repository.EventRepository, ticketRepo repository.TicketRepository, availability cache.AvailabilityCache) EventService {
	return &EventServiceImpl{
		repo:         repo,
		ticketRepo:   ticketRepo,
		availability: availability,
		log:          logger.WithComponent("catalog"),
	}
}

func (s *EventServiceImpl) List(ctx context.Context) ([]*model.Event, error) {
	return s.repo.List(ctx)
}

func (s *EventServiceImpl) GetByID(ctx context.Context, id int) (*model.Event, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *EventServiceImpl) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return s.repo.FindBySlug(ctx, slug)
}

func (s *EventServiceImpl) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	if err := validateNewEvent(event); err != nil {
		return nil, err
	}

	if event.Status == "" {
		event.Status = model.EventStatusDraft
	}
	event.Published = event.Status == model.EventStatusPublished

	created, err := s.repo.Create(ctx, event)
	if err != nil {
		return nil, err
	}

	s.log.Info("event created",
		zap.Int("event_id", created.ID),
		zap.String("slug", created.Slug),
		zap.String("status", string(created.Status)),
	)
	if created.Status == model.EventStatusPublished {
		s.warm(ctx, created.ID)
	}
	return created, nil
}

func validateNewEvent(event *model.Event) error {
	event.Title = strings.TrimSpace(event.Title)
	event.Slug = strings.TrimSpace(event.Slug)

	switch {
	case event.Title == "":
		return fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	case event.Slug == "":
		return fmt.Errorf("%w: slug is required", apperrors.ErrInvalidInput)
	case event.Capacity <= 0:
		return fmt.Errorf("%w: capacity must be positive", apperrors.ErrInvalidInput)
	case event.StartDate.IsZero():
		return fmt.Errorf("%w: start date is required", apperrors.ErrInvalidInput)
	case event.EndDate != nil && event.EndDate.Before(event.StartDate):
		return fmt.Errorf("%w: end date before start date", apperrors.ErrInvalidInput)
	case event.Price != nil && *event.Price < 0:
		return fmt.Errorf("%w: price must not be negative", apperrors.ErrInvalidInput)
	}

	// 建立時只允許 DRAFT 或 PUBLISHED
	if event.Status == "" {
		return nil
	}
	if !event.Status.IsValid() || event.Status == model.EventStatusCancelled {
		return fmt.Errorf("%w: cannot create event with status %q", apperrors.ErrInvalidInput, event.Status)
	}
	return nil
}

func (s *EventServiceImpl) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	if params.Title != nil && strings.TrimSpace(*params.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", apperrors.ErrInvalidInput)
	}
	if params.Price != nil && *params.Price < 0 {
		return nil, fmt.Errorf("%w: price must not be negative", apperrors.ErrInvalidInput)
	}

	updated, err := s.repo.Update(ctx, id, params)
	if err != nil {
		return nil, err
	}

	// 價格變動只影響之後發出的票，快取內的價格需要跟著更新
	if params.Price != nil || params.ClearPrice {
		s.warm(ctx, id)
	}
	return updated, nil
}

func (s *EventServiceImpl) Publish(ctx context.Context, id int) (*model.Event, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if event.Status == model.EventStatusPublished {
		return event, nil
	}
	if !event.Status.CanTransitionTo(model.EventStatusPublished) {
		return nil, fmt.Errorf("%w: event is %s", apperrors.ErrInvalidTransition, event.Status)
	}

	published, err := s.repo.TransitionStatus(ctx, id, []model.EventStatus{model.EventStatusDraft}, model.EventStatusPublished)
	if errors.Is(err, apperrors.ErrEventNotFound) {
		// 讀取後狀態已被其他請求改變
		current, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		if current.Status == model.EventStatusPublished {
			return current, nil
		}
		return nil, fmt.Errorf("%w: event is %s", apperrors.ErrInvalidTransition, current.Status)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("event published", zap.Int("event_id", id))
	s.warm(ctx, id)
	return published, nil
}

func (s *EventServiceImpl) Cancel(ctx context.Context, id int) (*model.Event, error) {
	cancelled, err := s.repo.TransitionStatus(ctx, id,
		[]model.EventStatus{model.EventStatusDraft, model.EventStatusPublished},
		model.EventStatusCancelled,
	)
	if errors.Is(err, apperrors.ErrEventNotFound) {
		current, findErr := s.repo.FindByID(ctx, id)
		if findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: event is %s", apperrors.ErrInvalidTransition, current.Status)
	}
	if err != nil {
		return nil, err
	}

	s.log.Info("event cancelled", zap.Int("event_id", id))
	if s.availability != nil {
		if err := s.availability.Invalidate(ctx, id); err != nil {
			s.log.Warn("invalidate availability failed", zap.Int("event_id", id), zap.Error(err))
		}
	}
	return cancelled, nil
}

func (s *EventServiceImpl) CurrentCapacity(ctx context.Context, id int) (model.Availability, error) {
	availability, _, err := s.snapshot(ctx, id)
	return availability, err
}

// snapshot 回傳容量概況與讀取開始的時間，供快取判斷新舊
func (s *EventServiceImpl) snapshot(ctx context.Context, id int) (model.Availability, time.Time, error) {
	asOf := time.Now()

	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return model.Availability{}, asOf, err
	}
	outstanding, err := s.ticketRepo.CountOutstanding(ctx, id)
	if err != nil {
		return model.Availability{}, asOf, err
	}
	return model.NewAvailability(event, outstanding), asOf, nil
}

func (s *EventServiceImpl) Price(ctx context.Context, id int) (*float64, error) {
	event, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return event.Price, nil
}

func (s *EventServiceImpl) Availability(ctx context.Context, id int) (model.Availability, error) {
	if s.availability != nil {
		cached, err := s.availability.Get(ctx, id)
		switch {
		case err == nil:
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return cached, nil
		case errors.Is(err, cache.ErrCacheMiss):
			metrics.CacheLookups.WithLabelValues("miss").Inc()
		default:
			metrics.CacheLookups.WithLabelValues("error").Inc()
			s.log.Warn("availability cache read failed", zap.Int("event_id", id), zap.Error(err))
		}
	}

	availability, asOf, err := s.snapshot(ctx, id)
	if err != nil {
		return model.Availability{}, err
	}
	if s.availability != nil {
		if err := s.availability.Set(ctx, availability, asOf); err != nil {
			s.log.Warn("availability cache write failed", zap.Int("event_id", id), zap.Error(err))
		}
	}
	return availability, nil
}

func (s *EventServiceImpl) RefreshAvailability(ctx context.Context, id int) error {
	if s.availability == nil {
		return nil
	}
	availability, asOf, err := s.snapshot(ctx, id)
	if err != nil {
		return err
	}
	return s.availability.Set(ctx, availability, asOf)
}

// warm 快取寫入失敗不影響主流程
func (s *EventServiceImpl) warm(ctx context.Context, id int) {
	if err := s.RefreshAvailability(ctx, id); err != nil {
		s.log.Warn("warm availability failed", zap.Int("event_id", id), zap.Error(err))
	}
}
