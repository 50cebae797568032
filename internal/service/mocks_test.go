package service

import (
	"context"
	"time"

	"event-ticketing/internal/model"
	"event-ticketing/internal/repository"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/mock"
)

type eventRepositoryMock struct {
	mock.Mock
}

var _ repository.EventRepository = (*eventRepositoryMock)(nil)

func (m *eventRepositoryMock) event(args mock.Arguments) (*model.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *eventRepositoryMock) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	return m.event(m.Called(ctx, event))
}

func (m *eventRepositoryMock) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *eventRepositoryMock) FindByID(ctx context.Context, id int) (*model.Event, error) {
	return m.event(m.Called(ctx, id))
}

func (m *eventRepositoryMock) FindBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return m.event(m.Called(ctx, slug))
}

func (m *eventRepositoryMock) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	return m.event(m.Called(ctx, id, params))
}

func (m *eventRepositoryMock) TransitionStatus(ctx context.Context, id int, from []model.EventStatus, to model.EventStatus) (*model.Event, error) {
	return m.event(m.Called(ctx, id, from, to))
}

func (m *eventRepositoryMock) FindByIDForUpdate(ctx context.Context, tx pgx.Tx, id int) (*model.Event, error) {
	return m.event(m.Called(ctx, tx, id))
}

// ticketCounterMock 只實作 EventService 需要的 CountOutstanding
type ticketCounterMock struct {
	repository.TicketRepository
	mock.Mock
}

func (m *ticketCounterMock) CountOutstanding(ctx context.Context, eventID int) (int, error) {
	args := m.Called(ctx, eventID)
	return args.Int(0), args.Error(1)
}

type availabilityCacheMock struct {
	mock.Mock
}

func (m *availabilityCacheMock) Set(ctx context.Context, availability model.Availability, asOf time.Time) error {
	return m.Called(ctx, availability, asOf).Error(0)
}

func (m *availabilityCacheMock) Get(ctx context.Context, eventID int) (model.Availability, error) {
	args := m.Called(ctx, eventID)
	return args.Get(0).(model.Availability), args.Error(1)
}

func (m *availabilityCacheMock) Invalidate(ctx context.Context, eventID int) error {
	return m.Called(ctx, eventID).Error(0)
}
