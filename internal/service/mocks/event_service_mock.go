package mocks

import (
	"context"

	"event-ticketing/internal/model"
	"event-ticketing/internal/service"

	"github.com/stretchr/testify/mock"
)

type EventServiceMock struct {
	mock.Mock
}

var _ service.EventService = (*EventServiceMock)(nil)

func NewEventServiceMock() *EventServiceMock {
	return &EventServiceMock{}
}

func eventResult(args mock.Arguments) (*model.Event, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Event), args.Error(1)
}

func (m *EventServiceMock) List(ctx context.Context) ([]*model.Event, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Event), args.Error(1)
}

func (m *EventServiceMock) GetByID(ctx context.Context, id int) (*model.Event, error) {
	return eventResult(m.Called(ctx, id))
}

func (m *EventServiceMock) GetBySlug(ctx context.Context, slug string) (*model.Event, error) {
	return eventResult(m.Called(ctx, slug))
}

func (m *EventServiceMock) Create(ctx context.Context, event *model.Event) (*model.Event, error) {
	return eventResult(m.Called(ctx, event))
}

func (m *EventServiceMock) Update(ctx context.Context, id int, params model.UpdateEventParams) (*model.Event, error) {
	return eventResult(m.Called(ctx, id, params))
}

func (m *EventServiceMock) Publish(ctx context.Context, id int) (*model.Event, error) {
	return eventResult(m.Called(ctx, id))
}

func (m *EventServiceMock) Cancel(ctx context.Context, id int) (*model.Event, error) {
	return eventResult(m.Called(ctx, id))
}

func (m *EventServiceMock) CurrentCapacity(ctx context.Context, id int) (model.Availability, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Availability), args.Error(1)
}

func (m *EventServiceMock) Price(ctx context.Context, id int) (*float64, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*float64), args.Error(1)
}

func (m *EventServiceMock) Availability(ctx context.Context, id int) (model.Availability, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Availability), args.Error(1)
}

func (m *EventServiceMock) RefreshAvailability(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}
