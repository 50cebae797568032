package mocks

import (
	"context"

	"event-ticketing/internal/model"
	"event-ticketing/internal/service"

	"github.com/stretchr/testify/mock"
)

type TicketServiceMock struct {
	mock.Mock
}

var _ service.TicketService = (*TicketServiceMock)(nil)

func NewTicketServiceMock() *TicketServiceMock {
	return &TicketServiceMock{}
}

func ticketResult(args mock.Arguments) (*model.Ticket, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Ticket), args.Error(1)
}

func ticketsResult(args mock.Arguments) ([]*model.Ticket, error) {
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Ticket), args.Error(1)
}

func (m *TicketServiceMock) Issue(ctx context.Context, eventID int, userID int) (*model.Ticket, error) {
	return ticketResult(m.Called(ctx, eventID, userID))
}

func (m *TicketServiceMock) IssueIfAbsent(ctx context.Context, eventID int, userID int) (*model.Ticket, bool, error) {
	args := m.Called(ctx, eventID, userID)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*model.Ticket), args.Bool(1), args.Error(2)
}

func (m *TicketServiceMock) Confirm(ctx context.Context, ticketID int) (*model.Ticket, error) {
	return ticketResult(m.Called(ctx, ticketID))
}

func (m *TicketServiceMock) CheckIn(ctx context.Context, qrCode string) (*model.Ticket, error) {
	return ticketResult(m.Called(ctx, qrCode))
}

func (m *TicketServiceMock) Cancel(ctx context.Context, ticketID int) (*model.Ticket, error) {
	return ticketResult(m.Called(ctx, ticketID))
}

func (m *TicketServiceMock) GetByID(ctx context.Context, id int) (*model.Ticket, error) {
	return ticketResult(m.Called(ctx, id))
}

func (m *TicketServiceMock) GetByQRCode(ctx context.Context, qrCode string) (*model.Ticket, error) {
	return ticketResult(m.Called(ctx, qrCode))
}

func (m *TicketServiceMock) ListByEvent(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	return ticketsResult(m.Called(ctx, eventID))
}

func (m *TicketServiceMock) ListByUser(ctx context.Context, userID int) ([]*model.Ticket, error) {
	return ticketsResult(m.Called(ctx, userID))
}
