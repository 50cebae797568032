package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"event-ticketing/config"
	"event-ticketing/internal/model"
	"event-ticketing/internal/queue"
	"event-ticketing/internal/repository"
	apperrors "event-ticketing/pkg/app_errors"
	"event-ticketing/pkg/logger"
	"event-ticketing/pkg/metrics"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const (
	defaultCodeAttempts = 5
	checkInAttempts     = 2
	publishTimeout      = 2 * time.Second
)

var issueRejectReasons = map[error]string{
	apperrors.ErrCapacityExceeded:     "capacity_exceeded",
	apperrors.ErrDuplicateTicket:      "duplicate",
	apperrors.ErrEventNotOnSale:       "not_on_sale",
	apperrors.ErrNotFound:             "not_found",
	apperrors.ErrCodeGenerationFailed: "code_generation",
}

var checkInRejectReasons = map[error]string{
	apperrors.ErrAlreadyUsed:      "already_used",
	apperrors.ErrAlreadyCancelled: "already_cancelled",
	apperrors.ErrNotConfirmed:     "not_confirmed",
	apperrors.ErrNotFound:         "not_found",
}

type TicketService interface {
	// Issue 在同一個交易中鎖定活動、檢查容量並寫入票券
	Issue(ctx context.Context, eventID int, userID int) (*model.Ticket, error)
	// IssueIfAbsent 使用者已持有該活動的未取消票券時不發票，回傳 false；不受重複購票政策影響
	IssueIfAbsent(ctx context.Context, eventID int, userID int) (*model.Ticket, bool, error)
	// Confirm PENDING -> CONFIRMED
	Confirm(ctx context.Context, ticketID int) (*model.Ticket, error)
	// CheckIn CONFIRMED -> USED，不可重複
	CheckIn(ctx context.Context, qrCode string) (*model.Ticket, error)
	Cancel(ctx context.Context, ticketID int) (*model.Ticket, error)
	GetByID(ctx context.Context, id int) (*model.Ticket, error)
	GetByQRCode(ctx context.Context, qrCode string) (*model.Ticket, error)
	ListByEvent(ctx context.Context, eventID int) ([]*model.Ticket, error)
	ListByUser(ctx context.Context, userID int) ([]*model.Ticket, error)
}

type TicketServiceImpl struct {
	pool         *pgxpool.Pool
	ticketRepo   repository.TicketRepository
	eventRepo    repository.EventRepository
	userRepo     repository.UserRepository
	ticketQueue  queue.TicketQueue
	cfg          config.TicketingConfig
	generateCode CodeGenerator
	log          *zap.Logger
}

type TicketServiceOption func(*TicketServiceImpl)

// WithCodeGenerator 替換 QR code 產生器
func WithCodeGenerator(generate CodeGenerator) TicketServiceOption {
	return func(s *TicketServiceImpl) {
		s.generateCode = generate
	}
}

// NewTicketService ticketQueue 可為 nil，此時不發送生命週期事件
func NewTicketService(
	pool *pgxpool.Pool,
	ticketRepo repository.TicketRepository,
	eventRepo repository.EventRepository,
	userRepo repository.UserRepository,
	ticketQueue queue.TicketQueue,
	cfg config.TicketingConfig,
	opts ...TicketServiceOption,
) TicketService {
	if cfg.CodeAttempts <= 0 {
		cfg.CodeAttempts = defaultCodeAttempts
	}
	s := &TicketServiceImpl{
		pool:         pool,
		ticketRepo:   ticketRepo,
		eventRepo:    eventRepo,
		userRepo:     userRepo,
		ticketQueue:  ticketQueue,
		cfg:          cfg,
		generateCode: NewQRCode,
		log:          logger.WithComponent("issuer"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TicketServiceImpl) Issue(ctx context.Context, eventID int, userID int) (*model.Ticket, error) {
	ticket, err := s.observeIssue(ctx, eventID, userID, false)
	if err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketServiceImpl) IssueIfAbsent(ctx context.Context, eventID int, userID int) (*model.Ticket, bool, error) {
	ticket, err := s.observeIssue(ctx, eventID, userID, true)
	if err != nil {
		return nil, false, err
	}
	return ticket, ticket != nil, nil
}

// observeIssue 記錄 metrics 與 log；ifAbsent 且已持有票券時回傳 nil, nil
func (s *TicketServiceImpl) observeIssue(ctx context.Context, eventID int, userID int, ifAbsent bool) (*model.Ticket, error) {
	start := time.Now()
	ticket, err := s.issue(ctx, eventID, userID, ifAbsent)
	metrics.IssueDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.IssueRejected.WithLabelValues(metrics.Reason(err, issueRejectReasons)).Inc()
		s.log.Info("issue rejected",
			zap.Int("event_id", eventID),
			zap.Int("user_id", userID),
			zap.Error(err),
		)
		return nil, err
	}
	if ticket == nil {
		s.log.Debug("ticket already held, skipping issue", zap.Int("event_id", eventID), zap.Int("user_id", userID))
		return nil, nil
	}

	metrics.TicketsIssued.WithLabelValues(string(ticket.Status)).Inc()
	s.log.Info("ticket issued",
		zap.Int("ticket_id", ticket.ID),
		zap.Int("event_id", eventID),
		zap.Int("user_id", userID),
		zap.String("status", string(ticket.Status)),
	)
	s.notify(ctx, model.TicketEventIssued, ticket)
	return ticket, nil
}

func (s *TicketServiceImpl) issue(ctx context.Context, eventID int, userID int, ifAbsent bool) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	// 1. 鎖定活動，同一活動的發票依序執行
	event, err := s.eventRepo.FindByIDForUpdate(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if event.Status != model.EventStatusPublished {
		return nil, apperrors.ErrEventNotOnSale
	}

	exists, err := s.userRepo.ExistsTx(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.ErrUserNotFound
	}

	// 2. 重複購票政策，ifAbsent 時無論政策都在鎖內檢查
	if ifAbsent || s.cfg.DuplicatePolicy != config.DuplicatePolicyAllow {
		held, err := s.ticketRepo.CountHeldByUser(ctx, tx, eventID, userID)
		if err != nil {
			return nil, err
		}
		if held > 0 {
			if ifAbsent {
				return nil, nil
			}
			return nil, apperrors.ErrDuplicateTicket
		}
	}

	// 3. 容量檢查，只計算 PENDING + CONFIRMED
	outstanding, err := s.ticketRepo.CountOutstandingTx(ctx, tx, eventID)
	if err != nil {
		return nil, err
	}
	if outstanding >= event.Capacity {
		return nil, apperrors.ErrCapacityExceeded
	}

	status := model.TicketStatusConfirmed
	if s.cfg.RequirePayment {
		status = model.TicketStatusPending
	}

	// 4. 價格在此刻寫入票券，之後活動改價不影響
	ticket, err := s.insertWithFreshCode(ctx, tx, &model.Ticket{
		EventID: eventID,
		UserID:  userID,
		Status:  status,
		Price:   event.PriceSnapshot(),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

// insertWithFreshCode 每次嘗試都包在 savepoint 內，唯一鍵衝突時只回滾該次嘗試
func (s *TicketServiceImpl) insertWithFreshCode(ctx context.Context, tx pgx.Tx, candidate *model.Ticket) (*model.Ticket, error) {
	for attempt := 1; attempt <= s.cfg.CodeAttempts; attempt++ {
		code, err := s.generateCode()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrCodeGenerationFailed, err)
		}
		candidate.QRCode = code

		created, err := s.insertInSavepoint(ctx, tx, candidate)
		if errors.Is(err, repository.ErrQRCodeConflict) {
			s.log.Warn("qr code collision, regenerating", zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return nil, err
		}
		return created, nil
	}
	return nil, apperrors.ErrCodeGenerationFailed
}

func (s *TicketServiceImpl) insertInSavepoint(ctx context.Context, tx pgx.Tx, candidate *model.Ticket) (*model.Ticket, error) {
	savepoint, err := tx.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer savepoint.Rollback(ctx)

	created, err := s.ticketRepo.Create(ctx, savepoint, candidate)
	if err != nil {
		return nil, err
	}
	if err := savepoint.Commit(ctx); err != nil {
		return nil, err
	}
	return created, nil
}

func (s *TicketServiceImpl) Confirm(ctx context.Context, ticketID int) (*model.Ticket, error) {
	ticket, err := s.transition(ctx, ticketID, model.TicketStatusesTo(model.TicketStatusConfirmed), model.TicketStatusConfirmed)
	if err != nil {
		return nil, err
	}

	s.log.Info("ticket confirmed", zap.Int("ticket_id", ticket.ID))
	s.notify(ctx, model.TicketEventConfirmed, ticket)
	return ticket, nil
}

func (s *TicketServiceImpl) Cancel(ctx context.Context, ticketID int) (*model.Ticket, error) {
	ticket, err := s.transition(ctx, ticketID, model.TicketStatusesTo(model.TicketStatusCancelled), model.TicketStatusCancelled)
	if err != nil {
		return nil, err
	}

	metrics.TicketsCancelled.Inc()
	s.log.Info("ticket cancelled", zap.Int("ticket_id", ticket.ID), zap.Int("event_id", ticket.EventID))
	s.notify(ctx, model.TicketEventCancelled, ticket)
	return ticket, nil
}

// transition compare-and-set；失敗時重新讀取以區分不存在與狀態不符
func (s *TicketServiceImpl) transition(ctx context.Context, ticketID int, from []model.TicketStatus, to model.TicketStatus) (*model.Ticket, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ticket, err := s.ticketRepo.CompareAndSetStatus(ctx, tx, ticketID, from, to)
	if errors.Is(err, apperrors.ErrTicketNotFound) {
		current, findErr := s.ticketRepo.FindByIDTx(ctx, tx, ticketID)
		if findErr != nil {
			return nil, findErr
		}
		return nil, fmt.Errorf("%w: ticket is %s", apperrors.ErrInvalidTransition, current.Status)
	}
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketServiceImpl) CheckIn(ctx context.Context, qrCode string) (*model.Ticket, error) {
	ticket, err := s.checkIn(ctx, strings.TrimSpace(qrCode))
	if err != nil {
		metrics.CheckInRejected.WithLabelValues(metrics.Reason(err, checkInRejectReasons)).Inc()
		s.log.Info("check-in rejected", zap.Error(err))
		return nil, err
	}

	metrics.CheckIns.Inc()
	s.log.Info("ticket checked in", zap.Int("ticket_id", ticket.ID), zap.Int("event_id", ticket.EventID))
	s.notify(ctx, model.TicketEventCheckedIn, ticket)
	return ticket, nil
}

func (s *TicketServiceImpl) checkIn(ctx context.Context, qrCode string) (*model.Ticket, error) {
	if qrCode == "" {
		return nil, fmt.Errorf("%w: qr code is required", apperrors.ErrInvalidInput)
	}

	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	ticket, err := s.markUsed(ctx, tx, qrCode)
	if err != nil {
		return nil, err
	}

	if _, err := s.ticketRepo.CreateCheckIn(ctx, tx, ticket); err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return ticket, nil
}

// markUsed 只有 CONFIRMED 的票會被更新，兩個並行的 check-in 只有一個會成功。
// CAS 落空後重讀到 CONFIRMED 代表期間有人 confirm，再試一次
func (s *TicketServiceImpl) markUsed(ctx context.Context, tx pgx.Tx, qrCode string) (*model.Ticket, error) {
	for attempt := 1; ; attempt++ {
		ticket, err := s.ticketRepo.MarkUsedByQRCode(ctx, tx, qrCode, time.Now().UTC())
		if err == nil {
			return ticket, nil
		}
		if !errors.Is(err, apperrors.ErrTicketNotFound) {
			return nil, err
		}

		current, err := s.ticketRepo.FindByQRCodeTx(ctx, tx, qrCode)
		if err != nil {
			return nil, err
		}
		if current.Status == model.TicketStatusConfirmed && attempt < checkInAttempts {
			continue
		}
		return nil, checkInError(current.Status)
	}
}

func checkInError(status model.TicketStatus) error {
	switch status {
	case model.TicketStatusUsed:
		return apperrors.ErrAlreadyUsed
	case model.TicketStatusCancelled:
		return apperrors.ErrAlreadyCancelled
	case model.TicketStatusPending:
		return apperrors.ErrNotConfirmed
	default:
		return fmt.Errorf("%w: ticket is %s", apperrors.ErrInvalidTransition, status)
	}
}

func (s *TicketServiceImpl) GetByID(ctx context.Context, id int) (*model.Ticket, error) {
	return s.ticketRepo.FindByID(ctx, id)
}

func (s *TicketServiceImpl) GetByQRCode(ctx context.Context, qrCode string) (*model.Ticket, error) {
	return s.ticketRepo.FindByQRCode(ctx, qrCode)
}

func (s *TicketServiceImpl) ListByEvent(ctx context.Context, eventID int) ([]*model.Ticket, error) {
	return s.ticketRepo.ListByEventID(ctx, eventID)
}

func (s *TicketServiceImpl) ListByUser(ctx context.Context, userID int) ([]*model.Ticket, error) {
	return s.ticketRepo.ListByUserID(ctx, userID)
}

// notify 交易提交後才發送，失敗只記錄
func (s *TicketServiceImpl) notify(ctx context.Context, eventType model.TicketEventType, ticket *model.Ticket) {
	if s.ticketQueue == nil {
		return
	}
	publishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), publishTimeout)
	defer cancel()

	if err := s.ticketQueue.Publish(publishCtx, model.NewTicketLifecycleEvent(eventType, ticket)); err != nil {
		s.log.Warn("publish ticket event failed",
			zap.String("type", string(eventType)),
			zap.Int("ticket_id", ticket.ID),
			zap.Error(err),
		)
	}
}
