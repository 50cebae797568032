package repository_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"event-ticketing/internal/model"
	"event-ticketing/internal/repository"
	"event-ticketing/internal/testutil"
	apperrors "event-ticketing/pkg/app_errors"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTicketRepository_Create(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()
	eventID, userID := newEventAndUser(t, pool, "create", 10)

	t.Run("Success", func(t *testing.T) {
		created := createTestTicket(t, pool, eventID, userID, "TICKET-A", model.TicketStatusConfirmed)

		assert.NotZero(t, created.ID)
		assert.Equal(t, "TICKET-A", created.QRCode)
		assert.Equal(t, model.TicketStatusConfirmed, created.Status)
		assert.Equal(t, 50.0, created.Price)
		assert.Nil(t, created.CheckedInAt)
	})

	t.Run("QRCodeConflict", func(t *testing.T) {
		tx, err := pool.Begin(ctx)
		require.NoError(t, err)
		defer func() { _ = tx.Rollback(ctx) }()

		_, err = repo.Create(ctx, tx, &model.Ticket{
			EventID: eventID,
			UserID:  userID,
			QRCode:  "TICKET-A",
			Status:  model.TicketStatusConfirmed,
		})
		assert.ErrorIs(t, err, repository.ErrQRCodeConflict)
	})
}

func TestTicketRepository_Lookups(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()

	eventID, userID := newEventAndUser(t, pool, "lookups", 10)
	otherEventID, _ := newEventAndUser(t, pool, "other", 10)

	first := createTestTicket(t, pool, eventID, userID, "TICKET-1", model.TicketStatusConfirmed)
	createTestTicket(t, pool, eventID, userID, "TICKET-2", model.TicketStatusPending)
	createTestTicket(t, pool, otherEventID, userID, "TICKET-3", model.TicketStatusConfirmed)

	byID, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, "TICKET-1", byID.QRCode)

	byCode, err := repo.FindByQRCode(ctx, "TICKET-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, byCode.ID)

	_, err = repo.FindByQRCode(ctx, "TICKET-404")
	assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)

	byEvent, err := repo.ListByEventID(ctx, eventID)
	require.NoError(t, err)
	assert.Len(t, byEvent, 2)

	byUser, err := repo.ListByUserID(ctx, userID)
	require.NoError(t, err)
	assert.Len(t, byUser, 3)

	none, err := repo.ListByUserID(ctx, userID+1000)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestTicketRepository_Counts(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()

	eventID, userID := newEventAndUser(t, pool, "counts", 10)
	createTestTicket(t, pool, eventID, userID, "C-PENDING", model.TicketStatusPending)
	createTestTicket(t, pool, eventID, userID, "C-CONFIRMED", model.TicketStatusConfirmed)
	createTestTicket(t, pool, eventID, userID, "C-USED", model.TicketStatusUsed)
	createTestTicket(t, pool, eventID, userID, "C-CANCELLED", model.TicketStatusCancelled)

	// USED 與 CANCELLED 不佔名額
	outstanding, err := repo.CountOutstanding(ctx, eventID)
	require.NoError(t, err)
	assert.Equal(t, 2, outstanding)

	withTx(t, pool, func(tx pgx.Tx) {
		inTx, err := repo.CountOutstandingTx(ctx, tx, eventID)
		require.NoError(t, err)
		assert.Equal(t, 2, inTx)

		// 重複購買判斷只排除 CANCELLED
		held, err := repo.CountHeldByUser(ctx, tx, eventID, userID)
		require.NoError(t, err)
		assert.Equal(t, 3, held)
	})
}

func TestTicketRepository_CompareAndSetStatus(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()

	eventID, userID := newEventAndUser(t, pool, "cas", 10)
	ticket := createTestTicket(t, pool, eventID, userID, "CAS-1", model.TicketStatusPending)

	withTx(t, pool, func(tx pgx.Tx) {
		confirmed, err := repo.CompareAndSetStatus(ctx, tx, ticket.ID,
			[]model.TicketStatus{model.TicketStatusPending}, model.TicketStatusConfirmed)
		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusConfirmed, confirmed.Status)
		assert.Nil(t, confirmed.CancelledAt)
	})

	withTx(t, pool, func(tx pgx.Tx) {
		_, err := repo.CompareAndSetStatus(ctx, tx, ticket.ID,
			[]model.TicketStatus{model.TicketStatusPending}, model.TicketStatusConfirmed)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)

		cancelled, err := repo.CompareAndSetStatus(ctx, tx, ticket.ID,
			[]model.TicketStatus{model.TicketStatusPending, model.TicketStatusConfirmed}, model.TicketStatusCancelled)
		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusCancelled, cancelled.Status)
		assert.NotNil(t, cancelled.CancelledAt)
	})
}

func TestTicketRepository_CheckIn(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()

	eventID, userID := newEventAndUser(t, pool, "checkin", 10)
	ticket := createTestTicket(t, pool, eventID, userID, "CHECKIN-1", model.TicketStatusConfirmed)
	pending := createTestTicket(t, pool, eventID, userID, "CHECKIN-2", model.TicketStatusPending)
	at := time.Now().UTC().Truncate(time.Microsecond)

	withTx(t, pool, func(tx pgx.Tx) {
		used, err := repo.MarkUsedByQRCode(ctx, tx, "CHECKIN-1", at)
		require.NoError(t, err)
		assert.Equal(t, model.TicketStatusUsed, used.Status)
		require.NotNil(t, used.CheckedInAt)
		assert.True(t, at.Equal(*used.CheckedInAt))

		checkIn, err := repo.CreateCheckIn(ctx, tx, used)
		require.NoError(t, err)
		assert.Equal(t, ticket.ID, checkIn.TicketID)
		assert.True(t, at.Equal(checkIn.CheckedInAt))
	})

	withTx(t, pool, func(tx pgx.Tx) {
		// 已使用與未確認的票都不會被更新
		_, err := repo.MarkUsedByQRCode(ctx, tx, "CHECKIN-1", at)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
		_, err = repo.MarkUsedByQRCode(ctx, tx, pending.QRCode, at)
		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})

	checkIn, err := repo.FindCheckIn(ctx, ticket.ID)
	require.NoError(t, err)
	assert.Equal(t, "CHECKIN-1", checkIn.QRCode)

	_, err = repo.FindCheckIn(ctx, pending.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestTicketRepository_MarkUsedConcurrent(t *testing.T) {
	pool := testutil.NewTestPool(t)
	repo := repository.NewTicketRepository(pool)
	ctx := context.Background()

	eventID, userID := newEventAndUser(t, pool, "race", 10)
	createTestTicket(t, pool, eventID, userID, "RACE-1", model.TicketStatusConfirmed)

	const workers = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		success int
	)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tx, err := pool.Begin(ctx)
			if err != nil {
				return
			}
			defer func() { _ = tx.Rollback(ctx) }()

			if _, err := repo.MarkUsedByQRCode(ctx, tx, "RACE-1", time.Now().UTC()); err != nil {
				return
			}
			if err := tx.Commit(ctx); err == nil {
				mu.Lock()
				success++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, success)
}
