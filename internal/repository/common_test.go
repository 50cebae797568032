package repository_test

import (
	"context"
	"testing"

	"event-ticketing/internal/model"
	"event-ticketing/internal/repository"
	"event-ticketing/internal/testutil"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/require"
)

// withTx 在 transaction 中執行 fn 並提交
func withTx(t *testing.T, pool *pgxpool.Pool, fn func(tx pgx.Tx)) {
	t.Helper()
	ctx := context.Background()

	tx, err := pool.Begin(ctx)
	require.NoError(t, err)
	defer func() { _ = tx.Rollback(ctx) }()

	fn(tx)
	require.NoError(t, tx.Commit(ctx))
}

// createTestTicket 直接寫入一張指定狀態的票
func createTestTicket(t *testing.T, pool *pgxpool.Pool, eventID, userID int, qrCode string, status model.TicketStatus) *model.Ticket {
	t.Helper()
	repo := repository.NewTicketRepository(pool)

	var created *model.Ticket
	withTx(t, pool, func(tx pgx.Tx) {
		var err error
		created, err = repo.Create(context.Background(), tx, &model.Ticket{
			EventID: eventID,
			UserID:  userID,
			QRCode:  qrCode,
			Status:  status,
			Price:   50,
		})
		require.NoError(t, err)
	})
	return created
}

func newEventAndUser(t *testing.T, pool *pgxpool.Pool, slug string, capacity int) (eventID, userID int) {
	t.Helper()
	eventID = testutil.InsertEvent(t, pool, slug, capacity, nil)
	userID = testutil.InsertUser(t, pool, "buyer-"+slug+"@example.com", model.RoleUser)
	return eventID, userID
}
