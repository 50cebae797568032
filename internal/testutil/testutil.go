package testutil

import (
	"context"
	"fmt"
	"testing"
	"time"

	"event-ticketing/config"
	"event-ticketing/internal/database"
	"event-ticketing/internal/model"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

// 多個 package 的整合測試共用同一個測試 DB，用 advisory lock 串行化
const testDBLockID int64 = 734120001

// NewTestPool 連線測試 DB 並套用 migrations；DB 無法連線時 Skip
func NewTestPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	cfg := config.LoadTestConfig()

	pool, err := database.InitDatabase(&cfg.Database)
	if err != nil {
		t.Skipf("skipping Postgres integration tests: %v", err)
	}
	t.Cleanup(pool.Close)

	lockTestDB(t, pool)

	if err := database.Migrate(pool); err != nil {
		t.Fatalf("failed to apply migrations: %v", err)
	}
	TruncateAll(t, pool)

	return pool
}

// NewTestRedis 連線測試 Redis 並清空測試 DB；Redis 無法連線時 Skip
func NewTestRedis(t *testing.T) *redis.Client {
	t.Helper()
	cfg := config.LoadTestConfig()

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		t.Skipf("skipping Redis integration tests: %v", err)
	}
	if err := rdb.FlushDB(context.Background()).Err(); err != nil {
		_ = rdb.Close()
		t.Fatalf("flush redis: %v", err)
	}
	t.Cleanup(func() { _ = rdb.Close() })
	return rdb
}

func TruncateAll(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	_, err := pool.Exec(context.Background(),
		`TRUNCATE ticket_check_ins, tickets, events, users, categories RESTART IDENTITY CASCADE`)
	if err != nil {
		t.Fatalf("truncate: %v", err)
	}
}

func InsertUser(t *testing.T, pool *pgxpool.Pool, email string, role model.Role) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(), `
		INSERT INTO users (email, name, password_hash, role)
		VALUES ($1, $2, 'x', $3)
		RETURNING id`,
		email, email, role,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert user: %v", err)
	}
	return id
}

func InsertCategory(t *testing.T, pool *pgxpool.Pool, slug string) int {
	t.Helper()
	var id int
	err := pool.QueryRow(context.Background(), `
		INSERT INTO categories (name, slug)
		VALUES ($1, $1)
		RETURNING id`,
		slug,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert category: %v", err)
	}
	return id
}

// InsertEvent 建立一個 PUBLISHED 活動並回傳 id，price 為 nil 代表免費
func InsertEvent(t *testing.T, pool *pgxpool.Pool, slug string, capacity int, price *float64) int {
	t.Helper()
	organizerID := InsertUser(t, pool, fmt.Sprintf("organizer-%s@example.com", slug), model.RoleOrganizer)
	categoryID := InsertCategory(t, pool, "category-"+slug)

	var id int
	err := pool.QueryRow(context.Background(), `
		INSERT INTO events (title, slug, start_date, capacity, price, status, published, organizer_id, category_id)
		VALUES ($1, $1, $2, $3, $4, 'PUBLISHED', TRUE, $5, $6)
		RETURNING id`,
		slug, time.Now().Add(24*time.Hour), capacity, price, organizerID, categoryID,
	).Scan(&id)
	if err != nil {
		t.Fatalf("insert event: %v", err)
	}
	return id
}

func lockTestDB(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	conn, err := pool.Acquire(ctx)
	if err != nil {
		t.Fatalf("acquire lock conn: %v", err)
	}
	// 等鎖可能超過 statement_timeout
	if _, err := conn.Exec(ctx, `SET statement_timeout = 0`); err != nil {
		conn.Release()
		t.Fatalf("disable statement timeout: %v", err)
	}
	if _, err := conn.Exec(ctx, `SELECT pg_advisory_lock($1)`, testDBLockID); err != nil {
		conn.Release()
		t.Fatalf("acquire test lock: %v", err)
	}

	t.Cleanup(func() {
		_, _ = conn.Exec(context.Background(), `SELECT pg_advisory_unlock($1)`, testDBLockID)
		_, _ = conn.Exec(context.Background(), `RESET statement_timeout`)
		conn.Release()
	})
}
