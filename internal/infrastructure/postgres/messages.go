package postgres

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/extra/bundebug"

	"github.com/lojabot/backend/internal/domain"
)

// Connect opens a Postgres connection pool from a DSN
func Connect(dsn string) *sql.DB {
	return sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
}

// NewDB wraps a sql.DB with the bun query builder. debug attaches the
// bundebug hook that logs every query.
func NewDB(sqldb *sql.DB, debug bool) *bun.DB {
	db := bun.NewDB(sqldb, pgdialect.New())
	if debug {
		db.AddQueryHook(bundebug.NewQueryHook(bundebug.WithVerbose(true)))
	}
	return db
}

// MessageRepository persists chat messages in Postgres
type MessageRepository struct {
	db *bun.DB
}

// NewMessageRepository creates a message repository backed by the given DB
func NewMessageRepository(db *bun.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

// Init creates the chat_messages table if it does not exist
func (r *MessageRepository) Init(ctx context.Context) error {
	_, err := r.db.NewCreateTable().
		Model((*domain.ChatMessage)(nil)).
		IfNotExists().
		Exec(ctx)
	return err
}

// Save inserts one message, filling its generated ID
func (r *MessageRepository) Save(ctx context.Context, msg *domain.ChatMessage) error {
	_, err := r.db.NewInsert().Model(msg).Exec(ctx)
	return err
}

// ListByUser returns all messages of one user, oldest first
func (r *MessageRepository) ListByUser(ctx context.Context, userID string) ([]domain.ChatMessage, error) {
	var messages []domain.ChatMessage
	err := r.db.NewSelect().
		Model(&messages).
		Where("user_id = ?", userID).
		Order("timestamp ASC").
		Scan(ctx)
	return messages, err
}

// DeleteByUser removes all of and only the given user's messages and
// returns how many rows were deleted
func (r *MessageRepository) DeleteByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.NewDelete().
		Model((*domain.ChatMessage)(nil)).
		Where("user_id = ?", userID).
		Exec(ctx)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
