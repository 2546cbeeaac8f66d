// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/tabscan/tabscan/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store defines the persistence operations the service layer needs.
// The abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// CreateSession persists a new session with its items and roster.
	// ID, CreatedAt, and a Title are populated if unset.
	CreateSession(ctx context.Context, session *models.Session) error

	// GetSession retrieves a session by ID, including roster and items in
	// their original order. Returns ErrNotFound if it does not exist.
	GetSession(ctx context.Context, sessionID string) (*models.Session, error)

	// DeleteSession removes a session and everything hanging off it.
	DeleteSession(ctx context.Context, sessionID string) error

	// ReplaceSettlements atomically swaps the stored settlements for a
	// session with the freshly computed set.
	ReplaceSettlements(ctx context.Context, sessionID string, settlements []*models.Settlement) error

	// ListSettlementsBySession returns a session's stored settlements,
	// largest amount first.
	ListSettlementsBySession(ctx context.Context, sessionID string) ([]*models.Settlement, error)

	// CreateUser persists a new account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves an account by email. Returns (nil, nil) when
	// no such account exists.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves an account by ID. Returns (nil, nil) when no
	// such account exists.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
