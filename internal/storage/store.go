// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/esusu/internal/models"
)

var (
	// ErrNotFound indicates the requested group does not exist.
	ErrNotFound = errors.New("group not found")

	// ErrVersionConflict indicates a save lost an optimistic-concurrency
	// race: the group's version changed between load and save. Callers
	// reload and retry.
	ErrVersionConflict = errors.New("group version conflict")
)

// Store defines the interface for persistence operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL,
// etc.) without changing the engine or auth layers.
//
// A group is one aggregate: its members, contributions, and payout entries
// are always loaded and saved together, atomically, with the group record.
type Store interface {
	// CreateGroup persists a brand-new group with all owned collections.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup loads a group aggregate by ID.
	// Returns ErrNotFound if the group does not exist.
	GetGroup(ctx context.Context, groupID string) (*models.Group, error)

	// SaveGroup writes the whole aggregate back, guarded by the group's
	// version stamp. On success the version is incremented (both in the
	// database and on the passed group). Returns ErrVersionConflict if
	// another writer saved first, ErrNotFound if the group vanished.
	SaveGroup(ctx context.Context, group *models.Group) error

	// ListGroupsByUser loads every group the user holds a membership in.
	ListGroupsByUser(ctx context.Context, userID string) ([]*models.Group, error)

	// CreateUser persists a new user account.
	CreateUser(ctx context.Context, user *models.User) error

	// GetUserByEmail retrieves a user by email, or (nil, nil) if absent.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// GetUserByID retrieves a user by ID, or (nil, nil) if absent.
	GetUserByID(ctx context.Context, id string) (*models.User, error)

	// Close releases any resources held by the store.
	Close() error
}
