package db

import (
	"context"

	"github.com/motormate/motormate/internal/models"
)

// SnapshotCollection defines the remote document store consumed by the cloud
// sync bridge: one registry snapshot per user, replaced wholesale.
type SnapshotCollection interface {
	PutSnapshot(ctx context.Context, userID string, snap models.Snapshot) error
	GetSnapshot(ctx context.Context, userID string) (*models.Snapshot, error)
}

// UserCollection defines the interface for user account operations.
type UserCollection interface {
	InsertUser(ctx context.Context, user models.User) error
	FindUserByID(ctx context.Context, id string) (*models.User, error)
	FindUserByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateUser(ctx context.Context, id string, user models.User) error
	UpdateLastLogin(ctx context.Context, id string) error
}
