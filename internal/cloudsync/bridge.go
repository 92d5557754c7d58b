// Package cloudsync mirrors the whole vehicle registry to a remote document
// store, one document per authenticated user. Sync is one-shot and
// last-write-wins: push replaces the remote copy, pull replaces the local
// one. Failures are reported and never disturb local state.
package cloudsync

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/motormate/motormate/internal/db"
	"github.com/motormate/motormate/internal/models"
	"github.com/motormate/motormate/internal/registry"
)

var (
	ErrNoSession  = errors.New("not signed in")
	ErrNotFound   = errors.New("no cloud data found")
	ErrSyncFailed = errors.New("cloud sync failed")
)

const opTimeout = 15 * time.Second

// Notifier surfaces sync outcomes to the user; the default implementation
// logs. It replaces the original's toast popups.
type Notifier interface {
	Toast(msg string)
	ToastError(msg string)
}

// LogNotifier reports through the structured logger.
type LogNotifier struct{}

func (LogNotifier) Toast(msg string)      { log.Info(msg) }
func (LogNotifier) ToastError(msg string) { log.Warn(msg) }

// SessionFunc reports the current authenticated user id, if any.
type SessionFunc func() (userID string, ok bool)

// Bridge is the cloud sync bridge.
type Bridge struct {
	snapshots db.SnapshotCollection
	reg       *registry.Registry
	session   SessionFunc
	notifier  Notifier
}

// New builds a bridge. notifier may be nil, in which case outcomes go to the
// log.
func New(snapshots db.SnapshotCollection, reg *registry.Registry, session SessionFunc, notifier Notifier) *Bridge {
	if notifier == nil {
		notifier = LogNotifier{}
	}
	return &Bridge{snapshots: snapshots, reg: reg, session: session, notifier: notifier}
}

// Push uploads the current registry snapshot. Requires a session.
func (b *Bridge) Push(ctx context.Context) error {
	userID, ok := b.session()
	if !ok {
		return ErrNoSession
	}
	return b.pushAs(ctx, userID, b.reg.Snapshot())
}

// PushFor uploads the current registry snapshot for an already-authenticated
// user, bypassing the session lookup.
func (b *Bridge) PushFor(ctx context.Context, userID string) error {
	return b.pushAs(ctx, userID, b.reg.Snapshot())
}

// PushSnapshot is the registry's best-effort save hook: it uploads the given
// snapshot when a session exists and only reports failures. Local state never
// depends on the outcome.
func (b *Bridge) PushSnapshot(snap models.Snapshot) {
	userID, ok := b.session()
	if !ok {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), opTimeout)
	defer cancel()
	if err := b.pushAs(ctx, userID, snap); err != nil {
		log.WithError(err).Warn("Background cloud push failed")
	}
}

func (b *Bridge) pushAs(ctx context.Context, userID string, snap models.Snapshot) error {
	if err := b.snapshots.PutSnapshot(ctx, userID, snap); err != nil {
		b.notifier.ToastError("Upload failed: " + err.Error())
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	b.notifier.Toast("Data pushed to cloud!")
	return nil
}

// Pull downloads the user's cloud snapshot and replaces the local registry
// wholesale. Requires a session. Local state is untouched on failure.
func (b *Bridge) Pull(ctx context.Context) error {
	userID, ok := b.session()
	if !ok {
		return ErrNoSession
	}
	return b.PullFor(ctx, userID)
}

// PullFor downloads and restores the snapshot for an already-authenticated
// user.
func (b *Bridge) PullFor(ctx context.Context, userID string) error {
	snap, err := b.snapshots.GetSnapshot(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			b.notifier.ToastError("No data found in cloud.")
			return ErrNotFound
		}
		b.notifier.ToastError("Download failed: " + err.Error())
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}

	if err := b.reg.ReplaceAll(*snap); err != nil {
		b.notifier.ToastError("Restore failed: " + err.Error())
		return fmt.Errorf("%w: %v", ErrSyncFailed, err)
	}
	b.notifier.Toast("Cloud data restored!")
	return nil
}
