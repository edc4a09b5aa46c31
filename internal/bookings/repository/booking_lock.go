package repository

import (
	"context"
	"fmt"
	"time"

	bookingserrors "dialoom/internal/bookings/errors"
	"dialoom/pkg/config"
	mongodb "dialoom/pkg/db/mongo"
	"dialoom/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

const (
	LockCollectionName = "Booking_locks"
)

// BookingLockRepository stores advisory locks. The unique _id is the lock.
type BookingLockRepository interface {
	Acquire(ctx context.Context, lock *model.BookingLock) error
	Release(ctx context.Context, lockID, owner string) error
}

type mongoBookingLockRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
}

func NewBookingLockRepository(cfg *config.Config) BookingLockRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingLockRepository{
		cfg:        cfg,
		collection: db.Collection(LockCollectionName),
	}
}

// Acquire inserts the lock. If a lock with the same key exists but has
// expired (the TTL monitor runs only once a minute) it is removed and the
// insert retried once. Returns ErrLockHeld when the lock is live.
func (r *mongoBookingLockRepository) Acquire(ctx context.Context, lock *model.BookingLock) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if lock.CreatedAt.IsZero() {
		lock.CreatedAt = time.Now().UTC()
	}

	err := r.insert(ctx, lock)
	if err == nil || !mongo.IsDuplicateKeyError(err) {
		return err
	}

	res, delErr := r.collection.DeleteOne(ctx, bson.M{
		"_id":        lock.ID,
		"expires_at": bson.M{"$lte": lock.CreatedAt},
	})
	if delErr != nil {
		return fmt.Errorf("failed to reclaim expired lock: %w", delErr)
	}
	if res.DeletedCount == 0 {
		return bookingserrors.ErrLockHeld
	}

	if err := r.insert(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return bookingserrors.ErrLockHeld
		}
		return err
	}
	return nil
}

func (r *mongoBookingLockRepository) insert(ctx context.Context, lock *model.BookingLock) error {
	if _, err := r.collection.InsertOne(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return err
		}
		return fmt.Errorf("failed to create booking lock: %w", err)
	}
	return nil
}

// Release deletes the lock only while owner still holds it. A lock that
// expired and was reclaimed by another request is left alone.
func (r *mongoBookingLockRepository) Release(ctx context.Context, lockID, owner string) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": lockID, "owner": owner})
	if err != nil {
		return fmt.Errorf("failed to release booking lock %s: %w", lockID, err)
	}
	if res.DeletedCount == 0 {
		return bookingserrors.ErrLockLost
	}
	return nil
}
