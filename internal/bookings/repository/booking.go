package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	bookingserrors "dialoom/internal/bookings/errors"
	"dialoom/pkg/config"
	mongodb "dialoom/pkg/db/mongo"
	"dialoom/pkg/model"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	CollectionName = "Bookings"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *model.Booking) error
	FindByID(ctx context.Context, id string) (*model.Booking, error)
	FindActiveOverlapping(ctx context.Context, hostID string, start, end time.Time) ([]*model.Booking, error)
	FindByParticipant(ctx context.Context, userID string, role model.ParticipantRole, limit int, offset int64) ([]*model.Booking, error)
	CountByParticipant(ctx context.Context, userID string, role model.ParticipantRole) (int64, error)
	UpdateStatus(ctx context.Context, id string, change model.StatusChange) (*model.Booking, error)
	ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error
}

type mongoBookingRepository struct {
	cfg        *config.Config
	collection *mongo.Collection
	txManager  mongodb.TransactionManager
}

func NewMongoBookingRepository(cfg *config.Config) BookingRepository {
	db := cfg.Client.Mongo.Database(cfg.MongoDatabaseName)
	return &mongoBookingRepository{
		cfg:        cfg,
		collection: db.Collection(CollectionName),
		txManager:  mongodb.NewTransactionManager(cfg.Client.Mongo),
	}
}

// Create assigns a UUID when the booking has no ID yet.
func (r *mongoBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	if booking.ID == "" {
		booking.ID = uuid.NewString()
	}
	if booking.CreatedAt.IsZero() {
		booking.CreatedAt = time.Now().UTC()
	}
	booking.CreatedAt = booking.CreatedAt.Truncate(time.Millisecond)
	booking.UpdatedAt = booking.CreatedAt

	if _, err := r.collection.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to create booking: %w", err)
	}
	return nil
}

func (r *mongoBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("%w: %s", bookingserrors.ErrInvalidID, id)
	}

	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	var booking model.Booking
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&booking)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find booking: %w", err)
	}

	return &booking, nil
}

// FindActiveOverlapping returns the host's non-cancelled bookings whose
// [start_at, end_at) intersects [start, end).
func (r *mongoBookingRepository) FindActiveOverlapping(ctx context.Context, hostID string, start, end time.Time) ([]*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	filter := bson.M{
		"host_id":  hostID,
		"status":   bson.M{"$ne": model.BookingCancelled},
		"start_at": bson.M{"$lt": end},
		"end_at":   bson.M{"$gt": start},
	}

	opts := options.Find().SetSort(bson.D{{Key: "start_at", Value: 1}})

	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}
	defer cursor.Close(ctx)

	var bookings []*model.Booking
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) FindByParticipant(ctx context.Context, userID string, role model.ParticipantRole, limit int, offset int64) ([]*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "start_at", Value: -1}}).
		SetLimit(int64(limit)).
		SetSkip(offset)

	cursor, err := r.collection.Find(ctx, participantFilter(userID, role), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to find bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []*model.Booking{}
	if err = cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}

	return bookings, nil
}

func (r *mongoBookingRepository) CountByParticipant(ctx context.Context, userID string, role model.ParticipantRole) (int64, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.ReadTimeout)
	defer cancel()

	count, err := r.collection.CountDocuments(ctx, participantFilter(userID, role))
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}
	return count, nil
}

func participantFilter(userID string, role model.ParticipantRole) bson.M {
	if role == model.RoleHost {
		return bson.M{"host_id": userID}
	}
	return bson.M{"guest_id": userID}
}

func (r *mongoBookingRepository) UpdateStatus(ctx context.Context, id string, change model.StatusChange) (*model.Booking, error) {
	ctx, cancel := mongodb.WithTimeout(ctx, r.cfg.WriteTimeout)
	defer cancel()

	set := bson.M{
		"status":     change.To,
		"updated_at": change.At.UTC().Truncate(time.Millisecond),
	}
	if change.PaymentID != "" {
		set["payment_id"] = change.PaymentID
	}
	if change.CancelledBy != "" {
		set["cancelled_by"] = change.CancelledBy
	}
	if change.CancellationReason != "" {
		set["cancellation_reason"] = change.CancellationReason
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated model.Booking
	err := r.collection.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "status": change.From},
		bson.M{"$set": set},
		opts,
	).Decode(&updated)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, bookingserrors.ErrStatusChanged
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}

	return &updated, nil
}

func (r *mongoBookingRepository) ExecuteTransaction(ctx context.Context, fn mongodb.TransactionFunc) error {
	return r.txManager.ExecuteTransaction(ctx, fn)
}
