package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	bookingserrors "dialoom/internal/bookings/errors"
	"dialoom/internal/bookings/events"
	"dialoom/internal/bookings/pricing"
	"dialoom/internal/bookings/repository"
	"dialoom/internal/bookings/validator"
	userserrors "dialoom/internal/users/errors"
	usersrepository "dialoom/internal/users/repository"
	"dialoom/pkg/config"
	apperrors "dialoom/pkg/errors"
	"dialoom/pkg/model"
	"dialoom/pkg/sanitizer"

	"github.com/google/uuid"
)

// MaxBusyWindow bounds the availability query.
const MaxBusyWindow = 31 * 24 * time.Hour

// System is the requester used for transitions driven by other services.
var System = model.Requester{UserID: "system", IsAdmin: true}

type Clock func() time.Time

type PriceCalculator interface {
	Check(host *model.User, req *model.BookingRequest) (pricing.Quote, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, eventType string, booking *model.Booking) error
}

type BookingService interface {
	Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error)
	GetByID(ctx context.Context, requester model.Requester, id string) (*model.Booking, error)
	ListForUser(ctx context.Context, userID string, role model.ParticipantRole, limit int, offset int64) ([]*model.Booking, int64, error)
	BusySlots(ctx context.Context, hostID string, from, to time.Time) ([]model.BusySlot, error)
	Cancel(ctx context.Context, requester model.Requester, id string, req *model.CancelRequest) (*model.Booking, error)
	Confirm(ctx context.Context, id string, paymentID string) (*model.Booking, error)
	CancelUnpaid(ctx context.Context, id string, reason string) (*model.Booking, error)
	Complete(ctx context.Context, requester model.Requester, id string) (*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	lockRepo  repository.BookingLockRepository
	users     usersrepository.UserRepository
	validator *validator.BookingValidator
	pricer    PriceCalculator
	publisher EventPublisher
	cfg       *config.Config
	now       Clock
}

type Option func(*bookingService)

func WithClock(clock Clock) Option {
	return func(s *bookingService) {
		s.now = clock
	}
}

func NewBookingService(
	repo repository.BookingRepository,
	lockRepo repository.BookingLockRepository,
	users usersrepository.UserRepository,
	bookingValidator *validator.BookingValidator,
	pricer PriceCalculator,
	publisher EventPublisher,
	cfg *config.Config,
	opts ...Option,
) BookingService {
	s := &bookingService{
		repo:      repo,
		lockRepo:  lockRepo,
		users:     users,
		validator: bookingValidator,
		pricer:    pricer,
		publisher: publisher,
		cfg:       cfg,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create runs the booking pipeline. Each step short-circuits:
// payload, host existence, host eligibility, slot, conflicts, price, persist.
func (s *bookingService) Create(ctx context.Context, req *model.BookingRequest) (*model.Booking, error) {
	sanitizer.SanitizeBookingRequest(req)
	if err := s.validator.Validate(req); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "host_id", req.HostID, "error", err)
		return nil, validationError("Booking validation failed", err)
	}

	host, err := s.findUser(ctx, req.HostID, "Host")
	if err != nil {
		return nil, err
	}

	if !host.IsVerifiedHost() {
		s.cfg.Log.Info("Booking rejected for unverified host",
			"host_id", host.ID,
			"verification_status", host.VerificationStatus(),
		)
		return nil, apperrors.Forbidden("Host is not verified to accept bookings")
	}

	start, end, err := s.resolveSlot(host, req)
	if err != nil {
		return nil, err
	}

	owner := uuid.NewString()
	lockIDs, err := s.acquireSlotLocks(ctx, owner, host.ID, start, end)
	if err != nil {
		return nil, err
	}
	defer s.releaseSlotLocks(ctx, owner, lockIDs)

	var booking *model.Booking
	err = s.repo.ExecuteTransaction(ctx, func(txCtx context.Context) error {
		if err := s.verifyNoConflict(txCtx, host.ID, start, end); err != nil {
			return err
		}

		quote, err := s.checkPrice(host, req)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		b := &model.Booking{
			HostID:           host.ID,
			GuestID:          req.GuestID,
			ScheduledDate:    req.ScheduledDate,
			StartTime:        req.StartTime,
			Duration:         req.Duration,
			Price:            req.Price,
			Currency:         quote.Currency,
			Status:           model.BookingPending,
			SelectedServices: req.SelectedServices,
			StartAt:          start,
			EndAt:            end,
			CreatedAt:        now,
		}
		if err := s.repo.Create(txCtx, b); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		booking = b
		return nil
	})
	if err != nil {
		if !apperrors.IsAppError(err) {
			err = apperrors.Internal("Failed to create booking", err)
		}
		s.logFailure("Failed to create booking", err, "host_id", host.ID, "guest_id", req.GuestID)
		return nil, err
	}

	s.cfg.Log.Info("Booking created successfully",
		"id", booking.ID,
		"host_id", booking.HostID,
		"guest_id", booking.GuestID,
		"start_at", booking.StartAt,
		"duration", booking.Duration,
	)
	s.publish(ctx, events.BookingCreated, booking)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, requester model.Requester, id string) (*model.Booking, error) {
	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	allowed, err := s.canAccess(ctx, requester, booking)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperrors.NotFoundWithID("Booking", id)
	}

	return booking, nil
}

func (s *bookingService) ListForUser(ctx context.Context, userID string, role model.ParticipantRole, limit int, offset int64) ([]*model.Booking, int64, error) {
	if userID == "" {
		return nil, 0, apperrors.Unauthorized("authentication required")
	}
	if role == "" {
		role = model.RoleGuest
	}
	if role != model.RoleGuest && role != model.RoleHost {
		return nil, 0, apperrors.InvalidInput("role must be one of: guest host")
	}

	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	var count int64
	var bookings []*model.Booking
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		var err error
		count, err = s.repo.CountByParticipant(ctx, userID, role)
		if err != nil {
			s.cfg.Log.Error("Failed to count bookings", "user_id", userID, "role", role, "error", err)
			errCount = apperrors.Internal("Failed to count bookings", err)
		}
	}()

	go func() {
		defer wg.Done()
		var err error
		bookings, err = s.repo.FindByParticipant(ctx, userID, role, limit, offset)
		if err != nil {
			s.cfg.Log.Error("Failed to list bookings",
				"user_id", userID,
				"role", role,
				"limit", limit,
				"offset", offset,
				"error", err,
			)
			errFind = apperrors.Internal("Failed to retrieve bookings", err)
		}
	}()

	wg.Wait()

	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return bookings, count, nil
}

func (s *bookingService) BusySlots(ctx context.Context, hostID string, from, to time.Time) ([]model.BusySlot, error) {
	if !to.After(from) {
		return nil, apperrors.InvalidInput("'to' must be after 'from'")
	}
	if to.Sub(from) > MaxBusyWindow {
		return nil, apperrors.InvalidInput("availability window cannot exceed 31 days")
	}

	if _, err := s.findUser(ctx, hostID, "Host"); err != nil {
		return nil, err
	}

	bookings, err := s.repo.FindActiveOverlapping(ctx, hostID, from.UTC(), to.UTC())
	if err != nil {
		s.cfg.Log.Error("Failed to load host bookings", "host_id", hostID, "error", err)
		return nil, apperrors.Internal("Failed to load availability", err)
	}

	slots := make([]model.BusySlot, 0, len(bookings))
	for _, b := range bookings {
		slots = append(slots, model.BusySlot{StartAt: b.StartAt, EndAt: b.EndAt})
	}
	return slots, nil
}

func (s *bookingService) Cancel(ctx context.Context, requester model.Requester, id string, req *model.CancelRequest) (*model.Booking, error) {
	if req == nil {
		req = &model.CancelRequest{}
	}
	req.Reason = sanitizer.SanitizeFreeText(req.Reason)
	if err := s.validator.ValidateCancel(req); err != nil {
		return nil, validationError("Cancellation validation failed", err)
	}

	booking, err := s.GetByID(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	return s.transition(ctx, booking, model.StatusChange{
		To:                 model.BookingCancelled,
		CancelledBy:        requester.UserID,
		CancellationReason: req.Reason,
	})
}

// Confirm is driven by payment capture. Replaying the same payment is a no-op.
func (s *bookingService) Confirm(ctx context.Context, id string, paymentID string) (*model.Booking, error) {
	if paymentID == "" {
		return nil, apperrors.InvalidInput("payment ID is required")
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status == model.BookingConfirmed && booking.PaymentID == paymentID {
		s.cfg.Log.Debug("Booking already confirmed for payment", "id", id, "payment_id", paymentID)
		return booking, nil
	}

	return s.transition(ctx, booking, model.StatusChange{
		To:        model.BookingConfirmed,
		PaymentID: paymentID,
	})
}

// CancelUnpaid is driven by a failed payment. Only bookings still awaiting
// payment are cancelled; anything else is a Conflict and left untouched.
func (s *bookingService) CancelUnpaid(ctx context.Context, id string, reason string) (*model.Booking, error) {
	req := &model.CancelRequest{Reason: sanitizer.SanitizeFreeText(reason)}
	if err := s.validator.ValidateCancel(req); err != nil {
		return nil, validationError("Cancellation validation failed", err)
	}

	booking, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.Status != model.BookingPending {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking is %s and no longer awaiting payment", booking.Status)).
			WithDetails(map[string]any{"status": booking.Status})
	}

	return s.transition(ctx, booking, model.StatusChange{
		To:                 model.BookingCancelled,
		CancelledBy:        System.UserID,
		CancellationReason: req.Reason,
	})
}

// Complete may be called by the host or an admin once the session has ended.
func (s *bookingService) Complete(ctx context.Context, requester model.Requester, id string) (*model.Booking, error) {
	booking, err := s.GetByID(ctx, requester, id)
	if err != nil {
		return nil, err
	}

	if booking.HostID != requester.UserID {
		isAdmin, err := s.isAdmin(ctx, requester)
		if err != nil {
			return nil, err
		}
		if !isAdmin {
			return nil, apperrors.Forbidden("Only the host can complete a booking")
		}
	}

	if booking.Status == model.BookingConfirmed && s.now().Before(booking.EndAt) {
		return nil, apperrors.Conflict("Session has not ended yet")
	}

	return s.transition(ctx, booking, model.StatusChange{To: model.BookingCompleted})
}

// --- Helpers ---

func (s *bookingService) transition(ctx context.Context, booking *model.Booking, change model.StatusChange) (*model.Booking, error) {
	if !booking.Status.CanTransitionTo(change.To) {
		return nil, apperrors.Conflict(fmt.Sprintf("Booking cannot move from %s to %s", booking.Status, change.To)).
			WithDetails(map[string]any{"status": booking.Status})
	}

	change.From = booking.Status
	change.At = s.now()

	updated, err := s.repo.UpdateStatus(ctx, booking.ID, change)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrStatusChanged) {
			return nil, apperrors.Conflict("Booking was modified by another request, please retry")
		}
		s.cfg.Log.Error("Failed to update booking status", "id", booking.ID, "to", change.To, "error", err)
		return nil, apperrors.Internal("Failed to update booking", err)
	}

	s.cfg.Log.Info("Booking status changed",
		"id", updated.ID,
		"from", change.From,
		"to", updated.Status,
	)
	s.publish(ctx, events.TypeFor(updated.Status), updated)
	return updated, nil
}

func (s *bookingService) load(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", id)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		s.cfg.Log.Error("Failed to retrieve booking", "id", id, "error", err)
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) findUser(ctx context.Context, id string, resource string) (*model.User, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) || errors.Is(err, userserrors.ErrInvalidID) {
			return nil, apperrors.NotFoundWithID(resource, id)
		}
		s.cfg.Log.Error("Failed to retrieve user", "id", id, "error", err)
		return nil, apperrors.Internal(fmt.Sprintf("Failed to retrieve %s", resource), err)
	}
	return user, nil
}

func (s *bookingService) canAccess(ctx context.Context, requester model.Requester, booking *model.Booking) (bool, error) {
	if booking.IsParticipant(requester.UserID) {
		return true, nil
	}
	return s.isAdmin(ctx, requester)
}

// isAdmin trusts an explicit flag, otherwise consults the user record.
func (s *bookingService) isAdmin(ctx context.Context, requester model.Requester) (bool, error) {
	if requester.IsAdmin {
		return true, nil
	}
	if requester.UserID == "" {
		return false, nil
	}
	user, err := s.users.FindByID(ctx, requester.UserID)
	if err != nil {
		if errors.Is(err, userserrors.ErrNotFound) {
			return false, nil
		}
		return false, apperrors.Internal("Failed to resolve requester", err)
	}
	return user.IsAdmin, nil
}

// resolveSlot anchors date and time in the host's zone. Slots that have
// already started are rejected only when RejectPastSlots is set.
func (s *bookingService) resolveSlot(host *model.User, req *model.BookingRequest) (time.Time, time.Time, error) {
	loc := s.hostLocation(host)

	start, err := time.ParseInLocation("2006-01-02 15:04", req.ScheduledDate+" "+req.StartTime, loc)
	if err != nil {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("Invalid scheduled date or start time").
			WithDetails(map[string]any{"error": err.Error()})
	}
	start = start.UTC()
	end := start.Add(time.Duration(req.Duration) * time.Minute)

	if s.cfg.RejectPastSlots && start.Before(s.now()) {
		return time.Time{}, time.Time{}, apperrors.InvalidInput("Cannot book a slot in the past").
			WithDetails(map[string]any{"startAt": start.Format(time.RFC3339), "timeZone": loc.String()})
	}

	return start, end, nil
}

func (s *bookingService) hostLocation(host *model.User) *time.Location {
	name := host.TimeZone
	if name == "" {
		name = s.cfg.DefaultTimeZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		s.cfg.Log.Warn("Unknown time zone, falling back to UTC", "host_id", host.ID, "time_zone", name, "error", err)
		return time.UTC
	}
	return loc
}

func (s *bookingService) verifyNoConflict(ctx context.Context, hostID string, start, end time.Time) error {
	existing, err := s.repo.FindActiveOverlapping(ctx, hostID, start, end)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.Status == model.BookingCancelled || !b.Overlaps(start, end) {
			continue
		}
		return apperrors.Conflict("Time slot conflicts with an existing booking").
			WithDetails(map[string]any{
				"startAt": b.StartAt.Format(time.RFC3339),
				"endAt":   b.EndAt.Format(time.RFC3339),
			})
	}
	return nil
}

func (s *bookingService) checkPrice(host *model.User, req *model.BookingRequest) (pricing.Quote, error) {
	quote, err := s.pricer.Check(host, req)
	if err == nil {
		return quote, nil
	}

	var mismatch *pricing.MismatchError
	switch {
	case errors.As(err, &mismatch):
		return quote, apperrors.InvalidInput("Price does not match the host's rates").
			WithDetails(map[string]any{
				"expected": mismatch.Expected.StringFixed(2),
				"supplied": mismatch.Supplied.StringFixed(2),
				"currency": mismatch.Currency,
			})
	case errors.Is(err, pricing.ErrNoRateCard):
		return quote, apperrors.InvalidInput("Host has not published a rate card")
	default:
		return quote, apperrors.Internal("Failed to price booking", err)
	}
}

// lockKeys returns one key per UTC day touched by [start, end), in order.
func lockKeys(hostID string, start, end time.Time) []string {
	var keys []string
	day := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	for ; day.Before(end); day = day.AddDate(0, 0, 1) {
		keys = append(keys, fmt.Sprintf("booking_lock_%s_%s", hostID, day.Format("20060102")))
	}
	return keys
}

// acquireSlotLocks takes every advisory lock for the interval or none.
func (s *bookingService) acquireSlotLocks(ctx context.Context, owner, hostID string, start, end time.Time) ([]string, error) {
	keys := lockKeys(hostID, start.UTC(), end.UTC())
	acquired := make([]string, 0, len(keys))

	for _, key := range keys {
		now := s.now().UTC()
		err := s.lockRepo.Acquire(ctx, &model.BookingLock{
			ID:        key,
			HostID:    hostID,
			Owner:     owner,
			ExpiresAt: now.Add(s.cfg.BookingLockTTL),
			CreatedAt: now,
		})
		if err != nil {
			s.releaseSlotLocks(ctx, owner, acquired)
			if errors.Is(err, bookingserrors.ErrLockHeld) {
				s.cfg.Log.Info("Booking slot lock busy", "lock_id", key)
				return nil, apperrors.Conflict("This time slot is currently being booked by another request. Please try again.")
			}
			s.cfg.Log.Error("Failed to acquire booking lock", "lock_id", key, "error", err)
			return nil, apperrors.Internal("Failed to acquire booking lock", err)
		}
		acquired = append(acquired, key)
	}

	return acquired, nil
}

// releaseSlotLocks survives request cancellation; a leaked lock would block
// the host's day until the TTL monitor removes it.
func (s *bookingService) releaseSlotLocks(ctx context.Context, owner string, lockIDs []string) {
	if len(lockIDs) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.WriteTimeout)
	defer cancel()

	for i := len(lockIDs) - 1; i >= 0; i-- {
		err := s.lockRepo.Release(ctx, lockIDs[i], owner)
		switch {
		case errors.Is(err, bookingserrors.ErrLockLost):
			s.cfg.Log.Warn("Booking lock expired before release", "lock_id", lockIDs[i], "owner", owner)
		case err != nil:
			s.cfg.Log.Warn("Failed to release booking lock", "lock_id", lockIDs[i], "error", err)
		}
	}
}

func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(context.WithoutCancel(ctx), eventType, booking); err != nil {
		s.cfg.Log.Warn("Failed to publish booking event",
			"event_type", eventType,
			"booking_id", booking.ID,
			"error", err,
		)
	}
}

func (s *bookingService) logFailure(msg string, err error, attrs ...any) {
	appErr := apperrors.AsAppError(err)
	attrs = append(attrs, "code", appErr.Code, "error", err)
	if appErr.HTTPStatus >= 500 {
		s.cfg.Log.Error(msg, attrs...)
		return
	}
	s.cfg.Log.Warn(msg, attrs...)
}

func validationError(message string, err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		return apperrors.InvalidInput(message).WithDetails(map[string]any{"errors": []validator.ValidationError(verrs)})
	}
	return apperrors.Internal(message, err)
}
