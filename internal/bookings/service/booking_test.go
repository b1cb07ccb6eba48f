package service

import (
	"context"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "github.com/LewisLovet/opatam-sub005/internal/bookings/errors"
	"github.com/LewisLovet/opatam-sub005/internal/bookings/validator"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	mongotx "github.com/LewisLovet/opatam-sub005/pkg/db/mongo"
	apperrors "github.com/LewisLovet/opatam-sub005/pkg/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/events"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
	"github.com/LewisLovet/opatam-sub005/pkg/sealer"
)

const (
	testProviderID = "64f1b2a3c4d5e6f7a8b9c0d1"
	testLocationID = "64f1b2a3c4d5e6f7a8b9c0d2"
	testMemberID   = "64f1b2a3c4d5e6f7a8b9c0d3"
	testServiceID  = "64f1b2a3c4d5e6f7a8b9c0d4"
	testBookingID  = "64f1b2a3c4d5e6f7a8b9c0e1"

	// base64 of a 32-byte key, AES-256
	testSealKey = "MDEyMzQ1Njc4OWFiY2RlZjAxMjM0NTY3ODlhYmNkZWY="
)

type mockBookingRepository struct {
	createFunc                 func(ctx context.Context, b *model.Booking) error
	findByIDFunc               func(ctx context.Context, id string) (*model.Booking, error)
	findByCancelTokenFunc      func(ctx context.Context, token string) (*model.Booking, error)
	findActiveForKeyOnDateFunc func(ctx context.Context, key model.ScheduleKey, date time.Time) ([]*model.Booking, error)
	updateStatusFunc           func(ctx context.Context, id string, from, to model.BookingStatus) error
	markCancelledFunc          func(ctx context.Context, id string, from model.BookingStatus, cancelledBy, reason string, at time.Time) error
}

func (m *mockBookingRepository) Create(ctx context.Context, b *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, b)
	}
	b.ID = testBookingID
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindByCancelToken(ctx context.Context, token string) (*model.Booking, error) {
	if m.findByCancelTokenFunc != nil {
		return m.findByCancelTokenFunc(ctx, token)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) FindActiveForKeyOnDate(ctx context.Context, key model.ScheduleKey, date time.Time) ([]*model.Booking, error) {
	if m.findActiveForKeyOnDateFunc != nil {
		return m.findActiveForKeyOnDateFunc(ctx, key, date)
	}
	return nil, nil
}

func (m *mockBookingRepository) FindActiveInRange(ctx context.Context, key model.ScheduleKey, from, to time.Time) ([]*model.Booking, error) {
	return nil, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, from, to model.BookingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, from, to)
	}
	return nil
}

func (m *mockBookingRepository) MarkCancelled(ctx context.Context, id string, from model.BookingStatus, cancelledBy, reason string, at time.Time) error {
	if m.markCancelledFunc != nil {
		return m.markCancelledFunc(ctx, id, from, cancelledBy, reason, at)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockSlotClaimRepository struct {
	createFunc func(ctx context.Context, claim *model.SlotClaim) error
	deleted    []string
}

func (m *mockSlotClaimRepository) Create(ctx context.Context, claim *model.SlotClaim) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, claim)
	}
	return nil
}

func (m *mockSlotClaimRepository) Delete(ctx context.Context, claimID string) error {
	m.deleted = append(m.deleted, claimID)
	return nil
}

type mockScheduleRepository struct {
	findVersionsForDayFunc func(ctx context.Context, key model.ScheduleKey, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error)
}

func (m *mockScheduleRepository) FindVersions(ctx context.Context, key model.ScheduleKey) ([]*model.WeeklyScheduleEntry, error) {
	return nil, nil
}

func (m *mockScheduleRepository) FindVersionsForDay(ctx context.Context, key model.ScheduleKey, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error) {
	if m.findVersionsForDayFunc != nil {
		return m.findVersionsForDayFunc(ctx, key, dayOfWeek)
	}
	return nil, nil
}

func (m *mockScheduleRepository) UpsertBaseline(ctx context.Context, entry *model.WeeklyScheduleEntry) error {
	return nil
}

func (m *mockScheduleRepository) UpsertVersion(ctx context.Context, entry *model.WeeklyScheduleEntry) error {
	return nil
}

func (m *mockScheduleRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockBlockedRangeRepository struct {
	findCoveringFunc func(ctx context.Context, providerID string, date time.Time) ([]*model.BlockedRange, error)
}

func (m *mockBlockedRangeRepository) Create(ctx context.Context, br *model.BlockedRange) error {
	return nil
}

func (m *mockBlockedRangeRepository) FindByID(ctx context.Context, id string) (*model.BlockedRange, error) {
	return nil, nil
}

func (m *mockBlockedRangeRepository) FindUpcoming(ctx context.Context, providerID string, fromDate time.Time) ([]*model.BlockedRange, error) {
	return nil, nil
}

func (m *mockBlockedRangeRepository) FindCovering(ctx context.Context, providerID string, date time.Time) ([]*model.BlockedRange, error) {
	if m.findCoveringFunc != nil {
		return m.findCoveringFunc(ctx, providerID, date)
	}
	return nil, nil
}

func (m *mockBlockedRangeRepository) Delete(ctx context.Context, id string) error {
	return nil
}

func (m *mockBlockedRangeRepository) DeleteEndedBefore(ctx context.Context, providerID string, date time.Time) (int64, error) {
	return 0, nil
}

type mockSettingsService struct {
	settings *model.ProviderSettings
}

func (m *mockSettingsService) Get(ctx context.Context, providerID string) (*model.ProviderSettings, error) {
	if m.settings != nil {
		return m.settings, nil
	}
	return &model.ProviderSettings{
		ProviderID:              providerID,
		RequiresConfirmation:    false,
		DefaultBufferMin:        0,
		MinBookingNoticeMin:     0,
		MaxBookingAdvanceDays:   60,
		AllowClientCancellation: true,
		CancellationDeadlineMin: 24 * 60,
	}, nil
}

func (m *mockSettingsService) Upsert(ctx context.Context, settings *model.ProviderSettings) error {
	return nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
		SlotClaimTTL: 30 * time.Second,
	}
}

func testSealer(t *testing.T) *sealer.Sealer {
	t.Helper()
	s, err := sealer.New(testSealKey)
	if err != nil {
		t.Fatalf("failed to build sealer: %v", err)
	}
	return s
}

// futureStart returns a start two days out at the given wall-clock minutes.
func futureStart(minutes int) time.Time {
	day := model.DateOf(time.Now().UTC().AddDate(0, 0, 2))
	return day.Add(time.Duration(minutes) * time.Minute)
}

func openEntryForDay(day int) *model.WeeklyScheduleEntry {
	return &model.WeeklyScheduleEntry{
		ProviderID: testProviderID,
		LocationID: testLocationID,
		MemberID:   testMemberID,
		DayOfWeek:  day,
		IsOpen:     true,
		Slots:      []model.TimeRange{{Start: 9 * 60, End: 18 * 60}},
	}
}

func newTestService(
	repo *mockBookingRepository,
	claims *mockSlotClaimRepository,
	schedules *mockScheduleRepository,
	blocks *mockBlockedRangeRepository,
	settings *mockSettingsService,
	seal *sealer.Sealer,
	cfg *config.Config,
) *bookingService {
	return &bookingService{
		repo:      repo,
		claims:    claims,
		schedules: schedules,
		blocks:    blocks,
		settings:  settings,
		validator: validator.NewBookingValidator(cfg.Log),
		sealer:    seal,
		publisher: events.NoopPublisher{},
		cfg:       cfg,
	}
}

func validRequest() *model.BookingRequest {
	return &model.BookingRequest{
		ProviderID:  testProviderID,
		LocationID:  testLocationID,
		MemberID:    testMemberID,
		ServiceID:   testServiceID,
		StartTime:   futureStart(10 * 60),
		DurationMin: 30,
		Client: model.ClientInfo{
			Name:  "Dana Levi",
			Email: "dana@example.com",
		},
	}
}

func TestCreate_Success(t *testing.T) {
	cfg := testConfig(t)
	claims := &mockSlotClaimRepository{}
	schedules := &mockScheduleRepository{
		findVersionsForDayFunc: func(ctx context.Context, key model.ScheduleKey, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error) {
			return []*model.WeeklyScheduleEntry{openEntryForDay(dayOfWeek)}, nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, claims, schedules, &mockBlockedRangeRepository{}, &mockSettingsService{}, testSealer(t), cfg)

	booking, token, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if booking.Status != model.StatusConfirmed {
		t.Errorf("expected confirmed status without confirmation requirement, got %s", booking.Status)
	}
	if booking.EndTime != booking.StartTime.Add(30*time.Minute) {
		t.Errorf("expected end time 30 minutes after start, got %v", booking.EndTime)
	}
	if booking.CancelToken == "" {
		t.Error("expected a cancel token on the booking")
	}
	if token == "" {
		t.Error("expected a sealed cancel token in the response")
	}
	if len(claims.deleted) != 1 {
		t.Errorf("expected the slot claim to be released, deletes: %v", claims.deleted)
	}
}

func TestCreate_PendingWhenConfirmationRequired(t *testing.T) {
	cfg := testConfig(t)
	schedules := &mockScheduleRepository{
		findVersionsForDayFunc: func(ctx context.Context, key model.ScheduleKey, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error) {
			return []*model.WeeklyScheduleEntry{openEntryForDay(dayOfWeek)}, nil
		},
	}
	settings := &mockSettingsService{settings: &model.ProviderSettings{
		ProviderID:            testProviderID,
		RequiresConfirmation:  true,
		MaxBookingAdvanceDays: 60,
	}}
	svc := newTestService(&mockBookingRepository{}, &mockSlotClaimRepository{}, schedules, &mockBlockedRangeRepository{}, settings, nil, cfg)

	booking, _, err := svc.Create(context.Background(), validRequest())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusPending {
		t.Errorf("expected pending status, got %s", booking.Status)
	}
}

func TestCreate_ClaimContention(t *testing.T) {
	cfg := testConfig(t)
	createCalled := false
	repo := &mockBookingRepository{
		createFunc: func(ctx context.Context, b *model.Booking) error {
			createCalled = true
			return nil
		},
	}
	claims := &mockSlotClaimRepository{
		createFunc: func(ctx context.Context, claim *model.SlotClaim) error {
			return mongo.WriteException{WriteErrors: mongo.WriteErrors{{Code: 11000}}}
		},
	}
	svc := newTestService(repo, claims, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	_, _, err := svc.Create(context.Background(), validRequest())
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT on held slot claim, got %v", err)
	}
	if createCalled {
		t.Error("booking must not be created when the claim is held")
	}
}

func TestCreate_SlotTakenInsideTransaction(t *testing.T) {
	cfg := testConfig(t)
	req := validRequest()
	existing := &model.Booking{
		ProviderID:  testProviderID,
		LocationID:  testLocationID,
		MemberID:    testMemberID,
		ServiceID:   testServiceID,
		StartTime:   req.StartTime,
		DurationMin: 30,
		Status:      model.StatusConfirmed,
	}
	repo := &mockBookingRepository{
		findActiveForKeyOnDateFunc: func(ctx context.Context, key model.ScheduleKey, date time.Time) ([]*model.Booking, error) {
			return []*model.Booking{existing}, nil
		},
	}
	claims := &mockSlotClaimRepository{}
	schedules := &mockScheduleRepository{
		findVersionsForDayFunc: func(ctx context.Context, key model.ScheduleKey, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error) {
			return []*model.WeeklyScheduleEntry{openEntryForDay(dayOfWeek)}, nil
		},
	}
	svc := newTestService(repo, claims, schedules, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	_, _, err := svc.Create(context.Background(), req)
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT when the slot is already booked, got %v", err)
	}
	if len(claims.deleted) != 1 {
		t.Error("claim must be released even when the transaction fails")
	}
}

func TestCreate_ClosedDayRejected(t *testing.T) {
	cfg := testConfig(t)
	schedules := &mockScheduleRepository{
		findVersionsForDayFunc: func(ctx context.Context, key model.ScheduleKey, dayOfWeek int) ([]*model.WeeklyScheduleEntry, error) {
			entry := openEntryForDay(dayOfWeek)
			entry.IsOpen = false
			entry.Slots = nil
			return []*model.WeeklyScheduleEntry{entry}, nil
		},
	}
	svc := newTestService(&mockBookingRepository{}, &mockSlotClaimRepository{}, schedules, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	_, _, err := svc.Create(context.Background(), validRequest())
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT on a closed day, got %v", err)
	}
}

func TestCreate_BelowMinimumNotice(t *testing.T) {
	cfg := testConfig(t)
	settings := &mockSettingsService{settings: &model.ProviderSettings{
		ProviderID:            testProviderID,
		MinBookingNoticeMin:   7 * 24 * 60,
		MaxBookingAdvanceDays: 60,
	}}
	svc := newTestService(&mockBookingRepository{}, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, settings, nil, cfg)

	_, _, err := svc.Create(context.Background(), validRequest())
	if !apperrors.HasCode(err, apperrors.CodePolicy) {
		t.Fatalf("expected POLICY_VIOLATION below minimum notice, got %v", err)
	}
}

func TestCreate_BeyondBookingHorizon(t *testing.T) {
	cfg := testConfig(t)
	settings := &mockSettingsService{settings: &model.ProviderSettings{
		ProviderID:            testProviderID,
		MaxBookingAdvanceDays: 1,
	}}
	svc := newTestService(&mockBookingRepository{}, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, settings, nil, cfg)

	_, _, err := svc.Create(context.Background(), validRequest())
	if !apperrors.HasCode(err, apperrors.CodePolicy) {
		t.Fatalf("expected POLICY_VIOLATION beyond booking horizon, got %v", err)
	}
}

func TestCreate_ValidationFailure(t *testing.T) {
	cfg := testConfig(t)
	svc := newTestService(&mockBookingRepository{}, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	req := validRequest()
	req.Client.Email = "not-an-email"

	_, _, err := svc.Create(context.Background(), req)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func storedBooking(status model.BookingStatus, start time.Time) *model.Booking {
	return &model.Booking{
		ID:          testBookingID,
		ProviderID:  testProviderID,
		LocationID:  testLocationID,
		MemberID:    testMemberID,
		ServiceID:   testServiceID,
		StartTime:   start,
		EndTime:     start.Add(30 * time.Minute),
		DurationMin: 30,
		Status:      status,
		CancelToken: "11111111-2222-3333-4444-555555555555",
		Client: model.ClientInfo{
			Name:  "Dana Levi",
			Email: "dana@example.com",
		},
	}
}

func TestConfirm_Success(t *testing.T) {
	cfg := testConfig(t)
	var gotFrom, gotTo model.BookingStatus
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusPending, futureStart(10*60)), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, from, to model.BookingStatus) error {
			gotFrom, gotTo = from, to
			return nil
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	if err := svc.Confirm(context.Background(), testBookingID); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotFrom != model.StatusPending || gotTo != model.StatusConfirmed {
		t.Errorf("expected pending -> confirmed, got %s -> %s", gotFrom, gotTo)
	}
}

func TestConfirm_AlreadyConfirmedIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusConfirmed, futureStart(10*60)), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, from, to model.BookingStatus) error {
			t.Error("no status write expected for an idempotent retry")
			return nil
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	if err := svc.Confirm(context.Background(), testBookingID); err != nil {
		t.Fatalf("expected idempotent success, got %v", err)
	}
}

func TestComplete_FromPendingIsIllegal(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusPending, futureStart(10*60)), nil
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	err := svc.Complete(context.Background(), testBookingID)
	if !apperrors.HasCode(err, apperrors.CodeStateTransition) {
		t.Fatalf("expected STATE_TRANSITION_ERROR, got %v", err)
	}
}

func TestTransition_LostRaceToSameTarget(t *testing.T) {
	cfg := testConfig(t)
	calls := 0
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			calls++
			if calls == 1 {
				return storedBooking(model.StatusPending, futureStart(10*60)), nil
			}
			return storedBooking(model.StatusConfirmed, futureStart(10*60)), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, from, to model.BookingStatus) error {
			return bookingserrors.ErrStatusChanged
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	if err := svc.Confirm(context.Background(), testBookingID); err != nil {
		t.Fatalf("losing the race to the same target must succeed, got %v", err)
	}
}

func TestTransition_LostRaceToDifferentTarget(t *testing.T) {
	cfg := testConfig(t)
	calls := 0
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			calls++
			if calls == 1 {
				return storedBooking(model.StatusPending, futureStart(10*60)), nil
			}
			return storedBooking(model.StatusCancelled, futureStart(10*60)), nil
		},
		updateStatusFunc: func(ctx context.Context, id string, from, to model.BookingStatus) error {
			return bookingserrors.ErrStatusChanged
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	err := svc.Confirm(context.Background(), testBookingID)
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected CONFLICT after losing the race to a different status, got %v", err)
	}
}

func TestCancel_ByProvider(t *testing.T) {
	cfg := testConfig(t)
	var gotActor string
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusConfirmed, futureStart(10*60)), nil
		},
		markCancelledFunc: func(ctx context.Context, id string, from model.BookingStatus, cancelledBy, reason string, at time.Time) error {
			gotActor = cancelledBy
			return nil
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	if err := svc.Cancel(context.Background(), testBookingID, model.ActorProvider, "closed for renovation"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotActor != model.ActorProvider {
		t.Errorf("expected provider actor recorded, got %q", gotActor)
	}
}

func TestCancel_ClientPastDeadline(t *testing.T) {
	cfg := testConfig(t)
	// Booking starts in 2 hours, deadline is 24 hours before start.
	start := time.Now().UTC().Add(2 * time.Hour).Truncate(time.Minute)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusConfirmed, start), nil
		},
		markCancelledFunc: func(ctx context.Context, id string, from model.BookingStatus, cancelledBy, reason string, at time.Time) error {
			t.Error("no cancellation write expected past the deadline")
			return nil
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	err := svc.Cancel(context.Background(), testBookingID, model.ActorClient, "")
	if !apperrors.HasCode(err, apperrors.CodePolicy) {
		t.Fatalf("expected POLICY_VIOLATION past the cancellation deadline, got %v", err)
	}
}

func TestCancel_ClientCancellationDisabled(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusConfirmed, futureStart(10*60)), nil
		},
	}
	settings := &mockSettingsService{settings: &model.ProviderSettings{
		ProviderID:              testProviderID,
		MaxBookingAdvanceDays:   60,
		AllowClientCancellation: false,
	}}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, settings, nil, cfg)

	err := svc.Cancel(context.Background(), testBookingID, model.ActorClient, "")
	if !apperrors.HasCode(err, apperrors.CodePolicy) {
		t.Fatalf("expected POLICY_VIOLATION when clients may not cancel, got %v", err)
	}
}

func TestCancel_AlreadyCancelledIsIdempotent(t *testing.T) {
	cfg := testConfig(t)
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusCancelled, futureStart(10*60)), nil
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, nil, cfg)

	if err := svc.Cancel(context.Background(), testBookingID, model.ActorProvider, ""); err != nil {
		t.Fatalf("expected idempotent success, got %v", err)
	}
}

func TestCancelByToken_Success(t *testing.T) {
	cfg := testConfig(t)
	seal := testSealer(t)
	booking := storedBooking(model.StatusConfirmed, futureStart(10*60))
	sealed, err := seal.Seal(booking.ID, booking.CancelToken)
	if err != nil {
		t.Fatalf("failed to seal token: %v", err)
	}

	cancelled := false
	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			if id != booking.ID {
				t.Errorf("expected lookup of %s, got %s", booking.ID, id)
			}
			return booking, nil
		},
		markCancelledFunc: func(ctx context.Context, id string, from model.BookingStatus, cancelledBy, reason string, at time.Time) error {
			cancelled = true
			if cancelledBy != model.ActorClient {
				t.Errorf("expected client actor, got %q", cancelledBy)
			}
			return nil
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, seal, cfg)

	if err := svc.CancelByToken(context.Background(), sealed, "plans changed"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !cancelled {
		t.Error("expected the booking to be cancelled")
	}
}

func TestCancelByToken_TamperedToken(t *testing.T) {
	cfg := testConfig(t)
	seal := testSealer(t)
	svc := newTestService(&mockBookingRepository{}, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, seal, cfg)

	err := svc.CancelByToken(context.Background(), "not-a-sealed-token", "")
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED for a tampered token, got %v", err)
	}
}

func TestCancelByToken_TokenMismatch(t *testing.T) {
	cfg := testConfig(t)
	seal := testSealer(t)
	booking := storedBooking(model.StatusConfirmed, futureStart(10*60))
	sealed, err := seal.Seal(booking.ID, "99999999-8888-7777-6666-555555555555")
	if err != nil {
		t.Fatalf("failed to seal token: %v", err)
	}

	repo := &mockBookingRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Booking, error) {
			return booking, nil
		},
	}
	svc := newTestService(repo, &mockSlotClaimRepository{}, &mockScheduleRepository{}, &mockBlockedRangeRepository{}, &mockSettingsService{}, seal, cfg)

	err = svc.CancelByToken(context.Background(), sealed, "")
	if !apperrors.HasCode(err, apperrors.CodeUnauthorized) {
		t.Fatalf("expected UNAUTHORIZED for a mismatched token, got %v", err)
	}
}
