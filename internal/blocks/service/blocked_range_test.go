package service

import (
	"context"
	"testing"
	"time"

	blockserrors "github.com/LewisLovet/opatam-sub005/internal/blocks/errors"
	"github.com/LewisLovet/opatam-sub005/internal/blocks/validator"
	"github.com/LewisLovet/opatam-sub005/pkg/config"
	apperrors "github.com/LewisLovet/opatam-sub005/pkg/errors"
	"github.com/LewisLovet/opatam-sub005/pkg/logger"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

const (
	testProviderID = "64f1b2a3c4d5e6f7a8b9c0d1"
	testBlockID    = "64f1b2a3c4d5e6f7a8b9c0f1"
)

type mockBlockedRangeRepository struct {
	createFunc            func(ctx context.Context, br *model.BlockedRange) error
	deleteFunc            func(ctx context.Context, id string) error
	deleteEndedBeforeFunc func(ctx context.Context, providerID string, date time.Time) (int64, error)
}

func (m *mockBlockedRangeRepository) Create(ctx context.Context, br *model.BlockedRange) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, br)
	}
	br.ID = testBlockID
	return nil
}

func (m *mockBlockedRangeRepository) FindByID(ctx context.Context, id string) (*model.BlockedRange, error) {
	return nil, blockserrors.ErrNotFound
}

func (m *mockBlockedRangeRepository) FindUpcoming(ctx context.Context, providerID string, fromDate time.Time) ([]*model.BlockedRange, error) {
	return nil, nil
}

func (m *mockBlockedRangeRepository) FindCovering(ctx context.Context, providerID string, date time.Time) ([]*model.BlockedRange, error) {
	return nil, nil
}

func (m *mockBlockedRangeRepository) Delete(ctx context.Context, id string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, id)
	}
	return nil
}

func (m *mockBlockedRangeRepository) DeleteEndedBefore(ctx context.Context, providerID string, date time.Time) (int64, error) {
	if m.deleteEndedBeforeFunc != nil {
		return m.deleteEndedBeforeFunc(ctx, providerID, date)
	}
	return 0, nil
}

func testService(t *testing.T, repo *mockBlockedRangeRepository) BlockedRangeService {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewBlockedRangeService(repo, validator.NewBlockedRangeValidator(log), cfg)
}

func validBlock() *model.BlockedRange {
	start := time.Now().UTC().AddDate(0, 0, 7)
	return &model.BlockedRange{
		ProviderID: testProviderID,
		StartDate:  start,
		EndDate:    start.AddDate(0, 0, 3),
		AllDay:     true,
		Reason:     "summer vacation",
	}
}

func TestCreate_NormalizesDates(t *testing.T) {
	var stored *model.BlockedRange
	repo := &mockBlockedRangeRepository{
		createFunc: func(ctx context.Context, br *model.BlockedRange) error {
			stored = br
			return nil
		},
	}
	svc := testService(t, repo)

	br := validBlock()
	br.StartDate = br.StartDate.Add(13 * time.Hour)

	if err := svc.Create(context.Background(), br); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored == nil {
		t.Fatal("expected a create")
	}
	if !stored.StartDate.Equal(model.DateOf(stored.StartDate)) {
		t.Errorf("expected start_date normalized to midnight UTC, got %v", stored.StartDate)
	}
}

func TestCreate_AllDayClearsWindow(t *testing.T) {
	var stored *model.BlockedRange
	repo := &mockBlockedRangeRepository{
		createFunc: func(ctx context.Context, br *model.BlockedRange) error {
			stored = br
			return nil
		},
	}
	svc := testService(t, repo)

	br := validBlock()
	br.StartTime = 9 * 60
	br.EndTime = 18 * 60

	if err := svc.Create(context.Background(), br); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if stored.StartTime != 0 || stored.EndTime != 0 {
		t.Errorf("all-day blocks must not carry a partial window, got [%d,%d)", stored.StartTime, stored.EndTime)
	}
}

func TestCreate_EndBeforeStartRejected(t *testing.T) {
	svc := testService(t, &mockBlockedRangeRepository{
		createFunc: func(ctx context.Context, br *model.BlockedRange) error {
			t.Error("no write expected for an invalid range")
			return nil
		},
	})

	br := validBlock()
	br.EndDate = br.StartDate.AddDate(0, 0, -1)

	err := svc.Create(context.Background(), br)
	if !apperrors.HasCode(err, apperrors.CodeValidation) {
		t.Fatalf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestDelete_NotFound(t *testing.T) {
	repo := &mockBlockedRangeRepository{
		deleteFunc: func(ctx context.Context, id string) error {
			return blockserrors.ErrNotFound
		},
	}
	svc := testService(t, repo)

	err := svc.Delete(context.Background(), testBlockID)
	if !apperrors.HasCode(err, apperrors.CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
}

func TestPurgePast_Idempotent(t *testing.T) {
	runs := 0
	repo := &mockBlockedRangeRepository{
		deleteEndedBeforeFunc: func(ctx context.Context, providerID string, date time.Time) (int64, error) {
			runs++
			if runs == 1 {
				return 3, nil
			}
			return 0, nil
		},
	}
	svc := testService(t, repo)

	deleted, err := svc.PurgePast(context.Background(), testProviderID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deleted != 3 {
		t.Errorf("expected 3 deleted on the first run, got %d", deleted)
	}

	deleted, err = svc.PurgePast(context.Background(), testProviderID)
	if err != nil {
		t.Fatalf("second run must succeed, got %v", err)
	}
	if deleted != 0 {
		t.Errorf("expected nothing further to delete, got %d", deleted)
	}
}

func TestPurgePast_RequiresProvider(t *testing.T) {
	svc := testService(t, &mockBlockedRangeRepository{})

	_, err := svc.PurgePast(context.Background(), "")
	if !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Fatalf("expected INVALID_INPUT, got %v", err)
	}
}
