package validator

import (
	"testing"

	"github.com/LewisLovet/opatam-sub005/pkg/logger"
	"github.com/LewisLovet/opatam-sub005/pkg/model"
)

const (
	testProviderID = "64f1b2a3c4d5e6f7a8b9c0d1"
	testLocationID = "64f1b2a3c4d5e6f7a8b9c0d2"
)

func testValidator(t *testing.T) *ScheduleValidator {
	t.Helper()
	log := logger.New(logger.Config{
		Level:   "error",
		Format:  logger.JSON,
		Service: "test",
	})
	return NewScheduleValidator(log)
}

func entry(isOpen bool, slots []model.TimeRange) *model.WeeklyScheduleEntry {
	return &model.WeeklyScheduleEntry{
		ProviderID: testProviderID,
		LocationID: testLocationID,
		DayOfWeek:  1,
		IsOpen:     isOpen,
		Slots:      slots,
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		entry   *model.WeeklyScheduleEntry
		wantErr bool
	}{
		{
			name:  "open day with one range",
			entry: entry(true, []model.TimeRange{{Start: 9 * 60, End: 18 * 60}}),
		},
		{
			name: "open day with split shift",
			entry: entry(true, []model.TimeRange{
				{Start: 9 * 60, End: 13 * 60},
				{Start: 14 * 60, End: 18 * 60},
			}),
		},
		{
			name:  "closed day without ranges",
			entry: entry(false, nil),
		},
		{
			name:    "open day without ranges",
			entry:   entry(true, nil),
			wantErr: true,
		},
		{
			name:    "closed day with ranges",
			entry:   entry(false, []model.TimeRange{{Start: 9 * 60, End: 18 * 60}}),
			wantErr: true,
		},
		{
			name: "overlapping ranges",
			entry: entry(true, []model.TimeRange{
				{Start: 9 * 60, End: 13 * 60},
				{Start: 12 * 60, End: 18 * 60},
			}),
			wantErr: true,
		},
		{
			name: "adjacent ranges do not overlap",
			entry: entry(true, []model.TimeRange{
				{Start: 9 * 60, End: 13 * 60},
				{Start: 13 * 60, End: 18 * 60},
			}),
		},
		{
			name:    "inverted range",
			entry:   entry(true, []model.TimeRange{{Start: 18 * 60, End: 9 * 60}}),
			wantErr: true,
		},
		{
			name:    "zero-length range",
			entry:   entry(true, []model.TimeRange{{Start: 9 * 60, End: 9 * 60}}),
			wantErr: true,
		},
		{
			name: "missing provider ID",
			entry: &model.WeeklyScheduleEntry{
				LocationID: testLocationID,
				DayOfWeek:  1,
				IsOpen:     true,
				Slots:      []model.TimeRange{{Start: 9 * 60, End: 18 * 60}},
			},
			wantErr: true,
		},
	}

	v := testValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.entry)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
