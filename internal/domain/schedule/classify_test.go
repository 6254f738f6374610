package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

var wib = time.FixedZone("WIB", 7*3600)

func at(hour, minute, second int) time.Time {
	return time.Date(2024, 3, 5, hour, minute, second, 0, wib)
}

func TestClassifyLateness(t *testing.T) {
	tests := []struct {
		name    string
		start   *string
		checkIn time.Time
		want    Lateness
	}{
		{"no policy", nil, at(9, 15, 0), Lateness{}},
		{"on time", strPtr("09:00"), at(9, 0, 0), Lateness{}},
		{"early", strPtr("09:00"), at(8, 45, 0), Lateness{}},
		{"late fifteen", strPtr("09:00"), at(9, 15, 0), Lateness{IsLate: true, LateMinutes: 15}},
		{"partial minute floors", strPtr("09:00"), at(9, 0, 59), Lateness{IsLate: true, LateMinutes: 0}},
		{"malformed", strPtr("9am"), at(10, 0, 0), Lateness{}},
		{"out of range", strPtr("25:00"), at(10, 0, 0), Lateness{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyLateness(tt.start, tt.checkIn))
		})
	}
}

func TestClassifyOvertime(t *testing.T) {
	assert.Equal(t, 30, ClassifyOvertime(strPtr("18:00"), at(18, 30, 0)))
	assert.Equal(t, 0, ClassifyOvertime(strPtr("18:00"), at(17, 59, 0)))
	assert.Equal(t, 0, ClassifyOvertime(strPtr("18:00"), at(18, 0, 0)))
	assert.Equal(t, 0, ClassifyOvertime(nil, at(23, 0, 0)))
	assert.Equal(t, 0, ClassifyOvertime(strPtr("six pm"), at(23, 0, 0)))
}

func TestShiftInstant_UsesReferenceLocation(t *testing.T) {
	ref := time.Date(2024, 3, 5, 2, 0, 0, 0, time.UTC).In(wib)
	got, err := ShiftInstant("09:00", ref)
	assert.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 5, 9, 0, 0, 0, wib), got)
}

func TestShiftPolicy_NilSafe(t *testing.T) {
	var p *ShiftPolicy
	assert.Equal(t, Lateness{}, p.Lateness(at(12, 0, 0)))
	assert.Equal(t, 0, p.Overtime(at(23, 0, 0)))

	p = &ShiftPolicy{StartTime: strPtr("09:00"), EndTime: strPtr("18:00")}
	assert.Equal(t, Lateness{IsLate: true, LateMinutes: 15}, p.Lateness(at(9, 15, 0)))
	assert.Equal(t, 30, p.Overtime(at(18, 30, 0)))
}
