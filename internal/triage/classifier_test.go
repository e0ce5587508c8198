package triage

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"ShelterScanner/internal/domain"
)

func TestClassifyDeadlineBoundaries(t *testing.T) {
	t.Parallel()

	for d := 0; d <= 60; d++ {
		got := Classify(domain.IntPtr(d), domain.IntPtr(0))
		switch {
		case d <= 3:
			assert.Equal(t, domain.TierCritical, got, "deadline %d", d)
		case d <= 7:
			assert.Equal(t, domain.TierModerate, got, "deadline %d", d)
		default:
			assert.Equal(t, domain.TierLow, got, "deadline %d", d)
		}
	}
}

func TestClassifyShelterStay(t *testing.T) {
	t.Parallel()

	for s := 0; s <= 120; s++ {
		got := Classify(nil, domain.IntPtr(s))
		if s >= 31 {
			assert.Equal(t, domain.TierModerate, got, "stay %d", s)
		} else {
			assert.Equal(t, domain.TierLow, got, "stay %d", s)
		}
	}
}

func TestClassifyPrecedence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		deadline *int
		stay     *int
		want     domain.UrgencyTier
	}{
		{name: "both nil", want: domain.TierLow},
		{name: "overdue", deadline: domain.IntPtr(-2), want: domain.TierCritical},
		{name: "deadline beats long stay", deadline: domain.IntPtr(2), stay: domain.IntPtr(200), want: domain.TierCritical},
		{name: "far deadline with long stay", deadline: domain.IntPtr(20), stay: domain.IntPtr(45), want: domain.TierModerate},
		{name: "far deadline short stay", deadline: domain.IntPtr(20), stay: domain.IntPtr(5), want: domain.TierLow},
		{name: "boundary three", deadline: domain.IntPtr(3), want: domain.TierCritical},
		{name: "boundary seven", deadline: domain.IntPtr(7), want: domain.TierModerate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.deadline, tt.stay))
			assert.Equal(t, tt.want, Classify(tt.deadline, tt.stay), "classification must be deterministic")
		})
	}
}
