package expiration

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsExpired(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		expiresAt time.Time
		now       time.Time
		want      bool
	}{
		{"before expiry", base, base.Add(-time.Nanosecond), false},
		{"exactly at expiry", base, base, true},
		{"after expiry", base, base.Add(time.Nanosecond), true},
		{"zero expiry", time.Time{}, base, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsExpired(tt.expiresAt, tt.now))
		})
	}
}

func TestRemaining(t *testing.T) {
	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, 3*time.Second, Remaining(base.Add(3*time.Second), base))
	assert.Equal(t, time.Duration(0), Remaining(base, base))
	assert.Equal(t, time.Duration(0), Remaining(base, base.Add(time.Hour)))
}
