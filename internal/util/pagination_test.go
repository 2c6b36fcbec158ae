package util

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPage(t *testing.T) {
	tests := []struct {
		name                  string
		limit, offset, def    int
		wantLimit, wantOffset int
	}{
		{"defaults", 0, 0, 10, 10, 0},
		{"negative", -5, -3, 10, 10, 0},
		{"explicit", 25, 50, 10, 25, 50},
		{"capped", 500, 0, 10, MaxPageSize, 0},
		{"bad default", 0, 0, 0, 10, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, o := Page(tt.limit, tt.offset, tt.def)
			assert.Equal(t, tt.wantLimit, l)
			assert.Equal(t, tt.wantOffset, o)
		})
	}
}

func TestDayBounds(t *testing.T) {
	at := time.Date(2026, 10, 18, 23, 59, 0, 0, time.Local)
	from, to := DayBounds(at)

	assert.Equal(t, time.UTC, from.Location())
	assert.True(t, from.Equal(time.Date(2026, 10, 18, 0, 0, 0, 0, time.Local)))
	assert.True(t, to.Equal(time.Date(2026, 10, 19, 0, 0, 0, 0, time.Local)))
	assert.False(t, at.Before(from))
	assert.True(t, at.Before(to))
}

func TestMonthBounds(t *testing.T) {
	from, to := MonthBounds(time.Date(2026, 12, 31, 10, 0, 0, 0, time.Local))

	assert.True(t, from.Equal(time.Date(2026, 12, 1, 0, 0, 0, 0, time.Local)))
	assert.True(t, to.Equal(time.Date(2027, 1, 1, 0, 0, 0, 0, time.Local)))
}
