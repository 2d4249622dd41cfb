// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package tally

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDayStartMillis(t *testing.T) {
	tests := []struct {
		name string
		at   time.Time
		want int64
	}{
		{"epoch", time.Unix(0, 0), 0},
		{"first nanosecond", time.Unix(0, 1), 0},
		{"last nanosecond of day one", time.Unix(86_399, 999_999_999), 0},
		{"second day", time.Unix(86_400, 0), 86_400_000},
		{"reference vote", time.Unix(0, 1638040621000000000), 1637971200000},
		{"reference midnight", time.UnixMilli(1637971200000), 1637971200000},
		{"non-UTC location", time.Unix(0, 1638040621000000000).In(time.FixedZone("UTC+13", 13*3600)), 1637971200000},
		{"before epoch", time.Unix(-1, 0), -86_400_000},
		{"exact midnight before epoch", time.Unix(-86_400, 0), -86_400_000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DayStartMillis(tt.at))
		})
	}
}

func TestDayStartMillis_SameDay(t *testing.T) {
	morning := time.Date(2021, 11, 27, 0, 0, 1, 0, time.UTC)
	night := time.Date(2021, 11, 27, 23, 59, 59, 0, time.UTC)
	next := time.Date(2021, 11, 28, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, DayStartMillis(morning), DayStartMillis(night))
	assert.Equal(t, DayStartMillis(morning)+86_400_000, DayStartMillis(next))
}

func TestConfigIsPrivileged(t *testing.T) {
	cfg := Config{PrivilegedCallers: []string{"rubikone.testnet"}}

	assert.True(t, cfg.IsPrivileged("rubikone.testnet"))
	assert.False(t, cfg.IsPrivileged("bob_near"))
	assert.False(t, cfg.IsPrivileged(""))
	assert.False(t, Config{}.IsPrivileged("rubikone.testnet"))
}

func TestSeriesNamespace(t *testing.T) {
	ns := seriesNamespace("0")

	assert.Equal(t, "ct/5feceb66ffc86f38d952786c6d696c79c2dbc239dd4e91b46729d73a27fb57e9", ns)
	assert.NotEqual(t, ns, seriesNamespace("1"))
}
