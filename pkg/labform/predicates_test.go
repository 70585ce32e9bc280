package labform

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIsEmail(t *testing.T) {
	valid := []string{
		"user@example.com",
		"first.last+tag@sub.example.co",
		"a_b%c-d@host-name.io",
	}
	for _, v := range valid {
		assert.True(t, IsEmail(v), v)
	}

	invalid := []any{
		"",
		"no-at-sign.example.com",
		"user@example",
		"user@example.c",
		"user@example.c0m",
		"user name@example.com",
		nil,
		42,
	}
	for _, v := range invalid {
		assert.False(t, IsEmail(v), "%v", v)
	}
}

func TestIsOpenShiftVersion(t *testing.T) {
	for _, v := range []string{"4.0", "4.14", "4.14.2", "4.100.0"} {
		assert.True(t, IsOpenShiftVersion(v), v)
	}
	for _, v := range []any{"4", "5.0", "4.x", "4.14.", "v4.14", "4.14.2.1", " 4.14", "", 4.14, nil} {
		assert.False(t, IsOpenShiftVersion(v), "%v", v)
	}
}

func TestIsTimezone(t *testing.T) {
	for _, v := range []string{"America/New_York", "Europe/Berlin", "UTC", "Asia/Kolkata"} {
		assert.True(t, IsTimezone(v), v)
	}
	for _, v := range []any{"", "Local", "Mars/Olympus_Mons", "EST5EDTX", "../etc/passwd", 5, nil} {
		assert.False(t, IsTimezone(v), "%v", v)
	}
}

func TestIsOneOf(t *testing.T) {
	assert.True(t, IsOneOf("aws", AllowedCloudProviders))
	assert.False(t, IsOneOf("AWS", AllowedCloudProviders))
	assert.False(t, IsOneOf("digitalocean", AllowedCloudProviders))
	assert.False(t, IsOneOf(nil, AllowedCloudProviders))
	assert.True(t, IsOneOf("1w", AllowedLeaseDurations))
	assert.False(t, IsOneOf("3w", AllowedLeaseDurations))
}

func TestParseISODate(t *testing.T) {
	cases := map[string]time.Time{
		"2025-03-01":                time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		"2025-03-01T09:30":          time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		"2025-03-01T09:30:15":       time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC),
		"2025-03-01 09:30:15":       time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC),
		"2025-03-01T09:30:15Z":      time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC),
		"2025-03-01T09:30:15.250Z":  time.Date(2025, 3, 1, 9, 30, 15, 250_000_000, time.UTC),
		"2025-03-01T11:30:15+02:00": time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC),
		"2025-03-01T04:30:15-05:00": time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC),
		"2025-03-01T09":             time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC),
		"20250301":                  time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		"20250301T093015":           time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC),
		"2025-03-01T0930":           time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
		"2025-03-01T11:30:15+0200":  time.Date(2025, 3, 1, 9, 30, 15, 0, time.UTC),
		"2025-03-01T11:30+02":       time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC),
	}
	for in, want := range cases {
		got, err := ParseISODate(in)
		require.NoError(t, err, in)
		assert.True(t, want.Equal(got), "%s: got %s", in, got)
	}

	for _, in := range []string{"", "tomorrow", "2025-13-01", "2025-02-30", "03/01/2025", "2025-3-1", "2025-03-01T25:00"} {
		_, err := ParseISODate(in)
		assert.Error(t, err, in)
	}
	assert.False(t, IsISODate(20250301))
}

func TestIsBoolean_NoCoercion(t *testing.T) {
	assert.True(t, IsBoolean(true))
	assert.True(t, IsBoolean(false))
	assert.False(t, IsBoolean("true"))
	assert.False(t, IsBoolean(1))
	assert.False(t, IsBoolean(nil))
}

func TestIsRequiredString(t *testing.T) {
	assert.True(t, IsRequiredString("Acme", 1))
	assert.True(t, IsRequiredString("  x  ", 1))
	assert.False(t, IsRequiredString("   ", 1))
	assert.False(t, IsRequiredString("", 1))
	assert.False(t, IsRequiredString(nil, 1))
	assert.False(t, IsRequiredString(12, 1))
	assert.False(t, IsRequiredString("ab", 3))
	assert.True(t, IsRequiredString("äöü", 3))
}

func TestIsOptionalString(t *testing.T) {
	assert.True(t, IsOptionalString(nil))
	assert.True(t, IsOptionalString(""))
	assert.True(t, IsOptionalString("text"))
	assert.False(t, IsOptionalString(3.5))
	assert.False(t, IsOptionalString(true))
}
