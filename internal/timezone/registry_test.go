package timezone

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/modbot/remindersvc/internal/entity"
)

type fakePreferenceRepo struct {
	zones map[string]string
	err   error
}

func (f *fakePreferenceRepo) GetUserTimezone(ctx context.Context, userID string) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.zones[userID], nil
}

func (f *fakePreferenceRepo) SetUserTimezone(ctx context.Context, userID, zone string) error {
	if f.err != nil {
		return f.err
	}
	f.zones[userID] = zone
	return nil
}

type fakePreferenceCache struct {
	zones map[string]string
}

func (f *fakePreferenceCache) GetUserTimezone(ctx context.Context, userID string) (string, bool) {
	zone, ok := f.zones[userID]
	return zone, ok
}

func (f *fakePreferenceCache) SetUserTimezone(ctx context.Context, userID, zone string) {
	f.zones[userID] = zone
}

func (f *fakePreferenceCache) InvalidateUserTimezone(ctx context.Context, userID string) {
	delete(f.zones, userID)
}

func newTestRegistry() (*Registry, *fakePreferenceRepo, *fakePreferenceCache) {
	repo := &fakePreferenceRepo{zones: make(map[string]string)}
	cache := &fakePreferenceCache{zones: make(map[string]string)}
	return NewRegistry(repo, cache), repo, cache
}

func TestResolveAlias(t *testing.T) {
	registry, _, _ := newTestRegistry()

	tests := []struct {
		name  string
		input string
		want  string
		ok    bool
	}{
		{"exact iana name", "America/La_Paz", "America/La_Paz", true},
		{"case insensitive iana", "america/la_paz", "America/La_Paz", true},
		{"country name", "bolivia", "America/La_Paz", true},
		{"country name mixed case", "Bolivia", "America/La_Paz", true},
		{"three letter code", "EST", "America/New_York", true},
		{"code lowercased", "ist", "Asia/Kolkata", true},
		{"flag emoji", "🇧🇴", "America/La_Paz", true},
		{"phone code", "+591", "America/La_Paz", true},
		{"utc", "UTC", "UTC", true},
		{"garbage", "not-a-zone", "", false},
		{"empty", "  ", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := registry.ResolveAlias(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalize(t *testing.T) {
	registry, _, _ := newTestRegistry()

	zone, err := registry.Normalize("europe/berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", zone)

	_, err = registry.Normalize("Mars/Olympus")
	assert.ErrorIs(t, err, entity.ErrUnknownTimezone)

	_, err = registry.Normalize("")
	assert.ErrorIs(t, err, entity.ErrUnknownTimezone)
}

func TestGetDefaultsToUTC(t *testing.T) {
	registry, repo, _ := newTestRegistry()
	ctx := context.Background()

	// Never set: UTC.
	name, loc := registry.Get(ctx, "user-1")
	assert.Equal(t, "UTC", name)
	assert.Equal(t, time.UTC, loc)

	// Store unreachable: still UTC, never an error.
	repo.err = errors.New("connection refused")
	name, loc = registry.Get(ctx, "user-1")
	assert.Equal(t, "UTC", name)
	assert.Equal(t, time.UTC, loc)
}

func TestSetThenGet(t *testing.T) {
	registry, repo, cache := newTestRegistry()
	ctx := context.Background()

	stored, err := registry.Set(ctx, "user-1", "europe/berlin")
	require.NoError(t, err)
	assert.Equal(t, "Europe/Berlin", stored)
	assert.Equal(t, "Europe/Berlin", repo.zones["user-1"])

	// Write invalidates the cache entry.
	_, cached := cache.GetUserTimezone(ctx, "user-1")
	assert.False(t, cached)

	name, loc := registry.Get(ctx, "user-1")
	assert.Equal(t, "Europe/Berlin", name)
	require.NotNil(t, loc)
	assert.Equal(t, "Europe/Berlin", loc.String())

	// Read populated the cache.
	zone, cached := cache.GetUserTimezone(ctx, "user-1")
	assert.True(t, cached)
	assert.Equal(t, "Europe/Berlin", zone)
}

func TestSetRejectsUnknownZone(t *testing.T) {
	registry, repo, _ := newTestRegistry()

	_, err := registry.Set(context.Background(), "user-1", "Mars/Olympus")
	assert.ErrorIs(t, err, entity.ErrUnknownTimezone)
	assert.Empty(t, repo.zones)
}

func TestSearch(t *testing.T) {
	registry, _, _ := newTestRegistry()

	matches := registry.Search("la_paz", 0)
	require.Len(t, matches, 1)
	assert.Equal(t, "America/La_Paz", matches[0])

	matches = registry.Search("europe", 5)
	assert.Len(t, matches, 5)
	for _, z := range matches {
		assert.Contains(t, z, "Europe/")
	}

	// Sorted output.
	matches = registry.Search("america", 0)
	for i := 1; i < len(matches); i++ {
		assert.Less(t, matches[i-1], matches[i])
	}

	assert.Empty(t, registry.Search("zzzz", 0))
}
