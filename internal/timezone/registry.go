// Package timezone maps user handles to IANA zones and resolves the
// human-friendly aliases users actually type.
package timezone

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/modbot/remindersvc/internal/entity"
)

// PreferenceRepository is the authoritative store of user zone preferences.
type PreferenceRepository interface {
	GetUserTimezone(ctx context.Context, userID string) (string, error)
	SetUserTimezone(ctx context.Context, userID, zone string) error
}

// PreferenceCache is the process-side read-through cache, invalidated on
// every write.
type PreferenceCache interface {
	GetUserTimezone(ctx context.Context, userID string) (string, bool)
	SetUserTimezone(ctx context.Context, userID, zone string)
	InvalidateUserTimezone(ctx context.Context, userID string)
}

type Registry struct {
	repo      PreferenceRepository
	cache     PreferenceCache
	canonical map[string]string // lowercase name -> canonical name
}

func NewRegistry(repo PreferenceRepository, cache PreferenceCache) *Registry {
	canonical := make(map[string]string, len(canonicalZones))
	for _, z := range canonicalZones {
		canonical[strings.ToLower(z)] = z
	}
	return &Registry{repo: repo, cache: cache, canonical: canonical}
}

// Get returns the user's zone, defaulting to UTC for users who never set one
// or when the store is unreachable (a reminder in UTC beats no reminder).
func (r *Registry) Get(ctx context.Context, userID string) (string, *time.Location) {
	if name, ok := r.cache.GetUserTimezone(ctx, userID); ok {
		if loc, err := time.LoadLocation(name); err == nil {
			return name, loc
		}
	}

	name, err := r.repo.GetUserTimezone(ctx, userID)
	if err != nil {
		logrus.Errorf("timezone lookup failed for user %s: %v", userID, err)
		return "UTC", time.UTC
	}
	if name == "" {
		return "UTC", time.UTC
	}

	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("stored timezone %q for user %s no longer loads: %v", name, userID, err)
		return "UTC", time.UTC
	}
	r.cache.SetUserTimezone(ctx, userID, name)
	return name, loc
}

// Set validates and stores a zone preference, then drops the cache entry so
// the next read goes through the authoritative copy.
func (r *Registry) Set(ctx context.Context, userID, name string) (string, error) {
	zone, err := r.Normalize(name)
	if err != nil {
		return "", err
	}
	if err := r.repo.SetUserTimezone(ctx, userID, zone); err != nil {
		return "", fmt.Errorf("failed to store timezone: %w", err)
	}
	r.cache.InvalidateUserTimezone(ctx, userID)
	return zone, nil
}

// Normalize maps input to a canonical IANA name, case-insensitively, and
// confirms the platform can load it.
func (r *Registry) Normalize(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", entity.ErrUnknownTimezone
	}
	zone, ok := r.canonical[strings.ToLower(name)]
	if !ok {
		// Not in the curated list; accept anything tzdata itself accepts,
		// as long as it is a zone name rather than a bare offset.
		if _, err := time.LoadLocation(name); err != nil || !strings.Contains(name, "/") {
			return "", entity.ErrUnknownTimezone
		}
		zone = name
	}
	if _, err := time.LoadLocation(zone); err != nil {
		return "", entity.ErrUnknownTimezone
	}
	return zone, nil
}

// ResolveAlias resolves country names, three-letter codes, flag emoji and
// phone-code prefixes. Exact IANA names pass straight through.
func (r *Registry) ResolveAlias(input string) (string, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return "", false
	}

	if zone, err := r.Normalize(input); err == nil {
		return zone, true
	}

	lower := strings.ToLower(input)
	if zone, ok := countryAliases[lower]; ok {
		return zone, true
	}
	if zone, ok := codeAliases[strings.ToUpper(input)]; ok {
		return zone, true
	}
	if cc, ok := flagToCountry(input); ok {
		if zone, ok := isoCountryZones[cc]; ok {
			return zone, true
		}
	}
	if strings.HasPrefix(input, "+") {
		if cc, ok := phoneCodeCountries[input]; ok {
			if zone, ok := isoCountryZones[cc]; ok {
				return zone, true
			}
		}
	}
	return "", false
}

// Search returns canonical zones matching the query substring,
// case-insensitively, sorted, capped at limit. An empty query lists all.
func (r *Registry) Search(query string, limit int) []string {
	query = strings.ToLower(strings.TrimSpace(query))
	matches := make([]string, 0, limit)
	for _, z := range canonicalZones {
		if query == "" || strings.Contains(strings.ToLower(z), query) {
			matches = append(matches, z)
		}
	}
	sort.Strings(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}
