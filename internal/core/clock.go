package core

import (
	"context"
	"time"

	"attendance.service/internal/core/model"
	"github.com/rs/zerolog/log"
)

// OrgTimeZone is the single organizational zone every day-boundary decision
// is made in. It is deliberately not configurable.
const OrgTimeZone = "America/Mexico_City"

// OrgClock projects reported instants onto the organizational calendar.
// All canonical dates flow through it so the day boundary is decided in one
// zone regardless of where the process or the reporting device runs.
type OrgClock struct {
	loc *time.Location
	now func() time.Time
}

// NewOrgClock loads the organizational zone. Failing to load it is a
// deployment problem, not a runtime condition, so the error propagates.
func NewOrgClock() (*OrgClock, error) {
	return NewOrgClockWithNow(time.Now)
}

// NewOrgClockWithNow builds a clock with an injectable time source.
func NewOrgClockWithNow(now func() time.Time) (*OrgClock, error) {
	loc, err := time.LoadLocation(OrgTimeZone)
	if err != nil {
		return nil, err
	}
	return &OrgClock{loc: loc, now: now}, nil
}

// Location returns the organizational zone.
func (c *OrgClock) Location() *time.Location {
	return c.loc
}

// Today is the current canonical date. Never derived from the process-local
// zone: a server in UTC and one in the organizational zone must agree.
func (c *OrgClock) Today() model.Date {
	return model.DateOf(c.now(), c.loc)
}

// Normalize parses a device-reported instant and projects it onto the
// organizational calendar. A raw UTC suffix ("Z") is honored as +00:00.
// When the value is missing or unparsable the submission still proceeds
// with the current time, but the substitution is flagged and logged since
// it silently changes the effective instant.
func (c *OrgClock) Normalize(ctx context.Context, reported string) (occurredAt time.Time, day model.Date, fellBack bool) {
	occurredAt, err := time.Parse(time.RFC3339, reported)
	if err != nil {
		occurredAt = c.now()
		fellBack = true
		log.Ctx(ctx).Warn().
			Str("reported_at", reported).
			Time("substituted", occurredAt).
			Msg("Unparsable reported instant, falling back to current time")
	}
	return occurredAt, model.DateOf(occurredAt, c.loc), fellBack
}
