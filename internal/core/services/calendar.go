package services

import (
	"context"
	"time"

	"github.com/comitanigiacomo/dominos-engine/internal/core/domain"
)

// Calendar answers "what day is it" for a given user. The clock is read on every
// call so nothing goes stale across midnight.
type Calendar struct {
	clock    domain.Clock
	users    domain.UserRepository
	fallback *time.Location
}

// NewCalendar accepts a nil users repository, in which case every user lives in fallback.
func NewCalendar(clock domain.Clock, users domain.UserRepository, fallback *time.Location) *Calendar {
	if clock == nil {
		clock = time.Now
	}
	if fallback == nil {
		fallback = time.UTC
	}
	return &Calendar{
		clock:    clock,
		users:    users,
		fallback: fallback,
	}
}

func (c *Calendar) Location(ctx context.Context, userID string) *time.Location {
	if c.users == nil {
		return c.fallback
	}
	user, err := c.users.GetByID(ctx, userID)
	if err != nil || user.Timezone == "" {
		return c.fallback
	}
	return user.Location()
}

func (c *Calendar) Now(ctx context.Context, userID string) time.Time {
	return c.clock().In(c.Location(ctx, userID))
}

// Date parses a YYYY-MM-DD string in the user's timezone. An empty string means today.
func (c *Calendar) Date(ctx context.Context, userID, date string) (time.Time, error) {
	loc := c.Location(ctx, userID)
	if date == "" {
		return domain.StartOfDay(c.clock().In(loc)), nil
	}
	return domain.ParseDateKey(date, loc)
}
