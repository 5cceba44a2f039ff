package temporal

import (
	"sort"
	"time"

	"github.com/rohankatakam/orgpulse/internal/models"
)

// ActivitySpan records when a user was first and last seen
type ActivitySpan struct {
	User       string    `json:"user"`
	FirstSeen  time.Time `json:"first_seen"`
	LastSeen   time.Time `json:"last_seen"`
	Events     int       `json:"events"`
	ActiveDays int       `json:"active_days"`
	Repos      int       `json:"repos"`
}

// ActivitySpans builds one span per user, ordered by user
func ActivitySpans(events []models.TemporalEvent, loc *time.Location) []ActivitySpan {
	f := Filter{Location: loc}
	spans := make(map[string]*ActivitySpan)
	days := make(map[string]map[string]struct{})
	repos := make(map[string]map[string]struct{})

	for _, ev := range events {
		user := models.CanonicalLogin(ev.User)
		if user == "" {
			continue
		}
		if span, exists := spans[user]; exists {
			span.Events++
			if ev.Date.After(span.LastSeen) {
				span.LastSeen = ev.Date
			}
			if ev.Date.Before(span.FirstSeen) {
				span.FirstSeen = ev.Date
			}
		} else {
			spans[user] = &ActivitySpan{
				User:      user,
				FirstSeen: ev.Date,
				LastSeen:  ev.Date,
				Events:    1,
			}
			days[user] = make(map[string]struct{})
			repos[user] = make(map[string]struct{})
		}
		days[user][f.local(ev.Date).Format(DateLayout)] = struct{}{}
		repos[user][ev.Repo] = struct{}{}
	}

	out := make([]ActivitySpan, 0, len(spans))
	for user, span := range spans {
		span.ActiveDays = len(days[user])
		span.Repos = len(repos[user])
		out = append(out, *span)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].User < out[j].User
	})
	return out
}
