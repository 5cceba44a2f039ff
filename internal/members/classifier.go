package members

import (
	"math"
	"time"

	"github.com/rohankatakam/orgpulse/internal/models"
	"github.com/rohankatakam/orgpulse/internal/normalize"
)

// Score weights and classification thresholds
const (
	ageWeight       = 0.5
	reposWeight     = 3.0
	followersWeight = 20.0

	newAccountDays  = 365
	activeRepos     = 10
	activeFollowers = 10
)

// MaturityScore is 0.5·ln(1+age) + 3·ln(1+repos) + 20·ln(1+followers).
// Negative inputs are clamped to zero.
func MaturityScore(accountAgeDays, publicRepos, followers int) float64 {
	return ageWeight*math.Log1p(float64(nonNegative(accountAgeDays))) +
		reposWeight*math.Log1p(float64(nonNegative(publicRepos))) +
		followersWeight*math.Log1p(float64(nonNegative(followers)))
}

// StatusOf marks a member new when the account is under a year old or when
// it has fewer than 10 public repos and fewer than 10 followers.
func StatusOf(accountAgeDays, publicRepos, followers int) models.MemberStatus {
	if accountAgeDays < newAccountDays || (publicRepos < activeRepos && followers < activeFollowers) {
		return models.StatusNew
	}
	return models.StatusEstablished
}

// Classify derives the analytics row for one member
func Classify(m models.RawMember) models.MemberAnalytics {
	return models.MemberAnalytics{
		Login:         models.CanonicalLogin(m.Login),
		MaturityScore: MaturityScore(m.AccountAgeDays, m.PublicRepos, m.Followers),
		Status:        StatusOf(m.AccountAgeDays, m.PublicRepos, m.Followers),
		PublicRepos:   m.PublicRepos,
		Followers:     m.Followers,
	}
}

// ClassifyAll classifies every member with a login, first occurrence wins
// for logins that collide after case folding.
func ClassifyAll(raw []models.RawMember) []models.MemberAnalytics {
	seen := make(map[string]bool, len(raw))
	out := make([]models.MemberAnalytics, 0, len(raw))
	for _, m := range raw {
		login := models.CanonicalLogin(m.Login)
		if login == "" || seen[login] {
			continue
		}
		seen[login] = true
		out = append(out, Classify(m))
	}
	return out
}

// ResolveAge fills AccountAgeDays from CreatedAt relative to now.
// Members without a parseable CreatedAt keep their existing age.
func ResolveAge(m models.RawMember, now time.Time) models.RawMember {
	created, ok := normalize.ParseTimestamp(m.CreatedAt)
	if !ok {
		m.AccountAgeDays = nonNegative(m.AccountAgeDays)
		return m
	}
	m.AccountAgeDays = nonNegative(int(now.Sub(created).Hours() / 24))
	return m
}

func nonNegative(n int) int {
	if n < 0 {
		return 0
	}
	return n
}
