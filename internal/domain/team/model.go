package team

import (
	"strings"
	"time"

	"github.com/cockroachdb/errors"
)

const MaxNameLength = 30

// Team is an amateur squad led by exactly one member.
type Team struct {
	ID              string
	Name            string
	LeaderID        string
	Introduce       string
	MainArea        string
	Recruiting      bool
	RecruitQuestion string
	MatchSeeking    bool
	Deleted         bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

func (t Team) Validate() error {
	if t.ID == "" {
		return errors.New("team id is required")
	}
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return errors.New("team name is required")
	}
	if len([]rune(name)) > MaxNameLength {
		return errors.Newf("team name must be at most %d characters", MaxNameLength)
	}
	if t.LeaderID == "" {
		return errors.New("team leader is required")
	}

	return nil
}

// Active reports whether the team can take part in new activity.
func (t Team) Active() bool {
	return t.ID != "" && !t.Deleted
}

// NormalizeName is the key used for case-insensitive name uniqueness.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
