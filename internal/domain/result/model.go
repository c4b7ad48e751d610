package result

import "time"

// Stage is the position of a match in the settlement workflow.
type Stage string

const (
	StageScheduled      Stage = "scheduled"
	StageScoreReported  Stage = "score_reported"
	StageScoreConfirmed Stage = "score_confirmed"
	StageSettled        Stage = "settled"
)

// MatchResult is the score of a match as reported by one side. Score is the
// reporting team's goals.
type MatchResult struct {
	ID                string
	MatchID           string
	ReportingTeamID   string
	Score             int
	OpponentScore     int
	MVPNickname       string
	MoodMakerNickname string
	Confirmed         bool
	Settled           bool
	ConfirmedAt       time.Time
	SettledAt         time.Time
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (r MatchResult) Stage() Stage {
	switch {
	case r.ID == "":
		return StageScheduled
	case r.Settled:
		return StageSettled
	case r.Confirmed:
		return StageScoreConfirmed
	default:
		return StageScoreReported
	}
}

// ScoresFor maps the reported score onto home/away sides.
func (r MatchResult) ScoresFor(homeTeamID string) (home, away int) {
	if r.ReportingTeamID == homeTeamID {
		return r.Score, r.OpponentScore
	}
	return r.OpponentScore, r.Score
}

// Scorer credits one goal to a lineup entry, or to nobody when EntryID is
// empty.
type Scorer struct {
	ID       string
	ResultID string
	EntryID  string
}

func (s Scorer) Anonymous() bool {
	return s.EntryID == ""
}
