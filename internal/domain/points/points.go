// Package points turns a settled match into record and ability deltas. It
// holds no state and performs no I/O.
package points

import (
	"slices"

	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
)

// Participant is one lineup entry reduced to what scoring needs. MemberID is
// empty for anonymous players.
type Participant struct {
	MemberID string
	Position ability.Position
}

// Side is one team's part of the match.
type Side struct {
	TeamID       string
	Score        int
	Participants []Participant
}

// Outcome is the full input of a settlement.
type Outcome struct {
	Home              Side
	Away              Side
	MVPMemberID       string
	MoodMakerMemberID string
}

// Deltas is the settlement output keyed by team id and member id.
type Deltas struct {
	Records   map[string]team.RecordDelta
	Abilities map[string]ability.Delta
}

// MemberIDs lists every member with a non-zero ability delta, sorted.
func (d Deltas) MemberIDs() []string {
	out := make([]string, 0, len(d.Abilities))
	for id, delta := range d.Abilities {
		if !delta.IsZero() {
			out = append(out, id)
		}
	}
	slices.Sort(out)
	return out
}

// Compute applies the scoring rules:
//   - both teams play one more game; the strict winner gains a win and the
//     loser a loss, equal scores give both a draw;
//   - every registered participant of the winner gains one point in the
//     position declared on their entry; draws and losses earn nothing;
//   - the MVP gains one MVP point and the mood maker one charm point.
func Compute(o Outcome) Deltas {
	out := Deltas{
		Records:   make(map[string]team.RecordDelta, 2),
		Abilities: make(map[string]ability.Delta),
	}

	var winner *Side
	switch {
	case o.Home.Score > o.Away.Score:
		winner = &o.Home
		out.Records[o.Home.TeamID] = team.RecordDelta{Games: 1, Wins: 1}
		out.Records[o.Away.TeamID] = team.RecordDelta{Games: 1, Loses: 1}
	case o.Home.Score < o.Away.Score:
		winner = &o.Away
		out.Records[o.Home.TeamID] = team.RecordDelta{Games: 1, Loses: 1}
		out.Records[o.Away.TeamID] = team.RecordDelta{Games: 1, Wins: 1}
	default:
		out.Records[o.Home.TeamID] = team.RecordDelta{Games: 1, Draws: 1}
		out.Records[o.Away.TeamID] = team.RecordDelta{Games: 1, Draws: 1}
	}

	if winner != nil {
		for _, p := range winner.Participants {
			out.award(p.MemberID, ability.PositionDelta(p.Position))
		}
	}
	out.award(o.MVPMemberID, ability.Delta{MVP: 1})
	out.award(o.MoodMakerMemberID, ability.Delta{Charm: 1})

	return out
}

func (d Deltas) award(memberID string, delta ability.Delta) {
	if memberID == "" || delta.IsZero() {
		return
	}
	d.Abilities[memberID] = d.Abilities[memberID].Add(delta)
}

// ParticipantsOf converts lineup entries of one team.
func ParticipantsOf(entries []lineup.Entry) []Participant {
	out := make([]Participant, 0, len(entries))
	for _, e := range entries {
		memberID, _ := lineup.MemberIDOf(e.Player)
		out = append(out, Participant{MemberID: memberID, Position: e.Position})
	}
	return out
}
