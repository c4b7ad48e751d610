package memory

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/member"
	"github.com/riskibarqy/ninety-minute/internal/domain/participation"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
)

// Demo identifiers, stable so local tokens can map to them.
const (
	DemoLeaderHomeID = "0190f5a0-0000-7000-8000-000000000001"
	DemoLeaderAwayID = "0190f5a0-0000-7000-8000-000000000002"
	DemoPlayerHomeID = "0190f5a0-0000-7000-8000-000000000003"
	DemoPlayerAwayID = "0190f5a0-0000-7000-8000-000000000004"
	DemoTeamHomeID   = "0190f5a0-0000-7000-8000-0000000000a1"
	DemoTeamAwayID   = "0190f5a0-0000-7000-8000-0000000000a2"
)

func SeedMembers() []member.Member {
	return []member.Member{
		{ID: DemoLeaderHomeID, Nickname: "dimas", Position: ability.PositionMidfielder, OpenTeamID: DemoTeamHomeID},
		{ID: DemoLeaderAwayID, Nickname: "bagas", Position: ability.PositionDefender, OpenTeamID: DemoTeamAwayID},
		{ID: DemoPlayerHomeID, Nickname: "rafi", Position: ability.PositionStriker},
		{ID: DemoPlayerAwayID, Nickname: "yoga", Position: ability.PositionGoalkeeper},
	}
}

func SeedTeams(now time.Time) []team.Team {
	return []team.Team{
		{ID: DemoTeamHomeID, Name: "Kemang Rovers", LeaderID: DemoLeaderHomeID, MainArea: "Jakarta Selatan", MatchSeeking: true, CreatedAt: now, UpdatedAt: now},
		{ID: DemoTeamAwayID, Name: "Senayan United", LeaderID: DemoLeaderAwayID, MainArea: "Jakarta Pusat", MatchSeeking: true, Recruiting: true, CreatedAt: now, UpdatedAt: now},
	}
}

// SeedDemo loads two match-seeking teams with a leader and one approved
// player each.
func SeedDemo(ctx context.Context, tx uow.Transactor, now time.Time) error {
	return tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		abilities := make([]ability.Ability, 0, 4)
		for _, m := range SeedMembers() {
			if err := repos.Members.Create(ctx, m); err != nil {
				return errors.Wrap(err, "seed member")
			}
			abilities = append(abilities, ability.Ability{MemberID: m.ID})
		}
		if err := repos.Abilities.Upsert(ctx, abilities); err != nil {
			return errors.Wrap(err, "seed abilities")
		}

		roster := map[string][]string{
			DemoTeamHomeID: {DemoLeaderHomeID, DemoPlayerHomeID},
			DemoTeamAwayID: {DemoLeaderAwayID, DemoPlayerAwayID},
		}
		for _, t := range SeedTeams(now) {
			if err := repos.Teams.Create(ctx, t); err != nil {
				return errors.Wrap(err, "seed team")
			}
			if err := repos.Teams.UpsertRecord(ctx, team.Record{TeamID: t.ID}); err != nil {
				return errors.Wrap(err, "seed record")
			}
			for _, memberID := range roster[t.ID] {
				p := participation.Participation{TeamID: t.ID, MemberID: memberID, Approved: true, CreatedAt: now, ApprovedAt: now}
				if err := repos.Participations.Create(ctx, p); err != nil {
					return errors.Wrap(err, "seed participation")
				}
			}
		}
		return nil
	})
}
