package usecase

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/history"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	"github.com/riskibarqy/ninety-minute/internal/domain/match"
	"github.com/riskibarqy/ninety-minute/internal/domain/proposal"
	"github.com/riskibarqy/ninety-minute/internal/domain/result"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type MatchService struct {
	tx     uow.Transactor
	now    func() time.Time
	logger *logging.Logger
}

func NewMatchService(tx uow.Transactor, logger *logging.Logger) *MatchService {
	if logger == nil {
		logger = logging.Default()
	}

	return &MatchService{
		tx:     tx,
		now:    time.Now,
		logger: logger,
	}
}

// ScheduledSummary is one row of a team's fixture list.
type ScheduledSummary struct {
	Match        match.Scheduled
	OpponentID   string
	OpponentName string
	Home         bool
	DaysUntil    int
	Stage        result.Stage
}

// MatchDetail is the full view of a fixture for one of its members.
type MatchDetail struct {
	Match           match.Scheduled
	Stage           result.Stage
	DaysUntil       int
	RequesterTeamID string
	RequesterLeads  bool
	HomeRecord      team.Record
	AwayRecord      team.Record
	Result          *result.MatchResult
	HomeLineup      []lineup.Entry
	AwayLineup      []lineup.Entry
}

// ListScheduled lists the fixtures of a team for one of its approved members.
func (s *MatchService) ListScheduled(ctx context.Context, teamID, requesterID string) (out []ScheduledSummary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.ListScheduled", attribute.String("team_id", teamID))
	defer func() { endSpan(span, err) }()

	err = s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, err := loadTeam(ctx, repos, teamID)
		if err != nil {
			return err
		}
		requester, err := loadRequester(ctx, repos, requesterID)
		if err != nil {
			return err
		}
		approved, err := isApprovedMember(ctx, repos, t.ID, requester.ID)
		if err != nil {
			return err
		}
		if !approved {
			return errors.Wrapf(ErrForbidden, "member %s is not a member of team %s", requester.ID, t.ID)
		}

		matches, err := repos.Matches.ListByTeam(ctx, t.ID)
		if err != nil {
			return errors.Wrap(err, "list scheduled matches")
		}

		now := s.now()
		out = make([]ScheduledSummary, 0, len(matches))
		for _, m := range matches {
			res, _, err := repos.Results.GetByMatchID(ctx, m.ID)
			if err != nil {
				return errors.Wrap(err, "get match result")
			}
			row := ScheduledSummary{
				Match:      m,
				OpponentID: m.OpponentOf(t.ID),
				Home:       m.HomeTeamID == t.ID,
				DaysUntil:  m.DaysUntil(now),
				Stage:      res.Stage(),
			}
			row.OpponentName = m.HomeTeamName
			if row.Home {
				row.OpponentName = m.AwayTeamName
			}
			out = append(out, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetScheduled returns the detail of a match to an approved member of either
// side.
func (s *MatchService) GetScheduled(ctx context.Context, matchID, requesterID string) (out MatchDetail, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.GetScheduled", attribute.String("match_id", matchID))
	defer func() { endSpan(span, err) }()

	err = s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, err := loadMatch(ctx, repos, matchID)
		if err != nil {
			return err
		}
		requester, err := loadRequester(ctx, repos, requesterID)
		if err != nil {
			return err
		}

		for _, side := range []string{m.HomeTeamID, m.AwayTeamID} {
			approved, err := isApprovedMember(ctx, repos, side, requester.ID)
			if err != nil {
				return err
			}
			if approved {
				out.RequesterTeamID = side
				break
			}
		}
		if out.RequesterTeamID == "" {
			return errors.Wrapf(ErrForbidden, "member %s plays for neither side of match %s", requester.ID, m.ID)
		}
		if requester.Leads(out.RequesterTeamID) {
			t, ok, err := repos.Teams.GetByID(ctx, out.RequesterTeamID)
			if err != nil {
				return errors.Wrap(err, "get requester team")
			}
			out.RequesterLeads = ok && isLeader(requester, t)
		}

		out.Match = m
		out.DaysUntil = m.DaysUntil(s.now())
		out.HomeRecord, err = recordOf(ctx, repos, m.HomeTeamID)
		if err != nil {
			return err
		}
		out.AwayRecord, err = recordOf(ctx, repos, m.AwayTeamID)
		if err != nil {
			return err
		}

		res, ok, err := repos.Results.GetByMatchID(ctx, m.ID)
		if err != nil {
			return errors.Wrap(err, "get match result")
		}
		out.Stage = res.Stage()
		if ok {
			out.Result = &res
		}

		out.HomeLineup, err = repos.Lineups.ListByMatchAndTeam(ctx, m.ID, m.HomeTeamID)
		if err != nil {
			return errors.Wrap(err, "list home lineup")
		}
		out.AwayLineup, err = repos.Lineups.ListByMatchAndTeam(ctx, m.ID, m.AwayTeamID)
		if err != nil {
			return errors.Wrap(err, "list away lineup")
		}
		return nil
	})
	if err != nil {
		return MatchDetail{}, err
	}
	return out, nil
}

// AcknowledgeEnd records that one side's leader considers the match over.
// Once both sides acknowledged, the pair may propose again.
func (s *MatchService) AcknowledgeEnd(ctx context.Context, matchID, requesterID string) (out proposal.Proposal, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.AcknowledgeEnd", attribute.String("match_id", matchID))
	defer func() { endSpan(span, err) }()

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, err := loadMatch(ctx, repos, matchID)
		if err != nil {
			return err
		}
		t, _, err := requireSideLeader(ctx, repos, requesterID, m)
		if err != nil {
			return err
		}
		out, err = loadProposal(ctx, repos, m.ProposalID)
		if err != nil {
			return err
		}

		if t.ID == m.HomeTeamID {
			out.TargetEndRequested = true
		} else {
			out.ProposerEndRequested = true
		}
		out.UpdatedAt = s.now().UTC()
		if err := repos.Proposals.Update(ctx, out); err != nil {
			return errors.Wrap(err, "update proposal end flags")
		}
		return nil
	})
	if err != nil {
		return proposal.Proposal{}, err
	}

	s.logger.InfoContext(ctx, "match end acknowledged",
		"match_id", matchID,
		"proposal_id", out.ID,
		"ended", out.Ended(),
	)
	return out, nil
}

// TeamHistory lists archived matches of a team, newest first.
func (s *MatchService) TeamHistory(ctx context.Context, teamID string, limit int) (out []history.History, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.TeamHistory", attribute.String("team_id", teamID))
	defer func() { endSpan(span, err) }()

	err = s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, err := loadTeam(ctx, repos, teamID)
		if err != nil {
			return err
		}
		out, err = repos.Histories.ListByTeam(ctx, t.ID, limit)
		if err != nil {
			return errors.Wrap(err, "list team history")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func recordOf(ctx context.Context, repos uow.Repositories, teamID string) (team.Record, error) {
	rec, ok, err := repos.Teams.GetRecord(ctx, teamID)
	if err != nil {
		return team.Record{}, errors.Wrapf(err, "get record of team %s", teamID)
	}
	if !ok {
		rec = team.Record{TeamID: teamID}
	}
	return rec, nil
}
