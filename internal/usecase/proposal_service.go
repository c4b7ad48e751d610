package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/match"
	"github.com/riskibarqy/ninety-minute/internal/domain/proposal"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/platform/id"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxGreetingLength = 200
	maxLocationLength = 120
)

// ProposalService owns the proposal ledger: proposing, approving, rejecting
// and cancelling fixtures between two teams.
type ProposalService struct {
	tx     uow.Transactor
	idGen  id.Generator
	now    func() time.Time
	logger *logging.Logger
}

func NewProposalService(tx uow.Transactor, idGen id.Generator, logger *logging.Logger) *ProposalService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ProposalService{
		tx:     tx,
		idGen:  idGen,
		now:    time.Now,
		logger: logger,
	}
}

type ProposeInput struct {
	ProposingTeamID string
	TargetTeamID    string
	RequesterID     string
	Greeting        string
}

// ProposalSummary is a proposal with the name of the other team.
type ProposalSummary struct {
	Proposal         proposal.Proposal
	CounterpartID    string
	CounterpartName  string
	ScheduledMatchID string
}

func (s *ProposalService) Propose(ctx context.Context, input ProposeInput) (out proposal.Proposal, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.Propose",
		attribute.String("proposer_team_id", input.ProposingTeamID),
		attribute.String("target_team_id", input.TargetTeamID),
	)
	defer func() { endSpan(span, err) }()

	proposerID := strings.TrimSpace(input.ProposingTeamID)
	targetID := strings.TrimSpace(input.TargetTeamID)
	greeting := strings.TrimSpace(input.Greeting)
	if proposerID == "" || targetID == "" {
		return proposal.Proposal{}, errors.Wrap(ErrInvalidInput, "proposing and target team ids are required")
	}
	if proposerID == targetID {
		return proposal.Proposal{}, errors.Wrap(ErrInvalidInput, "a team cannot propose a match to itself")
	}
	if len([]rune(greeting)) > maxGreetingLength {
		return proposal.Proposal{}, errors.Wrapf(ErrInvalidInput, "greeting must be at most %d characters", maxGreetingLength)
	}

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		target, err := loadTeam(ctx, repos, targetID)
		if err != nil {
			return err
		}
		if _, _, err := requireLeader(ctx, repos, input.RequesterID, proposerID); err != nil {
			return err
		}
		if !target.MatchSeeking {
			return errors.Wrapf(ErrPrecondition, "team %s is not seeking matches", target.ID)
		}

		existing, err := repos.Proposals.ListByPair(ctx, proposerID, targetID)
		if err != nil {
			return errors.Wrap(err, "list proposals for pair")
		}
		for _, p := range existing {
			if !p.Ended() {
				return errors.Wrapf(ErrConflict, "proposal %s from %s to %s is still active", p.ID, proposerID, targetID)
			}
		}

		proposalID, err := s.idGen.NewID()
		if err != nil {
			return errors.Wrap(err, "generate proposal id")
		}
		now := s.now().UTC()
		out = proposal.Proposal{
			ID:             proposalID,
			ProposerTeamID: proposerID,
			TargetTeamID:   targetID,
			Greeting:       greeting,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := repos.Proposals.Create(ctx, out); err != nil {
			return errors.Wrap(err, "create proposal")
		}
		return nil
	})
	if err != nil {
		return proposal.Proposal{}, err
	}

	s.logger.InfoContext(ctx, "match proposed",
		"proposal_id", out.ID,
		"proposer_team_id", out.ProposerTeamID,
		"target_team_id", out.TargetTeamID,
	)
	return out, nil
}

type ApproveInput struct {
	ProposalID  string
	RequesterID string
	MatchDate   time.Time
	Location    string
}

// Approve accepts a pending proposal and schedules the match, hosted by the
// target team.
func (s *ProposalService) Approve(ctx context.Context, input ApproveInput) (out match.Scheduled, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.Approve", attribute.String("proposal_id", input.ProposalID))
	defer func() { endSpan(span, err) }()

	proposalID := strings.TrimSpace(input.ProposalID)
	location := strings.TrimSpace(input.Location)
	switch {
	case proposalID == "":
		return match.Scheduled{}, errors.Wrap(ErrInvalidInput, "proposal id is required")
	case input.MatchDate.IsZero():
		return match.Scheduled{}, errors.Wrap(ErrInvalidInput, "match date is required")
	case location == "":
		return match.Scheduled{}, errors.Wrap(ErrInvalidInput, "location is required")
	case len([]rune(location)) > maxLocationLength:
		return match.Scheduled{}, errors.Wrapf(ErrInvalidInput, "location must be at most %d characters", maxLocationLength)
	}

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		p, err := loadProposal(ctx, repos, proposalID)
		if err != nil {
			return err
		}
		host, _, err := requireLeader(ctx, repos, input.RequesterID, p.TargetTeamID)
		if err != nil {
			return err
		}
		if p.Approved {
			return errors.Wrapf(ErrConflict, "proposal %s is already approved", p.ID)
		}
		visitor, err := loadTeam(ctx, repos, p.ProposerTeamID)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		p.Approved = true
		p.UpdatedAt = now
		if err := repos.Proposals.Update(ctx, p); err != nil {
			return errors.Wrap(err, "approve proposal")
		}

		matchID, err := s.idGen.NewID()
		if err != nil {
			return errors.Wrap(err, "generate match id")
		}
		out = match.Scheduled{
			ID:           matchID,
			ProposalID:   p.ID,
			HomeTeamID:   host.ID,
			AwayTeamID:   visitor.ID,
			HomeTeamName: host.Name,
			AwayTeamName: visitor.Name,
			MatchDate:    input.MatchDate.UTC(),
			Location:     location,
			CreatedAt:    now,
		}
		if err := repos.Matches.Create(ctx, out); err != nil {
			return errors.Wrap(err, "create scheduled match")
		}
		return nil
	})
	if err != nil {
		return match.Scheduled{}, err
	}

	s.logger.InfoContext(ctx, "proposal approved",
		"proposal_id", out.ProposalID,
		"match_id", out.ID,
		"match_date", out.MatchDate,
	)
	return out, nil
}

// Reject lets the target team decline a pending proposal.
func (s *ProposalService) Reject(ctx context.Context, proposalID, requesterID string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.Reject", attribute.String("proposal_id", proposalID))
	defer func() { endSpan(span, err) }()

	err = s.deletePending(ctx, proposalID, requesterID, func(p proposal.Proposal) string { return p.TargetTeamID })
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "proposal rejected", "proposal_id", proposalID)
	return nil
}

// Withdraw lets the proposing team take back a pending proposal.
func (s *ProposalService) Withdraw(ctx context.Context, proposalID, requesterID string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.Withdraw", attribute.String("proposal_id", proposalID))
	defer func() { endSpan(span, err) }()

	err = s.deletePending(ctx, proposalID, requesterID, func(p proposal.Proposal) string { return p.ProposerTeamID })
	if err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "proposal withdrawn", "proposal_id", proposalID)
	return nil
}

func (s *ProposalService) deletePending(ctx context.Context, proposalID, requesterID string, owner func(proposal.Proposal) string) error {
	return s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		p, err := loadProposal(ctx, repos, proposalID)
		if err != nil {
			return err
		}
		if _, _, err := requireLeader(ctx, repos, requesterID, owner(p)); err != nil {
			return err
		}
		if p.Approved {
			return errors.Wrapf(ErrPrecondition, "proposal %s is already approved; cancel the scheduled match instead", p.ID)
		}
		if err := repos.Proposals.Delete(ctx, p.ID); err != nil {
			return errors.Wrap(err, "delete proposal")
		}
		return nil
	})
}

// Cancel calls off a scheduled match. The match, its lineups, any
// unconfirmed result and the backing proposal are removed together.
func (s *ProposalService) Cancel(ctx context.Context, matchID, requesterID string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.Cancel", attribute.String("match_id", matchID))
	defer func() { endSpan(span, err) }()

	var cancelled match.Scheduled
	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, err := loadMatch(ctx, repos, matchID)
		if err != nil {
			return err
		}
		if _, _, err := requireSideLeader(ctx, repos, requesterID, m); err != nil {
			return err
		}

		res, ok, err := repos.Results.GetByMatchID(ctx, m.ID)
		if err != nil {
			return errors.Wrap(err, "get match result")
		}
		if ok {
			if res.Confirmed {
				return errors.Wrapf(ErrPrecondition, "match %s already has a confirmed score", m.ID)
			}
			if err := repos.Results.Delete(ctx, res.ID); err != nil {
				return errors.Wrap(err, "delete unconfirmed result")
			}
		}
		if err := repos.Lineups.DeleteByMatch(ctx, m.ID); err != nil {
			return errors.Wrap(err, "delete lineups")
		}
		if err := repos.Matches.Delete(ctx, m.ID); err != nil {
			return errors.Wrap(err, "delete scheduled match")
		}
		if err := repos.Proposals.Delete(ctx, m.ProposalID); err != nil {
			return errors.Wrap(err, "delete proposal")
		}
		cancelled = m
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "scheduled match cancelled",
		"match_id", cancelled.ID,
		"proposal_id", cancelled.ProposalID,
		"requester_id", requesterID,
	)
	return nil
}

// ListIncoming returns proposals addressed to the team, oldest first.
func (s *ProposalService) ListIncoming(ctx context.Context, teamID, requesterID string) ([]ProposalSummary, error) {
	return s.list(ctx, teamID, requesterID, true)
}

// ListOutgoing returns proposals sent by the team, oldest first.
func (s *ProposalService) ListOutgoing(ctx context.Context, teamID, requesterID string) ([]ProposalSummary, error) {
	return s.list(ctx, teamID, requesterID, false)
}

func (s *ProposalService) list(ctx context.Context, teamID, requesterID string, incoming bool) (out []ProposalSummary, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ProposalService.list",
		attribute.String("team_id", teamID),
		attribute.Bool("incoming", incoming),
	)
	defer func() { endSpan(span, err) }()

	err = s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, _, err := requireLeader(ctx, repos, requesterID, teamID)
		if err != nil {
			return err
		}

		var items []proposal.Proposal
		if incoming {
			items, err = repos.Proposals.ListByTarget(ctx, t.ID)
		} else {
			items, err = repos.Proposals.ListByProposer(ctx, t.ID)
		}
		if err != nil {
			return errors.Wrap(err, "list proposals")
		}

		counterpartIDs := make([]string, 0, len(items))
		for _, p := range items {
			if incoming {
				counterpartIDs = append(counterpartIDs, p.ProposerTeamID)
			} else {
				counterpartIDs = append(counterpartIDs, p.TargetTeamID)
			}
		}
		teams, err := repos.Teams.GetByIDs(ctx, counterpartIDs)
		if err != nil {
			return errors.Wrap(err, "get counterpart teams")
		}
		names := make(map[string]string, len(teams))
		for _, ct := range teams {
			names[ct.ID] = ct.Name
		}

		out = make([]ProposalSummary, 0, len(items))
		for i, p := range items {
			summary := ProposalSummary{
				Proposal:        p,
				CounterpartID:   counterpartIDs[i],
				CounterpartName: names[counterpartIDs[i]],
			}
			if p.Approved {
				m, ok, err := repos.Matches.GetByProposalID(ctx, p.ID)
				if err != nil {
					return errors.Wrap(err, "get scheduled match")
				}
				if ok {
					summary.ScheduledMatchID = m.ID
				}
			}
			out = append(out, summary)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func loadProposal(ctx context.Context, repos uow.Repositories, proposalID string) (proposal.Proposal, error) {
	proposalID = strings.TrimSpace(proposalID)
	if proposalID == "" {
		return proposal.Proposal{}, errors.Wrap(ErrInvalidInput, "proposal id is required")
	}
	p, ok, err := repos.Proposals.GetByID(ctx, proposalID)
	if err != nil {
		return proposal.Proposal{}, errors.Wrapf(err, "get proposal %s", proposalID)
	}
	if !ok {
		return proposal.Proposal{}, errors.Wrapf(ErrNotFound, "proposal %s", proposalID)
	}
	return p, nil
}
