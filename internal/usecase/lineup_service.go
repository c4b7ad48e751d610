package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/platform/id"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const maxLineupEntries = 30

type LineupService struct {
	tx     uow.Transactor
	idGen  id.Generator
	logger *logging.Logger
}

func NewLineupService(tx uow.Transactor, idGen id.Generator, logger *logging.Logger) *LineupService {
	if logger == nil {
		logger = logging.Default()
	}

	return &LineupService{
		tx:     tx,
		idGen:  idGen,
		logger: logger,
	}
}

// EntryInput names either a registered member or an anonymous guest.
type EntryInput struct {
	MemberID  string
	Anonymous bool
	Position  string
}

type SetLineupInput struct {
	MatchID     string
	TeamID      string
	RequesterID string
	Entries     []EntryInput
}

// SetLineup replaces the field lineup of one team for a match.
func (s *LineupService) SetLineup(ctx context.Context, input SetLineupInput) (out []lineup.Entry, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.LineupService.SetLineup",
		attribute.String("match_id", input.MatchID),
		attribute.String("team_id", input.TeamID),
	)
	defer func() { endSpan(span, err) }()

	matchID := strings.TrimSpace(input.MatchID)
	teamID := strings.TrimSpace(input.TeamID)
	if teamID == "" {
		return nil, errors.Wrap(ErrInvalidInput, "team id is required")
	}
	if len(input.Entries) == 0 {
		return nil, errors.Wrap(ErrInvalidInput, "lineup needs at least one entry")
	}
	if len(input.Entries) > maxLineupEntries {
		return nil, errors.Wrapf(ErrInvalidInput, "lineup has more than %d entries", maxLineupEntries)
	}
	drafts, err := draftEntries(input.Entries, lineup.SlotField)
	if err != nil {
		return nil, err
	}

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, err := loadMatch(ctx, repos, matchID)
		if err != nil {
			return err
		}
		if !m.Involves(teamID) {
			return errors.Wrapf(ErrInvalidInput, "team %s does not play in match %s", teamID, m.ID)
		}
		if _, _, err := requireLeader(ctx, repos, input.RequesterID, teamID); err != nil {
			return err
		}

		res, ok, err := repos.Results.GetByMatchID(ctx, m.ID)
		if err != nil {
			return errors.Wrap(err, "get match result")
		}
		if ok && res.Settled {
			return errors.Wrapf(ErrPrecondition, "match %s is already settled", m.ID)
		}

		for _, memberID := range lineup.RegisteredMemberIDs(drafts) {
			if _, err := requireApprovedMember(ctx, repos, teamID, memberID); err != nil {
				return err
			}
		}

		out = make([]lineup.Entry, 0, len(drafts))
		for _, e := range drafts {
			e.ID, err = s.idGen.NewID()
			if err != nil {
				return errors.Wrap(err, "generate lineup entry id")
			}
			e.MatchID = m.ID
			e.TeamID = teamID
			out = append(out, e)
		}
		if err := repos.Lineups.ReplaceField(ctx, m.ID, teamID, out); err != nil {
			return errors.Wrap(err, "replace field lineup")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.InfoContext(ctx, "lineup saved",
		"match_id", matchID,
		"team_id", teamID,
		"entries", len(out),
	)
	return out, nil
}

// draftEntries validates raw entries into lineup entries without ids.
func draftEntries(inputs []EntryInput, slot lineup.Slot) ([]lineup.Entry, error) {
	out := make([]lineup.Entry, 0, len(inputs))
	for i, in := range inputs {
		position, err := ability.ParsePosition(strings.ToLower(strings.TrimSpace(in.Position)))
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidInput, "entry %d: %v", i, err)
		}

		memberID := strings.TrimSpace(in.MemberID)
		var player lineup.Player
		switch {
		case in.Anonymous && memberID != "":
			return nil, errors.Wrapf(ErrInvalidInput, "entry %d: anonymous entries cannot name a member", i)
		case in.Anonymous:
			player = lineup.Anonymous{}
		case memberID != "":
			player = lineup.Registered{MemberID: memberID}
		default:
			return nil, errors.Wrapf(ErrInvalidInput, "entry %d: member id or anonymous flag is required", i)
		}

		out = append(out, lineup.Entry{Slot: slot, Position: position, Player: player})
	}

	if err := lineup.ValidateSet(out); err != nil {
		return nil, errors.Wrapf(ErrInvalidInput, "%v", err)
	}
	return out, nil
}
