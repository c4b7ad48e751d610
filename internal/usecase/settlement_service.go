package usecase

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/ability"
	"github.com/riskibarqy/ninety-minute/internal/domain/history"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	"github.com/riskibarqy/ninety-minute/internal/domain/match"
	"github.com/riskibarqy/ninety-minute/internal/domain/points"
	"github.com/riskibarqy/ninety-minute/internal/domain/result"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/platform/id"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const maxScore = 99

// RankingInvalidator drops cached rankings after points change.
type RankingInvalidator interface {
	Invalidate(ctx context.Context)
}

// SettlementService drives a match from score report to archived result:
// scheduled, score reported, score confirmed, settled.
type SettlementService struct {
	tx          uow.Transactor
	idGen       id.Generator
	invalidator RankingInvalidator
	now         func() time.Time
	logger      *logging.Logger
}

func NewSettlementService(tx uow.Transactor, idGen id.Generator, invalidator RankingInvalidator, logger *logging.Logger) *SettlementService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SettlementService{
		tx:          tx,
		idGen:       idGen,
		invalidator: invalidator,
		now:         time.Now,
		logger:      logger,
	}
}

type ScoreInput struct {
	MatchID       string
	RequesterID   string
	Score         int
	OpponentScore int
}

func (in ScoreInput) validate() error {
	if in.Score < 0 || in.OpponentScore < 0 {
		return errors.Wrap(ErrInvalidInput, "scores cannot be negative")
	}
	if in.Score > maxScore || in.OpponentScore > maxScore {
		return errors.Wrapf(ErrInvalidInput, "scores cannot exceed %d", maxScore)
	}
	return nil
}

// ReportScore stores the first score report of a match. The requester's team
// becomes the reporting team and Score is its own goals.
func (s *SettlementService) ReportScore(ctx context.Context, input ScoreInput) (out result.MatchResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.ReportScore", attribute.String("match_id", input.MatchID))
	defer func() { endSpan(span, err) }()

	if err := input.validate(); err != nil {
		return result.MatchResult{}, err
	}

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, err := loadMatch(ctx, repos, input.MatchID)
		if err != nil {
			return err
		}
		reporter, _, err := requireSideLeader(ctx, repos, input.RequesterID, m)
		if err != nil {
			return err
		}

		if existing, ok, err := repos.Results.GetByMatchID(ctx, m.ID); err != nil {
			return errors.Wrap(err, "get match result")
		} else if ok {
			return errors.Wrapf(ErrConflict, "match %s already has a score reported by team %s", m.ID, existing.ReportingTeamID)
		}

		resultID, err := s.idGen.NewID()
		if err != nil {
			return errors.Wrap(err, "generate result id")
		}
		now := s.now().UTC()
		out = result.MatchResult{
			ID:              resultID,
			MatchID:         m.ID,
			ReportingTeamID: reporter.ID,
			Score:           input.Score,
			OpponentScore:   input.OpponentScore,
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := repos.Results.Create(ctx, out); err != nil {
			return errors.Wrap(err, "create match result")
		}
		return nil
	})
	if err != nil {
		return result.MatchResult{}, err
	}

	s.logger.InfoContext(ctx, "score reported",
		"match_id", out.MatchID,
		"reporting_team_id", out.ReportingTeamID,
		"score", out.Score,
		"opponent_score", out.OpponentScore,
	)
	return out, nil
}

// CorrectScore overwrites an unconfirmed report.
func (s *SettlementService) CorrectScore(ctx context.Context, input ScoreInput) (out result.MatchResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.CorrectScore", attribute.String("match_id", input.MatchID))
	defer func() { endSpan(span, err) }()

	if err := input.validate(); err != nil {
		return result.MatchResult{}, err
	}

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		_, res, err := s.loadReportedResult(ctx, repos, input.MatchID, input.RequesterID)
		if err != nil {
			return err
		}
		if res.Confirmed {
			return errors.Wrapf(ErrPrecondition, "score of match %s is already confirmed", res.MatchID)
		}

		res.Score = input.Score
		res.OpponentScore = input.OpponentScore
		res.UpdatedAt = s.now().UTC()
		if err := repos.Results.Update(ctx, res); err != nil {
			return errors.Wrap(err, "update match result")
		}
		out = res
		return nil
	})
	if err != nil {
		return result.MatchResult{}, err
	}

	s.logger.InfoContext(ctx, "score corrected",
		"match_id", out.MatchID,
		"score", out.Score,
		"opponent_score", out.OpponentScore,
	)
	return out, nil
}

// ConfirmScore freezes the reported score.
func (s *SettlementService) ConfirmScore(ctx context.Context, matchID, requesterID string) (out result.MatchResult, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.ConfirmScore", attribute.String("match_id", matchID))
	defer func() { endSpan(span, err) }()

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		_, res, err := s.loadReportedResult(ctx, repos, matchID, requesterID)
		if err != nil {
			return err
		}
		if res.Confirmed {
			return errors.Wrapf(ErrPrecondition, "score of match %s is already confirmed", res.MatchID)
		}

		now := s.now().UTC()
		res.Confirmed = true
		res.ConfirmedAt = now
		res.UpdatedAt = now
		if err := repos.Results.Update(ctx, res); err != nil {
			return errors.Wrap(err, "confirm match result")
		}
		out = res
		return nil
	})
	if err != nil {
		return result.MatchResult{}, err
	}

	s.logger.InfoContext(ctx, "score confirmed", "match_id", out.MatchID, "result_id", out.ID)
	return out, nil
}

// loadReportedResult resolves the match and its report, and checks that the
// requester leads the reporting team.
func (s *SettlementService) loadReportedResult(ctx context.Context, repos uow.Repositories, matchID, requesterID string) (match.Scheduled, result.MatchResult, error) {
	m, err := loadMatch(ctx, repos, matchID)
	if err != nil {
		return match.Scheduled{}, result.MatchResult{}, err
	}
	side, _, err := requireSideLeader(ctx, repos, requesterID, m)
	if err != nil {
		return match.Scheduled{}, result.MatchResult{}, err
	}

	res, ok, err := repos.Results.GetByMatchID(ctx, m.ID)
	if err != nil {
		return match.Scheduled{}, result.MatchResult{}, errors.Wrap(err, "get match result")
	}
	if !ok {
		return match.Scheduled{}, result.MatchResult{}, errors.Wrapf(ErrPrecondition, "no score has been reported for match %s", m.ID)
	}
	if res.ReportingTeamID != side.ID {
		return match.Scheduled{}, result.MatchResult{}, errors.Wrapf(ErrForbidden, "only the leader of reporting team %s may change the score", res.ReportingTeamID)
	}
	return m, res, nil
}

type ScorerInput struct {
	MemberID  string
	Anonymous bool
}

type RecordResultInput struct {
	MatchID           string
	RequesterID       string
	Scorers           []ScorerInput
	Substitutes       []EntryInput
	MVPMemberID       string
	MoodMakerMemberID string
}

// Settlement is everything one RecordResult call wrote.
type Settlement struct {
	Result      result.MatchResult
	History     history.History
	Substitutes []lineup.Entry
	Scorers     []result.Scorer
	Records     map[string]team.Record
	Deltas      points.Deltas
}

// RecordResult settles a confirmed match exactly once: substitutes and
// scorers are stored, MVP and mood maker are credited, records and abilities
// move by the points model and the match is archived.
func (s *SettlementService) RecordResult(ctx context.Context, input RecordResultInput) (out Settlement, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SettlementService.RecordResult", attribute.String("match_id", input.MatchID))
	defer func() { endSpan(span, err) }()

	mvpID := strings.TrimSpace(input.MVPMemberID)
	moodMakerID := strings.TrimSpace(input.MoodMakerMemberID)
	if mvpID == "" || moodMakerID == "" {
		return Settlement{}, errors.Wrap(ErrInvalidInput, "mvp and mood maker are required")
	}
	for i, sc := range input.Scorers {
		hasMember := strings.TrimSpace(sc.MemberID) != ""
		if hasMember == sc.Anonymous {
			return Settlement{}, errors.Wrapf(ErrInvalidInput, "scorer %d needs exactly one of member id or anonymous flag", i)
		}
	}
	var subDrafts []lineup.Entry
	if len(input.Substitutes) > 0 {
		if len(input.Substitutes) > maxLineupEntries {
			return Settlement{}, errors.Wrapf(ErrInvalidInput, "more than %d substitutes", maxLineupEntries)
		}
		subDrafts, err = draftEntries(input.Substitutes, lineup.SlotSubstitute)
		if err != nil {
			return Settlement{}, err
		}
	}

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		m, err := loadMatch(ctx, repos, input.MatchID)
		if err != nil {
			return err
		}
		side, _, err := requireSideLeader(ctx, repos, input.RequesterID, m)
		if err != nil {
			return err
		}

		res, ok, err := repos.Results.GetByMatchID(ctx, m.ID)
		if err != nil {
			return errors.Wrap(err, "get match result")
		}
		switch {
		case !ok:
			return errors.Wrapf(ErrPrecondition, "no score has been reported for match %s", m.ID)
		case res.ReportingTeamID != side.ID:
			return errors.Wrapf(ErrForbidden, "only the leader of reporting team %s may record the result", res.ReportingTeamID)
		case res.Settled:
			return errors.Wrapf(ErrPrecondition, "match %s is already settled", m.ID)
		case !res.Confirmed:
			return errors.Wrapf(ErrPrecondition, "score of match %s is not confirmed", m.ID)
		}

		field, err := fieldEntries(ctx, repos, m.ID, side.ID)
		if err != nil {
			return err
		}
		if len(field) == 0 {
			return errors.Wrapf(ErrPrecondition, "team %s has no lineup for match %s", side.ID, m.ID)
		}

		mvp, err := requireApprovedMember(ctx, repos, side.ID, mvpID)
		if err != nil {
			return err
		}
		moodMaker, err := requireApprovedMember(ctx, repos, side.ID, moodMakerID)
		if err != nil {
			return err
		}

		subs, err := s.persistSubstitutes(ctx, repos, res, side.ID, field, subDrafts)
		if err != nil {
			return err
		}
		reporting := append(append([]lineup.Entry(nil), field...), subs...)

		scorers, err := s.persistScorers(ctx, repos, res.ID, reporting, input.Scorers)
		if err != nil {
			return err
		}

		now := s.now().UTC()
		res.MVPNickname = mvp.Nickname
		res.MoodMakerNickname = moodMaker.Nickname
		res.Settled = true
		res.SettledAt = now
		res.UpdatedAt = now
		if err := repos.Results.Update(ctx, res); err != nil {
			return errors.Wrap(err, "settle match result")
		}

		opponentID := m.OpponentOf(side.ID)
		opponent, err := repos.Lineups.ListByMatchAndTeam(ctx, m.ID, opponentID)
		if err != nil {
			return errors.Wrap(err, "list opponent lineup")
		}
		homeScore, awayScore := res.ScoresFor(m.HomeTeamID)
		homeEntries, awayEntries := reporting, opponent
		if side.ID != m.HomeTeamID {
			homeEntries, awayEntries = opponent, reporting
		}
		deltas := points.Compute(points.Outcome{
			Home:              points.Side{TeamID: m.HomeTeamID, Score: homeScore, Participants: points.ParticipantsOf(homeEntries)},
			Away:              points.Side{TeamID: m.AwayTeamID, Score: awayScore, Participants: points.ParticipantsOf(awayEntries)},
			MVPMemberID:       mvp.ID,
			MoodMakerMemberID: moodMaker.ID,
		})

		records, err := applyRecordDeltas(ctx, repos, deltas)
		if err != nil {
			return err
		}
		if err := applyAbilityDeltas(ctx, repos, deltas); err != nil {
			return err
		}

		historyID, err := s.idGen.NewID()
		if err != nil {
			return errors.Wrap(err, "generate history id")
		}
		archived := history.History{
			ID:         historyID,
			MatchID:    m.ID,
			ResultID:   res.ID,
			HomeTeamID: m.HomeTeamID,
			AwayTeamID: m.AwayTeamID,
			HomeScore:  homeScore,
			AwayScore:  awayScore,
			MatchDate:  m.MatchDate,
			CreatedAt:  now,
		}
		if err := repos.Histories.Create(ctx, archived); err != nil {
			return errors.Wrap(err, "archive match")
		}

		out = Settlement{
			Result:      res,
			History:     archived,
			Substitutes: subs,
			Scorers:     scorers,
			Records:     records,
			Deltas:      deltas,
		}
		return nil
	})
	if err != nil {
		return Settlement{}, err
	}

	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx)
	}
	s.logger.InfoContext(ctx, "match settled",
		"match_id", out.Result.MatchID,
		"result_id", out.Result.ID,
		"history_id", out.History.ID,
		"home_score", out.History.HomeScore,
		"away_score", out.History.AwayScore,
		"members_credited", len(out.Deltas.Abilities),
	)
	return out, nil
}

func fieldEntries(ctx context.Context, repos uow.Repositories, matchID, teamID string) ([]lineup.Entry, error) {
	entries, err := repos.Lineups.ListByMatchAndTeam(ctx, matchID, teamID)
	if err != nil {
		return nil, errors.Wrap(err, "list lineup")
	}
	out := entries[:0:0]
	for _, e := range entries {
		if e.Slot == lineup.SlotField {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *SettlementService) persistSubstitutes(ctx context.Context, repos uow.Repositories, res result.MatchResult, teamID string, field, drafts []lineup.Entry) ([]lineup.Entry, error) {
	if len(drafts) == 0 {
		return nil, nil
	}

	onField := make(map[string]struct{}, len(field))
	for _, id := range lineup.RegisteredMemberIDs(field) {
		onField[id] = struct{}{}
	}

	out := make([]lineup.Entry, 0, len(drafts))
	for _, e := range drafts {
		if memberID, ok := lineup.MemberIDOf(e.Player); ok {
			if _, dup := onField[memberID]; dup {
				return nil, errors.Wrapf(ErrInvalidInput, "member %s is already in the field lineup", memberID)
			}
			if _, err := requireApprovedMember(ctx, repos, teamID, memberID); err != nil {
				return nil, err
			}
		}

		entryID, err := s.idGen.NewID()
		if err != nil {
			return nil, errors.Wrap(err, "generate substitute id")
		}
		e.ID = entryID
		e.MatchID = res.MatchID
		e.TeamID = teamID
		e.ResultID = res.ID
		out = append(out, e)
	}
	if err := repos.Lineups.CreateSubstitutes(ctx, out); err != nil {
		return nil, errors.Wrap(err, "create substitutes")
	}
	return out, nil
}

// persistScorers resolves each scorer to the lineup entry of that member.
func (s *SettlementService) persistScorers(ctx context.Context, repos uow.Repositories, resultID string, entries []lineup.Entry, inputs []ScorerInput) ([]result.Scorer, error) {
	if len(inputs) == 0 {
		return nil, nil
	}

	entryByMember := make(map[string]string, len(entries))
	for _, e := range entries {
		if memberID, ok := lineup.MemberIDOf(e.Player); ok {
			entryByMember[memberID] = e.ID
		}
	}

	out := make([]result.Scorer, 0, len(inputs))
	for _, in := range inputs {
		scorerID, err := s.idGen.NewID()
		if err != nil {
			return nil, errors.Wrap(err, "generate scorer id")
		}
		sc := result.Scorer{ID: scorerID, ResultID: resultID}
		if !in.Anonymous {
			memberID := strings.TrimSpace(in.MemberID)
			entryID, ok := entryByMember[memberID]
			if !ok {
				return nil, errors.Wrapf(ErrNotFound, "scorer %s is not in the lineup", memberID)
			}
			sc.EntryID = entryID
		}
		out = append(out, sc)
	}
	if err := repos.Results.CreateScorers(ctx, out); err != nil {
		return nil, errors.Wrap(err, "create scorers")
	}
	return out, nil
}

func applyRecordDeltas(ctx context.Context, repos uow.Repositories, deltas points.Deltas) (map[string]team.Record, error) {
	teamIDs := make([]string, 0, len(deltas.Records))
	for teamID := range deltas.Records {
		teamIDs = append(teamIDs, teamID)
	}
	slices.Sort(teamIDs)

	out := make(map[string]team.Record, len(deltas.Records))
	for _, teamID := range teamIDs {
		delta := deltas.Records[teamID]
		rec, err := recordOf(ctx, repos, teamID)
		if err != nil {
			return nil, err
		}
		rec = rec.Apply(delta)
		if err := repos.Teams.UpsertRecord(ctx, rec); err != nil {
			return nil, errors.Wrapf(err, "update record of team %s", teamID)
		}
		out[teamID] = rec
	}
	return out, nil
}

func applyAbilityDeltas(ctx context.Context, repos uow.Repositories, deltas points.Deltas) error {
	memberIDs := deltas.MemberIDs()
	if len(memberIDs) == 0 {
		return nil
	}

	current, err := repos.Abilities.GetMany(ctx, memberIDs)
	if err != nil {
		return errors.Wrap(err, "get abilities")
	}
	byMember := make(map[string]ability.Ability, len(current))
	for _, a := range current {
		byMember[a.MemberID] = a
	}

	updated := make([]ability.Ability, 0, len(memberIDs))
	for _, memberID := range memberIDs {
		a, ok := byMember[memberID]
		if !ok {
			a = ability.Ability{MemberID: memberID}
		}
		updated = append(updated, a.Apply(deltas.Abilities[memberID]))
	}
	if err := repos.Abilities.Upsert(ctx, updated); err != nil {
		return errors.Wrap(err, "update abilities")
	}
	return nil
}
