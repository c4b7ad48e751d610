package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/match"
	qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"
)

type matchRepository struct {
	conn
}

func (r matchRepository) GetByID(ctx context.Context, matchID string) (match.Scheduled, bool, error) {
	return r.getBy(ctx, "public_id", matchID)
}

func (r matchRepository) GetByProposalID(ctx context.Context, proposalID string) (match.Scheduled, bool, error) {
	return r.getBy(ctx, "proposal_public_id", proposalID)
}

func (r matchRepository) getBy(ctx context.Context, column, value string) (match.Scheduled, bool, error) {
	query, args, err := qb.Select(matchColumns...).From("scheduled_matches").
		Where(qb.Eq(column, value)).
		ForUpdate(r.lock).
		ToSQL()
	if err != nil {
		return match.Scheduled{}, false, errors.Wrap(err, "build get scheduled match query")
	}

	var row matchTableModel
	ok, err := r.get(ctx, &row, query, args...)
	if err != nil {
		return match.Scheduled{}, false, errors.Wrap(err, "get scheduled match")
	}
	if !ok {
		return match.Scheduled{}, false, nil
	}
	return matchFromRow(row), true, nil
}

func (r matchRepository) ListByTeam(ctx context.Context, teamID string) ([]match.Scheduled, error) {
	query, args, err := qb.Select(matchColumns...).From("scheduled_matches").
		Where(qb.Or(
			qb.Eq("home_team_public_id", teamID),
			qb.Eq("away_team_public_id", teamID),
		)).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, errors.Wrap(err, "build list scheduled matches query")
	}

	var rows []matchTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, "list scheduled matches")
	}

	out := make([]match.Scheduled, 0, len(rows))
	for _, row := range rows {
		out = append(out, matchFromRow(row))
	}
	return out, nil
}

func (r matchRepository) Create(ctx context.Context, m match.Scheduled) error {
	query, args, err := qb.InsertModel("scheduled_matches", matchTableModel{
		PublicID:     m.ID,
		ProposalID:   m.ProposalID,
		HomeTeamID:   m.HomeTeamID,
		AwayTeamID:   m.AwayTeamID,
		HomeTeamName: m.HomeTeamName,
		AwayTeamName: m.AwayTeamName,
		MatchDate:    m.MatchDate.UTC(),
		Location:     m.Location,
		CreatedAt:    m.CreatedAt.UTC(),
	}, "")
	if err != nil {
		return errors.Wrap(err, "build insert scheduled match query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "insert scheduled match %s", m.ID)
}

func (r matchRepository) Delete(ctx context.Context, matchID string) error {
	query, args, err := qb.DeleteFrom("scheduled_matches").
		Where(qb.Eq("public_id", matchID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build delete scheduled match query")
	}
	if _, err := r.exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "delete scheduled match %s", matchID)
	}
	return nil
}

func matchFromRow(row matchTableModel) match.Scheduled {
	return match.Scheduled{
		ID:           row.PublicID,
		ProposalID:   row.ProposalID,
		HomeTeamID:   row.HomeTeamID,
		AwayTeamID:   row.AwayTeamID,
		HomeTeamName: row.HomeTeamName,
		AwayTeamName: row.AwayTeamName,
		MatchDate:    row.MatchDate.UTC(),
		Location:     row.Location,
		CreatedAt:    row.CreatedAt.UTC(),
	}
}
