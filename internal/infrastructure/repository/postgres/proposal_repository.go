package postgres

import (
	"context"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/proposal"
	qb "github.com/riskibarqy/ninety-minute/internal/platform/querybuilder"
)

type proposalRepository struct {
	conn
}

func (r proposalRepository) GetByID(ctx context.Context, proposalID string) (proposal.Proposal, bool, error) {
	query, args, err := qb.Select(proposalColumns...).From("proposals").
		Where(qb.Eq("public_id", proposalID)).
		ForUpdate(r.lock).
		ToSQL()
	if err != nil {
		return proposal.Proposal{}, false, errors.Wrap(err, "build get proposal query")
	}

	var row proposalTableModel
	ok, err := r.get(ctx, &row, query, args...)
	if err != nil {
		return proposal.Proposal{}, false, errors.Wrap(err, "get proposal")
	}
	if !ok {
		return proposal.Proposal{}, false, nil
	}
	return proposalFromRow(row), true, nil
}

func (r proposalRepository) ListByPair(ctx context.Context, proposerTeamID, targetTeamID string) ([]proposal.Proposal, error) {
	return r.list(ctx, "list proposals by pair",
		qb.Eq("proposer_team_public_id", proposerTeamID),
		qb.Eq("target_team_public_id", targetTeamID),
	)
}

func (r proposalRepository) ListByTarget(ctx context.Context, teamID string) ([]proposal.Proposal, error) {
	return r.list(ctx, "list incoming proposals", qb.Eq("target_team_public_id", teamID))
}

func (r proposalRepository) ListByProposer(ctx context.Context, teamID string) ([]proposal.Proposal, error) {
	return r.list(ctx, "list outgoing proposals", qb.Eq("proposer_team_public_id", teamID))
}

func (r proposalRepository) list(ctx context.Context, op string, conditions ...qb.Condition) ([]proposal.Proposal, error) {
	query, args, err := qb.Select(proposalColumns...).From("proposals").
		Where(conditions...).
		OrderBy("created_at", "id").
		ForUpdate(r.lock).
		ToSQL()
	if err != nil {
		return nil, errors.Wrapf(err, "build %s query", op)
	}

	var rows []proposalTableModel
	if err := r.selectRows(ctx, &rows, query, args...); err != nil {
		return nil, errors.Wrap(err, op)
	}

	out := make([]proposal.Proposal, 0, len(rows))
	for _, row := range rows {
		out = append(out, proposalFromRow(row))
	}
	return out, nil
}

func (r proposalRepository) Create(ctx context.Context, p proposal.Proposal) error {
	query, args, err := qb.InsertModel("proposals", proposalToRow(p), "")
	if err != nil {
		return errors.Wrap(err, "build insert proposal query")
	}
	_, err = r.exec(ctx, query, args...)
	return writeError(err, "insert proposal %s", p.ID)
}

func (r proposalRepository) Update(ctx context.Context, p proposal.Proposal) error {
	query, args, err := qb.Update("proposals").
		Set("greeting", p.Greeting).
		Set("approved", p.Approved).
		Set("proposer_end_requested", p.ProposerEndRequested).
		Set("target_end_requested", p.TargetEndRequested).
		Set("updated_at", p.UpdatedAt.UTC()).
		Where(qb.Eq("public_id", p.ID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build update proposal query")
	}

	affected, err := r.exec(ctx, query, args...)
	if err != nil {
		return writeError(err, "update proposal %s", p.ID)
	}
	if affected == 0 {
		return errors.Newf("update proposal %s: no rows", p.ID)
	}
	return nil
}

func (r proposalRepository) Delete(ctx context.Context, proposalID string) error {
	query, args, err := qb.DeleteFrom("proposals").
		Where(qb.Eq("public_id", proposalID)).
		ToSQL()
	if err != nil {
		return errors.Wrap(err, "build delete proposal query")
	}
	if _, err := r.exec(ctx, query, args...); err != nil {
		return errors.Wrapf(err, "delete proposal %s", proposalID)
	}
	return nil
}

func proposalFromRow(row proposalTableModel) proposal.Proposal {
	return proposal.Proposal{
		ID:                   row.PublicID,
		ProposerTeamID:       row.ProposerTeamID,
		TargetTeamID:         row.TargetTeamID,
		Greeting:             row.Greeting,
		Approved:             row.Approved,
		ProposerEndRequested: row.ProposerEndRequested,
		TargetEndRequested:   row.TargetEndRequested,
		CreatedAt:            row.CreatedAt.UTC(),
		UpdatedAt:            row.UpdatedAt.UTC(),
	}
}

func proposalToRow(p proposal.Proposal) proposalTableModel {
	return proposalTableModel{
		PublicID:             p.ID,
		ProposerTeamID:       p.ProposerTeamID,
		TargetTeamID:         p.TargetTeamID,
		Greeting:             p.Greeting,
		Approved:             p.Approved,
		ProposerEndRequested: p.ProposerEndRequested,
		TargetEndRequested:   p.TargetEndRequested,
		CreatedAt:            p.CreatedAt.UTC(),
		UpdatedAt:            p.UpdatedAt.UTC(),
	}
}
