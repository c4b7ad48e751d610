package usecase

import (
	"context"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/match"
	"github.com/riskibarqy/ninety-minute/internal/domain/member"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
)

// loadTeam returns an active team or ErrNotFound.
func loadTeam(ctx context.Context, repos uow.Repositories, teamID string) (team.Team, error) {
	teamID = strings.TrimSpace(teamID)
	if teamID == "" {
		return team.Team{}, errors.Wrap(ErrInvalidInput, "team id is required")
	}

	t, ok, err := repos.Teams.GetByID(ctx, teamID)
	if err != nil {
		return team.Team{}, errors.Wrapf(err, "get team %s", teamID)
	}
	if !ok || !t.Active() {
		return team.Team{}, errors.Wrapf(ErrNotFound, "team %s", teamID)
	}
	return t, nil
}

// loadRequester re-reads the requester on every call; leadership is never
// taken from the request.
func loadRequester(ctx context.Context, repos uow.Repositories, requesterID string) (member.Member, error) {
	requesterID = strings.TrimSpace(requesterID)
	if requesterID == "" {
		return member.Member{}, errors.Wrap(ErrUnauthorized, "requester is required")
	}

	m, ok, err := repos.Members.GetByID(ctx, requesterID)
	if err != nil {
		return member.Member{}, errors.Wrapf(err, "get member %s", requesterID)
	}
	if !ok {
		return member.Member{}, errors.Wrapf(ErrForbidden, "requester %s is not a registered member", requesterID)
	}
	return m, nil
}

// isLeader is the single authorization predicate for leader-only actions.
func isLeader(m member.Member, t team.Team) bool {
	return t.Active() && m.Leads(t.ID) && t.LeaderID == m.ID
}

// requireLeader loads teamID and checks the requester currently leads it.
func requireLeader(ctx context.Context, repos uow.Repositories, requesterID, teamID string) (team.Team, member.Member, error) {
	t, err := loadTeam(ctx, repos, teamID)
	if err != nil {
		return team.Team{}, member.Member{}, err
	}
	m, err := loadRequester(ctx, repos, requesterID)
	if err != nil {
		return team.Team{}, member.Member{}, err
	}
	if !isLeader(m, t) {
		return team.Team{}, member.Member{}, errors.Wrapf(ErrForbidden, "member %s does not lead team %s", m.ID, t.ID)
	}
	return t, m, nil
}

// isApprovedMember reports whether memberID holds an approved participation
// in teamID.
func isApprovedMember(ctx context.Context, repos uow.Repositories, teamID, memberID string) (bool, error) {
	p, ok, err := repos.Participations.Get(ctx, teamID, memberID)
	if err != nil {
		return false, errors.Wrapf(err, "get participation %s/%s", teamID, memberID)
	}
	return ok && p.Approved, nil
}

// requireApprovedMember loads memberID and fails with ErrNotFound unless the
// member is an approved member of teamID.
func requireApprovedMember(ctx context.Context, repos uow.Repositories, teamID, memberID string) (member.Member, error) {
	memberID = strings.TrimSpace(memberID)
	if memberID == "" {
		return member.Member{}, errors.Wrap(ErrInvalidInput, "member id is required")
	}
	m, ok, err := repos.Members.GetByID(ctx, memberID)
	if err != nil {
		return member.Member{}, errors.Wrapf(err, "get member %s", memberID)
	}
	if !ok {
		return member.Member{}, errors.Wrapf(ErrNotFound, "member %s", memberID)
	}
	approved, err := isApprovedMember(ctx, repos, teamID, memberID)
	if err != nil {
		return member.Member{}, err
	}
	if !approved {
		return member.Member{}, errors.Wrapf(ErrNotFound, "member %s is not an approved member of team %s", memberID, teamID)
	}
	return m, nil
}

// requireSideLeader checks that the requester currently leads one of the two
// teams of m and returns that team.
func requireSideLeader(ctx context.Context, repos uow.Repositories, requesterID string, m match.Scheduled) (team.Team, member.Member, error) {
	requester, err := loadRequester(ctx, repos, requesterID)
	if err != nil {
		return team.Team{}, member.Member{}, err
	}
	if !m.Involves(requester.OpenTeamID) {
		return team.Team{}, member.Member{}, errors.Wrapf(ErrForbidden, "member %s leads neither side of match %s", requester.ID, m.ID)
	}

	t, ok, err := repos.Teams.GetByID(ctx, requester.OpenTeamID)
	if err != nil {
		return team.Team{}, member.Member{}, errors.Wrapf(err, "get team %s", requester.OpenTeamID)
	}
	if !ok || !isLeader(requester, t) {
		return team.Team{}, member.Member{}, errors.Wrapf(ErrForbidden, "member %s leads neither side of match %s", requester.ID, m.ID)
	}
	return t, requester, nil
}

// loadMatch returns a scheduled match or ErrNotFound.
func loadMatch(ctx context.Context, repos uow.Repositories, matchID string) (match.Scheduled, error) {
	matchID = strings.TrimSpace(matchID)
	if matchID == "" {
		return match.Scheduled{}, errors.Wrap(ErrInvalidInput, "match id is required")
	}
	m, ok, err := repos.Matches.GetByID(ctx, matchID)
	if err != nil {
		return match.Scheduled{}, errors.Wrapf(err, "get match %s", matchID)
	}
	if !ok {
		return match.Scheduled{}, errors.Wrapf(ErrNotFound, "match %s", matchID)
	}
	return m, nil
}
