package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/history"
	"github.com/riskibarqy/ninety-minute/internal/domain/participation"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
	"github.com/riskibarqy/ninety-minute/internal/domain/uow"
	"github.com/riskibarqy/ninety-minute/internal/platform/id"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const (
	maxIntroduceLength       = 500
	maxMainAreaLength        = 60
	maxRecruitQuestionLength = 200
)

// TeamService owns the roster: team lifecycle and membership.
type TeamService struct {
	tx     uow.Transactor
	idGen  id.Generator
	now    func() time.Time
	logger *logging.Logger
}

func NewTeamService(tx uow.Transactor, idGen id.Generator, logger *logging.Logger) *TeamService {
	if logger == nil {
		logger = logging.Default()
	}

	return &TeamService{
		tx:     tx,
		idGen:  idGen,
		now:    time.Now,
		logger: logger,
	}
}

type CreateTeamInput struct {
	RequesterID string
	Name        string
	Introduce   string
	MainArea    string
}

// CreateTeam opens a team led by the requester. The team, its record, the
// leader's participation and the member's back-reference are written together.
func (s *TeamService) CreateTeam(ctx context.Context, input CreateTeamInput) (out team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.CreateTeam")
	defer func() { endSpan(span, err) }()

	name := strings.TrimSpace(input.Name)
	if name == "" {
		return team.Team{}, errors.Wrap(ErrInvalidInput, "team name is required")
	}
	if len([]rune(name)) > team.MaxNameLength {
		return team.Team{}, errors.Wrapf(ErrInvalidInput, "team name must be at most %d characters", team.MaxNameLength)
	}
	if len([]rune(input.Introduce)) > maxIntroduceLength {
		return team.Team{}, errors.Wrapf(ErrInvalidInput, "introduce must be at most %d characters", maxIntroduceLength)
	}
	if len([]rune(input.MainArea)) > maxMainAreaLength {
		return team.Team{}, errors.Wrapf(ErrInvalidInput, "main area must be at most %d characters", maxMainAreaLength)
	}

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		leader, err := loadRequester(ctx, repos, input.RequesterID)
		if err != nil {
			return err
		}
		if leader.OpenTeamID != "" {
			return errors.Wrapf(ErrConflict, "member %s already leads team %s", leader.ID, leader.OpenTeamID)
		}
		taken, err := repos.Teams.NameTaken(ctx, name)
		if err != nil {
			return errors.Wrap(err, "check team name")
		}
		if taken {
			return errors.Wrapf(ErrConflict, "team name %q is taken", name)
		}

		teamID, err := s.idGen.NewID()
		if err != nil {
			return errors.Wrap(err, "generate team id")
		}
		now := s.now().UTC()
		out = team.Team{
			ID:        teamID,
			Name:      name,
			LeaderID:  leader.ID,
			Introduce: strings.TrimSpace(input.Introduce),
			MainArea:  strings.TrimSpace(input.MainArea),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := out.Validate(); err != nil {
			return errors.Mark(err, ErrInvalidInput)
		}
		if err := repos.Teams.Create(ctx, out); err != nil {
			return errors.Wrap(err, "create team")
		}
		if err := repos.Teams.UpsertRecord(ctx, team.Record{TeamID: teamID}); err != nil {
			return errors.Wrap(err, "create team record")
		}
		if err := repos.Participations.Create(ctx, participation.Participation{
			TeamID:     teamID,
			MemberID:   leader.ID,
			Approved:   true,
			CreatedAt:  now,
			ApprovedAt: now,
		}); err != nil {
			return errors.Wrap(err, "create leader participation")
		}

		leader.OpenTeamID = teamID
		if err := repos.Members.Update(ctx, leader); err != nil {
			return errors.Wrap(err, "link leader to team")
		}
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "team created", "team_id", out.ID, "leader_id", out.LeaderID)
	return out, nil
}

// SetMatchSeeking toggles whether the team accepts proposals.
func (s *TeamService) SetMatchSeeking(ctx context.Context, teamID, requesterID string, on bool) (out team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SetMatchSeeking",
		attribute.String("team_id", teamID),
		attribute.Bool("on", on),
	)
	defer func() { endSpan(span, err) }()

	out, err = s.mutateTeam(ctx, teamID, requesterID, func(t *team.Team) error {
		if t.MatchSeeking == on {
			return errors.Wrapf(ErrPrecondition, "team %s match seeking is already %t", t.ID, on)
		}
		t.MatchSeeking = on
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "match seeking changed", "team_id", out.ID, "match_seeking", on)
	return out, nil
}

// SetRecruiting toggles recruitment. The question is dropped when recruiting
// stops.
func (s *TeamService) SetRecruiting(ctx context.Context, teamID, requesterID string, on bool, question string) (out team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.SetRecruiting",
		attribute.String("team_id", teamID),
		attribute.Bool("on", on),
	)
	defer func() { endSpan(span, err) }()

	question = strings.TrimSpace(question)
	if len([]rune(question)) > maxRecruitQuestionLength {
		return team.Team{}, errors.Wrapf(ErrInvalidInput, "recruit question must be at most %d characters", maxRecruitQuestionLength)
	}

	out, err = s.mutateTeam(ctx, teamID, requesterID, func(t *team.Team) error {
		if t.Recruiting == on {
			return errors.Wrapf(ErrPrecondition, "team %s recruiting is already %t", t.ID, on)
		}
		t.Recruiting = on
		t.RecruitQuestion = ""
		if on {
			t.RecruitQuestion = question
		}
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "recruiting changed", "team_id", out.ID, "recruiting", on)
	return out, nil
}

func (s *TeamService) mutateTeam(ctx context.Context, teamID, requesterID string, mutate func(*team.Team) error) (out team.Team, err error) {
	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, _, err := requireLeader(ctx, repos, requesterID, teamID)
		if err != nil {
			return err
		}
		if err := mutate(&t); err != nil {
			return err
		}
		t.UpdatedAt = s.now().UTC()
		if err := repos.Teams.Update(ctx, t); err != nil {
			return errors.Wrap(err, "update team")
		}
		out = t
		return nil
	})
	return out, err
}

// RequestParticipation files a pending membership request.
func (s *TeamService) RequestParticipation(ctx context.Context, teamID, requesterID string) (out participation.Participation, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.RequestParticipation", attribute.String("team_id", teamID))
	defer func() { endSpan(span, err) }()

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, err := loadTeam(ctx, repos, teamID)
		if err != nil {
			return err
		}
		requester, err := loadRequester(ctx, repos, requesterID)
		if err != nil {
			return err
		}
		if !t.Recruiting {
			return errors.Wrapf(ErrPrecondition, "team %s is not recruiting", t.ID)
		}
		if _, exists, err := repos.Participations.Get(ctx, t.ID, requester.ID); err != nil {
			return errors.Wrap(err, "get participation")
		} else if exists {
			return errors.Wrapf(ErrConflict, "member %s already applied to team %s", requester.ID, t.ID)
		}

		out = participation.Participation{
			TeamID:    t.ID,
			MemberID:  requester.ID,
			CreatedAt: s.now().UTC(),
		}
		if err := repos.Participations.Create(ctx, out); err != nil {
			return errors.Wrap(err, "create participation")
		}
		return nil
	})
	if err != nil {
		return participation.Participation{}, err
	}

	s.logger.InfoContext(ctx, "participation requested", "team_id", out.TeamID, "member_id", out.MemberID)
	return out, nil
}

// ApproveParticipation accepts a pending request.
func (s *TeamService) ApproveParticipation(ctx context.Context, teamID, requesterID, memberID string) (out participation.Participation, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ApproveParticipation",
		attribute.String("team_id", teamID),
		attribute.String("member_id", memberID),
	)
	defer func() { endSpan(span, err) }()

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, _, err := requireLeader(ctx, repos, requesterID, teamID)
		if err != nil {
			return err
		}
		p, ok, err := repos.Participations.Get(ctx, t.ID, strings.TrimSpace(memberID))
		if err != nil {
			return errors.Wrap(err, "get participation")
		}
		if !ok {
			return errors.Wrapf(ErrNotFound, "no participation request from member %s", memberID)
		}
		if p.Approved {
			return errors.Wrapf(ErrPrecondition, "member %s is already approved", memberID)
		}

		p.Approved = true
		p.ApprovedAt = s.now().UTC()
		if err := repos.Participations.Update(ctx, p); err != nil {
			return errors.Wrap(err, "approve participation")
		}
		out = p
		return nil
	})
	if err != nil {
		return participation.Participation{}, err
	}

	s.logger.InfoContext(ctx, "participation approved", "team_id", out.TeamID, "member_id", out.MemberID)
	return out, nil
}

// DeclineParticipation drops a pending request without approving it.
func (s *TeamService) DeclineParticipation(ctx context.Context, teamID, requesterID, memberID string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.DeclineParticipation",
		attribute.String("team_id", teamID),
		attribute.String("member_id", memberID),
	)
	defer func() { endSpan(span, err) }()

	memberID = strings.TrimSpace(memberID)
	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, _, err := requireLeader(ctx, repos, requesterID, teamID)
		if err != nil {
			return err
		}
		p, ok, err := repos.Participations.Get(ctx, t.ID, memberID)
		if err != nil {
			return errors.Wrap(err, "get participation")
		}
		if !ok {
			return errors.Wrapf(ErrNotFound, "no participation request from member %s", memberID)
		}
		if p.Approved {
			return errors.Wrapf(ErrPrecondition, "member %s is already approved; release them instead", memberID)
		}
		if err := repos.Participations.Delete(ctx, t.ID, memberID); err != nil {
			return errors.Wrap(err, "decline participation")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "participation declined", "team_id", teamID, "member_id", memberID)
	return nil
}

// ReleaseMember removes an approved member from the team. The leader cannot
// release themselves.
func (s *TeamService) ReleaseMember(ctx context.Context, teamID, requesterID, memberID string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ReleaseMember",
		attribute.String("team_id", teamID),
		attribute.String("member_id", memberID),
	)
	defer func() { endSpan(span, err) }()

	memberID = strings.TrimSpace(memberID)
	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, leader, err := requireLeader(ctx, repos, requesterID, teamID)
		if err != nil {
			return err
		}
		if memberID == leader.ID {
			return errors.Wrapf(ErrPrecondition, "leader %s cannot release themselves", leader.ID)
		}
		approved, err := isApprovedMember(ctx, repos, t.ID, memberID)
		if err != nil {
			return err
		}
		if !approved {
			return errors.Wrapf(ErrNotFound, "member %s is not an approved member of team %s", memberID, t.ID)
		}
		if err := repos.Participations.Delete(ctx, t.ID, memberID); err != nil {
			return errors.Wrap(err, "release member")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "member released", "team_id", teamID, "member_id", memberID)
	return nil
}

// LeaveTeam lets an approved member other than the leader quit the team.
func (s *TeamService) LeaveTeam(ctx context.Context, teamID, requesterID string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.LeaveTeam", attribute.String("team_id", teamID))
	defer func() { endSpan(span, err) }()

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, err := loadTeam(ctx, repos, teamID)
		if err != nil {
			return err
		}
		requester, err := loadRequester(ctx, repos, requesterID)
		if err != nil {
			return err
		}
		if isLeader(requester, t) {
			return errors.Wrapf(ErrPrecondition, "leader %s must disband team %s instead of leaving", requester.ID, t.ID)
		}
		p, ok, err := repos.Participations.Get(ctx, t.ID, requester.ID)
		if err != nil {
			return errors.Wrap(err, "get participation")
		}
		if !ok {
			return errors.Wrapf(ErrNotFound, "member %s is not in team %s", requester.ID, t.ID)
		}
		if !p.Approved {
			return errors.Wrapf(ErrPrecondition, "request of member %s to team %s is still pending", requester.ID, t.ID)
		}
		if err := repos.Participations.Delete(ctx, t.ID, requester.ID); err != nil {
			return errors.Wrap(err, "leave team")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "member left team", "team_id", teamID, "member_id", requesterID)
	return nil
}

type UpdateTeamInput struct {
	TeamID      string
	RequesterID string
	Introduce   string
	MainArea    string
}

// UpdateTeam replaces the team's introduction and main area.
func (s *TeamService) UpdateTeam(ctx context.Context, input UpdateTeamInput) (out team.Team, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.UpdateTeam", attribute.String("team_id", input.TeamID))
	defer func() { endSpan(span, err) }()

	introduce := strings.TrimSpace(input.Introduce)
	mainArea := strings.TrimSpace(input.MainArea)
	if len([]rune(introduce)) > maxIntroduceLength {
		return team.Team{}, errors.Wrapf(ErrInvalidInput, "introduce must be at most %d characters", maxIntroduceLength)
	}
	if len([]rune(mainArea)) > maxMainAreaLength {
		return team.Team{}, errors.Wrapf(ErrInvalidInput, "main area must be at most %d characters", maxMainAreaLength)
	}

	out, err = s.mutateTeam(ctx, input.TeamID, input.RequesterID, func(t *team.Team) error {
		t.Introduce = introduce
		t.MainArea = mainArea
		return nil
	})
	if err != nil {
		return team.Team{}, err
	}

	s.logger.InfoContext(ctx, "team updated", "team_id", out.ID)
	return out, nil
}

// MemberParticipation is one of a member's requests with the team's name.
type MemberParticipation struct {
	Participation participation.Participation
	TeamName      string
}

// ListParticipations lists the requester's requests to active teams and
// whether each was approved.
func (s *TeamService) ListParticipations(ctx context.Context, requesterID string) (out []MemberParticipation, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.ListParticipations")
	defer func() { endSpan(span, err) }()

	err = s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		requester, err := loadRequester(ctx, repos, requesterID)
		if err != nil {
			return err
		}
		items, err := repos.Participations.ListByMember(ctx, requester.ID)
		if err != nil {
			return errors.Wrap(err, "list participations")
		}
		if len(items) == 0 {
			return nil
		}

		teamIDs := make([]string, 0, len(items))
		for _, p := range items {
			teamIDs = append(teamIDs, p.TeamID)
		}
		teams, err := repos.Teams.GetByIDs(ctx, teamIDs)
		if err != nil {
			return errors.Wrap(err, "get participation teams")
		}
		names := make(map[string]string, len(teams))
		for _, t := range teams {
			if t.Active() {
				names[t.ID] = t.Name
			}
		}

		out = make([]MemberParticipation, 0, len(items))
		for _, p := range items {
			name, ok := names[p.TeamID]
			if !ok {
				continue
			}
			out = append(out, MemberParticipation{Participation: p, TeamName: name})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DisbandTeam soft-deletes the team and frees its leader. Teams with matches
// that are scheduled but not settled cannot be disbanded.
func (s *TeamService) DisbandTeam(ctx context.Context, teamID, requesterID string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.DisbandTeam", attribute.String("team_id", teamID))
	defer func() { endSpan(span, err) }()

	err = s.tx.Update(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, leader, err := requireLeader(ctx, repos, requesterID, teamID)
		if err != nil {
			return err
		}

		matches, err := repos.Matches.ListByTeam(ctx, t.ID)
		if err != nil {
			return errors.Wrap(err, "list team matches")
		}
		for _, m := range matches {
			res, ok, err := repos.Results.GetByMatchID(ctx, m.ID)
			if err != nil {
				return errors.Wrap(err, "get match result")
			}
			if !ok || !res.Settled {
				return errors.Wrapf(ErrPrecondition, "team %s has an open match %s", t.ID, m.ID)
			}
		}

		t.Deleted = true
		t.MatchSeeking = false
		t.Recruiting = false
		t.RecruitQuestion = ""
		t.UpdatedAt = s.now().UTC()
		if err := repos.Teams.Update(ctx, t); err != nil {
			return errors.Wrap(err, "delete team")
		}
		leader.OpenTeamID = ""
		if err := repos.Members.Update(ctx, leader); err != nil {
			return errors.Wrap(err, "unlink leader")
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.InfoContext(ctx, "team disbanded", "team_id", teamID)
	return nil
}

type TeamOverview struct {
	Team           team.Team
	Record         team.Record
	MemberCount    int
	RequesterLeads bool
	LastMatch      *history.History
}

// TeamOverview gathers the team card. Each read runs in its own read-only
// unit of work so they can proceed in parallel.
func (s *TeamService) TeamOverview(ctx context.Context, teamID, requesterID string) (out TeamOverview, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TeamService.TeamOverview", attribute.String("team_id", teamID))
	defer func() { endSpan(span, err) }()

	err = s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
		t, err := loadTeam(ctx, repos, teamID)
		if err != nil {
			return err
		}
		out.Team = t
		return nil
	})
	if err != nil {
		return TeamOverview{}, err
	}

	p := pool.New().WithContext(ctx).WithCancelOnError()
	p.Go(func(ctx context.Context) error {
		return s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
			rec, err := recordOf(ctx, repos, out.Team.ID)
			out.Record = rec
			return err
		})
	})
	p.Go(func(ctx context.Context) error {
		return s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
			count, err := repos.Participations.CountApproved(ctx, out.Team.ID)
			if err != nil {
				return errors.Wrap(err, "count members")
			}
			out.MemberCount = count
			return nil
		})
	})
	p.Go(func(ctx context.Context) error {
		if strings.TrimSpace(requesterID) == "" {
			return nil
		}
		return s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
			m, ok, err := repos.Members.GetByID(ctx, requesterID)
			if err != nil {
				return errors.Wrap(err, "get requester")
			}
			out.RequesterLeads = ok && isLeader(m, out.Team)
			return nil
		})
	})
	p.Go(func(ctx context.Context) error {
		return s.tx.View(ctx, func(ctx context.Context, repos uow.Repositories) error {
			items, err := repos.Histories.ListByTeam(ctx, out.Team.ID, 1)
			if err != nil {
				return errors.Wrap(err, "list team history")
			}
			if len(items) > 0 {
				out.LastMatch = &items[0]
			}
			return nil
		})
	})
	if err := p.Wait(); err != nil {
		return TeamOverview{}, err
	}
	return out, nil
}
