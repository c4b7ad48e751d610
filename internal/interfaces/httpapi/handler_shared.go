package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/ninety-minute/internal/domain/history"
	"github.com/riskibarqy/ninety-minute/internal/domain/lineup"
	"github.com/riskibarqy/ninety-minute/internal/domain/match"
	"github.com/riskibarqy/ninety-minute/internal/domain/participation"
	"github.com/riskibarqy/ninety-minute/internal/domain/proposal"
	"github.com/riskibarqy/ninety-minute/internal/domain/result"
	"github.com/riskibarqy/ninety-minute/internal/domain/team"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"github.com/riskibarqy/ninety-minute/internal/usecase"
)

const maxRequestBodyBytes = 64 << 10

type Handler struct {
	teamService       *usecase.TeamService
	proposalService   *usecase.ProposalService
	matchService      *usecase.MatchService
	lineupService     *usecase.LineupService
	settlementService *usecase.SettlementService
	rankingService    *usecase.RankingService
	logger            *logging.Logger
	validator         *validator.Validate
}

func NewHandler(
	teamService *usecase.TeamService,
	proposalService *usecase.ProposalService,
	matchService *usecase.MatchService,
	lineupService *usecase.LineupService,
	settlementService *usecase.SettlementService,
	rankingService *usecase.RankingService,
	logger *logging.Logger,
) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	return &Handler{
		teamService:       teamService,
		proposalService:   proposalService,
		matchService:      matchService,
		lineupService:     lineupService,
		settlementService: settlementService,
		rankingService:    rankingService,
		logger:            logger,
		validator:         validator.New(validator.WithRequiredStructEnabled()),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return errors.Wrapf(usecase.ErrInvalidInput, "validation failed: %v", err)
	}

	return nil
}

// decodeRequest reads a JSON body into dst and validates it.
func (h *Handler) decodeRequest(ctx context.Context, r *http.Request, dst any) error {
	decoder := sonic.ConfigDefault.NewDecoder(http.MaxBytesReader(nil, r.Body, maxRequestBodyBytes))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return errors.Wrapf(usecase.ErrInvalidInput, "invalid JSON payload: %v", err)
	}
	return h.validateRequest(ctx, dst)
}

// queryLimit parses ?limit=, returning 0 when absent.
func queryLimit(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0, errors.Wrapf(usecase.ErrInvalidInput, "limit must be a non-negative integer, got %q", raw)
	}
	return limit, nil
}

func formatTime(v time.Time) string {
	if v.IsZero() {
		return ""
	}
	return v.UTC().Format(time.RFC3339)
}

type teamDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	LeaderID        string `json:"leader_id"`
	Introduce       string `json:"introduce"`
	MainArea        string `json:"main_area"`
	Recruiting      bool   `json:"recruiting"`
	RecruitQuestion string `json:"recruit_question,omitempty"`
	MatchSeeking    bool   `json:"match_seeking"`
	CreatedAtUTC    string `json:"created_at_utc"`
	UpdatedAtUTC    string `json:"updated_at_utc"`
}

type recordDTO struct {
	TotalGameCount int     `json:"total_game_count"`
	WinCount       int     `json:"win_count"`
	DrawCount      int     `json:"draw_count"`
	LoseCount      int     `json:"lose_count"`
	WinRate        float64 `json:"win_rate"`
}

type teamOverviewDTO struct {
	Team           teamDTO     `json:"team"`
	Record         recordDTO   `json:"record"`
	MemberCount    int         `json:"member_count"`
	RequesterLeads bool        `json:"requester_leads"`
	LastMatch      *historyDTO `json:"last_match,omitempty"`
}

type participationDTO struct {
	TeamID        string `json:"team_id"`
	MemberID      string `json:"member_id"`
	Approved      bool   `json:"approved"`
	CreatedAtUTC  string `json:"created_at_utc"`
	ApprovedAtUTC string `json:"approved_at_utc,omitempty"`
}

type memberParticipationDTO struct {
	participationDTO
	TeamName string `json:"team_name"`
}

type proposalDTO struct {
	ID                   string `json:"id"`
	ProposerTeamID       string `json:"proposer_team_id"`
	TargetTeamID         string `json:"target_team_id"`
	Greeting             string `json:"greeting"`
	Approved             bool   `json:"approved"`
	ProposerEndRequested bool   `json:"proposer_end_requested"`
	TargetEndRequested   bool   `json:"target_end_requested"`
	Ended                bool   `json:"ended"`
	CreatedAtUTC         string `json:"created_at_utc"`
	UpdatedAtUTC         string `json:"updated_at_utc"`
}

type proposalSummaryDTO struct {
	Proposal         proposalDTO `json:"proposal"`
	CounterpartID    string      `json:"counterpart_id"`
	CounterpartName  string      `json:"counterpart_name"`
	ScheduledMatchID string      `json:"scheduled_match_id,omitempty"`
}

type scheduledMatchDTO struct {
	ID           string `json:"id"`
	ProposalID   string `json:"proposal_id"`
	HomeTeamID   string `json:"home_team_id"`
	AwayTeamID   string `json:"away_team_id"`
	HomeTeamName string `json:"home_team_name"`
	AwayTeamName string `json:"away_team_name"`
	MatchDateUTC string `json:"match_date_utc"`
	Location     string `json:"location"`
}

type scheduledSummaryDTO struct {
	Match        scheduledMatchDTO `json:"match"`
	OpponentID   string            `json:"opponent_id"`
	OpponentName string            `json:"opponent_name"`
	Home         bool              `json:"home"`
	DaysUntil    int               `json:"days_until"`
	Stage        string            `json:"stage"`
}

type lineupEntryDTO struct {
	ID        string `json:"id"`
	TeamID    string `json:"team_id"`
	Slot      string `json:"slot"`
	Position  string `json:"position"`
	MemberID  string `json:"member_id,omitempty"`
	Anonymous bool   `json:"anonymous"`
}

type resultDTO struct {
	ID                string `json:"id"`
	MatchID           string `json:"match_id"`
	ReportingTeamID   string `json:"reporting_team_id"`
	Score             int    `json:"score"`
	OpponentScore     int    `json:"opponent_score"`
	MVPNickname       string `json:"mvp_nickname,omitempty"`
	MoodMakerNickname string `json:"mood_maker_nickname,omitempty"`
	Stage             string `json:"stage"`
	ConfirmedAtUTC    string `json:"confirmed_at_utc,omitempty"`
	SettledAtUTC      string `json:"settled_at_utc,omitempty"`
}

type matchDetailDTO struct {
	Match           scheduledMatchDTO `json:"match"`
	Stage           string            `json:"stage"`
	DaysUntil       int               `json:"days_until"`
	RequesterTeamID string            `json:"requester_team_id"`
	RequesterLeads  bool              `json:"requester_leads"`
	HomeRecord      recordDTO         `json:"home_record"`
	AwayRecord      recordDTO         `json:"away_record"`
	Result          *resultDTO        `json:"result,omitempty"`
	HomeLineup      []lineupEntryDTO  `json:"home_lineup"`
	AwayLineup      []lineupEntryDTO  `json:"away_lineup"`
}

type historyDTO struct {
	ID           string `json:"id"`
	MatchID      string `json:"match_id"`
	HomeTeamID   string `json:"home_team_id"`
	AwayTeamID   string `json:"away_team_id"`
	HomeScore    int    `json:"home_score"`
	AwayScore    int    `json:"away_score"`
	MatchDateUTC string `json:"match_date_utc"`
}

type settlementDTO struct {
	Result      resultDTO            `json:"result"`
	History     historyDTO           `json:"history"`
	Substitutes []lineupEntryDTO     `json:"substitutes"`
	ScorerCount int                  `json:"scorer_count"`
	Records     map[string]recordDTO `json:"records"`
}

type rankedMemberDTO struct {
	Rank     int    `json:"rank"`
	MemberID string `json:"member_id"`
	Nickname string `json:"nickname"`
	Points   int    `json:"points"`
}

type leaderboardsDTO struct {
	Limit      int                          `json:"limit"`
	Categories map[string][]rankedMemberDTO `json:"categories"`
}

type memberRankingDTO struct {
	MemberID      string `json:"member_id"`
	Nickname      string `json:"nickname"`
	Position      string `json:"position"`
	MVPPoint      int    `json:"mvp_point"`
	PositionPoint int    `json:"position_point"`
	PositionRank  int    `json:"position_rank"`
}

func teamToDTO(v team.Team) teamDTO {
	return teamDTO{
		ID:              v.ID,
		Name:            v.Name,
		LeaderID:        v.LeaderID,
		Introduce:       v.Introduce,
		MainArea:        v.MainArea,
		Recruiting:      v.Recruiting,
		RecruitQuestion: v.RecruitQuestion,
		MatchSeeking:    v.MatchSeeking,
		CreatedAtUTC:    formatTime(v.CreatedAt),
		UpdatedAtUTC:    formatTime(v.UpdatedAt),
	}
}

func recordToDTO(v team.Record) recordDTO {
	return recordDTO{
		TotalGameCount: v.TotalGameCount,
		WinCount:       v.WinCount,
		DrawCount:      v.DrawCount,
		LoseCount:      v.LoseCount,
		WinRate:        v.WinRate,
	}
}

func participationToDTO(v participation.Participation) participationDTO {
	return participationDTO{
		TeamID:        v.TeamID,
		MemberID:      v.MemberID,
		Approved:      v.Approved,
		CreatedAtUTC:  formatTime(v.CreatedAt),
		ApprovedAtUTC: formatTime(v.ApprovedAt),
	}
}

func proposalToDTO(v proposal.Proposal) proposalDTO {
	return proposalDTO{
		ID:                   v.ID,
		ProposerTeamID:       v.ProposerTeamID,
		TargetTeamID:         v.TargetTeamID,
		Greeting:             v.Greeting,
		Approved:             v.Approved,
		ProposerEndRequested: v.ProposerEndRequested,
		TargetEndRequested:   v.TargetEndRequested,
		Ended:                v.Ended(),
		CreatedAtUTC:         formatTime(v.CreatedAt),
		UpdatedAtUTC:         formatTime(v.UpdatedAt),
	}
}

func proposalSummariesToDTO(items []usecase.ProposalSummary) []proposalSummaryDTO {
	out := make([]proposalSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, proposalSummaryDTO{
			Proposal:         proposalToDTO(item.Proposal),
			CounterpartID:    item.CounterpartID,
			CounterpartName:  item.CounterpartName,
			ScheduledMatchID: item.ScheduledMatchID,
		})
	}
	return out
}

func scheduledToDTO(v match.Scheduled) scheduledMatchDTO {
	return scheduledMatchDTO{
		ID:           v.ID,
		ProposalID:   v.ProposalID,
		HomeTeamID:   v.HomeTeamID,
		AwayTeamID:   v.AwayTeamID,
		HomeTeamName: v.HomeTeamName,
		AwayTeamName: v.AwayTeamName,
		MatchDateUTC: formatTime(v.MatchDate),
		Location:     v.Location,
	}
}

func lineupToDTO(entries []lineup.Entry) []lineupEntryDTO {
	out := make([]lineupEntryDTO, 0, len(entries))
	for _, e := range entries {
		memberID, registered := lineup.MemberIDOf(e.Player)
		out = append(out, lineupEntryDTO{
			ID:        e.ID,
			TeamID:    e.TeamID,
			Slot:      string(e.Slot),
			Position:  string(e.Position),
			MemberID:  memberID,
			Anonymous: !registered,
		})
	}
	return out
}

func resultToDTO(v result.MatchResult) resultDTO {
	return resultDTO{
		ID:                v.ID,
		MatchID:           v.MatchID,
		ReportingTeamID:   v.ReportingTeamID,
		Score:             v.Score,
		OpponentScore:     v.OpponentScore,
		MVPNickname:       v.MVPNickname,
		MoodMakerNickname: v.MoodMakerNickname,
		Stage:             string(v.Stage()),
		ConfirmedAtUTC:    formatTime(v.ConfirmedAt),
		SettledAtUTC:      formatTime(v.SettledAt),
	}
}

func historyToDTO(v history.History) historyDTO {
	return historyDTO{
		ID:           v.ID,
		MatchID:      v.MatchID,
		HomeTeamID:   v.HomeTeamID,
		AwayTeamID:   v.AwayTeamID,
		HomeScore:    v.HomeScore,
		AwayScore:    v.AwayScore,
		MatchDateUTC: formatTime(v.MatchDate),
	}
}
