package httpapi

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	sonic "github.com/bytedance/sonic"
	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/domain/user"
	"github.com/riskibarqy/ninety-minute/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/ninety-minute/internal/platform/id"
	"github.com/riskibarqy/ninety-minute/internal/platform/logging"
	"github.com/riskibarqy/ninety-minute/internal/usecase"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	homeLeaderToken = "token-home-leader"
	awayLeaderToken = "token-away-leader"
	homePlayerToken = "token-home-player"
)

type staticVerifier map[string]string

func (v staticVerifier) VerifyAccessToken(_ context.Context, token string) (user.Principal, error) {
	memberID, ok := v[token]
	if !ok {
		return user.Principal{}, errors.Wrap(usecase.ErrUnauthorized, "unknown token")
	}
	return user.Principal{UserID: memberID}, nil
}

type envelope[T any] struct {
	APIVersion string           `json:"apiVersion"`
	Data       T                `json:"data"`
	Error      *googleErrorBody `json:"error"`
}

func newTestRouter(t *testing.T) http.Handler {
	t.Helper()

	store := memory.NewStore()
	require.NoError(t, memory.SeedDemo(t.Context(), store, time.Now().UTC()))

	logger := logging.NewNop()
	idGen := id.NewUUIDGenerator()
	rankings := usecase.NewRankingService(store, usecase.RankingServiceConfig{CacheTTL: time.Minute}, logger)
	handler := NewHandler(
		usecase.NewTeamService(store, idGen, logger),
		usecase.NewProposalService(store, idGen, logger),
		usecase.NewMatchService(store, logger),
		usecase.NewLineupService(store, idGen, logger),
		usecase.NewSettlementService(store, idGen, rankings, logger),
		rankings,
		logger,
	)
	verifier := staticVerifier{
		homeLeaderToken: memory.DemoLeaderHomeID,
		awayLeaderToken: memory.DemoLeaderAwayID,
		homePlayerToken: memory.DemoPlayerHomeID,
	}
	return NewRouter(handler, verifier, logger, true, nil)
}

func call(t *testing.T, router http.Handler, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var payload []byte
	if body != nil {
		raw, err := sonic.Marshal(body)
		require.NoError(t, err)
		payload = raw
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeData[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()

	var out envelope[T]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	require.Nil(t, out.Error)
	return out.Data
}

func errorStatus(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()

	var out envelope[any]
	require.NoError(t, sonic.Unmarshal(rec.Body.Bytes(), &out), rec.Body.String())
	require.NotNil(t, out.Error)
	return out.Error.Status
}

func scheduleViaAPI(t *testing.T, router http.Handler) scheduledMatchDTO {
	t.Helper()

	rec := call(t, router, http.MethodPost, "/v1/proposals", awayLeaderToken, map[string]any{
		"proposing_team_id": memory.DemoTeamAwayID,
		"target_team_id":    memory.DemoTeamHomeID,
		"greeting":          "Main Sabtu pagi?",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	created := decodeData[proposalDTO](t, rec)

	rec = call(t, router, http.MethodPost, "/v1/proposals/"+created.ID+"/approve", homeLeaderToken, map[string]any{
		"match_date": time.Now().Add(72 * time.Hour).UTC().Format(time.RFC3339),
		"location":   "Lapangan Blok S",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	return decodeData[scheduledMatchDTO](t, rec)
}

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", decodeData[map[string]string](t, rec)["status"])
}

func TestRouter_RequiresBearerToken(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodGet, "/v1/teams/"+memory.DemoTeamHomeID, "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "UNAUTHENTICATED", errorStatus(t, rec))

	rec = call(t, router, http.MethodGet, "/v1/teams/"+memory.DemoTeamHomeID, "bogus", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRouter_MatchLifecycle(t *testing.T) {
	router := newTestRouter(t)
	scheduled := scheduleViaAPI(t, router)
	assert.Equal(t, memory.DemoTeamHomeID, scheduled.HomeTeamID)
	assert.Equal(t, "Kemang Rovers", scheduled.HomeTeamName)

	rec := call(t, router, http.MethodGet, "/v1/teams/"+memory.DemoTeamHomeID+"/matches", homePlayerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	listed := decodeData[[]scheduledSummaryDTO](t, rec)
	require.Len(t, listed, 1)
	assert.Equal(t, "scheduled", listed[0].Stage)

	rec = call(t, router, http.MethodPut, "/v1/matches/"+scheduled.ID+"/lineups/"+memory.DemoTeamHomeID, homeLeaderToken, map[string]any{
		"entries": []map[string]any{
			{"member_id": memory.DemoLeaderHomeID, "position": "midfielder"},
			{"member_id": memory.DemoPlayerHomeID, "position": "striker"},
			{"anonymous": true, "position": "defender"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Len(t, decodeData[[]lineupEntryDTO](t, rec), 3)

	rec = call(t, router, http.MethodPost, "/v1/matches/"+scheduled.ID+"/score", homeLeaderToken, map[string]any{"score": 2, "opponent_score": 1})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	assert.Equal(t, "score_reported", decodeData[resultDTO](t, rec).Stage)

	rec = call(t, router, http.MethodPost, "/v1/matches/"+scheduled.ID+"/score/confirm", awayLeaderToken, nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = call(t, router, http.MethodPost, "/v1/matches/"+scheduled.ID+"/score/confirm", homeLeaderToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = call(t, router, http.MethodPost, "/v1/matches/"+scheduled.ID+"/result", homeLeaderToken, map[string]any{
		"scorers":              []map[string]any{{"member_id": memory.DemoPlayerHomeID}, {"anonymous": true}},
		"mvp_member_id":        memory.DemoPlayerHomeID,
		"mood_maker_member_id": memory.DemoLeaderHomeID,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	settled := decodeData[settlementDTO](t, rec)
	assert.Equal(t, "settled", settled.Result.Stage)
	assert.Equal(t, "rafi", settled.Result.MVPNickname)
	assert.Equal(t, 2, settled.ScorerCount)
	assert.Equal(t, 1, settled.Records[memory.DemoTeamHomeID].WinCount)
	assert.Equal(t, 1, settled.Records[memory.DemoTeamAwayID].LoseCount)

	rec = call(t, router, http.MethodPost, "/v1/matches/"+scheduled.ID+"/result", homeLeaderToken, map[string]any{
		"mvp_member_id":        memory.DemoPlayerHomeID,
		"mood_maker_member_id": memory.DemoLeaderHomeID,
	})
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = call(t, router, http.MethodGet, "/v1/teams/"+memory.DemoTeamHomeID+"/history", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	history := decodeData[[]historyDTO](t, rec)
	require.Len(t, history, 1)
	assert.Equal(t, 2, history[0].HomeScore)

	rec = call(t, router, http.MethodGet, "/v1/rankings?limit=3", "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	boards := decodeData[leaderboardsDTO](t, rec)
	require.NotEmpty(t, boards.Categories["mvp"])
	assert.Equal(t, memory.DemoPlayerHomeID, boards.Categories["mvp"][0].MemberID)

	rec = call(t, router, http.MethodGet, "/v1/rankings/members/me", homePlayerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, 1, decodeData[memberRankingDTO](t, rec).MVPPoint)
}

func TestRouter_ErrorMapping(t *testing.T) {
	router := newTestRouter(t)
	scheduled := scheduleViaAPI(t, router)

	tests := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		status int
	}{
		{
			name:   "self targeting proposal",
			method: http.MethodPost,
			path:   "/v1/proposals",
			token:  awayLeaderToken,
			body:   map[string]any{"proposing_team_id": memory.DemoTeamAwayID, "target_team_id": memory.DemoTeamAwayID},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown field",
			method: http.MethodPost,
			path:   "/v1/teams",
			token:  homePlayerToken,
			body:   map[string]any{"name": "Tebet FC", "colour": "red"},
			status: http.StatusBadRequest,
		},
		{
			name:   "duplicate open proposal",
			method: http.MethodPost,
			path:   "/v1/proposals",
			token:  awayLeaderToken,
			body:   map[string]any{"proposing_team_id": memory.DemoTeamAwayID, "target_team_id": memory.DemoTeamHomeID},
			status: http.StatusConflict,
		},
		{
			name:   "confirm without report",
			method: http.MethodPost,
			path:   "/v1/matches/" + scheduled.ID + "/score/confirm",
			token:  homeLeaderToken,
			status: http.StatusPreconditionFailed,
		},
		{
			name:   "player cannot report",
			method: http.MethodPost,
			path:   "/v1/matches/" + scheduled.ID + "/score",
			token:  homePlayerToken,
			body:   map[string]any{"score": 1, "opponent_score": 0},
			status: http.StatusForbidden,
		},
		{
			name:   "missing score field",
			method: http.MethodPost,
			path:   "/v1/matches/" + scheduled.ID + "/score",
			token:  homeLeaderToken,
			body:   map[string]any{"score": 1},
			status: http.StatusBadRequest,
		},
		{
			name:   "unknown match",
			method: http.MethodGet,
			path:   "/v1/matches/does-not-exist",
			token:  homeLeaderToken,
			status: http.StatusNotFound,
		},
		{
			name:   "bad limit",
			method: http.MethodGet,
			path:   "/v1/rankings?limit=abc",
			status: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := call(t, router, tt.method, tt.path, tt.token, tt.body)
			assert.Equal(t, tt.status, rec.Code, rec.Body.String())
		})
	}
}

func TestRouter_CancelAndDisband(t *testing.T) {
	router := newTestRouter(t)
	scheduled := scheduleViaAPI(t, router)

	rec := call(t, router, http.MethodDelete, "/v1/teams/"+memory.DemoTeamHomeID, homeLeaderToken, nil)
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = call(t, router, http.MethodDelete, "/v1/matches/"+scheduled.ID, awayLeaderToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = call(t, router, http.MethodDelete, "/v1/teams/"+memory.DemoTeamHomeID, homeLeaderToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = call(t, router, http.MethodGet, "/v1/teams/"+memory.DemoTeamHomeID, homeLeaderToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_RosterChanges(t *testing.T) {
	router := newTestRouter(t)

	rec := call(t, router, http.MethodGet, "/v1/members/me/participations", homePlayerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	mine := decodeData[[]memberParticipationDTO](t, rec)
	require.Len(t, mine, 1)
	assert.Equal(t, "Kemang Rovers", mine[0].TeamName)
	assert.True(t, mine[0].Approved)

	rec = call(t, router, http.MethodPut, "/v1/teams/"+memory.DemoTeamHomeID, homeLeaderToken, map[string]any{
		"introduce": "Main tiap Minggu",
		"main_area": "Kemang",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	assert.Equal(t, "Kemang", decodeData[teamDTO](t, rec).MainArea)

	rec = call(t, router, http.MethodDelete, "/v1/teams/"+memory.DemoTeamHomeID+"/participations/me", homeLeaderToken, nil)
	require.Equal(t, http.StatusPreconditionFailed, rec.Code)

	rec = call(t, router, http.MethodDelete, "/v1/teams/"+memory.DemoTeamHomeID+"/participations/me", homePlayerToken, nil)
	require.Equal(t, http.StatusNoContent, rec.Code, rec.Body.String())

	rec = call(t, router, http.MethodDelete, "/v1/teams/"+memory.DemoTeamHomeID+"/participations/"+memory.DemoPlayerHomeID, homeLeaderToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, router, http.MethodPost, "/v1/teams/"+memory.DemoTeamAwayID+"/participations/"+memory.DemoPlayerHomeID+"/decline", awayLeaderToken, nil)
	require.Equal(t, http.StatusNotFound, rec.Code)

	rec = call(t, router, http.MethodGet, "/v1/members/me/participations", homePlayerToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, decodeData[[]memberParticipationDTO](t, rec))
}
