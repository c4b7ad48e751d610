package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/ninety-minute/internal/usecase"
)

type lineupEntryRequest struct {
	MemberID  string `json:"member_id" validate:"required_without=Anonymous,excluded_with=Anonymous"`
	Anonymous bool   `json:"anonymous"`
	Position  string `json:"position" validate:"required,oneof=striker midfielder defender goalkeeper"`
}

type setLineupRequest struct {
	Entries []lineupEntryRequest `json:"entries" validate:"required,min=1,max=30,dive"`
}

type scoreRequest struct {
	Score         *int `json:"score" validate:"required,gte=0,lte=99"`
	OpponentScore *int `json:"opponent_score" validate:"required,gte=0,lte=99"`
}

type scorerRequest struct {
	MemberID  string `json:"member_id" validate:"required_without=Anonymous,excluded_with=Anonymous"`
	Anonymous bool   `json:"anonymous"`
}

type recordResultRequest struct {
	Scorers           []scorerRequest      `json:"scorers" validate:"max=99,dive"`
	Substitutes       []lineupEntryRequest `json:"substitutes" validate:"max=30,dive"`
	MVPMemberID       string               `json:"mvp_member_id" validate:"required"`
	MoodMakerMemberID string               `json:"mood_maker_member_id" validate:"required"`
}

func entryInputs(items []lineupEntryRequest) []usecase.EntryInput {
	out := make([]usecase.EntryInput, 0, len(items))
	for _, item := range items {
		out = append(out, usecase.EntryInput{
			MemberID:  item.MemberID,
			Anonymous: item.Anonymous,
			Position:  item.Position,
		})
	}
	return out
}

func (h *Handler) ListScheduledMatches(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListScheduledMatches")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	items, err := h.matchService.ListScheduled(ctx, teamID, requester)
	if err != nil {
		h.logger.WarnContext(ctx, "list scheduled matches failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]scheduledSummaryDTO, 0, len(items))
	for _, item := range items {
		out = append(out, scheduledSummaryDTO{
			Match:        scheduledToDTO(item.Match),
			OpponentID:   item.OpponentID,
			OpponentName: item.OpponentName,
			Home:         item.Home,
			DaysUntil:    item.DaysUntil,
			Stage:        string(item.Stage),
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMatch")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	detail, err := h.matchService.GetScheduled(ctx, matchID, requester)
	if err != nil {
		h.logger.WarnContext(ctx, "get match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := matchDetailDTO{
		Match:           scheduledToDTO(detail.Match),
		Stage:           string(detail.Stage),
		DaysUntil:       detail.DaysUntil,
		RequesterTeamID: detail.RequesterTeamID,
		RequesterLeads:  detail.RequesterLeads,
		HomeRecord:      recordToDTO(detail.HomeRecord),
		AwayRecord:      recordToDTO(detail.AwayRecord),
		HomeLineup:      lineupToDTO(detail.HomeLineup),
		AwayLineup:      lineupToDTO(detail.AwayLineup),
	}
	if detail.Result != nil {
		res := resultToDTO(*detail.Result)
		out.Result = &res
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) CancelMatch(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CancelMatch")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	if err := h.proposalService.Cancel(ctx, matchID, requester); err != nil {
		h.logger.WarnContext(ctx, "cancel match failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) AcknowledgeMatchEnd(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.AcknowledgeMatchEnd")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	updated, err := h.matchService.AcknowledgeEnd(ctx, matchID, requester)
	if err != nil {
		h.logger.WarnContext(ctx, "acknowledge match end failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, proposalToDTO(updated))
}

func (h *Handler) SetLineup(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetLineup")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req setLineupRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	teamID := strings.TrimSpace(r.PathValue("teamID"))
	entries, err := h.lineupService.SetLineup(ctx, usecase.SetLineupInput{
		MatchID:     matchID,
		TeamID:      teamID,
		RequesterID: requester,
		Entries:     entryInputs(req.Entries),
	})
	if err != nil {
		h.logger.WarnContext(ctx, "set lineup failed", "match_id", matchID, "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, lineupToDTO(entries))
}

func (h *Handler) ReportScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReportScore")
	defer span.End()

	input, ok := h.scoreInput(w, r)
	if !ok {
		return
	}

	reported, err := h.settlementService.ReportScore(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "report score failed", "match_id", input.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, resultToDTO(reported))
}

func (h *Handler) CorrectScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CorrectScore")
	defer span.End()

	input, ok := h.scoreInput(w, r)
	if !ok {
		return
	}

	corrected, err := h.settlementService.CorrectScore(ctx, input)
	if err != nil {
		h.logger.WarnContext(ctx, "correct score failed", "match_id", input.MatchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultToDTO(corrected))
}

func (h *Handler) scoreInput(w http.ResponseWriter, r *http.Request) (usecase.ScoreInput, bool) {
	ctx := r.Context()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return usecase.ScoreInput{}, false
	}

	var req scoreRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return usecase.ScoreInput{}, false
	}

	return usecase.ScoreInput{
		MatchID:       strings.TrimSpace(r.PathValue("matchID")),
		RequesterID:   requester,
		Score:         *req.Score,
		OpponentScore: *req.OpponentScore,
	}, true
}

func (h *Handler) ConfirmScore(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ConfirmScore")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	confirmed, err := h.settlementService.ConfirmScore(ctx, matchID, requester)
	if err != nil {
		h.logger.WarnContext(ctx, "confirm score failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resultToDTO(confirmed))
}

func (h *Handler) RecordResult(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RecordResult")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req recordResultRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	scorers := make([]usecase.ScorerInput, 0, len(req.Scorers))
	for _, s := range req.Scorers {
		scorers = append(scorers, usecase.ScorerInput{MemberID: s.MemberID, Anonymous: s.Anonymous})
	}

	matchID := strings.TrimSpace(r.PathValue("matchID"))
	settled, err := h.settlementService.RecordResult(ctx, usecase.RecordResultInput{
		MatchID:           matchID,
		RequesterID:       requester,
		Scorers:           scorers,
		Substitutes:       entryInputs(req.Substitutes),
		MVPMemberID:       req.MVPMemberID,
		MoodMakerMemberID: req.MoodMakerMemberID,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "record result failed", "match_id", matchID, "error", err)
		writeError(ctx, w, err)
		return
	}

	records := make(map[string]recordDTO, len(settled.Records))
	for teamID, rec := range settled.Records {
		records[teamID] = recordToDTO(rec)
	}
	writeSuccess(ctx, w, http.StatusOK, settlementDTO{
		Result:      resultToDTO(settled.Result),
		History:     historyToDTO(settled.History),
		Substitutes: lineupToDTO(settled.Substitutes),
		ScorerCount: len(settled.Scorers),
		Records:     records,
	})
}
