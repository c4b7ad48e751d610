package httpapi

import (
	"net/http"
	"strings"

	"github.com/riskibarqy/ninety-minute/internal/usecase"
)

type createTeamRequest struct {
	Name      string `json:"name" validate:"required,max=30"`
	Introduce string `json:"introduce" validate:"max=500"`
	MainArea  string `json:"main_area" validate:"max=60"`
}

type updateTeamRequest struct {
	Introduce string `json:"introduce" validate:"max=500"`
	MainArea  string `json:"main_area" validate:"max=60"`
}

type toggleRequest struct {
	Enabled  *bool  `json:"enabled" validate:"required"`
	Question string `json:"question" validate:"max=200"`
}

func (h *Handler) CreateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreateTeam")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req createTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.teamService.CreateTeam(ctx, usecase.CreateTeamInput{
		RequesterID: requester,
		Name:        req.Name,
		Introduce:   req.Introduce,
		MainArea:    req.MainArea,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "create team failed", "requester_id", requester, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, teamToDTO(created))
}

func (h *Handler) GetTeamOverview(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetTeamOverview")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	overview, err := h.teamService.TeamOverview(ctx, teamID, requester)
	if err != nil {
		h.logger.WarnContext(ctx, "team overview failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := teamOverviewDTO{
		Team:           teamToDTO(overview.Team),
		Record:         recordToDTO(overview.Record),
		MemberCount:    overview.MemberCount,
		RequesterLeads: overview.RequesterLeads,
	}
	if overview.LastMatch != nil {
		last := historyToDTO(*overview.LastMatch)
		out.LastMatch = &last
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) SetMatchSeeking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetMatchSeeking")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req toggleRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	updated, err := h.teamService.SetMatchSeeking(ctx, teamID, requester, *req.Enabled)
	if err != nil {
		h.logger.WarnContext(ctx, "set match seeking failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(updated))
}

func (h *Handler) SetRecruiting(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SetRecruiting")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req toggleRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	updated, err := h.teamService.SetRecruiting(ctx, teamID, requester, *req.Enabled, req.Question)
	if err != nil {
		h.logger.WarnContext(ctx, "set recruiting failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(updated))
}

func (h *Handler) RequestParticipation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RequestParticipation")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	created, err := h.teamService.RequestParticipation(ctx, teamID, requester)
	if err != nil {
		h.logger.WarnContext(ctx, "request participation failed", "team_id", teamID, "requester_id", requester, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, participationToDTO(created))
}

func (h *Handler) ApproveParticipation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveParticipation")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	memberID := strings.TrimSpace(r.PathValue("memberID"))
	approved, err := h.teamService.ApproveParticipation(ctx, teamID, requester, memberID)
	if err != nil {
		h.logger.WarnContext(ctx, "approve participation failed", "team_id", teamID, "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, participationToDTO(approved))
}

func (h *Handler) UpdateTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.UpdateTeam")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req updateTeamRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	updated, err := h.teamService.UpdateTeam(ctx, usecase.UpdateTeamInput{
		TeamID:      teamID,
		RequesterID: requester,
		Introduce:   req.Introduce,
		MainArea:    req.MainArea,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "update team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, teamToDTO(updated))
}

func (h *Handler) DeclineParticipation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DeclineParticipation")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	memberID := strings.TrimSpace(r.PathValue("memberID"))
	if err := h.teamService.DeclineParticipation(ctx, teamID, requester, memberID); err != nil {
		h.logger.WarnContext(ctx, "decline participation failed", "team_id", teamID, "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) ReleaseMember(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ReleaseMember")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	memberID := strings.TrimSpace(r.PathValue("memberID"))
	if err := h.teamService.ReleaseMember(ctx, teamID, requester, memberID); err != nil {
		h.logger.WarnContext(ctx, "release member failed", "team_id", teamID, "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) LeaveTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.LeaveTeam")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	if err := h.teamService.LeaveTeam(ctx, teamID, requester); err != nil {
		h.logger.WarnContext(ctx, "leave team failed", "team_id", teamID, "requester_id", requester, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) ListMyParticipations(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMyParticipations")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	items, err := h.teamService.ListParticipations(ctx, requester)
	if err != nil {
		h.logger.WarnContext(ctx, "list participations failed", "requester_id", requester, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]memberParticipationDTO, 0, len(items))
	for _, item := range items {
		out = append(out, memberParticipationDTO{
			participationDTO: participationToDTO(item.Participation),
			TeamName:         item.TeamName,
		})
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) DisbandTeam(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.DisbandTeam")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	if err := h.teamService.DisbandTeam(ctx, teamID, requester); err != nil {
		h.logger.WarnContext(ctx, "disband team failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) ListTeamHistory(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamHistory")
	defer span.End()

	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	items, err := h.matchService.TeamHistory(ctx, teamID, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "team history failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := make([]historyDTO, 0, len(items))
	for _, item := range items {
		out = append(out, historyToDTO(item))
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}
