package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/riskibarqy/ninety-minute/internal/usecase"
)

type proposeRequest struct {
	ProposingTeamID string `json:"proposing_team_id" validate:"required"`
	TargetTeamID    string `json:"target_team_id" validate:"required,nefield=ProposingTeamID"`
	Greeting        string `json:"greeting" validate:"max=200"`
}

type approveProposalRequest struct {
	MatchDate string `json:"match_date" validate:"required,datetime=2006-01-02T15:04:05Z07:00"`
	Location  string `json:"location" validate:"required,max=120"`
}

func (h *Handler) Propose(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Propose")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req proposeRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	created, err := h.proposalService.Propose(ctx, usecase.ProposeInput{
		ProposingTeamID: req.ProposingTeamID,
		TargetTeamID:    req.TargetTeamID,
		RequesterID:     requester,
		Greeting:        req.Greeting,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "propose match failed",
			"proposing_team_id", req.ProposingTeamID,
			"target_team_id", req.TargetTeamID,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, proposalToDTO(created))
}

func (h *Handler) ApproveProposal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ApproveProposal")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	var req approveProposalRequest
	if err := h.decodeRequest(ctx, r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}
	matchDate, err := time.Parse(time.RFC3339, req.MatchDate)
	if err != nil {
		writeError(ctx, w, errors.Wrapf(usecase.ErrInvalidInput, "match_date: %v", err))
		return
	}

	proposalID := strings.TrimSpace(r.PathValue("proposalID"))
	scheduled, err := h.proposalService.Approve(ctx, usecase.ApproveInput{
		ProposalID:  proposalID,
		RequesterID: requester,
		MatchDate:   matchDate,
		Location:    req.Location,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "approve proposal failed", "proposal_id", proposalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusCreated, scheduledToDTO(scheduled))
}

func (h *Handler) RejectProposal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RejectProposal")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	proposalID := strings.TrimSpace(r.PathValue("proposalID"))
	if err := h.proposalService.Reject(ctx, proposalID, requester); err != nil {
		h.logger.WarnContext(ctx, "reject proposal failed", "proposal_id", proposalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) WithdrawProposal(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.WithdrawProposal")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	proposalID := strings.TrimSpace(r.PathValue("proposalID"))
	if err := h.proposalService.Withdraw(ctx, proposalID, requester); err != nil {
		h.logger.WarnContext(ctx, "withdraw proposal failed", "proposal_id", proposalID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeNoContent(w)
}

func (h *Handler) ListIncomingProposals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListIncomingProposals")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	items, err := h.proposalService.ListIncoming(ctx, teamID, requester)
	if err != nil {
		h.logger.WarnContext(ctx, "list incoming proposals failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, proposalSummariesToDTO(items))
}

func (h *Handler) ListOutgoingProposals(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListOutgoingProposals")
	defer span.End()

	requester, err := requesterID(ctx)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	teamID := strings.TrimSpace(r.PathValue("teamID"))
	items, err := h.proposalService.ListOutgoing(ctx, teamID, requester)
	if err != nil {
		h.logger.WarnContext(ctx, "list outgoing proposals failed", "team_id", teamID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, proposalSummariesToDTO(items))
}
