package httpapi

import (
	"net/http"
	"strings"
)

func (h *Handler) GetLeaderboards(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLeaderboards")
	defer span.End()

	limit, err := queryLimit(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	boards, err := h.rankingService.Leaderboards(ctx, limit)
	if err != nil {
		h.logger.WarnContext(ctx, "leaderboards failed", "limit", limit, "error", err)
		writeError(ctx, w, err)
		return
	}

	out := leaderboardsDTO{
		Limit:      boards.Limit,
		Categories: make(map[string][]rankedMemberDTO, len(boards.Categories)),
	}
	for category, ranked := range boards.Categories {
		items := make([]rankedMemberDTO, 0, len(ranked))
		for _, m := range ranked {
			items = append(items, rankedMemberDTO{
				Rank:     m.Rank,
				MemberID: m.MemberID,
				Nickname: m.Nickname,
				Points:   m.Points,
			})
		}
		out.Categories[string(category)] = items
	}
	writeSuccess(ctx, w, http.StatusOK, out)
}

func (h *Handler) GetMemberRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMemberRanking")
	defer span.End()

	memberID := strings.TrimSpace(r.PathValue("memberID"))
	if memberID == "me" {
		requester, err := requesterID(ctx)
		if err != nil {
			writeError(ctx, w, err)
			return
		}
		memberID = requester
	}

	ranking, err := h.rankingService.MemberRank(ctx, memberID)
	if err != nil {
		h.logger.WarnContext(ctx, "member ranking failed", "member_id", memberID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, memberRankingDTO{
		MemberID:      ranking.MemberID,
		Nickname:      ranking.Nickname,
		Position:      string(ranking.Position),
		MVPPoint:      ranking.MVPPoint,
		PositionPoint: ranking.PositionPoint,
		PositionRank:  ranking.PositionRank,
	})
}
