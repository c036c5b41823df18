package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"contesthub/internal/api/middleware"
	"contesthub/internal/app/service"
	"contesthub/internal/common"

	"github.com/go-chi/chi/v5"
)

type ContestHandler struct {
	contestService *service.ContestService
}

func NewContestHandler(contestService *service.ContestService) *ContestHandler {
	return &ContestHandler{contestService: contestService}
}

func (h *ContestHandler) RegisterRoutes(r chi.Router, rc *middleware.RoleChecker) {
	// Public reads
	r.Get("/contests", h.listContests)
	r.Get("/contests/popular", h.popularContests)
	r.Get("/contests/{contestID}", h.getContest)

	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Authenticator)
		pr.Get("/contests/won/{email}", h.wonContests)

		pr.Group(func(cr chi.Router) {
			cr.Use(rc.RequireCreator)
			cr.Post("/contests", h.createContest)
			cr.Put("/contests/{contestID}", h.updateContest)
			cr.Delete("/contests/{contestID}", h.deleteContest)
			cr.Get("/contests/creator/{email}", h.creatorContests)
			cr.Patch("/contests/winner/{contestID}", h.declareWinner)
		})

		pr.Group(func(ar chi.Router) {
			ar.Use(rc.RequireAdmin)
			ar.Get("/admin/contests", h.adminListContests)
			ar.Patch("/admin/contests/{contestID}", h.approveContest)
			ar.Delete("/admin/contests/{contestID}", h.adminDeleteContest)
		})
	})
}

func (h *ContestHandler) listContests(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))

	contests, count, err := h.contestService.List(r.Context(), service.ListContestsRequest{
		Search: r.URL.Query().Get("search"),
		Type:   r.URL.Query().Get("type"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, common.ListResponse{Result: contests, Count: count})
}

func (h *ContestHandler) popularContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.Popular(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ContestHandler) getContest(w http.ResponseWriter, r *http.Request) {
	contest, err := h.contestService.Get(r.Context(), chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) createContest(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateContestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	contest, err := h.contestService.Create(r.Context(), email, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, contest)
}

func (h *ContestHandler) updateContest(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.GetUserEmailFromContext(r.Context())

	var req service.CreateContestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	contest, err := h.contestService.Update(r.Context(), email, chi.URLParam(r, "contestID"), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) deleteContest(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.GetUserEmailFromContext(r.Context())
	if err := h.contestService.Delete(r.Context(), email, chi.URLParam(r, "contestID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (h *ContestHandler) creatorContests(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	principal, _ := middleware.GetUserEmailFromContext(r.Context())
	if principal != email {
		common.RespondWithError(w, http.StatusForbidden, "forbidden access")
		return
	}

	contests, err := h.contestService.ListByCreator(r.Context(), email)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ContestHandler) declareWinner(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.GetUserEmailFromContext(r.Context())

	var req struct {
		WinnerID string `json:"winnerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request: "+err.Error())
		return
	}

	contest, err := h.contestService.DeclareWinner(r.Context(), email, chi.URLParam(r, "contestID"), req.WinnerID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contest)
}

func (h *ContestHandler) wonContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.ListWonBy(r.Context(), chi.URLParam(r, "email"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ContestHandler) adminListContests(w http.ResponseWriter, r *http.Request) {
	contests, err := h.contestService.AdminList(r.Context())
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, contests)
}

func (h *ContestHandler) approveContest(w http.ResponseWriter, r *http.Request) {
	if err := h.contestService.Approve(r.Context(), chi.URLParam(r, "contestID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"approved": true})
}

func (h *ContestHandler) adminDeleteContest(w http.ResponseWriter, r *http.Request) {
	if err := h.contestService.AdminDelete(r.Context(), chi.URLParam(r, "contestID")); err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}
