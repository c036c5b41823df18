package handler

import (
	"encoding/json"
	"net/http"

	"contesthub/internal/api/middleware"
	"contesthub/internal/app/service"
	"contesthub/internal/common"

	"github.com/go-chi/chi/v5"
)

type SubmissionHandler struct {
	submissionService *service.SubmissionService
}

func NewSubmissionHandler(submissionService *service.SubmissionService) *SubmissionHandler {
	return &SubmissionHandler{submissionService: submissionService}
}

func (h *SubmissionHandler) RegisterRoutes(r chi.Router, rc *middleware.RoleChecker) {
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Authenticator)
		pr.Post("/submissions", h.createSubmission)
		pr.Get("/submissions/user/{email}", h.participantSubmissions)

		pr.Group(func(cr chi.Router) {
			cr.Use(rc.RequireCreator)
			cr.Get("/submissions/contest/{contestID}", h.contestSubmissions)
		})
	})
}

func (h *SubmissionHandler) createSubmission(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmailFromContext(r.Context())
	if !ok {
		common.RespondWithError(w, http.StatusUnauthorized, "Missing user context")
		return
	}

	var req service.CreateSubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	submission, err := h.submissionService.Create(r.Context(), email, req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusCreated, submission)
}

func (h *SubmissionHandler) contestSubmissions(w http.ResponseWriter, r *http.Request) {
	email, _ := middleware.GetUserEmailFromContext(r.Context())
	submissions, err := h.submissionService.ListByContest(r.Context(), email, chi.URLParam(r, "contestID"))
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}

func (h *SubmissionHandler) participantSubmissions(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	principal, _ := middleware.GetUserEmailFromContext(r.Context())
	if principal != email {
		common.RespondWithError(w, http.StatusForbidden, "forbidden access")
		return
	}

	submissions, err := h.submissionService.ListByParticipant(r.Context(), email)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, submissions)
}
