package handler

import (
	"encoding/json"
	"net/http"

	"contesthub/internal/api/middleware"
	"contesthub/internal/app/service"
	"contesthub/internal/common"
	"contesthub/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

type PaymentHandler struct {
	paymentService *service.PaymentService
}

func NewPaymentHandler(paymentService *service.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

func (h *PaymentHandler) RegisterRoutes(r chi.Router) {
	r.Group(func(pr chi.Router) {
		pr.Use(middleware.Authenticator)
		pr.Post("/create-checkout-session", h.createCheckoutSession)
		pr.Post("/confirm-payment", h.confirmPayment)
		pr.Get("/payments/user/{email}", h.listPayments)
	})
}

func (h *PaymentHandler) createCheckoutSession(w http.ResponseWriter, r *http.Request) {
	var req service.CreateCheckoutSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}
	// The payer is the authenticated principal regardless of the body.
	if email, ok := middleware.GetUserEmailFromContext(r.Context()); ok {
		req.UserEmail = email
	}

	url, err := h.paymentService.CreateCheckoutSession(r.Context(), req)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, map[string]string{"url": url})
}

type confirmPaymentResponse struct {
	Success       bool           `json:"success"`
	Message       string         `json:"message,omitempty"`
	PaymentResult *paymentResult `json:"paymentResult,omitempty"`
}

type paymentResult struct {
	AlreadyProcessed bool           `json:"alreadyProcessed"`
	Payment          *model.Payment `json:"payment"`
}

func (h *PaymentHandler) confirmPayment(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload: "+err.Error())
		return
	}

	result, err := h.paymentService.ConfirmPayment(r.Context(), req.SessionID)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	if !result.Confirmed {
		common.RespondWithJSON(w, http.StatusOK, confirmPaymentResponse{Success: false, Message: result.Reason})
		return
	}
	common.RespondWithJSON(w, http.StatusOK, confirmPaymentResponse{
		Success: true,
		PaymentResult: &paymentResult{
			AlreadyProcessed: result.AlreadyProcessed,
			Payment:          result.Payment,
		},
	})
}

func (h *PaymentHandler) listPayments(w http.ResponseWriter, r *http.Request) {
	email := chi.URLParam(r, "email")
	principal, _ := middleware.GetUserEmailFromContext(r.Context())
	if principal != email {
		common.RespondWithError(w, http.StatusForbidden, "forbidden access")
		return
	}

	payments, err := h.paymentService.ListPaymentsByEmail(r.Context(), email)
	if err != nil {
		common.RespondWithError(w, common.HTTPStatusFromError(err), err.Error())
		return
	}
	common.RespondWithJSON(w, http.StatusOK, payments)
}
