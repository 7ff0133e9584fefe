package settlement

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmasri/hometab/pkg/middleware"
	"github.com/tmasri/hometab/pkg/response"
)

// Handler handles HTTP requests for derived balance and settlement views
type Handler struct {
	service *Service
}

// NewHandler creates a new settlement handler
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// Routes returns the router for settlement endpoints
func (h *Handler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/balances", h.Balances)
	r.Get("/", h.Settlements)
	r.Get("/mine", h.MySettlements)

	return r
}

// Balances handles GET /settlements/balances
// @Summary      Compute net balances
// @Description  Net balance per household member with any activity: positive is owed money, negative owes
// @Tags         settlements
// @Produce      json
// @Success      200 {object} response.APIResponse{data=[]BalanceEntry}
// @Router       /settlements/balances [get]
func (h *Handler) Balances(w http.ResponseWriter, r *http.Request) {
	householdID, ok := middleware.GetHouseholdID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing identity")
		return
	}

	entries, err := h.service.Balances(r.Context(), householdID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, entries)
}

// Settlements handles GET /settlements
// @Summary      Compute the settlement plan
// @Description  The smallest set of transfers that zeroes all net balances, with the planner's scale factor
// @Tags         settlements
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Plan}
// @Failure      500 {object} response.APIResponse
// @Router       /settlements [get]
func (h *Handler) Settlements(w http.ResponseWriter, r *http.Request) {
	householdID, ok := middleware.GetHouseholdID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing identity")
		return
	}

	plan, err := h.service.Settlements(r.Context(), householdID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, plan)
}

// MySettlements handles GET /settlements/mine
// @Summary      Compute the caller's slice of the settlement plan
// @Tags         settlements
// @Produce      json
// @Success      200 {object} response.APIResponse{data=Plan}
// @Router       /settlements/mine [get]
func (h *Handler) MySettlements(w http.ResponseWriter, r *http.Request) {
	householdID, ok := middleware.GetHouseholdID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing identity")
		return
	}
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		response.Unauthorized(w, "Missing identity")
		return
	}

	plan, err := h.service.MySettlements(r.Context(), householdID, userID)
	if err != nil {
		response.FromError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, plan)
}
