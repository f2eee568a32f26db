package http

import (
	"net/http"
	"strconv"

	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/utils"

	"github.com/gorilla/mux"
)

type priceRequest struct {
	Price int64 `json:"price" validate:"gt=0,lte=1000000000000"`
}

type applyTemplateRequest struct {
	Exclude []string `json:"exclude"`
}

type redistributeRequest struct {
	Prices []int64 `json:"prices" validate:"required,min=1,dive,gte=0,lte=1000000000000"`
	Target int64   `json:"target" validate:"gte=0,lte=1000000000000"`
}

type redistributeResponse struct {
	Prices []int64 `json:"prices"`
	Total  int64   `json:"total"`
}

// ListEquipment filters by category, status and q. available=true restricts
// the result to units that can be allocated.
func (h *Handler) ListEquipment(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	category := domain.EquipmentCategory(q.Get("category"))

	var (
		units []domain.Equipment
		err   error
	)
	if available, _ := strconv.ParseBool(q.Get("available")); available {
		units, err = h.svc.Inventory.ListAvailable(r.Context(), category)
	} else {
		units, err = h.svc.Inventory.ListEquipment(r.Context(), domain.EquipmentFilter{
			Category: category,
			Status:   domain.EquipmentStatus(q.Get("status")),
			Query:    q.Get("q"),
		})
	}
	if err != nil {
		writeError(w, err)
		return
	}
	if units == nil {
		units = []domain.Equipment{}
	}
	writeJSON(w, http.StatusOK, units)
}

func (h *Handler) ListModels(w http.ResponseWriter, r *http.Request) {
	models, err := h.svc.Inventory.ListModelSummaries(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, models)
}

func (h *Handler) GetEquipment(w http.ResponseWriter, r *http.Request) {
	unit, err := h.svc.Inventory.GetEquipment(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, unit)
}

func (h *Handler) GetMovements(w http.ResponseWriter, r *http.Request) {
	moves, err := h.svc.Inventory.GetMovementHistory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moves)
}

func (h *Handler) UpdateModelPrice(w http.ResponseWriter, r *http.Request) {
	var req priceRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	name := mux.Vars(r)["name"]
	n, err := h.svc.Inventory.UpdateModelPrice(r.Context(), name, req.Price)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{"model": name, "price": req.Price, "units": n})
}

func (h *Handler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	templates, err := h.svc.Inventory.ListTemplates(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, templates)
}

func (h *Handler) ApplyTemplate(w http.ResponseWriter, r *http.Request) {
	var req applyTemplateRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	units, err := h.svc.Inventory.ApplyTemplate(r.Context(), mux.Vars(r)["name"], req.Exclude)
	if err != nil {
		writeError(w, err)
		return
	}
	if units == nil {
		units = []domain.Equipment{}
	}
	writeJSON(w, http.StatusOK, units)
}

// Redistribute rescales line prices to a typed total. The wizard calls it on
// every keystroke of the total field.
func (h *Handler) Redistribute(w http.ResponseWriter, r *http.Request) {
	var req redistributeRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	prices := utils.RedistributePrices(req.Prices, req.Target)
	writeJSON(w, http.StatusOK, redistributeResponse{Prices: prices, Total: utils.SumPrices(prices)})
}
