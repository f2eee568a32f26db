package http

import (
	"net/http"

	"vkolc-backend/internal/domain"

	"github.com/gorilla/mux"
)

type createContractRequest struct {
	Party domain.PartyInfo       `json:"party"`
	Items []domain.QuotationItem `json:"items" validate:"required,min=1"`
	Total int64                  `json:"total"`
}

type quotationRequest struct {
	Items []domain.QuotationItem `json:"items" validate:"required,min=1"`
	Total int64                  `json:"total"`
}

type extendRequest struct {
	Items           []domain.QuotationItem `json:"items" validate:"required,min=1"`
	AdditionalTotal int64                  `json:"additional_total"`
}

func (h *Handler) ListContracts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	contracts, err := h.svc.Contracts.ListContracts(r.Context(), domain.ContractFilter{
		Status:    domain.ContractStatus(q.Get("status")),
		PartyType: domain.PartyType(q.Get("party_type")),
		Query:     q.Get("q"),
	})
	if err != nil {
		writeError(w, err)
		return
	}
	if contracts == nil {
		contracts = []domain.Contract{}
	}
	writeJSON(w, http.StatusOK, contracts)
}

func (h *Handler) CreateContract(w http.ResponseWriter, r *http.Request) {
	var req createContractRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.Contracts.CreateDraftContract(r.Context(), req.Party, req.Items, req.Total)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *Handler) GetContract(w http.ResponseWriter, r *http.Request) {
	detail, err := h.svc.Contracts.GetContract(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, detail)
}

func (h *Handler) ReviseQuotation(w http.ResponseWriter, r *http.Request) {
	var req quotationRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.Contracts.ReviseQuotation(r.Context(), mux.Vars(r)["id"], req.Items, req.Total)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) FinalizeQuotation(w http.ResponseWriter, r *http.Request) {
	var req quotationRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.Contracts.FinalizeQuotation(r.Context(), mux.Vars(r)["id"], req.Items, req.Total)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) ExtendContract(w http.ResponseWriter, r *http.Request) {
	var req extendRequest
	if err := h.decode(w, r, &req); err != nil {
		writeError(w, err)
		return
	}
	c, err := h.svc.Contracts.ExtendContract(r.Context(), mux.Vars(r)["id"], req.Items, req.AdditionalTotal)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *Handler) EndContract(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Contracts.EndContract(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}
