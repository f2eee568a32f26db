package http

import (
	"net/http"

	"vkolc-backend/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/middleware/stdlib"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Services are the back-office services the API exposes.
type Services struct {
	Auth      service.AuthService
	Contracts service.ContractService
	Inventory service.InventoryService
	Ledger    service.LedgerService
	Dashboard service.DashboardService
}

// Handler serves the JSON API used by the back-office wizards.
type Handler struct {
	svc      Services
	validate *validator.Validate
}

func NewHandler(svc Services) *Handler {
	return &Handler{svc: svc, validate: validator.New()}
}

// NewRouter registers every route under /api/v1. Route names are the keys of
// config.EndpointSecurityConfig. loginRate is a limiter rate such as "10-M"
// applied per client IP to the login route; empty disables it.
func NewRouter(svc Services, loginRate string) (*mux.Router, error) {
	h := NewHandler(svc)

	login := http.Handler(http.HandlerFunc(h.Login))
	if loginRate != "" {
		rate, err := limiter.NewRateFromFormatted(loginRate)
		if err != nil {
			return nil, err
		}
		login = stdlib.NewMiddleware(limiter.New(memory.NewStore(), rate)).Handler(login)
	}

	r := mux.NewRouter()
	r.Use(requestLogger)
	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(h.authenticate)

	api.Handle("/auth/login", login).Methods(http.MethodPost).Name("auth.login")
	api.HandleFunc("/auth/me", h.Me).Methods(http.MethodGet).Name("auth.me")

	api.HandleFunc("/inventory", h.ListEquipment).Methods(http.MethodGet).Name("inventory.list")
	api.HandleFunc("/inventory/models", h.ListModels).Methods(http.MethodGet).Name("inventory.models")
	api.HandleFunc("/inventory/models/{name}/price", h.UpdateModelPrice).Methods(http.MethodPut).Name("inventory.price")
	api.HandleFunc("/inventory/{id}", h.GetEquipment).Methods(http.MethodGet).Name("inventory.get")
	api.HandleFunc("/inventory/{id}/movements", h.GetMovements).Methods(http.MethodGet).Name("inventory.movements")

	api.HandleFunc("/templates", h.ListTemplates).Methods(http.MethodGet).Name("templates.list")
	api.HandleFunc("/templates/{name}/apply", h.ApplyTemplate).Methods(http.MethodPost).Name("templates.apply")
	api.HandleFunc("/pricing/redistribute", h.Redistribute).Methods(http.MethodPost).Name("pricing.redistribute")

	api.HandleFunc("/contracts", h.ListContracts).Methods(http.MethodGet).Name("contracts.list")
	api.HandleFunc("/contracts", h.CreateContract).Methods(http.MethodPost).Name("contracts.create")
	api.HandleFunc("/contracts/{id}", h.GetContract).Methods(http.MethodGet).Name("contracts.get")
	api.HandleFunc("/contracts/{id}/quotation/revise", h.ReviseQuotation).Methods(http.MethodPost).Name("contracts.revise")
	api.HandleFunc("/contracts/{id}/quotation/finalize", h.FinalizeQuotation).Methods(http.MethodPost).Name("contracts.finalize")
	api.HandleFunc("/contracts/{id}/extend", h.ExtendContract).Methods(http.MethodPost).Name("contracts.extend")
	api.HandleFunc("/contracts/{id}/end", h.EndContract).Methods(http.MethodPost).Name("contracts.end")

	api.HandleFunc("/transactions", h.ListTransactions).Methods(http.MethodGet).Name("transactions.list")
	api.HandleFunc("/transactions/export", h.ExportTransactions).Methods(http.MethodGet).Name("transactions.export")
	api.HandleFunc("/dashboard", h.Dashboard).Methods(http.MethodGet).Name("dashboard.get")

	return r, nil
}
