package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"vkolc-backend/internal/config"
	"vkolc-backend/internal/domain"
	"vkolc-backend/internal/repository/memory"
	"vkolc-backend/internal/security"
	"vkolc-backend/internal/seed"
	"vkolc-backend/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

var testNow = time.Date(2024, 11, 20, 10, 0, 0, 0, time.UTC)

func newTestServices(t *testing.T) Services {
	t.Helper()
	cfg := &config.Config{Server: config.ServerConfig{Port: 8080}, JWT: config.JWTConfig{Secret: testSecret}}
	require.NoError(t, cfg.Validate())

	auth, err := service.NewAuthService(cfg.Auth.Users, security.NewTokenManager(testSecret, time.Hour))
	require.NoError(t, err)

	store := memory.NewStore(seed.Default())
	clock := func() time.Time { return testNow }
	return Services{
		Auth: auth,
		Contracts: service.NewContractService(
			store.EquipmentRepository,
			store.ContractRepository,
			store.TransactionRepository,
			store.MovementRepository,
			service.EngineSettings{},
			service.WithClock(clock),
		),
		Inventory: service.NewInventoryService(store.EquipmentRepository, store.MovementRepository, store.TemplateRepository),
		Ledger:    service.NewLedgerService(store.TransactionRepository),
		Dashboard: service.NewDashboardService(store.EquipmentRepository, store.ContractRepository, clock),
	}
}

func newTestRouter(t *testing.T) *mux.Router {
	t.Helper()
	r, err := NewRouter(newTestServices(t), "")
	require.NoError(t, err)
	return r
}

func do(r http.Handler, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, r http.Handler, username, password string) string {
	t.Helper()
	rec := do(r, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: username, Password: password})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session domain.Session
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &session))
	require.NotEmpty(t, session.Token)
	return session.Token
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v), rec.Body.String())
}

func errorMessage(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var body errorResponse
	decodeBody(t, rec, &body)
	return body.Error
}

func TestRouter_RouteNamesHaveSecurityLevels(t *testing.T) {
	r := newTestRouter(t)
	seen := map[string]bool{}
	err := r.Walk(func(route *mux.Route, _ *mux.Router, _ []*mux.Route) error {
		if name := route.GetName(); name != "" {
			seen[name] = true
			_, ok := config.EndpointSecurityConfig[name]
			assert.True(t, ok, "route %s has no security level", name)
		}
		return nil
	})
	require.NoError(t, err)
	assert.Len(t, seen, len(config.EndpointSecurityConfig))
}

func TestAuth(t *testing.T) {
	r := newTestRouter(t)

	t.Run("Login and me", func(t *testing.T) {
		token := login(t, r, "manager", "manager")
		rec := do(r, http.MethodGet, "/api/v1/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var me meResponse
		decodeBody(t, rec, &me)
		assert.Equal(t, "manager", me.Username)
		assert.Equal(t, domain.RoleManager, me.Role)
		assert.NotZero(t, me.ExpiresAt)
	})

	t.Run("Bad credentials", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/v1/auth/login", "", loginRequest{Username: "admin", Password: "nope"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Equal(t, service.ErrInvalidCredentials.Error(), errorMessage(t, rec))
	})

	t.Run("Missing fields", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "admin"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Missing token", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/v1/inventory", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Garbage token", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/v1/inventory", "not.a.token", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("Manager on admin route", func(t *testing.T) {
		token := login(t, r, "manager", "manager")
		for _, path := range []string{"/api/v1/dashboard", "/api/v1/transactions", "/api/v1/inventory/CAM-LF-1/movements"} {
			rec := do(r, http.MethodGet, path, token, nil)
			assert.Equal(t, http.StatusForbidden, rec.Code, path)
		}
	})
}

func TestLoginRateLimit(t *testing.T) {
	r, err := NewRouter(newTestServices(t), "2-M")
	require.NoError(t, err)

	body := loginRequest{Username: "admin", Password: "wrong"}
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, http.MethodPost, "/api/v1/auth/login", "", body).Code)
	assert.Equal(t, http.StatusTooManyRequests, do(r, http.MethodPost, "/api/v1/auth/login", "", body).Code)

	_, err = NewRouter(newTestServices(t), "lots")
	assert.Error(t, err)
}

func TestInventoryRoutes(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "manager", "manager")

	t.Run("Search", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/v1/inventory?q=alexa-lf-2922", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var units []domain.Equipment
		decodeBody(t, rec, &units)
		require.Len(t, units, 1)
		assert.Equal(t, "CAM-LF-1", units[0].ID)
	})

	t.Run("Available by category", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/v1/inventory?available=true&category=Zooms", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var units []domain.Equipment
		decodeBody(t, rec, &units)
		assert.Len(t, units, 4)
	})

	t.Run("Bad category", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/v1/inventory?category=Drones", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown unit", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/v1/inventory/CAM-XX-1", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Models", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/v1/inventory/models", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)
		var models []domain.ModelSummary
		decodeBody(t, rec, &models)
		assert.Len(t, models, 8)
	})

	t.Run("Apply template", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/v1/templates/R%20K%20Films/apply", token,
			applyTemplateRequest{Exclude: []string{"CAM-LF-2"}})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var units []domain.Equipment
		decodeBody(t, rec, &units)
		require.Len(t, units, 3)
		assert.Equal(t, "CAM-LF-3", units[0].ID)
	})

	t.Run("Redistribute", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/v1/pricing/redistribute", token,
			redistributeRequest{Prices: []int64{50000, 30000}, Target: 88000})
		require.Equal(t, http.StatusOK, rec.Code)
		var resp redistributeResponse
		decodeBody(t, rec, &resp)
		assert.Equal(t, []int64{55000, 33000}, resp.Prices)
		assert.Equal(t, int64(88000), resp.Total)
	})

	t.Run("Price update needs admin", func(t *testing.T) {
		rec := do(r, http.MethodPut, "/api/v1/inventory/models/Alexa%20LF/price", token, priceRequest{Price: 52000})
		assert.Equal(t, http.StatusForbidden, rec.Code)

		admin := login(t, r, "admin", "admin")
		rec = do(r, http.MethodPut, "/api/v1/inventory/models/Alexa%20LF/price", admin, priceRequest{Price: 52000})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		rec = do(r, http.MethodPut, "/api/v1/inventory/models/Alexa%20LF/price", admin, priceRequest{Price: 0})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestContractWizardFlow(t *testing.T) {
	r := newTestRouter(t)
	manager := login(t, r, "manager", "manager")
	admin := login(t, r, "admin", "admin")

	items := []domain.QuotationItem{
		{EquipmentID: "CAM-LF-2", Price: 50000},
		{EquipmentID: "LNS-CK7-2", Price: 15000},
	}
	party := domain.PartyInfo{
		PartyName:   "Nandi Studios",
		PartyType:   domain.PartyTypeCustomer,
		Direction:   domain.DirectionOut,
		ProjectName: "Monsoon Shoot",
	}

	rec := do(r, http.MethodPost, "/api/v1/contracts", manager, createContractRequest{Party: party, Items: items, Total: 65000})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var c domain.Contract
	decodeBody(t, rec, &c)
	assert.Equal(t, "CON-007", c.ID)
	assert.Equal(t, domain.ContractStatusQuotationPending, c.Status)
	assert.Equal(t, "Manager", c.Manager)
	assert.Equal(t, "2024-11-20", c.StartDate)

	base := "/api/v1/contracts/" + c.ID

	rec = do(r, http.MethodPost, base+"/quotation/revise", manager, quotationRequest{Items: items, Total: 70000})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = do(r, http.MethodPost, base+"/quotation/finalize", manager, quotationRequest{Items: items, Total: 65000})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &c)
	assert.Equal(t, domain.ContractStatusOngoing, c.Status)

	rec = do(r, http.MethodPost, base+"/quotation/finalize", manager, quotationRequest{Items: items, Total: 65000})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(r, http.MethodGet, base, manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var detail domain.ContractDetail
	decodeBody(t, rec, &detail)
	assert.Len(t, detail.Units, 2)
	assert.False(t, detail.Overdue)

	rec = do(r, http.MethodPost, base+"/extend", manager, extendRequest{
		Items:           []domain.QuotationItem{{EquipmentID: "CAM-LF-1", Price: 50000}},
		AdditionalTotal: 50000,
	})
	assert.Equal(t, http.StatusConflict, rec.Code, "CAM-LF-1 is out with CON-001")

	rec = do(r, http.MethodGet, "/api/v1/transactions?q="+c.ID, admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var txs []domain.Transaction
	decodeBody(t, rec, &txs)
	require.Len(t, txs, 1)
	assert.Equal(t, int64(11700), txs[0].Tax)

	rec = do(r, http.MethodPost, base+"/end", manager, nil)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = do(r, http.MethodPost, base+"/end", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	decodeBody(t, rec, &c)
	assert.Equal(t, domain.ContractStatusClosed, c.Status)

	rec = do(r, http.MethodGet, "/api/v1/contracts?status=Closed&q=nandi", manager, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list []domain.Contract
	decodeBody(t, rec, &list)
	require.Len(t, list, 1)
	assert.Equal(t, c.ID, list[0].ID)
}

func TestContractErrors(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, "manager", "manager")

	t.Run("No items", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/v1/contracts", token, map[string]interface{}{
			"party": map[string]string{"party_name": "X", "party_type": "Customer", "direction": "OUT"},
			"total": 0,
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown field", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/v1/contracts/CON-004/quotation/revise", token, map[string]interface{}{"discount": 5})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("Unknown contract", func(t *testing.T) {
		rec := do(r, http.MethodGet, "/api/v1/contracts/CON-999", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("Unit already out", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/v1/contracts", token, createContractRequest{
			Party: domain.PartyInfo{PartyName: "X", PartyType: domain.PartyTypeCustomer, Direction: domain.DirectionOut, ProjectName: "Y"},
			Items: []domain.QuotationItem{{EquipmentID: "CAM-LF-1", Price: 50000}},
			Total: 50000,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("Extend pending", func(t *testing.T) {
		rec := do(r, http.MethodPost, "/api/v1/contracts/CON-004/extend", token, extendRequest{
			Items:           []domain.QuotationItem{{EquipmentID: "CAM-LF-4", Price: 50000}},
			AdditionalTotal: 50000,
		})
		assert.Equal(t, http.StatusConflict, rec.Code)
	})
}

func TestBackOfficeRoutes(t *testing.T) {
	r := newTestRouter(t)
	admin := login(t, r, "admin", "admin")

	rec := do(r, http.MethodGet, "/api/v1/dashboard", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var sum domain.DashboardSummary
	decodeBody(t, rec, &sum)
	assert.Equal(t, 135, sum.TotalUnits)
	assert.Equal(t, 1, sum.OverdueContracts)

	rec = do(r, http.MethodGet, "/api/v1/transactions/export", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, xlsxContentType, rec.Header().Get("Content-Type"))
	assert.NotZero(t, rec.Body.Len())

	rec = do(r, http.MethodGet, "/api/v1/inventory/CAM-LF-1/movements", admin, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var moves []domain.Movement
	decodeBody(t, rec, &moves)
	assert.Len(t, moves, 1)
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{domain.ErrValidation, http.StatusBadRequest},
		{domain.ErrReconciliation, http.StatusUnprocessableEntity},
		{domain.ErrAvailability, http.StatusConflict},
		{domain.ErrEditLimitExceeded, http.StatusConflict},
		{domain.ErrInvalidTransition, http.StatusConflict},
		{domain.ErrNotFound, http.StatusNotFound},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{assert.AnError, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, statusFor(tt.err), tt.err.Error())
	}
}
