package api

import (
	"catalogo_server/database"
	"catalogo_server/lib"
	"catalogo_server/services"
	"catalogo_server/structs"
	"catalogo_server/structs/tables"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MonkyMars/gecho"
	"github.com/google/uuid"
)

const testSecret = "test-secret"

// sliceStore is a minimal in-memory database.Store
type sliceStore[T any] struct {
	mu   sync.Mutex
	rows []T
	idOf func(*T) uuid.UUID
}

func (s *sliceStore[T]) FetchAll(ctx context.Context, orders ...database.OrderClause) ([]T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]T{}, s.rows...), nil
}

func (s *sliceStore[T]) FetchJoined(ctx context.Context, relations []string, orders ...database.OrderClause) ([]T, error) {
	return s.FetchAll(ctx, orders...)
}

// FetchJoinedWhere returns every row; the shipment join drops unrelated lines
func (s *sliceStore[T]) FetchJoinedWhere(ctx context.Context, column string, value any, relations []string, orders ...database.OrderClause) ([]T, error) {
	return s.FetchAll(ctx, orders...)
}

func (s *sliceStore[T]) FetchByID(ctx context.Context, id uuid.UUID) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.idOf(&s.rows[i]) == id {
			row := s.rows[i]
			return &row, nil
		}
	}
	return nil, lib.NewPersistenceError("fetch", "test", lib.ErrNotFound)
}

func (s *sliceStore[T]) Insert(ctx context.Context, record *T) (*T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, *record)
	return record, nil
}

func (s *sliceStore[T]) Update(ctx context.Context, id uuid.UUID, patch any) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.idOf(&s.rows[i]) == id {
			if v, ok := patch.(*T); ok {
				s.rows[i] = *v
			}
			return nil
		}
	}
	return lib.NewPersistenceError("update", "test", lib.ErrNotFound)
}

func (s *sliceStore[T]) UpdateWhere(ctx context.Context, id uuid.UUID, column string, expected any, patch any) error {
	return s.Update(ctx, id, patch)
}

func (s *sliceStore[T]) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.idOf(&s.rows[i]) == id {
			s.rows = append(s.rows[:i], s.rows[i+1:]...)
			return nil
		}
	}
	return lib.NewPersistenceError("delete", "test", lib.ErrNotFound)
}

func testConfig() *structs.Config {
	return &structs.Config{
		Server:    &structs.ServerConfig{AppName: "Catalogo", Environment: "test"},
		Cors:      &structs.CorsConfig{AllowedOrigins: []string{"*"}},
		Database:  &structs.DatabaseConfig{},
		Cache:     &structs.CacheConfig{},
		Auth:      &structs.AuthConfig{SessionTokenSecret: testSecret, SessionTokenExpiry: time.Hour, SessionCookieName: "session"},
		Email:     &structs.EmailConfig{},
		Drafts:    &structs.DraftConfig{IdleTTL: time.Hour},
		RateLimit: &structs.RateLimitConfig{},
	}
}

type testApp struct {
	handler  http.Handler
	products *sliceStore[tables.Product]
	drafts   *services.DraftRegistry
}

func newTestApp(t *testing.T, products ...tables.Product) *testApp {
	t.Helper()
	cfg := testConfig()
	logger := gecho.NewDefaultLogger()

	productStore := &sliceStore[tables.Product]{rows: products, idOf: func(p *tables.Product) uuid.UUID { return p.ID }}
	shipmentStore := &sliceStore[tables.Shipment]{idOf: func(s *tables.Shipment) uuid.UUID { return s.ID }}
	itemStore := &sliceStore[tables.ShipmentItem]{idOf: func(i *tables.ShipmentItem) uuid.UUID { return i.ID }}

	cache := services.NewCacheService(logger, cfg)
	sm := &services.ServiceManager{
		CacheService:    cache,
		EmailService:    services.NewEmailService(logger, cfg),
		HealthService:   services.NewHealthService(logger, nil, cache),
		ProductService:  services.NewProductService(logger, productStore, cache),
		ShipmentService: services.NewShipmentService(logger, shipmentStore, itemStore, nil),
		DraftRegistry:   services.NewDraftRegistry(logger, cfg.Drafts.IdleTTL),
	}

	return &testApp{
		handler:  App(cfg, sm),
		products: productStore,
		drafts:   sm.DraftRegistry,
	}
}

func bearer(t *testing.T, role string, squads ...string) string {
	t.Helper()
	token, err := lib.SignSession(&structs.Session{UserID: uuid.NewString(), Role: role, Squads: squads}, testSecret, time.Hour)
	if err != nil {
		t.Fatal(err)
	}
	return "Bearer " + token
}

func (a *testApp) do(method, target, auth, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rec := httptest.NewRecorder()
	a.handler.ServeHTTP(rec, req)
	return rec
}

func TestAdminRequiresSession(t *testing.T) {
	app := newTestApp(t)

	if rec := app.do("GET", "/admin/products", "", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", rec.Code)
	}
	if rec := app.do("GET", "/admin/products", "Bearer not-a-token", ""); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad token: status = %d, want 401", rec.Code)
	}
}

func TestSalesAreaGate(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name   string
		auth   string
		status int
	}{
		{"squad5 role", bearer(t, "squad5"), http.StatusOK},
		{"buyer in squad5", bearer(t, "buyer", "squad5"), http.StatusOK},
		{"buyer without squads", bearer(t, "buyer"), http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := app.do("GET", "/admin/sales/products", tt.auth, "")
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if tt.status == http.StatusForbidden && !strings.Contains(rec.Body.String(), "redirect_to") {
				t.Errorf("denial must carry the redirect, body %s", rec.Body.String())
			}
		})
	}
}

func TestDeleteProductNeedsConfirm(t *testing.T) {
	id := uuid.New()
	app := newTestApp(t, tables.Product{ID: id, Name: "Erva-cidreira", Classification: "herb"})
	auth := bearer(t, "otter")

	if rec := app.do("DELETE", "/admin/products/"+id.String(), auth, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("unconfirmed: status = %d, want 400", rec.Code)
	}
	if len(app.products.rows) != 1 {
		t.Fatal("unconfirmed delete removed the product")
	}

	rec := app.do("DELETE", "/admin/products/"+id.String()+"?confirm=true", auth, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("confirmed: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(app.products.rows) != 0 {
		t.Error("product still stored")
	}

	if rec := app.do("DELETE", "/admin/products/not-a-uuid?confirm=true", auth, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", rec.Code)
	}
}

func TestDraftEditingOverHTTP(t *testing.T) {
	app := newTestApp(t)
	auth := bearer(t, "superadmin")
	draft := services.NewCreateDraft()
	id := app.drafts.Open(draft)
	base := "/admin/drafts/" + id.String()

	if rec := app.do("POST", base+"/sizes/250ml/toggle", auth, ""); rec.Code != http.StatusOK {
		t.Fatalf("toggle: status = %d", rec.Code)
	}
	if rec := app.do("PUT", base+"/fields/stock_quantity", auth, `{"value":"7"}`); rec.Code != http.StatusOK {
		t.Fatalf("set field: status = %d", rec.Code)
	}
	if rec := app.do("PUT", base+"/fields/stock_quantity", auth, `{"value":-2}`); rec.Code != http.StatusBadRequest {
		t.Errorf("negative stock: status = %d, want 400", rec.Code)
	}
	if rec := app.do("DELETE", base+"/lists/images/5", auth, ""); rec.Code != http.StatusBadRequest {
		t.Errorf("bad index: status = %d, want 400", rec.Code)
	}

	p := draft.Snapshot()
	if p.StockQuantity != 7 || p.ProductType != structs.ProductTypeBulk || len(p.Sizes()) != 1 {
		t.Errorf("draft = stock %d type %q sizes %v", p.StockQuantity, p.ProductType, p.Sizes())
	}

	// Missing name keeps the draft open
	if rec := app.do("POST", base+"/submit", auth, ""); rec.Code != http.StatusBadRequest {
		t.Fatalf("submit without name: status = %d, want 400", rec.Code)
	}
	if len(app.products.rows) != 0 {
		t.Fatal("invalid draft reached the store")
	}

	app.do("PUT", base+"/fields/name", auth, `{"value":"Poejo"}`)
	app.do("PUT", base+"/fields/classification", auth, `{"value":"herb"}`)
	if rec := app.do("POST", base+"/submit", auth, ""); rec.Code != http.StatusOK {
		t.Fatalf("submit: status = %d, body %s", rec.Code, rec.Body.String())
	}
	if len(app.products.rows) != 1 || app.products.rows[0].ID != draft.ProductID() {
		t.Error("submitted product not stored under its draft id")
	}
	if _, ok := app.drafts.Get(id); ok {
		t.Error("draft must close after submit")
	}
}

func TestReceiveShipmentNeedsConfirm(t *testing.T) {
	app := newTestApp(t)
	rec := app.do("POST", "/admin/shipments/"+uuid.NewString()+"/receive", bearer(t, "otter"), "")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestSessionAccess(t *testing.T) {
	app := newTestApp(t)

	rec := app.do("GET", "/session/access?area=sales", bearer(t, "buyer", "squad5"), "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), "admit") {
		t.Errorf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	rec = app.do("GET", "/session/access?area=sales", "", "")
	if !strings.Contains(rec.Body.String(), "deny") {
		t.Errorf("anonymous body %s", rec.Body.String())
	}

	if rec := app.do("GET", "/session/access?area=warehouse", "", ""); rec.Code != http.StatusBadRequest {
		t.Errorf("unknown area: status = %d, want 400", rec.Code)
	}
}

func TestLogoutClearsCookies(t *testing.T) {
	app := newTestApp(t)
	token := strings.TrimPrefix(bearer(t, "otter"), "Bearer ")

	send := func(csrfHeader string) *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/session/logout", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: token})
		req.AddCookie(&http.Cookie{Name: lib.CSRFCookieName, Value: "csrf-value"})
		if csrfHeader != "" {
			req.Header.Set("X-CSRF-Token", csrfHeader)
		}
		rec := httptest.NewRecorder()
		app.handler.ServeHTTP(rec, req)
		return rec
	}

	if rec := send(""); rec.Code != http.StatusForbidden {
		t.Errorf("without csrf header: status = %d, want 403", rec.Code)
	}

	rec := send("csrf-value")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}
	cleared := map[string]bool{}
	for _, c := range rec.Result().Cookies() {
		if c.MaxAge < 0 {
			cleared[c.Name] = true
		}
	}
	if !cleared["session"] || !cleared[lib.CSRFCookieName] {
		t.Errorf("cleared cookies = %v", cleared)
	}
}

func TestResponsesCarryRequestID(t *testing.T) {
	app := newTestApp(t)

	rec := app.do("GET", "/", "", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("X-Request-ID missing")
	}
}
