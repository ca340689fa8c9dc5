package http

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"html/template"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"smartbudget/internal/cache"
	"smartbudget/internal/chart"
	"smartbudget/internal/core"
	"smartbudget/internal/ledger/memory"
	applog "smartbudget/internal/log"
	"smartbudget/internal/middleware/adminauth"
	"smartbudget/internal/services"

	"golang.org/x/crypto/bcrypt"
)

const (
	testAdminUser     = "admin"
	testAdminPassword = "s3cret"
)

var testAdminHash = sync.OnceValue(func() string {
	h, err := adminauth.HashPassword(testAdminPassword, bcrypt.MinCost)
	if err != nil {
		panic(err)
	}
	return h
})

type testEnv struct {
	srv    *Server
	store  *memory.Store
	charts *cache.LRUCache[chart.Breakdown]
}

func quietLogger() *applog.Logger {
	return applog.New(applog.Config{Output: io.Discard, Component: applog.ComponentApp})
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	t.Helper()
	store := memory.NewDefault()
	charts := cache.NewLRUCache[chart.Breakdown](16, time.Minute)
	svc := services.NewBudgetService(store, nil, quietLogger(), services.OnChange(charts.Purge))

	opts.Addr = ":0"
	opts.ChartCache = charts
	if opts.Admin == (adminauth.Config{}) {
		opts.Admin = adminauth.Config{Username: testAdminUser, PasswordHash: testAdminHash()}
	}
	opts.Logger = quietLogger()
	srv := NewServer(opts, svc)
	srv.now = func() time.Time { return time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC) }
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })
	return &testEnv{srv: srv, store: store, charts: charts}
}

func (e *testEnv) seed(t *testing.T, entries ...core.Entry) {
	t.Helper()
	for _, entry := range entries {
		if _, err := e.store.Create(context.Background(), entry); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}
}

func (e *testEnv) get(path string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	e.srv.Handler.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func (e *testEnv) getWithAuth(path, user, pass string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	req.SetBasicAuth(user, pass)
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) getAdmin(path string) *httptest.ResponseRecorder {
	return e.getWithAuth(path, testAdminUser, testAdminPassword)
}

func (e *testEnv) post(path string, form url.Values) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	e.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func entry(date, category string, cents int64, typ core.EntryType) core.Entry {
	d, _ := core.ParseDate(date)
	return core.Entry{Date: d, Category: category, Amount: core.Money{Cents: cents}, Type: typ}
}

func nonceFromCSP(t *testing.T, csp string) string {
	t.Helper()
	_, rest, ok := strings.Cut(csp, "'nonce-")
	if !ok {
		t.Fatalf("CSP has no nonce: %q", csp)
	}
	nonce, _, _ := strings.Cut(rest, "'")
	return nonce
}

func TestIndexRedirectsToDashboard(t *testing.T) {
	env := newTestEnv(t, Options{})
	rr := env.get("/")
	if rr.Code != http.StatusFound {
		t.Fatalf("status=%d", rr.Code)
	}
	if loc := rr.Header().Get("Location"); loc != "/dashboard" {
		t.Fatalf("Location=%q", loc)
	}
}

func TestDashboardRendersTotalsTipsAndChart(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t,
		entry("2025-07-01", "Salary", 300000, core.Income),
		entry("2025-07-05", "Rent", 150000, core.Expense),
		entry("2025-07-10", "Food", 20000, core.Expense),
	)

	rr := env.get("/dashboard")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", rr.Code, rr.Body.String())
	}
	body := rr.Body.String()
	for _, part := range []string{
		"€3000.00",
		"€1700.00",
		"€1300.00",
		template.HTMLEscapeString(core.TipHighSpending),
		core.TipHighFood,
		`<canvas id="breakdownChart">`,
		`"labels":["July 2025"]`,
		"/entries/1/edit",
		`value="2025-07-20"`,
		"<tr><td>Rent</td><td>€1500.00</td></tr>",
	} {
		if !strings.Contains(body, part) {
			t.Errorf("dashboard missing %q", part)
		}
	}

	csp := rr.Header().Get("Content-Security-Policy")
	if !strings.Contains(csp, chart.LibraryOrigin) {
		t.Errorf("CSP does not allow the chart library: %q", csp)
	}
	nonce := nonceFromCSP(t, csp)
	if !strings.Contains(body, `nonce="`+nonce+`"`) {
		t.Errorf("inline chart script does not carry the CSP nonce %q", nonce)
	}
	if rr.Header().Get("X-Request-ID") == "" {
		t.Errorf("missing request id header")
	}
}

func TestDashboardFilters(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t,
		entry("2025-06-01", "Food", 1000, core.Expense),
		entry("2025-07-01", "Rent", 90000, core.Expense),
	)

	rr := env.get("/dashboard?category=Rent&start_date=2025-07-01&end_date=2025-07-31")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	if !strings.Contains(body, "€900.00") {
		t.Errorf("filtered total missing")
	}
	if strings.Contains(body, "June 2025") {
		t.Errorf("filtered out month still charted")
	}
	if !strings.Contains(body, `value="2025-07-01"`) {
		t.Errorf("start date not echoed back into the filter form")
	}
}

func TestDashboardInvalidFilter(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, q := range []string{"type=gift", "start_date=yesterday", "end_date=2025-13-01"} {
		if rr := env.get("/dashboard?" + q); rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", q, rr.Code)
		}
	}
}

func TestDashboardNotice(t *testing.T) {
	env := newTestEnv(t, Options{})
	rr := env.get("/dashboard?notice=" + NoticeEntryAdded)
	if !strings.Contains(rr.Body.String(), "Entry added successfully!") {
		t.Fatalf("notice not rendered")
	}
	rr = env.get("/dashboard?notice=bogus")
	if strings.Contains(rr.Body.String(), "notice--") {
		t.Fatalf("unknown notice code rendered")
	}
}

func TestCreateEntryValidationAndSuccess(t *testing.T) {
	env := newTestEnv(t, Options{})

	// Wrong method
	if rr := env.get("/entries"); rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rr.Code)
	}

	invalid := []url.Values{
		{"date": {"2025-07-01"}, "category": {"Food"}, "amount": {"abc"}, "type": {"expense"}},
		{"date": {"2025-07-01"}, "category": {""}, "amount": {"1.23"}, "type": {"expense"}},
		{"date": {"07/01/2025"}, "category": {"Food"}, "amount": {"1.23"}, "type": {"expense"}},
		{"date": {"2025-07-01"}, "category": {"Food"}, "amount": {"1.23"}, "type": {"gift"}},
		{"date": {"2025-07-01"}, "category": {"NoSuchCategory"}, "amount": {"5"}, "type": {"expense"}},
	}
	for _, form := range invalid {
		if rr := env.post("/entries", form); rr.Code != http.StatusUnprocessableEntity {
			t.Errorf("%v: expected 422, got %d", form, rr.Code)
		}
	}

	rr := env.post("/entries", url.Values{"date": {"2025-07-01"}, "category": {"Food"}, "amount": {"12,50"}, "type": {"Expense"}})
	if rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d: %s", rr.Code, rr.Body.String())
	}
	if loc := rr.Header().Get("Location"); loc != "/dashboard?notice="+NoticeEntryAdded {
		t.Fatalf("Location=%q", loc)
	}

	got, err := env.store.Get(context.Background(), 1)
	if err != nil {
		t.Fatalf("entry not stored: %v", err)
	}
	if got.Amount.Cents != 1250 || got.Type != core.Expense || got.Category != "Food" {
		t.Fatalf("unexpected entry %+v", got)
	}
}

func TestEditAndUpdateEntry(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t, entry("2025-07-01", "Food", 1000, core.Expense))

	rr := env.get("/entries/1/edit")
	if rr.Code != http.StatusOK {
		t.Fatalf("edit status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `value="10.00"`) || !strings.Contains(rr.Body.String(), `action="/entries/1"`) {
		t.Fatalf("edit form not prefilled: %s", rr.Body.String())
	}
	if rr := env.get("/entries/99/edit"); rr.Code != http.StatusNotFound {
		t.Fatalf("missing entry edit: expected 404, got %d", rr.Code)
	}

	form := url.Values{"date": {"2025-07-02"}, "category": {"Rent"}, "amount": {"800"}, "type": {"expense"}}
	if rr := env.post("/entries/1", form); rr.Code != http.StatusSeeOther {
		t.Fatalf("update: expected 303, got %d", rr.Code)
	}
	got, _ := env.store.Get(context.Background(), 1)
	if got.Category != "Rent" || got.Amount.Cents != 80000 || got.Date.String() != "2025-07-02" {
		t.Fatalf("entry not updated: %+v", got)
	}

	if rr := env.post("/entries/99", form); rr.Code != http.StatusNotFound {
		t.Fatalf("update missing: expected 404, got %d", rr.Code)
	}
	if rr := env.post("/entries/abc", form); rr.Code != http.StatusNotFound {
		t.Fatalf("bad id: expected 404, got %d", rr.Code)
	}
}

func TestDeleteEntry(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t, entry("2025-07-01", "Food", 1000, core.Expense))

	if rr := env.post("/entries/1/delete", nil); rr.Code != http.StatusSeeOther {
		t.Fatalf("delete: expected 303, got %d", rr.Code)
	}
	if rr := env.post("/entries/1/delete", nil); rr.Code != http.StatusNotFound {
		t.Fatalf("second delete: expected 404, got %d", rr.Code)
	}
}

func TestAddCategory(t *testing.T) {
	env := newTestEnv(t, Options{})

	if rr := env.post("/categories", url.Values{"new_category": {"Travel"}}); rr.Code != http.StatusSeeOther {
		t.Fatalf("expected 303, got %d", rr.Code)
	}
	if rr := env.post("/categories", url.Values{"new_category": {"travel"}}); rr.Code != http.StatusConflict {
		t.Fatalf("duplicate: expected 409, got %d", rr.Code)
	}
	if rr := env.post("/categories", url.Values{"new_category": {"  "}}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("empty: expected 422, got %d", rr.Code)
	}
	if rr := env.post("/categories", url.Values{"new_category": {strings.Repeat("é", 30)}}); rr.Code != http.StatusSeeOther {
		t.Fatalf("multibyte name within 50 characters: expected 303, got %d", rr.Code)
	}
	if rr := env.post("/categories", url.Values{"new_category": {strings.Repeat("é", core.MaxCategoryLen+1)}}); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("51 characters: expected 422, got %d", rr.Code)
	}

	if !strings.Contains(env.get("/dashboard").Body.String(), `<option value="Travel">`) {
		t.Fatalf("new category not offered in the entry form")
	}
}

func TestExportCSV(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t,
		entry("2025-06-01", "Food", 1250, core.Expense),
		entry("2025-07-01", "Salary", 300000, core.Income),
	)

	rr := env.get("/export/csv")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if ct := rr.Header().Get("Content-Type"); ct != "text/csv" {
		t.Errorf("Content-Type=%q", ct)
	}
	if cd := rr.Header().Get("Content-Disposition"); cd != "attachment; filename=budget_entries.csv" {
		t.Errorf("Content-Disposition=%q", cd)
	}

	rows, err := csv.NewReader(rr.Body).ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	want := [][]string{
		{"Date", "Category", "Amount", "Type"},
		{"2025-07-01", "Salary", "3000.00", "income"},
		{"2025-06-01", "Food", "12.50", "expense"},
	}
	if len(rows) != len(want) {
		t.Fatalf("rows=%v", rows)
	}
	for i := range want {
		if strings.Join(rows[i], ",") != strings.Join(want[i], ",") {
			t.Errorf("row %d = %v, want %v", i, rows[i], want[i])
		}
	}
}

func TestExportJSON(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t, entry("2025-06-01", "Food", 1250, core.Expense))

	rr := env.get("/export/json")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var got []exportEntry
	if err := json.Unmarshal(rr.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got) != 1 || got[0] != (exportEntry{Date: "2025-06-01", Category: "Food", Amount: 12.5, Type: "expense"}) {
		t.Fatalf("unexpected export %+v", got)
	}

	empty := newTestEnv(t, Options{})
	if body := strings.TrimSpace(empty.get("/export/json").Body.String()); body != "[]" {
		t.Fatalf("empty export = %q, want []", body)
	}
}

func TestChartConfigJSON(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t,
		entry("2025-06-03", "Food", 5000, core.Expense),
		entry("2025-07-03", "Food", 20000, core.Expense),
	)

	rr := env.get("/charts/breakdown")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	var cfg chart.Config
	if err := json.Unmarshal(rr.Body.Bytes(), &cfg); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cfg.Type != chart.Kind || len(cfg.Data.Labels) != 2 || cfg.Data.Labels[0] != "June 2025" {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if vals := cfg.Data.Datasets[0].Data; vals[0] != 50 || vals[1] != 200 {
		t.Fatalf("values = %v", vals)
	}
}

func TestChartFragmentCachedAndPurgedOnWrite(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t, entry("2025-07-03", "Food", 20000, core.Expense))

	first := env.get("/ui/breakdown-chart")
	if first.Code != http.StatusOK {
		t.Fatalf("status=%d", first.Code)
	}
	if env.charts.Size() != 1 {
		t.Fatalf("expected one cached breakdown, got %d", env.charts.Size())
	}
	second := env.get("/ui/breakdown-chart")
	if env.charts.Stats().Hits != 1 {
		t.Fatalf("second request should hit the cache, stats %+v", env.charts.Stats())
	}

	// Cached data, fresh nonce per response.
	n1 := nonceFromCSP(t, first.Header().Get("Content-Security-Policy"))
	n2 := nonceFromCSP(t, second.Header().Get("Content-Security-Policy"))
	if n1 == n2 || !strings.Contains(second.Body.String(), `nonce="`+n2+`"`) {
		t.Fatalf("fragment nonce not refreshed per request")
	}

	form := url.Values{"date": {"2025-07-04"}, "category": {"Food"}, "amount": {"10"}, "type": {"expense"}}
	if rr := env.post("/entries", form); rr.Code != http.StatusSeeOther {
		t.Fatalf("create: %d", rr.Code)
	}
	if env.charts.Size() != 0 {
		t.Fatalf("write should purge the chart cache")
	}
	if !strings.Contains(env.get("/ui/breakdown-chart").Body.String(), `"data":[210]`) {
		t.Fatalf("fragment not rebuilt after write")
	}
}

// slowListStore parks the first List call until release is closed.
type slowListStore struct {
	*memory.Store
	once    sync.Once
	entered chan struct{}
	release chan struct{}
}

func (s *slowListStore) List(ctx context.Context, f core.Filter) ([]core.Entry, error) {
	entries, err := s.Store.List(ctx, f)
	s.once.Do(func() {
		close(s.entered)
		<-s.release
	})
	return entries, err
}

func TestChartCacheDropsLoadRacingWrite(t *testing.T) {
	store := &slowListStore{
		Store:   memory.NewDefault(),
		entered: make(chan struct{}),
		release: make(chan struct{}),
	}
	charts := cache.NewLRUCache[chart.Breakdown](16, time.Minute)
	svc := services.NewBudgetService(store, nil, quietLogger(), services.OnChange(charts.Purge))
	srv := NewServer(Options{Addr: ":0", ChartCache: charts, Logger: quietLogger()}, svc)
	t.Cleanup(func() { _ = srv.Shutdown(context.Background()) })

	ctx := context.Background()
	done := make(chan chart.Breakdown)
	go func() {
		b, _ := srv.breakdown(ctx, core.Filter{})
		done <- b
	}()

	<-store.entered
	if _, err := svc.CreateEntry(ctx, entry("2025-07-01", "Food", 12000, core.Expense)); err != nil {
		t.Fatalf("CreateEntry: %v", err)
	}
	close(store.release)

	if stale := <-done; stale.Len() != 0 {
		t.Fatalf("in-flight load should see the old data, got %d bars", stale.Len())
	}
	if charts.Size() != 0 {
		t.Fatalf("load that overlapped a purge was cached")
	}

	b, err := srv.breakdown(ctx, core.Filter{})
	if err != nil {
		t.Fatalf("breakdown: %v", err)
	}
	if b.Len() != 1 {
		t.Fatalf("bars after write = %d, want 1", b.Len())
	}
}

func TestChartFragmentEmpty(t *testing.T) {
	env := newTestEnv(t, Options{})
	rr := env.get("/ui/breakdown-chart")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), `"labels":[]`) {
		t.Fatalf("empty chart should render empty arrays")
	}
}

func TestChartECharts(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t, entry("2025-07-03", "Food", 20000, core.Expense))

	rr := env.get("/charts/breakdown/echarts")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	if !strings.Contains(rr.Body.String(), chart.Title) {
		t.Fatalf("echarts page missing title")
	}
	if csp := rr.Header().Get("Content-Security-Policy"); !strings.Contains(csp, chart.EChartsAssetsOrigin) {
		t.Fatalf("echarts page CSP = %q", csp)
	}
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, path := range []string{"/healthz", "/readyz", "/metrics"} {
		rr := env.get(path)
		if rr.Code != http.StatusOK {
			t.Fatalf("%s status=%d", path, rr.Code)
		}
	}

	var ready struct {
		Status string         `json:"status"`
		Checks map[string]any `json:"checks"`
	}
	if err := json.Unmarshal(env.get("/readyz").Body.Bytes(), &ready); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if ready.Status != "ready" || ready.Checks["storage"] != "in_memory" {
		t.Fatalf("unexpected readiness %+v", ready)
	}
}

type failingPinger struct{}

func (failingPinger) Ping(context.Context) error { return context.DeadlineExceeded }

func TestReadyReportsStorageFailure(t *testing.T) {
	env := newTestEnv(t, Options{Pinger: failingPinger{}})
	if rr := env.get("/readyz"); rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rr.Code)
	}
}

func TestAdminStats(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.seed(t,
		entry("2025-07-01", "Food", 1000, core.Expense),
		entry("2025-07-02", "Food", 1000, core.Expense),
		entry("2025-07-03", "Salary", 100000, core.Income),
	)
	rr := env.getAdmin("/admin/stats")
	if rr.Code != http.StatusOK {
		t.Fatalf("status=%d", rr.Code)
	}
	body := rr.Body.String()
	for _, part := range []string{"<td>Food</td><td>2</td>", "<td>Salary</td><td>1</td>", "€1000.00", "€20.00"} {
		if !strings.Contains(body, part) {
			t.Errorf("admin stats missing %q", part)
		}
	}
}

func TestAdminLogs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	env := newTestEnv(t, Options{AuditLogPath: path})

	if !strings.Contains(env.getAdmin("/admin/logs").Body.String(), "No logs found.") {
		t.Fatalf("missing log file should say so")
	}

	if err := os.WriteFile(path, []byte(`{"msg":"entry.created","entry_id":1}`+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	body := env.getAdmin("/admin/logs").Body.String()
	if !strings.Contains(body, "entry.created") {
		t.Fatalf("audit line not shown: %s", body)
	}
}

func TestAdminPagesRequireCredential(t *testing.T) {
	env := newTestEnv(t, Options{})
	for _, path := range []string{"/admin/stats", "/admin/logs"} {
		rr := env.get(path)
		if rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s without credential: status=%d, want 401", path, rr.Code)
		}
		if !strings.HasPrefix(rr.Header().Get("WWW-Authenticate"), "Basic ") {
			t.Fatalf("%s: missing Basic challenge", path)
		}
		if rr := env.getWithAuth(path, testAdminUser, "wrong"); rr.Code != http.StatusUnauthorized {
			t.Fatalf("%s with wrong password: status=%d, want 401", path, rr.Code)
		}
	}

	disabled := newTestEnv(t, Options{Admin: adminauth.Config{Username: testAdminUser}})
	if rr := disabled.getAdmin("/admin/logs"); rr.Code != http.StatusForbidden {
		t.Fatalf("admin without a configured hash: status=%d, want 403", rr.Code)
	}
}

func TestRateLimitOnPosts(t *testing.T) {
	env := newTestEnv(t, Options{RateLimitPerMinute: 2})
	form := url.Values{"new_category": {"A"}}

	env.post("/categories", form)
	env.post("/categories", url.Values{"new_category": {"B"}})
	rr := env.post("/categories", url.Values{"new_category": {"C"}})
	if rr.Code != http.StatusTooManyRequests {
		t.Fatalf("expected 429, got %d", rr.Code)
	}
	if rr.Header().Get("Retry-After") != "60" {
		t.Fatalf("missing Retry-After")
	}

	// Reads are never limited.
	if rr := env.get("/dashboard"); rr.Code != http.StatusOK {
		t.Fatalf("GET limited: %d", rr.Code)
	}
}

func TestFormatEuros(t *testing.T) {
	tests := []struct {
		cents int64
		want  string
	}{
		{0, "€0.00"},
		{5, "€0.05"},
		{1234, "€12.34"},
		{-150000, "-€1500.00"},
	}
	for _, tt := range tests {
		if got := formatEuros(tt.cents); got != tt.want {
			t.Errorf("formatEuros(%d) = %q, want %q", tt.cents, got, tt.want)
		}
	}
}
