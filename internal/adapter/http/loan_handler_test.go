package http

import (
	"bytes"
	"encoding/json"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	domain "loanflow-backend/internal/domain/loan"
	"loanflow-backend/internal/domain/stats"
	"loanflow-backend/internal/store/memory"
	"loanflow-backend/internal/usecase/lifecycle"
	"loanflow-backend/internal/usecase/metrics"
	"loanflow-backend/internal/usecase/query"
)

// -------- helpers --------

type testApp struct {
	e   *echo.Echo
	agg *metrics.Aggregator
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	s := memory.NewStore()
	agg, err := metrics.NewAggregator(s, stats.DefaultBaseline())
	if err != nil {
		t.Fatalf("aggregator: %v", err)
	}
	engine := lifecycle.NewEngine(s, agg)
	queries := query.NewQueries(s)

	loans := NewLoanHandler(engine, queries)
	dashboard := NewDashboardHandler(agg)

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.POST("/loans", loans.Apply, RequirePrincipal())
	e.POST("/loans/:loan_id/verify", loans.Verify, RequirePrincipal())
	e.POST("/loans/:loan_id/approve", loans.Approve, RequirePrincipal())
	e.GET("/loans", loans.List)
	e.GET("/loans/:loan_id", loans.Get)
	e.GET("/users/:user_id/loans", loans.ByApplicant)
	e.GET("/dashboard/stats", dashboard.Stats)
	e.GET("/dashboard/chart", dashboard.Chart)
	return &testApp{e: e, agg: agg}
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func asUser(req *stdhttp.Request, id, name, role string) {
	req.Header.Set(HeaderUserID, id)
	req.Header.Set(HeaderUserName, name)
	req.Header.Set(HeaderUserRole, role)
}

func (a *testApp) do(t *testing.T, method, path string, body *bytes.Reader, identity func(*stdhttp.Request)) *httptest.ResponseRecorder {
	t.Helper()
	var req *stdhttp.Request
	if body != nil {
		req = httptest.NewRequest(method, path, body)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if identity != nil {
		identity(req)
	}
	rec := httptest.NewRecorder()
	a.e.ServeHTTP(rec, req)
	return rec
}

func (a *testApp) applyLoan(t *testing.T, amount float64) domain.Loan {
	t.Helper()
	rec := a.do(t, stdhttp.MethodPost, "/loans", mustJSON(map[string]any{"amount": amount, "purpose": "Business"}),
		func(r *stdhttp.Request) { asUser(r, "user-1", "Regular User", "user") })
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("apply status = %d body=%s", rec.Code, rec.Body.String())
	}
	var l domain.Loan
	if err := json.Unmarshal(rec.Body.Bytes(), &l); err != nil {
		t.Fatalf("bad json: %v", err)
	}
	return l
}

// -------- tests --------

func TestApply_Created(t *testing.T) {
	app := newTestApp(t)
	l := app.applyLoan(t, 1000)

	if l.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", l.Status)
	}
	if l.ApplicantID != "user-1" || l.ApplicantName != "Regular User" {
		t.Fatalf("applicant not recorded: %+v", l)
	}
}

func TestApply_NoIdentity(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, stdhttp.MethodPost, "/loans", mustJSON(map[string]any{"amount": 1000, "purpose": "Business"}), nil)
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestApply_UnknownRole(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, stdhttp.MethodPost, "/loans", mustJSON(map[string]any{"amount": 1000, "purpose": "Business"}),
		func(r *stdhttp.Request) { asUser(r, "user-1", "X", "superuser") })
	if rec.Code != stdhttp.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", rec.Code)
	}
}

func TestApply_ValidationDetails(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, stdhttp.MethodPost, "/loans", mustJSON(map[string]any{"amount": -5, "purpose": ""}),
		func(r *stdhttp.Request) { asUser(r, "user-1", "X", "user") })
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 body=%s", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if !containsFieldMsg(er.Details, "Amount", "greater than") {
		t.Fatalf("missing amount detail: %+v", er.Details)
	}
	if !containsFieldMsg(er.Details, "Purpose", "is required") {
		t.Fatalf("missing purpose detail: %+v", er.Details)
	}
}

func TestVerify_ForbiddenForUserRole(t *testing.T) {
	app := newTestApp(t)
	l := app.applyLoan(t, 1000)

	rec := app.do(t, stdhttp.MethodPost, "/loans/"+l.LoanID+"/verify", mustJSON(map[string]any{"approve": true}),
		func(r *stdhttp.Request) { asUser(r, "user-2", "X", "user") })
	if rec.Code != stdhttp.StatusForbidden {
		t.Fatalf("status = %d, want 403 body=%s", rec.Code, rec.Body.String())
	}

	// loan untouched
	get := app.do(t, stdhttp.MethodGet, "/loans/"+l.LoanID, nil, nil)
	var got domain.Loan
	_ = json.Unmarshal(get.Body.Bytes(), &got)
	if got.Status != domain.StatusPending {
		t.Fatalf("status = %s, want pending", got.Status)
	}
}

func TestVerify_MissingApproveField(t *testing.T) {
	app := newTestApp(t)
	l := app.applyLoan(t, 1000)

	rec := app.do(t, stdhttp.MethodPost, "/loans/"+l.LoanID+"/verify", mustJSON(map[string]any{"notes": "x"}),
		func(r *stdhttp.Request) { asUser(r, "ver-1", "V", "verifier") })
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422", rec.Code)
	}
}

func TestVerify_MalformedLoanID(t *testing.T) {
	app := newTestApp(t)

	rec := app.do(t, stdhttp.MethodPost, "/loans/not-a-loan-id/verify", mustJSON(map[string]any{"approve": true}),
		func(r *stdhttp.Request) { asUser(r, "ver-1", "V", "verifier") })
	if rec.Code != stdhttp.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422 body=%s", rec.Code, rec.Body.String())
	}
	var er ErrorResponse
	_ = json.Unmarshal(rec.Body.Bytes(), &er)
	if !containsFieldMsg(er.Details, "LoanID", "32-char lowercase hex") {
		t.Fatalf("missing loan id detail: %+v", er.Details)
	}
}

func TestLifecycleOverHTTP(t *testing.T) {
	app := newTestApp(t)
	l := app.applyLoan(t, 1000)
	disbursedBefore := app.agg.Stats().CashDisbursed

	rec := app.do(t, stdhttp.MethodPost, "/loans/"+l.LoanID+"/verify", mustJSON(map[string]any{"approve": true, "notes": "ok"}),
		func(r *stdhttp.Request) { asUser(r, "ver-1", "John Okoh", "verifier") })
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("verify status = %d body=%s", rec.Code, rec.Body.String())
	}

	rec = app.do(t, stdhttp.MethodPost, "/loans/"+l.LoanID+"/approve", mustJSON(map[string]any{"approve": true}),
		func(r *stdhttp.Request) { asUser(r, "adm-1", "Admin User", "admin") })
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("approve status = %d body=%s", rec.Code, rec.Body.String())
	}
	var got domain.Loan
	_ = json.Unmarshal(rec.Body.Bytes(), &got)
	if got.Status != domain.StatusApproved || got.ApprovedBy != "adm-1" || got.VerifiedBy != "ver-1" {
		t.Fatalf("unexpected record: %+v", got)
	}

	// dashboard reflects the committed approval
	var st map[string]any
	stRec := app.do(t, stdhttp.MethodGet, "/dashboard/stats", nil, nil)
	_ = json.Unmarshal(stRec.Body.Bytes(), &st)
	if diff := st["cash_disbursed"].(float64) - disbursedBefore; diff != 1000 {
		t.Fatalf("cash_disbursed moved by %v, want 1000", diff)
	}
}

func TestApprove_ConflictOnTerminalLoan(t *testing.T) {
	app := newTestApp(t)
	l := app.applyLoan(t, 1000)

	rec := app.do(t, stdhttp.MethodPost, "/loans/"+l.LoanID+"/verify", mustJSON(map[string]any{"approve": false}),
		func(r *stdhttp.Request) { asUser(r, "ver-1", "V", "verifier") })
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("verify status = %d", rec.Code)
	}

	rec = app.do(t, stdhttp.MethodPost, "/loans/"+l.LoanID+"/approve", mustJSON(map[string]any{"approve": true}),
		func(r *stdhttp.Request) { asUser(r, "adm-1", "A", "admin") })
	if rec.Code != stdhttp.StatusConflict {
		t.Fatalf("status = %d, want 409 body=%s", rec.Code, rec.Body.String())
	}
}

func TestGet_NotFound(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, stdhttp.MethodGet, "/loans/deadbeefdeadbeefdeadbeefdeadbeef", nil, nil)
	if rec.Code != stdhttp.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestList_AndStatusFilter(t *testing.T) {
	app := newTestApp(t)
	app.applyLoan(t, 100)
	l2 := app.applyLoan(t, 200)
	app.do(t, stdhttp.MethodPost, "/loans/"+l2.LoanID+"/verify", mustJSON(map[string]any{"approve": true}),
		func(r *stdhttp.Request) { asUser(r, "ver-1", "V", "verifier") })

	rec := app.do(t, stdhttp.MethodGet, "/loans", nil, nil)
	var all []domain.Loan
	_ = json.Unmarshal(rec.Body.Bytes(), &all)
	if len(all) != 2 {
		t.Fatalf("list len = %d, want 2", len(all))
	}

	rec = app.do(t, stdhttp.MethodGet, "/loans?status=verified", nil, nil)
	var verified []domain.Loan
	_ = json.Unmarshal(rec.Body.Bytes(), &verified)
	if len(verified) != 1 || verified[0].LoanID != l2.LoanID {
		t.Fatalf("verified filter wrong: %+v", verified)
	}

	rec = app.do(t, stdhttp.MethodGet, "/loans?status=bogus", nil, nil)
	if rec.Code != stdhttp.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestByApplicant(t *testing.T) {
	app := newTestApp(t)
	app.applyLoan(t, 100) // user-1
	rec := app.do(t, stdhttp.MethodPost, "/loans", mustJSON(map[string]any{"amount": 300, "purpose": "Education"}),
		func(r *stdhttp.Request) { asUser(r, "user-9", "Other", "user") })
	if rec.Code != stdhttp.StatusCreated {
		t.Fatalf("second apply status = %d", rec.Code)
	}

	rec = app.do(t, stdhttp.MethodGet, "/users/user-9/loans", nil, nil)
	var out []domain.Loan
	_ = json.Unmarshal(rec.Body.Bytes(), &out)
	if len(out) != 1 || out[0].ApplicantID != "user-9" {
		t.Fatalf("unexpected projection: %+v", out)
	}
}

func TestDashboardChart(t *testing.T) {
	app := newTestApp(t)
	rec := app.do(t, stdhttp.MethodGet, "/dashboard/chart", nil, nil)
	if rec.Code != stdhttp.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var ch map[string]any
	_ = json.Unmarshal(rec.Body.Bytes(), &ch)
	if ch["recovery_rate_open"].(float64) != 35 {
		t.Fatalf("recovery_rate_open = %v, want seeded 35", ch["recovery_rate_open"])
	}
	if len(ch["loans_released_monthly"].([]any)) != 12 {
		t.Fatal("expected 12 monthly buckets")
	}
}
