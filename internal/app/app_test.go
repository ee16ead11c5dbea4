package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/registry"
	"github.com/labsuite/labsuite/internal/platform/store"
)

func newSeededApp(t *testing.T) *App {
	t.Helper()
	a := New(store.NewMemory(), form.FailFast, zerolog.Nop())
	if _, err := a.Seed(context.Background()); err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	return a
}

func TestSeed_Idempotent(t *testing.T) {
	a := New(store.NewMemory(), form.FailFast, zerolog.Nop())
	ctx := context.Background()

	n, err := a.Seed(ctx)
	if err != nil {
		t.Fatalf("Seed() error: %v", err)
	}
	if n != 31 {
		t.Errorf("expected 31 seeded records, got %d", n)
	}

	n, err = a.Seed(ctx)
	if err != nil {
		t.Fatalf("second Seed() error: %v", err)
	}
	if n != 0 {
		t.Errorf("expected second seed to add nothing, got %d", n)
	}
}

func TestDeletePatient_BlockedByGuide(t *testing.T) {
	a := newSeededApp(t)
	ctx := context.Background()
	p, err := a.Atendimento.Patients.Repo().FindByCode(ctx, "P0001")
	if err != nil {
		t.Fatalf("patient: %v", err)
	}

	res, err := a.Atendimento.Patients.Delete(ctx, p.ID, true)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if res.Outcome != registry.OutcomeBlocked {
		t.Fatalf("expected blocked, got %s", res.Outcome)
	}
	if res.Message != "Paciente Maria da Silva possui a guia G2024-0001" {
		t.Errorf("unexpected message %q", res.Message)
	}
}

func TestDeletePatient_BlockedBySample(t *testing.T) {
	a := newSeededApp(t)
	ctx := context.Background()
	p, err := a.Atendimento.Patients.Repo().FindByCode(ctx, "P0003")
	if err != nil {
		t.Fatalf("patient: %v", err)
	}

	res, err := a.Atendimento.Patients.Delete(ctx, p.ID, true)
	if err != nil {
		t.Fatalf("Delete() error: %v", err)
	}
	if res.Outcome != registry.OutcomeBlocked {
		t.Fatalf("expected blocked, got %s", res.Outcome)
	}
	if res.Message != "Paciente Lúcia Fernandes possui a amostra 78910000031" {
		t.Errorf("unexpected message %q", res.Message)
	}
	if _, err := a.Atendimento.Patients.Get(ctx, p.ID); err != nil {
		t.Errorf("expected patient to survive a refused delete: %v", err)
	}
}

func TestDeleteCatalog_CrossModuleGuards(t *testing.T) {
	a := newSeededApp(t)
	ctx := context.Background()

	proc, _ := a.Cadastro.Procedures.Repo().FindByCode(ctx, "HEMO")
	res, err := a.Cadastro.Procedures.Delete(ctx, proc.ID, true)
	if err != nil || res.Outcome != registry.OutcomeBlocked {
		t.Errorf("expected HEMO blocked, got %s (%v)", res.Outcome, err)
	}

	payer, _ := a.Cadastro.Payers.Repo().FindByCode(ctx, "326305")
	res2, err := a.Cadastro.Payers.Delete(ctx, payer.ID, true)
	if err != nil || res2.Outcome != registry.OutcomeBlocked {
		t.Errorf("expected payer blocked, got %s (%v)", res2.Outcome, err)
	}
	if res2.Message != "Convênio 326305 possui a guia G2024-0001" {
		t.Errorf("unexpected message %q", res2.Message)
	}

	requester, _ := a.Cadastro.Professionals.Repo().FindByCode(ctx, "123456")
	res3, err := a.Cadastro.Professionals.Delete(ctx, requester.ID, true)
	if err != nil || res3.Outcome != registry.OutcomeBlocked {
		t.Errorf("expected requester blocked, got %s (%v)", res3.Outcome, err)
	}

	unused, _ := a.Cadastro.Procedures.Repo().FindByCode(ctx, "EAS")
	res4, err := a.Cadastro.Procedures.Delete(ctx, unused.ID, false)
	if err != nil || res4.Outcome != registry.OutcomeConfirmationRequired {
		t.Errorf("expected EAS to ask for confirmation, got %s (%v)", res4.Outcome, err)
	}
	res4, err = a.Cadastro.Procedures.Delete(ctx, unused.ID, true)
	if err != nil || res4.Outcome != registry.OutcomeSuccess {
		t.Errorf("expected EAS deleted, got %s (%v)", res4.Outcome, err)
	}
}

func TestRegisterRoutes_MountsModules(t *testing.T) {
	a := newSeededApp(t)
	e := echo.New()
	a.RegisterRoutes(e.Group("/api/v1"), nil)

	paths := []string{
		"/api/v1/cadastro/servicos",
		"/api/v1/cadastro/profissionais",
		"/api/v1/cadastro/recipientes",
		"/api/v1/cadastro/convenios",
		"/api/v1/atendimento/pacientes",
		"/api/v1/financeiro/guias",
		"/api/v1/financeiro/guias/resumo",
		"/api/v1/financeiro/glosas",
		"/api/v1/financeiro/contas",
		"/api/v1/laboratorio/amostras",
		"/api/v1/laboratorio/amostras/disponiveis",
		"/api/v1/laboratorio/lotes",
		"/api/v1/transferencia/lotes",
	}
	for _, p := range paths {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Errorf("GET %s: expected 200, got %d: %s", p, rec.Code, rec.Body.String())
		}
	}
}

func TestSetTxRunner_UsedByTransfer(t *testing.T) {
	a := newSeededApp(t)
	ctx := context.Background()
	calls := 0
	a.SetTxRunner(func(ctx context.Context, fn func(ctx context.Context) error) error {
		calls++
		return fn(ctx)
	})

	from, _ := a.Financeiro.Accounts.Repo().FindByCode(ctx, "CAIXA")
	to, _ := a.Financeiro.Accounts.Repo().FindByCode(ctx, "0001/99887-1")
	e := echo.New()
	a.RegisterRoutes(e.Group("/api/v1"), nil)
	body := `{"from":"` + from.ID.String() + `","to":"` + to.ID.String() + `","amount_cents":1000}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/financeiro/contas/transferencias", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if calls != 1 {
		t.Errorf("expected the transfer to run in one transaction, got %d", calls)
	}
}
