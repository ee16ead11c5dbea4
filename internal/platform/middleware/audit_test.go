package middleware

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

func TestParseCommandPath(t *testing.T) {
	id := "3f2c8c4e-7d1a-4a55-9a55-1f6a2b1c0d9e"
	cases := []struct {
		method, path            string
		module, collection, act string
		recordID                string
	}{
		{http.MethodPost, "/api/v1/cadastro/servicos", "cadastro", "servicos", "create", ""},
		{http.MethodPost, "/api/v1/cadastro/servicos/novo", "cadastro", "servicos", "create", ""},
		{http.MethodPut, "/api/v1/cadastro/servicos/" + id, "cadastro", "servicos", "update", id},
		{http.MethodPost, "/api/v1/cadastro/servicos/" + id + "/status", "cadastro", "servicos", "toggle", id},
		{http.MethodDelete, "/api/v1/atendimento/pacientes/" + id, "atendimento", "pacientes", "delete", id},
		{http.MethodPost, "/api/v1/financeiro/glosas/" + id + "/tratamento", "financeiro", "glosas", "treat", id},
		{http.MethodPost, "/api/v1/financeiro/contas/transferencias", "financeiro", "contas", "transfer", ""},
		{http.MethodPost, "/api/v1/financeiro/guias/" + id + "/faturar", "financeiro", "guias", "bill", id},
		{http.MethodPost, "/api/v1/transferencia/lotes/" + id + "/enviar", "transferencia", "lotes", "dispatch", id},
	}
	for _, c := range cases {
		e := parseCommandPath(c.method, c.path)
		if e.Module != c.module || e.Collection != c.collection || e.Action != c.act || e.RecordID != c.recordID {
			t.Errorf("%s %s: got %+v", c.method, c.path, e)
		}
	}
}

func TestAudit_RecordsCommandsOnly(t *testing.T) {
	var buf bytes.Buffer
	var entries []AuditEntry
	rec := AuditRecorderFunc(func(e AuditEntry) error {
		entries = append(entries, e)
		return nil
	})
	mw := Audit(zerolog.New(&buf), rec)
	e := echo.New()

	for _, r := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/cadastro/servicos"},
		{http.MethodPost, "/health"},
		{http.MethodPost, "/api/v1/cadastro/servicos"},
	} {
		req := httptest.NewRequest(r.method, r.path, nil)
		req.Header.Set("X-Client-ID", "tab-1")
		c := e.NewContext(req, httptest.NewRecorder())
		c.Set("request_id", "rid")
		if err := mw(func(c echo.Context) error { return c.NoContent(http.StatusCreated) })(c); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}

	if len(entries) != 1 {
		t.Fatalf("expected 1 audited command, got %d", len(entries))
	}
	got := entries[0]
	if got.Action != "create" || got.ClientID != "tab-1" || got.RequestID != "rid" || got.Status != http.StatusCreated {
		t.Errorf("unexpected entry: %+v", got)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"type":"command_audit"`)) {
		t.Errorf("expected audit log line, got %s", buf.String())
	}
}
