package financeiro

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/registry"
	"github.com/labsuite/labsuite/internal/platform/store"
)

const Module = "financeiro"

// TxRunner runs fn atomically against the store. The default runs fn as is.
type TxRunner func(ctx context.Context, fn func(ctx context.Context) error) error

func noTx(ctx context.Context, fn func(ctx context.Context) error) error { return fn(ctx) }

type Services struct {
	Guides   *registry.Service[*Guide]
	Glosas   *registry.Service[*Glosa]
	Accounts *registry.Service[*Account]

	mu     sync.Mutex // serializes balance changes
	inTx   TxRunner
	now    func() time.Time
	logger zerolog.Logger
}

func NewServices(st store.Store, mode form.Mode, logger zerolog.Logger) *Services {
	logger = logger.With().Str("module", Module).Logger()
	s := &Services{
		Guides: registry.NewStoreService(st, registry.Config[*Guide]{
			Module:       Module,
			Collection:   "guias",
			Noun:         "Guia",
			Feminine:     true,
			New:          func() *Guide { return &Guide{} },
			Schema:       guideSchema(),
			Normalize:    normalizeGuide,
			Preserve:     preserveGuide,
			CategoryKeys: []string{"convenio", "faturada"},
			Mode:         mode,
		}, logger),
		Glosas: registry.NewStoreService(st, registry.Config[*Glosa]{
			Module:       Module,
			Collection:   "glosas",
			Noun:         "Glosa",
			Feminine:     true,
			New:          func() *Glosa { return &Glosa{} },
			Schema:       glosaSchema(),
			Normalize:    normalizeGlosa,
			Preserve:     preserveGlosa,
			CategoryKeys: []string{"treatment"},
			Mode:         mode,
		}, logger),
		Accounts: registry.NewStoreService(st, registry.Config[*Account]{
			Module:       Module,
			Collection:   "contas",
			Noun:         "Conta",
			Feminine:     true,
			New:          func() *Account { return &Account{} },
			Schema:       accountSchema(),
			Preserve:     preserveAccount,
			CategoryKeys: []string{"tipo"},
			Mode:         mode,
		}, logger),
		inTx:   noTx,
		now:    func() time.Time { return time.Now().UTC() },
		logger: logger,
	}
	s.Guides.SetDeleteGuard(guideBilled)
	s.Glosas.SetDeleteGuard(glosaTreated)
	s.Accounts.SetDeleteGuard(accountHasBalance)
	return s
}

// SetTxRunner makes transfers run inside fn's transaction.
func (s *Services) SetTxRunner(fn TxRunner) {
	if fn == nil {
		fn = noTx
	}
	s.inTx = fn
}

func guideSchema() *form.Schema[*Guide] {
	return form.NewSchema[*Guide]().
		Field("code", "Número da guia", func(g *Guide) string { return g.Code }, form.Required()).
		Field("label", "Paciente", func(g *Guide) string { return g.Label }, form.Required()).
		Field("payer_code", "Convênio", func(g *Guide) string { return g.PayerCode }, form.Required()).
		Field("issued_at", "Data de emissão", func(g *Guide) string { return g.IssuedAt }, form.Required(), form.Date()).
		Field("items", "Itens", func(g *Guide) string { return strconv.Itoa(len(g.Items)) }, form.Positive()).
		Check("items.quantity", "Quantidade", func(g *Guide) string {
			for i, it := range g.Items {
				if it.ProcedureCode == "" {
					return fmt.Sprintf("Informe o serviço do item %d", i+1)
				}
				if it.Quantity <= 0 {
					return fmt.Sprintf("A quantidade do item %d deve ser maior que zero", i+1)
				}
				if it.UnitCents < 0 {
					return fmt.Sprintf("O valor do item %d não pode ser negativo", i+1)
				}
			}
			return ""
		})
}

func normalizeGuide(g *Guide) {
	g.PayerCode = strings.ToUpper(strings.TrimSpace(g.PayerCode))
	g.RequesterCode = strings.TrimSpace(g.RequesterCode)
	var total int64
	for i := range g.Items {
		g.Items[i].ProcedureCode = strings.ToUpper(strings.TrimSpace(g.Items[i].ProcedureCode))
		total += g.Items[i].TotalCents()
	}
	g.TotalCents = total
}

// preserveGuide keeps billing under the control of Bill.
func preserveGuide(prev, next *Guide) {
	next.Billed = prev.Billed
	next.BilledAt = prev.BilledAt
}

func glosaSchema() *form.Schema[*Glosa] {
	return form.NewSchema[*Glosa]().
		Field("code", "Código", func(g *Glosa) string { return g.Code }, form.Required()).
		Field("label", "Motivo", func(g *Glosa) string { return g.Label }, form.Required()).
		Field("guide_id", "Guia", func(g *Glosa) string { return g.GuideID }, form.Required()).
		Field("billed_cents", "Valor faturado", func(g *Glosa) string { return strconv.FormatInt(g.BilledCents, 10) }, form.Positive()).
		Field("denied_cents", "Valor glosado", func(g *Glosa) string { return strconv.FormatInt(g.DeniedCents, 10) }, form.Positive()).
		Check("denied_cents", "Valor glosado", func(g *Glosa) string {
			if g.DeniedCents > g.BilledCents {
				return "O valor glosado não pode exceder o valor faturado"
			}
			return ""
		}).
		Field("treatment", "Tratamento", func(g *Glosa) string { return g.Treatment },
			form.OneOf(TreatmentPending, TreatmentAccepted, TreatmentResubmitted, TreatmentCancelled))
}

func normalizeGlosa(g *Glosa) {
	g.ItemCode = strings.ToUpper(strings.TrimSpace(g.ItemCode))
	if g.Treatment == "" {
		g.Treatment = TreatmentPending
	}
}

// preserveGlosa keeps the treatment under the control of the treatment
// dialog. A new glosa always starts pending.
func preserveGlosa(prev, next *Glosa) {
	next.Treatment = prev.Treatment
	next.Justification = prev.Justification
	next.ResubmittedCents = prev.ResubmittedCents
	next.TreatedAt = prev.TreatedAt
}

// preserveAccount lets a new account open with a balance; afterwards only
// transfers move it.
func preserveAccount(prev, next *Account) {
	if prev.ID != uuid.Nil {
		next.BalanceCents = prev.BalanceCents
	}
}

func accountSchema() *form.Schema[*Account] {
	return form.NewSchema[*Account]().
		Field("code", "Agência/Conta", func(a *Account) string { return a.Code }, form.Required()).
		Field("label", "Descrição", func(a *Account) string { return a.Label }, form.Required()).
		Field("tipo", "Tipo", func(a *Account) string { return a.Tipo },
			form.Required(), form.OneOf(AccountChecking, AccountCash, AccountInvest)).
		Check("balance_cents", "Saldo inicial", func(a *Account) string {
			if a.BalanceCents < 0 {
				return "O saldo inicial não pode ser negativo"
			}
			return ""
		})
}

func guideBilled(_ context.Context, g *Guide) error {
	if g.Billed {
		return registry.Blocked("Guia %s já faturada não pode ser excluída", g.Code)
	}
	return nil
}

func glosaTreated(_ context.Context, g *Glosa) error {
	if g.Treated() {
		return registry.Blocked("Glosa %s já tratada não pode ser excluída", g.Code)
	}
	return nil
}

func accountHasBalance(_ context.Context, a *Account) error {
	if a.BalanceCents != 0 {
		return registry.Blocked("Conta %s possui saldo de %s", a.Code, FormatBRL(a.BalanceCents))
	}
	return nil
}
