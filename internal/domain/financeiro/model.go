// Package financeiro covers billing: insurance guides (guias), payer denials
// (glosas) and their treatment, and cash accounts with transfers.
package financeiro

import (
	"time"

	"github.com/labsuite/labsuite/internal/platform/registry"
)

// GuideItem is one billed procedure line.
type GuideItem struct {
	ProcedureCode string `json:"procedure_code"`
	Quantity      int    `json:"quantity"`
	UnitCents     int64  `json:"unit_cents"`
}

func (i GuideItem) TotalCents() int64 {
	return int64(i.Quantity) * i.UnitCents
}

// Guide is an insurance claim billed to a payer. Code holds the guide number
// and Label the patient name.
type Guide struct {
	registry.Record
	PatientID     string      `json:"patient_id"`
	PayerCode     string      `json:"payer_code"`
	RequesterCode string      `json:"requester_code,omitempty"`
	Items         []GuideItem `json:"items"`
	Billed        bool        `json:"billed"`
	BilledAt      *time.Time  `json:"billed_at,omitempty"`
	IssuedAt      string      `json:"issued_at"`
	TotalCents    int64       `json:"total_cents"`
}

func (g *Guide) Categories() map[string]string {
	billed := "nao"
	if g.Billed {
		billed = "sim"
	}
	return map[string]string{"convenio": g.PayerCode, "faturada": billed}
}

// Treatment states of a glosa.
const (
	TreatmentPending     = "pendente"
	TreatmentAccepted    = "aceita"
	TreatmentResubmitted = "recursada"
	TreatmentCancelled   = "cancelada"
)

// Glosa is a payer's denial of all or part of a billed guide item. Label
// holds the denial reason.
type Glosa struct {
	registry.Record
	GuideID          string     `json:"guide_id"`
	ItemCode         string     `json:"item_code"`
	BilledCents      int64      `json:"billed_cents"`
	DeniedCents      int64      `json:"denied_cents"`
	Treatment        string     `json:"treatment"`
	Justification    string     `json:"justification,omitempty"`
	ResubmittedCents int64      `json:"resubmitted_cents,omitempty"`
	TreatedAt        *time.Time `json:"treated_at,omitempty"`
}

func (g *Glosa) Categories() map[string]string {
	return map[string]string{"treatment": g.Treatment}
}

// Treated reports whether the glosa left the pending state.
func (g *Glosa) Treated() bool {
	return g.Treatment != "" && g.Treatment != TreatmentPending
}

// Account kinds.
const (
	AccountChecking = "corrente"
	AccountCash     = "caixa"
	AccountInvest   = "aplicacao"
)

// Account is a bank or cash account. Code holds agency/account.
type Account struct {
	registry.Record
	Tipo         string `json:"tipo"`
	BalanceCents int64  `json:"balance_cents"`
}

func (a *Account) Categories() map[string]string {
	return map[string]string{"tipo": a.Tipo}
}
