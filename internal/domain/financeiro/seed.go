package financeiro

import (
	"context"
	"fmt"

	"github.com/labsuite/labsuite/internal/domain/atendimento"
	"github.com/labsuite/labsuite/internal/platform/registry"
)

// Seed loads demonstration accounts, guides and glosas into empty
// collections. Guides are issued for the first seeded patients.
func (s *Services) Seed(ctx context.Context, intake *atendimento.Services) (int, error) {
	total := 0

	n, err := registry.SeedIfEmpty(ctx, s.Accounts.Repo(),
		&Account{Record: rec("0001/12345-6", "Conta movimento"), Tipo: AccountChecking, BalanceCents: 1_250_000},
		&Account{Record: rec("CAIXA", "Caixa da recepção"), Tipo: AccountCash, BalanceCents: 85_000},
		&Account{Record: rec("0001/99887-1", "Aplicação CDB"), Tipo: AccountInvest},
	)
	total += n
	if err != nil {
		return total, fmt.Errorf("seed accounts: %w", err)
	}

	patients, err := intake.Patients.List(ctx, registry.Filter{})
	if err != nil {
		return total, err
	}
	if len(patients) < 2 {
		return total, nil
	}

	guides := []*Guide{
		{
			Record: rec("G2024-0001", patients[0].Label), PatientID: patients[0].ID.String(),
			PayerCode: "326305", RequesterCode: "123456", IssuedAt: "2024-03-04", Billed: true,
			Items: []GuideItem{
				{ProcedureCode: "HEMO", Quantity: 1, UnitCents: 1850},
				{ProcedureCode: "GLI", Quantity: 1, UnitCents: 620},
			},
		},
		{
			Record: rec("G2024-0002", patients[1].Label), PatientID: patients[1].ID.String(),
			PayerCode: "PART", IssuedAt: "2024-03-05",
			Items: []GuideItem{{ProcedureCode: "RXTOR", Quantity: 1, UnitCents: 7500}},
		},
	}
	for _, g := range guides {
		normalizeGuide(g)
	}
	n, err = registry.SeedIfEmpty(ctx, s.Guides.Repo(), guides...)
	total += n
	if err != nil {
		return total, fmt.Errorf("seed guides: %w", err)
	}
	if n == 0 {
		return total, nil
	}
	billed := guides[0]

	n, err = registry.SeedIfEmpty(ctx, s.Glosas.Repo(),
		&Glosa{
			Record: rec("GL-0001", "Exame sem pedido médico anexado"), GuideID: billed.ID.String(),
			ItemCode: "GLI", BilledCents: 620, DeniedCents: 620, Treatment: TreatmentPending,
		},
	)
	total += n
	if err != nil {
		return total, fmt.Errorf("seed glosas: %w", err)
	}
	return total, nil
}

func rec(code, label string) registry.Record {
	return registry.Record{Code: code, Label: label, Status: registry.StatusActive}
}
