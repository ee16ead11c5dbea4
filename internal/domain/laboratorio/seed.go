package laboratorio

import (
	"context"
	"fmt"

	"github.com/labsuite/labsuite/internal/domain/atendimento"
	"github.com/labsuite/labsuite/internal/platform/registry"
)

// Seed loads demonstration samples for the seeded patients. Batches are left
// empty so the batch dialog has free samples to offer.
func (s *Services) Seed(ctx context.Context, intake *atendimento.Services) (int, error) {
	patients, err := intake.Patients.List(ctx, registry.Filter{})
	if err != nil {
		return 0, err
	}
	if len(patients) == 0 {
		return 0, nil
	}

	var samples []*Sample
	for i, p := range patients {
		samples = append(samples,
			&Sample{Record: rec(fmt.Sprintf("7891%06d1", i+1), p.Label), PatientID: p.ID.String(),
				Bancada: "hematologia", Material: "sangue", CollectedAt: "2024-03-04"},
			&Sample{Record: rec(fmt.Sprintf("7891%06d2", i+1), p.Label), PatientID: p.ID.String(),
				Bancada: "bioquimica", Material: "soro", CollectedAt: "2024-03-04"},
		)
	}
	n, err := registry.SeedIfEmpty(ctx, s.Samples.Repo(), samples...)
	if err != nil {
		return n, fmt.Errorf("seed samples: %w", err)
	}
	return n, nil
}

func rec(code, label string) registry.Record {
	return registry.Record{Code: code, Label: label, Status: registry.StatusActive}
}
