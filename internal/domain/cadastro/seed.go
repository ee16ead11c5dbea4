package cadastro

import (
	"context"
	"fmt"

	"github.com/labsuite/labsuite/internal/platform/registry"
)

// Seed loads the demonstration registries into empty collections.
func (s *Services) Seed(ctx context.Context) (int, error) {
	total := 0

	n, err := registry.SeedIfEmpty(ctx, s.Containers.Repo(),
		&Container{Record: rec("EDTA4", "Tubo EDTA 4 mL"), Material: "sangue", VolumeML: 4, Color: "roxo"},
		&Container{Record: rec("SEC5", "Tubo seco com gel 5 mL"), Material: "sangue", VolumeML: 5, Color: "amarelo"},
		&Container{Record: rec("FLU2", "Tubo fluoreto 2 mL"), Material: "sangue", VolumeML: 2, Color: "cinza"},
		&Container{Record: rec("URI80", "Frasco coletor de urina"), Material: "urina", VolumeML: 80, Color: "transparente"},
	)
	total += n
	if err != nil {
		return total, fmt.Errorf("seed containers: %w", err)
	}

	n, err = registry.SeedIfEmpty(ctx, s.Procedures.Repo(),
		&Procedure{Record: rec("HEMO", "Hemograma completo"), Tipo: TipoLaboratorial, Bancada: "hematologia", PriceCents: 1850, ContainerCode: "EDTA4"},
		&Procedure{Record: rec("GLI", "Glicemia de jejum"), Tipo: TipoLaboratorial, Bancada: "bioquimica", PriceCents: 620, ContainerCode: "FLU2"},
		&Procedure{Record: rec("COL", "Colesterol total e frações"), Tipo: TipoLaboratorial, Bancada: "bioquimica", PriceCents: 2400, ContainerCode: "SEC5"},
		&Procedure{Record: rec("EAS", "Urina tipo I"), Tipo: TipoLaboratorial, Bancada: "uroanalise", PriceCents: 950, ContainerCode: "URI80"},
		&Procedure{Record: rec("RXTOR", "Raio-X de tórax PA"), Tipo: TipoImagem, Bancada: "imagem", PriceCents: 7500},
		&Procedure{Record: rec("CONS", "Consulta clínica"), Tipo: TipoConsulta, PriceCents: 15000},
	)
	total += n
	if err != nil {
		return total, fmt.Errorf("seed procedures: %w", err)
	}

	n, err = registry.SeedIfEmpty(ctx, s.Professionals.Repo(),
		&Professional{Record: rec("123456", "Dra. Ana Souza"), Especialidade: "clínica médica", Conselho: "CRM", UF: "SP", Email: "ana.souza@clinica.com.br", Phone: "(11) 98888-1234"},
		&Professional{Record: rec("654321", "Dr. Carlos Lima"), Especialidade: "cardiologia", Conselho: "CRM", UF: "RJ", Email: "carlos.lima@clinica.com.br", Phone: "(21) 3333-4444"},
		&Professional{Record: rec("7788", "Marina Alves"), Especialidade: "análises clínicas", Conselho: "CRBM", UF: "SP", Email: "marina.alves@lab.com.br", Phone: "(11) 97777-0000"},
	)
	total += n
	if err != nil {
		return total, fmt.Errorf("seed professionals: %w", err)
	}

	n, err = registry.SeedIfEmpty(ctx, s.Payers.Repo(),
		&Payer{Record: rec("PART", "Particular"), Tipo: PayerParticular},
		&Payer{Record: rec("326305", "Saúde Integral"), Tipo: PayerPlano, Email: "faturamento@saudeintegral.com.br", Phone: "(11) 4004-1000"},
		&Payer{Record: rec("SUS", "Sistema Único de Saúde"), Tipo: PayerSUS},
	)
	total += n
	if err != nil {
		return total, fmt.Errorf("seed payers: %w", err)
	}
	return total, nil
}

func rec(code, label string) registry.Record {
	return registry.Record{Code: code, Label: label, Status: registry.StatusActive}
}
