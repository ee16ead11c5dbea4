package atendimento

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/registry"
	"github.com/labsuite/labsuite/internal/platform/store"
)

const Module = "atendimento"

type Services struct {
	Patients *registry.Service[*Patient]
}

func NewServices(st store.Store, mode form.Mode, logger zerolog.Logger) *Services {
	s := &Services{}
	s.Patients = registry.NewStoreService(st, registry.Config[*Patient]{
		Module:     Module,
		Collection: "pacientes",
		Noun:       "Paciente",
		New:        func() *Patient { return &Patient{} },
		Schema:     patientSchema(),
		Normalize:  normalizePatient,
		Preserve: func(prev, next *Patient) {
			if strings.TrimSpace(next.Code) == "" {
				next.Code = prev.Code
			}
		},
		NextCode:     s.nextRecordNumber,
		CategoryKeys: []string{"sexo"},
		Mode:         mode,
	}, logger.With().Str("module", Module).Logger())
	return s
}

// nextRecordNumber follows the highest P-numbered record: P0001, P0002, ...
func (s *Services) nextRecordNumber(ctx context.Context) (string, error) {
	patients, err := s.Patients.Repo().List(ctx, registry.Filter{})
	if err != nil {
		return "", err
	}
	last := 0
	for _, p := range patients {
		if !strings.HasPrefix(p.Code, "P") {
			continue
		}
		if n, err := strconv.Atoi(p.Code[1:]); err == nil && n > last {
			last = n
		}
	}
	return fmt.Sprintf("P%04d", last+1), nil
}

func patientSchema() *form.Schema[*Patient] {
	return form.NewSchema[*Patient]().
		Field("label", "Nome", func(p *Patient) string { return p.Label }, form.Required(), form.MaxLen(120)).
		Field("cpf", "CPF", func(p *Patient) string { return p.CPF }, form.Required(), form.Digits(11)).
		Field("birth_date", "Data de nascimento", func(p *Patient) string { return p.BirthDate }, form.Required(), form.Date()).
		Field("phone", "Telefone", func(p *Patient) string { return p.Phone }, form.Required(), form.Phone()).
		Field("email", "E-mail", func(p *Patient) string { return p.Email }, form.Email()).
		Field("sexo", "Sexo", func(p *Patient) string { return p.Sexo }, form.OneOf("F", "M", "O")).
		Field("code", "Prontuário", func(p *Patient) string { return p.Code }, form.Required(), form.MaxLen(20))
}

func normalizePatient(p *Patient) {
	p.CPF = form.MaskCPF(p.CPF)
	p.Phone = form.MaskPhone(p.Phone)
	p.Email = strings.TrimSpace(p.Email)
	p.Sexo = strings.ToUpper(strings.TrimSpace(p.Sexo))
}

// Seed loads the demonstration patients into an empty collection.
func (s *Services) Seed(ctx context.Context) (int, error) {
	n, err := registry.SeedIfEmpty(ctx, s.Patients.Repo(),
		&Patient{Record: rec("P0001", "Maria da Silva"), CPF: "123.456.789-09", BirthDate: "1985-03-14", Phone: "(11) 99999-8888", Email: "maria.silva@email.com", Sexo: "F"},
		&Patient{Record: rec("P0002", "João Pereira"), CPF: "987.654.321-00", BirthDate: "1972-11-02", Phone: "(11) 3333-4444", Sexo: "M"},
		&Patient{Record: rec("P0003", "Lúcia Fernandes"), CPF: "111.222.333-96", BirthDate: "1990-07-21", Phone: "(21) 98765-4321", Email: "lucia.f@email.com", Sexo: "F"},
	)
	if err != nil {
		return n, fmt.Errorf("seed patients: %w", err)
	}
	return n, nil
}

func rec(code, label string) registry.Record {
	return registry.Record{Code: code, Label: label, Status: registry.StatusActive}
}
