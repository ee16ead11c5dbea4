package cadastro

import (
	"context"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/registry"
	"github.com/labsuite/labsuite/internal/platform/store"
)

const Module = "cadastro"

// Services groups the registries of the cadastro module.
type Services struct {
	Procedures    *registry.Service[*Procedure]
	Professionals *registry.Service[*Professional]
	Containers    *registry.Service[*Container]
	Payers        *registry.Service[*Payer]
}

func NewServices(st store.Store, mode form.Mode, logger zerolog.Logger) *Services {
	logger = logger.With().Str("module", Module).Logger()
	s := &Services{
		Procedures: registry.NewStoreService(st, registry.Config[*Procedure]{
			Module:       Module,
			Collection:   "servicos",
			Noun:         "Serviço",
			New:          func() *Procedure { return &Procedure{} },
			Schema:       procedureSchema(),
			Normalize:    normalizeProcedure,
			CategoryKeys: []string{"tipo", "bancada"},
			Mode:         mode,
		}, logger),
		Professionals: registry.NewStoreService(st, registry.Config[*Professional]{
			Module:       Module,
			Collection:   "profissionais",
			Noun:         "Profissional",
			New:          func() *Professional { return &Professional{} },
			Schema:       professionalSchema(),
			Normalize:    normalizeProfessional,
			CategoryKeys: []string{"conselho", "especialidade", "uf"},
			Mode:         mode,
		}, logger),
		Containers: registry.NewStoreService(st, registry.Config[*Container]{
			Module:       Module,
			Collection:   "recipientes",
			Noun:         "Recipiente",
			New:          func() *Container { return &Container{} },
			Schema:       containerSchema(),
			Normalize:    func(c *Container) { c.Code = strings.ToUpper(strings.TrimSpace(c.Code)) },
			CategoryKeys: []string{"material"},
			Mode:         mode,
		}, logger),
		Payers: registry.NewStoreService(st, registry.Config[*Payer]{
			Module:       Module,
			Collection:   "convenios",
			Noun:         "Convênio",
			New:          func() *Payer { return &Payer{} },
			Schema:       payerSchema(),
			Normalize:    func(p *Payer) { p.Phone = form.MaskPhone(p.Phone) },
			CategoryKeys: []string{"tipo"},
			Mode:         mode,
		}, logger),
	}
	s.Containers.SetDeleteGuard(s.containerInUse)
	return s
}

func procedureSchema() *form.Schema[*Procedure] {
	return form.NewSchema[*Procedure]().
		Field("code", "Código", func(p *Procedure) string { return p.Code }, form.Required(), form.MaxLen(20)).
		Field("label", "Descrição", func(p *Procedure) string { return p.Label }, form.Required()).
		Field("tipo", "Tipo", func(p *Procedure) string { return p.Tipo },
			form.Required(), form.OneOf(TipoLaboratorial, TipoImagem, TipoConsulta))
}

func normalizeProcedure(p *Procedure) {
	p.Code = strings.ToUpper(strings.TrimSpace(p.Code))
	p.ContainerCode = strings.ToUpper(strings.TrimSpace(p.ContainerCode))
	p.Bancada = strings.TrimSpace(p.Bancada)
}

func professionalSchema() *form.Schema[*Professional] {
	return form.NewSchema[*Professional]().
		Field("label", "Nome", func(p *Professional) string { return p.Label }, form.Required()).
		Field("code", "Registro", func(p *Professional) string { return p.Code }, form.Required()).
		Field("conselho", "Conselho", func(p *Professional) string { return p.Conselho }, form.Required()).
		Field("email", "E-mail", func(p *Professional) string { return p.Email }, form.Required(), form.Email()).
		Field("phone", "Telefone", func(p *Professional) string { return p.Phone }, form.Required(), form.Phone())
}

func normalizeProfessional(p *Professional) {
	p.Conselho = strings.ToUpper(strings.TrimSpace(p.Conselho))
	p.UF = strings.ToUpper(strings.TrimSpace(p.UF))
	p.Email = strings.TrimSpace(p.Email)
	p.Phone = form.MaskPhone(p.Phone)
}

func containerSchema() *form.Schema[*Container] {
	return form.NewSchema[*Container]().
		Field("code", "Código", func(c *Container) string { return c.Code }, form.Required()).
		Field("label", "Descrição", func(c *Container) string { return c.Label }, form.Required()).
		Field("material", "Material", func(c *Container) string { return c.Material }, form.Required()).
		Field("volume_ml", "Volume", func(c *Container) string { return strconv.Itoa(c.VolumeML) }, form.Positive())
}

func payerSchema() *form.Schema[*Payer] {
	return form.NewSchema[*Payer]().
		Field("code", "Registro ANS", func(p *Payer) string { return p.Code }, form.Required()).
		Field("label", "Nome", func(p *Payer) string { return p.Label }, form.Required()).
		Field("tipo", "Tipo", func(p *Payer) string { return p.Tipo },
			form.Required(), form.OneOf(PayerParticular, PayerPlano, PayerSUS)).
		Field("email", "E-mail", func(p *Payer) string { return p.Email }, form.Email()).
		Field("phone", "Telefone", func(p *Payer) string { return p.Phone }, form.Phone())
}

func (s *Services) containerInUse(ctx context.Context, c *Container) error {
	procs, err := s.Procedures.List(ctx, registry.Filter{})
	if err != nil {
		return err
	}
	for _, p := range procs {
		if strings.EqualFold(p.ContainerCode, c.Code) {
			return registry.Blocked("Recipiente %s em uso pelo serviço %s", c.Code, p.Code)
		}
	}
	return nil
}
