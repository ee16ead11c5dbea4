package financeiro

import (
	"context"
	"strings"

	"github.com/labsuite/labsuite/internal/domain/atendimento"
	"github.com/labsuite/labsuite/internal/domain/cadastro"
	"github.com/labsuite/labsuite/internal/platform/registry"
)

// The guards below refuse deleting registry records that a guide still
// points at.

func (s *Services) findGuide(ctx context.Context, match func(*Guide) bool) (*Guide, error) {
	guides, err := s.Guides.List(ctx, registry.Filter{})
	if err != nil {
		return nil, err
	}
	for _, g := range guides {
		if match(g) {
			return g, nil
		}
	}
	return nil, nil
}

func (s *Services) ProcedureInUse(ctx context.Context, p *cadastro.Procedure) error {
	g, err := s.findGuide(ctx, func(g *Guide) bool {
		for _, it := range g.Items {
			if strings.EqualFold(it.ProcedureCode, p.Code) {
				return true
			}
		}
		return false
	})
	if err != nil || g == nil {
		return err
	}
	return registry.Blocked("Serviço %s consta na guia %s", p.Code, g.Code)
}

func (s *Services) ProfessionalInUse(ctx context.Context, p *cadastro.Professional) error {
	g, err := s.findGuide(ctx, func(g *Guide) bool { return strings.EqualFold(g.RequesterCode, p.Code) })
	if err != nil || g == nil {
		return err
	}
	return registry.Blocked("Profissional %s é solicitante da guia %s", p.Code, g.Code)
}

func (s *Services) PayerInUse(ctx context.Context, p *cadastro.Payer) error {
	g, err := s.findGuide(ctx, func(g *Guide) bool { return strings.EqualFold(g.PayerCode, p.Code) })
	if err != nil || g == nil {
		return err
	}
	return registry.Blocked("Convênio %s possui a guia %s", p.Code, g.Code)
}

func (s *Services) PatientInUse(ctx context.Context, p *atendimento.Patient) error {
	id := p.ID.String()
	g, err := s.findGuide(ctx, func(g *Guide) bool { return g.PatientID == id })
	if err != nil || g == nil {
		return err
	}
	return registry.Blocked("Paciente %s possui a guia %s", p.Label, g.Code)
}
