package financeiro

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/labsuite/labsuite/internal/platform/registry"
)

// Bill marks a guide as billed to its payer. A billed guide can no longer be
// deleted.
func (s *Services) Bill(ctx context.Context, id uuid.UUID) (registry.Result[*Guide], error) {
	g, err := s.Guides.Get(ctx, id)
	if errors.Is(err, registry.ErrNotFound) {
		return registry.NotFound[*Guide](s.Guides.NotFoundMessage()), nil
	}
	if err != nil {
		return registry.Result[*Guide]{}, err
	}
	if g.Billed {
		return registry.Refused[*Guide](fmt.Sprintf("Guia %s já faturada", g.Code)), nil
	}
	if g.Status != registry.StatusActive {
		return registry.Refused[*Guide](fmt.Sprintf("Guia %s está inativa", g.Code)), nil
	}

	now := s.now()
	g.Billed = true
	g.BilledAt = &now
	saved, err := s.Guides.Repo().Save(ctx, g)
	if err != nil {
		return registry.Result[*Guide]{}, fmt.Errorf("bill guide %s: %w", id, err)
	}
	s.logger.Info().Str("guide", g.Code).Int64("total_cents", g.TotalCents).Msg("guide billed")
	return registry.Success(fmt.Sprintf("Guia %s faturada no valor de %s", g.Code, FormatBRL(g.TotalCents)), saved), nil
}

// Summary is the billing overview shown above the guide list.
type Summary struct {
	Guides          int    `json:"guides"`
	BilledGuides    int    `json:"billed_guides"`
	OpenCents       int64  `json:"open_cents"`
	BilledCents     int64  `json:"billed_cents"`
	DeniedCents     int64  `json:"denied_cents"`
	RecoveredCents  int64  `json:"recovered_cents"`
	ReceivableCents int64  `json:"receivable_cents"`
	PendingGlosas   int    `json:"pending_glosas"`
	Receivable      string `json:"receivable"`
}

// Summarize totals the active guides and their glosas. Cancelled glosas do not
// count as denied; resubmitted ones count their resubmitted value as
// recovered.
func (s *Services) Summarize(ctx context.Context, f registry.Filter) (Summary, error) {
	guides, err := s.Guides.List(ctx, f)
	if err != nil {
		return Summary{}, err
	}
	glosas, err := s.Glosas.List(ctx, registry.Filter{})
	if err != nil {
		return Summary{}, err
	}

	var sum Summary
	billed := make(map[string]bool)
	for _, g := range guides {
		sum.Guides++
		if g.Billed {
			sum.BilledGuides++
			sum.BilledCents += g.TotalCents
			billed[g.ID.String()] = true
		} else {
			sum.OpenCents += g.TotalCents
		}
	}
	for _, gl := range glosas {
		if !billed[gl.GuideID] {
			continue
		}
		switch gl.Treatment {
		case TreatmentPending, "":
			sum.PendingGlosas++
			sum.DeniedCents += gl.DeniedCents
		case TreatmentAccepted:
			sum.DeniedCents += gl.DeniedCents
		case TreatmentResubmitted:
			sum.DeniedCents += gl.DeniedCents
			sum.RecoveredCents += gl.ResubmittedCents
		}
	}
	sum.ReceivableCents = sum.BilledCents - sum.DeniedCents + sum.RecoveredCents
	sum.Receivable = FormatBRL(sum.ReceivableCents)
	return sum, nil
}
