package financeiro

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/labsuite/labsuite/internal/platform/dialog"
	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/registry"
)

// Action is a treatment the billing team can apply to a glosa.
type Action string

const (
	ActionAccept   Action = "aceitar"
	ActionResubmit Action = "recursar"
	ActionCancel   Action = "cancelar"
)

// Treatment returns the glosa state the action leads to.
func (a Action) Treatment() string {
	switch a {
	case ActionAccept:
		return TreatmentAccepted
	case ActionResubmit:
		return TreatmentResubmitted
	case ActionCancel:
		return TreatmentCancelled
	}
	return ""
}

// TreatmentPayload carries the fields that only apply to resubmissions.
type TreatmentPayload struct {
	Justification    string `json:"justification,omitempty"`
	ResubmittedCents int64  `json:"resubmitted_cents,omitempty"`
}

// TreatmentDialog is the modal opened from a glosa row. It proposes the
// billed value for resubmission and resolves through onConfirm.
type TreatmentDialog struct {
	dialog.Modal
	glosa         *Glosa
	action        *dialog.Choice[Action]
	Justification string
	ValueCents    int64
	onConfirm     func(ctx context.Context, g *Glosa, a Action, p TreatmentPayload) error
}

func NewTreatmentDialog(onConfirm func(ctx context.Context, g *Glosa, a Action, p TreatmentPayload) error) *TreatmentDialog {
	return &TreatmentDialog{
		action:    dialog.NewChoice(ActionAccept, ActionResubmit, ActionCancel),
		onConfirm: onConfirm,
	}
}

// Open starts treating g.
func (d *TreatmentDialog) Open(g *Glosa) {
	d.reset()
	d.glosa = g
	d.ValueCents = g.BilledCents
	d.Modal.Open()
}

func (d *TreatmentDialog) Choose(a Action) error {
	if err := d.Guard(); err != nil {
		return err
	}
	return d.action.Set(a)
}

func (d *TreatmentDialog) Action() (Action, bool) { return d.action.Value() }

// validate checks the dialog state against the chosen action.
func (d *TreatmentDialog) validate() form.Errors {
	a, ok := d.action.Value()
	if !ok {
		return form.Errors{{Field: "action", Label: "Ação", Message: "Selecione uma ação para a glosa"}}
	}
	if a != ActionResubmit {
		return nil
	}
	var errs form.Errors
	if strings.TrimSpace(d.Justification) == "" {
		errs = append(errs, form.FieldError{Field: "justification", Label: "Justificativa", Message: "Preencha o campo Justificativa"})
	}
	if d.ValueCents <= 0 || d.ValueCents > d.glosa.BilledCents {
		errs = append(errs, form.FieldError{
			Field:   "resubmitted_cents",
			Label:   "Valor do recurso",
			Message: fmt.Sprintf("O valor do recurso deve estar entre R$ 0,01 e %s", FormatBRL(d.glosa.BilledCents)),
		})
	}
	return errs
}

// Confirm validates, hands the choice to the callback and closes the dialog.
// A rejected confirmation keeps the dialog open with its state.
func (d *TreatmentDialog) Confirm(ctx context.Context) error {
	if err := d.Guard(); err != nil {
		return err
	}
	if errs := d.validate(); len(errs) > 0 {
		return errs
	}
	a, _ := d.action.Value()
	var p TreatmentPayload
	if a == ActionResubmit {
		p = TreatmentPayload{Justification: strings.TrimSpace(d.Justification), ResubmittedCents: d.ValueCents}
	}
	if err := d.onConfirm(ctx, d.glosa, a, p); err != nil {
		return err
	}
	d.Cancel()
	return nil
}

// Cancel discards the dialog state.
func (d *TreatmentDialog) Cancel() {
	d.reset()
	d.Modal.Close()
}

func (d *TreatmentDialog) reset() {
	d.glosa = nil
	d.action.Reset()
	d.Justification = ""
	d.ValueCents = 0
}

// TreatRequest is the body of POST /glosas/:id/tratamento. A zero
// resubmitted value keeps the proposed billed value.
type TreatRequest struct {
	Action           Action `json:"action"`
	Justification    string `json:"justification"`
	ResubmittedCents int64  `json:"resubmitted_cents"`
}

// Treat runs the treatment dialog for one glosa and stores the outcome.
func (s *Services) Treat(ctx context.Context, id uuid.UUID, req TreatRequest) (registry.Result[*Glosa], error) {
	g, err := s.Glosas.Get(ctx, id)
	if errors.Is(err, registry.ErrNotFound) {
		return registry.NotFound[*Glosa](s.Glosas.NotFoundMessage()), nil
	}
	if err != nil {
		return registry.Result[*Glosa]{}, err
	}
	if g.Treated() {
		return registry.Refused[*Glosa](fmt.Sprintf("Glosa %s já %s", g.Code, g.Treatment)), nil
	}

	var saved *Glosa
	d := NewTreatmentDialog(func(ctx context.Context, g *Glosa, a Action, p TreatmentPayload) error {
		now := s.now()
		g.Treatment = a.Treatment()
		g.Justification = p.Justification
		g.ResubmittedCents = p.ResubmittedCents
		g.TreatedAt = &now
		var err error
		saved, err = s.Glosas.Repo().Save(ctx, g)
		return err
	})
	d.Open(g)
	if req.Action != "" {
		if err := d.Choose(req.Action); err != nil {
			return registry.Invalid(g, form.Errors{{Field: "action", Label: "Ação", Message: "Ação inválida para a glosa"}}), nil
		}
	}
	d.Justification = req.Justification
	if req.ResubmittedCents != 0 {
		d.ValueCents = req.ResubmittedCents
	}

	if err := d.Confirm(ctx); err != nil {
		var errs form.Errors
		if errors.As(err, &errs) {
			return registry.Invalid(g, errs), nil
		}
		return registry.Result[*Glosa]{}, fmt.Errorf("treat glosa %s: %w", id, err)
	}
	s.logger.Info().Str("glosa", saved.Code).Str("treatment", saved.Treatment).Msg("glosa treated")
	return registry.Success(fmt.Sprintf("Glosa %s %s", saved.Code, saved.Treatment), saved), nil
}
