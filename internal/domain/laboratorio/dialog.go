package laboratorio

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/labsuite/labsuite/internal/platform/dialog"
	"github.com/labsuite/labsuite/internal/platform/form"
)

// ErrUnavailable is returned when selecting a sample that is not offered by
// the dialog, either unknown or already batched.
var ErrUnavailable = errors.New("sample not available")

// BatchDraft is what a confirmed BatchDialog hands to its callback.
type BatchDraft struct {
	Kind        string
	Label       string
	Bancada     string
	Destination string
	Samples     []*Sample
}

// BatchDialog selects free samples into a new batch.
type BatchDialog struct {
	dialog.Modal
	kind      string
	offered   map[uuid.UUID]*Sample
	selection *dialog.Selection[uuid.UUID]

	Label       string
	Bancada     string
	Destination string

	onConfirm func(ctx context.Context, d BatchDraft) error
}

func NewBatchDialog(onConfirm func(ctx context.Context, d BatchDraft) error) *BatchDialog {
	return &BatchDialog{selection: dialog.NewSelection[uuid.UUID](), onConfirm: onConfirm}
}

// Open offers the given samples for a batch of kind.
func (d *BatchDialog) Open(kind string, available []*Sample) {
	d.reset()
	d.kind = kind
	d.offered = make(map[uuid.UUID]*Sample, len(available))
	for _, s := range available {
		d.offered[s.ID] = s
	}
	d.Modal.Open()
}

// Toggle flips the selection of one offered sample and reports whether it is
// selected afterwards.
func (d *BatchDialog) Toggle(id uuid.UUID) (bool, error) {
	if err := d.Guard(); err != nil {
		return false, err
	}
	if _, ok := d.offered[id]; !ok {
		return false, fmt.Errorf("%w: %s", ErrUnavailable, id)
	}
	return d.selection.Toggle(id), nil
}

// Select adds offered samples to the selection.
func (d *BatchDialog) Select(ids ...uuid.UUID) error {
	if err := d.Guard(); err != nil {
		return err
	}
	for _, id := range ids {
		if _, ok := d.offered[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnavailable, id)
		}
	}
	d.selection.Select(ids...)
	return nil
}

func (d *BatchDialog) Selected() []uuid.UUID { return d.selection.Keys() }

func (d *BatchDialog) validate() form.Errors {
	var errs form.Errors
	if err := d.selection.RequireAny(); err != nil {
		errs = append(errs, form.FieldError{Field: "sample_ids", Label: "Amostras", Message: "Selecione ao menos uma amostra"})
	}
	if d.kind == KindTransfer && strings.TrimSpace(d.Destination) == "" {
		errs = append(errs, form.FieldError{Field: "destination", Label: "Destino", Message: "Preencha o campo Destino"})
	}
	return errs
}

// Confirm validates the selection, hands the draft to the callback and
// closes the dialog. A rejected confirmation keeps the dialog open.
func (d *BatchDialog) Confirm(ctx context.Context) error {
	if err := d.Guard(); err != nil {
		return err
	}
	if errs := d.validate(); len(errs) > 0 {
		return errs
	}
	draft := BatchDraft{
		Kind:        d.kind,
		Label:       strings.TrimSpace(d.Label),
		Bancada:     strings.TrimSpace(d.Bancada),
		Destination: strings.TrimSpace(d.Destination),
	}
	for _, id := range d.selection.Keys() {
		draft.Samples = append(draft.Samples, d.offered[id])
	}
	if err := d.onConfirm(ctx, draft); err != nil {
		return err
	}
	d.Cancel()
	return nil
}

// Cancel discards the dialog state.
func (d *BatchDialog) Cancel() {
	d.reset()
	d.Modal.Close()
}

func (d *BatchDialog) reset() {
	d.kind = ""
	d.offered = nil
	d.selection.Clear()
	d.Label, d.Bancada, d.Destination = "", "", ""
}
