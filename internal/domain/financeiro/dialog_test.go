package financeiro

import (
	"context"
	"errors"
	"testing"

	"github.com/labsuite/labsuite/internal/platform/dialog"
	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/registry"
)

type confirmed struct {
	glosa   *Glosa
	action  Action
	payload TreatmentPayload
}

func newDialog() (*TreatmentDialog, *[]confirmed) {
	var calls []confirmed
	d := NewTreatmentDialog(func(_ context.Context, g *Glosa, a Action, p TreatmentPayload) error {
		calls = append(calls, confirmed{g, a, p})
		return nil
	})
	return d, &calls
}

func testGlosa() *Glosa {
	return &Glosa{Record: registry.Record{Code: "GL-9"}, BilledCents: 5000, DeniedCents: 5000}
}

func TestTreatmentDialog_ProposesBilledValue(t *testing.T) {
	d, _ := newDialog()
	d.Open(testGlosa())
	if d.ValueCents != 5000 {
		t.Errorf("expected proposed value 5000, got %d", d.ValueCents)
	}
	if !d.IsOpen() {
		t.Error("expected dialog open")
	}
}

func TestTreatmentDialog_ResubmitBlocksWithoutJustification(t *testing.T) {
	d, calls := newDialog()
	d.Open(testGlosa())
	if err := d.Choose(ActionResubmit); err != nil {
		t.Fatalf("choose: %v", err)
	}

	err := d.Confirm(context.Background())
	var errs form.Errors
	if !errors.As(err, &errs) || errs[0].Field != "justification" {
		t.Fatalf("expected justification error, got %v", err)
	}
	if len(*calls) != 0 {
		t.Error("callback must not run on a rejected confirmation")
	}
	if !d.IsOpen() {
		t.Error("dialog must stay open after a rejected confirmation")
	}

	d.Justification = "Guia reapresentada com pedido"
	d.ValueCents = 2500
	if err := d.Confirm(context.Background()); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if len(*calls) != 1 {
		t.Fatalf("expected one callback, got %d", len(*calls))
	}
	got := (*calls)[0]
	if got.action != ActionResubmit || got.payload.ResubmittedCents != 2500 || got.payload.Justification == "" {
		t.Errorf("unexpected callback %+v", got)
	}
	if d.IsOpen() || d.Justification != "" || d.ValueCents != 0 {
		t.Error("expected dialog closed and reset after confirm")
	}
	if _, ok := d.Action(); ok {
		t.Error("expected action cleared after confirm")
	}
}

func TestTreatmentDialog_AcceptAndCancelNeedNoJustification(t *testing.T) {
	for _, a := range []Action{ActionAccept, ActionCancel} {
		d, calls := newDialog()
		d.Open(testGlosa())
		if err := d.Choose(a); err != nil {
			t.Fatalf("choose %s: %v", a, err)
		}
		if err := d.Confirm(context.Background()); err != nil {
			t.Errorf("%s: unexpected error %v", a, err)
		}
		if len(*calls) != 1 || (*calls)[0].payload != (TreatmentPayload{}) {
			t.Errorf("%s: expected one callback without payload, got %+v", a, *calls)
		}
	}
}

func TestTreatmentDialog_ResubmitValueBounds(t *testing.T) {
	for _, v := range []int64{0, -1, 5001} {
		d, _ := newDialog()
		d.Open(testGlosa())
		_ = d.Choose(ActionResubmit)
		d.Justification = "ok"
		d.ValueCents = v
		var errs form.Errors
		if err := d.Confirm(context.Background()); !errors.As(err, &errs) || errs[0].Field != "resubmitted_cents" {
			t.Errorf("value %d: expected bound error, got %v", v, err)
		}
	}
}

func TestTreatmentDialog_CancelDiscardsState(t *testing.T) {
	d, calls := newDialog()
	d.Open(testGlosa())
	_ = d.Choose(ActionResubmit)
	d.Justification = "rascunho"
	d.Cancel()

	if d.IsOpen() || d.Justification != "" {
		t.Error("expected state discarded")
	}
	if err := d.Confirm(context.Background()); !errors.Is(err, dialog.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := d.Choose(ActionAccept); !errors.Is(err, dialog.ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if len(*calls) != 0 {
		t.Error("cancel must not invoke the callback")
	}
}

func TestTreatmentDialog_RejectsUnknownAction(t *testing.T) {
	d, _ := newDialog()
	d.Open(testGlosa())
	if err := d.Choose("estornar"); !errors.Is(err, dialog.ErrUnknownOption) {
		t.Errorf("expected ErrUnknownOption, got %v", err)
	}
	var errs form.Errors
	if err := d.Confirm(context.Background()); !errors.As(err, &errs) || errs[0].Field != "action" {
		t.Errorf("expected missing action error, got %v", err)
	}
}
