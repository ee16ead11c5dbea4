package laboratorio

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/labsuite/labsuite/internal/domain/atendimento"
	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/registry"
	"github.com/labsuite/labsuite/internal/platform/store"
)

const (
	Module         = "laboratorio"
	TransferModule = "transferencia"
)

type Services struct {
	Samples *registry.Service[*Sample]
	// Batches serves every batch under /laboratorio; TransferBatches serves
	// the transfer kind under /transferencia over the same collection.
	Batches         *registry.Service[*Batch]
	TransferBatches *registry.Service[*Batch]

	mu     sync.Mutex // serializes batch creation against sample allocation
	now    func() time.Time
	newID  func() string
	logger zerolog.Logger
}

func NewServices(st store.Store, mode form.Mode, logger zerolog.Logger) *Services {
	logger = logger.With().Str("module", Module).Logger()
	batches := registry.NewDocumentRepo(st, "lotes", func() *Batch { return &Batch{} })

	s := &Services{
		Samples: registry.NewStoreService(st, registry.Config[*Sample]{
			Module:       Module,
			Collection:   "amostras",
			Noun:         "Amostra",
			Feminine:     true,
			New:          func() *Sample { return &Sample{} },
			Schema:       sampleSchema(),
			Normalize:    func(s *Sample) { s.Code = strings.ToUpper(strings.TrimSpace(s.Code)) },
			Preserve:     func(prev, next *Sample) { next.BatchID = prev.BatchID },
			CategoryKeys: []string{"bancada", "material"},
			Mode:         mode,
		}, logger),
		Batches: registry.NewService(registry.Config[*Batch]{
			Module:       Module,
			Collection:   "lotes",
			Noun:         "Lote",
			New:          func() *Batch { return &Batch{} },
			Schema:       batchSchema(),
			Preserve:     preserveBatch,
			CategoryKeys: []string{"kind", "bancada", "destination"},
			Mode:         mode,
		}, batches, logger),
		TransferBatches: registry.NewService(registry.Config[*Batch]{
			Module:       TransferModule,
			Collection:   "lotes",
			Noun:         "Lote",
			New:          func() *Batch { return &Batch{Kind: KindTransfer} },
			Schema:       batchSchema(),
			Normalize:    func(b *Batch) { b.Kind = KindTransfer },
			Preserve:     preserveBatch,
			CategoryKeys: []string{"bancada", "destination"},
			Mode:         mode,
		}, kindRepo{Repository: batches, kind: KindTransfer}, logger.With().Str("module", TransferModule).Logger()),
		now:    func() time.Time { return time.Now().UTC() },
		newID:  func() string { return "LT-" + ulid.Make().String() },
		logger: logger,
	}
	s.Samples.SetDeleteGuard(s.sampleInBatch)
	s.Batches.SetDeleteGuard(s.batchDispatched)
	s.TransferBatches.SetDeleteGuard(s.batchDispatched)
	return s
}

func sampleSchema() *form.Schema[*Sample] {
	return form.NewSchema[*Sample]().
		Field("code", "Código de barras", func(s *Sample) string { return s.Code }, form.Required()).
		Field("label", "Paciente", func(s *Sample) string { return s.Label }, form.Required()).
		Field("bancada", "Bancada", func(s *Sample) string { return s.Bancada }, form.Required()).
		Field("material", "Material", func(s *Sample) string { return s.Material }, form.Required()).
		Field("collected_at", "Data de coleta", func(s *Sample) string { return s.CollectedAt }, form.Date())
}

func batchSchema() *form.Schema[*Batch] {
	return form.NewSchema[*Batch]().
		Field("label", "Descrição", func(b *Batch) string { return b.Label }, form.Required()).
		Field("kind", "Tipo", func(b *Batch) string { return b.Kind },
			form.Required(), form.OneOf(KindProcessing, KindTransfer)).
		Check("destination", "Destino", func(b *Batch) string {
			if b.Kind == KindTransfer && strings.TrimSpace(b.Destination) == "" {
				return "Preencha o campo Destino"
			}
			return ""
		})
}

// preserveBatch keeps composition and dispatch under the control of
// CreateBatch and Dispatch. Edits only touch the descriptive fields.
func preserveBatch(prev, next *Batch) {
	if prev.ID != uuid.Nil {
		next.Kind = prev.Kind
	}
	next.SampleIDs = prev.SampleIDs
	next.Dispatched = prev.Dispatched
	next.DispatchedAt = prev.DispatchedAt
}

// kindRepo narrows a batch repository to one kind: other kinds are invisible
// to List and Get.
type kindRepo struct {
	registry.Repository[*Batch]
	kind string
}

func (r kindRepo) List(ctx context.Context, f registry.Filter) ([]*Batch, error) {
	cats := map[string]string{"kind": r.kind}
	for k, v := range f.Categories {
		if k != "kind" {
			cats[k] = v
		}
	}
	f.Categories = cats
	return r.Repository.List(ctx, f)
}

func (r kindRepo) Get(ctx context.Context, id uuid.UUID) (*Batch, error) {
	b, err := r.Repository.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Kind != r.kind {
		return nil, registry.ErrNotFound
	}
	return b, nil
}

// batchOf returns the batch a sample belongs to, or nil when it is free. A
// sample pointing at a removed batch is free.
func (s *Services) batchOf(ctx context.Context, sm *Sample) (*Batch, error) {
	if sm.BatchID == "" {
		return nil, nil
	}
	id, err := uuid.Parse(sm.BatchID)
	if err != nil {
		return nil, nil
	}
	b, err := s.Batches.Get(ctx, id)
	if errors.Is(err, registry.ErrNotFound) {
		return nil, nil
	}
	return b, err
}

func (s *Services) sampleInBatch(ctx context.Context, sm *Sample) error {
	b, err := s.batchOf(ctx, sm)
	if err != nil || b == nil {
		return err
	}
	return registry.Blocked("Amostra %s pertence ao lote %s", sm.Code, b.Code)
}

func (s *Services) batchDispatched(_ context.Context, b *Batch) error {
	if b.Kind == KindTransfer && b.Dispatched {
		return registry.Blocked("Lote %s já enviado para %s", b.Code, b.Destination)
	}
	return nil
}

// PatientInUse refuses deleting a patient that still has samples.
func (s *Services) PatientInUse(ctx context.Context, p *atendimento.Patient) error {
	samples, err := s.Samples.List(ctx, registry.Filter{})
	if err != nil {
		return err
	}
	id := p.ID.String()
	for _, sm := range samples {
		if sm.PatientID == id {
			return registry.Blocked("Paciente %s possui a amostra %s", p.Label, sm.Code)
		}
	}
	return nil
}

// Available lists active samples not assigned to any existing batch.
func (s *Services) Available(ctx context.Context, f registry.Filter) ([]*Sample, error) {
	f.Status = string(registry.StatusActive)
	samples, err := s.Samples.List(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]*Sample, 0, len(samples))
	for _, sm := range samples {
		b, err := s.batchOf(ctx, sm)
		if err != nil {
			return nil, err
		}
		if b == nil {
			out = append(out, sm)
		}
	}
	return out, nil
}

// BatchRequest is the body of the batch creation dialog.
type BatchRequest struct {
	Kind        string   `json:"kind"`
	Label       string   `json:"label"`
	Bancada     string   `json:"bancada"`
	Destination string   `json:"destination"`
	SampleIDs   []string `json:"sample_ids"`
}

// CreateBatch runs the batch dialog with the requested selection. The new
// batch gets a sortable LT- code and every selected sample is marked with it.
func (s *Services) CreateBatch(ctx context.Context, req BatchRequest) (registry.Result[*Batch], error) {
	kind := req.Kind
	if kind == "" {
		kind = KindProcessing
	}
	if kind != KindProcessing && kind != KindTransfer {
		return registry.Invalid(&Batch{Kind: kind}, form.Errors{{Field: "kind", Label: "Tipo", Message: "Valor inválido para o campo Tipo"}}), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	svc := s.Batches
	if kind == KindTransfer {
		svc = s.TransferBatches
	}

	available, err := s.Available(ctx, registry.Filter{})
	if err != nil {
		return registry.Result[*Batch]{}, err
	}

	var created *Batch
	d := NewBatchDialog(func(ctx context.Context, draft BatchDraft) error {
		b := &Batch{
			Record:      registry.Record{Code: s.newID(), Label: draft.Label, Status: registry.StatusActive},
			Kind:        draft.Kind,
			Bancada:     draft.Bancada,
			Destination: draft.Destination,
		}
		if b.Label == "" {
			b.Label = defaultBatchLabel(draft)
		}
		for _, sm := range draft.Samples {
			b.SampleIDs = append(b.SampleIDs, sm.ID.String())
		}
		saved, err := svc.Repo().Save(ctx, b)
		if err != nil {
			return err
		}
		for _, sm := range draft.Samples {
			sm.BatchID = saved.ID.String()
			if _, err := s.Samples.Repo().Save(ctx, sm); err != nil {
				return fmt.Errorf("mark sample %s: %w", sm.Code, err)
			}
		}
		created = saved
		return nil
	})
	d.Open(kind, available)
	d.Label, d.Bancada, d.Destination = req.Label, req.Bancada, req.Destination

	draft := &Batch{Kind: kind, Bancada: req.Bancada, Destination: req.Destination, SampleIDs: req.SampleIDs}
	for _, raw := range req.SampleIDs {
		id, err := uuid.Parse(raw)
		if err == nil {
			err = d.Select(id)
		}
		if err != nil {
			return registry.Invalid(draft, form.Errors{{
				Field:   "sample_ids",
				Label:   "Amostras",
				Message: fmt.Sprintf("Amostra %s indisponível para o lote", raw),
			}}), nil
		}
	}

	if err := d.Confirm(ctx); err != nil {
		var errs form.Errors
		if errors.As(err, &errs) {
			if s.Batches.Config().Mode == form.FailFast {
				errs = errs[:1]
			}
			return registry.Invalid(draft, errs), nil
		}
		s.logger.Error().Err(err).Msg("create batch failed")
		return registry.Result[*Batch]{}, fmt.Errorf("create batch: %w", err)
	}

	s.logger.Info().Str("batch", created.Code).Str("kind", kind).Int("samples", len(created.SampleIDs)).Msg("batch created")
	res := registry.Success(fmt.Sprintf("Lote %s criado com %d amostra(s)", created.Code, len(created.SampleIDs)), created)
	res.Redirect = svc.BasePath() + "/" + created.ID.String()
	return res, nil
}

func defaultBatchLabel(d BatchDraft) string {
	if d.Kind == KindTransfer {
		return "Transferência para " + d.Destination
	}
	if d.Bancada != "" {
		return "Processamento " + d.Bancada
	}
	return "Processamento"
}

// Dispatch marks a transfer batch as sent to its destination.
func (s *Services) Dispatch(ctx context.Context, id uuid.UUID) (registry.Result[*Batch], error) {
	b, err := s.TransferBatches.Get(ctx, id)
	if errors.Is(err, registry.ErrNotFound) {
		return registry.NotFound[*Batch](s.TransferBatches.NotFoundMessage()), nil
	}
	if err != nil {
		return registry.Result[*Batch]{}, err
	}
	if b.Dispatched {
		return registry.Refused[*Batch](fmt.Sprintf("Lote %s já enviado", b.Code)), nil
	}
	if b.Status != registry.StatusActive {
		return registry.Refused[*Batch](fmt.Sprintf("Lote %s está inativo", b.Code)), nil
	}

	now := s.now()
	b.Dispatched = true
	b.DispatchedAt = &now
	saved, err := s.TransferBatches.Repo().Save(ctx, b)
	if err != nil {
		return registry.Result[*Batch]{}, fmt.Errorf("dispatch batch %s: %w", id, err)
	}
	return registry.Success(fmt.Sprintf("Lote %s enviado para %s", b.Code, b.Destination), saved), nil
}
