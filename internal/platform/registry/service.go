package registry

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/store"
)

// NewID is the id segment that opens a form in creation mode.
const NewID = "novo"

// DeleteGuard refuses the deletion of a record that something else still
// depends on by returning a BlockedError. Any other error is a failure.
type DeleteGuard[T Entity] func(ctx context.Context, v T) error

// Config describes one collection.
type Config[T Entity] struct {
	Module     string // route prefix, e.g. "cadastro"
	Collection string // route segment and store collection, e.g. "servicos"
	Noun       string // used in messages, e.g. "Serviço"
	Feminine   bool   // "salva"/"salvo"
	New        func() T
	Schema     *form.Schema[T]
	// Normalize runs before validation on every save (masks, trimming).
	Normalize func(T)
	// Preserve copies the fields owned by workflow commands from prev into
	// next before a form save. On create prev is the blank record.
	Preserve func(prev, next T)
	// NextCode assigns the code of a record created without one.
	NextCode     func(ctx context.Context) (string, error)
	CategoryKeys []string
	Mode         form.Mode
}

// SaveOptions carries the form's secondary submit.
type SaveOptions struct {
	Another bool
}

type FormMode string

const (
	ModeCreate FormMode = "create"
	ModeView   FormMode = "view"
	ModeEdit   FormMode = "edit"
)

// View is the state of a detail/form screen.
type View[T Entity] struct {
	Mode     FormMode `json:"mode"`
	Editable bool     `json:"editable"`
	Record   T        `json:"record"`
}

type Service[T Entity] struct {
	cfg    Config[T]
	repo   Repository[T]
	guard  DeleteGuard[T]
	logger zerolog.Logger
}

func NewService[T Entity](cfg Config[T], repo Repository[T], logger zerolog.Logger) *Service[T] {
	if cfg.Schema == nil {
		cfg.Schema = form.NewSchema[T]()
	}
	return &Service[T]{
		cfg:    cfg,
		repo:   repo,
		logger: logger.With().Str("collection", cfg.Collection).Logger(),
	}
}

// NewStoreService is NewService over a DocumentRepo on cfg.Collection.
func NewStoreService[T Entity](st store.Store, cfg Config[T], logger zerolog.Logger) *Service[T] {
	return NewService(cfg, NewDocumentRepo(st, cfg.Collection, cfg.New), logger)
}

// Guards runs each guard in order and returns the first refusal.
func Guards[T Entity](gs ...DeleteGuard[T]) DeleteGuard[T] {
	return func(ctx context.Context, v T) error {
		for _, g := range gs {
			if g == nil {
				continue
			}
			if err := g(ctx, v); err != nil {
				return err
			}
		}
		return nil
	}
}

func (s *Service[T]) SetDeleteGuard(g DeleteGuard[T]) { s.guard = g }
func (s *Service[T]) Config() Config[T]                { return s.cfg }
func (s *Service[T]) Repo() Repository[T]               { return s.repo }

// BasePath is the list route, the redirect target after a save.
func (s *Service[T]) BasePath() string {
	return "/" + s.cfg.Module + "/" + s.cfg.Collection
}

func (s *Service[T]) List(ctx context.Context, f Filter) ([]T, error) {
	return s.repo.List(ctx, f)
}

func (s *Service[T]) Get(ctx context.Context, id uuid.UUID) (T, error) {
	return s.repo.Get(ctx, id)
}

// Blank returns a new record with defaults.
func (s *Service[T]) Blank() T {
	v := s.cfg.New()
	v.GetRecord().Status = StatusActive
	return v
}

// Form resolves the id segment of a detail route. "novo" opens a blank
// record; anything else must name an existing record or ErrNotFound is
// returned.
func (s *Service[T]) Form(ctx context.Context, idParam string, edit bool) (*View[T], error) {
	if idParam == NewID {
		return &View[T]{Mode: ModeCreate, Editable: true, Record: s.Blank()}, nil
	}
	id, err := uuid.Parse(idParam)
	if err != nil {
		return nil, ErrNotFound
	}
	v, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if edit {
		return &View[T]{Mode: ModeEdit, Editable: true, Record: v}, nil
	}
	return &View[T]{Mode: ModeView, Record: v}, nil
}

func (s *Service[T]) describe(v T) string {
	return strings.TrimSpace(s.cfg.Noun + " " + v.GetRecord().Code)
}

func (s *Service[T]) participle(masc string) string {
	if s.cfg.Feminine {
		return strings.TrimSuffix(masc, "o") + "a"
	}
	return masc
}

// NotFoundMessage is the message of not_found results for this collection.
func (s *Service[T]) NotFoundMessage() string {
	return fmt.Sprintf("%s não %s", s.cfg.Noun, s.participle("encontrado"))
}

// Validate normalizes v and runs the schema against it.
func (s *Service[T]) Validate(v T) form.Errors {
	if s.cfg.Normalize != nil {
		s.cfg.Normalize(v)
	}
	rec := v.GetRecord()
	rec.Code = strings.TrimSpace(rec.Code)
	rec.Label = strings.TrimSpace(rec.Label)
	if rec.Status == "" {
		rec.Status = StatusActive
	}
	errs := s.cfg.Schema.Validate(v, s.cfg.Mode)
	if !rec.Status.Valid() && (len(errs) == 0 || s.cfg.Mode == form.Aggregate) {
		errs = append(errs, form.FieldError{Field: "status", Label: "Situação", Message: "Situação inválida"})
	}
	return errs
}

// Save validates and stores v. A nil id creates a record; otherwise the
// record must exist and keeps its status unless v sets one. Fields covered
// by Config.Preserve always come from the stored record. Nothing is written
// unless the outcome is success.
func (s *Service[T]) Save(ctx context.Context, v T, opts SaveOptions) (Result[T], error) {
	rec := v.GetRecord()
	prev := s.cfg.New()
	if rec.ID != uuid.Nil {
		var err error
		prev, err = s.repo.Get(ctx, rec.ID)
		if errors.Is(err, ErrNotFound) {
			return NotFound[T](s.NotFoundMessage()), nil
		}
		if err != nil {
			return Result[T]{}, err
		}
		if rec.Status == "" {
			rec.Status = prev.GetRecord().Status
		}
	}
	if s.cfg.Preserve != nil {
		s.cfg.Preserve(prev, v)
	}
	if rec.ID == uuid.Nil && strings.TrimSpace(rec.Code) == "" && s.cfg.NextCode != nil {
		code, err := s.cfg.NextCode(ctx)
		if err != nil {
			return Result[T]{}, fmt.Errorf("next code: %w", err)
		}
		rec.Code = code
	}

	if errs := s.Validate(v); len(errs) > 0 {
		s.logger.Debug().Str("outcome", string(OutcomeValidationError)).Str("field", errs[0].Field).Msg("save rejected")
		return Invalid(v, errs), nil
	}

	saved, err := s.repo.Save(ctx, v)
	if errors.Is(err, ErrDuplicateCode) {
		return Invalid(v, form.Errors{{
			Field:   "code",
			Label:   "Código",
			Message: fmt.Sprintf("Código %s já cadastrado", rec.Code),
		}}), nil
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("save failed")
		return Result[T]{}, err
	}

	res := Success(fmt.Sprintf("%s %s com sucesso", s.describe(saved), s.participle("salvo")), saved)
	if opts.Another {
		res.Next = s.Blank()
	} else {
		res.Redirect = s.BasePath()
	}
	s.logger.Debug().Str("outcome", string(res.Outcome)).Str("id", saved.GetRecord().ID.String()).Msg("record saved")
	return res, nil
}

// ToggleStatus flips the status of one record and stores it. Nothing else
// changes.
func (s *Service[T]) ToggleStatus(ctx context.Context, id uuid.UUID) (Result[T], error) {
	v, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return NotFound[T](s.NotFoundMessage()), nil
	}
	if err != nil {
		return Result[T]{}, err
	}

	rec := v.GetRecord()
	rec.Status = rec.Status.Toggle()
	saved, err := s.repo.Save(ctx, v)
	if err != nil {
		s.logger.Error().Err(err).Msg("toggle status failed")
		return Result[T]{}, err
	}

	verb := "ativado"
	if rec.Status == StatusInactive {
		verb = "inativado"
	}
	return Success(fmt.Sprintf("%s %s", s.describe(saved), s.participle(verb)), saved), nil
}

// Delete removes a record once the guard allows it and the caller confirmed.
// A refused or unconfirmed delete leaves the collection untouched.
func (s *Service[T]) Delete(ctx context.Context, id uuid.UUID, confirmed bool) (Result[T], error) {
	v, err := s.repo.Get(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return NotFound[T](s.NotFoundMessage()), nil
	}
	if err != nil {
		return Result[T]{}, err
	}

	if s.guard != nil {
		if err := s.guard(ctx, v); err != nil {
			if be, ok := AsBlocked(err); ok {
				s.logger.Debug().Str("outcome", string(OutcomeBlocked)).Str("id", id.String()).Msg("delete refused")
				return Result[T]{Outcome: OutcomeBlocked, Message: be.Reason, Record: v}, nil
			}
			return Result[T]{}, fmt.Errorf("delete guard: %w", err)
		}
	}

	if !confirmed {
		return Result[T]{
			Outcome: OutcomeConfirmationRequired,
			Message: fmt.Sprintf("Confirma a exclusão de %s?", s.describe(v)),
			Record:  v,
		}, nil
	}

	if err := s.repo.Remove(ctx, id); err != nil {
		if errors.Is(err, ErrNotFound) {
			return NotFound[T](s.NotFoundMessage()), nil
		}
		s.logger.Error().Err(err).Msg("delete failed")
		return Result[T]{}, err
	}
	return Success(fmt.Sprintf("%s %s", s.describe(v), s.participle("excluído")), v), nil
}
