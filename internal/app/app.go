// Package app assembles the domain modules over one store and wires the
// references that cross module boundaries.
package app

import (
	"context"
	"fmt"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/labsuite/labsuite/internal/domain/atendimento"
	"github.com/labsuite/labsuite/internal/domain/cadastro"
	"github.com/labsuite/labsuite/internal/domain/financeiro"
	"github.com/labsuite/labsuite/internal/domain/laboratorio"
	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/registry"
	"github.com/labsuite/labsuite/internal/platform/store"
)

type App struct {
	Cadastro    *cadastro.Services
	Atendimento *atendimento.Services
	Financeiro  *financeiro.Services
	Laboratorio *laboratorio.Services

	logger zerolog.Logger
}

func New(st store.Store, mode form.Mode, logger zerolog.Logger) *App {
	a := &App{
		Cadastro:    cadastro.NewServices(st, mode, logger),
		Atendimento: atendimento.NewServices(st, mode, logger),
		Financeiro:  financeiro.NewServices(st, mode, logger),
		Laboratorio: laboratorio.NewServices(st, mode, logger),
		logger:      logger,
	}

	// A record referenced from another module cannot be deleted.
	a.Cadastro.Procedures.SetDeleteGuard(a.Financeiro.ProcedureInUse)
	a.Cadastro.Professionals.SetDeleteGuard(a.Financeiro.ProfessionalInUse)
	a.Cadastro.Payers.SetDeleteGuard(a.Financeiro.PayerInUse)
	a.Atendimento.Patients.SetDeleteGuard(registry.Guards[*atendimento.Patient](
		a.Financeiro.PatientInUse,
		a.Laboratorio.PatientInUse,
	))
	return a
}

// SetTxRunner makes multi-record writes atomic on stores that support
// transactions.
func (a *App) SetTxRunner(fn financeiro.TxRunner) {
	a.Financeiro.SetTxRunner(fn)
}

// Seed loads the demonstration records of every module. Collections that
// already hold records are left untouched.
func (a *App) Seed(ctx context.Context) (int, error) {
	steps := []struct {
		module string
		run    func(context.Context) (int, error)
	}{
		{cadastro.Module, a.Cadastro.Seed},
		{atendimento.Module, a.Atendimento.Seed},
		{financeiro.Module, func(ctx context.Context) (int, error) { return a.Financeiro.Seed(ctx, a.Atendimento) }},
		{laboratorio.Module, func(ctx context.Context) (int, error) { return a.Laboratorio.Seed(ctx, a.Atendimento) }},
	}

	total := 0
	for _, s := range steps {
		n, err := s.run(ctx)
		if err != nil {
			return total, fmt.Errorf("seed %s: %w", s.module, err)
		}
		if n > 0 {
			a.logger.Info().Str("module", s.module).Int("records", n).Msg("seeded mock data")
		}
		total += n
	}
	return total, nil
}

// RegisterRoutes mounts each module under its own prefix of api.
func (a *App) RegisterRoutes(api *echo.Group, n registry.Notifier) {
	a.Cadastro.RegisterRoutes(api.Group("/"+cadastro.Module), n)
	a.Atendimento.RegisterRoutes(api.Group("/"+atendimento.Module), n)
	financeiro.NewHandler(a.Financeiro, n).RegisterRoutes(api.Group("/" + financeiro.Module))
	laboratorio.NewHandler(a.Laboratorio, n).RegisterRoutes(
		api.Group("/"+laboratorio.Module),
		api.Group("/"+laboratorio.TransferModule),
	)
}
