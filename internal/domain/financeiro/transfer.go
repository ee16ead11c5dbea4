package financeiro

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/labsuite/labsuite/internal/platform/form"
	"github.com/labsuite/labsuite/internal/platform/registry"
)

// TransferRequest moves AmountCents from one account to another.
type TransferRequest struct {
	From        uuid.UUID `json:"from"`
	To          uuid.UUID `json:"to"`
	AmountCents int64     `json:"amount_cents"`
	Description string    `json:"description"`
}

// Transfer moves money between two accounts. Refusals leave both balances
// untouched; on success the result carries the debited account.
func (s *Services) Transfer(ctx context.Context, req TransferRequest) (registry.Result[*Account], error) {
	if req.From == req.To {
		return registry.Refused[*Account]("Selecione contas de origem e destino diferentes"), nil
	}
	if req.AmountCents <= 0 {
		return registry.Invalid[*Account](nil, form.Errors{{
			Field:   "amount_cents",
			Label:   "Valor",
			Message: "O campo Valor deve ser maior que zero",
		}}), nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var res registry.Result[*Account]
	err := s.inTx(ctx, func(ctx context.Context) error {
		from, err := s.Accounts.Get(ctx, req.From)
		if errors.Is(err, registry.ErrNotFound) {
			res = registry.NotFound[*Account]("Conta de origem não encontrada")
			return nil
		}
		if err != nil {
			return err
		}
		to, err := s.Accounts.Get(ctx, req.To)
		if errors.Is(err, registry.ErrNotFound) {
			res = registry.NotFound[*Account]("Conta de destino não encontrada")
			return nil
		}
		if err != nil {
			return err
		}

		for _, a := range []*Account{from, to} {
			if a.Status != registry.StatusActive {
				res = registry.Refused[*Account](fmt.Sprintf("Conta %s está inativa", a.Code))
				return nil
			}
		}
		if from.BalanceCents < req.AmountCents {
			res = registry.Refused[*Account](fmt.Sprintf("Saldo insuficiente na conta %s: disponível %s",
				from.Code, FormatBRL(from.BalanceCents)))
			return nil
		}

		from.BalanceCents -= req.AmountCents
		to.BalanceCents += req.AmountCents
		if from, err = s.Accounts.Repo().Save(ctx, from); err != nil {
			return err
		}
		if _, err = s.Accounts.Repo().Save(ctx, to); err != nil {
			return err
		}

		msg := fmt.Sprintf("Transferência de %s da conta %s para a conta %s realizada",
			FormatBRL(req.AmountCents), from.Code, to.Code)
		if d := strings.TrimSpace(req.Description); d != "" {
			msg += ": " + d
		}
		res = registry.Success(msg, from)
		return nil
	})
	if err != nil {
		s.logger.Error().Err(err).Str("from", req.From.String()).Str("to", req.To.String()).Msg("transfer failed")
		return registry.Result[*Account]{}, fmt.Errorf("transfer: %w", err)
	}
	if res.OK() {
		s.logger.Info().Str("from", req.From.String()).Str("to", req.To.String()).
			Int64("amount_cents", req.AmountCents).Msg("transfer completed")
	}
	return res, nil
}
