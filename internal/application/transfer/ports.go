package transfer

import (
	"context"

	"github.com/dcastano/VerdePOS-api/internal/domain/repository"
)

// TxRunner abre una transacción con los repos que participan en un traslado:
// despachar y completar tocan cabecera y existencias en la misma tx.
// Lo implementa infrastructure/postgres.TxRunner.
type TxRunner interface {
	RunTransfer(ctx context.Context, fn func(
		transferRepo repository.TransferRepository,
		stockRepo repository.StockRepository,
	) error) error
}
