package recon

import (
	"context"
	"fmt"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/fastprodman/finrecon/internal/domain"
)

// WalletAttributions is the per-wallet map step of a run plus its totals.
type WalletAttributions struct {
	Wallets []Attribution

	Principal  int64
	Bonus      int64
	Commission int64

	// OrphanTransactions counts records whose wallet was not in the wallet set.
	OrphanTransactions int
	// NegativeBalances lists wallets whose stored balance is below zero.
	NegativeBalances []int64
}

// Total is the sum of all attributed balances.
func (w WalletAttributions) Total() int64 {
	return w.Principal + w.Bonus + w.Commission
}

// AttributeWallets replays every wallet independently on up to workers
// goroutines. Output order follows wallets.
func AttributeWallets(
	ctx context.Context,
	wallets []domain.Wallet,
	txs []domain.Transaction,
	workers int,
) (WalletAttributions, error) {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	byWallet := make(map[int64][]domain.Transaction, len(wallets))
	known := make(map[int64]struct{}, len(wallets))

	for _, w := range wallets {
		known[w.ID] = struct{}{}
	}

	var out WalletAttributions

	for _, tx := range txs {
		if _, ok := known[tx.WalletID]; !ok {
			out.OrphanTransactions++

			continue
		}

		byWallet[tx.WalletID] = append(byWallet[tx.WalletID], tx)
	}

	out.Wallets = make([]Attribution, len(wallets))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, w := range wallets {
		g.Go(func() error {
			err := gctx.Err()
			if err != nil {
				return fmt.Errorf("attribute wallet %d: %w", w.ID, err)
			}

			out.Wallets[i] = Replay(w.ID, w.Balance, byWallet[w.ID])

			return nil
		})
	}

	err := g.Wait()
	if err != nil {
		return WalletAttributions{}, err
	}

	for _, a := range out.Wallets {
		out.Principal += a.Principal
		out.Bonus += a.Bonus
		out.Commission += a.Commission

		if a.Balance < 0 {
			out.NegativeBalances = append(out.NegativeBalances, a.WalletID)
		}
	}

	return out, nil
}
