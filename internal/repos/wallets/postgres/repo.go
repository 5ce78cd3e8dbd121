package wallets

import "github.com/fastprodman/finrecon/internal/repos/wallets"

var _ wallets.Wallets = (*walletsRepo)(nil)

type walletsRepo struct{}

func New() *walletsRepo {
	return &walletsRepo{}
}
