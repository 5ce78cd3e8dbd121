package programs

import "github.com/fastprodman/finrecon/internal/repos/programs"

var _ programs.Programs = (*programsRepo)(nil)

type programsRepo struct{}

func New() *programsRepo {
	return &programsRepo{}
}
