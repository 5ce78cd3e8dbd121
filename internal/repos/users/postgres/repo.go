package users

import "github.com/fastprodman/finrecon/internal/repos/users"

var _ users.Users = (*usersRepo)(nil)

type usersRepo struct{}

func New() *usersRepo {
	return &usersRepo{}
}
