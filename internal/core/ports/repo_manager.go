package ports

import "github.com/ChiaveLabs/chiave/internal/core/domain"

type RepoManager interface {
	Swaps() domain.SwapRepository
	Close()
}
