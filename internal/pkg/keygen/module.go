package keygen

import (
	"go.uber.org/fx"

	"github.com/ashtari/pointledger/internal/domain/repository"
)

// Module wires the key generator port.
var Module = fx.Provide(
	New,
	func(g *UUIDGenerator) repository.KeyGenerator { return g },
)
