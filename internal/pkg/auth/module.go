package auth

import "go.uber.org/fx"

// Module wires the token hasher for dependency injection.
var Module = fx.Provide(
	func() TokenHasher { return NewBcryptHasher(0) },
)
