package config

import "go.uber.org/fx"

// Module provides configuration loading for dependency injection.
var Module = fx.Provide(Load)
