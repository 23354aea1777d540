package grid

import (
	"log/slog"
	"strings"

	"github.com/midbel/sheetcalc/formula/builtins"
	"github.com/midbel/sheetcalc/value"
)

const DefaultName = "Sheet1"

type Option func(*Sheet)

func WithName(name string) Option {
	return func(s *Sheet) {
		s.name = name
	}
}

// WithRegistry replaces the functions available to formulas.
func WithRegistry(reg *builtins.Registry) Option {
	return func(s *Sheet) {
		s.registry = reg
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sheet) {
		s.logger = logger
	}
}

func WithVariables(vars map[string]value.Value) Option {
	return func(s *Sheet) {
		for k, v := range vars {
			s.vars[strings.ToUpper(k)] = v
		}
	}
}
