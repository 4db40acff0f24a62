// Package assemblage builds and tears down multi-component entities on top of a
// gamesys.GameSystem. The Assembler keeps no entity state: everything it creates
// lives in the injected storage, and it only threads component handles from one
// add into the next in dependency order.
package assemblage

import (
	"github.com/plus3/gamesys/ecs"
	"github.com/plus3/gamesys/gamesys"
	"go.uber.org/zap"
)

type Assembler struct {
	game       *gamesys.GameSystem
	log        *zap.Logger
	strict     bool
	archetypes *ArchetypeTable
}

type Option func(*Assembler)

func WithLogger(log *zap.Logger) Option {
	return func(a *Assembler) {
		if log != nil {
			a.log = log
		}
	}
}

// WithStrictDependencies makes every add validate its dependency handles eagerly
// and fail with ErrInvalidDependency instead of storing a dangling reference.
func WithStrictDependencies(strict bool) Option {
	return func(a *Assembler) {
		a.strict = strict
	}
}

// WithArchetypes sets the table CreatePlayer and AssembleNamed look archetypes up in.
func WithArchetypes(table *ArchetypeTable) Option {
	return func(a *Assembler) {
		if table != nil {
			a.archetypes = table
		}
	}
}

func New(game *gamesys.GameSystem, opts ...Option) *Assembler {
	a := &Assembler{
		game:       game,
		log:        zap.NewNop(),
		archetypes: DefaultArchetypes(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Assembler) Game() *gamesys.GameSystem { return a.game }

func (a *Assembler) storage() *ecs.Storage { return a.game.Storage() }
