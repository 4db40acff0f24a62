package main

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/gamesys/assemblage"
	"github.com/plus3/gamesys/config"
	"github.com/plus3/gamesys/ecs"
	"github.com/plus3/gamesys/gamesys"
	"go.uber.org/zap"
)

// world is one independent store driven by its own goroutine.
type world struct {
	id        int
	game      *gamesys.GameSystem
	scheduler *ecs.Scheduler
	churn     *churn
	audit     *gamesys.DependencyAudit
	log       *zap.Logger
}

func newWorld(id int, cfg *config.Config, archetypes *assemblage.ArchetypeTable, log *zap.Logger) *world {
	game := gamesys.New(gamesys.StoreOptions(cfg.Store, log)...)
	asm := assemblage.New(game,
		assemblage.WithLogger(log),
		assemblage.WithStrictDependencies(cfg.Assemblage.StrictDependencies),
		assemblage.WithArchetypes(archetypes))

	c := &churn{
		cfg:        cfg.Stress,
		assembler:  asm,
		archetypes: archetypes.Names(),
		bodies:     ecs.NewQuery(game.Storage(), ecs.SignatureOf(gamesys.KindPhysics)),
		rng:        rand.New(rand.NewPCG(uint64(id), uint64(time.Now().UnixNano()))),
	}
	audit := &gamesys.DependencyAudit{Game: game, Prune: cfg.Stress.Prune}

	scheduler := ecs.NewScheduler(game.Storage(), ecs.WithSchedulerLogger(log))
	scheduler.Register(c)
	scheduler.Register(audit)

	return &world{
		id:        id,
		game:      game,
		scheduler: scheduler,
		churn:     c,
		audit:     audit,
		log:       log,
	}
}

func (w *world) run(ctx context.Context) (WorldReport, error) {
	result := WorldReport{World: w.id}
	lastFrameTime := time.Now()

Loop:
	for {
		select {
		case <-ctx.Done():
			break Loop
		default:
			deltaTime := time.Since(lastFrameTime)
			lastFrameTime = time.Now()

			updateStart := time.Now()
			if err := w.scheduler.Once(deltaTime.Seconds()); err != nil {
				w.log.Debug("command flush failed", zap.Error(err))
			}
			result.UpdateTime.Samples = append(result.UpdateTime.Samples, time.Since(updateStart))
			result.Ticks++
			if w.churn.err != nil {
				break Loop
			}
		}
	}

	if w.churn.err != nil {
		return result, w.churn.err
	}

	result.UpdateTime.Finalize()
	result.Spawned = w.churn.spawned
	result.Destroyed = w.churn.destroyed
	result.Detached = w.churn.detached
	result.Exhausted = w.churn.exhausted
	result.Stale = w.audit.TotalStale
	result.FlushErrors = w.scheduler.GetStats().FlushErrors
	result.Store = w.game.Storage().CollectStats()
	return result, nil
}

// churn spawns archetypes up to the entity target, destroys random entities and strips
// Physics from random bodies so the audit has dangling references to find.
type churn struct {
	cfg        config.StressConfig
	assembler  *assemblage.Assembler
	archetypes []string
	bodies     *ecs.Query
	rng        *rand.Rand

	spawned   int64
	destroyed int64
	detached  int64
	exhausted int64
	err       error
}

func (c *churn) Execute(frame *ecs.UpdateFrame) {
	storage := frame.Storage

	for entity := range storage.Entities() {
		if c.rng.Float64() < c.cfg.DestroyChance {
			frame.Commands.Destroy(entity)
			c.destroyed++
		}
	}

	// Removals on entities destroyed this frame are dropped by the flush.
	for entity := range c.bodies.Iter() {
		if c.rng.Float64() < c.cfg.DetachChance {
			frame.Commands.RemoveComponent(entity, gamesys.KindPhysics)
			c.detached++
		}
	}

	want := min(c.cfg.SpawnPerTick, c.cfg.Entities-storage.EntityCount())
	for range want {
		name := c.archetypes[c.rng.IntN(len(c.archetypes))]
		spawn := assemblage.Spawn{
			Position: mgl64.Vec3{c.rng.NormFloat64() * 100, c.rng.NormFloat64() * 100, c.rng.NormFloat64() * 100},
			Velocity: mgl64.Vec3{c.rng.NormFloat64(), 0, c.rng.NormFloat64()},
		}
		frame.Commands.Defer(func() error {
			_, err := c.assembler.AssembleNamed(name, spawn)
			switch {
			case err == nil:
				c.spawned++
			case errors.Is(err, ecs.ErrResourceExhausted):
				c.exhausted++
				return nil
			case c.err == nil:
				c.err = err
			}
			return err
		})
	}
}
