package gamesys_test

import (
	"testing"

	"github.com/plus3/gamesys/assemblage"
	"github.com/plus3/gamesys/config"
	"github.com/plus3/gamesys/ecs"
	"github.com/plus3/gamesys/gamesys"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func newAuditedGame(t *testing.T, prune bool) (*assemblage.Assembler, *gamesys.DependencyAudit, *ecs.Scheduler) {
	t.Helper()
	game := gamesys.New()
	audit := &gamesys.DependencyAudit{Game: game, Prune: prune}
	scheduler := ecs.NewScheduler(game.Storage())
	scheduler.Register(audit)
	return assemblage.New(game), audit, scheduler
}

func TestDependencyAuditCleanWorld(t *testing.T) {
	asm, audit, scheduler := newAuditedGame(t, true)
	for range 5 {
		_, err := asm.CreatePlayer(assemblage.Spawn{})
		require.NoError(t, err)
	}

	require.NoError(t, scheduler.Once(0.016))
	assert.Equal(t, 0, audit.LastStale)
	assert.Equal(t, int64(0), audit.TotalStale)
}

func TestDependencyAuditFindsDanglingReferences(t *testing.T) {
	asm, audit, scheduler := newAuditedGame(t, false)
	player, err := asm.CreatePlayer(assemblage.Spawn{})
	require.NoError(t, err)
	other, err := asm.CreatePlayer(assemblage.Spawn{})
	require.NoError(t, err)

	// Physics and Frustum both point at the removed SpacePosition.
	require.NoError(t, asm.RemoveSpacePosition(player))

	require.NoError(t, scheduler.Once(0.016))
	assert.Equal(t, 2, audit.LastStale)

	// Without pruning the same references are found again.
	require.NoError(t, scheduler.Once(0.016))
	assert.Equal(t, 2, audit.LastStale)
	assert.Equal(t, int64(4), audit.TotalStale)

	game := asm.Game()
	assert.True(t, game.Storage().HasComponent(gamesys.KindPhysics, player))
	assert.True(t, game.Storage().HasComponent(gamesys.KindFrustum, other))
}

func TestDependencyAuditPrunes(t *testing.T) {
	asm, audit, scheduler := newAuditedGame(t, true)
	player, err := asm.CreatePlayer(assemblage.Spawn{})
	require.NoError(t, err)
	storage := asm.Game().Storage()

	require.NoError(t, asm.RemoveSpacePosition(player))

	require.NoError(t, scheduler.Once(0.016))
	assert.Equal(t, 2, audit.LastStale)
	assert.False(t, storage.HasComponent(gamesys.KindPhysics, player))
	assert.False(t, storage.HasComponent(gamesys.KindFrustum, player))
	assert.True(t, storage.HasComponent(gamesys.KindFreeMoveInput, player))

	// FreeMoveInput lost its Physics to the previous prune.
	require.NoError(t, scheduler.Once(0.016))
	assert.Equal(t, 1, audit.LastStale)
	assert.False(t, storage.HasComponent(gamesys.KindFreeMoveInput, player))

	require.NoError(t, scheduler.Once(0.016))
	assert.Equal(t, 0, audit.LastStale)
	assert.Equal(t, int64(3), audit.TotalStale)

	sig, err := storage.Signature(player)
	require.NoError(t, err)
	assert.Equal(t, ecs.SignatureOf(gamesys.KindAabbCollidable, gamesys.KindHead), sig)
}

func TestDependencyAuditForeignPhysics(t *testing.T) {
	asm, audit, scheduler := newAuditedGame(t, false)
	owner, err := asm.CreatePlayer(assemblage.Spawn{})
	require.NoError(t, err)
	physics, err := asm.Game().Storage().ComponentOf(gamesys.KindPhysics, owner)
	require.NoError(t, err)

	thief, err := asm.Game().Storage().AllocateEntity()
	require.NoError(t, err)
	_, err = asm.AddFreeMoveInput(thief, physics)
	require.NoError(t, err, "lenient mode stores the handle as given")

	require.NoError(t, scheduler.Once(0.016))
	assert.Equal(t, 1, audit.LastStale)
}

func TestDependencyAuditLogs(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	asm, audit, scheduler := newAuditedGame(t, false)
	audit.Log = zap.New(core)

	player, err := asm.CreatePlayer(assemblage.Spawn{})
	require.NoError(t, err)
	require.NoError(t, asm.RemoveHead(player))

	require.NoError(t, scheduler.Once(0.016))
	entries := logs.FilterMessage("stale component reference").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "Frustum", entries[0].ContextMap()["kind"])
	assert.Equal(t, player.String(), entries[0].ContextMap()["entity"])
}

func TestDependencyAuditFallsBackToFrameLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	game := gamesys.New()
	scheduler := ecs.NewScheduler(game.Storage(), ecs.WithSchedulerLogger(zap.New(core)))
	scheduler.Register(&gamesys.DependencyAudit{Game: game})
	asm := assemblage.New(game)

	player, err := asm.CreatePlayer(assemblage.Spawn{})
	require.NoError(t, err)
	require.NoError(t, asm.RemovePhysics(player))

	require.NoError(t, scheduler.Once(0.016))
	require.NoError(t, scheduler.Once(0.016))
	entries := logs.FilterMessage("stale component reference").All()
	require.Len(t, entries, 2)
	assert.Equal(t, "FreeMoveInput", entries[0].ContextMap()["kind"])
	assert.Equal(t, uint64(2), entries[1].ContextMap()["frame"])
}

func TestStoreOptions(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	opts := gamesys.StoreOptions(config.StoreConfig{
		MaxEntities: 2,
		ComponentCapacity: map[string]int{
			"Physics": 1,
			"Gravity": 5,
		},
	}, zap.New(core))

	game := gamesys.New(opts...)
	storage := game.Storage()

	a, err := storage.AllocateEntity()
	require.NoError(t, err)
	b, err := storage.AllocateEntity()
	require.NoError(t, err)
	_, err = storage.AllocateEntity()
	assert.ErrorIs(t, err, ecs.ErrResourceExhausted)

	_, err = storage.AddComponent(gamesys.KindPhysics, a)
	require.NoError(t, err)
	_, err = storage.AddComponent(gamesys.KindPhysics, b)
	assert.ErrorIs(t, err, ecs.ErrResourceExhausted)

	assert.Equal(t, 1, logs.FilterField(zap.String("kind", "Gravity")).Len())

	assert.Empty(t, gamesys.StoreOptions(config.Default().Store, nil))
}
