package ecs_test

import (
	"testing"

	"github.com/plus3/gamesys/ecs"
)

func BenchmarkAllocateEntity(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.AllocateEntity()
	}
}

func BenchmarkSpawnWithMultipleComponents(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		spawn(b, storage, KindPosition, KindVelocity, KindHealth, KindName)
	}
}

func BenchmarkDestroy(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	ids := make([]ecs.EntityId, b.N)
	for i := 0; i < b.N; i++ {
		ids[i] = spawn(b, storage, KindPosition, KindVelocity)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.DestroyEntity(ids[i])
	}
}

func BenchmarkTableGet(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	positions := ecs.GetTable[Position](storage, KindPosition)
	id := spawn(b, storage, KindPosition)
	compId, _ := storage.ComponentOf(KindPosition, id)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = positions.Get(compId)
	}
}

func BenchmarkAddRemoveComponent(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	id := spawn(b, storage, KindPosition)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		storage.AddComponent(KindVelocity, id)
		storage.RemoveComponent(KindVelocity, id)
	}
}

func BenchmarkTableAllLarge(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	positions := ecs.GetTable[Position](storage, KindPosition)
	for range 10000 {
		spawn(b, storage, KindPosition)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		for _, pos := range positions.All() {
			pos.X++
		}
	}
}

func BenchmarkMixedOperations(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		id := spawn(b, storage, KindPosition, KindVelocity)
		storage.AddComponent(KindHealth, id)
		storage.RemoveComponent(KindVelocity, id)
		storage.DestroyEntity(id)
	}
}

func BenchmarkSchedulerOnce(b *testing.B) {
	storage := ecs.NewStorage(newTestRegistry())
	for range 1000 {
		spawn(b, storage, KindPosition, KindVelocity, KindHealth)
	}

	scheduler := ecs.NewScheduler(storage)
	scheduler.Register(&MovementSystem{})
	scheduler.Register(&HealthSystem{})

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		scheduler.Once(0.016)
	}
}
