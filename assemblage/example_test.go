package assemblage_test

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/plus3/gamesys/assemblage"
	"github.com/plus3/gamesys/ecs"
	"github.com/plus3/gamesys/gamesys"
)

// ExampleAssembler_CreatePlayer assembles a player and follows the handles
// its components store for one another.
func ExampleAssembler_CreatePlayer() {
	game := gamesys.New()
	asm := assemblage.New(game)

	mass := float32(80)
	player, err := asm.CreatePlayer(assemblage.Spawn{
		Position: mgl64.Vec3{0, 64, 0},
		Mass:     &mass,
	})
	if err != nil {
		fmt.Println(err)
		return
	}

	sig, _ := game.Storage().Signature(player)
	fmt.Println("Components:", sig.Len())

	inputId, _ := game.Storage().ComponentOf(gamesys.KindFreeMoveInput, player)
	physics := game.Physics.Get(game.FreeMoveInput.Get(inputId).Physics)
	fmt.Printf("Mass: %.0f kg\n", physics.Mass)

	position := game.SpacePosition.Get(physics.SpacePosition)
	fmt.Printf("Altitude: %.0f\n", position.Position.Y())

	asm.DestroyPlayer(player)
	fmt.Println("Entities after destroy:", game.Storage().EntityCount())

	// Output:
	// Components: 6
	// Mass: 80 kg
	// Altitude: 64
	// Entities after destroy: 0
}

// ExampleAssembler_Assemble shows that a failed assembly leaves nothing behind.
func ExampleAssembler_Assemble() {
	game := gamesys.New(ecs.WithCapacity(gamesys.KindFrustum, 0))
	asm := assemblage.New(game)

	_, err := asm.Assemble(assemblage.PlayerArchetype(), assemblage.Spawn{})
	fmt.Println("Exhausted:", errors.Is(err, ecs.ErrResourceExhausted))
	fmt.Println("Entities:", game.Storage().EntityCount())
	fmt.Println("Components:", game.Storage().CollectStats().ComponentCount)

	// Output:
	// Exhausted: true
	// Entities: 0
	// Components: 0
}
