package assemblage

import (
	"fmt"
	"os"
	"slices"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/plus3/gamesys/ecs"
	"github.com/plus3/gamesys/gamesys"
	"gopkg.in/yaml.v3"
)

// ComponentSpec is one step of an archetype. Only the fields that belong to Kind are read.
type ComponentSpec struct {
	Kind ecs.Kind

	// AabbCollidable
	Box    mgl32.Vec3
	Offset mgl32.Vec3

	// Head
	NeckLength float64

	// Physics default, used when the spawn carries no mass.
	Mass float32

	// Frustum default, used when the spawn carries no camera.
	Camera Camera
}

// Archetype is an ordered component recipe. Assembly follows the list order, so
// every component must come after the components it references.
type Archetype struct {
	Name       string
	Components []ComponentSpec
}

// Player archetype defaults.
var (
	PlayerBox        = mgl32.Vec3{1.7, 3.7, 1.7}
	PlayerNeckLength = 0.1
	PlayerMass       = float32(70)
	PlayerCamera     = Camera{Fov: 70, AspectRatio: 16.0 / 9.0, ZNear: 0.1, ZFar: 10000}
)

// PlayerArchetype returns the built-in player recipe.
func PlayerArchetype() *Archetype {
	return &Archetype{
		Name: "player",
		Components: []ComponentSpec{
			{Kind: gamesys.KindSpacePosition},
			{Kind: gamesys.KindPhysics, Mass: PlayerMass},
			{Kind: gamesys.KindAabbCollidable, Box: PlayerBox},
			{Kind: gamesys.KindFreeMoveInput},
			{Kind: gamesys.KindHead, NeckLength: PlayerNeckLength},
			{Kind: gamesys.KindFrustum, Camera: PlayerCamera},
		},
	}
}

// references lists the kinds a component stores handles to.
func references(kind ecs.Kind) (ecs.Signature, error) {
	switch kind {
	case gamesys.KindSpacePosition, gamesys.KindVoxelPosition, gamesys.KindAabbCollidable, gamesys.KindHead:
		return 0, nil
	case gamesys.KindPhysics:
		return ecs.SignatureOf(gamesys.KindSpacePosition, gamesys.KindVoxelPosition), nil
	case gamesys.KindFreeMoveInput:
		return ecs.SignatureOf(gamesys.KindPhysics), nil
	case gamesys.KindFrustum:
		return ecs.SignatureOf(gamesys.KindSpacePosition, gamesys.KindVoxelPosition, gamesys.KindHead), nil
	}
	return 0, fmt.Errorf("%s: %w", gamesys.KindName(kind), ecs.ErrUnknownKind)
}

// required lists the kinds of which at least one must be assembled before the component.
func required(kind ecs.Kind) ecs.Signature {
	switch kind {
	case gamesys.KindPhysics, gamesys.KindFrustum:
		return ecs.SignatureOf(gamesys.KindSpacePosition, gamesys.KindVoxelPosition)
	case gamesys.KindFreeMoveInput:
		return ecs.SignatureOf(gamesys.KindPhysics)
	}
	return 0
}

// Signature returns the set of kinds the archetype assembles.
func (a *Archetype) Signature() ecs.Signature {
	var s ecs.Signature
	for _, spec := range a.Components {
		s = s.With(spec.Kind)
	}
	return s
}

// Validate checks that the recipe can be assembled front to back without patching.
func (a *Archetype) Validate() error {
	if len(a.Components) == 0 {
		return fmt.Errorf("archetype %q has no components: %w", a.Name, ErrInvalidArchetype)
	}

	all := a.Signature()
	positions := ecs.SignatureOf(gamesys.KindSpacePosition, gamesys.KindVoxelPosition)
	if all.Contains(positions) {
		return fmt.Errorf("archetype %q has both SpacePosition and VoxelPosition: %w", a.Name, ErrInvalidArchetype)
	}

	var seen ecs.Signature
	for _, spec := range a.Components {
		name := gamesys.KindName(spec.Kind)
		if seen.Has(spec.Kind) {
			return fmt.Errorf("archetype %q lists %s twice: %w", a.Name, name, ErrInvalidArchetype)
		}

		refs, err := references(spec.Kind)
		if err != nil {
			return fmt.Errorf("archetype %q: %w", a.Name, err)
		}
		if req := required(spec.Kind); req != 0 && all&req == 0 {
			return fmt.Errorf("archetype %q: %s has nothing to reference: %w", a.Name, name, ErrInvalidArchetype)
		}
		// Everything the component references that the archetype assembles must already exist.
		if pending := all & refs &^ seen; pending != 0 {
			return fmt.Errorf("archetype %q: %s listed before %s: %w",
				a.Name, name, gamesys.KindName(firstKind(pending)), ErrInvalidArchetype)
		}
		seen = seen.With(spec.Kind)
	}
	return nil
}

func firstKind(s ecs.Signature) ecs.Kind {
	for k := range s.Kinds() {
		return k
	}
	return 0
}

// ArchetypeTable holds archetypes indexed by name.
type ArchetypeTable struct {
	archetypes map[string]*Archetype
}

// DefaultArchetypes returns a table holding only the built-in player archetype.
func DefaultArchetypes() *ArchetypeTable {
	t := &ArchetypeTable{archetypes: make(map[string]*Archetype)}
	player := PlayerArchetype()
	t.archetypes[player.Name] = player
	return t
}

// Add validates and stores an archetype, replacing any with the same name.
func (t *ArchetypeTable) Add(a *Archetype) error {
	if err := a.Validate(); err != nil {
		return err
	}
	t.archetypes[a.Name] = a
	return nil
}

func (t *ArchetypeTable) Get(name string) (*Archetype, error) {
	a, ok := t.archetypes[name]
	if !ok {
		return nil, fmt.Errorf("archetype %q: %w", name, ErrUnknownArchetype)
	}
	return a, nil
}

// Names returns the archetype names in sorted order.
func (t *ArchetypeTable) Names() []string {
	names := make([]string, 0, len(t.archetypes))
	for name := range t.archetypes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (t *ArchetypeTable) Len() int { return len(t.archetypes) }

type archetypeFile struct {
	Archetypes []archetypeEntry `yaml:"archetypes"`
}

type archetypeEntry struct {
	Name       string           `yaml:"name"`
	Components []componentEntry `yaml:"components"`
}

type componentEntry struct {
	Kind       string    `yaml:"kind"`
	Box        []float32 `yaml:"box"`
	Offset     []float32 `yaml:"offset"`
	NeckLength float64   `yaml:"neck_length"`
	Mass       float32   `yaml:"mass"`
	Camera     Camera    `yaml:"camera"`
}

// LoadArchetypes loads archetype descriptors from a YAML file on top of the built-in ones.
func LoadArchetypes(path string) (*ArchetypeTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archetypes: %w", err)
	}
	return ParseArchetypes(data)
}

// ParseArchetypes decodes YAML archetype descriptors on top of the built-in ones.
func ParseArchetypes(data []byte) (*ArchetypeTable, error) {
	var f archetypeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse archetypes: %w", err)
	}

	t := DefaultArchetypes()
	for _, entry := range f.Archetypes {
		a, err := entry.archetype()
		if err != nil {
			return nil, err
		}
		if err := t.Add(a); err != nil {
			return nil, err
		}
	}
	return t, nil
}

func (e archetypeEntry) archetype() (*Archetype, error) {
	if e.Name == "" {
		return nil, fmt.Errorf("archetype without name: %w", ErrInvalidArchetype)
	}
	a := &Archetype{Name: e.Name, Components: make([]ComponentSpec, 0, len(e.Components))}
	for _, c := range e.Components {
		kind, err := gamesys.ParseKind(c.Kind)
		if err != nil {
			return nil, fmt.Errorf("archetype %q: %w", e.Name, err)
		}
		box, err := vec3(c.Box)
		if err != nil {
			return nil, fmt.Errorf("archetype %q: %s box: %w", e.Name, c.Kind, err)
		}
		offset, err := vec3(c.Offset)
		if err != nil {
			return nil, fmt.Errorf("archetype %q: %s offset: %w", e.Name, c.Kind, err)
		}
		a.Components = append(a.Components, ComponentSpec{
			Kind:       kind,
			Box:        box,
			Offset:     offset,
			NeckLength: c.NeckLength,
			Mass:       c.Mass,
			Camera:     c.Camera,
		})
	}
	return a, nil
}

func vec3(v []float32) (mgl32.Vec3, error) {
	switch len(v) {
	case 0:
		return mgl32.Vec3{}, nil
	case 3:
		return mgl32.Vec3{v[0], v[1], v[2]}, nil
	}
	return mgl32.Vec3{}, fmt.Errorf("want 3 values, got %d: %w", len(v), ErrInvalidArchetype)
}
