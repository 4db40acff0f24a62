package ecs

// StorageStats is a point-in-time summary of a Storage.
type StorageStats struct {
	EntityCount    int
	EntitySlots    int
	FreeSlots      int
	ComponentCount int
	Kinds          []KindStats
}

// KindStats describes the occupancy of one component table.
type KindStats struct {
	Kind  Kind
	Name  string
	Count int
	// Limit is -1 when the table is unbounded.
	Limit int
}

// CollectStats gathers entity and per-kind component counts.
func (s *Storage) CollectStats() StorageStats {
	stats := StorageStats{
		EntityCount: s.alive,
		EntitySlots: int(s.nextIndex),
		FreeSlots:   len(s.freeList),
	}

	for kind := range s.registry.Kinds().Kinds() {
		table := s.tables[kind]
		stats.Kinds = append(stats.Kinds, KindStats{
			Kind:  kind,
			Name:  table.name(),
			Count: table.size(),
			Limit: table.limit(),
		})
		stats.ComponentCount += table.size()
	}
	return stats
}
