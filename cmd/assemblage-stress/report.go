package main

import (
	"io"
	"runtime"
	"strings"
	"text/template"
	"time"

	"github.com/plus3/gamesys/ecs"
)

type Report struct {
	// Configuration
	Duration   time.Duration
	Worlds     int
	Entities   int
	Strict     bool
	Archetypes []string

	// Results
	Results        []WorldReport
	TotalTicks     int64
	TotalSpawned   int64
	TotalStale     int64
	TotalTime      time.Duration
	GCPauseMetrics bool
	MemStatsStart  runtime.MemStats
	MemStatsEnd    runtime.MemStats
}

type WorldReport struct {
	World       int
	Ticks       int64
	Spawned     int64
	Destroyed   int64
	Detached    int64
	Exhausted   int64
	Stale       int64
	FlushErrors int64
	UpdateTime  Stats
	Store       ecs.StorageStats
}

type Stats struct {
	Min     time.Duration
	Max     time.Duration
	Avg     time.Duration
	Samples []time.Duration
}

func (s *Stats) Finalize() {
	if len(s.Samples) == 0 {
		return
	}

	var total time.Duration
	s.Min = s.Samples[0]
	s.Max = s.Samples[0]

	for _, sample := range s.Samples {
		if sample < s.Min {
			s.Min = sample
		}
		if sample > s.Max {
			s.Max = sample
		}
		total += sample
	}
	s.Avg = total / time.Duration(len(s.Samples))
	s.Samples = nil
}

func (r *Report) Finalize() {
	for _, w := range r.Results {
		r.TotalTicks += w.Ticks
		r.TotalSpawned += w.Spawned
		r.TotalStale += w.Stale
	}
}

func (r *Report) Generate(w io.Writer) error {
	const reportTemplate = `
# Assemblage Stress Test Report

## Test Configuration
- **Run Duration:** {{.Duration}}
- **Worlds:** {{.Worlds}}
- **Entity Target per World:** {{.Entities}}
- **Strict Dependencies:** {{.Strict}}
- **Archetypes:** {{join .Archetypes ", "}}

## Totals
- **Total Ticks:** {{.TotalTicks}}
- **Total Spawned:** {{.TotalSpawned}}
- **Stale References Found:** {{.TotalStale}}
- **Total Test Time:** {{.TotalTime}}
{{range .Results}}
## World {{.World}}
- **Ticks:** {{.Ticks}} (avg {{.UpdateTime.Avg}}, min {{.UpdateTime.Min}}, max {{.UpdateTime.Max}})
- **Spawned / Destroyed / Detached:** {{.Spawned}} / {{.Destroyed}} / {{.Detached}}
- **Exhausted Assemblies:** {{.Exhausted}}
- **Stale References:** {{.Stale}}
- **Flush Errors:** {{.FlushErrors}}
- **Live Entities:** {{.Store.EntityCount}} ({{.Store.EntitySlots}} slots, {{.Store.FreeSlots}} free)
{{- range .Store.Kinds}}
  - {{.Name}}: {{.Count}}{{if ge .Limit 0}} / {{.Limit}}{{end}}
{{- end}}
{{end}}
## Memory Usage (Raw Bytes)
- Heap Alloc:     {{.MemStatsStart.HeapAlloc}} (start) -> {{.MemStatsEnd.HeapAlloc}} (end) -> delta: {{bsub .MemStatsEnd.HeapAlloc .MemStatsStart.HeapAlloc}}
- Total Alloc:    {{.MemStatsStart.TotalAlloc}} (start) -> {{.MemStatsEnd.TotalAlloc}} (end) -> delta: {{bsub .MemStatsEnd.TotalAlloc .MemStatsStart.TotalAlloc}}
- Sys Memory:     {{.MemStatsStart.Sys}} (start) -> {{.MemStatsEnd.Sys}} (end) -> delta: {{bsub .MemStatsEnd.Sys .MemStatsStart.Sys}}
- Num GC:         {{.MemStatsStart.NumGC}} (start) -> {{.MemStatsEnd.NumGC}} (end) -> delta: {{usub .MemStatsEnd.NumGC .MemStatsStart.NumGC}}

{{if .GCPauseMetrics}}
## GC Pause Durations
- **Total GC Pause:** {{.MemStatsEnd.PauseTotalNs | ns}}
- **Num GC Cycles:** {{ usub .MemStatsEnd.NumGC .MemStatsStart.NumGC }}
{{end}}
`

	fm := template.FuncMap{
		"join": strings.Join,
		"bsub": func(a, b uint64) int64 {
			return int64(a) - int64(b)
		},
		"usub": func(a, b uint32) uint32 {
			return a - b
		},
		"ns": func(ns uint64) string {
			return time.Duration(ns).String()
		},
	}

	tmpl, err := template.New("report").Funcs(fm).Parse(reportTemplate)
	if err != nil {
		return err
	}

	return tmpl.Execute(w, r)
}
