// Package systemic implements the thin World/Systemic orchestration layer
// (spec.md §4.8): a systemic is an ordered list of party instances plus
// shared fields, and a world is an ordered list of systemics driven by a
// frame loop.
package systemic

import (
	"time"

	"github.com/pergyralang/sea-runtime/fiber"
	"github.com/pergyralang/sea-runtime/party"
)

// Party is one dispatchable unit within a Systemic: a FiberMap, the context
// its roles consult, the join policy, and the stats collector its
// completions are recorded against (spec.md §4.7, §4.8).
type Party struct {
	Name     string
	Context  *party.Context
	Map      party.FiberMap
	Strategy party.JoinStrategy
	Stats    *party.StatsCollector
}

// Execute dispatches p's FiberMap under caller, per spec.md §4.7.
func (p *Party) Execute(caller *fiber.Fiber) (party.DispatchResult, error) {
	return party.DispatchParallel(caller, p.Context, p.Map, p.Strategy, p.Stats)
}

// PartyOutcome pairs a Party's name with its dispatch result, for Systemic's
// aggregated return.
type PartyOutcome struct {
	Name   string
	Result party.DispatchResult
	Err    error
}

// Systemic is an ordered list of parties plus shared fields; executing a
// systemic executes each of its parties in order and aggregates results
// (spec.md §4.8 "A systemic is an ordered list of party instances plus
// shared fields").
type Systemic struct {
	Name    string
	Parties []*Party
	Shared  map[string]any
}

// SystemicResult is the aggregate outcome of executing every party in a
// Systemic, in declared order.
type SystemicResult struct {
	Name         string
	Outcomes     []PartyOutcome
	AllSucceeded bool
	Duration     time.Duration
}

// Execute runs every party in s, in order, under caller (spec.md §4.8
// "executing a systemic is executing each of its parties and aggregating
// results").
func (s *Systemic) Execute(caller *fiber.Fiber) SystemicResult {
	start := time.Now()
	outcomes := make([]PartyOutcome, len(s.Parties))
	allSucceeded := true

	for i, p := range s.Parties {
		result, err := p.Execute(caller)
		outcomes[i] = PartyOutcome{Name: p.Name, Result: result, Err: err}
		if err != nil || !result.AllSucceeded {
			allSucceeded = false
		}
	}

	return SystemicResult{
		Name:         s.Name,
		Outcomes:     outcomes,
		AllSucceeded: allSucceeded,
		Duration:     time.Since(start),
	}
}
