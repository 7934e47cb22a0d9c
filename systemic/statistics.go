package systemic

import (
	"encoding/json"
	"time"

	"github.com/google/renameio/v2"
	"github.com/pergyralang/sea-runtime/party"
)

// RoleStatistics is one role's FiberStats within a party's statistics
// breakdown.
type RoleStatistics struct {
	RoleID string
	Stats  party.FiberStats
}

// PartyStatistics is one party's per-role statistics breakdown.
type PartyStatistics struct {
	Name  string
	Roles []RoleStatistics
}

// SystemicStatistics is one systemic's per-party statistics breakdown.
type SystemicStatistics struct {
	Name    string
	Parties []PartyStatistics
}

// WorldStatistics is get_world_statistics' output: frame count, elapsed
// time, and per-systemic/party/role statistics (spec.md §6
// "get_world_statistics(world) aggregates per systemic/party/role").
type WorldStatistics struct {
	FrameCount int64
	Elapsed    time.Duration
	Systemics  []SystemicStatistics
}

// GetWorldStatistics aggregates w's current frame count, elapsed wall time
// since construction, and every tracked party's per-role FiberStats.
func GetWorldStatistics(w *World) WorldStatistics {
	out := WorldStatistics{
		FrameCount: w.FrameCount(),
		Elapsed:    time.Since(w.StartTime()),
	}

	for _, sys := range w.Systemics {
		sysStat := SystemicStatistics{Name: sys.Name}
		for _, p := range sys.Parties {
			partyStat := PartyStatistics{Name: p.Name}
			if p.Stats != nil {
				for _, entry := range p.Map.Entries {
					partyStat.Roles = append(partyStat.Roles, RoleStatistics{
						RoleID: entry.RoleID,
						Stats:  p.Stats.Get(entry.RoleID),
					})
				}
			}
			sysStat.Parties = append(sysStat.Parties, partyStat)
		}
		out.Systemics = append(out.Systemics, sysStat)
	}

	return out
}

// SnapshotStatistics atomically persists GetWorldStatistics(w) as indented
// JSON to path, using github.com/google/renameio/v2's write-to-temp-then-
// rename so a crash mid-write never leaves a partial file (SPEC_FULL.md
// §4.8a). This is a diagnostic export only: the world's live state is never
// read back from it.
func (w *World) SnapshotStatistics(path string) error {
	data, err := json.MarshalIndent(GetWorldStatistics(w), "", "  ")
	if err != nil {
		return err
	}
	return renameio.WriteFile(path, data, 0o644)
}
