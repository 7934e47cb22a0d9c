// Package party implements the Party Dispatcher (spec.md §4.7): given a
// declarative FiberMap describing roles, abilities, and scheduler placement,
// it spawns one fiber per role and joins them by a chosen policy.
package party

import (
	"hash/fnv"
	"time"
)

// fnv32a is the same FNV-1a 32-bit hash the slot registry uses to derive
// stable identifiers from canonical names (spec.md §4.2, §4.7).
func fnv32a(s string) uint32 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(s))
	return h.Sum32()
}

// Role is implemented by anything a FiberMap entry's roles list can bind to.
// Abilities are declared tags a role carries, queried by PartyContext.FindRoles
// and PartyContext.GetRole's optional ability filter (spec.md §4.7 "context
// API used by roles").
type Role interface {
	Abilities() []string
}

// HasAbility reports whether r declares ability among its Abilities().
func HasAbility(r Role, ability string) bool {
	if ability == "" {
		return true
	}
	for _, a := range r.Abilities() {
		if a == ability {
			return true
		}
	}
	return false
}

// RoleBinding pairs a party-local slot name with the role instance bound to
// it, as supplied to GenerateFiberMap (spec.md §4.7 "slot-to-role bindings").
type RoleBinding struct {
	SlotName string
	Role     Role
}

// RoleMeta is the compile-time "parallel metadata" attached to a role
// (spec.md §4.7 "{fn, scheduler_tag, priority, interval_ms, continuous}").
// Entries whose Fn is nil are excluded from the generated FiberMap.
type RoleMeta struct {
	RoleID       string
	Fn           func(ctx *Context, role Role) error
	SchedulerTag string
	Priority     int
	Interval     time.Duration
	Continuous   bool
}

// FiberMapEntry is one spawnable unit of a FiberMap (spec.md §4.7
// "FiberMapEntry{role_id, instance_slot_id, parallel_fn, scheduler_tag,
// priority, interval_ms, is_continuous}").
type FiberMapEntry struct {
	RoleID       string
	InstanceSlot string
	Fn           func(ctx *Context, role Role) error
	SchedulerTag string
	Priority     int
	Interval     time.Duration
	Continuous   bool

	role Role
}

// FiberMap is an ordered sequence of FiberMapEntry plus the party's name and
// cache key (spec.md §4.7 "FiberMap").
type FiberMap struct {
	PartyType string
	CacheKey  uint64
	Entries   []FiberMapEntry
	Static    bool
}

// CacheKey computes hash(party_type) XOR Σ hash(role_id) XOR
// (scheduler_tag << 32), exactly as spec.md §4.7 defines it.
func CacheKey(partyType string, metas []RoleMeta) uint64 {
	key := uint64(fnv32a(partyType))
	for _, m := range metas {
		key ^= uint64(fnv32a(m.RoleID))
		key ^= uint64(fnv32a(m.SchedulerTag)) << 32
	}
	return key
}
