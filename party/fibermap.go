package party

import (
	"strconv"

	"golang.org/x/sync/singleflight"
)

// fiberMapCache memoizes static FiberMaps by cache key, collapsing
// concurrent first-time builds for the same key into one build instead of
// racing (SPEC_FULL.md §4.7b, golang.org/x/sync/singleflight).
var fiberMapCache singleflight.Group

// GenerateFiberMap builds a FiberMap from a party type, its slot-to-role
// bindings, and per-role compile-time metadata, including only roles with a
// non-nil Fn (spec.md §4.7 "FiberMap generation"). When static is true,
// every input is known at compile time and the result is cached by
// CacheKey(partyType, metas); concurrent callers for the same key share one
// build via singleflight.
func GenerateFiberMap(partyType string, bindings []RoleBinding, metas []RoleMeta, static bool) (FiberMap, error) {
	key := CacheKey(partyType, metas)
	if !static {
		return buildFiberMap(partyType, key, bindings, metas, false), nil
	}

	v, err, _ := fiberMapCache.Do(strconv.FormatUint(key, 36), func() (any, error) {
		return buildFiberMap(partyType, key, bindings, metas, true), nil
	})
	if err != nil {
		return FiberMap{}, err
	}
	return v.(FiberMap), nil
}

func buildFiberMap(partyType string, key uint64, bindings []RoleBinding, metas []RoleMeta, static bool) FiberMap {
	byRoleID := make(map[string]Role, len(bindings))
	for _, b := range bindings {
		byRoleID[b.SlotName] = b.Role
	}

	entries := make([]FiberMapEntry, 0, len(metas))
	for _, m := range metas {
		if m.Fn == nil {
			continue
		}
		entries = append(entries, FiberMapEntry{
			RoleID:       m.RoleID,
			InstanceSlot: m.RoleID,
			Fn:           m.Fn,
			SchedulerTag: m.SchedulerTag,
			Priority:     m.Priority,
			Interval:     m.Interval,
			Continuous:   m.Continuous,
			role:         byRoleID[m.RoleID],
		})
	}

	return FiberMap{
		PartyType: partyType,
		CacheKey:  key,
		Entries:   entries,
		Static:    static,
	}
}
