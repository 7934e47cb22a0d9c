package party

import "sync"

// Context is the PartyContext role-and-shared-state registry roles consult
// during dispatch (spec.md §4.7 "context API used by roles"). A single
// mutex covers both the roles list and the shared-field map, matching
// spec.md §5's "PartyContext: single spinlock covering role lookups and
// shared-field access."
type Context struct {
	mu       sync.Mutex
	bindings []RoleBinding
	shared   map[string]any
	resolved map[string]Role
}

// NewContext builds a Context from the party's slot-to-role bindings and an
// optional initial shared-field map.
func NewContext(bindings []RoleBinding, shared map[string]any) *Context {
	if shared == nil {
		shared = make(map[string]any)
	}
	return &Context{
		bindings: bindings,
		shared:   shared,
		resolved: make(map[string]Role),
	}
}

// GetRole scans the roles list for slotName, optionally filtering by a
// required ability, and caches the resolved instance pointer for the
// duration of the dispatch (spec.md §4.7 "get_role(slot_name,
// required_ability?) -> instance ... caches the resolved instance pointer").
func (c *Context) GetRole(slotName string, requiredAbility string) (Role, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	cacheKey := slotName + "\x00" + requiredAbility
	if r, ok := c.resolved[cacheKey]; ok {
		return r, true
	}
	for _, b := range c.bindings {
		if b.SlotName != slotName {
			continue
		}
		if !HasAbility(b.Role, requiredAbility) {
			continue
		}
		c.resolved[cacheKey] = b.Role
		return b.Role, true
	}
	return nil, false
}

// FindRoles returns every bound role implementing ability (spec.md §4.7
// "find_roles(ability) returns all roles implementing that ability").
func (c *Context) FindRoles(ability string) []Role {
	c.mu.Lock()
	defer c.mu.Unlock()

	var out []Role
	for _, b := range c.bindings {
		if HasAbility(b.Role, ability) {
			out = append(out, b.Role)
		}
	}
	return out
}

// GetShared reads a named shared field (spec.md §4.7 "get_shared(field)
// reads a named shared field").
func (c *Context) GetShared(field string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.shared[field]
	return v, ok
}

// SetShared writes a named shared field. Not named directly in spec.md's
// read-only context API, but required for any caller populating shared
// state prior to dispatch.
func (c *Context) SetShared(field string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shared[field] = value
}
