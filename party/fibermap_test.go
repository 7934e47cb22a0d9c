package party

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateFiberMapExcludesNilFn(t *testing.T) {
	metas := []RoleMeta{
		{RoleID: "driver", Fn: func(*Context, Role) error { return nil }, SchedulerTag: "main"},
		{RoleID: "spectator", Fn: nil, SchedulerTag: "main"},
	}

	fm, err := GenerateFiberMap("race_party", nil, metas, false)
	require.NoError(t, err)
	require.Len(t, fm.Entries, 1)
	require.Equal(t, "driver", fm.Entries[0].RoleID)
}

func TestGenerateFiberMapCacheKeyDeterministic(t *testing.T) {
	metas := []RoleMeta{
		{RoleID: "a", Fn: func(*Context, Role) error { return nil }, SchedulerTag: "x"},
		{RoleID: "b", Fn: func(*Context, Role) error { return nil }, SchedulerTag: "y"},
	}

	k1 := CacheKey("party", metas)
	k2 := CacheKey("party", metas)
	require.Equal(t, k1, k2)

	k3 := CacheKey("other_party", metas)
	require.NotEqual(t, k1, k3)
}

func TestGenerateFiberMapStaticCacheSharesBuild(t *testing.T) {
	metas := []RoleMeta{
		{RoleID: "a", Fn: func(*Context, Role) error { return nil }, SchedulerTag: "x"},
	}

	fm1, err := GenerateFiberMap("cached_party", nil, metas, true)
	require.NoError(t, err)
	fm2, err := GenerateFiberMap("cached_party", nil, metas, true)
	require.NoError(t, err)
	require.Equal(t, fm1.CacheKey, fm2.CacheKey)
	require.True(t, fm1.Static)
}

func TestGenerateFiberMapBindsRoleInstance(t *testing.T) {
	healer := testRole{name: "healer", abilities: []string{"heal"}}
	metas := []RoleMeta{
		{RoleID: "healer", Fn: func(*Context, Role) error { return nil }, SchedulerTag: "main"},
	}

	fm, err := GenerateFiberMap("party", []RoleBinding{{SlotName: "healer", Role: healer}}, metas, false)
	require.NoError(t, err)
	require.Len(t, fm.Entries, 1)
	require.Equal(t, healer, fm.Entries[0].role)
}
