package slot

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSlotLifecycle(t *testing.T) {
	m := New(Options{Capacity: 16})

	h, _, err := m.Claim(TypeInt32, nil)
	require.NoError(t, err)

	require.NoError(t, m.Write(h, []byte{42, 0, 0, 0}, nil))

	buf := make([]byte, 4)
	n, err := m.Read(h, buf, nil)
	require.NoError(t, err)
	require.Equal(t, 4, n)
	require.Equal(t, byte(42), buf[0])

	require.NoError(t, m.Release(h, nil))

	_, err = m.Read(h, buf, nil)
	require.ErrorIs(t, err, ErrInvalidHandle)

	h2, _, err := m.Claim(TypeInt32, nil)
	require.NoError(t, err)
	require.Equal(t, h.SlotID, h2.SlotID, "freed slot id should be reused")
	require.Greater(t, h2.Generation, h.Generation, "generation must strictly increase on reuse")
}

func TestSlotInvalidAfterReleaseEvenAcrossReuse(t *testing.T) {
	m := New(Options{Capacity: 4})
	h, _, err := m.Claim(TypeInt64, nil)
	require.NoError(t, err)
	require.NoError(t, m.Release(h, nil))

	// reuse the same slot_id repeatedly; the stale handle must never become valid again
	for i := 0; i < 3; i++ {
		h2, _, err := m.Claim(TypeInt64, nil)
		require.NoError(t, err)
		require.NoError(t, m.Release(h2, nil))
	}

	_, err = m.Read(h, make([]byte, 8), nil)
	require.ErrorIs(t, err, ErrInvalidHandle)
}

func TestSlotTypeMismatch(t *testing.T) {
	m := New(Options{Capacity: 4})
	h, _, err := m.Claim(TypeInt32, nil)
	require.NoError(t, err)

	forged := h
	forged.TypeTag = TypeString

	err = m.Write(forged, []byte("hello"), nil)
	require.ErrorIs(t, err, ErrTypeMismatch)
}

func TestSlotOutOfMemory(t *testing.T) {
	m := New(Options{Capacity: 2})
	_, _, err := m.Claim(TypeBool, nil)
	require.NoError(t, err)
	_, _, err = m.Claim(TypeBool, nil)
	require.NoError(t, err)
	_, _, err = m.Claim(TypeBool, nil)
	require.ErrorIs(t, err, ErrOutOfMemory)
}

func TestSlotAllocationAccounting(t *testing.T) {
	m := New(Options{Capacity: 8})
	var handles []Handle
	for i := 0; i < 5; i++ {
		h, _, err := m.Claim(TypeInt8, nil)
		require.NoError(t, err)
		handles = append(handles, h)
	}
	require.Equal(t, 5, m.Allocated())

	require.NoError(t, m.Release(handles[0], nil))
	require.Equal(t, 4, m.Allocated())
}

func TestClaimScopedReleaseScope(t *testing.T) {
	m := New(Options{Capacity: 8})
	const scopeA, scopeB = int64(1), int64(2)

	ha, _, err := m.ClaimScoped(TypeInt8, scopeA, nil)
	require.NoError(t, err)
	hb, _, err := m.ClaimScoped(TypeInt8, scopeA, nil)
	require.NoError(t, err)
	hc, _, err := m.ClaimScoped(TypeInt8, scopeB, nil)
	require.NoError(t, err)

	m.ReleaseScope(scopeA)

	_, err = m.Read(ha, make([]byte, 1), nil)
	require.ErrorIs(t, err, ErrInvalidHandle)
	_, err = m.Read(hb, make([]byte, 1), nil)
	require.ErrorIs(t, err, ErrInvalidHandle)

	require.NoError(t, m.Write(hc, []byte{7}, nil))
}

func TestSecureManagerRequiresToken(t *testing.T) {
	v := NewHKDFValidator([]byte("fingerprint"), 0)
	m := New(Options{Capacity: 4, Secure: true, Validator: v})

	_, _, err := m.Claim(TypeInt32, nil)
	require.ErrorIs(t, err, ErrTokenRequired)

	h, cap, err := m.Claim(TypeInt32, &TokenCapability{})
	// the fixture TokenCapability{} has ExpiresAt == 0, which must already
	// be considered expired relative to any real wall-clock time.
	require.ErrorIs(t, err, ErrTokenInvalid)
	require.True(t, h.Zero())
	require.Nil(t, cap)
}

func TestSecureManagerIssuedTokenRoundTrip(t *testing.T) {
	v := NewHKDFValidator([]byte("fingerprint"), 0)
	m := New(Options{Capacity: 4, Secure: true, Validator: v})

	issued, err := v.Issue(Handle{SlotID: 0, TypeTag: TypeInt32, Generation: 1})
	require.NoError(t, err)

	h, cap, err := m.Claim(TypeInt32, &issued)
	require.NoError(t, err)
	require.NotNil(t, cap)

	require.NoError(t, m.Write(h, []byte{1, 2, 3, 4}, cap))
}

func TestTypeRegistryRegisterIsStable(t *testing.T) {
	r := NewRegistry()
	a := r.Register("widget", 32)
	b := r.Register("widget", 32)
	require.Equal(t, a, b)
	require.GreaterOrEqual(t, a, UserTypeBase)
}
