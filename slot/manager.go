// Package slot implements the Slot Manager (spec.md §4.2): a typed handle
// table over a small-object memory pool, built on top of the slotpool
// package's fixed-capacity arena.
package slot

import (
	"encoding/binary"
	"sync"
	"time"

	"github.com/pergyralang/sea-runtime/internal/rlog"
	"github.com/pergyralang/sea-runtime/slotpool"
)

// entryWidth is the fixed byte width of one encoded table entry. Entries are
// stored via encoding/binary at fixed offsets rather than an unsafe struct
// cast, so the table lives happily inside slotpool.Pool's plain []byte arena.
const entryWidth = 50

const (
	offTypeTag    = 0  // uint32
	offHasAlloc   = 4  // byte (0/1)
	offAllocStart = 5  // int32
	offAllocCount = 9  // int32
	offDataLen    = 13 // int32
	offTTLNanos   = 17 // int64
	offDeadline   = 25 // int64 (unix nano, 0 = none)
	offAffinity   = 33 // int64
	offHasScope   = 41 // byte
	offScopeID    = 42 // int64
)

// Manager is the Slot Manager: claim/write/read/release plus scoped claims,
// mediating all access through Handle validation (spec.md §3/§4.2).
type Manager struct {
	mu       sync.Mutex
	table    *slotpool.Pool // entry metadata, entryWidth bytes/slot
	gen      []uint64       // persistent per-slot-id generation; never cleared on free
	data     *memoryPool
	registry *Registry
	logger   rlog.Logger

	secure    bool
	validator TokenValidator
}

// Options configures Manager construction.
type Options struct {
	// Capacity is the maximum number of live slots. Defaults to 4096.
	Capacity int
	// BlockSize is the memory pool's block size in bytes, must be a power of
	// two. Defaults to 64 (spec.md §4.2).
	BlockSize int
	// DataBlocks is the number of blocks in the memory pool arena. Defaults
	// to Capacity * 4.
	DataBlocks int
	// Registry is the type registry to validate against. A fresh one with
	// the primitive types is used if nil.
	Registry *Registry
	// Secure enables the token-capability requirement on every operation.
	Secure bool
	// Validator is the TokenValidator used when Secure is true. Required if
	// Secure is true.
	Validator TokenValidator
	// Logger receives structured diagnostics; defaults to a no-op.
	Logger rlog.Logger
}

// New constructs a Manager per opts.
func New(opts Options) *Manager {
	if opts.Capacity <= 0 {
		opts.Capacity = 4096
	}
	if opts.BlockSize <= 0 {
		opts.BlockSize = defaultBlockSize
	}
	if opts.DataBlocks <= 0 {
		opts.DataBlocks = opts.Capacity * 4
	}
	if opts.Registry == nil {
		opts.Registry = NewRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = rlog.NoOp()
	}
	if opts.Secure && opts.Validator == nil {
		panic("slot: Secure requires a Validator")
	}

	return &Manager{
		table:     slotpool.New(slotpool.Config{ElementSize: entryWidth, Capacity: opts.Capacity, CacheAligned: true}),
		gen:       make([]uint64, opts.Capacity),
		data:      newMemoryPool(opts.BlockSize, opts.DataBlocks),
		registry:  opts.Registry,
		logger:    opts.Logger,
		secure:    opts.Secure,
		validator: opts.Validator,
	}
}

// Registry returns the manager's type registry, for callers registering
// user types before claiming slots of that type.
func (m *Manager) Registry() *Registry { return m.registry }

func getU32(b []byte, off int) uint32    { return binary.LittleEndian.Uint32(b[off:]) }
func putU32(b []byte, off int, v uint32) { binary.LittleEndian.PutUint32(b[off:], v) }
func getI32(b []byte, off int) int32     { return int32(binary.LittleEndian.Uint32(b[off:])) }
func putI32(b []byte, off int, v int32)  { binary.LittleEndian.PutUint32(b[off:], uint32(v)) }
func getI64(b []byte, off int) int64     { return int64(binary.LittleEndian.Uint64(b[off:])) }
func putI64(b []byte, off int, v int64)  { binary.LittleEndian.PutUint64(b[off:], uint64(v)) }

// Claim allocates a new slot of the given type, returning the authorising
// Handle. Use ClaimScoped instead when the slot should be tracked for bulk
// release via ReleaseScope.
func (m *Manager) Claim(tag TypeTag, cap *TokenCapability) (Handle, *TokenCapability, error) {
	return m.claim(tag, 0, false, cap)
}

// ClaimScoped is Claim, additionally recording scopeID so ReleaseScope(scopeID)
// later frees this slot along with every other slot claimed under the same
// scope (spec.md §4.2 "claim_scoped").
func (m *Manager) ClaimScoped(tag TypeTag, scopeID int64, cap *TokenCapability) (Handle, *TokenCapability, error) {
	return m.claim(tag, scopeID, true, cap)
}

func (m *Manager) claim(tag TypeTag, scopeID int64, scoped bool, cap *TokenCapability) (Handle, *TokenCapability, error) {
	if m.secure {
		if cap == nil {
			return Handle{}, nil, ErrTokenRequired
		}
		if err := m.validator.Validate(*cap); err != nil {
			return Handle{}, nil, err
		}
	}

	m.mu.Lock()
	idx := m.table.Alloc()
	if idx == slotpool.NullIndex {
		m.mu.Unlock()
		return Handle{}, nil, ErrOutOfMemory
	}

	if m.gen[idx] == 0 {
		m.gen[idx] = 1
	}
	gen := m.gen[idx]

	buf := m.table.Get(idx)
	putU32(buf, offTypeTag, uint32(tag))
	buf[offHasAlloc] = 0
	if scoped {
		buf[offHasScope] = 1
		putI64(buf, offScopeID, scopeID)
	}
	m.mu.Unlock()

	h := Handle{SlotID: int64(idx), TypeTag: tag, Generation: gen}

	var outCap *TokenCapability
	if m.secure {
		issued, err := m.validator.Issue(h)
		if err != nil {
			m.mu.Lock()
			m.releaseLocked(idx)
			m.mu.Unlock()
			return Handle{}, nil, err
		}
		outCap = &issued
	}

	m.logger.Debug("slot claimed", "slot_id", h.SlotID, "type_tag", uint32(tag), "generation", gen)
	return h, outCap, nil
}

// validate checks h against the live table entry, returning the entry's raw
// bytes (still under the manager's lock) on success.
func (m *Manager) validate(h Handle, cap *TokenCapability) ([]byte, error) {
	if m.secure {
		if cap == nil {
			return nil, ErrTokenRequired
		}
		if err := m.validator.Validate(*cap); err != nil {
			return nil, err
		}
	}
	if h.SlotID < 0 || int(h.SlotID) >= len(m.gen) {
		return nil, ErrInvalidHandle
	}
	buf := m.table.Get(slotpool.PoolIndex(h.SlotID))
	if buf == nil {
		return nil, ErrInvalidHandle
	}
	if m.gen[h.SlotID] != h.Generation {
		return nil, ErrInvalidHandle
	}
	storedTag := TypeTag(getU32(buf, offTypeTag))
	if storedTag != h.TypeTag {
		return nil, ErrTypeMismatch
	}
	return buf, nil
}

// Write copies bytes into the slot referenced by h, lazily allocating a data
// block sized for len(bytes) on first write (spec.md §4.2 "write").
func (m *Manager) Write(h Handle, payload []byte, cap *TokenCapability) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, err := m.validate(h, cap)
	if err != nil {
		return err
	}

	hasAlloc := buf[offHasAlloc] != 0
	var dst []byte
	if !hasAlloc {
		view, a, ok := m.data.alloc(len(payload))
		if !ok {
			return ErrOutOfMemory
		}
		buf[offHasAlloc] = 1
		putI32(buf, offAllocStart, int32(a.start))
		putI32(buf, offAllocCount, int32(a.count))
		putI32(buf, offDataLen, int32(len(payload)))
		dst = view
	} else {
		a := allocation{start: int(getI32(buf, offAllocStart)), count: int(getI32(buf, offAllocCount))}
		declared := int(getI32(buf, offDataLen))
		if len(payload) > declared {
			// grow: release the old run and allocate a fresh, larger one
			m.data.free(a)
			view, na, ok := m.data.alloc(len(payload))
			if !ok {
				return ErrOutOfMemory
			}
			putI32(buf, offAllocStart, int32(na.start))
			putI32(buf, offAllocCount, int32(na.count))
			putI32(buf, offDataLen, int32(len(payload)))
			dst = view
		} else {
			dst = m.data.view(a)[:declared]
			putI32(buf, offDataLen, int32(len(payload)))
		}
	}
	copy(dst, payload)
	return nil
}

// Read copies up to min(len(dst), declared size) bytes from the slot
// referenced by h into dst, returning the number of bytes copied (spec.md
// §4.2 "read").
func (m *Manager) Read(h Handle, dst []byte, cap *TokenCapability) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	buf, err := m.validate(h, cap)
	if err != nil {
		return 0, err
	}
	if buf[offHasAlloc] == 0 {
		return 0, ErrSlotNotFound
	}
	a := allocation{start: int(getI32(buf, offAllocStart)), count: int(getI32(buf, offAllocCount))}
	declared := int(getI32(buf, offDataLen))
	src := m.data.view(a)[:declared]
	n := copy(dst, src)
	return n, nil
}

// Release invalidates h: the generation is bumped (so every outstanding
// handle permanently fails validation, spec.md P1), the data block (if any)
// returns to the memory pool, and the table entry is freed.
func (m *Manager) Release(h Handle, cap *TokenCapability) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.validate(h, cap); err != nil {
		return err
	}
	m.releaseLocked(slotpool.PoolIndex(h.SlotID))
	m.logger.Debug("slot released", "slot_id", h.SlotID)
	return nil
}

// releaseLocked must be called with m.mu held.
func (m *Manager) releaseLocked(idx slotpool.PoolIndex) {
	buf := m.table.Get(idx)
	if buf != nil && buf[offHasAlloc] != 0 {
		a := allocation{start: int(getI32(buf, offAllocStart)), count: int(getI32(buf, offAllocCount))}
		m.data.free(a)
	}
	m.gen[idx]++
	m.table.Free(idx)
}

// ReleaseScope releases every slot claimed via ClaimScoped with the given
// scopeID (spec.md §4.2 "release_scope").
func (m *Manager) ReleaseScope(scopeID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < len(m.gen); i++ {
		idx := slotpool.PoolIndex(i)
		buf := m.table.Get(idx)
		if buf == nil {
			continue
		}
		if buf[offHasScope] != 0 && getI64(buf, offScopeID) == scopeID {
			m.releaseLocked(idx)
		}
	}
}

// Generation returns the current generation for slotID, for diagnostics and
// the "generation monotonicity" property (spec.md §8).
func (m *Manager) Generation(slotID int64) uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if slotID < 0 || int(slotID) >= len(m.gen) {
		return 0
	}
	return m.gen[slotID]
}

// Allocated returns the number of currently occupied slots (spec.md P3).
func (m *Manager) Allocated() int {
	return m.table.Allocated()
}

// SetTTL records an optional time-to-live on the slot, after which a
// background sweeper (Sweep) may release it. The slot manager never sweeps
// on its own timer; callers drive Sweep explicitly (e.g. from a scheduler
// tick) to keep the core free of implicit timers, per spec.md Non-goals.
func (m *Manager) SetTTL(h Handle, ttl time.Duration, cap *TokenCapability) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	buf, err := m.validate(h, cap)
	if err != nil {
		return err
	}
	putI64(buf, offTTLNanos, int64(ttl))
	if ttl > 0 {
		putI64(buf, offDeadline, time.Now().Add(ttl).UnixNano())
	} else {
		putI64(buf, offDeadline, 0)
	}
	return nil
}

// Sweep releases every slot whose TTL deadline has passed, returning the
// count released.
func (m *Manager) Sweep(now time.Time) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	nowNano := now.UnixNano()
	for i := 0; i < len(m.gen); i++ {
		idx := slotpool.PoolIndex(i)
		buf := m.table.Get(idx)
		if buf == nil {
			continue
		}
		deadline := getI64(buf, offDeadline)
		if deadline != 0 && nowNano >= deadline {
			m.releaseLocked(idx)
			n++
		}
	}
	return n
}
