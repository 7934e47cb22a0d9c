package slot

// Handle is the opaque reference authorising access to a slot (spec.md §3).
// Its three fields are its entire identity; callers never see slot_id,
// type_tag, or generation semantics beyond equality/validity.
type Handle struct {
	SlotID     int64
	TypeTag    TypeTag
	Generation uint64
}

// Zero reports whether h is the zero Handle (never a valid handle, since
// claim always starts generation at 1).
func (h Handle) Zero() bool {
	return h == Handle{}
}
