package value

// Merge applies incoming onto dst per spec §3: Bytes/Bytes concatenates,
// every other combination overwrites dst wholesale (no recursive object
// merge — the original VRL model this is grounded on is intentionally
// shallow here).
func Merge(dst *Value, incoming Value) {
	if dst.tag == TagBytes && incoming.tag == TagBytes {
		merged := make([]byte, 0, len(dst.bytes)+len(incoming.bytes))
		merged = append(merged, dst.bytes...)
		merged = append(merged, incoming.bytes...)
		dst.bytes = merged
		return
	}
	*dst = incoming.Clone()
}
