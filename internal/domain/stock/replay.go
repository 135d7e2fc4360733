package stock

import "time"

// Replay rebuilds the quantity held at time at from ledger entries.
// Entries for other keys are ignored. The includeInAnalysis flag does not
// affect the result.
func Replay(key Key, entries []LedgerEntry, at time.Time) int64 {
	var total int64
	for i := range entries {
		e := &entries[i]
		if e.Key() != key || e.CreatedAt.After(at) {
			continue
		}
		total += e.QuantityChange
	}
	return total
}

// ReplayAll rebuilds every balance present in entries. Entries after at
// are ignored.
func ReplayAll(entries []LedgerEntry, at time.Time) map[Key]int64 {
	out := make(map[Key]int64)
	for i := range entries {
		if entries[i].CreatedAt.After(at) {
			continue
		}
		out[entries[i].Key()] += entries[i].QuantityChange
	}
	return out
}
