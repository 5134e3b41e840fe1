package types

// OpenOptions tunes how a blob is opened. The zero value is the default
// configuration: header-only validation, no caching, no allocation.
type OpenOptions struct {
	// PhandleCache, when non-nil, lets phandle resolution memoize its
	// whole-tree scan into this caller-owned table. The library fills the
	// table on first use and never grows it; if the tree declares more
	// phandles than the table holds, resolution falls back to scanning.
	PhandleCache *PhandleCache
}

// PhandleCacheEntry maps one phandle value to the structure-block offset of
// the node declaring it.
type PhandleCacheEntry struct {
	Phandle uint32
	Offset  int
}

// PhandleCache is a fixed-capacity phandle table supplied by the caller.
// Construct with NewPhandleCache or embed a sized backing array directly.
// A cache must not be shared between trees.
type PhandleCache struct {
	Entries []PhandleCacheEntry

	// Filled fields are managed by the library.
	Count    int
	Complete bool
}

// NewPhandleCache returns a cache backed by a fresh slice of capacity n.
// Callers on hosted platforms use this; bare-metal callers point Entries at
// statically reserved storage instead.
func NewPhandleCache(n int) *PhandleCache {
	return &PhandleCache{Entries: make([]PhandleCacheEntry, n)}
}

// Reset discards memoized entries so the cache can be reused.
func (c *PhandleCache) Reset() {
	c.Count = 0
	c.Complete = false
}

// Lookup returns the cached offset for a phandle value.
func (c *PhandleCache) Lookup(phandle uint32) (int, bool) {
	for i := 0; i < c.Count; i++ {
		if c.Entries[i].Phandle == phandle {
			return c.Entries[i].Offset, true
		}
	}
	return 0, false
}

// Insert records a phandle mapping, reporting false when the table is full.
func (c *PhandleCache) Insert(phandle uint32, offset int) bool {
	if c.Count >= len(c.Entries) {
		return false
	}
	c.Entries[c.Count] = PhandleCacheEntry{Phandle: phandle, Offset: offset}
	c.Count++
	return true
}
