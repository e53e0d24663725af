package types

import "sync"

// Untagged is the tag bucket for records whose port/protocol pair has no
// entry in the lookup table. Lookup tags are always lowercased, so it never
// collides with a real tag.
const Untagged = "Untagged"

// LookupKey identifies a lookup table row. Port is kept as the literal token,
// Protocol is a lowercase protocol name.
type LookupKey struct {
	Port     string
	Protocol string
}

// PortProtocol is the key of the port/protocol combination counts.
type PortProtocol = LookupKey

// SkipReason tells why a line of an input file did not produce a record.
type SkipReason int

const (
	SkipNone SkipReason = iota
	SkipBlank
	SkipComment
	SkipFieldCount
	SkipTooFewFields
)

func (r SkipReason) String() string {
	switch r {
	case SkipNone:
		return "none"
	case SkipBlank:
		return "blank line"
	case SkipComment:
		return "comment"
	case SkipFieldCount:
		return "wrong field count"
	case SkipTooFewFields:
		return "too few fields"
	default:
		return "unknown"
	}
}

// Counter counts occurrences of keys and remembers the order in which each
// key was first seen.
type Counter[K comparable] struct {
	keys   []K
	counts map[K]uint64
	total  uint64
	mu     sync.RWMutex
}

func NewCounter[K comparable]() *Counter[K] {
	return &Counter[K]{counts: make(map[K]uint64)}
}

func (c *Counter[K]) StoreOrIncrement(key K) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counts == nil {
		c.counts = make(map[K]uint64)
	}

	if _, ok := c.counts[key]; ok {
		c.counts[key]++
	} else {
		c.keys = append(c.keys, key)
		c.counts[key] = 1
	}

	c.total++
}

func (c *Counter[K]) Get(key K) uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.counts[key]
}

// Len returns the number of distinct keys.
func (c *Counter[K]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.keys)
}

// Total returns the sum of all counts.
func (c *Counter[K]) Total() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return c.total
}

// Keys returns the keys in first-seen order.
func (c *Counter[K]) Keys() []K {
	c.mu.RLock()
	defer c.mu.RUnlock()

	keys := make([]K, len(c.keys))
	copy(keys, c.keys)
	return keys
}

// Range calls fn for every key in first-seen order until fn returns false.
func (c *Counter[K]) Range(fn func(key K, count uint64) bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, key := range c.keys {
		if !fn(key, c.counts[key]) {
			return
		}
	}
}

type TagCounts = Counter[string]

type PortProtocolCounts = Counter[PortProtocol]

func NewTagCounts() *TagCounts {
	return NewCounter[string]()
}

func NewPortProtocolCounts() *PortProtocolCounts {
	return NewCounter[PortProtocol]()
}
