// Package cache provides the in-memory caches packagelint uses to avoid
// loading the same rule module twice in one process.
package cache

import "fmt"

// Stats contains cache statistics.
type Stats struct {
	Hits    int64
	Misses  int64
	Entries int
}

// HitRate returns the fraction of lookups that were served from the cache.
func (s Stats) HitRate() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}

// String returns a string representation of the stats.
func (s Stats) String() string {
	return fmt.Sprintf("hits=%d misses=%d entries=%d", s.Hits, s.Misses, s.Entries)
}
