package booking

import "sync"

// lockStripes is the number of mutexes the route lock table is
// divided into.  Routes hash onto stripes by id; two routes sharing a
// stripe serialize against each other, which is harmless for
// correctness and keeps the table bounded regardless of how many
// routes exist.
const lockStripes = 256

// routeLocks provides per-route mutual exclusion via a fixed array of
// striped mutexes.  The zero value is ready to use.
type routeLocks struct {
	stripes [lockStripes]sync.Mutex
}

// forRoute returns the mutex guarding the given route id.
func (l *routeLocks) forRoute(routeID uint64) *sync.Mutex {
	return &l.stripes[routeID%lockStripes]
}
