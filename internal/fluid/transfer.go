package fluid

import "math"

// transfer moves fluid between each pool and its boat. The regime is decided
// from the current hull position and the pool surface of the last tick:
//
//   - overflowing: the hold has more fluid than fits, the excess goes to the pool
//   - spilling: the hull stands SpillThreshold of its height clear of the pool
//   - filling: the pool surface is above the gunwale
//
// Spill and fill move at most FillRate of the hull's displacement per tick.
func (m *Model) transfer() {
	for _, pool := range m.basins {
		if pool.kind != Pool || pool.child < 0 {
			continue
		}
		hold := m.basins[pool.child]
		hull := m.masses[hold.hull]
		hold.regime = Steady
		hold.overflow = 0
		if !hull.visible || hull.basin != pool.index {
			continue
		}

		limit := m.ctx.FillRate * hull.maxVolume
		capacity := hold.emptyVolume(m.masses, hold.bounds.Top)
		top := hull.bounds.Top

		switch {
		case hold.volume > capacity:
			amount := hold.volume - capacity
			hold.volume = capacity
			pool.volume += amount
			hold.overflow = amount
			hold.regime = Overflowing
		case hold.volume > 0 && top-pool.height >= m.ctx.SpillThreshold*hull.shape.Height:
			amount := math.Min(limit, hold.volume)
			hold.volume -= amount
			pool.volume += amount
			hold.regime = Spilling
		case pool.height > top && hold.volume < capacity:
			excess := pool.emptyVolume(m.masses, pool.height) - pool.emptyVolume(m.masses, top)
			amount := math.Min(math.Min(limit, excess), math.Min(capacity-hold.volume, pool.volume))
			if amount <= 0 {
				continue
			}
			hold.volume += amount
			pool.volume -= amount
			hold.regime = Filling
		}
	}
}
