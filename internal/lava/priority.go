package lava

// DefaultPriority is the nominal job priority used when a test plan does
// not set one.
const DefaultPriority = 20

// scalePriority maps a nominal plan priority (0-100) onto the lab's
// priority levels. A flat percentage factor takes precedence over a
// min/max target range; with neither configured the nominal value is
// used as-is. The result is not clamped.
func scalePriority(priority int, cfg Config) int {
	switch {
	case cfg.Priority > 0:
		return priority * cfg.Priority / 100
	case cfg.PriorityMin != nil && cfg.PriorityMax != nil:
		return priority*(*cfg.PriorityMax-*cfg.PriorityMin)/100 + *cfg.PriorityMin
	}
	return priority
}
