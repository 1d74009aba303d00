// Package axis picks stable chart scales for energy and force axes.
//
// Scales are derived from a model's domain extrema, never from the live
// curve, so tick spacing does not jitter while parameters change:
//
//	tick := axis.Tick(extreme, axis.Whole)
//	energy := axis.NewScale(tick, 1, 3) // [-1 tick, +3 ticks]
package axis
