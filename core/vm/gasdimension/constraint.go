package gasdimension

import "time"

// Constraint defines the max gas target per second for the given period for a single resource.
type constraint struct {
	period time.Duration
	target uint64
}

// ResourceConstraints is a set of constraints for all resources.
//
// The chain owner defines constraints to limit the usage of each resource. A resource can have
// multiple constraints with different periods, but there may be a single constraint given the
// resource and period.
//
// Example constraints:
// - X amount of computation over 12 seconds so nodes can keep up.
// - Y amount of computation over 7 days so fresh nodes can catch up with the chain.
// - Z amount of history growth over one month to avoid bloat.
type ResourceConstraints map[ResourceKind]map[uint32]constraint

func NewResourceConstraints() ResourceConstraints {
	c := ResourceConstraints{}
	for resource := ResourceKind(0); resource < NumResourceKind; resource++ {
		c[resource] = map[uint32]constraint{}
	}
	return c
}

// SetConstraint adds or updates the given resource constraint.
func (rc ResourceConstraints) SetConstraint(
	resource ResourceKind, periodSecs uint32, targetPerPeriod uint64,
) {
	rc[resource][periodSecs] = constraint{
		period: time.Duration(periodSecs) * time.Second,
		target: targetPerPeriod / uint64(periodSecs),
	}
}

// ClearConstraint removes the given resource constraint.
func (rc ResourceConstraints) ClearConstraint(resource ResourceKind, periodSecs uint32) {
	delete(rc[resource], periodSecs)
}

// Exceeded reports whether used, the resource's running total for a single
// message call, has broken the tightest (lowest per-second target)
// constraint configured for it. A one-transaction engine has no block
// window to rate-limit against, so the tightest constraint's per-second
// rate is applied as a flat per-transaction ceiling instead.
func (rc ResourceConstraints) Exceeded(resource ResourceKind, used uint64) bool {
	constraints, ok := rc[resource]
	if !ok || len(constraints) == 0 {
		return false
	}
	tightest := uint64(0)
	first := true
	for _, c := range constraints {
		if first || c.target < tightest {
			tightest = c.target
			first = false
		}
	}
	return used > tightest
}
