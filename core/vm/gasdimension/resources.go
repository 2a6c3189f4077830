// Package gasdimension tracks EVM gas consumption broken down by resource
// dimension, so that a single opcode's charge can be reported as the mix of
// computation, history growth, and storage access/growth it actually did.
// The externally observable gas accounting (spec.md's gas_left) is always
// the sum across dimensions; the breakdown exists purely for the trace sink.
package gasdimension

import "math"

// ResourceKind represents a dimension for the multi-dimensional gas.
type ResourceKind uint8

const (
	ResourceKindComputation ResourceKind = iota
	ResourceKindHistoryGrowth
	ResourceKindStorageAccess
	ResourceKindStorageGrowth
	ResourceKindUnknown
	NumResourceKind
)

// MultiGas tracks gas for each resource separately.
type MultiGas [NumResourceKind]uint64

// ZeroGas returns a MultiGas with every dimension at zero.
func ZeroGas() MultiGas {
	return MultiGas{}
}

// ComputationGas builds a MultiGas charging amount entirely to computation.
func ComputationGas(amount uint64) MultiGas {
	var m MultiGas
	m[ResourceKindComputation] = amount
	return m
}

// HistoryGrowthGas builds a MultiGas charging amount entirely to history growth.
func HistoryGrowthGas(amount uint64) MultiGas {
	var m MultiGas
	m[ResourceKindHistoryGrowth] = amount
	return m
}

// StorageAccessGas builds a MultiGas charging amount entirely to storage access.
func StorageAccessGas(amount uint64) MultiGas {
	var m MultiGas
	m[ResourceKindStorageAccess] = amount
	return m
}

// StorageGrowthGas builds a MultiGas charging amount entirely to storage growth.
func StorageGrowthGas(amount uint64) MultiGas {
	var m MultiGas
	m[ResourceKindStorageGrowth] = amount
	return m
}

// UnknownGas builds a MultiGas charging amount to the catch-all dimension,
// used where a cost has not yet been classified into one of the four
// named resources.
func UnknownGas(amount uint64) MultiGas {
	var m MultiGas
	m[ResourceKindUnknown] = amount
	return m
}

// Get returns the gas charged for a single dimension.
func (m MultiGas) Get(kind ResourceKind) uint64 {
	return m[kind]
}

// SingleGas collapses all dimensions into the single scalar gas value the
// interpreter actually deducts from gas_left.
func (m MultiGas) SingleGas() uint64 {
	var total uint64
	for _, v := range m {
		total += v
	}
	return total
}

// SafeIncrement adds amount to the given dimension, reporting overflow
// instead of wrapping.
func (m *MultiGas) SafeIncrement(kind ResourceKind, amount uint64) (overflow bool) {
	sum := m[kind] + amount
	if sum < m[kind] {
		return true
	}
	m[kind] = sum
	return false
}

// SafeAdd adds a and b element-wise, reporting overflow instead of wrapping.
func (m MultiGas) SafeAdd(a, b MultiGas) (MultiGas, bool) {
	var out MultiGas
	for i := range out {
		sum := a[i] + b[i]
		if sum < a[i] {
			return MultiGas{}, true
		}
		out[i] = sum
	}
	return out, false
}

// Add sets the receiver to the element-wise sum of a and b, saturating at
// math.MaxUint64 instead of overflowing, and returns the receiver.
func (m *MultiGas) Add(a, b MultiGas) *MultiGas {
	for i := range m {
		sum := a[i] + b[i]
		if sum < a[i] {
			sum = math.MaxUint64
		}
		m[i] = sum
	}
	return m
}

// Sub sets the receiver to the element-wise difference of a and b,
// saturating at zero instead of underflowing, and returns the receiver.
func (m *MultiGas) Sub(a, b MultiGas) *MultiGas {
	for i := range m {
		if b[i] > a[i] {
			m[i] = 0
			continue
		}
		m[i] = a[i] - b[i]
	}
	return m
}
