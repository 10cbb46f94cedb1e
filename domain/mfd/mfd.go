package mfd

import (
	"fmt"

	"hamlet/domain/core"
)

// MFD is a magnitude-frequency distribution: an ordered series of values
// (annual rates, or counts) over a fixed ascending sequence of magnitude
// bin centers. The key sequence is shared with the binning that produced
// it, so two MFDs over the same binning are always directly comparable.
type MFD struct {
	keys  []core.MagKey
	vals  []float64
	index map[core.MagKey]int
}

// New creates a zero-valued MFD over the given bin centers. The keys must
// be ascending and unique; they are copied.
func New(keys []core.MagKey) *MFD {
	m := &MFD{
		keys:  make([]core.MagKey, len(keys)),
		vals:  make([]float64, len(keys)),
		index: make(map[core.MagKey]int, len(keys)),
	}
	copy(m.keys, keys)
	for i, k := range m.keys {
		m.index[k] = i
	}
	return m
}

// Keys returns the bin centers in ascending order.
func (m *MFD) Keys() []core.MagKey {
	return m.keys
}

// Values returns the value series aligned with Keys.
func (m *MFD) Values() []float64 {
	return m.vals
}

// Len returns the number of magnitude bins.
func (m *MFD) Len() int {
	return len(m.keys)
}

// Get returns the value at the given bin center. Unknown keys read as zero.
func (m *MFD) Get(k core.MagKey) float64 {
	if i, ok := m.index[k]; ok {
		return m.vals[i]
	}
	return 0
}

// Has reports whether the bin center belongs to this MFD.
func (m *MFD) Has(k core.MagKey) bool {
	_, ok := m.index[k]
	return ok
}

// Set assigns the value at the given bin center.
func (m *MFD) Set(k core.MagKey, v float64) error {
	i, ok := m.index[k]
	if !ok {
		return fmt.Errorf("magnitude bin %s not in MFD", k)
	}
	m.vals[i] = v
	return nil
}

// AddTo accumulates v into the given bin center.
func (m *MFD) AddTo(k core.MagKey, v float64) error {
	i, ok := m.index[k]
	if !ok {
		return fmt.Errorf("magnitude bin %s not in MFD", k)
	}
	m.vals[i] += v
	return nil
}

// AddMFD accumulates another MFD bin-by-bin. The two must share the same
// key sequence.
func (m *MFD) AddMFD(other *MFD) error {
	if len(other.keys) != len(m.keys) {
		return fmt.Errorf("MFD length mismatch: %d vs %d", len(m.keys), len(other.keys))
	}
	for i, k := range m.keys {
		if other.keys[i] != k {
			return fmt.Errorf("MFD key mismatch at index %d: %s vs %s", i, k, other.keys[i])
		}
		m.vals[i] += other.vals[i]
	}
	return nil
}

// Scale returns a new MFD with every value multiplied by f.
func (m *MFD) Scale(f float64) *MFD {
	out := New(m.keys)
	for i, v := range m.vals {
		out.vals[i] = v * f
	}
	return out
}

// Cumulative converts an incremental MFD into a cumulative one: each bin
// holds the summed rate of that magnitude and above (reverse running sum),
// so values are monotonically non-increasing with magnitude.
func (m *MFD) Cumulative() *MFD {
	out := New(m.keys)
	sum := 0.0
	for i := len(m.vals) - 1; i >= 0; i-- {
		sum += m.vals[i]
		out.vals[i] = sum
	}
	return out
}

// Incremental recovers the per-bin series from a cumulative MFD by
// adjacent differencing. It is the inverse of Cumulative up to floating
// tolerance.
func (m *MFD) Incremental() *MFD {
	out := New(m.keys)
	for i := range m.vals {
		if i == len(m.vals)-1 {
			out.vals[i] = m.vals[i]
		} else {
			out.vals[i] = m.vals[i] - m.vals[i+1]
		}
	}
	return out
}
