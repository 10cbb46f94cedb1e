package bins

import (
	"fmt"

	"hamlet/domain/core"
)

// Row is one spatial cell's entry in the Collection: the bin itself plus
// the scalar columns the test engine appends. Columns are tri-state via the
// Has flags so that "never scored" is distinguishable from a zero score.
type Row struct {
	Bin *SpacemagBin

	LogLike    float64
	HasLogLike bool

	MaxMagExceeded bool
	HasMaxMagCheck bool
}

// Collection is the bin table: one row per spatial cell, keyed by cell ID
// and iterated in insertion order. The engine writes columns; rows are
// never removed during a run. All lookups are by key, never by position.
type Collection struct {
	order []core.CellID
	rows  map[core.CellID]*Row
}

// NewCollection creates an empty bin collection.
func NewCollection() *Collection {
	return &Collection{rows: make(map[core.CellID]*Row)}
}

// Add inserts a bin. Duplicate cells are a caller bug and rejected.
func (c *Collection) Add(b *SpacemagBin) error {
	if _, exists := c.rows[b.Cell]; exists {
		return fmt.Errorf("duplicate spatial cell %s", b.Cell)
	}
	c.order = append(c.order, b.Cell)
	c.rows[b.Cell] = &Row{Bin: b}
	return nil
}

// Get returns the row for a cell.
func (c *Collection) Get(cell core.CellID) (*Row, bool) {
	row, ok := c.rows[cell]
	return row, ok
}

// Len returns the number of spatial cells.
func (c *Collection) Len() int {
	return len(c.order)
}

// Cells returns all cell IDs in insertion order.
func (c *Collection) Cells() []core.CellID {
	out := make([]core.CellID, len(c.order))
	copy(out, c.order)
	return out
}

// Each visits every row in insertion order.
func (c *Collection) Each(fn func(cell core.CellID, row *Row)) {
	for _, cell := range c.order {
		fn(cell, c.rows[cell])
	}
}

// SourceCells returns the cells whose bins contain at least one rupture.
// Likelihood tests only score these; the rest keep the default fill.
func (c *Collection) SourceCells() []core.CellID {
	var out []core.CellID
	for _, cell := range c.order {
		if c.rows[cell].Bin.NumRuptures() > 0 {
			out = append(out, cell)
		}
	}
	return out
}

// FillLogLike sets the log-likelihood column to a default value for every
// row, before per-cell scores overwrite the cells a test actually touches.
func (c *Collection) FillLogLike(v float64) {
	for _, row := range c.rows {
		row.LogLike = v
		row.HasLogLike = true
	}
}

// SetLogLike writes one cell's log-likelihood score.
func (c *Collection) SetLogLike(cell core.CellID, v float64) error {
	row, ok := c.rows[cell]
	if !ok {
		return fmt.Errorf("unknown spatial cell %s", cell)
	}
	row.LogLike = v
	row.HasLogLike = true
	return nil
}

// SetMaxMagExceeded writes one cell's max-magnitude check flag.
func (c *Collection) SetMaxMagExceeded(cell core.CellID, exceeded bool) error {
	row, ok := c.rows[cell]
	if !ok {
		return fmt.Errorf("unknown spatial cell %s", cell)
	}
	row.MaxMagExceeded = exceeded
	row.HasMaxMagCheck = true
	return nil
}

// LogLikes returns the log-likelihood column for rows that have one, in
// insertion order.
func (c *Collection) LogLikes() []float64 {
	var out []float64
	for _, cell := range c.order {
		if row := c.rows[cell]; row.HasLogLike {
			out = append(out, row.LogLike)
		}
	}
	return out
}
