package frame

import (
	"fmt"

	"github.com/clxdsjyx/pandas-msgpack/dtype"
	"github.com/clxdsjyx/pandas-msgpack/errs"
)

// Block stores a contiguous group of same-dtype columns as one unit.
//
// Values is either a 2-dimensional *Array or a *Categorical (a single
// column). Array blocks hold their columns back to back: column k occupies
// elements [k*nrows, (k+1)*nrows) of the flat storage and sits at column
// position Placement[k] of the table. The array shape is [nrows, ncols];
// the trailing dimension always equals the placement width.
type Block struct {
	Placement []int
	Values    any
}

// NumCols returns the number of columns the block occupies.
func (b *Block) NumCols() int { return len(b.Placement) }

// DType returns the element type of the block.
func (b *Block) DType() dtype.DType {
	switch v := b.Values.(type) {
	case *Array:
		return v.DType
	case *Categorical:
		return dtype.Category
	default:
		return dtype.Invalid
	}
}

// Table is a two-axis labeled table with consolidated column storage.
// Axes[0] is the column axis and Axes[1] the row axis.
type Table struct {
	Axes   []Index
	Blocks []*Block
}

// NewTable builds a table and validates the block partition invariant.
func NewTable(axes []Index, blocks []*Block) (*Table, error) {
	t := &Table{Axes: axes, Blocks: blocks}
	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

// NumCols returns the length of the column axis.
func (t *Table) NumCols() int {
	if len(t.Axes) == 0 {
		return 0
	}

	return t.Axes[0].Len()
}

// NumRows returns the length of the row axis.
func (t *Table) NumRows() int {
	if len(t.Axes) < 2 {
		return 0
	}

	return t.Axes[1].Len()
}

// Validate checks that the blocks' combined placements form an exact
// partition of the column axis (every column position in exactly one block)
// and that each block's shape is consistent with its placement.
func (t *Table) Validate() error {
	ncols := t.NumCols()
	nrows := t.NumRows()
	checkRows := len(t.Axes) >= 2
	seen := make([]bool, ncols)

	for _, b := range t.Blocks {
		switch v := b.Values.(type) {
		case *Array:
			if v.NDim() != 2 {
				return fmt.Errorf("%w: block array must be 2-dimensional, got shape %v", errs.ErrShapeMismatch, v.Shape)
			}
			if v.Shape[1] != len(b.Placement) {
				return fmt.Errorf("%w: block shape %v vs %d placements", errs.ErrShapeMismatch, v.Shape, len(b.Placement))
			}
			if checkRows && v.Shape[0] != nrows {
				return fmt.Errorf("%w: block carries %d rows, row axis has %d", errs.ErrShapeMismatch, v.Shape[0], nrows)
			}
		case *Categorical:
			if len(b.Placement) != 1 {
				return fmt.Errorf("%w: categorical block must occupy one column, got %d", errs.ErrBadPlacement, len(b.Placement))
			}
			if checkRows && v.Len() != nrows {
				return fmt.Errorf("%w: categorical block carries %d rows, row axis has %d", errs.ErrShapeMismatch, v.Len(), nrows)
			}
		default:
			return fmt.Errorf("%w: unsupported block values %T", errs.ErrShapeMismatch, b.Values)
		}

		for _, pos := range b.Placement {
			if pos < 0 || pos >= ncols {
				return fmt.Errorf("%w: column position %d outside axis of %d", errs.ErrBadPlacement, pos, ncols)
			}
			if seen[pos] {
				return fmt.Errorf("%w: column position %d claimed twice", errs.ErrBadPlacement, pos)
			}
			seen[pos] = true
		}
	}

	for pos, ok := range seen {
		if !ok {
			return fmt.Errorf("%w: column position %d not covered by any block", errs.ErrBadPlacement, pos)
		}
	}

	return nil
}

// IsConsolidated reports whether the table already uses the minimal number of
// blocks: at most one array block per dtype.
func (t *Table) IsConsolidated() bool {
	seen := make(map[dtype.DType]bool, len(t.Blocks))
	for _, b := range t.Blocks {
		if _, ok := b.Values.(*Categorical); ok {
			continue
		}
		dt := b.DType()
		if seen[dt] {
			return false
		}
		seen[dt] = true
	}

	return true
}

// Consolidate merges same-dtype array blocks into one block each, returning
// the receiver unchanged when already consolidated. Categorical blocks are
// never merged.
func (t *Table) Consolidate() (*Table, error) {
	if t.IsConsolidated() {
		return t, nil
	}

	out := make([]*Block, 0, len(t.Blocks))
	merged := make(map[dtype.DType]int, len(t.Blocks))

	for _, b := range t.Blocks {
		arr, ok := b.Values.(*Array)
		if !ok {
			out = append(out, b)
			continue
		}

		idx, seen := merged[arr.DType]
		if !seen {
			merged[arr.DType] = len(out)
			clone := *arr
			clone.Shape = append([]int(nil), arr.Shape...)
			out = append(out, &Block{
				Placement: append([]int(nil), b.Placement...),
				Values:    &clone,
			})
			continue
		}

		dst := out[idx].Values.(*Array)
		data, err := appendStorage(arr.DType, dst.Data, arr.Data)
		if err != nil {
			return nil, err
		}
		dst.Data = data
		dst.Shape = []int{dst.Shape[0], dst.Shape[1] + arr.Shape[1]}
		out[idx].Placement = append(out[idx].Placement, b.Placement...)
	}

	return &Table{Axes: t.Axes, Blocks: out}, nil
}
