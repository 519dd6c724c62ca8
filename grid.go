package avifpix

import (
	"fmt"

	"github.com/vearutop/avifpix/internal/imath"
)

// ImageGrid describes a tiled composition: RowCount x ColumnCount cells in
// row-major order forming an image of OutputWidth x OutputHeight.
type ImageGrid struct {
	RowCount     int
	ColumnCount  int
	OutputWidth  int
	OutputHeight int
}

func (g ImageGrid) cellCount() int { return g.RowCount * g.ColumnCount }

// ValidateGridCells checks that the cells agree on every property and obey
// the tiling rules: all cells except the last column share the first cell's
// width, the last column is never wider, the same holds for rows, a
// multi-cell grid uses cells of at least 64x64, and subsampled layouts need
// even cell and output dimensions.
func ValidateGridCells(grid ImageGrid, cells []*Image) error {
	if grid.RowCount <= 0 || grid.ColumnCount <= 0 {
		return fmt.Errorf("%w: %dx%d layout", ErrInvalidImageGrid, grid.ColumnCount, grid.RowCount)
	}
	if len(cells) != grid.cellCount() {
		return fmt.Errorf("%w: %d cells for %dx%d layout",
			ErrInvalidImageGrid, len(cells), grid.ColumnCount, grid.RowCount)
	}
	first := cells[0]
	if first.Width <= 0 || first.Height <= 0 {
		return fmt.Errorf("%w: empty first cell", ErrInvalidImageGrid)
	}
	if len(cells) > 1 && (first.Width < 64 || first.Height < 64) {
		return fmt.Errorf("%w: cells %dx%d below 64x64", ErrInvalidImageGrid, first.Width, first.Height)
	}

	for idx, c := range cells {
		if c.Depth != first.Depth || c.YUVFormat != first.YUVFormat ||
			c.YUVRange != first.YUVRange ||
			c.ChromaSamplePosition != first.ChromaSamplePosition ||
			c.HasAlpha() != first.HasAlpha() ||
			c.AlphaPremultiplied != first.AlphaPremultiplied ||
			!c.hasSameCICP(first) {
			return fmt.Errorf("%w: cell %d properties differ", ErrInvalidImageGrid, idx)
		}
		row, col := idx/grid.ColumnCount, idx%grid.ColumnCount
		wantW, wantH := first.Width, first.Height
		if col == grid.ColumnCount-1 {
			wantW = grid.OutputWidth - (grid.ColumnCount-1)*first.Width
		}
		if row == grid.RowCount-1 {
			wantH = grid.OutputHeight - (grid.RowCount-1)*first.Height
		}
		if wantW <= 0 || wantW > first.Width || wantH <= 0 || wantH > first.Height {
			return fmt.Errorf("%w: %dx%d output does not fit %dx%d cells",
				ErrInvalidImageGrid, grid.OutputWidth, grid.OutputHeight, first.Width, first.Height)
		}
		if c.Width != wantW || c.Height != wantH {
			return fmt.Errorf("%w: cell %d is %dx%d, want %dx%d",
				ErrInvalidImageGrid, idx, c.Width, c.Height, wantW, wantH)
		}
	}

	if first.YUVFormat.chromaShiftX() != 0 {
		if !imath.Even(grid.OutputWidth) {
			return fmt.Errorf("%w: odd output width with subsampled chroma", ErrInvalidImageGrid)
		}
		if grid.ColumnCount > 1 && !imath.Even(first.Width) {
			return fmt.Errorf("%w: odd cell width with subsampled chroma", ErrInvalidImageGrid)
		}
	}
	if first.YUVFormat.chromaShiftY() != 0 {
		if !imath.Even(grid.OutputHeight) {
			return fmt.Errorf("%w: odd output height with subsampled chroma", ErrInvalidImageGrid)
		}
		if grid.RowCount > 1 && !imath.Even(first.Height) {
			return fmt.Errorf("%w: odd cell height with subsampled chroma", ErrInvalidImageGrid)
		}
	}
	return nil
}

// ComposeGrid assembles the cells into one allocated image. Cell pixel data
// is copied, metadata comes from the first cell.
func ComposeGrid(grid ImageGrid, cells []*Image) (*Image, error) {
	if err := ValidateGridCells(grid, cells); err != nil {
		return nil, err
	}
	first := cells[0]
	out := first.cloneProperties()
	out.Width, out.Height = grid.OutputWidth, grid.OutputHeight

	group := YUVPlanes
	if first.HasAlpha() {
		group = AllPlanes
	}
	if err := out.AllocatePlanes(group); err != nil {
		return nil, err
	}

	for idx, c := range cells {
		row, col := idx/grid.ColumnCount, idx%grid.ColumnCount
		rect := CropRect{
			X:      col * first.Width,
			Y:      row * first.Height,
			Width:  c.Width,
			Height: c.Height,
		}
		dstView, err := out.View(rect)
		if err != nil {
			return nil, err
		}
		if err := copyCellPlanes(dstView, c); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// DecomposeGrid splits an image into zero-copy cell views laid out per the
// grid. The views alias the source planes.
func DecomposeGrid(grid ImageGrid, img *Image) ([]*Image, error) {
	if grid.RowCount <= 0 || grid.ColumnCount <= 0 {
		return nil, fmt.Errorf("%w: %dx%d layout", ErrInvalidImageGrid, grid.ColumnCount, grid.RowCount)
	}
	if img.Width != grid.OutputWidth || img.Height != grid.OutputHeight {
		return nil, fmt.Errorf("%w: image is %dx%d, grid wants %dx%d",
			ErrInvalidImageGrid, img.Width, img.Height, grid.OutputWidth, grid.OutputHeight)
	}
	cellW := imath.CeilDiv(grid.OutputWidth, grid.ColumnCount)
	cellH := imath.CeilDiv(grid.OutputHeight, grid.RowCount)
	if cellW <= 0 || cellH <= 0 {
		return nil, fmt.Errorf("%w: empty cells", ErrInvalidImageGrid)
	}

	cells := make([]*Image, 0, grid.cellCount())
	for row := 0; row < grid.RowCount; row++ {
		for col := 0; col < grid.ColumnCount; col++ {
			rect := CropRect{X: col * cellW, Y: row * cellH, Width: cellW, Height: cellH}
			if rect.X+rect.Width > img.Width {
				rect.Width = img.Width - rect.X
			}
			if rect.Y+rect.Height > img.Height {
				rect.Height = img.Height - rect.Y
			}
			v, err := img.View(rect)
			if err != nil {
				return nil, fmt.Errorf("%w: cell %d,%d: %w", ErrInvalidImageGrid, col, row, err)
			}
			cells = append(cells, v)
		}
	}
	return cells, nil
}

// copyCellPlanes copies every plane of src into the same-sized view dst.
func copyCellPlanes(dst, src *Image) error {
	for _, p := range AllPlanes {
		if !src.HasPlane(p) || !dst.HasPlane(p) {
			continue
		}
		h := src.PlaneHeight(p)
		w := src.PlaneWidth(p)
		for y := 0; y < h; y++ {
			if src.planes[p].is16() {
				srcRow, err := src.Row16(p, y)
				if err != nil {
					return err
				}
				dstRow, err := dst.Row16(p, y)
				if err != nil {
					return err
				}
				copy(dstRow[:w], srcRow[:w])
			} else {
				srcRow, err := src.Row(p, y)
				if err != nil {
					return err
				}
				dstRow, err := dst.Row(p, y)
				if err != nil {
					return err
				}
				copy(dstRow[:w], srcRow[:w])
			}
		}
	}
	return nil
}
