package avifpix

import (
	"errors"
	"testing"
)

func gridCell(t *testing.T, w, h int, format PixelFormat, fill uint16) *Image {
	t.Helper()
	img := &Image{
		Width: w, Height: h, Depth: 8,
		YUVFormat: format,
		YUVRange:  RangeFull,
	}
	if err := img.AllocatePlanes(YUVPlanes); err != nil {
		t.Fatal(err)
	}
	if err := img.FillPlane(PlaneY, fill); err != nil {
		t.Fatal(err)
	}
	return img
}

func TestValidateGridCells(t *testing.T) {
	tests := []struct {
		name  string
		grid  ImageGrid
		cells func(t *testing.T) []*Image
		fails bool
	}{
		{
			name: "last column narrower",
			grid: ImageGrid{RowCount: 1, ColumnCount: 3, OutputWidth: 266, OutputHeight: 100},
			cells: func(t *testing.T) []*Image {
				return []*Image{
					gridCell(t, 100, 100, PixelFormatYUV444, 1),
					gridCell(t, 100, 100, PixelFormatYUV444, 2),
					gridCell(t, 66, 100, PixelFormatYUV444, 3),
				}
			},
		},
		{
			name: "last column wider",
			grid: ImageGrid{RowCount: 1, ColumnCount: 3, OutputWidth: 422, OutputHeight: 100},
			cells: func(t *testing.T) []*Image {
				return []*Image{
					gridCell(t, 100, 100, PixelFormatYUV444, 1),
					gridCell(t, 100, 100, PixelFormatYUV444, 2),
					gridCell(t, 222, 100, PixelFormatYUV444, 3),
				}
			},
			fails: true,
		},
		{
			name: "odd 420 total width",
			grid: ImageGrid{RowCount: 1, ColumnCount: 2, OutputWidth: 165, OutputHeight: 100},
			cells: func(t *testing.T) []*Image {
				return []*Image{
					gridCell(t, 100, 100, PixelFormatYUV420, 1),
					gridCell(t, 65, 100, PixelFormatYUV420, 2),
				}
			},
			fails: true,
		},
		{
			name: "small cells in multi cell grid",
			grid: ImageGrid{RowCount: 1, ColumnCount: 2, OutputWidth: 64, OutputHeight: 32},
			cells: func(t *testing.T) []*Image {
				return []*Image{
					gridCell(t, 32, 32, PixelFormatYUV444, 1),
					gridCell(t, 32, 32, PixelFormatYUV444, 2),
				}
			},
			fails: true,
		},
		{
			name: "mismatched depth",
			grid: ImageGrid{RowCount: 1, ColumnCount: 2, OutputWidth: 200, OutputHeight: 100},
			cells: func(t *testing.T) []*Image {
				a := gridCell(t, 100, 100, PixelFormatYUV444, 1)
				b := &Image{Width: 100, Height: 100, Depth: 10, YUVFormat: PixelFormatYUV444, YUVRange: RangeFull}
				if err := b.AllocatePlanes(YUVPlanes); err != nil {
					t.Fatal(err)
				}
				return []*Image{a, b}
			},
			fails: true,
		},
		{
			name: "cell count mismatch",
			grid: ImageGrid{RowCount: 2, ColumnCount: 2, OutputWidth: 200, OutputHeight: 200},
			cells: func(t *testing.T) []*Image {
				return []*Image{gridCell(t, 100, 100, PixelFormatYUV444, 1)}
			},
			fails: true,
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateGridCells(tc.grid, tc.cells(t))
			if tc.fails {
				if !errors.Is(err, ErrInvalidImageGrid) {
					t.Fatalf("got %v, want ErrInvalidImageGrid", err)
				}
				return
			}
			if err != nil {
				t.Fatal(err)
			}
		})
	}
}

func TestComposeGrid(t *testing.T) {
	grid := ImageGrid{RowCount: 1, ColumnCount: 2, OutputWidth: 192, OutputHeight: 64}
	cells := []*Image{
		gridCell(t, 128, 64, PixelFormatYUV444, 10),
		gridCell(t, 64, 64, PixelFormatYUV444, 20),
	}
	out, err := ComposeGrid(grid, cells)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width != 192 || out.Height != 64 {
		t.Fatalf("composed %dx%d, want 192x64", out.Width, out.Height)
	}

	row, err := out.Row(PlaneY, 10)
	if err != nil {
		t.Fatal(err)
	}
	if row[0] != 10 || row[127] != 10 {
		t.Fatalf("left cell samples wrong: %d %d", row[0], row[127])
	}
	if row[128] != 20 || row[191] != 20 {
		t.Fatalf("right cell samples wrong: %d %d", row[128], row[191])
	}
}

func TestDecomposeGridViews(t *testing.T) {
	img := gridCell(t, 128, 128, PixelFormatYUV444, 7)
	grid := ImageGrid{RowCount: 2, ColumnCount: 2, OutputWidth: 128, OutputHeight: 128}
	cells, err := DecomposeGrid(grid, img)
	if err != nil {
		t.Fatal(err)
	}
	if len(cells) != 4 {
		t.Fatalf("got %d cells, want 4", len(cells))
	}
	for i, c := range cells {
		if c.Width != 64 || c.Height != 64 {
			t.Fatalf("cell %d is %dx%d, want 64x64", i, c.Width, c.Height)
		}
		if !c.planes[PlaneY].IsView() {
			t.Fatalf("cell %d must borrow its planes", i)
		}
	}

	// Mutating a cell is visible in the source.
	row, err := cells[3].Row(PlaneY, 0)
	if err != nil {
		t.Fatal(err)
	}
	row[0] = 99
	srcRow, err := img.Row(PlaneY, 64)
	if err != nil {
		t.Fatal(err)
	}
	if srcRow[64] != 99 {
		t.Fatalf("cell write not visible in source, got %d", srcRow[64])
	}
}

func TestDecomposeGridReportsGridError(t *testing.T) {
	// Four columns over width 10 give width-3 cells, which break chroma
	// parity for 4:2:0.
	img := gridCell(t, 10, 2, PixelFormatYUV420, 7)
	grid := ImageGrid{RowCount: 1, ColumnCount: 4, OutputWidth: 10, OutputHeight: 2}
	if _, err := DecomposeGrid(grid, img); !errors.Is(err, ErrInvalidImageGrid) {
		t.Fatalf("got %v, want ErrInvalidImageGrid", err)
	}
}

func TestComposeGridRejectsInvalid(t *testing.T) {
	grid := ImageGrid{RowCount: 1, ColumnCount: 2, OutputWidth: 422, OutputHeight: 100}
	cells := []*Image{
		gridCell(t, 100, 100, PixelFormatYUV444, 1),
		gridCell(t, 222, 100, PixelFormatYUV444, 2),
	}
	if _, err := ComposeGrid(grid, cells); !errors.Is(err, ErrInvalidImageGrid) {
		t.Fatalf("got %v, want ErrInvalidImageGrid", err)
	}
}
