package tile

import "testing"

func TestGenerateCoversImageExactly(t *testing.T) {
	width, height := 100, 67
	tiles := GenerateSized(width, height, 32)

	covered := make([][]bool, height)
	for y := range covered {
		covered[y] = make([]bool, width)
	}

	for _, tl := range tiles {
		if tl.EndX-tl.StartX > MaxTileSize || tl.EndY-tl.StartY > MaxTileSize {
			t.Fatalf("tile %+v exceeds max tile size", tl)
		}
		for y := tl.StartY; y < tl.EndY; y++ {
			for x := tl.StartX; x < tl.EndX; x++ {
				if covered[y][x] {
					t.Fatalf("pixel (%d,%d) covered by more than one tile", x, y)
				}
				covered[y][x] = true
			}
		}
	}

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if !covered[y][x] {
				t.Fatalf("pixel (%d,%d) not covered by any tile", x, y)
			}
		}
	}
}

func TestGenerateEmptyImage(t *testing.T) {
	if tiles := GenerateSized(0, 0, 32); len(tiles) != 0 {
		t.Errorf("expected no tiles for a zero-sized image, got %d", len(tiles))
	}
}

func TestGenerateSingleTile(t *testing.T) {
	tiles := GenerateSized(16, 16, 32)
	if len(tiles) != 1 {
		t.Fatalf("expected exactly one tile for an image smaller than the tile size, got %d", len(tiles))
	}
	tl := tiles[0]
	if tl.StartX != 0 || tl.StartY != 0 || tl.EndX != 16 || tl.EndY != 16 {
		t.Errorf("unexpected tile bounds: %+v", tl)
	}
}
