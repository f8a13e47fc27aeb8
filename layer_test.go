package tiled

import "testing"

func TestNewLayerTile(t *testing.T) {
	tests := []struct {
		name string
		raw  uint32
		gid  uint32
		h    bool
		v    bool
		d    bool
	}{
		{"empty", 0, 0, false, false, false},
		{"plain", 42, 42, false, false, false},
		{"horizontal", FlippedHorizontallyFlag | 7, 7, true, false, false},
		{"vertical", FlippedVerticallyFlag | 7, 7, false, true, false},
		{"diagonal", FlippedDiagonallyFlag | 7, 7, false, false, true},
		{"all flips", 0xE0000005, 5, true, true, true},
		{"max gid", 0x1FFFFFFF, 0x1FFFFFFF, false, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewLayerTile(tt.raw)
			if got.GID != tt.gid {
				t.Errorf("GID = %#x, want %#x", got.GID, tt.gid)
			}
			if got.FlipH != tt.h || got.FlipV != tt.v || got.FlipD != tt.d {
				t.Errorf("flips = %v %v %v, want %v %v %v",
					got.FlipH, got.FlipV, got.FlipD, tt.h, tt.v, tt.d)
			}
		})
	}
}

func TestLayerTileRecompose(t *testing.T) {
	raws := []uint32{0, 1, 42, FlippedHorizontallyFlag | 1, 0x60000010, 0xE0000123, 0x1FFFFFFF, 0xFFFFFFFF}
	for _, raw := range raws {
		lt := NewLayerTile(raw)
		if lt.GID&allFlipFlags != 0 {
			t.Errorf("NewLayerTile(%#x).GID = %#x still has flip bits", raw, lt.GID)
		}
		re := lt.GID
		if lt.FlipH {
			re |= FlippedHorizontallyFlag
		}
		if lt.FlipV {
			re |= FlippedVerticallyFlag
		}
		if lt.FlipD {
			re |= FlippedDiagonallyFlag
		}
		if re != raw {
			t.Errorf("recomposed %#x, want %#x", re, raw)
		}
	}
}

func TestLayerTileIsNil(t *testing.T) {
	if !NewLayerTile(0).IsNil() {
		t.Error("tile 0 should be nil")
	}
	// A flip flag on an otherwise empty cell still means no tile.
	if !NewLayerTile(FlippedHorizontallyFlag).IsNil() {
		t.Error("flipped tile 0 should be nil")
	}
	if NewLayerTile(1).IsNil() {
		t.Error("tile 1 should not be nil")
	}
}
