// Package sprite loads tileset images for parsed maps and slices them into
// per-tile ebiten images for game code to draw.
package sprite

import (
	"fmt"
	"image"
	"image/color"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	// Tileset images in the wild are mostly PNG, with JPEG, BMP and TGA
	// appearing in older asset packs.
	_ "image/jpeg"
	_ "image/png"

	_ "github.com/ftrvxmtrx/tga"
	_ "golang.org/x/image/bmp"

	"github.com/hajimehoshi/ebiten/v2"

	tiled "github.com/maximveligan/rs-tiled"
)

// Sheet slices one tileset's source image into per-tile images.
type Sheet struct {
	Tileset *tiled.Tileset
	Image   *ebiten.Image

	tiles map[uint32]*ebiten.Image
}

// NewSheet loads the tileset's first image relative to baseDir. A nil fsys
// means the OS filesystem.
func NewSheet(ts *tiled.Tileset, baseDir string, fsys fs.FS) (*Sheet, error) {
	if len(ts.Images) == 0 {
		return nil, fmt.Errorf("sprite: tileset %q has no image", ts.Name)
	}
	src := ts.Images[0]
	img, err := loadImage(fsys, joinPath(fsys, baseDir, src.Source))
	if err != nil {
		return nil, err
	}
	if src.Trans != nil {
		img = keyOutColor(img, *src.Trans)
	}
	return &Sheet{
		Tileset: ts,
		Image:   ebiten.NewImageFromImage(img),
		tiles:   make(map[uint32]*ebiten.Image),
	}, nil
}

// Tile returns the image of a local tile id, sliced on first use and cached.
func (s *Sheet) Tile(id uint32) *ebiten.Image {
	if img, ok := s.tiles[id]; ok {
		return img
	}
	r := s.Tileset.GetTileRect(id)
	if r.Empty() {
		return nil
	}
	img := s.Image.SubImage(r).(*ebiten.Image)
	s.tiles[id] = img
	return img
}

// Atlas holds one sheet per tileset of a map and resolves layer tiles to
// their images.
type Atlas struct {
	Map *tiled.Map

	sheets map[uint32]*Sheet // keyed by FirstGID
}

// NewAtlas loads every tileset image of the map relative to baseDir.
func NewAtlas(m *tiled.Map, baseDir string, fsys fs.FS) (*Atlas, error) {
	a := &Atlas{Map: m, sheets: make(map[uint32]*Sheet)}
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		sheet, err := NewSheet(ts, baseDir, fsys)
		if err != nil {
			return nil, err
		}
		a.sheets[ts.FirstGID] = sheet
	}
	return a, nil
}

// Tile resolves a layer tile to its image. Empty cells and ids no tileset
// owns resolve to nil.
func (a *Atlas) Tile(t tiled.LayerTile) *ebiten.Image {
	if t.IsNil() {
		return nil
	}
	ts := a.Map.GetTilesetByGID(t.GID)
	if ts == nil {
		return nil
	}
	sheet, ok := a.sheets[ts.FirstGID]
	if !ok {
		return nil
	}
	return sheet.Tile(t.GID - ts.FirstGID)
}

func loadImage(fsys fs.FS, name string) (image.Image, error) {
	var r io.ReadCloser
	var err error
	if fsys != nil {
		r, err = fsys.Open(name)
	} else {
		r, err = os.Open(name)
	}
	if err != nil {
		return nil, fmt.Errorf("sprite: open %s: %w", name, err)
	}
	defer r.Close()
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("sprite: decode %s: %w", name, err)
	}
	return img, nil
}

func joinPath(fsys fs.FS, dir, name string) string {
	if fsys != nil {
		return path.Join(dir, filepath.ToSlash(name))
	}
	return filepath.Join(dir, filepath.FromSlash(name))
}

// keyOutColor copies img to NRGBA with every pixel matching the
// transparency key made fully transparent.
func keyOutColor(img image.Image, c tiled.Color) *image.NRGBA {
	b := img.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			px := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if px.R == c.Red && px.G == c.Green && px.B == c.Blue {
				px = color.NRGBA{}
			}
			i := dst.PixOffset(x, y)
			dst.Pix[i] = px.R
			dst.Pix[i+1] = px.G
			dst.Pix[i+2] = px.B
			dst.Pix[i+3] = px.A
		}
	}
	return dst
}
