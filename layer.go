package tiled

import "encoding/xml"

// Flip masks carried in the top three bits of a raw 32-bit tile reference.
const (
	FlippedHorizontallyFlag uint32 = 0x80000000
	FlippedVerticallyFlag   uint32 = 0x40000000
	FlippedDiagonallyFlag   uint32 = 0x20000000

	allFlipFlags = FlippedHorizontallyFlag | FlippedVerticallyFlag | FlippedDiagonallyFlag
)

// LayerTile is one cell of a tile layer: the global tile id with the flip
// bits stripped, plus the three flip flags from bits 31, 30 and 29.
type LayerTile struct {
	GID   uint32
	FlipH bool
	FlipV bool
	FlipD bool // anti-diagonal flip
}

// NewLayerTile splits a raw 32-bit tile reference into id and flip flags.
// The returned GID never has any of the flip bits set.
func NewLayerTile(raw uint32) LayerTile {
	return LayerTile{
		GID:   raw &^ allFlipFlags,
		FlipH: raw&FlippedHorizontallyFlag != 0,
		FlipV: raw&FlippedVerticallyFlag != 0,
		FlipD: raw&FlippedDiagonallyFlag != 0,
	}
}

// IsNil reports whether the cell is empty. GID 0 is the no-tile sentinel.
func (t LayerTile) IsNil() bool {
	return t.GID == 0
}

// LayerData is a layer's tile payload: FiniteData for a fixed-size map,
// InfiniteData for an infinite one.
type LayerData interface {
	layerData()
}

// FiniteData is a dense row-major grid. Rows are as wide as the map, except
// for a possibly shorter final row produced by the csv encoding.
type FiniteData [][]LayerTile

// InfiniteData maps chunk origins to independently decoded chunks. A
// duplicated origin keeps the chunk seen last.
type InfiniteData map[ChunkCoord]Chunk

func (FiniteData) layerData()   {}
func (InfiniteData) layerData() {}

// ChunkCoord is a chunk's origin in tile coordinates.
type ChunkCoord struct {
	X int
	Y int
}

// Chunk is one rectangular piece of an infinite layer, decoded with the
// enclosing data element's encoding and compression.
type Chunk struct {
	X      int
	Y      int
	Width  int
	Height int
	Tiles  [][]LayerTile
}

// Layer is a tile layer of the map.
type Layer struct {
	Name       string
	Opacity    float64
	Visible    bool
	OffsetX    float64
	OffsetY    float64
	Tiles      LayerData
	Properties Properties
	// LayerIndex is the layer's position in the draw order shared across
	// tile layers, image layers and object groups.
	LayerIndex int
}

// parseLayer builds a <layer> element. width is the map width in tiles,
// infinite selects chunked decoding of the layer data.
func (p *parser) parseLayer(e xml.StartElement, width, layerIndex int, infinite bool) (Layer, error) {
	l := Layer{
		Opacity:    1,
		Visible:    true,
		Tiles:      FiniteData{},
		Properties: make(Properties),
		LayerIndex: layerIndex,
	}
	err := scanAttrs(e.Attr, "layer must have a name", []attrField{
		{name: "opacity", parse: floatAttr(&l.Opacity)},
		{name: "visible", parse: boolIntAttr(&l.Visible)},
		{name: "offsetx", parse: floatAttr(&l.OffsetX)},
		{name: "offsety", parse: floatAttr(&l.OffsetY)},
		{name: "name", required: true, parse: stringAttr(&l.Name)},
	})
	if err != nil {
		return Layer{}, err
	}
	err = p.walk("layer", map[string]elementHandler{
		"data": func(e xml.StartElement) error {
			var err error
			if infinite {
				l.Tiles, err = p.parseInfiniteData(e)
			} else {
				l.Tiles, err = p.parseFiniteData(e, width)
			}
			return err
		},
		"properties": func(xml.StartElement) error {
			var err error
			l.Properties, err = p.parseProperties()
			return err
		},
	})
	if err != nil {
		return Layer{}, err
	}
	return l, nil
}

// ImageLayer is a layer holding a single image instead of tile data.
type ImageLayer struct {
	Name       string
	Opacity    float64
	Visible    bool
	OffsetX    float64
	OffsetY    float64
	Image      *Image
	Properties Properties
	LayerIndex int
}

func (p *parser) parseImageLayer(e xml.StartElement, layerIndex int) (ImageLayer, error) {
	il := ImageLayer{
		Opacity:    1,
		Visible:    true,
		Properties: make(Properties),
		LayerIndex: layerIndex,
	}
	err := scanAttrs(e.Attr, "image layer must have a name", []attrField{
		{name: "opacity", parse: floatAttr(&il.Opacity)},
		{name: "visible", parse: boolIntAttr(&il.Visible)},
		{name: "offsetx", parse: floatAttr(&il.OffsetX)},
		{name: "offsety", parse: floatAttr(&il.OffsetY)},
		{name: "name", required: true, parse: stringAttr(&il.Name)},
	})
	if err != nil {
		return ImageLayer{}, err
	}
	err = p.walk("imagelayer", map[string]elementHandler{
		"image": func(e xml.StartElement) error {
			img, err := p.parseImage(e)
			if err != nil {
				return err
			}
			il.Image = &img
			return nil
		},
		"properties": func(xml.StartElement) error {
			var err error
			il.Properties, err = p.parseProperties()
			return err
		},
	})
	if err != nil {
		return ImageLayer{}, err
	}
	return il, nil
}
