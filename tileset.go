package tiled

import (
	"encoding/xml"
	"errors"
	"image"
	"io"
)

// Tileset describes one set of tiles and where their pixels live.
type Tileset struct {
	// FirstGID is the smallest global tile id this tileset supplies.
	FirstGID   uint32
	Name       string
	TileWidth  int
	TileHeight int
	Spacing    int
	Margin     int
	// TileCount and Columns are 0 when the document omits them.
	TileCount  int
	Columns    int
	Images     []Image
	Tiles      []Tile
	Properties Properties
}

// Tile is a per-tile override record, keyed by an id local to its tileset.
type Tile struct {
	ID         uint32
	Images     []Image
	Properties Properties
	// ObjectGroup holds the tile's collision shapes.
	ObjectGroup *ObjectGroup
	// Animation is nil for static tiles.
	Animation []Frame
	Type      string
	// Probability weights random placement, default 1.
	Probability float64
}

// Frame is one step of a tile animation.
type Frame struct {
	TileID uint32
	// Duration is in milliseconds.
	Duration uint32
}

// Image is a reference to an external picture file.
type Image struct {
	Source string
	Width  int
	Height int
	// Trans is the color to key out as transparent, if any.
	Trans *Color
}

// GetTileRect returns the pixel rectangle of a local tile id inside the
// tileset's first image. A column count omitted by the document is derived
// from the image width.
func (ts *Tileset) GetTileRect(id uint32) image.Rectangle {
	columns := ts.Columns
	if columns == 0 && len(ts.Images) > 0 && ts.TileWidth+ts.Spacing > 0 {
		columns = (ts.Images[0].Width - ts.Margin*2 + ts.Spacing) / (ts.TileWidth + ts.Spacing)
	}
	if columns <= 0 {
		return image.Rectangle{}
	}
	col := int(id) % columns
	row := int(id) / columns
	x := ts.Margin + col*(ts.TileWidth+ts.Spacing)
	y := ts.Margin + row*(ts.TileHeight+ts.Spacing)
	return image.Rect(x, y, x+ts.TileWidth, y+ts.TileHeight)
}

// GetTilesetTile returns the override record for a local tile id, or nil
// when the tileset has none for it.
func (ts *Tileset) GetTilesetTile(id uint32) *Tile {
	for i := range ts.Tiles {
		if ts.Tiles[i].ID == id {
			return &ts.Tiles[i]
		}
	}
	return nil
}

// parseTileset builds a <tileset> found inside a map. The element is either
// a full inline definition or a reference to an external file. Both schemas
// are probed on the attribute list alone, so choosing a path never consumes
// cursor events.
func (p *parser) parseTileset(e xml.StartElement) (Tileset, error) {
	ts := Tileset{Properties: make(Properties)}
	embeddedErr := scanAttrs(e.Attr, "tileset must have a firstgid, name, tile width and height with correct types", []attrField{
		{name: "spacing", parse: intAttr(&ts.Spacing)},
		{name: "margin", parse: intAttr(&ts.Margin)},
		{name: "tilecount", parse: intAttr(&ts.TileCount)},
		{name: "columns", parse: intAttr(&ts.Columns)},
		{name: "firstgid", required: true, parse: uint32Attr(&ts.FirstGID)},
		{name: "name", required: true, parse: stringAttr(&ts.Name)},
		{name: "tilewidth", required: true, parse: intAttr(&ts.TileWidth)},
		{name: "tileheight", required: true, parse: intAttr(&ts.TileHeight)},
	})
	if embeddedErr == nil {
		if err := p.parseTilesetBody(&ts); err != nil {
			return Tileset{}, err
		}
		return ts, nil
	}

	var firstGID uint32
	var source string
	refErr := scanAttrs(e.Attr, "tileset must have a firstgid and source with correct types", []attrField{
		{name: "firstgid", required: true, parse: uint32Attr(&firstGID)},
		{name: "source", required: true, parse: stringAttr(&source)},
	})
	if refErr != nil {
		return Tileset{}, embeddedErr
	}
	return p.resolveTilesetReference(source, firstGID)
}

// resolveTilesetReference opens and parses the external tileset document
// behind source, resolved relative to the referencing document's location.
func (p *parser) resolveTilesetReference(source string, firstGID uint32) (Tileset, error) {
	if p.path == "" {
		return Tileset{}, ErrNoSourceLocation
	}
	refPath := resolveRelative(p.fsys, p.path, source)
	f, err := openPath(p.fsys, refPath)
	if err != nil {
		return Tileset{}, &FileNotFoundError{Path: refPath, Err: err}
	}
	defer f.Close()
	sub := &parser{dec: xml.NewDecoder(f), path: refPath, fsys: p.fsys}
	return sub.parseExternalTileset(firstGID)
}

// parseExternalTileset reads a standalone tileset document. Its root
// <tileset> carries no firstgid of its own; the caller supplies one.
func (p *parser) parseExternalTileset(firstGID uint32) (Tileset, error) {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return Tileset{}, &PrematureEndError{Context: "document ended before a tileset was found"}
			}
			return Tileset{}, &XMLDecodingError{Err: err}
		}
		start, ok := tok.(xml.StartElement)
		if !ok || start.Name.Local != "tileset" {
			continue
		}
		ts := Tileset{FirstGID: firstGID, Properties: make(Properties)}
		err = scanAttrs(start.Attr, "tileset must have a name, tile width and height with correct types", []attrField{
			{name: "spacing", parse: intAttr(&ts.Spacing)},
			{name: "margin", parse: intAttr(&ts.Margin)},
			{name: "tilecount", parse: intAttr(&ts.TileCount)},
			{name: "columns", parse: intAttr(&ts.Columns)},
			{name: "name", required: true, parse: stringAttr(&ts.Name)},
			{name: "tilewidth", required: true, parse: intAttr(&ts.TileWidth)},
			{name: "tileheight", required: true, parse: intAttr(&ts.TileHeight)},
		})
		if err != nil {
			return Tileset{}, err
		}
		if err := p.parseTilesetBody(&ts); err != nil {
			return Tileset{}, err
		}
		return ts, nil
	}
}

// parseTilesetBody consumes the children of an already-open <tileset>.
func (p *parser) parseTilesetBody(ts *Tileset) error {
	return p.walk("tileset", map[string]elementHandler{
		"image": func(e xml.StartElement) error {
			img, err := p.parseImage(e)
			if err != nil {
				return err
			}
			ts.Images = append(ts.Images, img)
			return nil
		},
		"properties": func(xml.StartElement) error {
			var err error
			ts.Properties, err = p.parseProperties()
			return err
		},
		"tile": func(e xml.StartElement) error {
			t, err := p.parseTile(e)
			if err != nil {
				return err
			}
			ts.Tiles = append(ts.Tiles, t)
			return nil
		},
	})
}

func (p *parser) parseTile(e xml.StartElement) (Tile, error) {
	t := Tile{
		Probability: 1,
		Properties:  make(Properties),
	}
	err := scanAttrs(e.Attr, "tile must have an id with the correct type", []attrField{
		{name: "type", parse: stringAttr(&t.Type)},
		{name: "probability", parse: floatAttr(&t.Probability)},
		{name: "id", required: true, parse: uint32Attr(&t.ID)},
	})
	if err != nil {
		return Tile{}, err
	}
	err = p.walk("tile", map[string]elementHandler{
		"image": func(e xml.StartElement) error {
			img, err := p.parseImage(e)
			if err != nil {
				return err
			}
			t.Images = append(t.Images, img)
			return nil
		},
		"properties": func(xml.StartElement) error {
			var err error
			t.Properties, err = p.parseProperties()
			return err
		},
		"objectgroup": func(e xml.StartElement) error {
			g, err := p.parseObjectGroup(e, nil)
			if err != nil {
				return err
			}
			t.ObjectGroup = &g
			return nil
		},
		"animation": func(xml.StartElement) error {
			frames, err := p.parseAnimation()
			if err != nil {
				return err
			}
			t.Animation = frames
			return nil
		},
	})
	if err != nil {
		return Tile{}, err
	}
	return t, nil
}

// parseAnimation reads the <frame> children of an <animation> element. An
// empty animation yields an empty, non-nil slice.
func (p *parser) parseAnimation() ([]Frame, error) {
	frames := make([]Frame, 0)
	err := p.walk("animation", map[string]elementHandler{
		"frame": func(e xml.StartElement) error {
			var f Frame
			err := scanAttrs(e.Attr, "frame must have a tileid and duration with correct types", []attrField{
				{name: "tileid", required: true, parse: uint32Attr(&f.TileID)},
				{name: "duration", required: true, parse: uint32Attr(&f.Duration)},
			})
			if err != nil {
				return err
			}
			frames = append(frames, f)
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return frames, nil
}

func (p *parser) parseImage(e xml.StartElement) (Image, error) {
	var img Image
	err := scanAttrs(e.Attr, "image must have a source, width and height with correct types", []attrField{
		{name: "trans", parse: colorAttr(&img.Trans)},
		{name: "source", required: true, parse: stringAttr(&img.Source)},
		{name: "width", required: true, parse: intAttr(&img.Width)},
		{name: "height", required: true, parse: intAttr(&img.Height)},
	})
	if err != nil {
		return Image{}, err
	}
	if err := p.walk("image", nil); err != nil {
		return Image{}, err
	}
	return img, nil
}
