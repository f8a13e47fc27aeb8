package tiled

import "encoding/xml"

// Map is a fully parsed map document.
type Map struct {
	Version     string
	Orientation Orientation
	// Width and Height are in tiles, TileWidth and TileHeight in pixels.
	Width           int
	Height          int
	TileWidth       int
	TileHeight      int
	Tilesets        []Tileset
	Layers          []Layer
	ImageLayers     []ImageLayer
	ObjectGroups    []ObjectGroup
	Properties      Properties
	BackgroundColor *Color
	Infinite        bool
}

// GetTilesetByGID returns the tileset owning a global tile id: the one with
// the greatest FirstGID not exceeding it, scanning the list as stored. Nil
// when the id is below every tileset, as gid 0, the no-tile sentinel,
// always is.
func (m *Map) GetTilesetByGID(gid uint32) *Tileset {
	var best *Tileset
	for i := range m.Tilesets {
		ts := &m.Tilesets[i]
		if ts.FirstGID <= gid && (best == nil || ts.FirstGID >= best.FirstGID) {
			best = ts
		}
	}
	return best
}

// parseMap builds the root <map> element and everything below it. Layers,
// image layers and object groups share one index sequence recording the
// order they appeared in, whichever list they land in.
func (p *parser) parseMap(e xml.StartElement) (*Map, error) {
	m := &Map{Properties: make(Properties)}
	var infinite string
	err := scanAttrs(e.Attr, "map must have a version, width and height with correct types", []attrField{
		{name: "backgroundcolor", parse: colorAttr(&m.BackgroundColor)},
		{name: "infinite", parse: stringAttr(&infinite)},
		{name: "version", required: true, parse: stringAttr(&m.Version)},
		{name: "orientation", required: true, parse: orientationAttr(&m.Orientation)},
		{name: "width", required: true, parse: intAttr(&m.Width)},
		{name: "height", required: true, parse: intAttr(&m.Height)},
		{name: "tilewidth", required: true, parse: intAttr(&m.TileWidth)},
		{name: "tileheight", required: true, parse: intAttr(&m.TileHeight)},
	})
	if err != nil {
		return nil, err
	}
	m.Infinite = infinite == "1"

	layerIndex := 0
	err = p.walk("map", map[string]elementHandler{
		"tileset": func(e xml.StartElement) error {
			ts, err := p.parseTileset(e)
			if err != nil {
				return err
			}
			m.Tilesets = append(m.Tilesets, ts)
			return nil
		},
		"layer": func(e xml.StartElement) error {
			l, err := p.parseLayer(e, m.Width, layerIndex, m.Infinite)
			if err != nil {
				return err
			}
			layerIndex++
			m.Layers = append(m.Layers, l)
			return nil
		},
		"imagelayer": func(e xml.StartElement) error {
			il, err := p.parseImageLayer(e, layerIndex)
			if err != nil {
				return err
			}
			layerIndex++
			m.ImageLayers = append(m.ImageLayers, il)
			return nil
		},
		"objectgroup": func(e xml.StartElement) error {
			idx := layerIndex
			g, err := p.parseObjectGroup(e, &idx)
			if err != nil {
				return err
			}
			layerIndex++
			m.ObjectGroups = append(m.ObjectGroups, g)
			return nil
		},
		"properties": func(xml.StartElement) error {
			var err error
			m.Properties, err = p.parseProperties()
			return err
		},
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
