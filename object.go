package tiled

import (
	"encoding/xml"
	"fmt"
	"strconv"
	"strings"
)

// ObjectGroup is a collection of objects, either a map layer in its own
// right or a tile's embedded collision shapes.
type ObjectGroup struct {
	Name    string
	Opacity float64
	Visible bool
	Objects []Object
	Color   *Color
	// LayerIndex is set for map-level groups and nil for groups embedded
	// in a tile.
	LayerIndex *int
	Properties Properties
}

// Object is a single placed object.
type Object struct {
	ID uint32
	// GID is nonzero when the object displays a tile.
	GID        uint32
	Name       string
	Type       string
	Width      float64
	Height     float64
	X          float64
	Y          float64
	Rotation   float64
	Visible    bool
	Shape      ObjectShape
	Properties Properties
}

// ObjectShape is an object's geometry. The concrete types are RectShape,
// EllipseShape, PolylineShape, PolygonShape and PointShape.
type ObjectShape interface {
	objectShape()
}

// RectShape is the default shape, sized by the object's own width and
// height.
type RectShape struct {
	Width  float64
	Height float64
}

// EllipseShape is an ellipse inscribed in the object's bounding box.
type EllipseShape struct {
	Width  float64
	Height float64
}

// PolylineShape is an open chain of points.
type PolylineShape struct {
	Points []Point
}

// PolygonShape is a closed ring of points.
type PolygonShape struct {
	Points []Point
}

// PointShape marks a single position.
type PointShape struct {
	X float64
	Y float64
}

func (RectShape) objectShape()     {}
func (EllipseShape) objectShape()  {}
func (PolylineShape) objectShape() {}
func (PolygonShape) objectShape()  {}
func (PointShape) objectShape()    {}

// Point is one vertex of a polyline or polygon, relative to the object's
// position.
type Point struct {
	X float64
	Y float64
}

func (p *parser) parseObjectGroup(e xml.StartElement, layerIndex *int) (ObjectGroup, error) {
	g := ObjectGroup{
		Opacity:    1,
		Visible:    true,
		LayerIndex: layerIndex,
		Properties: make(Properties),
	}
	err := scanAttrs(e.Attr, "object group attributes could not be read", []attrField{
		{name: "opacity", parse: floatAttr(&g.Opacity)},
		{name: "visible", parse: boolIntAttr(&g.Visible)},
		{name: "color", parse: colorAttr(&g.Color)},
		{name: "name", parse: stringAttr(&g.Name)},
	})
	if err != nil {
		return ObjectGroup{}, err
	}
	err = p.walk("objectgroup", map[string]elementHandler{
		"object": func(e xml.StartElement) error {
			o, err := p.parseObject(e)
			if err != nil {
				return err
			}
			g.Objects = append(g.Objects, o)
			return nil
		},
		"properties": func(xml.StartElement) error {
			var err error
			g.Properties, err = p.parseProperties()
			return err
		},
	})
	if err != nil {
		return ObjectGroup{}, err
	}
	return g, nil
}

func (p *parser) parseObject(e xml.StartElement) (Object, error) {
	o := Object{
		Visible:    true,
		Properties: make(Properties),
	}
	err := scanAttrs(e.Attr, "objects must have an x and a y number", []attrField{
		{name: "id", parse: uint32Attr(&o.ID)},
		{name: "gid", parse: uint32Attr(&o.GID)},
		{name: "name", parse: stringAttr(&o.Name)},
		{name: "type", parse: stringAttr(&o.Type)},
		{name: "width", parse: floatAttr(&o.Width)},
		{name: "height", parse: floatAttr(&o.Height)},
		{name: "visible", parse: boolIntAttr(&o.Visible)},
		{name: "rotation", parse: floatAttr(&o.Rotation)},
		{name: "x", required: true, parse: floatAttr(&o.X)},
		{name: "y", required: true, parse: floatAttr(&o.Y)},
	})
	if err != nil {
		return Object{}, err
	}
	var shape ObjectShape
	err = p.walk("object", map[string]elementHandler{
		"ellipse": func(xml.StartElement) error {
			shape = EllipseShape{Width: o.Width, Height: o.Height}
			return nil
		},
		"polyline": func(e xml.StartElement) error {
			pts, err := objectPoints(e, "polyline must have points")
			if err != nil {
				return err
			}
			shape = PolylineShape{Points: pts}
			return nil
		},
		"polygon": func(e xml.StartElement) error {
			pts, err := objectPoints(e, "polygon must have points")
			if err != nil {
				return err
			}
			shape = PolygonShape{Points: pts}
			return nil
		},
		"point": func(xml.StartElement) error {
			shape = PointShape{X: o.X, Y: o.Y}
			return nil
		},
		"properties": func(xml.StartElement) error {
			var err error
			o.Properties, err = p.parseProperties()
			return err
		},
	})
	if err != nil {
		return Object{}, err
	}
	if shape == nil {
		shape = RectShape{Width: o.Width, Height: o.Height}
	}
	o.Shape = shape
	return o, nil
}

func objectPoints(e xml.StartElement, reason string) ([]Point, error) {
	var raw string
	err := scanAttrs(e.Attr, reason, []attrField{
		{name: "points", required: true, parse: stringAttr(&raw)},
	})
	if err != nil {
		return nil, err
	}
	return parsePoints(raw)
}

// parsePoints parses an "x1,y1 x2,y2 ..." vertex list.
func parsePoints(s string) ([]Point, error) {
	fields := strings.Fields(s)
	points := make([]Point, 0, len(fields))
	for _, f := range fields {
		xy := strings.Split(f, ",")
		if len(xy) != 2 {
			return nil, fmt.Errorf("malformed points list %q", s)
		}
		x, err := strconv.ParseFloat(xy[0], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed points list %q", s)
		}
		y, err := strconv.ParseFloat(xy[1], 64)
		if err != nil {
			return nil, fmt.Errorf("malformed points list %q", s)
		}
		points = append(points, Point{X: x, Y: y})
	}
	return points, nil
}
