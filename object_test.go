package tiled

import (
	"errors"
	"strings"
	"testing"
)

func parseShapeGroup(t *testing.T, objects string) ObjectGroup {
	t.Helper()
	doc := `<map version="1.0" orientation="orthogonal" width="4" height="4" tilewidth="16" tileheight="16">
 <objectgroup name="shapes">` + objects + `
 </objectgroup>
</map>`
	m := mustParse(t, doc)
	if len(m.ObjectGroups) != 1 {
		t.Fatalf("got %d object groups, want 1", len(m.ObjectGroups))
	}
	return m.ObjectGroups[0]
}

func TestObjectShapeDefaultRect(t *testing.T) {
	g := parseShapeGroup(t, `<object id="1" x="10" y="20" width="30" height="40"/>`)
	o := g.Objects[0]
	if o.X != 10 || o.Y != 20 || o.Width != 30 || o.Height != 40 {
		t.Errorf("object = %+v", o)
	}
	rect, ok := o.Shape.(RectShape)
	if !ok {
		t.Fatalf("shape is %T, want RectShape", o.Shape)
	}
	if rect.Width != 30 || rect.Height != 40 {
		t.Errorf("rect = %+v, want the object's own size", rect)
	}
	if !o.Visible || o.Rotation != 0 || o.GID != 0 || o.Name != "" || o.Type != "" {
		t.Errorf("defaults wrong: %+v", o)
	}
}

func TestObjectShapeEllipse(t *testing.T) {
	g := parseShapeGroup(t, `<object id="1" x="1" y="2" width="8" height="6"><ellipse/></object>`)
	e, ok := g.Objects[0].Shape.(EllipseShape)
	if !ok {
		t.Fatalf("shape is %T, want EllipseShape", g.Objects[0].Shape)
	}
	if e.Width != 8 || e.Height != 6 {
		t.Errorf("ellipse = %+v", e)
	}
}

func TestObjectShapePolyline(t *testing.T) {
	g := parseShapeGroup(t, `<object id="1" x="0" y="0"><polyline points="0,0 4,4 8,0"/></object>`)
	pl, ok := g.Objects[0].Shape.(PolylineShape)
	if !ok {
		t.Fatalf("shape is %T, want PolylineShape", g.Objects[0].Shape)
	}
	want := []Point{{0, 0}, {4, 4}, {8, 0}}
	if len(pl.Points) != len(want) {
		t.Fatalf("got %d points, want %d", len(pl.Points), len(want))
	}
	for i, p := range want {
		if pl.Points[i] != p {
			t.Errorf("point %d = %v, want %v", i, pl.Points[i], p)
		}
	}
}

func TestObjectShapePolygon(t *testing.T) {
	g := parseShapeGroup(t, `<object id="1" x="0" y="0"><polygon points="0,0 8,0 8,8"/></object>`)
	pg, ok := g.Objects[0].Shape.(PolygonShape)
	if !ok {
		t.Fatalf("shape is %T, want PolygonShape", g.Objects[0].Shape)
	}
	if len(pg.Points) != 3 || pg.Points[2] != (Point{8, 8}) {
		t.Errorf("polygon = %+v", pg)
	}
}

func TestObjectShapePoint(t *testing.T) {
	g := parseShapeGroup(t, `<object id="1" x="5" y="6"><point/></object>`)
	pt, ok := g.Objects[0].Shape.(PointShape)
	if !ok {
		t.Fatalf("shape is %T, want PointShape", g.Objects[0].Shape)
	}
	if pt.X != 5 || pt.Y != 6 {
		t.Errorf("point = %+v, want the object position", pt)
	}
}

func TestObjectAttributes(t *testing.T) {
	g := parseShapeGroup(t, `<object id="6" gid="12" x="0" y="16" name="crate" type="prop" rotation="45" visible="0"/>`)
	o := g.Objects[0]
	if o.ID != 6 || o.GID != 12 || o.Name != "crate" || o.Type != "prop" {
		t.Errorf("object = %+v", o)
	}
	if o.Rotation != 45 || o.Visible {
		t.Errorf("rotation %v, visible %v", o.Rotation, o.Visible)
	}
}

func TestObjectProperties(t *testing.T) {
	g := parseShapeGroup(t, `<object id="1" x="0" y="0">
   <properties><property name="hp" type="int" value="12"/></properties>
  </object>`)
	if got, ok := g.Objects[0].Properties.GetInt("hp"); !ok || got != 12 {
		t.Errorf("hp = %d, %v", got, ok)
	}
}

func TestObjectMissingPosition(t *testing.T) {
	doc := `<map version="1.0" orientation="orthogonal" width="4" height="4" tilewidth="16" tileheight="16">
 <objectgroup name="g"><object id="1" x="3"/></objectgroup>
</map>`
	_, err := Parse(strings.NewReader(doc))
	var me *MalformedAttributesError
	if !errors.As(err, &me) {
		t.Fatalf("got %v, want MalformedAttributesError", err)
	}
	if me.Reason != "objects must have an x and a y number" {
		t.Errorf("reason = %q", me.Reason)
	}
}

func TestObjectGroupAttributes(t *testing.T) {
	doc := `<map version="1.0" orientation="orthogonal" width="4" height="4" tilewidth="16" tileheight="16">
 <objectgroup name="zones" color="#00ff00" opacity="0.5" visible="0"/>
</map>`
	m := mustParse(t, doc)
	g := m.ObjectGroups[0]
	if g.Name != "zones" || g.Opacity != 0.5 || g.Visible {
		t.Errorf("group = %+v", g)
	}
	if g.Color == nil || *g.Color != (Color{Green: 0xff}) {
		t.Errorf("Color = %v, want green", g.Color)
	}
}

func TestObjectGroupDefaults(t *testing.T) {
	// Even the name is optional on object groups.
	doc := `<map version="1.0" orientation="orthogonal" width="4" height="4" tilewidth="16" tileheight="16">
 <objectgroup/>
</map>`
	m := mustParse(t, doc)
	g := m.ObjectGroups[0]
	if g.Name != "" || g.Opacity != 1 || !g.Visible || g.Color != nil {
		t.Errorf("group = %+v", g)
	}
}

func TestPolylineMissingPoints(t *testing.T) {
	doc := `<map version="1.0" orientation="orthogonal" width="4" height="4" tilewidth="16" tileheight="16">
 <objectgroup name="g"><object id="1" x="0" y="0"><polyline/></object></objectgroup>
</map>`
	_, err := Parse(strings.NewReader(doc))
	var me *MalformedAttributesError
	if !errors.As(err, &me) {
		t.Fatalf("got %v, want MalformedAttributesError", err)
	}
}

func TestParsePoints(t *testing.T) {
	pts, err := parsePoints("0,0 -4,2.5 8,-16")
	if err != nil {
		t.Fatal(err)
	}
	want := []Point{{0, 0}, {-4, 2.5}, {8, -16}}
	for i, p := range want {
		if pts[i] != p {
			t.Errorf("point %d = %v, want %v", i, pts[i], p)
		}
	}

	for _, bad := range []string{"1,2 3", "a,b", "1,2,3"} {
		if _, err := parsePoints(bad); err == nil {
			t.Errorf("parsePoints(%q) succeeded, want error", bad)
		}
	}
}
