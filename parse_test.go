package tiled

import (
	"encoding/xml"
	"errors"
	"strings"
	"testing"
)

func attrList(pairs ...string) []xml.Attr {
	out := make([]xml.Attr, 0, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		out = append(out, xml.Attr{Name: xml.Name{Local: pairs[i]}, Value: pairs[i+1]})
	}
	return out
}

func TestScanAttrs(t *testing.T) {
	var width int
	var name string
	opacity := 1.0
	err := scanAttrs(attrList("name", "ground", "width", "7", "ignored", "x"), "test element", []attrField{
		{name: "opacity", parse: floatAttr(&opacity)},
		{name: "name", parse: stringAttr(&name)},
		{name: "width", required: true, parse: intAttr(&width)},
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if width != 7 || name != "ground" {
		t.Errorf("width = %d, name = %q", width, name)
	}
	if opacity != 1.0 {
		t.Errorf("absent optional overwrote the default: %v", opacity)
	}
}

func TestScanAttrsMissingRequired(t *testing.T) {
	var width int
	err := scanAttrs(attrList("name", "x"), "element needs a width", []attrField{
		{name: "width", required: true, parse: intAttr(&width)},
	})
	var me *MalformedAttributesError
	if !errors.As(err, &me) {
		t.Fatalf("got %v, want MalformedAttributesError", err)
	}
	if me.Reason != "element needs a width" {
		t.Errorf("Reason = %q", me.Reason)
	}
}

func TestScanAttrsMalformedRequired(t *testing.T) {
	var width int
	err := scanAttrs(attrList("width", "wide"), "element needs a width", []attrField{
		{name: "width", required: true, parse: intAttr(&width)},
	})
	var me *MalformedAttributesError
	if !errors.As(err, &me) {
		t.Fatalf("got %v, want MalformedAttributesError", err)
	}
}

func TestScanAttrsMalformedOptionalKeepsDefault(t *testing.T) {
	// A malformed optional attribute reads the same as an absent one.
	opacity := 1.0
	err := scanAttrs(attrList("opacity", "high"), "test element", []attrField{
		{name: "opacity", parse: floatAttr(&opacity)},
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if opacity != 1.0 {
		t.Errorf("opacity = %v, want the default 1", opacity)
	}
}

func TestScanAttrsLastOccurrenceWins(t *testing.T) {
	var name string
	err := scanAttrs(attrList("name", "first", "name", "second"), "test element", []attrField{
		{name: "name", required: true, parse: stringAttr(&name)},
	})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if name != "second" {
		t.Errorf("name = %q, want the last occurrence", name)
	}
}

func TestScanAttrsRequiredDuplicateMalformedLast(t *testing.T) {
	// Last occurrence wins even when it invalidates an earlier good value.
	var width int
	err := scanAttrs(attrList("width", "7", "width", "wide"), "test element", []attrField{
		{name: "width", required: true, parse: intAttr(&width)},
	})
	var me *MalformedAttributesError
	if !errors.As(err, &me) {
		t.Fatalf("got %v, want MalformedAttributesError", err)
	}
}

func TestBoolIntAttr(t *testing.T) {
	v := true
	if !boolIntAttr(&v)("0") || v {
		t.Error("0 should parse to false")
	}
	if !boolIntAttr(&v)("1") || !v {
		t.Error("1 should parse to true")
	}
	if boolIntAttr(&v)("yes") {
		t.Error("non-numeric flag should fail to parse")
	}
}

func TestParseTruncatedDocument(t *testing.T) {
	// The XML decoder reports the truncation; the parser wraps it verbatim.
	doc := `<map version="1.0" orientation="orthogonal" width="2" height="2" tilewidth="8" tileheight="8"><layer name="x">`
	_, err := Parse(strings.NewReader(doc))
	var xe *XMLDecodingError
	if !errors.As(err, &xe) {
		t.Fatalf("got %v, want XMLDecodingError", err)
	}
	var se *xml.SyntaxError
	if !errors.As(err, &se) {
		t.Errorf("wrapped error %v is not the decoder's syntax error", xe.Err)
	}
}

func TestParseMalformedMarkup(t *testing.T) {
	doc := `<map version="1.0" orientation="orthogonal" width="2" height="2" tilewidth="8" tileheight="8"><layer</map>`
	_, err := Parse(strings.NewReader(doc))
	var xe *XMLDecodingError
	if !errors.As(err, &xe) {
		t.Fatalf("got %v, want XMLDecodingError", err)
	}
}

func TestReadTextCDATA(t *testing.T) {
	doc := `<map version="1.0" orientation="orthogonal" width="2" height="1" tilewidth="8" tileheight="8">
 <layer name="l"><data encoding="csv"><![CDATA[1,2]]></data></layer>
</map>`
	rows := layerRows(t, doc)
	checkSequence(t, rows, [][]uint32{{1, 2}})
}
