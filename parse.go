package tiled

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strconv"
	"strings"
)

// parser carries the shared traversal state for one document: the XML token
// cursor, the document's own location (empty when parsing from a bare
// reader), and the filesystem used to resolve external tileset references.
// Exactly one builder reads from it at a time; nesting happens through the
// call stack.
type parser struct {
	dec  *xml.Decoder
	path string
	fsys fs.FS
}

// elementHandler consumes one child element, starting from its opening tag.
type elementHandler func(start xml.StartElement) error

// walk pulls tokens until the enclosing element named end closes. Child
// elements with a registered handler are dispatched; everything else is
// skipped. Unrecognized subtrees need no explicit skipping, their descendant
// tokens surface on later pulls and match no handler.
func (p *parser) walk(end string, handlers map[string]elementHandler) error {
	for {
		tok, err := p.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return &PrematureEndError{Context: fmt.Sprintf("document ended inside <%s>", end)}
			}
			return &XMLDecodingError{Err: err}
		}
		switch t := tok.(type) {
		case xml.StartElement:
			if h, ok := handlers[t.Name.Local]; ok {
				if err := h(t); err != nil {
					return err
				}
			}
		case xml.EndElement:
			if t.Name.Local == end {
				return nil
			}
		}
	}
}

// readText accumulates the character content of the currently open element
// named end, consuming through its closing tag.
func (p *parser) readText(end string) (string, error) {
	var sb strings.Builder
	for {
		tok, err := p.dec.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", &PrematureEndError{Context: fmt.Sprintf("document ended inside <%s>", end)}
			}
			return "", &XMLDecodingError{Err: err}
		}
		switch t := tok.(type) {
		case xml.CharData:
			sb.Write(t)
		case xml.EndElement:
			if t.Name.Local == end {
				return sb.String(), nil
			}
		}
	}
}

// attrField declares one attribute of interest: its name, whether it is
// required, and a conversion that writes the parsed value through to its
// destination.
type attrField struct {
	name     string
	required bool
	parse    func(value string) bool
	ok       bool
}

// scanAttrs applies the declared conversions in a single pass over an
// element's attribute list. The last occurrence of a duplicated name wins.
// If any required field is missing or fails its conversion, the whole scan
// fails with reason. Optional fields that are absent or malformed leave the
// caller's default in place.
func scanAttrs(attrs []xml.Attr, reason string, fields []attrField) error {
	for _, a := range attrs {
		for i := range fields {
			if fields[i].name == a.Name.Local {
				fields[i].ok = fields[i].parse(a.Value)
			}
		}
	}
	for i := range fields {
		if fields[i].required && !fields[i].ok {
			return &MalformedAttributesError{Reason: reason}
		}
	}
	return nil
}

func stringAttr(dst *string) func(string) bool {
	return func(v string) bool {
		*dst = v
		return true
	}
}

func intAttr(dst *int) func(string) bool {
	return func(v string) bool {
		n, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		*dst = n
		return true
	}
}

func uint32Attr(dst *uint32) func(string) bool {
	return func(v string) bool {
		n, err := strconv.ParseUint(v, 10, 32)
		if err != nil {
			return false
		}
		*dst = uint32(n)
		return true
	}
}

func floatAttr(dst *float64) func(string) bool {
	return func(v string) bool {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return false
		}
		*dst = f
		return true
	}
}

// boolIntAttr reads the 0/1 integer flags the format uses for visibility.
func boolIntAttr(dst *bool) func(string) bool {
	return func(v string) bool {
		n, err := strconv.Atoi(v)
		if err != nil {
			return false
		}
		*dst = n == 1
		return true
	}
}

func colorAttr(dst **Color) func(string) bool {
	return func(v string) bool {
		c, err := ParseColor(v)
		if err != nil {
			return false
		}
		*dst = &c
		return true
	}
}
