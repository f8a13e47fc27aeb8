package tiled

import (
	"encoding/xml"
	"fmt"
	"strconv"
)

// PropertyValue is a typed custom-property value. The concrete types are
// BoolValue, FloatValue, IntValue, ColorValue, StringValue and FileValue.
type PropertyValue interface {
	propertyValue()
}

// BoolValue holds a "bool" property.
type BoolValue bool

// FloatValue holds a "float" property.
type FloatValue float64

// IntValue holds an "int" property.
type IntValue int

// ColorValue holds a "color" property as a packed 32-bit value, parsed as
// hex from everything after the value's first character.
type ColorValue uint32

// StringValue holds a "string" property.
type StringValue string

// FileValue holds a "file" property, the path kept as written.
type FileValue string

func (BoolValue) propertyValue()   {}
func (FloatValue) propertyValue()  {}
func (IntValue) propertyValue()    {}
func (ColorValue) propertyValue()  {}
func (StringValue) propertyValue() {}
func (FileValue) propertyValue()   {}

// Properties maps property names to typed values. A duplicated name inside
// one block keeps its last value.
type Properties map[string]PropertyValue

// GetString returns the string or file property registered under name.
func (p Properties) GetString(name string) (string, bool) {
	switch v := p[name].(type) {
	case StringValue:
		return string(v), true
	case FileValue:
		return string(v), true
	}
	return "", false
}

// GetInt returns the int property registered under name.
func (p Properties) GetInt(name string) (int, bool) {
	if v, ok := p[name].(IntValue); ok {
		return int(v), true
	}
	return 0, false
}

// GetFloat returns the float property registered under name.
func (p Properties) GetFloat(name string) (float64, bool) {
	if v, ok := p[name].(FloatValue); ok {
		return float64(v), true
	}
	return 0, false
}

// GetBool returns the bool property registered under name.
func (p Properties) GetBool(name string) (bool, bool) {
	if v, ok := p[name].(BoolValue); ok {
		return bool(v), true
	}
	return false, false
}

// parsePropertyValue converts a declared type name and a raw string into a
// typed value. An absent type means string. The format's booleans are the
// literals true and false only, 0/1 are rejected.
func parsePropertyValue(typ, value string) (PropertyValue, error) {
	switch typ {
	case "bool":
		switch value {
		case "true":
			return BoolValue(true), nil
		case "false":
			return BoolValue(false), nil
		}
		return nil, fmt.Errorf("invalid bool property %q", value)
	case "float":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return nil, err
		}
		return FloatValue(f), nil
	case "int":
		n, err := strconv.Atoi(value)
		if err != nil {
			return nil, err
		}
		return IntValue(n), nil
	case "color":
		if len(value) > 1 {
			v, err := strconv.ParseUint(value[1:], 16, 32)
			if err == nil {
				return ColorValue(v), nil
			}
		}
		return nil, fmt.Errorf("improperly formatted color property")
	case "string", "":
		return StringValue(value), nil
	case "file":
		return FileValue(value), nil
	}
	return nil, fmt.Errorf("unknown property type %q", typ)
}

// parseProperties reads a <properties> block into a bag.
func (p *parser) parseProperties() (Properties, error) {
	props := make(Properties)
	err := p.walk("properties", map[string]elementHandler{
		"property": func(e xml.StartElement) error {
			var typ, name, value string
			err := scanAttrs(e.Attr, "property must have a name and a value with correct types", []attrField{
				{name: "type", parse: stringAttr(&typ)},
				{name: "name", required: true, parse: stringAttr(&name)},
				{name: "value", required: true, parse: stringAttr(&value)},
			})
			if err != nil {
				return err
			}
			v, err := parsePropertyValue(typ, value)
			if err != nil {
				return err
			}
			props[name] = v
			return nil
		},
	})
	if err != nil {
		return nil, err
	}
	return props, nil
}
