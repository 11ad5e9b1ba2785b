package models

import (
	"bytes"
	"fmt"

	gojson "github.com/goccy/go-json"
)

// PropertyMap is an insertion-ordered map of schema properties. JSON
// object key order is kept through decode so the translator can honor
// the schema's declared field order.
type PropertyMap struct {
	names []string
	props map[string]SchemaProperty
}

// NewPropertyMap builds a PropertyMap from name/property pairs in order.
func NewPropertyMap(pairs ...PropertyPair) PropertyMap {
	var m PropertyMap
	for _, p := range pairs {
		m.Set(p.Name, p.Property)
	}
	return m
}

// PropertyPair is one named property for NewPropertyMap.
type PropertyPair struct {
	Name     string
	Property SchemaProperty
}

// Set adds or replaces a property. New names append to the order.
func (m *PropertyMap) Set(name string, prop SchemaProperty) {
	if m.props == nil {
		m.props = make(map[string]SchemaProperty)
	}
	if _, ok := m.props[name]; !ok {
		m.names = append(m.names, name)
	}
	m.props[name] = prop
}

// Get returns the property for name.
func (m PropertyMap) Get(name string) (SchemaProperty, bool) {
	prop, ok := m.props[name]
	return prop, ok
}

// Names returns property names in declaration order.
func (m PropertyMap) Names() []string {
	return m.names
}

// Len returns the number of properties.
func (m PropertyMap) Len() int {
	return len(m.names)
}

// UnmarshalJSON decodes a JSON object preserving key order.
func (m *PropertyMap) UnmarshalJSON(data []byte) error {
	m.names = nil
	m.props = make(map[string]SchemaProperty)

	dec := gojson.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(gojson.Delim); !ok || delim != '{' {
		return fmt.Errorf("schema properties must be a JSON object")
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("unexpected token %v in schema properties", tok)
		}

		var prop SchemaProperty
		if err := dec.Decode(&prop); err != nil {
			return fmt.Errorf("decoding schema property %q: %w", name, err)
		}
		m.Set(name, prop)
	}

	// Consume the closing brace
	if _, err := dec.Token(); err != nil {
		return err
	}
	return nil
}

// MarshalJSON encodes the object in declaration order.
func (m PropertyMap) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := gojson.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := gojson.Marshal(m.props[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
