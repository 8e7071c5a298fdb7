package gtirb

import (
	"fmt"
	"sort"
)

// AuxData is one named table attached to an IR or Module: a type
// expression and a serialized payload, with the decoded value cached after
// first access. Tables whose type expression is not parseable are carried
// verbatim and re-encoded byte-identically.
type AuxData struct {
	typeName string
	typ      *AuxType // nil when typeName did not parse
	raw      []byte
	decoded  any
	hasValue bool
}

// TypeName returns the table's type expression as stored.
func (a *AuxData) TypeName() string { return a.typeName }

// Raw returns the serialized payload as stored.
func (a *AuxData) Raw() []byte { return a.raw }

// auxRegistry maps schema names to their registered type expressions.
// Registration happens once at program start.
var auxRegistry = map[string]*AuxType{}

// RegisterAuxDataType associates a schema name with a type expression.
// Re-registering a name with a different type is an error.
func RegisterAuxDataType(name, typeExpr string) error {
	t, err := ParseAuxType(typeExpr)
	if err != nil {
		return fmt.Errorf("gtirb: register %q: %w", name, err)
	}
	if prev, ok := auxRegistry[name]; ok && !prev.Equal(t) {
		return fmt.Errorf("%w: schema %q already registered as %s", ErrUsage, name, prev)
	}
	auxRegistry[name] = t
	return nil
}

// RegisteredAuxDataType returns the type registered for a schema name.
func RegisteredAuxDataType(name string) (*AuxType, bool) {
	t, ok := auxRegistry[name]
	return t, ok
}

// AuxDataContainer holds the named tables of an IR or Module.
type AuxDataContainer struct {
	tables map[string]*AuxData
}

func (c *AuxDataContainer) init() {
	c.tables = make(map[string]*AuxData)
}

// SetAuxData encodes value under the schema registered for name and stores
// it, replacing any existing table.
func (c *AuxDataContainer) SetAuxData(name string, value any) error {
	t, ok := auxRegistry[name]
	if !ok {
		return fmt.Errorf("%w: no schema registered for %q", ErrUsage, name)
	}
	return c.setTyped(name, t, value)
}

// SetAuxDataTyped stores value under an explicit type expression, without
// requiring a registered schema.
func (c *AuxDataContainer) SetAuxDataTyped(name, typeExpr string, value any) error {
	t, err := ParseAuxType(typeExpr)
	if err != nil {
		return err
	}
	return c.setTyped(name, t, value)
}

func (c *AuxDataContainer) setTyped(name string, t *AuxType, value any) error {
	raw, err := EncodeAuxValue(t, value)
	if err != nil {
		return fmt.Errorf("gtirb: auxdata %q: %w", name, err)
	}
	c.tables[name] = &AuxData{
		typeName: t.String(),
		typ:      t,
		raw:      raw,
		decoded:  value,
		hasValue: true,
	}
	return nil
}

// AuxDataValue decodes and returns the table stored under name using its
// stored type expression. The decoded value is cached; treat it as
// read-only and write changes back with SetAuxData.
func (c *AuxDataContainer) AuxDataValue(name string) (any, error) {
	a, ok := c.tables[name]
	if !ok {
		return nil, nil
	}
	if a.hasValue {
		return a.decoded, nil
	}
	if a.typ == nil {
		var err error
		a.typ, err = ParseAuxType(a.typeName)
		if err != nil {
			return nil, fmt.Errorf("gtirb: auxdata %q: %w", name, err)
		}
	}
	v, err := DecodeAuxValue(a.typ, a.raw)
	if err != nil {
		return nil, fmt.Errorf("gtirb: auxdata %q: %w", name, err)
	}
	a.decoded = v
	a.hasValue = true
	return v, nil
}

// RawAuxData returns the stored type expression and payload without
// decoding.
func (c *AuxDataContainer) RawAuxData(name string) (typeName string, raw []byte, ok bool) {
	a, found := c.tables[name]
	if !found {
		return "", nil, false
	}
	return a.typeName, a.raw, true
}

// HasAuxData reports whether a table is stored under name.
func (c *AuxDataContainer) HasAuxData(name string) bool {
	_, ok := c.tables[name]
	return ok
}

// RemoveAuxData deletes the table stored under name.
func (c *AuxDataContainer) RemoveAuxData(name string) ChangeStatus {
	if _, ok := c.tables[name]; !ok {
		return NoChange
	}
	delete(c.tables, name)
	return Accepted
}

// AuxDataNames returns the stored table names in ascending order.
func (c *AuxDataContainer) AuxDataNames() []string {
	names := make([]string, 0, len(c.tables))
	for n := range c.tables {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// setRawAuxData installs a table verbatim. The deserializer and the
// upgrade pipeline use this for lossless pass-through of tables whose
// schema is unknown.
func (c *AuxDataContainer) setRawAuxData(name, typeName string, raw []byte) {
	t, _ := ParseAuxType(typeName)
	c.tables[name] = &AuxData{typeName: typeName, typ: t, raw: raw}
}
