package schema

import (
	"sort"

	"github.com/ajitpratap0/recordsync/pkg/connector/core"
	"github.com/ajitpratap0/recordsync/pkg/errors"
	"github.com/ajitpratap0/recordsync/pkg/models"
)

// NumberPrecision is the fixed decimal precision for tabular number
// fields.
const NumberPrecision = 8

// Translate maps a record schema's properties to provider field
// definitions in final field order: properties carrying an explicit
// metadata order sort first (ascending); the rest follow in declared
// order.
//
// A non-primitive schema type is a defect in the CMS schema and fails
// the whole translation; silently dropping the field would leave the
// remote table missing a column with no diagnosis.
func Translate(schema *models.RecordSchema) ([]core.FieldDefinition, error) {
	if schema == nil {
		return nil, errors.New(errors.ErrorTypeValidation, "record schema is required")
	}

	type entry struct {
		name     string
		prop     models.SchemaProperty
		order    int
		hasOrder bool
	}

	names := schema.Properties.Names()
	entries := make([]entry, 0, len(names))
	for _, name := range names {
		prop, _ := schema.Properties.Get(name)
		e := entry{name: name, prop: prop}
		if prop.Metadata != nil && prop.Metadata.Order != nil {
			e.order = *prop.Metadata.Order
			e.hasOrder = true
		}
		entries = append(entries, e)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i], entries[j]
		switch {
		case a.hasOrder && b.hasOrder:
			return a.order < b.order
		case a.hasOrder:
			return true
		default:
			return false
		}
	})

	fields := make([]core.FieldDefinition, 0, len(entries))
	for _, e := range entries {
		def, err := translateProperty(e.name, e.prop)
		if err != nil {
			return nil, err
		}
		fields = append(fields, def)
	}
	return fields, nil
}

// translateProperty maps one schema property to its provider field type.
func translateProperty(name string, prop models.SchemaProperty) (core.FieldDefinition, error) {
	def := core.FieldDefinition{Name: name}

	switch prop.Type {
	case "boolean":
		def.Type = core.FieldTypeCheckbox

	case "number":
		def.Type = core.FieldTypeNumber
		def.Precision = NumberPrecision

	case "string":
		def.Type = stringFieldType(prop)
		if len(prop.Enum) > 0 {
			def.Choices = append(def.Choices, prop.Enum...)
		}

	default:
		return core.FieldDefinition{}, errors.Newf(errors.ErrorTypeValidation,
			"unsupported schema type %q for field %q", prop.Type, name)
	}

	return def, nil
}

func stringFieldType(prop models.SchemaProperty) core.FieldType {
	if len(prop.Enum) > 0 {
		if prop.Metadata != nil && prop.Metadata.Multiple {
			return core.FieldTypeMultipleSelect
		}
		return core.FieldTypeSingleSelect
	}

	switch prop.Format {
	case "email":
		return core.FieldTypeEmail
	case "uri":
		return core.FieldTypeURL
	case "date":
		return core.FieldTypeDate
	case "date-time":
		return core.FieldTypeDateTime
	}

	if prop.Metadata != nil && prop.Metadata.Multiline {
		return core.FieldTypeMultilineText
	}
	return core.FieldTypeSingleLineText
}
