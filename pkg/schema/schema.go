// SPDX-License-Identifier: Apache-2.0

// Package schema holds the closed definition of the fields, operators and
// value vocabularies that audience filters can target. The registry is built
// once at startup from static definitions and is immutable afterwards, so it
// can be shared across requests without synchronisation.
package schema

import (
	"errors"
	"fmt"
	"time"
)

type ValueType string

const (
	TypeString  ValueType = "string"
	TypeNumber  ValueType = "number"
	TypeInteger ValueType = "integer"
	TypeBoolean ValueType = "boolean"
	TypeDate    ValueType = "date"
	TypeEnum    ValueType = "enum"
)

type Operator string

const (
	OpEqual        Operator = "="
	OpNotEqual     Operator = "!="
	OpLess         Operator = "<"
	OpGreater      Operator = ">"
	OpLessEqual    Operator = "<="
	OpGreaterEqual Operator = ">="
	OpBetween      Operator = "between"
)

var (
	ErrDuplicateField   = errors.New("duplicate field or alias")
	ErrUnknownValueType = errors.New("unknown field value type")
)

// equalityOperators is what string-like and boolean fields support unless the
// field definition declares more. Ordered and range operators only make sense
// for types with a total order.
var (
	equalityOperators = []Operator{OpEqual, OpNotEqual}
	orderedOperators  = []Operator{OpEqual, OpNotEqual, OpLess, OpGreater, OpLessEqual, OpGreaterEqual, OpBetween}
)

// FieldDefinition describes a single targetable field. Instances are built by
// the registry and must be treated as read only.
type FieldDefinition struct {
	Name     string
	Type     ValueType
	Aliases  []string
	Extra    []Operator
	aliasOps map[Operator]struct{}
	// values maps the folded form of every canonical value and alias to the
	// canonical spelling. Nil for non categorical fields.
	values map[string]string
}

// Operators returns the canonical operator set permitted for the field.
func (f *FieldDefinition) Operators() []Operator {
	var base []Operator
	switch f.Type {
	case TypeNumber, TypeInteger, TypeDate:
		base = orderedOperators
	default:
		base = equalityOperators
	}
	if len(f.Extra) == 0 {
		return base
	}
	ops := make([]Operator, 0, len(base)+len(f.Extra))
	ops = append(ops, base...)
	ops = append(ops, f.Extra...)
	return ops
}

// AllowsOperator reports whether the operator is permitted for the field's
// type, taking field level extensions into account.
func (f *FieldDefinition) AllowsOperator(op Operator) bool {
	if _, ok := f.aliasOps[op]; ok {
		return true
	}
	switch f.Type {
	case TypeNumber, TypeInteger, TypeDate:
		return true
	default:
		return op == OpEqual || op == OpNotEqual
	}
}

// CanonicalValue resolves a raw categorical value to its canonical spelling,
// comparing case and diacritic insensitively across both languages. The
// second return is false when the value is not part of the field vocabulary.
func (f *FieldDefinition) CanonicalValue(raw string) (string, bool) {
	if f.values == nil {
		return "", false
	}
	canonical, found := f.values[Fold(raw)]
	return canonical, found
}

// Registry is the process wide schema lookup table.
type Registry struct {
	fields     map[string]*FieldDefinition
	fieldNames []string
	operators  map[string]Operator
	booleans   map[string]bool
	months     map[string]time.Month
}

// New builds a registry from the definitions on input. It fails on duplicate
// field names or aliases so a misconfigured schema file cannot silently
// shadow a field.
func New(cfg *Config) (*Registry, error) {
	r := &Registry{
		fields:    map[string]*FieldDefinition{},
		operators: map[string]Operator{},
		booleans:  map[string]bool{},
		months:    map[string]time.Month{},
	}

	for _, fieldCfg := range cfg.Fields {
		field, err := newFieldDefinition(&fieldCfg)
		if err != nil {
			return nil, err
		}
		if err := r.registerField(field); err != nil {
			return nil, err
		}
	}

	for op, synonyms := range defaultOperatorSynonyms {
		r.registerOperator(op, synonyms...)
	}
	for op, synonyms := range cfg.OperatorSynonyms {
		r.registerOperator(Operator(op), synonyms...)
	}

	for phrase, val := range defaultBooleanPhrases {
		r.booleans[Fold(phrase)] = val
	}
	for name, month := range defaultMonthNames {
		r.months[Fold(name)] = month
	}

	return r, nil
}

func newFieldDefinition(cfg *FieldConfig) (*FieldDefinition, error) {
	switch ValueType(cfg.Type) {
	case TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeDate, TypeEnum:
	default:
		return nil, fmt.Errorf("field %q: type %q: %w", cfg.Name, cfg.Type, ErrUnknownValueType)
	}

	field := &FieldDefinition{
		Name:    cfg.Name,
		Type:    ValueType(cfg.Type),
		Aliases: cfg.Aliases,
	}

	for _, op := range cfg.ExtraOperators {
		field.Extra = append(field.Extra, Operator(op))
	}
	if len(field.Extra) > 0 {
		field.aliasOps = make(map[Operator]struct{}, len(field.Extra))
		for _, op := range field.Extra {
			field.aliasOps[op] = struct{}{}
		}
	}

	if len(cfg.Values) > 0 {
		field.values = make(map[string]string)
		for canonical, aliases := range cfg.Values {
			field.values[Fold(canonical)] = canonical
			for _, alias := range aliases {
				field.values[Fold(alias)] = canonical
			}
		}
	}

	return field, nil
}

func (r *Registry) registerField(field *FieldDefinition) error {
	keys := append([]string{field.Name}, field.Aliases...)
	for _, key := range keys {
		folded := Fold(key)
		if existing, found := r.fields[folded]; found && existing.Name != field.Name {
			return fmt.Errorf("%q already registered for field %q: %w", key, existing.Name, ErrDuplicateField)
		}
		r.fields[folded] = field
	}
	r.fieldNames = append(r.fieldNames, field.Name)
	return nil
}

func (r *Registry) registerOperator(op Operator, synonyms ...string) {
	r.operators[Fold(string(op))] = op
	for _, synonym := range synonyms {
		r.operators[Fold(synonym)] = op
	}
}

// ResolveField performs a case and diacritic insensitive, alias aware field
// lookup. Canonical names and every registered alias in both languages
// resolve to the same definition.
func (r *Registry) ResolveField(raw string) (*FieldDefinition, bool) {
	field, found := r.fields[Fold(raw)]
	return field, found
}

// ResolveOperator resolves symbolic forms and natural language phrases in
// both languages to a canonical operator.
func (r *Registry) ResolveOperator(raw string) (Operator, bool) {
	op, found := r.operators[Fold(raw)]
	return op, found
}

// ResolveBoolean maps a truthy/falsy phrase to its boolean value.
func (r *Registry) ResolveBoolean(raw string) (value, found bool) {
	value, found = r.booleans[Fold(raw)]
	return value, found
}

// ResolveMonth maps an English or Arabic month name to its calendar month.
func (r *Registry) ResolveMonth(raw string) (time.Month, bool) {
	month, found := r.months[Fold(raw)]
	return month, found
}

// FieldNames returns the canonical field names in registration order.
func (r *Registry) FieldNames() []string {
	names := make([]string, len(r.fieldNames))
	copy(names, r.fieldNames)
	return names
}

// Operators returns the closed canonical operator set.
func (r *Registry) Operators() []Operator {
	return []Operator{OpEqual, OpNotEqual, OpLess, OpGreater, OpLessEqual, OpGreaterEqual, OpBetween}
}
