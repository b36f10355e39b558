// Package formschema describes the custom questions asked per product type on the request
// form. A schema is plain data: validation and the order description are derived from it by
// generic code, so new product types need no new branches.
package formschema

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"
)

type FieldKind string

const (
	KindText     FieldKind = "text"
	KindSelect   FieldKind = "select"
	KindNumber   FieldKind = "number"
	KindCheckbox FieldKind = "checkbox"
)

type Field struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Options  []string  `json:"options,omitempty"`
	Required bool      `json:"required"`
}

type Schema struct {
	ProductType string  `json:"product_type"`
	Fields      []Field `json:"fields"`
}

var (
	ErrUnknownProductType = errors.New("unknown product type")
	ErrInvalidSchema      = errors.New("invalid form schema")
)

// FieldError reports the first answer that does not satisfy its field.
type FieldError struct {
	Key    string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("field %q: %s", e.Key, e.Reason)
}

// Check verifies the schema itself: unique non-empty keys, known kinds, options for selects.
func (s Schema) Check() error {
	seen := make(map[string]bool, len(s.Fields))
	for _, f := range s.Fields {
		if f.Key == "" || seen[f.Key] {
			return fmt.Errorf("%w: duplicate or empty key %q", ErrInvalidSchema, f.Key)
		}
		seen[f.Key] = true
		switch f.Kind {
		case KindText, KindNumber, KindCheckbox:
		case KindSelect:
			if len(f.Options) == 0 {
				return fmt.Errorf("%w: select %q has no options", ErrInvalidSchema, f.Key)
			}
		default:
			return fmt.Errorf("%w: unknown kind %q", ErrInvalidSchema, f.Kind)
		}
	}
	return nil
}

// Validate checks answers against the schema. Answers for keys the schema does not define are
// ignored.
func Validate(s Schema, answers map[string]string) error {
	for _, f := range s.Fields {
		v := strings.TrimSpace(answers[f.Key])
		if v == "" {
			if f.Required {
				return &FieldError{Key: f.Key, Reason: "required"}
			}
			continue
		}
		switch f.Kind {
		case KindSelect:
			if !contains(f.Options, v) {
				return &FieldError{Key: f.Key, Reason: "not one of the options"}
			}
		case KindNumber:
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				return &FieldError{Key: f.Key, Reason: "not a whole number"}
			}
		case KindCheckbox:
			if _, err := strconv.ParseBool(v); err != nil {
				return &FieldError{Key: f.Key, Reason: "not a boolean"}
			}
		}
	}
	return nil
}

// Describe renders answered fields as "Label: value" lines in schema order. Unchecked
// checkboxes and empty answers are left out.
func Describe(s Schema, answers map[string]string) string {
	lines := make([]string, 0, len(s.Fields))
	for _, f := range s.Fields {
		v := strings.TrimSpace(answers[f.Key])
		if v == "" {
			continue
		}
		if f.Kind == KindCheckbox {
			checked, err := strconv.ParseBool(v)
			if err != nil || !checked {
				continue
			}
			v = "yes"
		}
		lines = append(lines, f.Label+": "+v)
	}
	return strings.Join(lines, "\n")
}

func contains(options []string, v string) bool {
	for _, o := range options {
		if o == v {
			return true
		}
	}
	return false
}

// Registry holds the schemas known to the storefront, keyed by product type.
type Registry struct {
	mu      sync.RWMutex
	schemas map[string]Schema
}

// NewRegistry returns a registry preloaded with the built-in schemas.
func NewRegistry() *Registry {
	r := &Registry{schemas: make(map[string]Schema)}
	for _, s := range builtin {
		r.schemas[s.ProductType] = s
	}
	return r
}

func (r *Registry) Get(productType string) (Schema, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.schemas[strings.ToLower(productType)]
	if !ok {
		return Schema{}, ErrUnknownProductType
	}
	return s, nil
}

func (r *Registry) Register(s Schema) error {
	if err := s.Check(); err != nil {
		return err
	}
	s.ProductType = strings.ToLower(s.ProductType)
	r.mu.Lock()
	r.schemas[s.ProductType] = s
	r.mu.Unlock()
	return nil
}

func (r *Registry) List() []Schema {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Schema, 0, len(r.schemas))
	for _, s := range r.schemas {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductType < out[j].ProductType })
	return out
}
