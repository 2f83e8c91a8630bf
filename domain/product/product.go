// Package product provides the product record: the declarative mapping from a
// product code to an upstream API call and its parameter templates.
package product

import (
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Param is one entry of a parameter template: the outbound parameter name and
// the source expression that resolves its value at build time.
type Param struct {
	Name   string
	Source string
}

// ParamTemplate is an ordered parameter template. YAML mapping order is
// preserved so the outbound parameter order is stable.
type ParamTemplate []Param

// UnmarshalYAML decodes a YAML mapping into an ordered template. Scalar values
// may be strings or numbers; numbers are carried as their decimal form.
func (t *ParamTemplate) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("parameter template must be a mapping")
	}
	out := make(ParamTemplate, 0, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		var name string
		if err := value.Content[i].Decode(&name); err != nil {
			return fmt.Errorf("template key: %w", err)
		}
		var source string
		if err := value.Content[i+1].Decode(&source); err != nil {
			// Numbers decode into string via yaml, but booleans do not.
			var b bool
			if berr := value.Content[i+1].Decode(&b); berr != nil {
				return fmt.Errorf("template value for %q: %w", name, err)
			}
			source = strconv.FormatBool(b)
		}
		out = append(out, Param{Name: name, Source: source})
	}
	*t = out
	return nil
}

// Product is a validated, immutable-once-loaded record (value type).
type Product struct {
	ProductID      string        `yaml:"productid"`
	Name           string        `yaml:"name"`
	Provider       string        `yaml:"provider"`
	Type           string        `yaml:"type"`
	IsActive       bool          `yaml:"is_active"`
	APIPath        string        `yaml:"api_path"`
	Method         string        `yaml:"method"`
	AsJSON         int           `yaml:"json"`
	RequiredParams ParamTemplate `yaml:"required_params"`
	OptionalParams ParamTemplate `yaml:"optional_params"`
	ListModules    []string      `yaml:"list_modules"`
}

// Key returns the unique identifier used by the record store.
func (p Product) Key() string { return p.ProductID }

// Active reports whether the product may be transacted.
func (p Product) Active() bool { return p.IsActive }

// Validate checks the record against the product schema.
func (p Product) Validate() error {
	if p.ProductID == "" {
		return fmt.Errorf("productid is required")
	}
	if p.Name == "" {
		return fmt.Errorf("name is required")
	}
	if p.Provider == "" {
		return fmt.Errorf("provider is required")
	}
	if p.APIPath == "" {
		return fmt.Errorf("api_path is required")
	}
	if p.Method == "" {
		return fmt.Errorf("method is required")
	}
	for i, mid := range p.ListModules {
		if mid == "" {
			return fmt.Errorf("list_modules[%d] is empty", i)
		}
	}
	return nil
}

// AllowsModule reports whether the module is in the product's permitted list.
func (p Product) AllowsModule(moduleID string) bool {
	for _, id := range p.ListModules {
		if id == moduleID {
			return true
		}
	}
	return false
}
