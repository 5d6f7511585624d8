// Package rules holds operator-maintained notification exclusions: vendors
// and categories that should never produce alerts (payroll runs, internal
// transfers, card processors that show up on every purchase).
package rules

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Rules lists vendor and category exclusions. Matching is case-insensitive
// on the full name.
type Rules struct {
	ExcludeVendors    []string `yaml:"exclude_vendors"`
	ExcludeCategories []string `yaml:"exclude_categories"`

	vendors    map[string]struct{}
	categories map[string]struct{}
}

// Load reads an exclusion rules YAML file. A missing file is not an error:
// it yields empty rules.
func Load(path string) (*Rules, error) {
	if path == "" {
		return New(nil, nil), nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return New(nil, nil), nil
	}
	if err != nil {
		return nil, fmt.Errorf("read rules file %s: %w", path, err)
	}

	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse rules file %s: %w", path, err)
	}
	return New(r.ExcludeVendors, r.ExcludeCategories), nil
}

// New builds rules from explicit exclusion lists.
func New(vendors, categories []string) *Rules {
	r := &Rules{
		ExcludeVendors:    vendors,
		ExcludeCategories: categories,
		vendors:           make(map[string]struct{}, len(vendors)),
		categories:        make(map[string]struct{}, len(categories)),
	}
	for _, v := range vendors {
		r.vendors[normalize(v)] = struct{}{}
	}
	for _, c := range categories {
		r.categories[normalize(c)] = struct{}{}
	}
	return r
}

// ExcludesVendor reports whether alerts for the vendor are suppressed.
func (r *Rules) ExcludesVendor(vendor string) bool {
	_, ok := r.vendors[normalize(vendor)]
	return ok
}

// ExcludesCategory reports whether alerts for the category are suppressed.
func (r *Rules) ExcludesCategory(category string) bool {
	if category == "" {
		return false
	}
	_, ok := r.categories[normalize(category)]
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
