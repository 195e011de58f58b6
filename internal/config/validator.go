package config

import (
	"fmt"
	"strings"
)

// validator collects every configuration problem before failing, so one run
// reports all missing keys instead of the first.
type validator struct {
	name     string
	problems []string
}

func newValidator(name string) *validator {
	return &validator{name: name}
}

func (v *validator) missing(key string) {
	v.problems = append(v.problems, fmt.Sprintf("%s.%s: required key is missing", v.name, key))
}

func (v *validator) requiredSection(key string, absent bool) {
	if absent {
		v.problems = append(v.problems, fmt.Sprintf("%s.%s: required section is missing", v.name, key))
	}
}

func (v *validator) requiredFloat(key string, value *float64) {
	if value == nil {
		v.missing(key)
	}
}

func (v *validator) err() error {
	if len(v.problems) == 0 {
		return nil
	}
	return fmt.Errorf("invalid configuration: %s", strings.Join(v.problems, "; "))
}
