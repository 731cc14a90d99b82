package config

import (
	"fmt"
	"os"

	"github.com/raphaelgruber/thinkstep-go/internal/step"
	"gopkg.in/yaml.v3"
)

// categoryFile is the YAML layout of a custom category set:
//
//	name: triage
//	categories:
//	  - name: observe
//	    substantive: true
//	  - name: note
type categoryFile struct {
	Name       string          `yaml:"name"`
	Categories []step.Category `yaml:"categories" validate:"required,min=1"`
}

// LoadCategoryFile reads a custom category set from a YAML file.
func LoadCategoryFile(path string) (*step.CategorySet, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read category file: %w", err)
	}
	return ParseCategories(data)
}

// ParseCategories parses a YAML category set.
func ParseCategories(data []byte) (*step.CategorySet, error) {
	var f categoryFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse category file: %w", err)
	}
	if err := validate.Struct(f); err != nil {
		return nil, fmt.Errorf("invalid category file: %w", err)
	}
	return step.NewCategorySet(f.Name, f.Categories)
}
