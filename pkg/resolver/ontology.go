package resolver

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed ontology.yaml
var defaultOntologyYAML []byte

// Ontology seeds the canonical registry with known skills and companies and
// their common surface-form variations. The lists are expandable: unknown
// surface forms below the match threshold become new canonical entries at
// resolve time.
type Ontology struct {
	Skills            []string          `yaml:"skills"`
	SkillVariations   map[string]string `yaml:"skill_variations"`
	Companies         []string          `yaml:"companies"`
	CompanyVariations map[string]string `yaml:"company_variations"`
}

// DefaultOntology returns the ontology embedded in the binary.
func DefaultOntology() (*Ontology, error) {
	return parseOntology(defaultOntologyYAML)
}

// LoadOntology reads an ontology from a YAML file, for deployments that
// extend the default lists.
func LoadOntology(path string) (*Ontology, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ontology: %w", err)
	}
	return parseOntology(data)
}

func parseOntology(data []byte) (*Ontology, error) {
	var o Ontology
	if err := yaml.Unmarshal(data, &o); err != nil {
		return nil, fmt.Errorf("parse ontology: %w", err)
	}
	if o.SkillVariations == nil {
		o.SkillVariations = make(map[string]string)
	}
	if o.CompanyVariations == nil {
		o.CompanyVariations = make(map[string]string)
	}
	return &o, nil
}
