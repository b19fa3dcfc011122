package yaml

import (
	"fmt"

	"github.com/goccy/go-yaml"
)

// UnmarshalYAML parses YAML bytes into the provided object
func UnmarshalYAML(yamlBytes []byte, obj interface{}) error {
	if err := yaml.Unmarshal(yamlBytes, obj); err != nil {
		return fmt.Errorf("error parsing YAML: %w", err)
	}
	return nil
}

// MarshalYAML renders the provided object as YAML bytes
func MarshalYAML(obj interface{}) ([]byte, error) {
	yamlBytes, err := yaml.Marshal(obj)
	if err != nil {
		return nil, fmt.Errorf("error converting to YAML: %w", err)
	}
	return yamlBytes, nil
}
