package yamlconf

import (
	"fmt"

	"github.com/specialistvlad/fpgasweep/internal/options"
	"gopkg.in/yaml.v3"
)

// optionMap decodes a YAML mapping into an option set, keeping the order in
// which the keys are written.
type optionMap options.Set

// UnmarshalYAML implements yaml.Unmarshaler.
func (m *optionMap) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode && value.Tag == "!!null" {
		*m = optionMap{}
		return nil
	}
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("line %d: expected an option map", value.Line)
	}

	var set options.Set
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]

		key, err := options.ParseKey(keyNode.Value)
		if err != nil {
			return fmt.Errorf("line %d: %w", keyNode.Line, err)
		}
		if valNode.Kind != yaml.ScalarNode || valNode.Tag == "!!null" {
			return fmt.Errorf("line %d: option %s needs a scalar value", valNode.Line, key)
		}

		var v options.Value
		switch key.Type() {
		case options.TypeInt:
			// Decode truncates floats into integers.
			if valNode.ShortTag() != "!!int" {
				return fmt.Errorf("line %d: %w: %s expects an integer", valNode.Line, options.ErrValueType, key)
			}
			var i int64
			if err := valNode.Decode(&i); err != nil {
				return fmt.Errorf("line %d: %w: %s expects an integer", valNode.Line, options.ErrValueType, key)
			}
			v = options.Int(i)
		default:
			v = options.String(valNode.Value)
		}
		if err := set.Put(key, v); err != nil {
			return fmt.Errorf("line %d: %w", valNode.Line, err)
		}
	}
	*m = optionMap(set)
	return nil
}
