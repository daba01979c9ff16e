package decoders

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/JonMunkholm/coerce/internal/core"
	"gopkg.in/yaml.v3"
)

func init() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:          "yaml",
			Label:        "YAML",
			ContentTypes: []string{"application/yaml", "application/x-yaml", "text/yaml"},
		},
		New: func(policy *core.Policy) core.Decoder {
			return NewYAMLDecoder(policy)
		},
	})
}

// YAMLDecoder decodes a YAML sequence of mappings, a single mapping, or a
// multi-document stream of mappings.
type YAMLDecoder struct {
	core.Base
}

// NewYAMLDecoder creates a YAML decoder bound to policy.
func NewYAMLDecoder(policy *core.Policy) *YAMLDecoder {
	return &YAMLDecoder{Base: core.NewBase(policy)}
}

// Parse decodes raw into records.
func (d *YAMLDecoder) Parse(raw string) ([]core.Record, error) {
	dec := yaml.NewDecoder(strings.NewReader(raw))

	var rows []map[string]any
	for doc := 1; ; doc++ {
		var node yaml.Node
		err := dec.Decode(&node)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: yaml document %d: %v", core.ErrInvalidDocument, doc, err)
		}

		content := &node
		if node.Kind == yaml.DocumentNode {
			if len(node.Content) == 0 {
				continue
			}
			content = node.Content[0]
		}

		switch content.Kind {
		case yaml.SequenceNode:
			var seq []map[string]any
			if err := content.Decode(&seq); err != nil {
				return nil, fmt.Errorf("%w: yaml document %d: %v", core.ErrInvalidDocument, doc, err)
			}
			rows = append(rows, seq...)
		case yaml.MappingNode:
			var row map[string]any
			if err := content.Decode(&row); err != nil {
				return nil, fmt.Errorf("%w: yaml document %d: %v", core.ErrInvalidDocument, doc, err)
			}
			rows = append(rows, row)
		case 0:
			continue
		case yaml.ScalarNode:
			if content.Tag == "!!null" {
				continue
			}
			return nil, fmt.Errorf("%w: yaml document %d: expected mapping or sequence", core.ErrInvalidDocument, doc)
		default:
			return nil, fmt.Errorf("%w: yaml document %d: expected mapping or sequence", core.ErrInvalidDocument, doc)
		}
	}

	return coerceRows(d.FieldCoercer, rows), nil
}
