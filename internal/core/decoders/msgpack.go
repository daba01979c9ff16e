package decoders

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"github.com/JonMunkholm/coerce/internal/core"
	"github.com/vmihailenco/msgpack/v5"
)

func init() {
	core.Register(core.FormatDefinition{
		Info: core.FormatInfo{
			Key:          "msgpack",
			Label:        "MessagePack",
			ContentTypes: []string{"application/msgpack", "application/x-msgpack"},
		},
		New: func(policy *core.Policy) core.Decoder {
			return NewMsgpackDecoder(policy)
		},
	})
}

// MsgpackDecoder decodes MessagePack input. The raw string holds the binary
// encoding: either an array of maps, or a stream of consecutive maps.
type MsgpackDecoder struct {
	core.Base
}

// NewMsgpackDecoder creates a MessagePack decoder bound to policy.
func NewMsgpackDecoder(policy *core.Policy) *MsgpackDecoder {
	return &MsgpackDecoder{Base: core.NewBase(policy)}
}

// Parse decodes raw into records.
func (d *MsgpackDecoder) Parse(raw string) ([]core.Record, error) {
	dec := msgpack.NewDecoder(bytes.NewReader([]byte(raw)))
	dec.UseLooseInterfaceDecoding(true)

	var rows []map[string]any
	for item := 1; ; item++ {
		value, err := dec.DecodeInterface()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: msgpack item %d: %v", core.ErrInvalidDocument, item, err)
		}

		switch v := value.(type) {
		case map[string]any:
			rows = append(rows, v)
		case []any:
			for i, elem := range v {
				row, ok := elem.(map[string]any)
				if !ok {
					return nil, fmt.Errorf("%w: msgpack item %d element %d: expected map, got %T",
						core.ErrInvalidDocument, item, i, elem)
				}
				rows = append(rows, row)
			}
		case nil:
			continue
		default:
			return nil, fmt.Errorf("%w: msgpack item %d: expected map or array, got %T",
				core.ErrInvalidDocument, item, value)
		}
	}

	return coerceRows(d.FieldCoercer, rows), nil
}
