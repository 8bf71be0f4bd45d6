package blocktree

import (
	"bytes"
	"database/sql/driver"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

type blockJSON struct {
	Type BlockType       `json:"type"`
	Data json.RawMessage `json:"data"`
}

// MarshalJSON writes the {"type": ..., "data": ...} wire shape
func (b Block) MarshalJSON() ([]byte, error) {
	if b.Data == nil {
		return nil, fmt.Errorf("%w: block has no data", ErrInvalidBlock)
	}
	data, err := json.Marshal(b.Data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(blockJSON{Type: b.Type(), Data: data})
}

// UnmarshalJSON decodes the wire shape into the variant named by "type"
func (b *Block) UnmarshalJSON(raw []byte) error {
	var in blockJSON
	if err := json.Unmarshal(raw, &in); err != nil {
		return fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	data, ok := newData(in.Type)
	if !ok {
		return fmt.Errorf("%w: unknown block type %q", ErrCorrupt, in.Type)
	}
	if len(in.Data) > 0 && !bytes.Equal(bytes.TrimSpace(in.Data), []byte("null")) {
		if err := json.Unmarshal(in.Data, data); err != nil {
			return fmt.Errorf("%w: block data for %s: %v", ErrCorrupt, in.Type, err)
		}
	}
	b.Data = normalize(data)
	return nil
}

// normalize replaces null children lists with empty ones
func normalize(data BlockData) BlockData {
	holder, ok := data.(ChildrenHolder)
	if !ok {
		return data
	}
	lists := holder.ChildLists()
	for i := range lists {
		if lists[i] == nil {
			lists[i] = []string{}
		}
	}
	return holder.WithChildLists(lists)
}

// CheckShape inspects raw JSON without decoding it: the document must be an
// object whose values are objects carrying a known string "type".
func CheckShape(raw []byte) error {
	if !gjson.ValidBytes(raw) {
		return fmt.Errorf("%w: malformed JSON", ErrCorrupt)
	}
	doc := gjson.ParseBytes(raw)
	if !doc.IsObject() {
		return fmt.Errorf("%w: document must be an object of blocks", ErrCorrupt)
	}

	var shapeErr error
	doc.ForEach(func(key, value gjson.Result) bool {
		if !value.IsObject() {
			shapeErr = fmt.Errorf("%w: entry %q is not an object", ErrCorrupt, key.String())
			return false
		}
		t := value.Get("type")
		if t.Type != gjson.String {
			shapeErr = fmt.Errorf("%w: entry %q has no type", ErrCorrupt, key.String())
			return false
		}
		if !IsKnownType(BlockType(t.String())) {
			shapeErr = fmt.Errorf("%w: entry %q has unknown type %q", ErrCorrupt, key.String(), t.String())
			return false
		}
		return true
	})
	return shapeErr
}

// Decode parses and validates a serialized document
func Decode(raw []byte) (Tree, error) {
	if err := CheckShape(raw); err != nil {
		return nil, err
	}
	var t Tree
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, err
	}
	if err := Validate(t); err != nil {
		return nil, err
	}
	return t, nil
}

// Value implements driver.Valuer so a Tree can be written to a JSONB column
func (t Tree) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner. The decoded tree is not validated here; callers
// decide whether a stored document must satisfy the invariants.
func (t *Tree) Scan(value interface{}) error {
	if value == nil {
		*t = Tree{}
		return nil
	}

	var raw []byte
	switch v := value.(type) {
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("type assertion to []byte failed")
	}

	decoded := Tree{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}
	*t = decoded
	return nil
}
