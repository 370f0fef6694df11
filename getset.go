package filelist

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/cheminfo/filelist/internal/pathutil"
)

// Uint8Array is a byte slice encoded in JSON as an array of numbers
// instead of base64. Set converts plain []byte values on its own; use this
// type for byte fields of structs stored with Set.
type Uint8Array []byte

// MarshalJSON encodes the bytes as a JSON number array.
func (a Uint8Array) MarshalJSON() ([]byte, error) {
	if a == nil {
		return []byte("null"), nil
	}
	out := make([]byte, 0, 2+4*len(a))
	out = append(out, '[')
	for i, b := range a {
		if i > 0 {
			out = append(out, ',')
		}
		out = strconv.AppendUint(out, uint64(b), 10)
	}
	return append(out, ']'), nil
}

// UnmarshalJSON decodes a JSON number array.
func (a *Uint8Array) UnmarshalJSON(data []byte) error {
	var nums []uint8
	if err := json.Unmarshal(data, &nums); err != nil {
		return err
	}
	*a = nums
	return nil
}

// Set stores value as JSON at key, replacing any file already there.
// Numeric slices are stored as JSON number arrays, []byte included.
func (c *Collection) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(numberArrays(value))
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	if _, err := c.RemoveFile(key); err != nil {
		return err
	}
	return c.AppendText(ctx, key, string(data))
}

// Get decodes the JSON file at key into dst.
func (c *Collection) Get(ctx context.Context, key string, dst any) error {
	rel, _ := pathutil.NameInfo(key)
	f, ok := c.File(rel)
	if !ok {
		return fmt.Errorf("%w: %s", ErrKeyNotFound, key)
	}
	data, err := f.Bytes(ctx)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", key, err)
	}
	return nil
}

// numberArrays replaces byte slices found in generic JSON-like values with
// Uint8Array.
func numberArrays(v any) any {
	switch v := v.(type) {
	case []byte:
		return Uint8Array(v)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, e := range v {
			out[k] = numberArrays(e)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, e := range v {
			out[i] = numberArrays(e)
		}
		return out
	default:
		return v
	}
}
