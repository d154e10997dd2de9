package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/kailas-cloud/talentmatch/internal/domain/vector"
)

// VectorsPath is the JSON path of the triple inside a profile or job document.
const VectorsPath = "$.vectors"

// Vectors is the stored form of a triple. It is written as one subtree so the
// three vectors always change together.
type Vectors struct {
	Skills     []float32 `json:"skills"`
	Experience []float32 `json:"experience"`
	Role       []float32 `json:"role"`
}

// VectorsFrom returns the stored form of t, nil when t is not complete.
func VectorsFrom(t vector.Triple) *Vectors {
	if !t.Complete() {
		return nil
	}
	return &Vectors{Skills: t.Skills, Experience: t.Experience, Role: t.Role}
}

// Triple converts back, yielding the zero Triple for partial data.
func (v *Vectors) Triple() vector.Triple {
	if v == nil {
		return vector.Triple{}
	}
	return vector.Triple{Skills: v.Skills, Experience: v.Experience, Role: v.Role}.Usable()
}

// Unmarshal decodes a JSON document into dst. JSON.GET with a "$" path wraps
// the document in an array; FT.SEARCH RETURN "$" does not. Both are accepted.
func Unmarshal(raw []byte, dst any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) > 0 && raw[0] == '[' {
		var wrapped []json.RawMessage
		if err := json.Unmarshal(raw, &wrapped); err != nil {
			return fmt.Errorf("unmarshal wrapped document: %w", err)
		}
		if len(wrapped) == 0 {
			return fmt.Errorf("empty document array")
		}
		raw = wrapped[0]
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("unmarshal document: %w", err)
	}
	return nil
}

// Millis encodes a time as unix milliseconds, 0 for the zero time.
func Millis(t time.Time) int64 {
	if t.IsZero() {
		return 0
	}
	return t.UnixMilli()
}

// FromMillis is the inverse of Millis.
func FromMillis(ms int64) time.Time {
	if ms == 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms).UTC()
}
