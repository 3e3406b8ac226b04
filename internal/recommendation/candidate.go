package recommendation

import (
	"encoding/json"
	"errors"
	"math"
	"strings"

	apperrors "github.com/NomadCrew/vacation-recommender/errors"
	"github.com/tidwall/gjson"
)

// Candidate is an untrusted JSON value decoded from model output. Fields are
// only reachable through the extraction helpers, each of which reports whether
// a usable value of the expected type was present.
type Candidate struct {
	v gjson.Result
}

// Decode parses sanitized text into a Candidate. Text that is not valid JSON
// fails with a DecodeError.
func Decode(text string) (Candidate, error) {
	if !gjson.Valid(text) {
		return Candidate{}, apperrors.Decode(syntaxError(text))
	}
	return Candidate{v: gjson.Parse(text)}, nil
}

// syntaxError recovers a positioned error message for diagnostics.
func syntaxError(text string) error {
	var decoded interface{}
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return err
	}
	return errors.New("invalid JSON")
}

// Exists reports whether the value is present at all.
func (c Candidate) Exists() bool {
	return c.v.Exists()
}

func (c Candidate) IsArray() bool {
	return c.v.IsArray()
}

func (c Candidate) IsObject() bool {
	return c.v.IsObject()
}

// Len returns the element count of an array value, or zero.
func (c Candidate) Len() int {
	if !c.v.IsArray() {
		return 0
	}
	return len(c.v.Array())
}

// Items returns the elements of an array value in order.
func (c Candidate) Items() []Candidate {
	if !c.v.IsArray() {
		return nil
	}
	arr := c.v.Array()
	out := make([]Candidate, len(arr))
	for i, r := range arr {
		out[i] = Candidate{v: r}
	}
	return out
}

// Raw returns the original JSON text of the value.
func (c Candidate) Raw() string {
	return c.v.Raw
}

func (c Candidate) get(path string) gjson.Result {
	if !c.v.IsObject() {
		return gjson.Result{}
	}
	return c.v.Get(path)
}

// String returns a trimmed, non-blank string field.
func (c Candidate) String(path string) (string, bool) {
	r := c.get(path)
	if r.Type != gjson.String {
		return "", false
	}
	s := strings.TrimSpace(r.Str)
	return s, s != ""
}

// Number returns a finite numeric field. Zero is a valid value.
func (c Candidate) Number(path string) (float64, bool) {
	r := c.get(path)
	if r.Type != gjson.Number {
		return 0, false
	}
	f := r.Float()
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// Strings returns the non-blank string entries of an array field, keeping at
// most limit entries. A field with no usable entries counts as missing.
func (c Candidate) Strings(path string, limit int) ([]string, bool) {
	r := c.get(path)
	if !r.IsArray() {
		return nil, false
	}
	var out []string
	r.ForEach(func(_, item gjson.Result) bool {
		if item.Type == gjson.String {
			if s := strings.TrimSpace(item.Str); s != "" {
				out = append(out, s)
			}
		}
		return limit <= 0 || len(out) < limit
	})
	return out, len(out) > 0
}

// Objects returns the object entries of an array field, keeping at most limit.
// A field with no object entries counts as missing.
func (c Candidate) Objects(path string, limit int) ([]Candidate, bool) {
	r := c.get(path)
	if !r.IsArray() {
		return nil, false
	}
	var out []Candidate
	r.ForEach(func(_, item gjson.Result) bool {
		if item.IsObject() {
			out = append(out, Candidate{v: item})
		}
		return limit <= 0 || len(out) < limit
	})
	return out, len(out) > 0
}

// Object returns a nested object field.
func (c Candidate) Object(path string) (Candidate, bool) {
	r := c.get(path)
	if !r.IsObject() {
		return Candidate{}, false
	}
	return Candidate{v: r}, true
}
