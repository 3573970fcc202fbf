package ollama

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Gaurav5289/rag-spec-extraction/internal/core/domain"
)

// flexString tolerates models emitting numbers where strings were asked for.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

type flexInt int

func (f *flexInt) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		s = strings.TrimSpace(s)
		if s == "" {
			*f = 0
			return nil
		}
		n, err := json.Number(s).Int64()
		if err != nil {
			return err
		}
		*f = flexInt(n)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	v, err := n.Int64()
	if err != nil {
		// Truncate fractional pages rather than failing the whole response.
		fv, ferr := n.Float64()
		if ferr != nil {
			return err
		}
		v = int64(fv)
	}
	*f = flexInt(v)
	return nil
}

type wireSpec struct {
	Component  flexString `json:"component"`
	Value      flexString `json:"value"`
	Unit       flexString `json:"unit"`
	Page       flexInt    `json:"page"`
	RawText    flexString `json:"raw_text"`
	PartNumber flexString `json:"part_number"`
}

type wireEnvelope struct {
	Specs []wireSpec `json:"specs"`
}

// parseSpecItems decodes the model response. It tries the raw text first,
// then the largest embedded JSON object, then a bare array wrapped into the
// expected envelope. Items missing component or value are dropped, not
// treated as parse failures.
func parseSpecItems(raw string) ([]domain.SpecItem, error) {
	candidates := []string{strings.TrimSpace(raw)}
	if block, ok := jsonBlock(raw, '{', '}'); ok {
		candidates = append(candidates, block)
	}
	if block, ok := jsonBlock(raw, '[', ']'); ok {
		candidates = append(candidates, `{"specs": `+block+`}`)
	}

	var firstErr error
	for _, candidate := range candidates {
		if candidate == "" {
			continue
		}
		var envelope wireEnvelope
		if err := json.Unmarshal([]byte(candidate), &envelope); err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		return toSpecItems(envelope.Specs), nil
	}

	if firstErr == nil {
		firstErr = fmt.Errorf("no json content in response")
	}
	return nil, &domain.ParseError{Raw: raw, Reason: firstErr}
}

func toSpecItems(specs []wireSpec) []domain.SpecItem {
	items := make([]domain.SpecItem, 0, len(specs))
	for _, s := range specs {
		component := strings.TrimSpace(string(s.Component))
		value := strings.TrimSpace(string(s.Value))
		if component == "" || value == "" {
			continue
		}
		items = append(items, domain.SpecItem{
			Component:  component,
			Value:      value,
			Unit:       strings.TrimSpace(string(s.Unit)),
			Page:       int(s.Page),
			RawText:    strings.TrimSpace(string(s.RawText)),
			PartNumber: strings.TrimSpace(string(s.PartNumber)),
		})
	}
	return items
}

func jsonBlock(raw string, open, close byte) (string, bool) {
	start := strings.IndexByte(raw, open)
	end := strings.LastIndexByte(raw, close)
	if start >= 0 && end > start {
		return raw[start : end+1], true
	}
	return "", false
}
