package review

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/thomas-vilte/matereview/internal/ai"
	domainErrors "github.com/thomas-vilte/matereview/internal/errors"
	"github.com/thomas-vilte/matereview/internal/models"
	"github.com/thomas-vilte/matereview/internal/regex"
)

// ResultKind tags what a model response turned out to be.
type ResultKind int

const (
	ResultInvalid ResultKind = iota
	// ResultEmpty covers both {} and [].
	ResultEmpty
	ResultFindings
)

func (k ResultKind) String() string {
	switch k {
	case ResultEmpty:
		return "empty"
	case ResultFindings:
		return "findings"
	default:
		return "invalid"
	}
}

// Result is the validated form of a raw model response.
type Result struct {
	Kind     ResultKind
	Findings []models.ReviewFinding
	// Err explains why the response is ResultInvalid.
	Err error
}

func (r Result) Valid() bool {
	return r.Kind != ResultInvalid
}

var requiredFields = []string{
	ai.FieldIssue,
	ai.FieldFile,
	ai.FieldObjectName,
	ai.FieldFirstLine,
	ai.FieldLastLine,
}

// ParseResult validates raw model output. Accepted shapes are an empty
// object, an empty array, or an array of complete finding objects. A single
// malformed element invalidates the whole response.
func ParseResult(raw string) Result {
	text := stripCodeFence(raw)
	if text == "" {
		return invalid("empty response", nil)
	}

	var top json.RawMessage
	if err := json.Unmarshal([]byte(text), &top); err != nil {
		return invalid("response is not JSON", err)
	}

	switch top[0] {
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(top, &obj); err != nil {
			return invalid("malformed object", err)
		}
		if len(obj) != 0 {
			return invalid("object response must be empty", nil)
		}
		return Result{Kind: ResultEmpty, Findings: []models.ReviewFinding{}}
	case '[':
		var elems []json.RawMessage
		if err := json.Unmarshal(top, &elems); err != nil {
			return invalid("malformed array", err)
		}
		if len(elems) == 0 {
			return Result{Kind: ResultEmpty, Findings: []models.ReviewFinding{}}
		}

		findings := make([]models.ReviewFinding, 0, len(elems))
		for i, elem := range elems {
			f, err := parseFinding(elem)
			if err != nil {
				return invalid(fmt.Sprintf("finding %d", i), err)
			}
			findings = append(findings, f)
		}
		return Result{Kind: ResultFindings, Findings: findings}
	default:
		return invalid("response must be an object or an array", nil)
	}
}

func parseFinding(elem json.RawMessage) (models.ReviewFinding, error) {
	var fields map[string]json.RawMessage
	if len(elem) == 0 || elem[0] != '{' {
		return models.ReviewFinding{}, fmt.Errorf("not an object")
	}
	if err := json.Unmarshal(elem, &fields); err != nil {
		return models.ReviewFinding{}, err
	}

	for _, name := range requiredFields {
		v, ok := fields[name]
		if !ok {
			return models.ReviewFinding{}, fmt.Errorf("missing field %q", name)
		}
		if bytes.Equal(v, []byte("null")) {
			return models.ReviewFinding{}, fmt.Errorf("field %q is null", name)
		}
	}

	var f models.ReviewFinding
	targets := []struct {
		name string
		dst  interface{}
	}{
		{ai.FieldIssue, &f.Issue},
		{ai.FieldFile, &f.File},
		{ai.FieldObjectName, &f.ObjectName},
		{ai.FieldFirstLine, &f.FirstLine},
		{ai.FieldLastLine, &f.LastLine},
	}
	for _, t := range targets {
		if err := json.Unmarshal(fields[t.name], t.dst); err != nil {
			return models.ReviewFinding{}, fmt.Errorf("field %q: %w", t.name, err)
		}
	}
	return f, nil
}

// stripCodeFence removes one surrounding markdown fence, which models add
// even when asked for bare JSON.
func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	if m := regex.JSONCodeFence.FindStringSubmatch(text); m != nil {
		return strings.TrimSpace(m[1])
	}
	return text
}

func invalid(reason string, err error) Result {
	appErr := domainErrors.ErrInvalidAIOutput.WithContext("reason", reason)
	if err != nil {
		appErr = appErr.WithError(err)
	}
	return Result{Kind: ResultInvalid, Err: appErr}
}
