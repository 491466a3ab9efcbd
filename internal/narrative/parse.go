package narrative

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonrepair "github.com/RealAlexandreAI/json-repair"
	"github.com/go-playground/validator/v10"
	hjson "github.com/hjson/hjson-go/v4"

	"github.com/bobmcallan/earnings-insight/internal/models"
)

// MaxContradictions caps the brokenPromises list of an aggregate narrative.
const MaxContradictions = 3

var validate = validator.New()

var errNotJSON = errors.New("model response is not parseable as JSON")

var errUnterminated = errors.New("model response ends inside a string")

// quarterPayload is the model's per-quarter answer before verdict coercion.
type quarterPayload struct {
	Script      []string `json:"script" validate:"len=3"`
	Reality     []string `json:"reality" validate:"len=3"`
	Verdicts    []string `json:"verdicts" validate:"len=3"`
	AnalystTake *string  `json:"analystTake" validate:"required"`
}

type contradictionPayload struct {
	Quarter string `json:"quarter"`
	Promise string `json:"promise"`
	Reality string `json:"reality"`
	Verdict string `json:"verdict"`
}

// aggregatePayload is the model's cross-quarter answer before coercion.
type aggregatePayload struct {
	BigPicture     *string                `json:"bigPicture" validate:"required"`
	BrokenPromises []contradictionPayload `json:"brokenPromises" validate:"max=3"`
}

// stripFences removes a surrounding markdown code fence, if any.
func stripFences(text string) string {
	s := strings.TrimSpace(text)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// openString reports whether s ends inside a double-quoted string.
func openString(s string) bool {
	inString, escaped := false, false
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		}
	}
	return inString
}

// decodeModelJSON parses model output leniently: plain JSON first, then a
// repaired document, then Hjson. Each attempt decodes into a fresh value.
// Output cut off inside a string is never repaired.
func decodeModelJSON[T any](text string) (*T, error) {
	raw := stripFences(text)

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err == nil {
		return &out, nil
	}
	if openString(raw) {
		return nil, errUnterminated
	}

	if repaired, err := jsonrepair.RepairJSON(raw); err == nil {
		var fixed T
		if err := json.Unmarshal([]byte(repaired), &fixed); err == nil {
			return &fixed, nil
		}
	}

	var generic interface{}
	if err := hjson.Unmarshal([]byte(raw), &generic); err == nil {
		if data, err := json.Marshal(generic); err == nil {
			var lenient T
			if err := json.Unmarshal(data, &lenient); err == nil {
				return &lenient, nil
			}
		}
	}

	return nil, errNotJSON
}

func coerceVerdict(v string) models.Verdict {
	verdict := models.Verdict(v)
	if verdict.Valid() {
		return verdict
	}
	return models.VerdictPartial
}

// parseQuarter decodes and validates a per-quarter answer. Count failures are
// errors; unknown verdicts become partial.
func parseQuarter(text string) (*quarterPayload, []models.Verdict, error) {
	p, err := decodeModelJSON[quarterPayload](text)
	if err != nil {
		return nil, nil, err
	}
	if err := validate.Struct(p); err != nil {
		return nil, nil, fmt.Errorf("invalid analysis structure: %w", err)
	}
	verdicts := make([]models.Verdict, len(p.Verdicts))
	for i, v := range p.Verdicts {
		verdicts[i] = coerceVerdict(v)
	}
	return p, verdicts, nil
}

// parseAggregate decodes and validates a cross-quarter answer. Verdicts other
// than missed or partial become partial.
func parseAggregate(text string) (*models.AggregateNarrative, error) {
	p, err := decodeModelJSON[aggregatePayload](text)
	if err != nil {
		return nil, err
	}
	if err := validate.Struct(p); err != nil {
		return nil, fmt.Errorf("invalid summary structure: %w", err)
	}

	out := &models.AggregateNarrative{
		OverallSummary: *p.BigPicture,
		Contradictions: make([]models.Contradiction, 0, len(p.BrokenPromises)),
	}
	for _, c := range p.BrokenPromises {
		verdict := models.Verdict(c.Verdict)
		if verdict != models.VerdictMissed {
			verdict = models.VerdictPartial
		}
		out.Contradictions = append(out.Contradictions, models.Contradiction{
			Quarter: c.Quarter,
			Claim:   c.Promise,
			Outcome: c.Reality,
			Verdict: verdict,
		})
	}
	return out, nil
}
