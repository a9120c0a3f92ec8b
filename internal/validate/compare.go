// Package validate holds the comparators and validators that turn record fields
// into findings. Every function is pure: no I/O, no shared state, and no error
// crosses the boundary; failures come back as low-confidence findings.
package validate

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"crosscheck/internal/domain"
	cerr "crosscheck/internal/errors"
	"crosscheck/internal/ports"
)

// fold trims and case-folds. A Caser is stateful, so each call gets its own.
func fold(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}

// FieldValue is one side of a field comparison.
type FieldValue struct {
	Source  string
	Value   string
	Present bool
}

// FieldOf reads a named field from a document.
func FieldOf(doc domain.Document, name string) FieldValue {
	v, ok := doc.Field(name)
	return FieldValue{Source: doc.ID, Value: v, Present: ok}
}

func (v FieldValue) display() string {
	if !v.Present {
		return "MISSING"
	}
	return v.Value
}

func CompareField(field string, left, right FieldValue) domain.Finding {
	if !left.Present || !right.Present {
		f := domain.Failed(domain.CheckFieldMatch, cerr.New(cerr.KindMissingField, "field_missing",
			"field %q not found in one or both documents", field))
		f.Evidence = map[string]any{
			"field":        field,
			"left_source":  left.Source,
			"left_value":   left.display(),
			"right_source": right.Source,
			"right_value":  right.display(),
		}
		return f
	}
	match := fold(left.Value) == fold(right.Value)
	evidence := map[string]any{
		"field":        field,
		"left_source":  left.Source,
		"left_value":   left.Value,
		"right_source": right.Source,
		"right_value":  right.Value,
		"match":        match,
	}
	if match {
		return domain.Finding{
			Check:          domain.CheckFieldMatch,
			Status:         domain.StatusPass,
			Risk:           domain.RiskLow,
			Message:        fmt.Sprintf("%s matches across %s and %s", field, left.Source, right.Source),
			Recommendation: "No action needed",
			Evidence:       evidence,
		}
	}
	return domain.Finding{
		Check:          domain.CheckFieldMatch,
		Status:         domain.StatusFail,
		Risk:           domain.RiskHigh,
		Message:        fmt.Sprintf("Mismatch on %s: '%s' vs '%s'", field, left.Value, right.Value),
		Impact:         "Will trigger manual CBP review",
		Recommendation: fmt.Sprintf("Standardize %s to match exactly across all documents", field),
		Evidence:       evidence,
	}
}

// Similarity is a Jaccard comparison of two whitespace-tokenised texts.
type Similarity struct {
	Score     float64  `json:"score"`
	Common    []string `json:"common_tokens"`
	UniqueToA []string `json:"unique_to_a"`
	UniqueToB []string `json:"unique_to_b"`
}

func tokenSet(s string) map[string]struct{} {
	set := map[string]struct{}{}
	for _, tok := range strings.Fields(fold(s)) {
		set[tok] = struct{}{}
	}
	return set
}

// TextSimilarity scores |A∩B| / |A∪B| over token sets; 0 when either is empty.
func TextSimilarity(a, b string) Similarity {
	setA, setB := tokenSet(a), tokenSet(b)
	out := Similarity{Common: []string{}, UniqueToA: []string{}, UniqueToB: []string{}}
	for tok := range setA {
		if _, ok := setB[tok]; ok {
			out.Common = append(out.Common, tok)
		} else {
			out.UniqueToA = append(out.UniqueToA, tok)
		}
	}
	for tok := range setB {
		if _, ok := setA[tok]; !ok {
			out.UniqueToB = append(out.UniqueToB, tok)
		}
	}
	sort.Strings(out.Common)
	sort.Strings(out.UniqueToA)
	sort.Strings(out.UniqueToB)
	if len(setA) == 0 || len(setB) == 0 {
		return out
	}
	union := len(out.Common) + len(out.UniqueToA) + len(out.UniqueToB)
	out.Score = float64(len(out.Common)) / float64(union)
	return out
}

// CompareTranslated translates foreign into targetLang and scores it against
// declared. A score strictly above threshold is a match. Without a translator
// the check degrades to UNKNOWN.
func CompareTranslated(ctx context.Context, tr ports.Translator, foreign, sourceLang, targetLang, declared string, threshold float64) domain.Finding {
	if tr == nil {
		return domain.Failed(domain.CheckTranslatedDescription, cerr.Wrap(
			fmt.Errorf("translation service not configured"),
			cerr.KindTranslationUnavailable, "translator_missing", "Manual translation comparison required"))
	}
	translated, err := tr.Translate(ctx, foreign, sourceLang, targetLang)
	if err != nil {
		if cerr.KindOf(err) == "" {
			err = cerr.Wrap(err, cerr.KindTranslationUnavailable, "translation_failed", "Manual translation comparison required")
		}
		return domain.Failed(domain.CheckTranslatedDescription, err)
	}
	sim := TextSimilarity(translated, declared)
	match := sim.Score > threshold
	evidence := map[string]any{
		"original":         foreign,
		"source_language":  sourceLang,
		"translated":       strings.ToLower(strings.TrimSpace(translated)),
		"declared":         declared,
		"similarity_score": round(sim.Score, 2),
		"threshold":        threshold,
		"common_words":     sim.Common,
		"match":            match,
	}
	if match {
		return domain.Finding{
			Check:          domain.CheckTranslatedDescription,
			Status:         domain.StatusPass,
			Risk:           domain.RiskLow,
			Message:        "Descriptions match after translation",
			Impact:         "No issue",
			Recommendation: "No action needed",
			Evidence:       evidence,
		}
	}
	return domain.Finding{
		Check:          domain.CheckTranslatedDescription,
		Status:         domain.StatusFail,
		Risk:           domain.RiskHigh,
		Message:        "Descriptions don't match after translation",
		Impact:         "May trigger CBP review for description inconsistency",
		Recommendation: "Verify product description is correct and consistent in both languages",
		Evidence:       evidence,
	}
}
