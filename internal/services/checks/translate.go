package checks

import (
	"context"
	"fmt"

	cerr "crosscheck/internal/errors"
)

// DefaultSourceLanguage is assumed for document fields that carry no language.
const DefaultSourceLanguage = "ZH"

type Translation struct {
	Field      string `json:"field,omitempty"`
	Original   string `json:"original,omitempty"`
	Translated string `json:"translated,omitempty"`
	Source     string `json:"source_language"`
	Target     string `json:"target_language"`
	Error      string `json:"error,omitempty"`
}

// Translate translates one piece of text into the target language.
func (s *Service) Translate(ctx context.Context, text, sourceLang string) (Translation, error) {
	if sourceLang == "" {
		sourceLang = DefaultSourceLanguage
	}
	t := Translation{Original: text, Source: sourceLang, Target: TargetLanguage}
	if s.translator == nil {
		return t, cerr.Wrap(fmt.Errorf("translation service not configured"),
			cerr.KindTranslationUnavailable, "translator_missing", "Manual translation required")
	}
	out, err := s.translator.Translate(ctx, text, sourceLang, TargetLanguage)
	if err != nil {
		return t, err
	}
	t.Translated = out
	return t, nil
}

// TranslateDocument translates the named fields of a document. A field that is
// absent or fails to translate is reported in its entry; only an unknown
// document or a missing translator fails the call.
func (s *Service) TranslateDocument(ctx context.Context, documentID string, fields []string) ([]Translation, error) {
	if s.translator == nil {
		return nil, cerr.Wrap(fmt.Errorf("translation service not configured"),
			cerr.KindTranslationUnavailable, "translator_missing", "Manual translation required")
	}
	doc, err := s.store.Document(ctx, documentID)
	if err != nil {
		return nil, err
	}
	sourceLang := DefaultSourceLanguage
	if doc.Language != nil && *doc.Language != "" {
		sourceLang = *doc.Language
	}
	out := make([]Translation, 0, len(fields))
	for _, field := range fields {
		value, ok := doc.Field(field)
		if !ok || value == "" {
			out = append(out, Translation{Field: field, Source: sourceLang, Target: TargetLanguage,
				Error: fmt.Sprintf("field %q not found in document", field)})
			continue
		}
		t, err := s.Translate(ctx, value, sourceLang)
		t.Field = field
		if err != nil {
			t.Error = err.Error()
		}
		out = append(out, t)
	}
	return out, nil
}
