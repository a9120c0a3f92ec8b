// Package schema checks inbound document records against the embedded JSON
// schema before they reach the validators.
package schema

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/kaptinlin/jsonschema"

	cerr "crosscheck/internal/errors"
)

//go:embed document.schema.json
var documentSchema []byte

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func documentValidator() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		compiler.AssertFormat = true
		compiled, compileErr = compiler.Compile(documentSchema)
		if compileErr != nil {
			compileErr = fmt.Errorf("compile document schema: %w", compileErr)
		}
	})
	return compiled, compileErr
}

// ValidateDocument returns an invalid_input error describing every violation.
func ValidateDocument(data []byte) error {
	schema, err := documentValidator()
	if err != nil {
		return err
	}
	result := schema.ValidateJSON(data)
	if result.IsValid() {
		return nil
	}
	return cerr.Wrap(fmt.Errorf("document schema validation failed: %v", result.Errors),
		cerr.KindInvalidInput, "schema_violation", "Correct the document record and resubmit")
}
