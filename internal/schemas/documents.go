// Package schemas validates the statistics artifacts against their bundled JSON Schemas.
package schemas

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jonathan/bpk-stats/internal/types"
	"github.com/xeipuuv/gojsonschema"
)

// Schemas are embedded at compile time so validation needs no files at runtime.
//
//go:embed documents/*.schema.json
var documentFiles embed.FS

// CommonSchemaURL is the $id shared definitions are registered under.
const CommonSchemaURL = "https://bpk-stats.local/schemas/common.schema.json"

// compiled caches parsed schemas per document kind
var (
	compiled   = make(map[types.DocumentKind]*gojsonschema.Schema)
	compiledMu sync.Mutex
)

// Kinds returns the document kinds that have a schema.
func Kinds() []types.DocumentKind {
	return []types.DocumentKind{
		types.KindContentStats,
		types.KindCorpusStats,
		types.KindSpeakerAnalysis,
		types.KindCompiledStats,
		types.KindAdvancedAnalysis,
		types.KindTopList,
	}
}

// DocumentSchema returns the raw JSON Schema for a document kind.
func DocumentSchema(kind types.DocumentKind) ([]byte, error) {
	data, err := documentFiles.ReadFile("documents/" + string(kind) + ".schema.json")
	if err != nil {
		return nil, &SchemaLoadError{Path: string(kind), Message: "no schema for document kind", Cause: err}
	}
	return data, nil
}

// ValidateDocument validates a document body against the schema of its kind.
// Returns a *ValidationError describing every mismatch, or nil.
func ValidateDocument(kind types.DocumentKind, name string, body []byte) error {
	schema, err := schemaFor(kind)
	if err != nil {
		return err
	}

	result, err := schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("failed to validate %s: %w", name, err)
	}

	return resultError(name, result)
}

// ValidateDocumentFile validates a file on disk against the schema of a document kind.
func ValidateDocumentFile(kind types.DocumentKind, path string) error {
	body, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	return ValidateDocument(kind, filepath.Base(path), body)
}

// schemaFor compiles and caches the schema of a document kind.
func schemaFor(kind types.DocumentKind) (*gojsonschema.Schema, error) {
	compiledMu.Lock()
	defer compiledMu.Unlock()

	if schema, ok := compiled[kind]; ok {
		return schema, nil
	}

	main, err := DocumentSchema(kind)
	if err != nil {
		return nil, err
	}
	common, err := documentFiles.ReadFile("documents/common.schema.json")
	if err != nil {
		return nil, &SchemaLoadError{Path: "common.schema.json", Message: "missing shared definitions", Cause: err}
	}

	sl := gojsonschema.NewSchemaLoader()
	if err := sl.AddSchema(CommonSchemaURL, gojsonschema.NewBytesLoader(common)); err != nil {
		return nil, &SchemaLoadError{Path: "common.schema.json", Message: "invalid shared definitions", Cause: err}
	}

	schema, err := sl.Compile(gojsonschema.NewBytesLoader(main))
	if err != nil {
		return nil, &SchemaLoadError{Path: string(kind) + ".schema.json", Message: "failed to compile schema", Cause: err}
	}

	compiled[kind] = schema
	return schema, nil
}
