package cli

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cuejson "cuelang.org/go/encoding/json"
	"gopkg.in/yaml.v3"

	"github.com/eafipg/eafipg/internal/ir"
)

//go:embed schema.cue
var graphSchema string

// Load error codes surfaced in CLI error responses.
const (
	ErrCodeIo     = "IO_ERROR"     // file unreadable
	ErrCodeParse  = "PARSE_ERROR"  // malformed JSON/YAML
	ErrCodeSchema = "SCHEMA_ERROR" // document rejected by the #Graph schema
)

// LoadError is a structured failure from LoadGraph.
type LoadError struct {
	Code    string
	Path    string
	Message string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Code, e.Path, e.Message)
}

// LoadGraph reads a graph document from a .json or .yaml/.yml file,
// checks it against the embedded #Graph schema, and decodes it.
//
// The schema check runs before decoding so malformed documents fail with
// a schema position instead of a decoder error deep in the value union.
func LoadGraph(path string) (*ir.Graph, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeIo, Path: path, Message: err.Error()}
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yamlToJSON(data)
		if err != nil {
			return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: err.Error()}
		}
	}

	if err := checkSchema(path, data); err != nil {
		return nil, err
	}

	g, err := ir.DecodeGraph(data)
	if err != nil {
		return nil, &LoadError{Code: ErrCodeParse, Path: path, Message: err.Error()}
	}
	return g, nil
}

// yamlToJSON converts a YAML document to JSON bytes so both input formats
// share the schema check and decoder.
func yamlToJSON(data []byte) ([]byte, error) {
	var doc any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	out, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("convert yaml to json: %w", err)
	}
	return out, nil
}

// checkSchema validates a JSON graph document against the embedded CUE
// #Graph definition.
func checkSchema(path string, data []byte) error {
	ctx := cuecontext.New()
	schema := ctx.CompileString(graphSchema).LookupPath(cue.ParsePath("#Graph"))
	if err := schema.Err(); err != nil {
		return fmt.Errorf("compile graph schema: %w", err)
	}

	expr, err := cuejson.Extract(path, data)
	if err != nil {
		return &LoadError{Code: ErrCodeParse, Path: path, Message: err.Error()}
	}

	doc := ctx.BuildExpr(expr)
	if err := schema.Unify(doc).Validate(cue.Concrete(true)); err != nil {
		return &LoadError{Code: ErrCodeSchema, Path: path, Message: err.Error()}
	}
	return nil
}
