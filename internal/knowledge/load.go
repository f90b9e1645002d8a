package knowledge

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// ErrInvalid is returned when a knowledge base does not match the schema
// or contains duplicate ids.
var ErrInvalid = errors.New("invalid knowledge base")

//go:embed schema.json
var schemaJSON []byte

const schemaURL = "schema://knowledge.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func baseSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(schemaJSON))
		if err != nil {
			compileErr = fmt.Errorf("parse knowledge schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		c.AssertFormat()
		if err := c.AddResource(schemaURL, doc); err != nil {
			compileErr = fmt.Errorf("add knowledge schema: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// LoadFile reads and validates the knowledge base at path.
func LoadFile(path string) (Base, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open knowledge base: %w", err)
	}
	defer f.Close()

	base, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return base, nil
}

// Decode validates r against the knowledge schema and decodes it.
func Decode(r io.Reader) (Base, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	sch, err := baseSchema()
	if err != nil {
		return nil, err
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}
	if err := sch.Validate(doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	var base Base
	if err := json.Unmarshal(raw, &base); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	seen := make(map[string]struct{}, len(base))
	for _, it := range base {
		if _, dup := seen[it.ID]; dup {
			return nil, fmt.Errorf("%w: duplicate id %s", ErrInvalid, it.ID)
		}
		seen[it.ID] = struct{}{}
	}
	return base, nil
}
