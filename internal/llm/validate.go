package llm

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// compiledSchemas holds compiled schemas keyed by name. An entry is reused
// only while its definition is unchanged.
var compiledSchemas = struct {
	sync.Mutex
	byName map[string]compiledSchema
}{byName: make(map[string]compiledSchema)}

type compiledSchema struct {
	def    []byte
	schema *jsonschema.Schema
}

// conform prepares a structured response for decoding: it strips a
// Markdown code fence some models wrap JSON in, then checks the result
// against schema. A nil schema returns raw unchanged. Failures are
// *ErrInvalidResponse.
func conform(schema *Schema, raw json.RawMessage) (json.RawMessage, error) {
	if schema == nil {
		return raw, nil
	}
	content := stripFence(raw)

	var doc any
	if err := json.Unmarshal(content, &doc); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	compiled, err := compile(schema)
	if err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("compile schema %q: %w", schema.Name, err)}
	}
	if err := compiled.Validate(doc); err != nil {
		return nil, &ErrInvalidResponse{Content: raw, Err: fmt.Errorf("response does not match %q: %w", schema.Name, err)}
	}
	return content, nil
}

// stripFence removes a surrounding ```json ... ``` block.
func stripFence(raw []byte) []byte {
	b := bytes.TrimSpace(raw)
	if !bytes.HasPrefix(b, []byte("```")) {
		return b
	}
	b = b[3:]
	if nl := bytes.IndexByte(b, '\n'); nl >= 0 {
		b = b[nl+1:]
	} else {
		return bytes.TrimSpace(raw)
	}
	b = bytes.TrimSpace(b)
	b = bytes.TrimSuffix(b, []byte("```"))
	return bytes.TrimSpace(b)
}

func compile(schema *Schema) (*jsonschema.Schema, error) {
	def, err := json.Marshal(schema.Definition)
	if err != nil {
		return nil, fmt.Errorf("marshal definition: %w", err)
	}

	compiledSchemas.Lock()
	defer compiledSchemas.Unlock()
	if c, ok := compiledSchemas.byName[schema.Name]; ok && bytes.Equal(c.def, def) {
		return c.schema, nil
	}

	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(def))
	if err != nil {
		return nil, fmt.Errorf("parse definition: %w", err)
	}
	url := "schema://" + schema.Name + ".json"
	c := jsonschema.NewCompiler()
	if err := c.AddResource(url, doc); err != nil {
		return nil, fmt.Errorf("add resource: %w", err)
	}
	s, err := c.Compile(url)
	if err != nil {
		return nil, err
	}
	compiledSchemas.byName[schema.Name] = compiledSchema{def: def, schema: s}
	return s, nil
}
