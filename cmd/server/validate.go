package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// validator checks inbound client messages against the authored schemas
// before they reach the hub. Malformed intents are rejected at the edge so
// the simulation only ever sees structurally valid actions.
type validator struct {
	act *jsonschema.Schema
}

func newValidator(schemasDir string) (*validator, error) {
	act, err := jsonschema.Compile(filepath.Join(schemasDir, "act.schema.json"))
	if err != nil {
		return nil, fmt.Errorf("compile act schema: %w", err)
	}
	return &validator{act: act}, nil
}

func (v *validator) validateAct(raw []byte) error {
	var doc any
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("malformed json: %w", err)
	}
	if err := v.act.Validate(doc); err != nil {
		return fmt.Errorf("schema: %w", err)
	}
	return nil
}
