package sdk

import (
	"bytes"
	_ "embed"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/auth.json
var authSchemaJSON []byte

const authSchemaURL = "auth.json"

var (
	schemasOnce sync.Once
	schemasErr  error
	schemas     map[string]*jsonschema.Schema
)

// responseSchema returns the compiled schema for one of the definitions in
// schemas/auth.json (loginResponse, verifyResponse, registerResponse).
func responseSchema(name string) (*jsonschema.Schema, error) {
	schemasOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(authSchemaJSON))
		if err != nil {
			schemasErr = fmt.Errorf("parse auth schema: %w", err)
			return
		}

		compiler := jsonschema.NewCompiler()
		compiler.DefaultDraft(jsonschema.Draft7)
		if err := compiler.AddResource(authSchemaURL, doc); err != nil {
			schemasErr = fmt.Errorf("add auth schema resource: %w", err)
			return
		}

		schemas = make(map[string]*jsonschema.Schema)
		for _, def := range []string{"loginResponse", "verifyResponse", "registerResponse"} {
			s, err := compiler.Compile(authSchemaURL + "#/definitions/" + def)
			if err != nil {
				schemasErr = fmt.Errorf("compile %s schema: %w", def, err)
				return
			}
			schemas[def] = s
		}
	})
	if schemasErr != nil {
		return nil, schemasErr
	}
	s, ok := schemas[name]
	if !ok {
		return nil, fmt.Errorf("unknown response schema %q", name)
	}
	return s, nil
}

// validateResponse checks body against the named response schema.
func validateResponse(name string, body []byte) error {
	schema, err := responseSchema(name)
	if err != nil {
		return err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("response is not JSON: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("response does not match %s: %w", name, err)
	}
	return nil
}
