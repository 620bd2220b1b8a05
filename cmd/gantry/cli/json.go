// Copyright 2026 The Gantry Authors
// SPDX-License-Identifier: Apache-2.0

package cli

import (
	"encoding/json"
	"os"
	"reflect"
)

// JSONOutput adds a --json flag to any parameter struct that embeds
// it. Commands with both human and machine output call [EmitJSON]
// first and fall through to their text rendering when the flag is
// unset:
//
//	type planParams struct {
//	    cli.JSONOutput
//	    cli.WorkspaceConfig
//	}
//
//	if done, err := params.EmitJSON(plan); done {
//	    return err
//	}
//	// text table follows
type JSONOutput struct {
	OutputJSON bool `json:"-" flag:"json" desc:"output as JSON"`
}

// EmitJSON writes result to stdout as indented JSON when --json was
// passed. The boolean tells the caller whether output was handled; on
// (false, nil) the command renders text instead.
//
// A nil slice result is emitted as [] rather than null, so list
// commands can return their accumulator without special-casing the
// empty workspace.
func (j *JSONOutput) EmitJSON(result any) (bool, error) {
	if !j.OutputJSON {
		return false, nil
	}
	if v := reflect.ValueOf(result); v.Kind() == reflect.Slice && v.IsNil() {
		result = reflect.MakeSlice(v.Type(), 0, 0).Interface()
	}
	return true, WriteJSON(result)
}

// WriteJSON encodes value to stdout with two-space indentation. It is
// the single JSON exit point for commands whose output is always JSON
// (test plan, args eval --json consumers pipe this into jq); flagged
// commands go through [JSONOutput.EmitJSON].
func WriteJSON(value any) error {
	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}
