// Package tools implements the MCP tool handlers for Quill.
//
// Each tool receives its dependencies through its struct and exposes a
// Definition for registration plus a Handle compatible with mcp-go's
// CallToolRequest signature. Caller mistakes come back as tool-level
// errors; only infrastructure failures surface as Go errors.
package tools

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/HendryAvila/quill/internal/fluency"
)

// Output formats shared by the analysis tools.
const (
	formatMarkdown = "markdown"
	formatJSON     = "json"
)

// outputFormat reads and validates the output_format argument.
func outputFormat(req mcp.CallToolRequest) (string, error) {
	format := strings.ToLower(strings.TrimSpace(req.GetString("output_format", formatMarkdown)))
	switch format {
	case formatMarkdown, formatJSON:
		return format, nil
	}
	return "", &fluency.InputError{Field: "output_format", Reason: fmt.Sprintf("must be %q or %q, got %q", formatMarkdown, formatJSON, format)}
}

// requiredText returns a string argument that must be present but may
// be empty. GetString cannot tell a missing key from "".
func requiredText(req mcp.CallToolRequest, key string) (string, bool) {
	v, ok := req.GetArguments()[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// inputError converts a validation error into a tool result. It
// returns nil when err is not a caller mistake.
func inputError(err error) *mcp.CallToolResult {
	if errors.Is(err, fluency.ErrInvalidInput) {
		return mcp.NewToolResultError(err.Error())
	}
	return nil
}

// jsonResult marshals v as indented JSON text.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling result: %w", err)
	}
	return mcp.NewToolResultText(string(data)), nil
}
