package cli

import (
	"encoding/json"
	"fmt"
	"io"
)

// Output handles formatting output based on the configured format
type Output struct {
	format string
	w      io.Writer
}

// NewOutput creates a new Output formatter writing to w
func NewOutput(format string, w io.Writer) *Output {
	return &Output{format: format, w: w}
}

// Print outputs data in the configured format
func (o *Output) Print(data any) {
	if o.format == "json" {
		o.printJSON(data)
	} else {
		o.printText(data)
	}
}

func (o *Output) printJSON(data any) {
	enc := json.NewEncoder(o.w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

func (o *Output) printText(data any) {
	switch v := data.(type) {
	case RegisterResult:
		fmt.Fprintf(o.w, "Registered %s (%s)\n", v.User, v.DisplayName)
	case LoginResult:
		fmt.Fprintf(o.w, "Logged in as %s\n", v.User)
	case HealthResult:
		fmt.Fprintf(o.w, "Status: %s\n", v.Status)
	default:
		// Fallback to JSON for unknown types
		o.printJSON(data)
	}
}

// RegisterResult response type (matches API)
type RegisterResult struct {
	OK          bool   `json:"ok"`
	User        string `json:"user"`
	DisplayName string `json:"displayName"`
}

// LoginResult response type
type LoginResult struct {
	OK   bool   `json:"ok"`
	User string `json:"user"`
}

// HealthResult response type
type HealthResult struct {
	Status string `json:"status"`
}
