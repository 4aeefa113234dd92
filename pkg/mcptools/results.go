package mcptools

import (
	"encoding/json"
	"fmt"
)

// ResultStatus indicates the outcome of tool execution.
type ResultStatus string

const (
	ResultSuccess ResultStatus = "success"
	ResultError   ResultStatus = "error"
)

// Result standardizes tool output: a text rendering for the model plus
// structured details for programmatic callers.
type Result struct {
	Status  ResultStatus   `json:"status"`
	Content []ContentBlock `json:"content,omitempty"`
	Details map[string]any `json:"details,omitempty"`
	Error   string         `json:"error,omitempty"`
}

// ContentBlock is one piece of tool output.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Text returns the text content, or the error message for error results.
func (r *Result) Text() string {
	if r.Status == ResultError && r.Error != "" {
		return r.Error
	}
	for _, block := range r.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text
		}
	}
	return ""
}

// IsError returns true if the result indicates an error.
func (r *Result) IsError() bool {
	return r.Status == ResultError
}

// JSONResult creates a structured JSON result from any payload.
func JSONResult(payload any) *Result {
	return &Result{
		Status:  ResultSuccess,
		Content: []ContentBlock{{Type: "text", Text: mustJSON(payload)}},
		Details: toMap(payload),
	}
}

// TextResult creates a simple text result.
func TextResult(text string) *Result {
	return &Result{
		Status:  ResultSuccess,
		Content: []ContentBlock{{Type: "text", Text: text}},
	}
}

// ErrorResult creates an error result. Tool failures are structured
// results, never panics or protocol errors.
func ErrorResult(toolName, message string) *Result {
	return &Result{
		Status:  ResultError,
		Content: []ContentBlock{{Type: "text", Text: message}},
		Details: map[string]any{"tool": toolName, "error": message},
		Error:   message,
	}
}

// ErrorResultf creates an error result with a formatted message.
func ErrorResultf(toolName, format string, args ...any) *Result {
	return ErrorResult(toolName, fmt.Sprintf(format, args...))
}

func mustJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf(`{"error":"failed to marshal: %s"}`, err.Error())
	}
	return string(data)
}

func toMap(v any) map[string]any {
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil
	}
	return m
}
