package domain

import (
	"strings"
	"time"
)

// TranslateRequest captures one invocation of the translator.
type TranslateRequest struct {
	Words    []string
	Provider string
	Model    string
	Execute  bool
}

// Prompt joins the request words the way they were typed.
func (r TranslateRequest) Prompt() string {
	return strings.Join(r.Words, " ")
}

// TranslateResult is what a run produced, filled in as far as it got.
type TranslateResult struct {
	Prompt    string
	Command   string
	Provider  string
	Model     string
	Shell     string
	Latency   time.Duration
	Copied    bool
	Execution *ExecutionResult
}

// ExecutionResult wraps details from the command executor.
type ExecutionResult struct {
	ExitCode int
	Duration time.Duration
}
