package ai

import (
	"bytes"
	"runtime"
	"strings"
	"text/template"
)

// SystemInstruction is sent with every request.
const SystemInstruction = "You are a helpful assistant that converts natural language into shell commands. Provide only the command, no explanations."

var promptTemplate = template.Must(template.New("prompt").Parse(
	`Convert this natural language command into a shell pipeline.
Respond with only the shell command, no explanations or markdown.
{{if .Shell}}The command must use {{.Shell}} syntax and work on {{.OS}}.{{else}}The command should work on Unix-like systems.{{end}}

Natural language: {{.Text}}`))

type promptData struct {
	Text  string
	Shell string
	OS    string
}

// PromptBuilder renders the user message for a request.
type PromptBuilder struct {
	shell string
	os    string
}

// NewPromptBuilder targets shell on the operating system goos. An empty
// shell produces a generic Unix prompt.
func NewPromptBuilder(shell, goos string) PromptBuilder {
	if goos == "" {
		goos = runtime.GOOS
	}
	return PromptBuilder{shell: shell, os: osDisplayName(goos)}
}

// Build renders the prompt for text.
func (b PromptBuilder) Build(text string) string {
	var buf bytes.Buffer
	data := promptData{Text: strings.TrimSpace(text), Shell: b.shell, OS: b.os}
	if err := promptTemplate.Execute(&buf, data); err != nil {
		return data.Text
	}
	return buf.String()
}

func osDisplayName(goos string) string {
	switch goos {
	case "darwin":
		return "macOS"
	case "linux":
		return "Linux"
	case "windows":
		return "Windows"
	case "freebsd", "openbsd", "netbsd", "dragonfly":
		return strings.ToUpper(goos[:1]) + goos[1:]
	default:
		return goos
	}
}

// cleanReply trims a backend answer and unwraps a Markdown code fence.
func cleanReply(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	body := strings.TrimPrefix(content, "```")
	if end := strings.LastIndex(body, "```"); end != -1 {
		body = body[:end]
	}
	// Drop the language tag on the opening fence line.
	if nl := strings.IndexByte(body, '\n'); nl != -1 && !strings.ContainsAny(strings.TrimSpace(body[:nl]), " \t") {
		body = body[nl+1:]
	}
	return strings.TrimSpace(body)
}
