package ai

import "strings"

var systemPrompt = `You are a code reviewer speaking as the persona you are given.

The code is shown with its line numbers. Reference them.

Respond with one remark per line in this format:

Line <number>: <remark>
Lines <start>-<end>: <remark>

Keep each remark on a single line. Do not quote the code back.`

// BuildPrompt renders the user prompt sent with systemPrompt.
func BuildPrompt(r ReviewRequest) string {
	var b strings.Builder

	if r.Persona != "" {
		b.WriteString("Persona: " + r.Persona + "\n")
	}
	b.WriteString("File: " + r.File + "\n")
	if r.Language != "" {
		b.WriteString("Language: " + r.Language + "\n")
	}

	b.WriteString("\nCode:\n")
	b.WriteString(r.Content)
	if !strings.HasSuffix(r.Content, "\n") {
		b.WriteString("\n")
	}

	question := strings.TrimSpace(r.Question)
	if question == "" {
		question = "Provide a concise but deep review."
	}
	b.WriteString("\n" + question)

	return b.String()
}

// FullPrompt is the system prompt and the user prompt in one block, for
// backends that take a single text on stdin.
func FullPrompt(r ReviewRequest) string {
	return systemPrompt + "\n\n" + BuildPrompt(r)
}
