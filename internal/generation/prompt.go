package generation

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// DefaultPromptTemplate is the built-in system instruction. It is rendered
// with the configured card count.
const DefaultPromptTemplate = `You create flashcards from the text or topic the user provides.
Guidelines:
1) Keep each card clear and concise.
2) Phrase the front as a question or cue that promotes active recall.
3) Put a short, self-contained answer on the back.
4) Match the difficulty to the material the user supplied.
5) Use a mnemonic on the back when it genuinely helps.

Create exactly {{.CardCount}} flashcards.
Respond with a single JSON object and nothing else, in this format:
{
  "flashcards": [
    {
      "front": "string",
      "back": "string"
    }
  ]
}`

type promptData struct {
	CardCount int
}

// LoadPromptTemplate returns the template text at path, or the built-in
// template when path is empty.
func LoadPromptTemplate(path string) (string, error) {
	if path == "" {
		return DefaultPromptTemplate, nil
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("%w: failed to read prompt template: %v", ErrInvalidConfig, err)
	}
	return string(content), nil
}

// RenderSystemPrompt parses tmplText and executes it with cardCount.
func RenderSystemPrompt(tmplText string, cardCount int) (string, error) {
	tmpl, err := template.New("system_prompt").Option("missingkey=error").Parse(tmplText)
	if err != nil {
		return "", fmt.Errorf("%w: failed to parse prompt template: %v", ErrInvalidConfig, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{CardCount: cardCount}); err != nil {
		return "", fmt.Errorf("%w: failed to execute prompt template: %v", ErrInvalidConfig, err)
	}
	return buf.String(), nil
}
