package classify

import "strings"

// inputMarker is replaced by the raw log text. It is substituted once, so
// braces or markers inside the log itself are left alone.
const inputMarker = "{{INPUT}}"

const promptTemplate = `You are an assistant that files development logs and conversation transcripts.
Analyze the input text below and respond with a single JSON object only.
Do not wrap the JSON in Markdown code fences and do not add any explanation.
Write every value in the natural language of the input text, except project_name and category, which should be short English identifiers.

Input text:
{{INPUT}}

Output JSON format:
{
  "project_name": "project inferred from the content (English, underscores preferred, e.g. Medical_App)",
  "category": "kind of content (e.g. Spec, ErrorLog, Idea, Draft)",
  "title": "short title usable as a file name (spaces replaced by underscores)",
  "summary": "three-line summary of the content",
  "tags": ["tag1", "tag2"]
}`

// BuildPrompt returns the classification prompt with text embedded verbatim.
func BuildPrompt(text string) string {
	before, after, _ := strings.Cut(promptTemplate, inputMarker)
	var b strings.Builder
	b.Grow(len(promptTemplate) + len(text))
	b.WriteString(before)
	b.WriteString(text)
	b.WriteString(after)
	return b.String()
}

// ResponseKeys lists the keys the prompt asks the service to return.
var ResponseKeys = []string{"project_name", "category", "title", "summary", "tags"}
