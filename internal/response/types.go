package response

// Field defaults applied when the generation service omits a key.
const (
	DefaultProjectName = "General"
	DefaultCategory    = "Memo"
	DefaultTitle       = "Untitled"
	DefaultSummary     = "要約なし"
)

// Classification is the structured record decoded from a classifier response.
// ProjectName and Title are never empty.
type Classification struct {
	ProjectName string   `json:"project_name"`
	Category    string   `json:"category"`
	Title       string   `json:"title"`
	Summary     string   `json:"summary"`
	Tags        []string `json:"tags"`
}
