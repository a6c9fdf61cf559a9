package loam

// ManifestID is the document holding questionnaire-wide settings
// (questionnaire.md). Every other document is a question.
const ManifestID = "questionnaire"

// QuestionMetadata is the frontmatter of a question or manifest document.
// Options are a list so their authoring order survives the frontmatter
// decoder.
type QuestionMetadata struct {
	ID       string           `json:"id" mapstructure:"id"`
	Question string           `json:"question" mapstructure:"question"`
	Options  []map[string]any `json:"options" mapstructure:"options"`

	// Manifest only.
	Title    string                    `json:"title" mapstructure:"title"`
	Start    string                    `json:"start" mapstructure:"start"`
	Patterns map[string]map[string]any `json:"patterns" mapstructure:"patterns"`
}
