package dataset

// SourceRecordV1 is one line of a "source" format dataset.
type SourceRecordV1 struct {
	// ID is a name-based UUID of Path, stable across runs of the same project.
	ID         string `json:"id"`
	Path       string `json:"path"` // POSIX relative path
	Content    string `json:"content"`
	TokenCount int    `json:"token_count"`
}

// MessageV1 is one chat turn.
type MessageV1 struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRecordV1 is one line of a "chat" format dataset.
type ChatRecordV1 struct {
	Messages []MessageV1 `json:"messages"`
}

// ProjectStructureV1 is the assistant answer of the project-structure chat
// record appended to chat training sets.
type ProjectStructureV1 struct {
	ProjectStructure []string `json:"project_structure"`
}
