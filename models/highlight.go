package models

// HighlightQuery is the ephemeral request value for one highlight resolution.
// Page is untyped because clients send it as either a JSON number or a string.
type HighlightQuery struct {
	Filename      string      `json:"filename"`
	Page          interface{} `json:"page"`
	AnswerSnippet string      `json:"answerSnippet"`
	OrgURL        string      `json:"orgUrl,omitempty"`
}

// Highlight is a validated literal text span tied to a specific chunk.
type Highlight struct {
	Text    string `json:"text"`
	ChunkID int64  `json:"chunkId"`
}

// ChunkView is the serialized candidate chunk returned to the viewer.
type ChunkView struct {
	ID     int64   `json:"id"`
	Text   string  `json:"text"`
	Page   *int    `json:"page"`
	Source *string `json:"source"`
}

// HighlightResponse is the full resolution result. Highlight is null when no
// validated span was found; Chunks always lists every located candidate.
type HighlightResponse struct {
	Highlight *Highlight  `json:"highlight"`
	Chunks    []ChunkView `json:"chunks"`
}

// NewChunkView serializes a stored chunk for the response payload.
func NewChunkView(c Chunk) ChunkView {
	view := ChunkView{
		ID:   c.ID,
		Text: c.Content,
		Page: c.PageNumber(),
	}
	if c.Metadata.Source != "" {
		source := c.Metadata.Source
		view.Source = &source
	}
	return view
}
