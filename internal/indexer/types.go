package indexer

// Chunk is one window of a document's text.
// StartChar and EndChar are rune offsets forming the half-open span [StartChar, EndChar).
type Chunk struct {
	Index     int    // Chunk index within document (starts at 0)
	StartChar int    // Inclusive rune offset
	EndChar   int    // Exclusive rune offset
	Text      string // Runes [StartChar, EndChar) of the document
}

// BatchMode controls how many Embed calls an ingestion run makes.
type BatchMode string

const (
	// BatchPerRun embeds every chunk of the run in a single call.
	BatchPerRun BatchMode = "run"
	// BatchPerFile embeds and stores each file's chunks before reading the next file.
	BatchPerFile BatchMode = "file"
)

// IngestRequest describes one ingestion run.
type IngestRequest struct {
	Paths     []string
	ChunkSize int
	Overlap   int
}

// IngestReport summarises a completed ingestion run.
type IngestReport struct {
	Embedder     string `json:"embedder"`
	FilesFound   int    `json:"files_found"`
	FilesSkipped int    `json:"files_skipped"`
	Documents    int    `json:"documents"`
	Chunks       int    `json:"chunks"`
	EmbedCalls   int    `json:"embed_calls"`
	IndexVersion string `json:"index_version"`
}
