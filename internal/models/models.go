package models

// TOCEntry is one entry of a PDF's table of contents, extracted from
// the document's bookmark metadata. Level starts at 1.
type TOCEntry struct {
	Level      int
	Heading    string
	PageNumber int
}

// ChunkMetadata carries the heading context of a chunk.
type ChunkMetadata struct {
	DocumentTitle string
	// Headings holds the governing heading path, ordered by depth.
	Headings []Heading
	Source   string
}

// Heading is a single (level, text) pair on a chunk's heading path.
type Heading struct {
	Level int
	Text  string
}

// SearchResult is one ranked hit from the vector store.
type SearchResult struct {
	PageContent string
	Metadata    ChunkMetadata
	Score       float32
}
