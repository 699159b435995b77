package pdf

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/katakuxiko/agentchat/internal/model"
)

type Status string

const (
	StatusLoaded Status = "loaded"
	StatusEmpty  Status = "empty"
	StatusFailed Status = "failed"
)

// Document is the chunked text of one PDF. A Document with no chunks says
// why through Status: the file had no text, or it could not be read.
type Document struct {
	Path   string
	Status Status
	Chunks []model.Chunk
	Err    error
}

// Load extracts and chunks the PDF at path. It never returns an error;
// failures are recorded on the Document.
func Load(path string, size, overlap int) *Document {
	doc := &Document{Path: path}

	text, err := ExtractText(path)
	if err != nil {
		doc.Status, doc.Err = StatusFailed, err
		return doc
	}
	parts, err := ChunkByWords(text, size, overlap)
	if err != nil {
		doc.Status, doc.Err = StatusFailed, err
		return doc
	}
	if len(parts) == 0 {
		doc.Status = StatusEmpty
		return doc
	}

	name := filepath.Base(path)
	doc.Chunks = make([]model.Chunk, 0, len(parts))
	for i, p := range parts {
		doc.Chunks = append(doc.Chunks, model.Chunk{
			ID:    fmt.Sprintf("%s_chunk_%d", name, i),
			Index: i,
			Text:  p,
		})
	}
	doc.Status = StatusLoaded
	return doc
}

// Context concatenates every chunk, separated by a blank line.
func (d *Document) Context() string {
	if d == nil {
		return ""
	}
	texts := make([]string, len(d.Chunks))
	for i, c := range d.Chunks {
		texts[i] = c.Text
	}
	return strings.Join(texts, "\n\n")
}

func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.Chunks)
}
