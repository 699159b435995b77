package pdf

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"rsc.io/pdf"
)

// ErrInvalidWindow is returned for a chunk size/overlap pair that cannot
// advance through the text.
var ErrInvalidWindow = errors.New("pdf: chunk size must be positive and overlap in [0, size)")

// ExtractText reads every page of the PDF at path. Each page with text is
// preceded by a "--- Page N ---" marker.
func ExtractText(path string) (text string, err error) {
	// rsc.io/pdf panics on some malformed streams
	defer func() {
		if r := recover(); r != nil {
			text, err = "", fmt.Errorf("pdf: parse %s: %v", path, r)
		}
	}()

	r, err := pdf.Open(path)
	if err != nil {
		return "", fmt.Errorf("pdf: open %s: %w", path, err)
	}

	var sb strings.Builder
	for i := 1; i <= r.NumPage(); i++ {
		p := r.Page(i)
		if p.V.IsNull() {
			continue
		}
		pageText := pageContent(p.Content().Text)
		if strings.TrimSpace(pageText) == "" {
			continue
		}
		fmt.Fprintf(&sb, "\n\n--- Page %d ---\n\n", i)
		sb.WriteString(pageText)
	}
	return sb.String(), nil
}

// pageContent joins text runs, inserting line breaks when the baseline moves
// and spaces when there is a horizontal gap between runs.
func pageContent(runs []pdf.Text) string {
	var sb strings.Builder
	for i, t := range runs {
		if i > 0 {
			prev := runs[i-1]
			switch {
			case math.Abs(t.Y-prev.Y) > prev.FontSize/2:
				sb.WriteByte('\n')
			case t.X-(prev.X+prev.W) > t.FontSize*0.15:
				sb.WriteByte(' ')
			}
		}
		sb.WriteString(strings.ReplaceAll(t.S, "\x00", ""))
	}
	return sb.String()
}

// ChunkByWords splits text into windows of size words. A window starts at
// every multiple of size-overlap, so the windows nearest the end may be
// shorter than size and already covered by their predecessor.
func ChunkByWords(text string, size, overlap int) ([]string, error) {
	if size <= 0 || overlap < 0 || overlap >= size {
		return nil, ErrInvalidWindow
	}
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil, nil
	}

	var out []string
	for i := 0; i < len(words); i += size - overlap {
		end := min(i+size, len(words))
		out = append(out, strings.Join(words[i:end], " "))
	}
	return out, nil
}
