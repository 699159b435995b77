package pdf

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"rsc.io/pdf"
)

func words(n int) string {
	w := make([]string, n)
	for i := range w {
		w[i] = "w" + strconv.Itoa(i)
	}
	return strings.Join(w, " ")
}

func TestChunkByWords_Empty(t *testing.T) {
	for _, text := range []string{"", "   ", "\n\t\n"} {
		chunks, err := ChunkByWords(text, 10, 2)
		require.NoError(t, err)
		require.Empty(t, chunks, "text=%q", text)
	}
}

func TestChunkByWords_InvalidWindow(t *testing.T) {
	cases := []struct{ size, overlap int }{
		{0, 0},
		{-1, 0},
		{5, -1},
		{5, 5},
		{5, 6},
	}
	for _, tc := range cases {
		_, err := ChunkByWords("a b c", tc.size, tc.overlap)
		require.ErrorIs(t, err, ErrInvalidWindow, "size=%d overlap=%d", tc.size, tc.overlap)
	}
}

func TestChunkByWords_WindowsFollowTheStep(t *testing.T) {
	cases := []struct{ total, size, overlap int }{
		{25, 10, 3},
		{100, 10, 0},
		{900, 1000, 200},
		{1000, 1000, 200},
		{2500, 1000, 200},
		{7, 3, 2},
	}
	for _, tc := range cases {
		all := strings.Fields(words(tc.total))
		chunks, err := ChunkByWords(strings.Join(all, " "), tc.size, tc.overlap)
		require.NoError(t, err)

		step := tc.size - tc.overlap
		require.Len(t, chunks, (tc.total+step-1)/step, "one window per step start, %+v", tc)
		for i, c := range chunks {
			start := i * step
			end := min(start+tc.size, tc.total)
			require.Equal(t, strings.Join(all[start:end], " "), c, "chunk %d of %+v", i, tc)
			if i == 0 {
				continue
			}
			prev := strings.Fields(chunks[i-1])
			if len(prev) == tc.size {
				cw := strings.Fields(c)
				shared := min(tc.overlap, len(cw))
				require.Equal(t, prev[len(prev)-shared:], cw[:shared], "chunk %d of %+v", i, tc)
			}
		}
	}
}

func TestChunkByWords_TailChunks(t *testing.T) {
	chunks, err := ChunkByWords(words(10), 4, 2)
	require.NoError(t, err)
	require.Equal(t, []string{
		"w0 w1 w2 w3",
		"w2 w3 w4 w5",
		"w4 w5 w6 w7",
		"w6 w7 w8 w9",
		"w8 w9",
	}, chunks)

	chunks, err = ChunkByWords(words(1000), 1000, 200)
	require.NoError(t, err)
	require.Len(t, chunks, 2)
	require.Len(t, strings.Fields(chunks[1]), 200)
	require.True(t, strings.HasPrefix(chunks[1], "w800 "))
}

func TestChunkByWords_ShortText(t *testing.T) {
	chunks, err := ChunkByWords("only three words", 1000, 200)
	require.NoError(t, err)
	require.Equal(t, []string{"only three words"}, chunks)
}

func TestChunkByWords_CollapsesWhitespace(t *testing.T) {
	chunks, err := ChunkByWords("--- Page 1 ---\n\nfire   exit\tsigns", 3, 1)
	require.NoError(t, err)
	require.Equal(t, []string{"--- Page 1", "1 --- fire", "fire exit signs", "signs"}, chunks)
}

// ---------------------------------------------------------------------------
// Extraction
// ---------------------------------------------------------------------------

func TestPageContent(t *testing.T) {
	runs := []pdf.Text{
		{FontSize: 12, X: 72, Y: 720, W: 7.2, S: "F"},
		{FontSize: 12, X: 79.2, Y: 720, W: 7.2, S: "i"},
		{FontSize: 12, X: 86.4, Y: 720, W: 7.2, S: "r"},
		{FontSize: 12, X: 93.6, Y: 720, W: 7.2, S: "e"},
		// a skipped space leaves a horizontal gap
		{FontSize: 12, X: 108, Y: 720, W: 7.2, S: "e"},
		{FontSize: 12, X: 115.2, Y: 720, W: 7.2, S: "x\x00"},
		// baseline moves down a line
		{FontSize: 12, X: 72, Y: 706, W: 7.2, S: "o"},
		{FontSize: 12, X: 79.2, Y: 706, W: 7.2, S: "k"},
	}
	require.Equal(t, "Fire ex\nok", pageContent(runs))
	require.Equal(t, "", pageContent(nil))
}

func TestExtractText_PageMarkers(t *testing.T) {
	text, err := ExtractText(filepath.Join("testdata", "firesafety.pdf"))
	require.NoError(t, err)
	require.Equal(t,
		"\n\n--- Page 1 ---\n\nFire exits must stay clear."+
			"\n\n--- Page 3 ---\n\nEvacuation drill\nevery month.",
		text, "page 2 has no text and gets no marker")
}

// ---------------------------------------------------------------------------
// Load
// ---------------------------------------------------------------------------

func TestLoad_Loaded(t *testing.T) {
	doc := Load(filepath.Join("testdata", "firesafety.pdf"), 1000, 200)
	require.Equal(t, StatusLoaded, doc.Status)
	require.NoError(t, doc.Err)
	require.Equal(t, 1, doc.Len())
	require.Equal(t, "firesafety.pdf_chunk_0", doc.Chunks[0].ID)
	require.Equal(t,
		"--- Page 1 --- Fire exits must stay clear. --- Page 3 --- Evacuation drill every month.",
		doc.Context())
}

func TestLoad_NoText(t *testing.T) {
	doc := Load(filepath.Join("testdata", "blank.pdf"), 1000, 200)
	require.Equal(t, StatusEmpty, doc.Status)
	require.NoError(t, doc.Err)
	require.Zero(t, doc.Len())
}

func TestLoad_MissingFile(t *testing.T) {
	doc := Load(filepath.Join(t.TempDir(), "missing.pdf"), 1000, 200)
	require.Equal(t, StatusFailed, doc.Status)
	require.Error(t, doc.Err)
	require.Empty(t, doc.Chunks)
	require.Equal(t, "", doc.Context())
}

func TestLoad_NotAPDF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.pdf")
	require.NoError(t, os.WriteFile(path, []byte("plain text, not a pdf"), 0o600))

	doc := Load(path, 1000, 200)
	require.Equal(t, StatusFailed, doc.Status)
	require.Error(t, doc.Err)
	require.Zero(t, doc.Len())
}

func TestDocument_Context(t *testing.T) {
	var nilDoc *Document
	require.Equal(t, "", nilDoc.Context())
	require.Zero(t, nilDoc.Len())
}
