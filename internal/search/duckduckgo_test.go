package search

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

const resultsPage = `<html><body>
<div class="results">
  <div class="result results_links results_links_deep web-result">
    <h2><a class="result__a" href="//duckduckgo.com/l/?uddg=https%3A%2F%2Fen.wikipedia.org%2Fwiki%2FParis&amp;rut=abc">Paris - <b>Wikipedia</b></a></h2>
    <a class="result__snippet" href="#">Paris is the <b>capital</b> of France.</a>
  </div>
  <div class="result results_links web-result">
    <h2><a class="result__a" href="https://france.fr">France.fr</a></h2>
  </div>
  <div class="result results_links web-result">
    <h2><a class="result__a" href="https://third.example">Third</a></h2>
    <a class="result__snippet" href="#">third snippet</a>
  </div>
  <div class="result--ad">
    <a class="result__a" href="https://ads.example">Ad</a>
  </div>
</div>
</body></html>`

func newServer(t *testing.T, status int, body string) (*httptest.Server, *string) {
	t.Helper()
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &gotQuery
}

func TestResults_ParsesPage(t *testing.T) {
	srv, q := newServer(t, http.StatusOK, resultsPage)
	d := NewDuckDuckGo(WithBaseURL(srv.URL), WithMaxResults(10))

	results, err := d.Results(context.Background(), "capital of France")
	require.NoError(t, err)
	require.Equal(t, "capital of France", *q)
	require.Len(t, results, 3)
	require.Equal(t, Result{
		Title:   "Paris - Wikipedia",
		URL:     "https://en.wikipedia.org/wiki/Paris",
		Snippet: "Paris is the capital of France.",
	}, results[0])
	require.Equal(t, "https://france.fr", results[1].URL)
	require.Empty(t, results[1].Snippet)
}

func TestResults_RespectsLimit(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, resultsPage)
	d := NewDuckDuckGo(WithBaseURL(srv.URL), WithMaxResults(1))

	results, err := d.Results(context.Background(), "paris")
	require.NoError(t, err)
	require.Len(t, results, 1)
}

func TestSearch_FormatsLines(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, resultsPage)
	d := NewDuckDuckGo(WithBaseURL(srv.URL), WithMaxResults(2))

	out, err := d.Search(context.Background(), "paris")
	require.NoError(t, err)
	require.Equal(t,
		"Paris - Wikipedia: Paris is the capital of France. (https://en.wikipedia.org/wiki/Paris)\n"+
			"France.fr (https://france.fr)",
		out)
}

func TestSearch_NoResults(t *testing.T) {
	srv, _ := newServer(t, http.StatusOK, "<html><body>nothing</body></html>")
	out, err := NewDuckDuckGo(WithBaseURL(srv.URL)).Search(context.Background(), "zzqx")
	require.NoError(t, err)
	require.Equal(t, "No results found for: zzqx", out)
}

func TestSearch_Errors(t *testing.T) {
	srv, _ := newServer(t, http.StatusTooManyRequests, "slow down")
	_, err := NewDuckDuckGo(WithBaseURL(srv.URL)).Search(context.Background(), "paris")
	require.Error(t, err)
	require.Contains(t, err.Error(), "429")

	_, err = NewDuckDuckGo().Search(context.Background(), "   ")
	require.Error(t, err)
}

func TestUnwrapRedirect(t *testing.T) {
	require.Equal(t, "https://a.example/x", unwrapRedirect("//duckduckgo.com/l/?uddg=https%3A%2F%2Fa.example%2Fx&rut=1"))
	require.Equal(t, "https://plain.example", unwrapRedirect("https://plain.example"))
}
