package ingest

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePage = `<!DOCTYPE html>
<html>
<head>
	<title>Fallback Title</title>
	<meta property="og:title" content="Backend Engineer">
	<meta property="og:site_name" content="Acme Corp">
</head>
<body>
	<nav>Home | Jobs</nav>
	<div class="job-description">
		<p>Build and run APIs.</p>
		<p>Requirements: Go, SQL.</p>
	</div>
	<footer>About us</footer>
</body>
</html>`

func TestFetchPosting(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(samplePage))
	}))
	defer srv.Close()

	posting, err := FetchPosting(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", posting.Title)
	assert.Equal(t, "Acme Corp", posting.CompanyName)
	assert.Contains(t, posting.Description, "Build and run APIs.")
	assert.NotContains(t, posting.Description, "Home | Jobs")
	assert.NotContains(t, posting.Description, "About us")
}

func TestFetchPostingTitleFallback(t *testing.T) {
	page := `<html><head><title>Plain Title</title></head>
		<body><main>Job description text here.</main></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(page))
	}))
	defer srv.Close()

	posting, err := FetchPosting(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "Plain Title", posting.Title)
}

func TestFetchPostingErrors(t *testing.T) {
	_, err := FetchPosting(context.Background(), "not a url")
	assert.Error(t, err)

	_, err = FetchPosting(context.Background(), "ftp://example.com/job")
	assert.Error(t, err)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err = FetchPosting(context.Background(), srv.URL)
	assert.ErrorContains(t, err, "HTTP 404")
}
