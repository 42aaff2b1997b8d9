package plantnet

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIdentifyRaw(t *testing.T) {
	var gotOrgans, gotFilename string
	var gotImage []byte

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.URL.Query().Get("api-key"))
		assert.Equal(t, "pt", r.URL.Query().Get("lang"))

		require.NoError(t, r.ParseMultipartForm(1<<20))
		gotOrgans = r.FormValue("organs")
		file, header, err := r.FormFile("images")
		require.NoError(t, err)
		defer file.Close()
		gotFilename = header.Filename
		gotImage, _ = io.ReadAll(file)

		w.WriteHeader(http.StatusOK)
		_, _ = io.WriteString(w, `{"results":[]}`)
	}))
	defer srv.Close()

	c := &Client{Client: srv.Client(), BaseURL: srv.URL}
	res, err := c.IdentifyRaw(context.Background(), "secret", Image{
		Filename: "leaf.jpg",
		Data:     []byte("jpegdata"),
	})
	require.NoError(t, err)

	assert.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, "leaf", gotOrgans)
	assert.Equal(t, "leaf.jpg", gotFilename)
	assert.Equal(t, []byte("jpegdata"), gotImage)
}

func TestIdentifyRawDefaultFilename(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		_, header, err := r.FormFile("images")
		require.NoError(t, err)
		assert.Equal(t, "upload.jpg", header.Filename)
		_, _ = io.WriteString(w, `{}`)
	}))
	defer srv.Close()

	c := &Client{Client: srv.Client(), BaseURL: srv.URL}
	_, err := c.IdentifyRaw(context.Background(), "secret", Image{Data: []byte("x")})
	require.NoError(t, err)
}

func TestIdentify(t *testing.T) {
	t.Run("decodes results", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = io.WriteString(w, `{"results":[{"score":0.88,"species":{"scientificNameWithoutAuthor":"Handroanthus albus","commonNames":["Ipê-amarelo"]}}]}`)
		}))
		defer srv.Close()

		c := &Client{Client: srv.Client(), BaseURL: srv.URL}
		out, err := c.Identify(context.Background(), "secret", Image{Data: []byte("x")})
		require.NoError(t, err)
		require.Len(t, out.Results, 1)
		assert.Equal(t, 0.88, out.Results[0].Score)
		assert.Equal(t, "Handroanthus albus", out.Results[0].Species.ScientificNameWithoutAuthor)
	})

	t.Run("vendor error carries the message", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"results":[],"message":"Species not found"}`)
		}))
		defer srv.Close()

		c := &Client{Client: srv.Client(), BaseURL: srv.URL}
		_, err := c.Identify(context.Background(), "secret", Image{Data: []byte("x")})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "404")
		assert.Contains(t, err.Error(), "Species not found")
	})
}

func TestBestMatch(t *testing.T) {
	resp := func(score float64, sci string, commons ...string) *IdentifyResponse {
		return &IdentifyResponse{Results: []Result{{
			Score:   score,
			Species: Species{ScientificNameWithoutAuthor: sci, CommonNames: commons},
		}}}
	}

	t.Run("confident with common name", func(t *testing.T) {
		m, ok := BestMatch(resp(0.9, "Handroanthus albus", "Ipê-amarelo", "Ipê"))
		require.True(t, ok)
		assert.Equal(t, "Ipê-amarelo", m.CommonName)
		assert.Equal(t, "Handroanthus albus", m.ScientificName)
		assert.Equal(t, 0.9, m.Score)
	})

	t.Run("no common name falls back to genus", func(t *testing.T) {
		m, ok := BestMatch(resp(0.9, "Handroanthus albus"))
		require.True(t, ok)
		assert.Equal(t, "Handroanthus", m.CommonName)
	})

	t.Run("score at threshold is rejected", func(t *testing.T) {
		_, ok := BestMatch(resp(ConfidenceThreshold, "Handroanthus albus"))
		assert.False(t, ok)
	})

	t.Run("score below threshold is rejected", func(t *testing.T) {
		_, ok := BestMatch(resp(0.05, "Handroanthus albus"))
		assert.False(t, ok)
	})

	t.Run("empty results", func(t *testing.T) {
		_, ok := BestMatch(&IdentifyResponse{})
		assert.False(t, ok)
		_, ok = BestMatch(nil)
		assert.False(t, ok)
	})
}
