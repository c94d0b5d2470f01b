package gog

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const catalogPayload = `{
	"products": [
		{
			"title": "The Witcher 3: Wild Hunt",
			"slug": "the_witcher_3_wild_hunt",
			"price": {"amount": "29.99"},
			"globalReleaseDate": 1431993600,
			"genres": ["Role-playing", "Adventure"],
			"supportedOperatingSystems": ["windows", "linux"],
			"developer": "CD PROJEKT RED",
			"publisher": "CD PROJEKT RED"
		},
		{
			"title": "Cyberpunk 2077",
			"slug": "cyberpunk_2077",
			"price": {"amount": "59.99"},
			"globalReleaseDate": "1607558400",
			"genres": ["Role-playing"],
			"supportedOperatingSystems": ["windows"],
			"developer": "CD PROJEKT RED",
			"publisher": "CD PROJEKT RED"
		}
	]
}`

func TestFetchPageDecodesProducts(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/games/ajax/filtered", r.URL.Path)
		require.Equal(t, "game", r.URL.Query().Get("mediaType"))
		require.Equal(t, "1", r.URL.Query().Get("page"))
		require.Equal(t, "popularity", r.URL.Query().Get("sort"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(catalogPayload))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	products, err := client.FetchPage(context.Background())
	require.NoError(t, err)
	require.Len(t, products, 2)

	first := products[0]
	require.Equal(t, "The Witcher 3: Wild Hunt", first.Title)
	require.Equal(t, "the_witcher_3_wild_hunt", first.Slug)
	require.Equal(t, "29.99", first.Price.Amount)
	require.Equal(t, "1431993600", first.GlobalReleaseDate.String())
	require.Equal(t, []string{"Role-playing", "Adventure"}, first.Genres)
	require.Equal(t, []string{"windows", "linux"}, first.SupportedOperatingSystems)

	// Quoted epoch strings decode the same way as bare numbers.
	require.Equal(t, "1607558400", products[1].GlobalReleaseDate.String())
}

func TestFetchPageServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	_, err := client.FetchPage(context.Background())
	require.Error(t, err)
}

func TestFetchPageBadJSON(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>not json</html>"))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	_, err := client.FetchPage(context.Background())
	require.ErrorContains(t, err, "decode catalog page")
}

func TestFetchDetailReturnsBody(t *testing.T) {
	t.Parallel()

	const page = `<html><body><div class="description">A fine game.</div></body></html>`
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/game/the_witcher_3_wild_hunt", r.URL.Path)
		_, _ = w.Write([]byte(page))
	}))
	defer srv.Close()

	client := New(Config{BaseURL: srv.URL, Timeout: 5 * time.Second}, nil)
	body, err := client.FetchDetail(context.Background(), "the_witcher_3_wild_hunt")
	require.NoError(t, err)
	require.Equal(t, page, string(body))
}
