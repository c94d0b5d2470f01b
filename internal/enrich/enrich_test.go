package enrich

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/require"

	archivememory "github.com/matheusjv11/wongames-api/internal/archive/memory"
)

type stubFetcher struct {
	body []byte
	err  error
}

func (s *stubFetcher) FetchDetail(context.Context, string) ([]byte, error) {
	return s.body, s.err
}

func TestFetchExtractsDescription(t *testing.T) {
	t.Parallel()

	const page = `<html><body>
		<div class="description">An <b>epic</b> role-playing game.</div>
	</body></html>`

	e := New(&stubFetcher{body: []byte(page)}, nil, Config{}, nil)
	info, err := e.Fetch(context.Background(), "the_witcher_3")
	require.NoError(t, err)

	require.Equal(t, "BR0", info.Rating)
	require.Equal(t, "An epic role-playing game.", info.ShortDescription)
	require.Equal(t, "An <b>epic</b> role-playing game.", info.Description)
}

func TestFetchTruncatesShortDescription(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("a", 500)
	page := `<div class="description">` + long + `</div>`

	e := New(&stubFetcher{body: []byte(page)}, nil, Config{}, nil)
	info, err := e.Fetch(context.Background(), "some_game")
	require.NoError(t, err)

	require.Equal(t, 160, utf8.RuneCountInString(info.ShortDescription))
	require.Equal(t, long[:160], info.ShortDescription)
	require.Equal(t, long, info.Description)
}

func TestFetchMissingDescriptionIsFatal(t *testing.T) {
	t.Parallel()

	e := New(&stubFetcher{body: []byte(`<div class="details">nothing here</div>`)}, nil, Config{}, nil)
	_, err := e.Fetch(context.Background(), "some_game")
	require.ErrorIs(t, err, ErrDescriptionMissing)
}

func TestFetchPropagatesFetchError(t *testing.T) {
	t.Parallel()

	fetchErr := errors.New("connection refused")
	e := New(&stubFetcher{err: fetchErr}, nil, Config{}, nil)
	_, err := e.Fetch(context.Background(), "some_game")
	require.ErrorIs(t, err, fetchErr)
}

func TestFetchArchivesRawPage(t *testing.T) {
	t.Parallel()

	const page = `<div class="description">archived</div>`
	store := archivememory.NewBlobStore()

	e := New(&stubFetcher{body: []byte(page)}, store, Config{ArchivePrefix: "pages"}, nil)
	_, err := e.Fetch(context.Background(), "some_game")
	require.NoError(t, err)

	data, ok := store.Object("pages/some_game.html")
	require.True(t, ok)
	require.Equal(t, page, string(data))
}
