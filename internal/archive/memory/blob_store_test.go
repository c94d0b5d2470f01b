package memory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPutObjectStoresContent(t *testing.T) {
	t.Parallel()

	store := NewBlobStore()

	uri, err := store.PutObject(context.Background(), "pages/portal_2.html", "text/html", strings.NewReader("<html/>"))
	require.NoError(t, err)
	require.Equal(t, "memory://pages/portal_2.html", uri)

	content, ok := store.Object("pages/portal_2.html")
	require.True(t, ok)
	require.Equal(t, "<html/>", string(content))
	require.Equal(t, 1, store.Len())

	_, ok = store.Object("pages/missing.html")
	require.False(t, ok)
}
