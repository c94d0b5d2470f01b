// Package enrich extracts description content from GOG detail pages.
package enrich

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/matheusjv11/wongames-api/internal/catalog"
)

// ErrDescriptionMissing is returned when the detail page carries no
// description element. The item cannot be enriched and its game creation
// must be aborted; no default is substituted.
var ErrDescriptionMissing = errors.New("description element not found")

const (
	descriptionSelector   = ".description"
	shortDescriptionLimit = 160

	// placeholderRating is attached to every game; no rating is scraped.
	placeholderRating = "BR0"
)

// DetailFetcher retrieves the raw HTML of a product detail page.
type DetailFetcher interface {
	FetchDetail(ctx context.Context, productSlug string) ([]byte, error)
}

// Config controls optional raw-page archival.
type Config struct {
	// ArchivePrefix is prepended to blob paths when an archive is set.
	ArchivePrefix string
}

// Enricher fetches a detail page and extracts its description content.
type Enricher struct {
	fetcher DetailFetcher
	archive catalog.BlobStore
	cfg     Config
	logger  *zap.Logger
}

// New constructs an Enricher. archive may be nil, in which case fetched
// pages are not archived.
func New(fetcher DetailFetcher, archive catalog.BlobStore, cfg Config, logger *zap.Logger) *Enricher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Enricher{
		fetcher: fetcher,
		archive: archive,
		cfg:     cfg,
		logger:  logger,
	}
}

// Fetch retrieves the detail page for productSlug and extracts the rating
// placeholder, the plain-text short description truncated to 160 characters,
// and the full description markup.
func (e *Enricher) Fetch(ctx context.Context, productSlug string) (catalog.Enrichment, error) {
	body, err := e.fetcher.FetchDetail(ctx, productSlug)
	if err != nil {
		return catalog.Enrichment{}, fmt.Errorf("fetch detail page: %w", err)
	}

	if e.archive != nil {
		blobPath := path.Join(e.cfg.ArchivePrefix, productSlug+".html")
		uri, err := e.archive.PutObject(ctx, blobPath, "text/html; charset=utf-8", bytes.NewReader(body))
		if err != nil {
			return catalog.Enrichment{}, fmt.Errorf("archive detail page: %w", err)
		}
		e.logger.Debug("detail page archived", zap.String("slug", productSlug), zap.String("uri", uri))
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return catalog.Enrichment{}, fmt.Errorf("parse detail page: %w", err)
	}

	sel := doc.Find(descriptionSelector).First()
	if sel.Length() == 0 {
		return catalog.Enrichment{}, fmt.Errorf("select description for %q: %w", productSlug, ErrDescriptionMissing)
	}

	markup, err := sel.Html()
	if err != nil {
		return catalog.Enrichment{}, fmt.Errorf("render description markup: %w", err)
	}

	return catalog.Enrichment{
		Rating:           placeholderRating,
		ShortDescription: truncate(sel.Text(), shortDescriptionLimit),
		Description:      markup,
	}, nil
}

// truncate cuts s to at most limit characters, with no word-boundary logic.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
