// Package gog fetches catalog and detail pages from the GOG storefront.
package gog

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/gocolly/colly/v2"
	"go.uber.org/zap"

	"github.com/matheusjv11/wongames-api/internal/catalog"
	"github.com/matheusjv11/wongames-api/internal/metrics"
)

// Config controls the storefront client.
type Config struct {
	BaseURL   string
	UserAgent string
	Timeout   time.Duration
}

// Client fetches GOG pages using a Colly collector.
type Client struct {
	cfg           Config
	baseCollector *colly.Collector
	logger        *zap.Logger
}

// New builds a Client.
func New(cfg Config, logger *zap.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://www.gog.com"
	}
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.Timeout == 0 {
		cfg.Timeout = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	c := colly.NewCollector(colly.Async(false))
	c.IgnoreRobotsTxt = true
	c.WithTransport(newHTTPTransport())

	return &Client{
		cfg:           cfg,
		baseCollector: c,
		logger:        logger,
	}
}

// FetchPage retrieves the first catalog page of game products sorted by
// popularity and decodes the product list.
func (c *Client) FetchPage(ctx context.Context) ([]catalog.Product, error) {
	url := fmt.Sprintf("%s/games/ajax/filtered?mediaType=game&page=1&sort=popularity", c.cfg.BaseURL)
	body, err := c.get(ctx, "catalog", url)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog page: %w", err)
	}

	var page struct {
		Products []catalog.Product `json:"products"`
	}
	if err := json.Unmarshal(body, &page); err != nil {
		return nil, fmt.Errorf("decode catalog page: %w", err)
	}

	c.logger.Debug("catalog page fetched", zap.Int("products", len(page.Products)))
	return page.Products, nil
}

// FetchDetail retrieves the raw HTML of one product detail page.
func (c *Client) FetchDetail(ctx context.Context, productSlug string) ([]byte, error) {
	url := fmt.Sprintf("%s/game/%s", c.cfg.BaseURL, productSlug)
	body, err := c.get(ctx, "detail", url)
	if err != nil {
		return nil, fmt.Errorf("fetch detail page %q: %w", productSlug, err)
	}
	return body, nil
}

// get executes a single HTTP GET on a clone of the base collector so per
// request state never leaks between fetches.
func (c *Client) get(ctx context.Context, endpoint, url string) ([]byte, error) {
	collector := c.baseCollector.Clone()
	if c.cfg.UserAgent != "" {
		collector.UserAgent = c.cfg.UserAgent
	}
	collector.SetRequestTimeout(c.cfg.Timeout)

	var (
		body     []byte
		fetchErr error
	)
	collector.OnResponse(func(r *colly.Response) {
		body = append([]byte(nil), r.Body...)
	})
	collector.OnError(func(_ *colly.Response, err error) {
		fetchErr = err
	})

	start := time.Now()
	done := make(chan error, 1)
	go func() {
		done <- collector.Visit(url)
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("fetch canceled: %w", ctx.Err())
	case err := <-done:
		metrics.ObserveFetch(endpoint, time.Since(start))
		if err != nil {
			return nil, fmt.Errorf("visit %s: %w", url, err)
		}
		if fetchErr != nil {
			return nil, fmt.Errorf("response %s: %w", url, fetchErr)
		}
		return body, nil
	}
}

func newHTTPTransport() *http.Transport {
	return &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		DialContext: (&net.Dialer{
			Timeout:   10 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		TLSHandshakeTimeout:   15 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
	}
}
