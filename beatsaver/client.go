package beatsaver

import (
	"context"
	"errors"
	"time"

	"beatfetch/internal"
	"beatfetch/utils"
)

// Settings is the immutable configuration of a Client
type Settings struct {
	BaseURL string `json:"base_url" validate:"required,http_url"`
	// DownloadTimeout bounds archive and cover fetches
	DownloadTimeout time.Duration `json:"download_timeout" validate:"gt=0"`
	// MetadataTimeout bounds JSON fetches. Zero selects the transport default.
	MetadataTimeout time.Duration `json:"metadata_timeout" validate:"gte=0"`
}

// DefaultSettings returns settings for the public BeatSaver service
func DefaultSettings() Settings {
	return Settings{
		BaseURL:         internal.DefaultBaseURL,
		DownloadTimeout: internal.DefaultDownloadTimeout,
		MetadataTimeout: internal.DefaultMetadataTimeout,
	}
}

// SettingsFromConfig derives client settings from the application config
func SettingsFromConfig(cfg *internal.Config) Settings {
	return Settings{
		BaseURL:         cfg.BaseURL,
		DownloadTimeout: cfg.DownloadTimeout,
		MetadataTimeout: cfg.MetadataTimeout,
	}
}

// Option customizes a Client at construction
type Option func(*Client)

// WithTransport replaces the HTTP transport
func WithTransport(t internal.Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithExtractor replaces the zip extractor
func WithExtractor(e internal.Extractor) Option {
	return func(c *Client) { c.extractor = e }
}

// WithLevelsPath sets where downloaded maps are extracted
func WithLevelsPath(p internal.LevelsPathProvider) Option {
	return func(c *Client) { c.levels = p }
}

// WithSanitizer replaces the folder name sanitizer
func WithSanitizer(s internal.NameSanitizer) Option {
	return func(c *Client) { c.sanitizer = s }
}

// WithLogger sets the logger. The global logger is used otherwise.
func WithLogger(l *internal.SecureLogger) Option {
	return func(c *Client) { c.logger = l }
}

// Client talks to the BeatSaver API. It holds no mutable state after
// construction and is safe for concurrent use.
type Client struct {
	settings  Settings
	endpoints *utils.EndpointBuilder
	transport internal.Transport
	extractor internal.Extractor
	levels    internal.LevelsPathProvider
	sanitizer internal.NameSanitizer
	logger    *internal.SecureLogger
}

// NewClient creates a client for settings. Collaborators not supplied via
// options get the default implementations from utils.
func NewClient(settings Settings, opts ...Option) (*Client, error) {
	if settings.DownloadTimeout == 0 {
		settings.DownloadTimeout = internal.DefaultDownloadTimeout
	}
	if err := internal.ValidateStruct(settings); err != nil {
		return nil, err
	}

	endpoints, err := utils.NewEndpointBuilder(settings.BaseURL)
	if err != nil {
		return nil, err
	}
	settings.BaseURL = endpoints.Base()

	c := &Client{
		settings:  settings,
		endpoints: endpoints,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.logger == nil {
		c.logger = internal.GetLogger()
	}
	if c.transport == nil {
		transport, err := utils.NewHTTPClientWithConfig(&utils.HTTPClientConfig{
			Timeout: settings.MetadataTimeout,
			Logger:  c.logger,
		})
		if err != nil {
			return nil, err
		}
		c.transport = transport
	}
	if c.extractor == nil {
		c.extractor = utils.NewZipExtractor()
	}
	if c.levels == nil {
		c.levels = utils.LevelsDirectory(internal.DefaultCustomLevelsPath)
	}
	if c.sanitizer == nil {
		c.sanitizer = utils.NewFileOperations()
	}

	return c, nil
}

// Settings returns the settings the client was built with
func (c *Client) Settings() Settings {
	return c.settings
}

// GetBeatmapByKey fetches a map by its short key
func (c *Client) GetBeatmapByKey(ctx context.Context, key string) (*internal.Beatmap, bool) {
	if !c.validArgument("key", key) {
		return nil, false
	}
	return fetch(ctx, c, "map by key", c.endpoints.MapDetail(key), c.settings.MetadataTimeout, nil, interpretBeatmap)
}

// GetBeatmapByHash fetches a map by its content hash
func (c *Client) GetBeatmapByHash(ctx context.Context, hash string) (*internal.Beatmap, bool) {
	if !c.validArgument("hash", hash) {
		return nil, false
	}
	return fetch(ctx, c, "map by hash", c.endpoints.MapByHash(hash), c.settings.MetadataTimeout, nil, interpretBeatmap)
}

// SearchPaged runs a text search and returns one page of results
func (c *Client) SearchPaged(ctx context.Context, query string, pageIndex int) (*internal.Page, bool) {
	if pageIndex < 0 {
		c.logger.Debug("search rejected: negative page index %d", pageIndex)
		return nil, false
	}
	return fetch(ctx, c, "search", c.endpoints.SearchText(query, pageIndex), c.settings.MetadataTimeout, nil, interpretPage)
}

// GetCoverImage fetches the cover image of beatmap. The result is empty on
// any failure.
func (c *Client) GetCoverImage(ctx context.Context, beatmap *internal.Beatmap) []byte {
	url, ok := c.coverURL(beatmap)
	if !ok {
		return nil
	}
	data, _ := fetch(ctx, c, "cover", url, c.settings.DownloadTimeout, nil, interpretBytes)
	return data
}

func (c *Client) validArgument(name, value string) bool {
	if value == "" {
		c.logger.Debug("request rejected: empty %s", name)
		return false
	}
	return true
}

func (c *Client) coverURL(beatmap *internal.Beatmap) (string, bool) {
	if beatmap == nil {
		c.logger.Debug("cover rejected: nil beatmap")
		return "", false
	}
	url, err := c.endpoints.Resolve(beatmap.CoverURL)
	if err != nil {
		c.logger.Debug("cover URL of %s unusable: %v", beatmap.Key, err)
		return "", false
	}
	return url, true
}

// fetch is the blocking request path shared by every operation
func fetch[T any](ctx context.Context, c *Client, op, url string, timeout time.Duration, progress internal.ProgressFunc, interpret interpretFunc[T]) (T, bool) {
	resp, err := c.transport.Get(ctx, url, timeout, progress)
	value, err := interpret(resp, err)
	if err != nil {
		c.logFailure(op, url, err)
		return value, false
	}
	return value, true
}

func (c *Client) logFailure(op, url string, err error) {
	var ce *internal.ClientError
	if errors.As(err, &ce) {
		switch {
		case ce.IsCritical():
			c.logger.Error("%s failed for %s: %v", op, url, err)
			return
		case ce.Type == internal.ErrExtractionFailed:
			c.logger.Warn("%s failed for %s: %v", op, url, err)
			return
		}
	}
	if status := internal.StatusCodeOf(err); status != 0 {
		c.logger.Debug("%s failed for %s with status %d: %v", op, url, status, err)
		return
	}
	c.logger.Debug("%s failed for %s: %v", op, url, err)
}
