package beatsaver

import (
	"context"
	"fmt"
	"path/filepath"

	"beatfetch/internal"
)

// ExtractionOutcome is the tagged result of unpacking a map archive
type ExtractionOutcome int

const (
	ExtractionFailure ExtractionOutcome = iota
	ExtractionSuccess
)

func (o ExtractionOutcome) String() string {
	if o == ExtractionSuccess {
		return "success"
	}
	return "failure"
}

// ExtractionResult describes a finished download. Code is the raw extractor
// status and is only meaningful when Extracted is true.
type ExtractionResult struct {
	Outcome     ExtractionOutcome
	Code        int
	Extracted   bool
	Destination string
	Entries     int
	Err         error
}

// OK reports whether the archive was extracted successfully
func (r ExtractionResult) OK() bool {
	return r.Outcome == ExtractionSuccess
}

// outcomeOf maps an extractor status to an outcome. 0 is success.
func outcomeOf(code int) ExtractionOutcome {
	if code == 0 {
		return ExtractionSuccess
	}
	return ExtractionFailure
}

// FolderName returns the sanitized folder a map is extracted into, or "" for
// a nil beatmap
func (c *Client) FolderName(beatmap *internal.Beatmap) string {
	if beatmap == nil {
		return ""
	}
	name := fmt.Sprintf("%s (%s - %s)", beatmap.Key, beatmap.Metadata.SongName, beatmap.Metadata.LevelAuthorName)
	return c.sanitizer.SanitizeName(name)
}

// Destination returns the full extraction path for beatmap, or "" for a nil
// beatmap
func (c *Client) Destination(beatmap *internal.Beatmap) string {
	if beatmap == nil {
		return ""
	}
	return filepath.Join(c.levels.CustomLevelsPath(), c.FolderName(beatmap))
}

// DownloadBeatmap fetches the archive of beatmap and extracts it into the
// custom levels folder. It returns true only if extraction succeeded.
func (c *Client) DownloadBeatmap(ctx context.Context, beatmap *internal.Beatmap) bool {
	return c.DownloadBeatmapResult(ctx, beatmap).OK()
}

// DownloadBeatmapResult is DownloadBeatmap with the full extraction result
func (c *Client) DownloadBeatmapResult(ctx context.Context, beatmap *internal.Beatmap) ExtractionResult {
	url, dest, err := c.prepareDownload(beatmap)
	if err != nil {
		c.logFailure("download", "", err)
		return ExtractionResult{Outcome: ExtractionFailure, Destination: dest, Err: err}
	}
	result, _ := fetch(ctx, c, "download", url, c.settings.DownloadTimeout, nil, c.extractInto(dest))
	return result
}

func (c *Client) prepareDownload(beatmap *internal.Beatmap) (string, string, error) {
	if beatmap == nil {
		return "", "", internal.NewValidationError("beatmap", "beatmap cannot be nil")
	}

	dest := c.Destination(beatmap)

	ref := beatmap.DownloadURL
	if ref == "" {
		ref = beatmap.DirectDownload
	}
	url, err := c.endpoints.Resolve(ref)
	if err != nil {
		return "", dest, err
	}
	return url, dest, nil
}

// extractInto returns the interpret step of a download. It runs on the
// goroutine that delivered the response.
func (c *Client) extractInto(dest string) interpretFunc[ExtractionResult] {
	return func(resp *internal.Response, err error) (ExtractionResult, error) {
		result := ExtractionResult{Outcome: ExtractionFailure, Destination: dest}

		data, err := interpretBytes(resp, err)
		if err != nil {
			result.Err = err
			return result, err
		}

		code, err := c.extractor.Extract(data, dest, func(name string) error {
			result.Entries++
			c.logger.Debug("extracting %s", name)
			return nil
		})
		result.Code = code
		result.Extracted = true
		result.Outcome = outcomeOf(code)

		if result.Outcome != ExtractionSuccess {
			ce := internal.NewExtractionError(code, dest, err)
			result.Err = ce
			return result, ce
		}
		if err != nil {
			c.logger.Debug("extractor reported success with error: %v", err)
		}

		c.logger.Info("extracted %d entries into %s", result.Entries, dest)
		return result, nil
	}
}
