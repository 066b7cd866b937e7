package beatsaver

import (
	"context"
	"sync/atomic"
	"time"

	"beatfetch/internal"
)

// The async variants return immediately. finished is called exactly once,
// possibly on a goroutine owned by the transport, so it must not assume it
// runs on the caller's goroutine. A nil finished is allowed; use the
// returned Task instead.

// GetBeatmapByKeyAsync is the async form of GetBeatmapByKey
func (c *Client) GetBeatmapByKeyAsync(ctx context.Context, key string, finished func(*internal.Beatmap, bool)) *Task[*internal.Beatmap] {
	if !c.validArgument("key", key) {
		return failedTask(finished)
	}
	return fetchAsync(ctx, c, "map by key", c.endpoints.MapDetail(key), c.settings.MetadataTimeout, finished, nil, interpretBeatmap)
}

// GetBeatmapByHashAsync is the async form of GetBeatmapByHash
func (c *Client) GetBeatmapByHashAsync(ctx context.Context, hash string, finished func(*internal.Beatmap, bool)) *Task[*internal.Beatmap] {
	if !c.validArgument("hash", hash) {
		return failedTask(finished)
	}
	return fetchAsync(ctx, c, "map by hash", c.endpoints.MapByHash(hash), c.settings.MetadataTimeout, finished, nil, interpretBeatmap)
}

// SearchPagedAsync is the async form of SearchPaged
func (c *Client) SearchPagedAsync(ctx context.Context, query string, pageIndex int, finished func(*internal.Page, bool)) *Task[*internal.Page] {
	if pageIndex < 0 {
		c.logger.Debug("search rejected: negative page index %d", pageIndex)
		return failedTask(finished)
	}
	return fetchAsync(ctx, c, "search", c.endpoints.SearchText(query, pageIndex), c.settings.MetadataTimeout, finished, nil, interpretPage)
}

// DownloadBeatmapAsync is the async form of DownloadBeatmap. progress
// receives byte counts while the archive is fetched.
func (c *Client) DownloadBeatmapAsync(ctx context.Context, beatmap *internal.Beatmap, finished func(bool), progress internal.ProgressFunc) *Task[ExtractionResult] {
	onDone := func(result ExtractionResult, _ bool) {
		if finished != nil {
			finished(result.OK())
		}
	}

	url, dest, err := c.prepareDownload(beatmap)
	if err != nil {
		c.logFailure("download", "", err)
		task := newTask(onDone)
		task.resolve(ExtractionResult{Outcome: ExtractionFailure, Destination: dest, Err: err}, false)
		return task
	}
	return fetchAsync(ctx, c, "download", url, c.settings.DownloadTimeout, onDone, progress, c.extractInto(dest))
}

// GetCoverImageAsync is the async form of GetCoverImage
func (c *Client) GetCoverImageAsync(ctx context.Context, beatmap *internal.Beatmap, finished func([]byte), progress internal.ProgressFunc) *Task[[]byte] {
	onDone := func(data []byte, _ bool) {
		if finished != nil {
			finished(data)
		}
	}

	url, ok := c.coverURL(beatmap)
	if !ok {
		task := newTask(onDone)
		task.resolve(nil, false)
		return task
	}
	return fetchAsync(ctx, c, "cover", url, c.settings.DownloadTimeout, onDone, progress, interpretBytes)
}

func failedTask[T any](finished func(T, bool)) *Task[T] {
	task := newTask(finished)
	var zero T
	task.resolve(zero, false)
	return task
}

// fetchAsync is the callback twin of fetch
func fetchAsync[T any](ctx context.Context, c *Client, op, url string, timeout time.Duration, finished func(T, bool), progress internal.ProgressFunc, interpret interpretFunc[T]) *Task[T] {
	task := newTask(finished)
	c.logger.Debug("task %s: %s %s", task.ID(), op, url)

	var delivered atomic.Bool
	c.transport.GetAsync(ctx, url, timeout, func(resp *internal.Response, err error) {
		// A second completion must not interpret again: downloads would re-extract
		if !delivered.CompareAndSwap(false, true) {
			c.logger.Debug("task %s: ignoring repeated completion", task.ID())
			return
		}
		value, err := interpret(resp, err)
		if err != nil {
			c.logFailure(op, url, err)
		}
		task.resolve(value, err == nil)
	}, progress)

	return task
}
