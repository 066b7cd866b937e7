package beatsaver

import (
	"beatfetch/internal"
)

// interpretFunc turns a transport outcome into a domain value. Both the
// blocking and the async paths go through the same functions.
type interpretFunc[T any] func(resp *internal.Response, err error) (T, error)

func interpretBeatmap(resp *internal.Response, err error) (*internal.Beatmap, error) {
	body, err := interpretBytes(resp, err)
	if err != nil {
		return nil, err
	}

	var beatmap internal.Beatmap
	if err := beatmap.Deserialize(body); err != nil {
		return nil, internal.NewClientError(resp.StatusCode, "malformed beatmap document", internal.ErrInvalidResponse).
			WithCause(err)
	}
	return &beatmap, nil
}

func interpretPage(resp *internal.Response, err error) (*internal.Page, error) {
	body, err := interpretBytes(resp, err)
	if err != nil {
		return nil, err
	}

	var page internal.Page
	if err := page.Deserialize(body); err != nil {
		return nil, internal.NewClientError(resp.StatusCode, "malformed search page", internal.ErrInvalidResponse).
			WithCause(err)
	}
	return &page, nil
}

func interpretBytes(resp *internal.Response, err error) ([]byte, error) {
	if err != nil {
		return nil, err
	}
	if resp == nil {
		return nil, internal.NewClientError(0, "no response received", internal.ErrNetwork)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, internal.NewStatusError("", resp.StatusCode)
	}
	return resp.Body, nil
}
