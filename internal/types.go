package internal

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// Beatmap is a shared map as described by the BeatSaver API
type Beatmap struct {
	ID             string          `json:"_id"`
	Key            string          `json:"key"`
	Hash           string          `json:"hash"`
	Name           string          `json:"name"`
	Description    string          `json:"description"`
	DownloadURL    string          `json:"downloadURL"`
	DirectDownload string          `json:"directDownload"`
	CoverURL       string          `json:"coverURL"`
	Uploaded       Timestamp       `json:"uploaded"`
	Uploader       Uploader        `json:"uploader"`
	Metadata       BeatmapMetadata `json:"metadata"`
	Stats          BeatmapStats    `json:"stats"`
}

// Timestamp is a service time that decodes to the zero time when the value
// is empty, null or not RFC 3339
type Timestamp struct {
	time.Time
}

func (t *Timestamp) UnmarshalJSON(data []byte) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil || raw == "" {
		t.Time = time.Time{}
		return nil
	}
	parsed, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		t.Time = time.Time{}
		return nil
	}
	t.Time = parsed
	return nil
}

// Uploader identifies the account that published a map
type Uploader struct {
	ID       string `json:"_id"`
	Username string `json:"username"`
}

// BeatmapMetadata holds the song and mapper details of a map
type BeatmapMetadata struct {
	SongName        string                  `json:"songName"`
	SongSubName     string                  `json:"songSubName"`
	SongAuthorName  string                  `json:"songAuthorName"`
	LevelAuthorName string                  `json:"levelAuthorName"`
	BPM             float64                 `json:"bpm"`
	Duration        float64                 `json:"duration"`
	Difficulties    map[string]bool         `json:"difficulties"`
	Characteristics []BeatmapCharacteristic `json:"characteristics"`
}

// BeatmapCharacteristic is a play mode (Standard, OneSaber, ...) of a map
type BeatmapCharacteristic struct {
	Name string `json:"name"`
}

// BeatmapStats holds popularity counters
type BeatmapStats struct {
	Downloads int     `json:"downloads"`
	Plays     int     `json:"plays"`
	UpVotes   int     `json:"upVotes"`
	DownVotes int     `json:"downVotes"`
	Rating    float64 `json:"rating"`
	Heat      float64 `json:"heat"`
}

// Page is one page of search results in service order
type Page struct {
	Docs      []Beatmap `json:"docs"`
	TotalDocs int       `json:"totalDocs"`
	LastPage  int       `json:"lastPage"`
	PrevPage  *int      `json:"prevPage"`
	NextPage  *int      `json:"nextPage"`
}

// HasNext reports whether the service advertised a following page
func (p *Page) HasNext() bool {
	return p.NextPage != nil
}

// Deserialize populates b from a JSON object
func (b *Beatmap) Deserialize(data []byte) error {
	if err := requireObject(data); err != nil {
		return err
	}
	var decoded Beatmap
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("failed to decode beatmap: %w", err)
	}
	*b = decoded
	return nil
}

// Deserialize populates p from a JSON object
func (p *Page) Deserialize(data []byte) error {
	if err := requireObject(data); err != nil {
		return err
	}
	var decoded Page
	if err := json.Unmarshal(data, &decoded); err != nil {
		return fmt.Errorf("failed to decode page: %w", err)
	}
	if decoded.Docs == nil {
		decoded.Docs = []Beatmap{}
	}
	*p = decoded
	return nil
}

func requireObject(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return fmt.Errorf("expected a JSON object")
	}
	return nil
}
