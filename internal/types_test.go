package internal

import (
	"testing"
	"time"
)

func TestBeatmap_Deserialize(t *testing.T) {
	data := []byte(`{
		"_id": "5cff621148229f7d88fc77c9",
		"key": "570",
		"hash": "fda568fc27c20d21f8dc6f3709b49b5cc96723be",
		"name": "Beat Saber - Jaroslav Beck",
		"downloadURL": "/api/download/key/570",
		"coverURL": "/cdn/570/fda568fc27c20d21f8dc6f3709b49b5cc96723be.jpg",
		"uploaded": "2018-05-08T21:02:48.000Z",
		"uploader": {"_id": "5cff0b7298cc5a672c84e62d", "username": "freeek"},
		"metadata": {
			"songName": "Beat Saber",
			"songAuthorName": "Jaroslav Beck",
			"levelAuthorName": "Freeek",
			"bpm": 166,
			"difficulties": {"easy": true, "expertPlus": false},
			"characteristics": [{"name": "Standard"}, {"name": "OneSaber"}]
		},
		"stats": {"downloads": 1000, "upVotes": 90, "downVotes": 3, "rating": 0.93},
		"unknownField": {"ignored": true}
	}`)

	var b Beatmap
	if err := b.Deserialize(data); err != nil {
		t.Fatalf("Deserialize failed: %v", err)
	}

	if b.Key != "570" || b.Hash != "fda568fc27c20d21f8dc6f3709b49b5cc96723be" {
		t.Errorf("Unexpected identity: key=%s hash=%s", b.Key, b.Hash)
	}
	if b.Metadata.SongName != "Beat Saber" || b.Metadata.LevelAuthorName != "Freeek" {
		t.Errorf("Unexpected metadata: %+v", b.Metadata)
	}
	if len(b.Metadata.Characteristics) != 2 || b.Metadata.Characteristics[1].Name != "OneSaber" {
		t.Errorf("Unexpected characteristics: %+v", b.Metadata.Characteristics)
	}
	if !b.Metadata.Difficulties["easy"] || b.Metadata.Difficulties["expertPlus"] {
		t.Errorf("Unexpected difficulties: %+v", b.Metadata.Difficulties)
	}
	if !b.Uploaded.Equal(time.Date(2018, 5, 8, 21, 2, 48, 0, time.UTC)) {
		t.Errorf("Unexpected upload time: %v", b.Uploaded)
	}
	if b.Uploader.Username != "freeek" {
		t.Errorf("Unexpected uploader: %+v", b.Uploader)
	}
}

func TestBeatmap_DeserializeRejectsNonObjects(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"whitespace", "   "},
		{"array", `[{"key":"570"}]`},
		{"string", `"570"`},
		{"null", "null"},
		{"truncated", `{"key":`},
		{"wrong_type", `{"key": 570}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := Beatmap{Key: "unchanged"}
			if err := b.Deserialize([]byte(tt.data)); err == nil {
				t.Error("Expected error")
			}
			if b.Key != "unchanged" {
				t.Errorf("Failed decode should leave the record untouched, got key %s", b.Key)
			}
		})
	}
}

func TestBeatmap_DeserializeToleratesUploadTime(t *testing.T) {
	tests := []struct {
		name     string
		uploaded string
		zero     bool
	}{
		{"rfc3339", `"2019-06-11T08:10:57.000Z"`, false},
		{"empty", `""`, true},
		{"null", `null`, true},
		{"garbage", `"yesterday"`, true},
		{"number", `1560240657`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var b Beatmap
			data := `{"key":"abc123","uploaded":` + tt.uploaded + `}`
			if err := b.Deserialize([]byte(data)); err != nil {
				t.Fatalf("Deserialize failed: %v", err)
			}
			if b.Key != "abc123" {
				t.Errorf("Expected key abc123, got %s", b.Key)
			}
			if b.Uploaded.IsZero() != tt.zero {
				t.Errorf("Uploaded = %v, expected zero=%v", b.Uploaded, tt.zero)
			}
		})
	}
}

func TestPage_Deserialize(t *testing.T) {
	t.Run("ordered_docs", func(t *testing.T) {
		var p Page
		err := p.Deserialize([]byte(`{"docs":[{"key":"c"},{"key":"a"},{"key":"b"}],"totalDocs":53,"lastPage":5,"prevPage":null,"nextPage":1}`))
		if err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}

		keys := []string{"c", "a", "b"}
		if len(p.Docs) != len(keys) {
			t.Fatalf("Expected %d docs, got %d", len(keys), len(p.Docs))
		}
		for i, key := range keys {
			if p.Docs[i].Key != key {
				t.Errorf("Doc %d: expected key %s, got %s", i, key, p.Docs[i].Key)
			}
		}
		if p.TotalDocs != 53 || p.LastPage != 5 {
			t.Errorf("Unexpected pagination: %+v", p)
		}
		if p.PrevPage != nil {
			t.Errorf("Expected nil prevPage, got %d", *p.PrevPage)
		}
		if !p.HasNext() || *p.NextPage != 1 {
			t.Error("Expected next page 1")
		}
	})

	t.Run("missing_docs", func(t *testing.T) {
		var p Page
		if err := p.Deserialize([]byte(`{"totalDocs":0}`)); err != nil {
			t.Fatalf("Deserialize failed: %v", err)
		}
		if p.Docs == nil || len(p.Docs) != 0 {
			t.Errorf("Expected empty, non-nil docs, got %#v", p.Docs)
		}
		if p.HasNext() {
			t.Error("Expected no next page")
		}
	})

	t.Run("not_an_object", func(t *testing.T) {
		var p Page
		if err := p.Deserialize([]byte(`[]`)); err == nil {
			t.Error("Expected error for array")
		}
	})
}
