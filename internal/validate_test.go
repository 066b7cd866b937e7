package internal

import (
	"errors"
	"strings"
	"testing"
)

type validatedSample struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"omitempty,http_url"`
	Count   int    `json:"count" validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name          string
		input         validatedSample
		expectedField string
	}{
		{"valid", validatedSample{Name: "abc123", Address: "https://beatsaver.com"}, ""},
		{"missing_required", validatedSample{}, "name"},
		{"bad_url", validatedSample{Name: "x", Address: "ftp://beatsaver.com"}, "address"},
		{"negative", validatedSample{Name: "x", Count: -1}, "count"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.expectedField == "" {
				if err != nil {
					t.Errorf("Unexpected error: %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("Expected ValidationError, got %T: %v", err, err)
			}
			if verr.Field != tt.expectedField {
				t.Errorf("Expected field %s, got %s", tt.expectedField, verr.Field)
			}
			if verr.Message == "" {
				t.Error("Expected a translated message")
			}
		})
	}
}

func TestValidateStruct_CountsAdditionalErrors(t *testing.T) {
	err := ValidateStruct(validatedSample{Address: "nope", Count: -5})

	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("Expected ValidationError, got %v", err)
	}
	if verr.Context["additional_errors"] != 2 {
		t.Errorf("Expected 2 additional errors, got %v", verr.Context["additional_errors"])
	}
}

func TestConfig_ValidateConfigSuggestions(t *testing.T) {
	config := DefaultConfig()
	config.CustomLevelsPath = ""

	err := config.ValidateConfig()
	if err == nil {
		t.Fatal("Expected error")
	}
	if !strings.Contains(err.Error(), "BEATSAVER_SONGS_DIR") {
		t.Errorf("Expected suggestion in error, got %v", err)
	}
}
