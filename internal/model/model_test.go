package model

import (
	"encoding/json"
	"testing"
)

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		input   string
		want    SortOrder
		wantErr bool
	}{
		{"", SortDefault, false},
		{"default", SortDefault, false},
		{"bpm", SortBpmAsc, false},
		{"bpm-asc", SortBpmAsc, false},
		{"bpm-desc", SortBpmDesc, false},
		{"title", SortTitle, false},
		{"artist", SortArtist, false},
		{"shuffle", SortDefault, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseSortOrder(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseSortOrder(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("ParseSortOrder(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSortOrder_StringRoundTrip(t *testing.T) {
	for _, order := range []SortOrder{SortDefault, SortBpmAsc, SortBpmDesc, SortTitle, SortArtist} {
		parsed, err := ParseSortOrder(order.String())
		if err != nil {
			t.Fatalf("ParseSortOrder(%q) returned error: %v", order.String(), err)
		}
		if parsed != order {
			t.Errorf("round trip of %v produced %v", order, parsed)
		}
	}
}

func TestExportOptions_JSON(t *testing.T) {
	opts := ExportOptions{
		SortOrder:     SortBpmAsc,
		AddBPMToTitle: true,
		RomanizeTitle: true,
	}

	data, err := json.Marshal(opts)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	var decoded ExportOptions
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	if decoded != opts {
		t.Errorf("decoded options = %+v, want %+v", decoded, opts)
	}
}
