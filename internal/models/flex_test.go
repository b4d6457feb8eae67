package models

import (
	"encoding/json"
	"testing"
)

func TestFlexCount_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    FlexCount
		wantErr bool
	}{
		{name: "number", input: `3`, want: 3},
		{name: "numeric string", input: `"2"`, want: 2},
		{name: "padded string", input: `" 4 "`, want: 4},
		{name: "null", input: `null`, want: 0},
		{name: "fractional", input: `1.0`, want: 1},
		{name: "word", input: `"two"`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexCount
			err := json.Unmarshal([]byte(tt.input), &got)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Unmarshal(%s) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if !tt.wantErr && got != tt.want {
				t.Errorf("Unmarshal(%s) = %d, want %d", tt.input, got, tt.want)
			}
		})
	}
}

func TestOrderLine_QuantityEncodesAsNumber(t *testing.T) {
	data, err := json.Marshal(OrderLine{Quantity: 2})
	if err != nil {
		t.Fatalf("Marshal() unexpected error = %v", err)
	}
	if string(data) != `{"quantity":2}` {
		t.Errorf("Marshal() = %s, want {\"quantity\":2}", data)
	}
}

func TestFlexString_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  FlexString
	}{
		{name: "string", input: `"12"`, want: "12"},
		{name: "number", input: `1709632800000`, want: "1709632800000"},
		{name: "trimmed", input: `" 7 "`, want: "7"},
		{name: "null", input: `null`, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got FlexString
			if err := json.Unmarshal([]byte(tt.input), &got); err != nil {
				t.Fatalf("Unmarshal(%s) unexpected error = %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Unmarshal(%s) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}
