package validation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/mmeshcher/convenience-store/internal/model"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []model.OrderLine
		wantErr error
	}{
		{
			name:  "single item",
			input: "[Cola-2]",
			want:  []model.OrderLine{{ProductName: "Cola", Quantity: 2}},
		},
		{
			name:  "several items with spaces",
			input: " [Cola-10], [Energy bar-5] ",
			want: []model.OrderLine{
				{ProductName: "Cola", Quantity: 10},
				{ProductName: "Energy bar", Quantity: 5},
			},
		},
		{
			name:  "hyphen in product name",
			input: "[Coca-Cola-3]",
			want:  []model.OrderLine{{ProductName: "Coca-Cola", Quantity: 3}},
		},
		{
			name:    "empty input",
			input:   "   ",
			wantErr: model.ErrInvalidOrderSyntax,
		},
		{
			name:    "missing brackets",
			input:   "Cola-2",
			wantErr: model.ErrInvalidOrderSyntax,
		},
		{
			name:    "missing quantity",
			input:   "[Cola]",
			wantErr: model.ErrInvalidOrderSyntax,
		},
		{
			name:    "trailing comma",
			input:   "[Cola-2],",
			wantErr: model.ErrInvalidOrderSyntax,
		},
		{
			name:    "zero quantity",
			input:   "[Cola-0]",
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name:    "negative quantity",
			input:   "[Cola--1]",
			wantErr: model.ErrInvalidQuantity,
		},
		{
			name:    "quantity overflow",
			input:   "[Cola-99999999999999999999]",
			wantErr: model.ErrInvalidOrderSyntax,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseOrder(tt.input)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ParseOrder(%q) error = %v, want %v", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOrder(%q) unexpected error: %v", tt.input, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Fatalf("ParseOrder(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseAnswer(t *testing.T) {
	tests := []struct {
		input   string
		want    bool
		wantErr bool
	}{
		{input: "Y", want: true},
		{input: " y ", want: true},
		{input: "N", want: false},
		{input: "n", want: false},
		{input: "", wantErr: true},
		{input: "yes", wantErr: true},
	}

	for _, tt := range tests {
		got, err := ParseAnswer(tt.input)
		if tt.wantErr {
			if !errors.Is(err, model.ErrAmbiguousConfirmationInput) {
				t.Fatalf("ParseAnswer(%q) error = %v, want ErrAmbiguousConfirmationInput", tt.input, err)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Fatalf("ParseAnswer(%q) = %v, %v; want %v", tt.input, got, err, tt.want)
		}
	}
}
