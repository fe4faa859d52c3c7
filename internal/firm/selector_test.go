package firm

import (
	"errors"
	"testing"

	"github.com/google/uuid"
)

func TestSelectorFromValues(t *testing.T) {
	id := uuid.New()
	other := uuid.New()

	tests := []struct {
		name    string
		header  string
		query   string
		wantID  uuid.UUID
		wantReq bool
		wantErr bool
	}{
		{name: "neither", header: "", query: "", wantReq: false},
		{name: "header only", header: id.String(), wantID: id, wantReq: true},
		{name: "query only", query: id.String(), wantID: id, wantReq: true},
		{name: "both equal", header: id.String(), query: id.String(), wantID: id, wantReq: true},
		{name: "whitespace trimmed", header: "  " + id.String() + "  ", wantID: id, wantReq: true},
		{name: "conflict", header: id.String(), query: other.String(), wantErr: true},
		{name: "malformed header", header: "not-a-uuid", wantErr: true},
		{name: "malformed query", query: "42", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sel, err := SelectorFromValues(tt.header, tt.query)
			if tt.wantErr {
				if !errors.Is(err, ErrAmbiguousFirmSelection) {
					t.Fatalf("err = %v, want ErrAmbiguousFirmSelection", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			gotID, gotReq := sel.Requested()
			if gotReq != tt.wantReq {
				t.Fatalf("requested = %v, want %v", gotReq, tt.wantReq)
			}
			if gotReq && gotID != tt.wantID {
				t.Fatalf("firm id = %s, want %s", gotID, tt.wantID)
			}
		})
	}
}
