package infra

import "testing"

func TestExtractMarker(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		wantMarker string
		wantErr    bool
	}{
		{
			name:       "valid",
			query:      "\n--sql 3f1c9a42-5b7e-4d2a-9c61-0e8f2b7d4a15\nselect 1;\n",
			wantMarker: "3f1c9a42-5b7e-4d2a-9c61-0e8f2b7d4a15",
		},
		{name: "missing marker", query: "select 1;", wantErr: true},
		{name: "uppercase uuid", query: "--sql 3F1C9A42-5B7E-4D2A-9C61-0E8F2B7D4A15\nselect 1;", wantErr: true},
		{name: "marker only", query: "--sql 3f1c9a42-5b7e-4d2a-9c61-0e8f2b7d4a15", wantErr: true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			marker, body, err := ExtractMarker(tc.query)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error, got marker %q", marker)
				}
				return
			}
			if err != nil {
				t.Fatalf("ExtractMarker: %v", err)
			}
			if marker != tc.wantMarker || body == "" {
				t.Fatalf("marker = %q body = %q", marker, body)
			}
		})
	}
}
