package gateway_test

import (
	"context"
	"encoding/json"
	"testing"

	"fakepost/internal/domain"
	"fakepost/internal/gateway"
	"fakepost/internal/gateway/gatewaytest"
)

type postText struct {
	PostContent string `json:"postContent" validate:"required"`
}

func TestGenerateDecodesFencedJSON(t *testing.T) {
	fake := &gatewaytest.Fake{
		TextFunc: func(ctx context.Context, req gateway.TextRequest) (string, error) {
			return "Sure!\n```json\n{\"postContent\":\"hello #world\"}\n```", nil
		},
	}
	out, err := gateway.Generate[postText](context.Background(), fake, gateway.TextRequest{Model: "m", Prompt: "p"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if out.PostContent != "hello #world" {
		t.Fatalf("PostContent = %q, want %q", out.PostContent, "hello #world")
	}
}

func TestGenerateRejectsEmptyPromptWithoutCalling(t *testing.T) {
	fake := &gatewaytest.Fake{}
	_, err := gateway.Generate[postText](context.Background(), fake, gateway.TextRequest{Model: "m", Prompt: "  "})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("kind = %q, want validation (err=%v)", domain.KindOf(err), err)
	}
	if fake.TotalCalls() != 0 {
		t.Fatalf("gateway calls = %d, want 0", fake.TotalCalls())
	}
}

func TestDecodeFailures(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{name: "empty", raw: "   "},
		{name: "malformed", raw: `{"postContent": `},
		{name: "missing required field", raw: `{"other":"x"}`},
		{name: "blank required field", raw: `{"postContent":""}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gateway.Decode[postText](tc.raw)
			if err == nil {
				t.Fatal("expected error")
			}
			if domain.KindOf(err) != domain.KindGeneration {
				t.Fatalf("kind = %q, want generation", domain.KindOf(err))
			}
		})
	}
}

func TestExtractJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: `{"a":1}`, want: `{"a":1}`},
		{in: "```\n[1,2]\n```", want: `[1,2]`},
		{in: "here you go: {\"a\":{\"b\":2}} thanks", want: `{"a":{"b":2}}`},
		{in: "", want: ""},
	}
	for _, tc := range tests {
		if got := gateway.ExtractJSON(tc.in); got != tc.want {
			t.Fatalf("ExtractJSON(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestObjectSchemaKeepsOrderAndRequired(t *testing.T) {
	s := gateway.Object(
		gateway.Field{Name: "name", Schema: gateway.String("n")},
		gateway.Field{Name: "replies", Schema: gateway.Array(gateway.String("r"), ""), Optional: true},
	)
	raw, err := json.Marshal(s)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded map[string]any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	required := decoded["required"].([]any)
	if len(required) != 1 || required[0] != "name" {
		t.Fatalf("required = %v, want [name]", required)
	}
	order := decoded["propertyOrdering"].([]any)
	if len(order) != 2 || order[0] != "name" || order[1] != "replies" {
		t.Fatalf("propertyOrdering = %v", order)
	}
}

func TestDataURI(t *testing.T) {
	got := gateway.DataURI("image/png", []byte{0x89, 'P', 'N', 'G'})
	if got != "data:image/png;base64,iVBORw==" {
		t.Fatalf("DataURI = %q", got)
	}
}

type thread struct {
	Items []struct {
		Name    string   `json:"name"`
		Replies []string `json:"replies,omitempty"`
	} `json:"items"`
}

func TestDecodeSchemaEnforcesItemBounds(t *testing.T) {
	item := gateway.Object(
		gateway.Field{Name: "name", Schema: gateway.String("n")},
		gateway.Field{Name: "replies", Schema: gateway.Array(gateway.String("r"), "").WithItemCount(1, 2), Optional: true},
	)
	schema := gateway.Object(gateway.Field{Name: "items", Schema: gateway.Array(item, "").WithItemCount(2, 2)})

	tests := []struct {
		name string
		raw  string
		ok   bool
	}{
		{"exact count", `{"items":[{"name":"a"},{"name":"b","replies":["x","y"]}]}`, true},
		{"empty optional array is absent", `{"items":[{"name":"a","replies":[]},{"name":"b"}]}`, true},
		{"too few items", `{"items":[{"name":"a"}]}`, false},
		{"empty items", `{"items":[]}`, false},
		{"too many items", `{"items":[{"name":"a"},{"name":"b"},{"name":"c"}]}`, false},
		{"too many nested", `{"items":[{"name":"a","replies":["1","2","3"]},{"name":"b"}]}`, false},
		{"missing required", `{"items":[{"replies":["x"]},{"name":"b"}]}`, false},
		{"wrong type", `{"items":[{"name":7},{"name":"b"}]}`, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := gateway.DecodeSchema[thread](tc.raw, schema)
			if tc.ok && err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !tc.ok {
				if err == nil {
					t.Fatal("expected error")
				}
				if domain.KindOf(err) != domain.KindGeneration || domain.MessageOf(err) != "model output did not match the expected shape" {
					t.Fatalf("err = %v", err)
				}
			}
		})
	}
}

func TestGenerateChecksRequestSchema(t *testing.T) {
	fake := &gatewaytest.Fake{
		TextFunc: func(ctx context.Context, req gateway.TextRequest) (string, error) {
			return `{"items":[]}`, nil
		},
	}
	schema := gateway.Object(gateway.Field{Name: "items", Schema: gateway.Array(gateway.String("i"), "").WithItemCount(3, 3)})
	if _, err := gateway.Generate[thread](context.Background(), fake, gateway.TextRequest{Model: "m", Prompt: "p", Schema: schema}); err == nil {
		t.Fatal("expected schema violation")
	}
}
