package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"fakepost/internal/orchestrator"
	rest "fakepost/internal/providers/genai"
)

func syntheticService(t *testing.T) *orchestrator.Service {
	t.Helper()
	client, err := rest.NewClient(rest.Options{})
	if err != nil {
		t.Fatalf("client: %v", err)
	}
	return orchestrator.New(client, orchestrator.Options{})
}

func TestRunKinds(t *testing.T) {
	svc := syntheticService(t)
	tests := []struct {
		opts   options
		ok     bool
		prefix string
	}{
		{options{kind: "text", input: "bakery"}, true, ""},
		{options{kind: "picture", input: "chef"}, true, "data:image/"},
		{options{kind: "comments", input: "Fresh bread", count: 2}, true, ""},
		{options{kind: "text", input: ""}, false, ""},
	}
	for _, tc := range tests {
		var buf bytes.Buffer
		ok, err := run(context.Background(), svc, tc.opts, &buf)
		if err != nil {
			t.Fatalf("%s: %v", tc.opts.kind, err)
		}
		if ok != tc.ok {
			t.Fatalf("%s ok = %v, output %s", tc.opts.kind, ok, buf.String())
		}
		var out map[string]any
		if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
			t.Fatalf("%s output %q: %v", tc.opts.kind, buf.String(), err)
		}
		if len(out) != 1 {
			t.Fatalf("%s output has %d fields", tc.opts.kind, len(out))
		}
		if tc.prefix != "" {
			if s, _ := out["data"].(string); !strings.HasPrefix(s, tc.prefix) {
				t.Fatalf("%s data = %v", tc.opts.kind, out["data"])
			}
		}
	}
	svc.Wait()
}

func TestRunUnknownKind(t *testing.T) {
	_, err := run(context.Background(), syntheticService(t), options{kind: "poster"}, &bytes.Buffer{})
	if !errors.Is(err, errUnknownKind) {
		t.Fatalf("err = %v", err)
	}
}
