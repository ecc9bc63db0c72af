package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeGo(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestRun(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		code  int
		want  string
	}{
		{
			name: "clean",
			files: map[string]string{"a.go": "package q\n\nconst QA = `--sql 11111111-1111-1111-1111-111111111111\nselect 1;`\nconst Label = \"not sql\"\n"},
			code: 0,
		},
		{
			name:  "missing marker",
			files: map[string]string{"a.go": "package q\n\nconst QA = `select 1;`\n"},
			code:  1,
			want:  "missing or invalid",
		},
		{
			name: "duplicate marker across files",
			files: map[string]string{
				"a.go": "package q\n\nconst QA = `--sql 11111111-1111-1111-1111-111111111111\nselect 1;`\n",
				"b.go": "package q\n\nconst QB = `--sql 11111111-1111-1111-1111-111111111111\ncreate table t (id int);`\n",
			},
			code: 1,
			want: "marker already used by QA",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dir := t.TempDir()
			for name, body := range tc.files {
				writeGo(t, dir, name, body)
			}
			var stderr bytes.Buffer
			if code := run([]string{dir}, &stderr); code != tc.code {
				t.Fatalf("code = %d, stderr %s", code, stderr.String())
			}
			if tc.want != "" && !strings.Contains(stderr.String(), tc.want) {
				t.Fatalf("stderr = %q, want %q", stderr.String(), tc.want)
			}
		})
	}
}

func TestRepositoryQueries(t *testing.T) {
	var stderr bytes.Buffer
	if code := run([]string{"../../sqlinline"}, &stderr); code != 0 {
		t.Fatalf("sqlinline violations:\n%s", stderr.String())
	}
}
