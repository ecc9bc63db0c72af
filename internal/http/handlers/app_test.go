package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"fakepost/internal/domain"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		kind domain.Kind
		want int
	}{
		{"", http.StatusOK},
		{domain.KindValidation, http.StatusUnprocessableEntity},
		{domain.KindGeneration, http.StatusBadGateway},
		{domain.KindTransport, http.StatusBadGateway},
		{domain.KindTimeout, http.StatusGatewayTimeout},
	}
	for _, tc := range tests {
		if got := statusFor(tc.kind); got != tc.want {
			t.Errorf("statusFor(%q) = %d, want %d", tc.kind, got, tc.want)
		}
	}
}

func TestRespondWritesOneField(t *testing.T) {
	a := NewApp(nil, nil, nil)

	rec := httptest.NewRecorder()
	respond(a, rec, domain.Ok("hi"), func(v string) any { return postTextResponse{PostContent: v} })
	if rec.Code != http.StatusOK || strings.TrimSpace(rec.Body.String()) != `{"postContent":"hi"}` {
		t.Fatalf("success = %d %s", rec.Code, rec.Body.String())
	}

	rec = httptest.NewRecorder()
	respond(a, rec, domain.Fail[string](domain.KindValidation, "The topic cannot be empty."), func(v string) any { return postTextResponse{PostContent: v} })
	if rec.Code != http.StatusUnprocessableEntity || strings.TrimSpace(rec.Body.String()) != `{"error":"The topic cannot be empty."}` {
		t.Fatalf("failure = %d %s", rec.Code, rec.Body.String())
	}
}

func TestDecodeRejectsOversizedBody(t *testing.T) {
	a := NewApp(nil, nil, nil)
	body := `{"topic":"` + strings.Repeat("a", maxBodyBytes) + `"}`
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	var dst postTextRequest
	if a.decode(rec, req, &dst) {
		t.Fatal("decode accepted oversized body")
	}
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d", rec.Code)
	}
}
