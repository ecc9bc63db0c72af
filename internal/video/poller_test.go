package video

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"fakepost/internal/domain"
	"fakepost/internal/gateway"
	"fakepost/internal/gateway/gatewaytest"
)

func newFake(pendingPolls int, final gateway.Operation) *gatewaytest.Fake {
	polls := 0
	return &gatewaytest.Fake{
		SubmitFunc: func(ctx context.Context, req gateway.VideoRequest) (*gateway.Operation, error) {
			return &gateway.Operation{Name: "ops/1"}, nil
		},
		OperationFunc: func(ctx context.Context, op *gateway.Operation) (*gateway.Operation, error) {
			polls++
			if polls <= pendingPolls {
				return &gateway.Operation{Name: op.Name}, nil
			}
			done := final
			done.Name = op.Name
			done.Done = true
			return &done, nil
		},
		DownloadFunc: func(ctx context.Context, uri string) ([]byte, string, error) {
			return []byte{0xde, 0xad}, "video/mp4", nil
		},
	}
}

func fastPoller(gw gateway.Gateway) *Poller {
	return NewPoller(gw, Options{Interval: time.Millisecond, MaxAttempts: 10, Timeout: time.Second})
}

func TestGeneratePollsUntilDone(t *testing.T) {
	const pending = 3
	fake := newFake(pending, gateway.Operation{Videos: []gateway.VideoPart{{URI: "https://files.test/v", MIMEType: "video/mp4"}}})

	uri, err := fastPoller(fake).Generate(context.Background(), gateway.VideoRequest{Prompt: "waves"})
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if uri != "data:video/mp4;base64,3q0=" {
		t.Fatalf("uri = %q", uri)
	}
	if got := fake.OperationCalls(); got != pending+1 {
		t.Fatalf("polls = %d, want %d", got, pending+1)
	}
	if got := fake.DownloadCalls(); got != 1 {
		t.Fatalf("downloads = %d, want 1", got)
	}
}

func TestGenerateOperationErrorSkipsDownload(t *testing.T) {
	fake := newFake(1, gateway.Operation{Error: "prompt rejected"})

	_, err := fastPoller(fake).Generate(context.Background(), gateway.VideoRequest{Prompt: "p"})
	if domain.KindOf(err) != domain.KindGeneration {
		t.Fatalf("kind = %q", domain.KindOf(err))
	}
	if got := domain.MessageOf(err); got != "video generation failed: prompt rejected" {
		t.Fatalf("message = %q", got)
	}
	if fake.DownloadCalls() != 0 {
		t.Fatal("download attempted after a failed operation")
	}
}

func TestGenerateFailures(t *testing.T) {
	tests := []struct {
		name    string
		fake    *gatewaytest.Fake
		wantMsg string
	}{
		{
			name: "no operation",
			fake: &gatewaytest.Fake{SubmitFunc: func(ctx context.Context, req gateway.VideoRequest) (*gateway.Operation, error) {
				return nil, nil
			}},
			wantMsg: "expected the model to return an operation",
		},
		{
			name:    "no video part",
			fake:    newFake(0, gateway.Operation{Videos: []gateway.VideoPart{{URI: "x", MIMEType: "image/png"}}}),
			wantMsg: "failed to find the generated video",
		},
		{
			name:    "untyped part",
			fake:    newFake(0, gateway.Operation{Videos: []gateway.VideoPart{{URI: "x"}}}),
			wantMsg: "failed to find the generated video",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := fastPoller(tc.fake).Generate(context.Background(), gateway.VideoRequest{Prompt: "p"})
			if got := domain.MessageOf(err); got != tc.wantMsg {
				t.Fatalf("message = %q, want %q", got, tc.wantMsg)
			}
			if tc.fake.DownloadCalls() != 0 {
				t.Fatal("unexpected download")
			}
		})
	}
}

func TestGenerateDownloadFailureKeepsStatus(t *testing.T) {
	fake := newFake(0, gateway.Operation{Videos: []gateway.VideoPart{{URI: "u", MIMEType: "video/mp4"}}})
	fake.DownloadFunc = func(ctx context.Context, uri string) ([]byte, string, error) {
		return nil, "", domain.Transport(http.StatusForbidden, errors.New("denied"))
	}

	_, err := fastPoller(fake).Generate(context.Background(), gateway.VideoRequest{Prompt: "p"})
	var de *domain.Error
	if !errors.As(err, &de) || de.Kind != domain.KindTransport || de.Status != http.StatusForbidden {
		t.Fatalf("error = %v", err)
	}
}

func TestGenerateStopsAfterMaxAttempts(t *testing.T) {
	fake := newFake(1000, gateway.Operation{})
	poller := NewPoller(fake, Options{Interval: time.Millisecond, MaxAttempts: 4, Timeout: time.Second})

	_, err := poller.Generate(context.Background(), gateway.VideoRequest{Prompt: "p"})
	if domain.KindOf(err) != domain.KindTimeout {
		t.Fatalf("kind = %q, want timeout (err %v)", domain.KindOf(err), err)
	}
	if fake.OperationCalls() != 4 {
		t.Fatalf("polls = %d, want 4", fake.OperationCalls())
	}
}

func TestGenerateWallClockTimeout(t *testing.T) {
	fake := newFake(1000, gateway.Operation{})
	poller := NewPoller(fake, Options{Interval: 20 * time.Millisecond, MaxAttempts: 1000, Timeout: 50 * time.Millisecond})

	_, err := poller.Generate(context.Background(), gateway.VideoRequest{Prompt: "p"})
	if domain.KindOf(err) != domain.KindTimeout {
		t.Fatalf("kind = %q, want timeout (err %v)", domain.KindOf(err), err)
	}
}

func TestGenerateHonorsCancellation(t *testing.T) {
	fake := newFake(1000, gateway.Operation{})
	poller := NewPoller(fake, Options{Interval: time.Hour, MaxAttempts: 10, Timeout: time.Hour})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := poller.Generate(ctx, gateway.VideoRequest{Prompt: "p"})
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, domain.ErrCancelled) {
			t.Fatalf("error = %v, want ErrCancelled", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("poller did not stop after cancellation")
	}
	if fake.OperationCalls() != 0 {
		t.Fatalf("polls = %d, want 0", fake.OperationCalls())
	}
}
