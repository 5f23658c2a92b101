package edgetts

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"namecast/internal/services"
)

func TestSynthesizeWritesMedia(t *testing.T) {
	output := filepath.Join(t.TempDir(), "name.mp3")
	client := NewClient(Config{Voice: "hi-IN-MadhurNeural"})
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		var sawVoice, sawText bool
		for i, arg := range args {
			switch arg {
			case "--voice":
				sawVoice = i+1 < len(args) && args[i+1] == "hi-IN-MadhurNeural"
			case "--text":
				sawText = i+1 < len(args) && args[i+1] == "Priya"
			}
		}
		if !sawVoice || !sawText {
			t.Fatalf("missing args: %v", args)
		}
		return nil, os.WriteFile(output, []byte("mp3"), 0o644)
	})

	if err := client.Synthesize(context.Background(), "Priya", output); err != nil {
		t.Fatalf("synthesize: %v", err)
	}
}

func TestSynthesizeEmptyOutputIsFailure(t *testing.T) {
	output := filepath.Join(t.TempDir(), "name.mp3")
	client := NewClient(Config{})
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		return nil, os.WriteFile(output, nil, 0o644)
	})

	if err := client.Synthesize(context.Background(), "Priya", output); err == nil {
		t.Fatal("expected failure for empty output")
	}
}

func TestSynthesizeRejectsEmptyText(t *testing.T) {
	client := NewClient(Config{})
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		t.Fatal("binary should not run for empty text")
		return nil, nil
	})
	if err := client.Synthesize(context.Background(), "   ", "out.mp3"); err == nil {
		t.Fatal("expected error for empty text")
	}
}

func TestSynthesizeRetriesThenSucceeds(t *testing.T) {
	output := filepath.Join(t.TempDir(), "name.mp3")
	attempts := 0
	client := NewClient(Config{MaxRetries: 2})
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		attempts++
		if attempts < 2 {
			return nil, errors.New("connection reset")
		}
		return nil, os.WriteFile(output, []byte("mp3"), 0o644)
	})

	if err := client.Synthesize(context.Background(), "Priya", output); err != nil {
		t.Fatalf("synthesize: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestSynthesizeMissingBinaryFailsFast(t *testing.T) {
	attempts := 0
	client := NewClient(Config{MaxRetries: 3})
	client.WithCommandRunner(func(ctx context.Context, name string, args ...string) ([]byte, error) {
		attempts++
		return nil, exec.ErrNotFound
	})

	err := client.Synthesize(context.Background(), "Priya", "out.mp3")
	if !errors.Is(err, services.ErrBackendUnavailable) {
		t.Fatalf("expected ErrBackendUnavailable, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("missing binary should not retry, got %d attempts", attempts)
	}
}
