package extract

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"testing"
)

func stubPDFToText(t *testing.T, fn func(ctx context.Context, path string) ([]byte, error)) {
	t.Helper()
	orig := pdfToText
	pdfToText = fn
	t.Cleanup(func() { pdfToText = orig })
}

func TestFromUploadText(t *testing.T) {
	tests := []struct {
		name        string
		filename    string
		contentType string
		data        []byte
		want        string
	}{
		{"plain content type", "notes", "text/plain", []byte("hello"), "hello"},
		{"content type with charset", "notes", "text/plain; charset=utf-8", []byte("مرحبا"), "مرحبا"},
		{"txt extension", "notes.TXT", "application/octet-stream", []byte("by extension"), "by extension"},
		{"invalid utf-8 dropped", "a.txt", "", []byte{'o', 0xff, 'k'}, "ok"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FromUpload(context.Background(), tt.filename, tt.contentType, tt.data)
			if err != nil {
				t.Fatalf("FromUpload: %v", err)
			}
			if got != tt.want {
				t.Errorf("FromUpload() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromUploadUnsupported(t *testing.T) {
	_, err := FromUpload(context.Background(), "slides.pptx", "application/vnd.ms-powerpoint", []byte("x"))
	if !errors.Is(err, ErrUnsupportedType) {
		t.Errorf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestFromUploadPDF(t *testing.T) {
	var gotPath string
	stubPDFToText(t, func(_ context.Context, path string) ([]byte, error) {
		gotPath = path
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		if string(data) != "%PDF-1.4 fake" {
			return nil, fmt.Errorf("unexpected temp file content %q", data)
		}
		return []byte("extracted text"), nil
	})

	got, err := FromUpload(context.Background(), "book.pdf", "application/pdf", []byte("%PDF-1.4 fake"))
	if err != nil {
		t.Fatalf("FromUpload: %v", err)
	}
	if got != "extracted text" {
		t.Errorf("FromUpload() = %q, want %q", got, "extracted text")
	}
	if _, err := os.Stat(gotPath); !os.IsNotExist(err) {
		t.Errorf("expected temp file %s to be removed", gotPath)
	}
}

func TestFromUploadPDFFallback(t *testing.T) {
	stubPDFToText(t, func(context.Context, string) ([]byte, error) {
		return nil, fmt.Errorf("pdftotext failed: %w", exec.ErrNotFound)
	})
	got, err := FromUpload(context.Background(), "book.pdf", "", []byte("raw pdf bytes"))
	if err != nil {
		t.Fatalf("FromUpload: %v", err)
	}
	if got != "raw pdf bytes" {
		t.Errorf("expected raw decoding fallback, got %q", got)
	}
}

func TestFromUploadPDFError(t *testing.T) {
	stubPDFToText(t, func(context.Context, string) ([]byte, error) {
		return nil, errors.New("pdftotext failed: exit status 1")
	})
	if _, err := FromUpload(context.Background(), "broken.pdf", "application/pdf", []byte("x")); err == nil {
		t.Error("expected error from pdftotext")
	}
}
