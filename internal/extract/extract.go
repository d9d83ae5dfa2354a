// Package extract turns uploaded study material into plain text.
package extract

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ErrUnsupportedType is returned for uploads that are neither text nor PDF.
var ErrUnsupportedType = errors.New("unsupported file type")

// pdfToText converts the PDF at path to text. Replaced in tests.
var pdfToText = func(ctx context.Context, path string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "pdftotext", "-enc", "UTF-8", path, "-")
	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("pdftotext failed: %w", err)
	}
	return output, nil
}

// FromUpload returns the text content of an uploaded file. The kind is taken
// from the content type, then from the file extension.
func FromUpload(ctx context.Context, filename, contentType string, data []byte) (string, error) {
	mediaType, _, _ := mime.ParseMediaType(contentType)
	ext := strings.ToLower(filepath.Ext(filename))

	switch {
	case mediaType == "application/pdf" || ext == ".pdf":
		return fromPDF(ctx, data)
	case mediaType == "text/plain" || ext == ".txt":
		return decode(data), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedType, describe(filename, contentType))
	}
}

func fromPDF(ctx context.Context, data []byte) (string, error) {
	f, err := os.CreateTemp("", "smarttrainer-*.pdf")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(f.Name())
	if _, err := f.Write(data); err != nil {
		f.Close()
		return "", fmt.Errorf("write temp file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}

	out, err := pdfToText(ctx, f.Name())
	if errors.Is(err, exec.ErrNotFound) {
		slog.Warn("pdftotext not installed, decoding PDF bytes as text")
		return decode(data), nil
	}
	if err != nil {
		return "", err
	}
	return decode(out), nil
}

// decode reads data as UTF-8, dropping invalid sequences.
func decode(data []byte) string {
	return strings.ToValidUTF8(string(data), "")
}

func describe(filename, contentType string) string {
	if contentType == "" {
		return filename
	}
	return filename + " (" + contentType + ")"
}
