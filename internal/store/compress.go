package store

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"
)

// Compress rewrites a plaintext file as a gzip artifact (<name>.gz) and
// deletes the original. The compressed copy is written to a temp name and
// renamed only once fully flushed, so a failure partway leaves the plaintext
// intact and never a half-written .gz masquerading as complete.
func Compress(path string) (string, error) {
	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("store: compress open: %w", err)
	}
	defer src.Close()

	dest := path + ".gz"
	tmp := dest + ".tmp"

	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("store: compress create temp: %w", err)
	}

	zw := gzip.NewWriter(out)
	if _, err := io.Copy(zw, src); err != nil {
		zw.Close()
		out.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("store: compress copy: %w", err)
	}
	if err := zw.Close(); err != nil {
		out.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("store: compress finalize: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("store: compress close: %w", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("store: compress rename: %w", err)
	}

	if err := os.Remove(path); err != nil {
		return "", fmt.Errorf("store: compress remove original: %w", err)
	}
	return dest, nil
}

// Decompress restores a .gz artifact to its original plaintext path,
// reproducing the exact original bytes. The artifact is kept.
func Decompress(path string) (string, error) {
	if !strings.HasSuffix(path, ".gz") {
		return "", fmt.Errorf("store: decompress: not a .gz file: %s", path)
	}

	src, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("store: decompress open: %w", err)
	}
	defer src.Close()

	zr, err := gzip.NewReader(src)
	if err != nil {
		return "", fmt.Errorf("store: decompress reader: %w", err)
	}
	defer zr.Close()

	dest := strings.TrimSuffix(path, ".gz")
	tmp := dest + ".tmp"

	out, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("store: decompress create temp: %w", err)
	}
	if _, err := io.Copy(out, zr); err != nil {
		out.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("store: decompress copy: %w", err)
	}
	if err := out.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("store: decompress close: %w", err)
	}

	if err := os.Rename(tmp, dest); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("store: decompress rename: %w", err)
	}
	return dest, nil
}
