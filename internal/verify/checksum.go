// Package verify establishes trust in downloaded artifacts: SHA-512
// checksum verification against the published detached descriptor, and
// optional detached GPG signature verification.
package verify

import (
	"context"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"
)

// ChecksumSuffix is appended to an artifact URL to locate its published
// checksum descriptor.
const ChecksumSuffix = ".sha512"

// Fetcher retrieves a small remote resource. Satisfied by
// fetch.Downloader.FetchBody.
type Fetcher interface {
	FetchBody(ctx context.Context, url string) ([]byte, error)
}

// Result is the outcome of a verification attempt. Verification never
// fails hard: transport and I/O problems fold into an unsuccessful
// Result whose Reason explains what happened, so the caller can apply
// its retry policy.
type Result struct {
	OK       bool
	Expected string
	Computed string
	Reason   error
}

// Checksummer verifies local files against published SHA-512 digests.
type Checksummer struct {
	fetcher Fetcher
}

// NewChecksummer creates a checksummer that fetches checksum
// descriptors with the given fetcher.
func NewChecksummer(fetcher Fetcher) *Checksummer {
	return &Checksummer{fetcher: fetcher}
}

// VerifyFile verifies filePath against the checksum descriptor
// published next to artifactURL. A descriptor fetch failure is an
// unsuccessful but recoverable outcome, not a pipeline error.
func (c *Checksummer) VerifyFile(ctx context.Context, filePath, artifactURL string) Result {
	body, err := c.fetcher.FetchBody(ctx, artifactURL+ChecksumSuffix)
	if err != nil {
		return Result{Reason: fmt.Errorf("fetch checksum descriptor: %w", err)}
	}

	expected, err := ParseDescriptor(body)
	if err != nil {
		return Result{Reason: err}
	}

	computed, err := HashFile(filePath)
	if err != nil {
		return Result{Expected: expected, Reason: fmt.Errorf("hash local file: %w", err)}
	}

	if !strings.EqualFold(computed, expected) {
		return Result{
			Expected: expected,
			Computed: computed,
			Reason:   fmt.Errorf("checksum mismatch:\nexpected: %s\ncomputed: %s", expected, computed),
		}
	}

	return Result{OK: true, Expected: expected, Computed: computed}
}

// ParseDescriptor extracts the expected digest from a checksum
// descriptor body. Format: "<hex digest> <optional filename>"; only the
// first whitespace-delimited token is consulted.
func ParseDescriptor(body []byte) (string, error) {
	fields := strings.Fields(string(body))
	if len(fields) == 0 {
		return "", fmt.Errorf("empty checksum descriptor")
	}

	digest := fields[0]
	if len(digest) != sha512.Size*2 {
		return "", fmt.Errorf("descriptor token %q is not a SHA-512 digest", digest)
	}
	if _, err := hex.DecodeString(digest); err != nil {
		return "", fmt.Errorf("descriptor token is not hex: %w", err)
	}

	return digest, nil
}

// HashFile computes the SHA-512 digest of a file, streaming it in
// fixed-size chunks so memory stays bounded for multi-gigabyte
// artifacts.
func HashFile(filePath string) (string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	hasher := sha512.New()
	buf := make([]byte, 64*1024)
	if _, err := io.CopyBuffer(hasher, file, buf); err != nil {
		return "", err
	}

	return hex.EncodeToString(hasher.Sum(nil)), nil
}
