package verify

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/ProtonMail/go-crypto/openpgp" //nolint:staticcheck // Using ProtonMail's maintained fork
)

// SignatureSuffix is appended to an artifact URL to locate a detached
// GPG signature, when signature verification is configured.
const SignatureSuffix = ".asc"

// SignatureVerifier checks detached GPG signatures against a
// user-supplied public keyring. Unlike checksums this capability is
// opt-in: it only runs when a keyring path is configured, and a
// configured-but-failing signature is treated as fatal by the caller.
type SignatureVerifier struct {
	keyringPath string
	fetcher     Fetcher
}

// NewSignatureVerifier creates a verifier for the given keyring file.
func NewSignatureVerifier(keyringPath string, fetcher Fetcher) *SignatureVerifier {
	return &SignatureVerifier{keyringPath: keyringPath, fetcher: fetcher}
}

// VerifyArtifact fetches the detached signature published next to
// artifactURL and verifies filePath against it.
func (v *SignatureVerifier) VerifyArtifact(ctx context.Context, filePath, artifactURL string) error {
	sig, err := v.fetcher.FetchBody(ctx, artifactURL+SignatureSuffix)
	if err != nil {
		return fmt.Errorf("fetch signature: %w", err)
	}

	keyring, err := v.loadKeyring()
	if err != nil {
		return fmt.Errorf("load keyring: %w", err)
	}

	file, err := os.Open(filePath)
	if err != nil {
		return fmt.Errorf("open artifact: %w", err)
	}
	defer file.Close()

	// Try armored first, then binary.
	_, err = openpgp.CheckArmoredDetachedSignature(keyring, file, bytes.NewReader(sig), nil)
	if err != nil {
		if _, serr := file.Seek(0, io.SeekStart); serr != nil {
			return fmt.Errorf("rewind artifact: %w", serr)
		}
		_, err = openpgp.CheckDetachedSignature(keyring, file, bytes.NewReader(sig), nil)
	}
	if err != nil {
		return fmt.Errorf("verify signature: %w", err)
	}

	return nil
}

// loadKeyring reads the configured public keyring, armored or binary.
func (v *SignatureVerifier) loadKeyring() (openpgp.EntityList, error) {
	keyringFile, err := os.Open(v.keyringPath)
	if err != nil {
		return nil, fmt.Errorf("open keyring: %w", err)
	}
	defer keyringFile.Close()

	keyring, err := openpgp.ReadArmoredKeyRing(keyringFile)
	if err != nil {
		if _, serr := keyringFile.Seek(0, io.SeekStart); serr != nil {
			return nil, fmt.Errorf("rewind keyring: %w", serr)
		}
		keyring, err = openpgp.ReadKeyRing(keyringFile)
		if err != nil {
			return nil, fmt.Errorf("read keyring: %w", err)
		}
	}

	if len(keyring) == 0 {
		return nil, fmt.Errorf("keyring is empty")
	}

	return keyring, nil
}
