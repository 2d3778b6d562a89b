package verify

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// signedFixture generates a signing key, writes its armored public key
// as a keyring file, writes the artifact, and produces an armored
// detached signature over it.
func signedFixture(t *testing.T, content []byte) (keyringPath, artifactPath string, sig []byte) {
	t.Helper()
	dir := t.TempDir()

	entity, err := openpgp.NewEntity("Release Signer", "", "release@example.com", nil)
	if err != nil {
		t.Fatalf("generate key: %v", err)
	}

	keyringPath = filepath.Join(dir, "keyring.asc")
	keyringFile, err := os.Create(keyringPath)
	if err != nil {
		t.Fatal(err)
	}
	armorWriter, err := armor.Encode(keyringFile, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatal(err)
	}
	if err := entity.Serialize(armorWriter); err != nil {
		t.Fatalf("serialize public key: %v", err)
	}
	if err := armorWriter.Close(); err != nil {
		t.Fatal(err)
	}
	if err := keyringFile.Close(); err != nil {
		t.Fatal(err)
	}

	artifactPath = filepath.Join(dir, "eclipse.tar.gz")
	if err := os.WriteFile(artifactPath, content, 0644); err != nil {
		t.Fatal(err)
	}

	var sigBuf bytes.Buffer
	if err := openpgp.ArmoredDetachSign(&sigBuf, entity, bytes.NewReader(content), nil); err != nil {
		t.Fatalf("sign artifact: %v", err)
	}

	return keyringPath, artifactPath, sigBuf.Bytes()
}

func TestVerifyArtifact(t *testing.T) {
	content := []byte("signed release artifact")
	keyring, artifact, sig := signedFixture(t, content)

	artifactURL := "https://example.com/eclipse.tar.gz"
	v := NewSignatureVerifier(keyring, &fakeFetcher{bodies: map[string][]byte{
		artifactURL + SignatureSuffix: sig,
	}})

	if err := v.VerifyArtifact(context.Background(), artifact, artifactURL); err != nil {
		t.Fatalf("VerifyArtifact() error: %v", err)
	}
}

func TestVerifyArtifactTamperedContent(t *testing.T) {
	keyring, artifact, sig := signedFixture(t, []byte("signed release artifact"))

	if err := os.WriteFile(artifact, []byte("tampered bytes"), 0644); err != nil {
		t.Fatal(err)
	}

	artifactURL := "https://example.com/eclipse.tar.gz"
	v := NewSignatureVerifier(keyring, &fakeFetcher{bodies: map[string][]byte{
		artifactURL + SignatureSuffix: sig,
	}})

	if err := v.VerifyArtifact(context.Background(), artifact, artifactURL); err == nil {
		t.Fatal("VerifyArtifact() accepted a tampered artifact")
	}
}

func TestVerifyArtifactMissingSignature(t *testing.T) {
	keyring, artifact, _ := signedFixture(t, []byte("payload"))

	v := NewSignatureVerifier(keyring, &fakeFetcher{bodies: map[string][]byte{}})
	if err := v.VerifyArtifact(context.Background(), artifact, "https://example.com/eclipse.tar.gz"); err == nil {
		t.Fatal("VerifyArtifact() succeeded without a published signature")
	}
}

func TestVerifyArtifactMissingKeyring(t *testing.T) {
	_, artifact, sig := signedFixture(t, []byte("payload"))

	artifactURL := "https://example.com/eclipse.tar.gz"
	v := NewSignatureVerifier(filepath.Join(t.TempDir(), "absent.asc"), &fakeFetcher{bodies: map[string][]byte{
		artifactURL + SignatureSuffix: sig,
	}})

	if err := v.VerifyArtifact(context.Background(), artifact, artifactURL); err == nil {
		t.Fatal("VerifyArtifact() succeeded with a missing keyring")
	}
}

func TestVerifyArtifactGarbageKeyring(t *testing.T) {
	_, artifact, sig := signedFixture(t, []byte("payload"))

	garbage := filepath.Join(t.TempDir(), "keyring.asc")
	if err := os.WriteFile(garbage, []byte("not a keyring"), 0644); err != nil {
		t.Fatal(err)
	}

	artifactURL := "https://example.com/eclipse.tar.gz"
	v := NewSignatureVerifier(garbage, &fakeFetcher{bodies: map[string][]byte{
		artifactURL + SignatureSuffix: sig,
	}})

	if err := v.VerifyArtifact(context.Background(), artifact, artifactURL); err == nil {
		t.Fatal("VerifyArtifact() succeeded with an unreadable keyring")
	}
}
