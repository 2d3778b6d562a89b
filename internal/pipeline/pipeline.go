// Package pipeline sequences one preparation run: resolve the artifact
// URL, fetch (or reuse) the artifact, verify its integrity, recover
// packaging metadata, extract icon assets, and synthesize the RPM spec.
package pipeline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/config"
	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/fetch"
	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/icons"
	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/release"
	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/rpmspec"
	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/staging"
	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/verify"
)

// ErrIntegrity marks an unrecoverable checksum failure: the artifact on
// disk does not match its published digest even after the retry policy
// was exhausted.
var ErrIntegrity = errors.New("artifact failed integrity verification")

// Options configures a Pipeline beyond its Config.
type Options struct {
	// Out receives per-stage status lines. Defaults to os.Stdout.
	Out io.Writer
	// Clock feeds the changelog date. Defaults to system time.
	Clock rpmspec.Clock
}

// Result describes a completed run.
type Result struct {
	URL        string
	Filename   string
	Release    release.VariantVersion
	SpecPath   string
	IconBundle string // empty when no icons were found
	Cached     bool   // artifact was reused from a prior run
	Refetched  bool   // the one self-heal re-download happened
}

// Pipeline drives one preparation run. Runs are independent: no state
// survives between invocations beyond the files in the staging tree.
type Pipeline struct {
	cfg         config.Config
	layout      staging.Layout
	downloader  *fetch.Downloader
	checksummer *verify.Checksummer
	signatures  *verify.SignatureVerifier
	parser      *release.Parser
	extractor   *icons.Extractor
	synth       *rpmspec.Synthesizer
	out         io.Writer

	trace []State
}

// New creates a pipeline for the given configuration.
func New(cfg config.Config, opts Options) *Pipeline {
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	downloader := fetch.NewDownloader()

	p := &Pipeline{
		cfg:         cfg,
		layout:      staging.NewLayout(cfg.StagingRoot),
		downloader:  downloader,
		checksummer: verify.NewChecksummer(downloader),
		parser:      release.NewParser(cfg.Product, cfg.DefaultVariant, cfg.PlatformSuffix),
		extractor:   icons.NewExtractor(cfg.Product),
		synth:       rpmspec.NewSynthesizer(opts.Clock),
		out:         out,
	}

	if cfg.Keyring != "" {
		p.signatures = verify.NewSignatureVerifier(cfg.Keyring, downloader)
	}

	return p
}

// Trace returns the states visited by the last Run, in order.
func (p *Pipeline) Trace() []State {
	return p.trace
}

// Run executes the pipeline for the given artifact URL.
func (p *Pipeline) Run(ctx context.Context, url string) (*Result, error) {
	p.trace = p.trace[:0]

	p.enter(StateResolvingURL)
	filename, err := release.FilenameFromURL(url)
	if err != nil {
		return nil, fmt.Errorf("resolve artifact reference: %w", err)
	}
	p.printf("Preparing %s\n", filename)

	if err := p.layout.Ensure(); err != nil {
		return nil, fmt.Errorf("create staging tree: %w", err)
	}

	lock, err := staging.AcquireLock(p.cfg.StagingRoot)
	if err != nil {
		return nil, err
	}
	defer lock.Release()

	result := &Result{URL: url, Filename: filename}
	destPath := p.layout.SourcePath(filename)

	// Fetch, unless a prior run already left the artifact in place.
	result.Cached = fetch.FileExists(destPath)
	if result.Cached {
		p.printf("File %s already exists, skipping download\n", destPath)
	} else {
		p.enter(StateFetching)
		p.printf("Downloading %s\n", url)
		written, err := p.downloader.DownloadToFile(ctx, url, destPath)
		if err != nil {
			return nil, fmt.Errorf("download artifact: %w", err)
		}
		p.printf("Downloaded %s (%d bytes)\n", filename, written)
	}

	if p.cfg.VerifyChecksums {
		if err := p.verifyWithRetry(ctx, url, destPath, result); err != nil {
			p.enter(StateAborted)
			return nil, err
		}
	}

	if p.signatures != nil {
		p.printf("Verifying GPG signature\n")
		if err := p.signatures.VerifyArtifact(ctx, destPath, url); err != nil {
			p.enter(StateAborted)
			return nil, fmt.Errorf("signature verification: %w", err)
		}
	}

	p.enter(StateParsingName)
	result.Release = p.parser.Parse(filename)
	p.printf("Detected variant %q, version %q\n", result.Release.Variant, result.Release.Version)

	p.enter(StateExtractingAssets)
	p.printf("Searching for icon assets in %s\n", filename)
	bundle, err := p.extractor.ExtractBundle(destPath, p.layout.SourcesDir())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not scan archive for icons: %v\n", err)
	}
	var iconSet *rpmspec.IconSet
	if bundle != nil {
		result.IconBundle = bundle.Filename
		iconSet = rpmspec.NewIconSet(bundle.Filename, bundle.Members)
		p.printf("Bundled %d icon file(s) into %s\n", len(bundle.Members), bundle.Filename)
	} else {
		p.printf("No icon assets found\n")
	}

	p.enter(StateSynthesizingDescriptor)
	pkg := rpmspec.Package{
		Product:          p.cfg.Product,
		Variant:          result.Release.Variant,
		Version:          result.Release.Version,
		ArtifactFilename: filename,
		InstallRoot:      p.cfg.InstallRoot,
		Icons:            iconSet,
		Filter: rpmspec.PlatformFilter{
			Arches:  p.cfg.ForeignArches,
			Systems: p.cfg.ForeignSystems,
		},
	}
	result.SpecPath = p.layout.SpecPath(pkg.Name())
	if err := p.synth.WriteSpec(pkg, result.SpecPath); err != nil {
		return nil, fmt.Errorf("synthesize descriptor: %w", err)
	}
	p.printf("Created spec file at %s\n", result.SpecPath)

	p.enter(StateDone)
	p.printf("Preparation complete. Ready to run rpmbuild.\n")
	return result, nil
}

// verifyWithRetry applies the integrity retry policy. A file reused
// from a prior run gets exactly one forced re-download when it fails
// verification; a freshly downloaded file gets none. This asymmetry is
// deliberate: a stale cached file can self-heal, a fresh download that
// is already wrong cannot.
func (p *Pipeline) verifyWithRetry(ctx context.Context, url, destPath string, result *Result) error {
	p.enter(StateVerifying)
	p.printf("Verifying SHA-512 checksum\n")

	res := p.checksummer.VerifyFile(ctx, destPath, url)
	if res.OK {
		p.printf("Checksum OK\n")
		return nil
	}

	if !result.Cached {
		return fmt.Errorf("%w: %v", ErrIntegrity, res.Reason)
	}

	fmt.Fprintf(os.Stderr, "Warning: cached file failed verification (%v), re-downloading\n", res.Reason)
	p.enter(StateRetryFetch)
	result.Refetched = true

	if _, err := p.downloader.DownloadToFile(ctx, url, destPath); err != nil {
		return fmt.Errorf("re-download artifact: %w", err)
	}

	res = p.checksummer.VerifyFile(ctx, destPath, url)
	if !res.OK {
		return fmt.Errorf("%w after re-download: %v", ErrIntegrity, res.Reason)
	}

	p.printf("Checksum OK after re-download\n")
	return nil
}

// enter records a state transition.
func (p *Pipeline) enter(s State) {
	p.trace = append(p.trace, s)
}

func (p *Pipeline) printf(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format, args...)
}
