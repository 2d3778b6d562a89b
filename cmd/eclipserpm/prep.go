package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/config"
	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/pipeline"
	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/platform"
	"github.com/qrdrop/cursor-eclipse-cdt-fedora-rpm/internal/release"
)

// runPrep handles the `eclipserpm prep` subcommand.
// Returns the process exit code and an optional error to print.
func runPrep(args []string) (int, error) {
	var (
		urlArg     string
		configPath string
		stagingDir string
		useLatest  bool
		noVerify   bool
	)

	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "--help", "-h":
			printUsage()
			return 0, nil
		case "-latest", "--latest":
			useLatest = true
		case "-no-verify", "--no-verify":
			noVerify = true
		case "-config", "--config":
			i++
			if i >= len(args) {
				return 2, fmt.Errorf("-config requires a path")
			}
			configPath = args[i]
		case "-staging", "--staging":
			i++
			if i >= len(args) {
				return 2, fmt.Errorf("-staging requires a path")
			}
			stagingDir = args[i]
		default:
			if strings.HasPrefix(args[i], "-") {
				return 2, fmt.Errorf("unknown option: %s", args[i])
			}
			if urlArg != "" {
				return 2, fmt.Errorf("unexpected argument: %s", args[i])
			}
			urlArg = args[i]
		}
	}

	cfg := config.Default()
	if configPath != "" {
		loaded, err := config.Load(configPath)
		if err != nil {
			return 1, err
		}
		cfg = loaded
	}
	if stagingDir != "" {
		cfg.StagingRoot = stagingDir
	}
	if noVerify {
		cfg.VerifyChecksums = false
	}

	ctx := context.Background()

	warnForeignHost(ctx)

	url, err := resolveURL(ctx, cfg, urlArg, useLatest)
	if err != nil {
		return 2, err
	}

	p := pipeline.New(cfg, pipeline.Options{Out: os.Stdout})
	if _, err := p.Run(ctx, url); err != nil {
		if errors.Is(err, pipeline.ErrIntegrity) {
			return 1, fmt.Errorf("corrupt file: %w", err)
		}
		return 1, err
	}

	return 0, nil
}

// resolveURL picks the artifact URL for this run: the explicit
// argument, the discovered latest release, the interactive prompt, in
// that order. No URL from any source is a usage error.
func resolveURL(ctx context.Context, cfg config.Config, urlArg string, useLatest bool) (string, error) {
	if urlArg != "" {
		return pipeline.ArgSource{URL: urlArg}.Resolve()
	}

	if useLatest {
		resolver := release.NewResolver(cfg.ReleaseBaseURL, cfg.Product, cfg.DefaultVariant, cfg.PlatformSuffix)
		url, err := resolver.LatestReleaseURL(ctx)
		if err == nil {
			fmt.Printf("Found download URL: %s\n", url)
			return url, nil
		}
		fmt.Fprintf(os.Stderr, "Warning: release discovery failed (%v), using fallback URL\n", err)
		if cfg.FallbackURL != "" {
			return cfg.FallbackURL, nil
		}
		return "", fmt.Errorf("release discovery failed and no fallback URL configured")
	}

	return pipeline.PromptSource{In: os.Stdin, Out: os.Stdout}.Resolve()
}

// warnForeignHost prints an advisory when the host is unlikely to be
// able to build or test the resulting x86_64 RPM. Detection failures
// are ignored; this is a convenience, not a gate.
func warnForeignHost(ctx context.Context) {
	info, err := platform.NewDetector().Detect(ctx)
	if err != nil || info == nil {
		return
	}

	if !info.IsLinux() || !info.IsAMD64() {
		fmt.Fprintf(os.Stderr, "Warning: preparing an x86_64 Linux package on %s/%s\n", info.OS, info.Arch)
		return
	}
	if info.Platform != "" && !info.IsRPMFamily() {
		fmt.Fprintf(os.Stderr, "Warning: %s is not an RPM-based distribution; rpmbuild may be unavailable\n", info.Platform)
	}
}
