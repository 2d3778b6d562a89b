package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the immutable settings for one preparation run.
// A Config is constructed once (defaults, optionally overlaid with a YAML
// settings file) and then passed explicitly into the pipeline and the
// descriptor synthesizer; nothing reads it as ambient global state.
type Config struct {
	// StagingRoot is the rpmbuild-style working tree created per run.
	StagingRoot string `yaml:"staging_root"`

	// Product is the artifact filename prefix and RPM name prefix.
	Product string `yaml:"product"`

	// DefaultVariant is used when the filename parser cannot recover a
	// variant from the artifact name.
	DefaultVariant string `yaml:"default_variant"`

	// PlatformSuffix is the fixed build-tag tail of release filenames.
	PlatformSuffix string `yaml:"platform_suffix"`

	// ReleaseBaseURL is the directory listing scanned by `prep -latest`.
	ReleaseBaseURL string `yaml:"release_base_url"`

	// FallbackURL is used when release discovery fails.
	FallbackURL string `yaml:"fallback_url"`

	// VerifyChecksums toggles SHA-512 verification of downloaded artifacts.
	VerifyChecksums bool `yaml:"verify_checksums"`

	// Keyring is an optional path to an armored GPG public keyring. When
	// set, a detached .asc signature is fetched and must verify.
	Keyring string `yaml:"keyring"`

	// InstallRoot is where the packaged tree is installed on the target
	// system (the RPM install prefix for the product directory).
	InstallRoot string `yaml:"install_root"`

	// ForeignArches are CPU architecture tokens pruned from the staged
	// plugin tree. Everything that is not x86_64.
	ForeignArches []string `yaml:"foreign_arches"`

	// ForeignSystems are operating system / windowing tokens pruned from
	// the staged plugin tree. Everything that is not linux/gtk.
	ForeignSystems []string `yaml:"foreign_systems"`
}

// Default returns the configuration used when no settings file is given.
// The values mirror the upstream Eclipse EPP release layout.
func Default() Config {
	return Config{
		StagingRoot:     "rpmbuild",
		Product:         "eclipse",
		DefaultVariant:  "cpp",
		PlatformSuffix:  "linux-gtk-x86_64.tar.gz",
		ReleaseBaseURL:  "https://download.eclipse.org/technology/epp/downloads/release/",
		FallbackURL:     "https://download.eclipse.org/technology/epp/downloads/release/2025-12/R/eclipse-cpp-2025-12-R-linux-gtk-x86_64.tar.gz",
		VerifyChecksums: true,
		InstallRoot:     "/opt",
		ForeignArches: []string{
			"aarch64", "arm", "armhf", "ia64",
			"ppc", "ppc64", "ppc64le",
			"riscv64", "loongarch64",
			"s390", "s390x",
			"sparc", "sparc64",
			"x86",
		},
		ForeignSystems: []string{
			"win32", "wpf", "macosx", "cocoa",
			"aix", "hpux", "solaris", "qnx", "photon",
		},
	}
}

// Load reads a YAML settings file and overlays it on the defaults.
// Missing keys keep their default values.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config file %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("validate config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks that the configuration is internally consistent.
func (c Config) Validate() error {
	if c.StagingRoot == "" {
		return fmt.Errorf("staging_root cannot be empty")
	}
	if c.Product == "" {
		return fmt.Errorf("product cannot be empty")
	}
	if strings.Contains(c.Product, "-") {
		return fmt.Errorf("product must be a single token, got %q", c.Product)
	}
	if c.DefaultVariant == "" {
		return fmt.Errorf("default_variant cannot be empty")
	}
	if c.PlatformSuffix == "" {
		return fmt.Errorf("platform_suffix cannot be empty")
	}
	if c.InstallRoot == "" || !strings.HasPrefix(c.InstallRoot, "/") {
		return fmt.Errorf("install_root must be an absolute path, got %q", c.InstallRoot)
	}
	return nil
}
