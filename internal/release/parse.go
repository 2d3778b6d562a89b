// Package release handles Eclipse EPP release naming: recovering the
// product variant and version from artifact filenames, and discovering
// the newest release artifact from the upstream download listing.
package release

import (
	"fmt"
	"net/url"
	"path"
	"regexp"
	"strings"
)

// VariantVersion is the packaging metadata recovered from an artifact
// filename. Variant is a lowercase flavor token (e.g. "cpp", "java");
// Version is a YYYY-MM release train or the literal "unknown".
type VariantVersion struct {
	Variant string
	Version string
}

// VersionUnknown is returned when no YYYY-MM token can be recovered.
const VersionUnknown = "unknown"

// versionPattern matches an Eclipse release train identifier anywhere
// in a filename (e.g. "2025-12").
var versionPattern = regexp.MustCompile(`\d{4}-\d{2}`)

// Parser extracts VariantVersion from artifact filenames.
type Parser struct {
	product        string
	defaultVariant string
	strict         *regexp.Regexp
}

// NewParser creates a parser for the given product prefix, fallback
// variant, and fixed platform filename suffix.
func NewParser(product, defaultVariant, platformSuffix string) *Parser {
	// Strict shape: <product>-<variant>-<YYYY-MM>[-R]-<platform suffix>
	strict := regexp.MustCompile(
		`^` + regexp.QuoteMeta(product) +
			`-([a-z]+)-(\d{4}-\d{2})(?:-R)?-` +
			regexp.QuoteMeta(platformSuffix) + `$`)

	return &Parser{
		product:        product,
		defaultVariant: defaultVariant,
		strict:         strict,
	}
}

// Parse recovers the variant and version from an artifact filename.
// Parsing is total: any input produces a usable, if degraded, result so
// the pipeline can proceed. Filenames that match the strict release
// shape yield exact captures; otherwise a loose dash-split rule is
// applied, and finally the configured defaults.
func (p *Parser) Parse(filename string) VariantVersion {
	if m := p.strict.FindStringSubmatch(filename); m != nil {
		return VariantVersion{Variant: m[1], Version: m[2]}
	}

	// Loose rule: a recognizable product prefix with at least a variant
	// token after it is still trusted for the variant; the version is
	// scavenged from anywhere in the name.
	version := versionPattern.FindString(filename)
	if version == "" {
		version = VersionUnknown
	}

	tokens := strings.Split(filename, "-")
	if tokens[0] == p.product && len(tokens) >= 3 {
		return VariantVersion{Variant: strings.ToLower(tokens[1]), Version: version}
	}

	return VariantVersion{Variant: p.defaultVariant, Version: VersionUnknown}
}

// FilenameFromURL derives the artifact filename from the last path
// segment of a URL, percent-decoded. The filename is the cache key and
// checksum-lookup key, so it must be non-empty.
func FilenameFromURL(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("parse url: %w", err)
	}

	name := path.Base(u.Path)
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	if name == "" || name == "." || name == "/" {
		return "", fmt.Errorf("url %q has no filename component", rawURL)
	}

	return name, nil
}
