// Package rpmspec synthesizes the RPM packaging descriptor for a
// repackaged binary release. The descriptor is modeled as a structured
// document (typed fields per section) and rendered by a template at the
// boundary, keeping the packaging decisions testable on their own.
package rpmspec

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// IconClass says where an icon file is installed on the target system.
type IconClass int

const (
	// IconVector is the vector icon; it goes to the pixmap directory.
	IconVector IconClass = iota
	// IconPixmap is a raster icon without a size suffix; treated as the
	// default high-resolution icon and placed in the pixmap directory.
	IconPixmap
	// IconSized is a raster icon with an embedded pixel size; routed
	// into the size-bucketed hicolor theme directory.
	IconSized
)

// String returns the string representation of the icon class.
func (c IconClass) String() string {
	switch c {
	case IconVector:
		return "vector"
	case IconPixmap:
		return "pixmap"
	case IconSized:
		return "sized"
	default:
		return "unknown"
	}
}

// IconFile is one bundled icon and its install routing decision.
type IconFile struct {
	Name  string
	Class IconClass
	Size  int // pixel size for IconSized, 0 otherwise
}

// sizedIconPattern captures the optional size digits of a raster icon
// base name (e.g. "eclipse48.png" -> "48").
var sizedIconPattern = regexp.MustCompile(`^[a-z]+(\d*)\.png$`)

// ClassifyIcon decides the install routing for a flattened icon file.
// Vector icons and unsized rasters land in the pixmap directory; sized
// rasters are bucketed under <size>x<size>/apps in the icon theme.
func ClassifyIcon(name string) IconFile {
	if strings.HasSuffix(name, ".xpm") {
		return IconFile{Name: name, Class: IconVector}
	}

	if m := sizedIconPattern.FindStringSubmatch(name); m != nil && m[1] != "" {
		size, err := strconv.Atoi(m[1])
		if err == nil && size > 0 {
			return IconFile{Name: name, Class: IconSized, Size: size}
		}
	}

	return IconFile{Name: name, Class: IconPixmap}
}

// IconSet is the optional secondary source artifact holding extracted
// icons, plus the routing decision for each member.
type IconSet struct {
	BundleFilename string
	Files          []IconFile
}

// NewIconSet classifies every bundle member. Returns nil for an empty
// member list so callers can treat "no bundle" and "empty bundle" the
// same way.
func NewIconSet(bundleFilename string, members []string) *IconSet {
	if bundleFilename == "" || len(members) == 0 {
		return nil
	}

	set := &IconSet{BundleFilename: bundleFilename}
	for _, m := range members {
		set.Files = append(set.Files, ClassifyIcon(m))
	}
	return set
}

// ThemeSizes returns the distinct pixel sizes of sized icons, ascending.
func (s *IconSet) ThemeSizes() []int {
	seen := make(map[int]bool)
	var sizes []int
	for _, f := range s.Files {
		if f.Class == IconSized && !seen[f.Size] {
			seen[f.Size] = true
			sizes = append(sizes, f.Size)
		}
	}
	sort.Ints(sizes)
	return sizes
}

// HasPixmap reports whether any icon installs into the pixmap directory.
func (s *IconSet) HasPixmap() bool {
	for _, f := range s.Files {
		if f.Class == IconVector || f.Class == IconPixmap {
			return true
		}
	}
	return false
}

// PlatformFilter is the pruning rule applied to the staged plugin tree:
// payload entries built for any CPU architecture that is not x86_64, or
// any operating system that is not Linux, are deleted before packaging.
type PlatformFilter struct {
	Arches  []string
	Systems []string
}

// ShouldPrune reports whether a staged path names a foreign-platform
// payload entry. Tokens are dot-delimited in Eclipse plugin names, so
// "foo.win32.jar" is pruned while "foo.linux.gtk.x86_64.jar" survives
// (x86_64 is the target, and "x86_64" never tokenizes to "x86").
func (f PlatformFilter) ShouldPrune(path string) bool {
	base := strings.TrimSuffix(path, "/")
	if i := strings.LastIndexByte(base, '/'); i >= 0 {
		base = base[i+1:]
	}

	for _, tok := range strings.Split(base, ".") {
		for _, arch := range f.Arches {
			if tok == arch {
				return true
			}
		}
		for _, sys := range f.Systems {
			if tok == sys {
				return true
			}
		}
	}
	return false
}

// Package is the structured descriptor document for one repackaged
// release. It is built once per run and fully regenerated; a previous
// descriptor is never merged with.
type Package struct {
	Product          string // e.g. "eclipse"
	Variant          string // e.g. "cpp"
	Version          string // release train, e.g. "2025-12"
	ArtifactFilename string // Source0
	InstallRoot      string // e.g. "/opt"
	Icons            *IconSet
	Filter           PlatformFilter
	Date             string // changelog date, e.g. "Sun Jan 04 2026"
}

// Name returns the RPM package name.
func (p Package) Name() string {
	return p.Product + "-" + p.Variant
}

// RPMVersion returns the packaging-system-safe version token: the
// release train with dashes replaced by dots ("2025-12" -> "2025.12").
func (p Package) RPMVersion() string {
	return strings.ReplaceAll(p.Version, "-", ".")
}

// DisplayVariant renders the variant for human-facing text. Short
// variants read as acronyms and are uppercased; longer ones are
// title-cased.
func (p Package) DisplayVariant() string {
	if len(p.Variant) <= 3 {
		return strings.ToUpper(p.Variant)
	}
	return strings.ToUpper(p.Variant[:1]) + p.Variant[1:]
}

// DisplayName returns the human-facing product name.
func (p Package) DisplayName() string {
	return "Eclipse " + p.DisplayVariant()
}

// InstallDir returns the target installation directory.
func (p Package) InstallDir() string {
	return p.InstallRoot + "/" + p.Name()
}

// Validate checks that the document can produce a complete descriptor.
func (p Package) Validate() error {
	if p.Product == "" || p.Variant == "" {
		return fmt.Errorf("product and variant are required")
	}
	if p.Version == "" {
		return fmt.Errorf("version is required")
	}
	if p.ArtifactFilename == "" {
		return fmt.Errorf("artifact filename is required")
	}
	if p.InstallRoot == "" || !strings.HasPrefix(p.InstallRoot, "/") {
		return fmt.Errorf("install root must be absolute, got %q", p.InstallRoot)
	}
	return nil
}
