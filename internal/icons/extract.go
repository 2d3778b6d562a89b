// Package icons scans a release archive for icon assets and repackages
// them into a small secondary bundle next to the downloaded artifact.
//
// Icon provenance inside Eclipse release archives is inconsistent
// between releases (nested paths move around), so entries are matched
// and flattened by base name; where each icon is installed is decided
// later by the descriptor synthesizer.
package icons

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"sort"

	"github.com/ulikunitz/xz"
)

// VectorIconName is the fixed base name of the vector icon shipped in
// release archives.
const VectorIconName = "icon.xpm"

// maxIconBytes caps a single icon entry. Anything bigger is not an icon.
const maxIconBytes = 8 << 20

// Bundle describes the generated icon bundle: its file name inside the
// destination directory and the flattened member names it contains.
type Bundle struct {
	Filename string
	Members  []string
}

// Extractor finds icon assets in release archives.
type Extractor struct {
	product string
	raster  *regexp.Regexp
}

// NewExtractor creates an extractor for the given product name. Raster
// candidates are size-suffixed product icons such as "eclipse48.png" or
// the unsized "eclipse.png".
func NewExtractor(product string) *Extractor {
	return &Extractor{
		product: product,
		raster:  regexp.MustCompile(`^` + regexp.QuoteMeta(product) + `(\d*)\.png$`),
	}
}

// BundleName returns the fixed name of the generated bundle.
func (e *Extractor) BundleName() string {
	return e.product + "-icons.tar.gz"
}

// IsCandidate reports whether an archive entry base name is an icon
// asset worth bundling.
func (e *Extractor) IsCandidate(baseName string) bool {
	if baseName == VectorIconName {
		return true
	}
	return e.raster.MatchString(baseName)
}

// ExtractBundle scans the archive for icon candidates and writes them,
// flattened by base name, into a bundle inside destDir.
//
// The result is optional: (nil, nil) means the archive was readable but
// held no icons, and (nil, err) means the archive could not be read.
// Neither outcome is fatal to the caller; the error is returned so the
// failure stays inspectable.
func (e *Extractor) ExtractBundle(archivePath, destDir string) (*Bundle, error) {
	members, err := e.scanArchive(archivePath)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, nil
	}

	names := make([]string, 0, len(members))
	for name := range members {
		names = append(names, name)
	}
	sort.Strings(names)

	bundlePath := filepath.Join(destDir, e.BundleName())
	if err := writeBundle(bundlePath, names, members); err != nil {
		return nil, fmt.Errorf("write icon bundle: %w", err)
	}

	return &Bundle{Filename: e.BundleName(), Members: names}, nil
}

// scanArchive enumerates archive entries and returns the raw bytes of
// every icon candidate, keyed by flattened base name. The first entry
// wins on base-name collisions.
func (e *Extractor) scanArchive(archivePath string) (map[string][]byte, error) {
	file, err := os.Open(archivePath)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}
	defer file.Close()

	tr, err := openTar(file)
	if err != nil {
		return nil, err
	}

	members := make(map[string][]byte)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read archive entry: %w", err)
		}

		if header.Typeflag != tar.TypeReg {
			continue
		}

		base := path.Base(header.Name)
		if !e.IsCandidate(base) {
			continue
		}
		if _, seen := members[base]; seen {
			continue
		}
		if header.Size > maxIconBytes {
			continue
		}

		data, err := io.ReadAll(io.LimitReader(tr, maxIconBytes))
		if err != nil {
			return nil, fmt.Errorf("read entry %s: %w", header.Name, err)
		}
		members[base] = data
	}

	return members, nil
}

// openTar probes the stream format: gzip first, xz second, and finally
// a plain uncompressed tar.
func openTar(file *os.File) (*tar.Reader, error) {
	if gzr, err := gzip.NewReader(file); err == nil {
		return tar.NewReader(gzr), nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind archive: %w", err)
	}
	if xzr, err := xz.NewReader(file); err == nil {
		return tar.NewReader(xzr), nil
	}

	if _, err := file.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind archive: %w", err)
	}
	return tar.NewReader(file), nil
}

// writeBundle writes the members into a gzipped tar at bundlePath.
// Member order and headers are fixed, so the same input archive always
// produces the same member set and bytes.
func writeBundle(bundlePath string, names []string, members map[string][]byte) error {
	out, err := os.Create(bundlePath)
	if err != nil {
		return fmt.Errorf("create bundle file: %w", err)
	}
	defer out.Close()

	gzw := gzip.NewWriter(out)
	tw := tar.NewWriter(gzw)

	for _, name := range names {
		data := members[name]
		header := &tar.Header{
			Name: name,
			Mode: 0644,
			Size: int64(len(data)),
		}
		if err := tw.WriteHeader(header); err != nil {
			return fmt.Errorf("write header for %s: %w", name, err)
		}
		if _, err := tw.Write(data); err != nil {
			return fmt.Errorf("write member %s: %w", name, err)
		}
	}

	if err := tw.Close(); err != nil {
		return fmt.Errorf("close tar writer: %w", err)
	}
	if err := gzw.Close(); err != nil {
		return fmt.Errorf("close gzip writer: %w", err)
	}
	return out.Close()
}
