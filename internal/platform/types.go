// Package platform detects the host OS, architecture, and Linux
// distribution family. The prep pipeline produces x86_64 RPMs for
// Fedora-family systems, so the detected information is used to warn
// when the host is unlikely to be able to build or test the result.
//
// Distribution details come from gopsutil; when detection fails the
// package falls back gracefully to OS/arch only.
package platform

import "context"

// Linux distribution family constants.
const (
	FamilyDebian  = "debian"  // Debian, Ubuntu, Linux Mint
	FamilyRHEL    = "rhel"    // RHEL, CentOS, Rocky Linux, AlmaLinux
	FamilyFedora  = "fedora"  // Fedora
	FamilySUSE    = "suse"    // openSUSE, SLES
	FamilyArch    = "arch"    // Arch Linux, Manjaro
	FamilyUnknown = "unknown" // Unrecognized distributions
)

// Info contains platform detection information.
type Info struct {
	OS       string // "linux", "darwin", "windows"
	Arch     string // "amd64", "arm64" (normalized)
	ArchRaw  string // original GOARCH value
	Platform string // distro ID (Linux only, e.g. "fedora")
	Family   string // canonical family (e.g. "fedora", "rhel")
	Version  string // distro version (Linux only, e.g. "41")
}

// IsLinux returns true if the platform is Linux.
func (i *Info) IsLinux() bool {
	return i.OS == "linux"
}

// IsAMD64 returns true if the architecture is amd64.
func (i *Info) IsAMD64() bool {
	return i.Arch == "amd64"
}

// IsRPMFamily returns true if the host distribution consumes RPM
// packages natively (Fedora, RHEL, or SUSE families).
func (i *Info) IsRPMFamily() bool {
	if i.OS != "linux" {
		return false
	}
	switch i.Family {
	case FamilyFedora, FamilyRHEL, FamilySUSE:
		return true
	default:
		return false
	}
}

// Detector is the interface for platform detection.
type Detector interface {
	Detect(ctx context.Context) (*Info, error)
}
