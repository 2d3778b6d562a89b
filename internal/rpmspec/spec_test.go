package rpmspec

import "testing"

func TestClassifyIcon(t *testing.T) {
	tests := []struct {
		name string
		want IconFile
	}{
		{"icon.xpm", IconFile{Name: "icon.xpm", Class: IconVector}},
		{"eclipse.png", IconFile{Name: "eclipse.png", Class: IconPixmap}},
		{"eclipse16.png", IconFile{Name: "eclipse16.png", Class: IconSized, Size: 16}},
		{"eclipse48.png", IconFile{Name: "eclipse48.png", Class: IconSized, Size: 48}},
		{"eclipse256.png", IconFile{Name: "eclipse256.png", Class: IconSized, Size: 256}},
		// Degenerate names still get a usable routing.
		{"eclipse0.png", IconFile{Name: "eclipse0.png", Class: IconPixmap}},
		{"weird.bmp", IconFile{Name: "weird.bmp", Class: IconPixmap}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyIcon(tt.name); got != tt.want {
				t.Errorf("ClassifyIcon(%q) = %+v, want %+v", tt.name, got, tt.want)
			}
		})
	}
}

func TestNewIconSet(t *testing.T) {
	if s := NewIconSet("", nil); s != nil {
		t.Error("NewIconSet with no bundle should be nil")
	}
	if s := NewIconSet("eclipse-icons.tar.gz", nil); s != nil {
		t.Error("NewIconSet with no members should be nil")
	}

	s := NewIconSet("eclipse-icons.tar.gz", []string{"eclipse.png", "eclipse48.png", "eclipse16.png", "eclipse48.png", "icon.xpm"})
	if s == nil {
		t.Fatal("NewIconSet returned nil for a populated bundle")
	}

	sizes := s.ThemeSizes()
	if len(sizes) != 2 || sizes[0] != 16 || sizes[1] != 48 {
		t.Errorf("ThemeSizes() = %v, want [16 48]", sizes)
	}
	if !s.HasPixmap() {
		t.Error("HasPixmap() = false with vector and unsized icons present")
	}

	sizedOnly := NewIconSet("eclipse-icons.tar.gz", []string{"eclipse32.png"})
	if sizedOnly.HasPixmap() {
		t.Error("HasPixmap() = true with only sized icons")
	}
}

func TestPlatformFilterShouldPrune(t *testing.T) {
	f := PlatformFilter{
		Arches:  []string{"aarch64", "ppc64le", "s390x", "x86"},
		Systems: []string{"win32", "macosx", "cocoa"},
	}

	tests := []struct {
		path string
		want bool
	}{
		{"plugins/org.eclipse.swt.win32.win32.x86_64_3.124.jar", true},
		{"plugins/org.eclipse.jdt.launching.macosx.jar", true},
		{"plugins/org.eclipse.swt.cocoa.macosx.aarch64_3.124.jar", true},
		{"plugins/org.eclipse.launcher.gtk.linux.aarch64/", true},
		// "x86" must not match the "x86_64" token.
		{"plugins/org.eclipse.swt.gtk.linux.x86_64_3.124.jar", false},
		{"plugins/org.eclipse.launcher.gtk.linux.x86_64_1.6.100/", false},
		{"plugins/org.eclipse.cdt.core_11.5.jar", false},
		{"eclipse", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := f.ShouldPrune(tt.path); got != tt.want {
				t.Errorf("ShouldPrune(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestPackageAccessors(t *testing.T) {
	p := Package{
		Product:          "eclipse",
		Variant:          "cpp",
		Version:          "2025-12",
		ArtifactFilename: "eclipse-cpp-2025-12-R-linux-gtk-x86_64.tar.gz",
		InstallRoot:      "/opt",
	}

	if got := p.Name(); got != "eclipse-cpp" {
		t.Errorf("Name() = %q", got)
	}
	if got := p.RPMVersion(); got != "2025.12" {
		t.Errorf("RPMVersion() = %q", got)
	}
	if got := p.DisplayName(); got != "Eclipse CPP" {
		t.Errorf("DisplayName() = %q", got)
	}
	if got := p.InstallDir(); got != "/opt/eclipse-cpp" {
		t.Errorf("InstallDir() = %q", got)
	}

	p.Variant = "embedcpp"
	if got := p.DisplayVariant(); got != "Embedcpp" {
		t.Errorf("DisplayVariant() = %q, want title case for long variants", got)
	}
}

func TestPackageValidate(t *testing.T) {
	valid := Package{
		Product:          "eclipse",
		Variant:          "cpp",
		Version:          "2025-12",
		ArtifactFilename: "eclipse-cpp-2025-12-R-linux-gtk-x86_64.tar.gz",
		InstallRoot:      "/opt",
	}
	if err := valid.Validate(); err != nil {
		t.Fatalf("Validate() on a complete document: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Package)
	}{
		{"missing product", func(p *Package) { p.Product = "" }},
		{"missing variant", func(p *Package) { p.Variant = "" }},
		{"missing version", func(p *Package) { p.Version = "" }},
		{"missing artifact", func(p *Package) { p.ArtifactFilename = "" }},
		{"missing install root", func(p *Package) { p.InstallRoot = "" }},
		{"relative install root", func(p *Package) { p.InstallRoot = "opt" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if err := p.Validate(); err == nil {
				t.Error("Validate() accepted an incomplete document")
			}
		})
	}
}
