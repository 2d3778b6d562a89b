package rpmspec

import (
	"bytes"
	"fmt"
	"os"
	"text/template"
)

// changelogDateFormat is the date layout RPM changelog stanzas use.
const changelogDateFormat = "Mon Jan 02 2006"

// Synthesizer renders Package documents into spec files.
type Synthesizer struct {
	clock Clock
}

// NewSynthesizer creates a synthesizer. A nil clock uses system time.
func NewSynthesizer(clock Clock) *Synthesizer {
	if clock == nil {
		clock = RealClock{}
	}
	return &Synthesizer{clock: clock}
}

// iconInstallView is one rendered icon install step.
type iconInstallView struct {
	MkdirDir string // directory to create first, empty when not needed
	Source   string // flattened file name inside the build dir
	Dest     string // install destination (with rpm macros)
}

// specView is the template input: the document plus precomputed install
// and manifest lines, so the template itself stays free of decisions.
type specView struct {
	Package
	HasIcons     bool
	IconInstalls []iconInstallView
	IconFiles    []string // %files entries for installed icons
}

// Render produces the complete spec document. The changelog date comes
// from the synthesizer's clock when the document does not carry one.
func (s *Synthesizer) Render(p Package) ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid package document: %w", err)
	}

	if p.Date == "" {
		p.Date = s.clock.Now().Format(changelogDateFormat)
	}

	view := buildView(p)

	var buf bytes.Buffer
	if err := specTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("render spec: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteSpec renders the document and persists it at path, replacing any
// previous descriptor.
func (s *Synthesizer) WriteSpec(p Package, path string) error {
	data, err := s.Render(p)
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write spec file: %w", err)
	}

	return nil
}

// buildView precomputes icon install steps and manifest entries.
// Each installed path appears exactly once in the manifest; pixmap
// icons share a single wildcard entry because their extension varies.
func buildView(p Package) specView {
	view := specView{Package: p}

	if p.Icons == nil || len(p.Icons.Files) == 0 {
		return view
	}
	view.HasIcons = true

	madeDirs := make(map[string]bool)
	for _, f := range p.Icons.Files {
		switch f.Class {
		case IconVector:
			view.IconInstalls = append(view.IconInstalls, iconInstallView{
				Source: f.Name,
				Dest:   "%{_datadir}/pixmaps/%{name}.xpm",
			})
		case IconPixmap:
			view.IconInstalls = append(view.IconInstalls, iconInstallView{
				Source: f.Name,
				Dest:   "%{_datadir}/pixmaps/%{name}.png",
			})
		case IconSized:
			dir := fmt.Sprintf("%%{_datadir}/icons/hicolor/%dx%d/apps", f.Size, f.Size)
			install := iconInstallView{
				Source: f.Name,
				Dest:   dir + "/%{name}.png",
			}
			if !madeDirs[dir] {
				madeDirs[dir] = true
				install.MkdirDir = dir
			}
			view.IconInstalls = append(view.IconInstalls, install)
		}
	}

	if p.Icons.HasPixmap() {
		view.IconFiles = append(view.IconFiles, "%{_datadir}/pixmaps/%{name}.*")
	}
	for _, size := range p.Icons.ThemeSizes() {
		view.IconFiles = append(view.IconFiles,
			fmt.Sprintf("%%{_datadir}/icons/hicolor/%dx%d/apps/%%{name}.png", size, size))
	}

	return view
}

var specTemplate = template.Must(template.New("spec").Parse(`%define __jar_repack 0
%define debug_package %{nil}
%define __os_install_post %{nil}

%global __requires_exclude_from ^{{.InstallDir}}/.*$
%global __provides_exclude_from ^{{.InstallDir}}/.*$

Name:           {{.Name}}
Version:        {{.RPMVersion}}
Release:        1%{?dist}
Summary:        {{.DisplayName}} IDE (repackaged binary release)
License:        EPL-2.0
URL:            https://www.eclipse.org/
Source0:        {{.ArtifactFilename}}
{{- if .HasIcons}}
Source1:        {{.Icons.BundleFilename}}
{{- end}}

BuildRequires:  desktop-file-utils

%description
{{.DisplayName}} is a repackaged upstream binary release of the Eclipse
IDE. The release tree is installed under {{.InstallDir}} together with
a desktop entry and a launcher on the standard path.

%prep
%setup -q -c -n %{name}-%{version}
{{- if .HasIcons}}
%setup -q -T -D -a 1 -n %{name}-%{version}
{{- end}}

%build
# Binary release; nothing to build.

%install
rm -rf %{buildroot}
mkdir -p %{buildroot}{{.InstallDir}}
cp -r {{.Product}}/* %{buildroot}{{.InstallDir}}/

# Prune payload entries built for foreign platforms.
for pat in {{range $i, $a := .Filter.Arches}}{{if $i}} {{end}}{{$a}}{{end}} {{range $i, $s := .Filter.Systems}}{{if $i}} {{end}}{{$s}}{{end}}; do
    find %{buildroot}{{.InstallDir}} -depth \( -name "*.${pat}" -o -name "*.${pat}.*" \) -exec rm -rf {} + || :
done
find %{buildroot}{{.InstallDir}} \( -name "*.dll" -o -name "*.dylib" \) -delete || :

{{if .HasIcons -}}
mkdir -p %{buildroot}%{_datadir}/pixmaps
{{- range .IconInstalls}}
{{- if .MkdirDir}}
mkdir -p %{buildroot}{{.MkdirDir}}
{{- end}}
install -p -m 0644 {{.Source}} %{buildroot}{{.Dest}}
{{- end}}
{{- else -}}
# No icon assets were found in the release archive.
:
{{- end}}

mkdir -p %{buildroot}%{_bindir}
cat > %{buildroot}%{_bindir}/%{name} <<'LAUNCHER'
#!/bin/sh
exec {{.InstallDir}}/{{.Product}} "$@"
LAUNCHER
chmod 0755 %{buildroot}%{_bindir}/%{name}

mkdir -p %{buildroot}%{_datadir}/applications
cat > %{buildroot}%{_datadir}/applications/%{name}.desktop <<EOF
[Desktop Entry]
Name={{.DisplayName}}
Comment={{.DisplayName}} IDE
Exec=%{_bindir}/%{name}
Icon=%{name}
Terminal=false
Type=Application
Categories=Development;IDE;
StartupNotify=true
EOF
desktop-file-validate %{buildroot}%{_datadir}/applications/%{name}.desktop

%files
{{.InstallDir}}
%{_bindir}/%{name}
%{_datadir}/applications/%{name}.desktop
{{- range .IconFiles}}
{{.}}
{{- end}}

%post
touch --no-create %{_datadir}/icons/hicolor &>/dev/null || :
update-desktop-database &>/dev/null || :

%postun
if [ $1 -eq 0 ] ; then
    touch --no-create %{_datadir}/icons/hicolor &>/dev/null
    gtk-update-icon-cache %{_datadir}/icons/hicolor &>/dev/null || :
fi
update-desktop-database &>/dev/null || :

%posttrans
gtk-update-icon-cache %{_datadir}/icons/hicolor &>/dev/null || :

%changelog
* {{.Date}} eclipserpm build pipeline <eclipserpm@localhost> - {{.RPMVersion}}-1
- Repackaged upstream {{.DisplayName}} {{.Version}} binary release
`))
