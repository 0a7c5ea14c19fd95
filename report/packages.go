package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/metarex-media/scoreboard-tool/trend"
)

// PackagesFileName is the output of `pip list --format=json`
const PackagesFileName = "pip-list.json"

// DefaultCorePackages are always kept when filtering packages
var DefaultCorePackages = []string{"onnx"}

// LoadPackages reads the installed packages from a pip list json file in dir.
// A missing file gives no packages and no error.
func LoadPackages(dir, name string) ([]trend.PackageVersion, error) {
	if name == "" {
		name = PackagesFileName
	}

	pkgBytes, err := os.ReadFile(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		return []trend.PackageVersion{}, nil
	} else if err != nil {
		return nil, fmt.Errorf("error reading packages %v: %w", filepath.Join(dir, name), err)
	}

	var pkgs []trend.PackageVersion
	if err := json.Unmarshal(pkgBytes, &pkgs); err != nil {
		return nil, fmt.Errorf("error extracting the packages from %v: %w", filepath.Join(dir, name), err)
	}

	return pkgs, nil
}

// FilterCore keeps the packages that are named in core or DefaultCorePackages,
// the order of pkgs is kept.
func FilterCore(pkgs []trend.PackageVersion, core []string) []trend.PackageVersion {
	wanted := make(map[string]bool, len(core)+len(DefaultCorePackages))
	for _, name := range DefaultCorePackages {
		wanted[name] = true
	}
	for _, name := range core {
		wanted[name] = true
	}

	kept := make([]trend.PackageVersion, 0, len(core))
	for _, pkg := range pkgs {
		if wanted[pkg.Name] {
			kept = append(kept, pkg)
		}
	}

	return kept
}
