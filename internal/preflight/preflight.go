// Package preflight checks for external tools dusts shells out to.
package preflight

import (
	"os/exec"
)

// BinaryCheck represents an external binary and how to install it.
type BinaryCheck struct {
	Name        string
	Purpose     string
	InstallHint string
}

// Binaries lists the external tools dusts can use. None are needed for
// plain-text manifests.
var Binaries = []BinaryCheck{
	{
		Name:        "sops",
		Purpose:     "decrypt *.sops.* source manifests",
		InstallHint: "https://github.com/getsops/sops/releases",
	},
	{
		Name:        "age",
		Purpose:     "sops key backend",
		InstallHint: "https://github.com/FiloSottile/age#installation",
	},
}

// lookPath is swapped in tests.
var lookPath = exec.LookPath

// Check splits checks into binaries found on PATH and missing ones,
// keeping their order.
func Check(checks []BinaryCheck) (found, missing []BinaryCheck) {
	for _, bin := range checks {
		if IsBinaryAvailable(bin.Name) {
			found = append(found, bin)
		} else {
			missing = append(missing, bin)
		}
	}
	return found, missing
}

// IsBinaryAvailable checks if a specific binary is available in PATH.
func IsBinaryAvailable(name string) bool {
	_, err := lookPath(name)
	return err == nil
}
