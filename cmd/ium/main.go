// Command ium packs, inspects and ships file collections stored in IUM
// containers.
//
//	ium pack ./spectra -o spectra.ium
//	ium ls spectra.ium
//	ium push spectra.ium ghcr.io/lab/spectra:v1
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
