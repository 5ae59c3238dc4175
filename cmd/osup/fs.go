package main

import "github.com/spf13/afero"

// defaultFs is the real OS filesystem used by every subcommand; tests of
// internal/store substitute afero.NewMemMapFs() directly against that
// package instead of going through this CLI layer.
func defaultFs() afero.Fs {
	return afero.NewOsFs()
}
