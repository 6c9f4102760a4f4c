//go:build !draw

package printer

import "errors"

// Draw would export an annotated frame image for hit under dir. This
// build, without the "draw" tag, always reports that the feature is
// unavailable.
func Draw(dir string, hit interface{}) error {
	return errors.New("printer: --draw support was not built into this binary")
}
