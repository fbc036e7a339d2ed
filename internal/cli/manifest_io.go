package cli

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"phaseforge/internal/manifest"
)

// writeManifest persists the canonical manifest JSON with a trailing newline.
func writeManifest(path string, run manifest.RunManifest) error {
	data, err := run.CanonicalJSON()
	if err != nil {
		return errors.Wrap(err, "manifest: encode")
	}
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.Wrapf(err, "manifest: create directory %s", dir)
		}
	}
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return errors.Wrapf(err, "manifest: write %s", path)
	}
	return nil
}
