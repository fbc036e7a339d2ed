// Package emit persists synthesized jobs as executable script artifacts,
// an index table, and an aggregate launcher.
//
// Only declared artifacts are written, and content is fully determined by
// the inputs: no timestamps, hostnames, or other nondeterministic data ever
// reach the output bytes. Filesystem failures are fatal to the run; there is
// no retry and no partial recovery.
package emit

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
)

// Script is one generated job artifact: the script file content is the fixed
// header, the annotation, and the rendered simulator command.
type Script struct {
	// Name is the job name passed to the simulator via --name.
	Name string

	// Case is the archetype case label recorded in the header and index.
	Case string

	// Path is the declared output path of the script file.
	Path string

	// Annotation is the synthesizer's descriptive comment block. Each line
	// is already '#'-prefixed and the block ends with a newline.
	Annotation string

	// Command is the rendered multi-line simulator command.
	Command string
}

// scriptPreamble opens every generated artifact. Strict mode keeps a failed
// simulator invocation from being silently ignored by the shell.
const scriptPreamble = "#!/usr/bin/env bash\nset -euo pipefail\n\n"

// Content returns the exact bytes of the script file.
func (s Script) Content() []byte {
	var b strings.Builder
	b.WriteString(scriptPreamble)
	fmt.Fprintf(&b, "# Name: %s\n", s.Name)
	fmt.Fprintf(&b, "# Case: %s\n", s.Case)
	b.WriteString(s.Annotation)
	b.WriteString("\n")
	b.WriteString(s.Command)
	b.WriteString("\n")
	return []byte(b.String())
}

// WriteScript persists the script at its declared path with the executable
// mode the launcher expects.
func WriteScript(s Script) error {
	if err := ensureParentDir(s.Path); err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, s.Content(), 0o755); err != nil {
		return errors.Wrapf(err, "emit: write script %s", s.Path)
	}
	// WriteFile applies umask on creation; restore the declared mode.
	if err := os.Chmod(s.Path, 0o755); err != nil {
		return errors.Wrapf(err, "emit: chmod %s", s.Path)
	}
	return nil
}

// WriteIndex writes the index table mapping each job to its script path and
// flattened command text. Row order follows the input slice, which callers
// keep in synthesis order.
func WriteIndex(path string, scripts []Script) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrapf(err, "emit: create index %s", path)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"name", "case", "script_path", "command_multiline"}); err != nil {
		return errors.Wrapf(err, "emit: write index header %s", path)
	}
	for _, s := range scripts {
		flat := strings.ReplaceAll(s.Command, "\n", `\n`)
		if err := w.Write([]string{s.Name, s.Case, s.Path, flat}); err != nil {
			return errors.Wrapf(err, "emit: write index row %s", s.Name)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return errors.Wrapf(err, "emit: flush index %s", path)
	}
	return nil
}

// LauncherContent returns the aggregate launcher script: every generated
// script started in the background, then a single wait for all of them.
func LauncherContent(scripts []Script) []byte {
	var b strings.Builder
	b.WriteString(scriptPreamble)
	for _, s := range scripts {
		fmt.Fprintf(&b, "echo 'Launching %s'\n", s.Case)
		fmt.Fprintf(&b, "%s &\n", s.Path)
	}
	b.WriteString("wait\n")
	return []byte(b.String())
}

// WriteLauncher persists the aggregate launcher at the given path.
func WriteLauncher(path string, scripts []Script) error {
	if err := ensureParentDir(path); err != nil {
		return err
	}
	if err := os.WriteFile(path, LauncherContent(scripts), 0o755); err != nil {
		return errors.Wrapf(err, "emit: write launcher %s", path)
	}
	if err := os.Chmod(path, 0o755); err != nil {
		return errors.Wrapf(err, "emit: chmod %s", path)
	}
	return nil
}

func ensureParentDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "" || dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "emit: create directory %s", dir)
	}
	return nil
}
