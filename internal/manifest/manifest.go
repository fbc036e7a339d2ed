// Package manifest records the canonical, deterministic identity of a
// generation run.
//
// The manifest captures the seed and a sha256 digest of every rendered
// command; two runs with the same seed, policy, catalog, and archetype order
// must produce byte-identical manifests. It is observational only and must
// never affect generation behavior.
package manifest

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sort"

	"github.com/pkg/errors"
)

// RunManifest is the canonical record of one generation run.
//
// Canonical representation:
//   - Entries are sorted via Canonicalize() by (case, name, scriptPath).
//   - JSON serialization uses a custom marshaler to fix field order.
//
// Consumers should treat a RunManifest as immutable once Canonicalize() has
// been called.
type RunManifest struct {
	Seed    int64
	Entries []Entry
}

// Entry identifies one emitted script.
//
// Determinism constraints: no timestamps, no absolute machine-specific data
// beyond the declared script path, no fields derived from map iteration.
type Entry struct {
	Name          string
	Case          string
	ScriptPath    string
	CommandDigest string
}

// Digest computes the sha256 hex digest of rendered content bytes.
func Digest(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Validate checks basic invariants and returns a descriptive error.
func (m *RunManifest) Validate() error {
	if m == nil {
		return errors.New("manifest is nil")
	}
	if len(m.Entries) == 0 {
		return errors.New("manifest has no entries")
	}
	for i, e := range m.Entries {
		switch {
		case e.Name == "":
			return errors.Errorf("entries[%d].name is required", i)
		case e.Case == "":
			return errors.Errorf("entries[%d].case is required", i)
		case e.ScriptPath == "":
			return errors.Errorf("entries[%d].scriptPath is required", i)
		case e.CommandDigest == "":
			return errors.Errorf("entries[%d].commandDigest is required", i)
		}
	}
	return nil
}

// Canonicalize sorts the entries into their canonical total order. The order
// is independent of synthesis order so the manifest identity only reflects
// what was generated, not how the run was driven.
func (m *RunManifest) Canonicalize() {
	if m == nil {
		return
	}
	sort.SliceStable(m.Entries, func(i, j int) bool {
		a, b := m.Entries[i], m.Entries[j]
		if a.Case != b.Case {
			return a.Case < b.Case
		}
		if a.Name != b.Name {
			return a.Name < b.Name
		}
		return a.ScriptPath < b.ScriptPath
	})
}

// CanonicalJSON returns the canonical JSON encoding of the manifest. It
// canonicalizes a copy to avoid mutating the caller's slice.
func (m RunManifest) CanonicalJSON() ([]byte, error) {
	cp := RunManifest{Seed: m.Seed, Entries: make([]Entry, len(m.Entries))}
	copy(cp.Entries, m.Entries)
	cp.Canonicalize()
	if err := cp.Validate(); err != nil {
		return nil, err
	}
	return json.Marshal(&cp)
}

// Hash returns the sha256 hex digest of the canonical JSON bytes. This is
// the single value to compare when verifying byte-identical regeneration.
func (m RunManifest) Hash() (string, error) {
	b, err := m.CanonicalJSON()
	if err != nil {
		return "", err
	}
	return Digest(b), nil
}

// MarshalJSON ensures canonical field ordering.
func (m RunManifest) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	buf.WriteString(`"seed":`)
	sb, _ := json.Marshal(m.Seed)
	buf.Write(sb)
	buf.WriteByte(',')

	buf.WriteString(`"entries":[`)
	for i := range m.Entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		eb, err := json.Marshal(m.Entries[i])
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteByte(']')

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// MarshalJSON ensures canonical field ordering for one entry.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.Name == "" {
		return nil, errors.New("name is required")
	}
	var buf bytes.Buffer
	buf.WriteByte('{')

	writeField := func(key, val string, first bool) {
		if !first {
			buf.WriteByte(',')
		}
		kb, _ := json.Marshal(key)
		buf.Write(kb)
		buf.WriteByte(':')
		vb, _ := json.Marshal(val)
		buf.Write(vb)
	}
	writeField("name", e.Name, true)
	writeField("case", e.Case, false)
	writeField("scriptPath", e.ScriptPath, false)
	writeField("commandDigest", e.CommandDigest, false)

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
