package fixture

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vaultsandbox/byzbench/internal/input"
)

// Version is the current fixture format version.
const Version = 1

// Default fixture locations, relative to the working directory.
const (
	DefaultDir        = "res"
	RandomFile        = "random_10.yaml"
	ForgedFile        = "forged_10.yaml"
	ByzantineFile     = "byz.yaml"
	HardByzantineFile = "hard_byz.yaml"
)

// Kind says how the inputs of a fixture were produced.
type Kind string

const (
	// KindRandom holds freshly signed inputs.
	KindRandom Kind = "random"
	// KindForged holds pattern-built inputs that need not verify.
	KindForged Kind = "forged"
	// KindByzantine holds search results together with their scores.
	KindByzantine Kind = "byzantine"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	switch k {
	case KindRandom, KindForged, KindByzantine:
		return true
	}
	return false
}

// validated reports whether inputs of this kind must carry a verifying
// signature.
func (k Kind) validated() bool {
	return k != KindForged
}

// Entry is one input with an optional oracle score.
type Entry struct {
	Input input.BenchmarkInput
	// Score is only persisted for byzantine fixtures.
	Score int
}

// File is a decoded fixture.
type File struct {
	Kind        Kind
	GeneratedAt time.Time
	Entries     []Entry
}

// Inputs returns the inputs of f in file order.
func (f File) Inputs() []input.BenchmarkInput {
	out := make([]input.BenchmarkInput, len(f.Entries))
	for i, e := range f.Entries {
		out[i] = e.Input
	}
	return out
}

// document is the on-disk layout.
type document struct {
	Version     int       `yaml:"version"`
	Kind        Kind      `yaml:"kind"`
	GeneratedAt time.Time `yaml:"generated_at"`
	Inputs      []record  `yaml:"inputs"`
}

type record struct {
	PublicKey string `yaml:"public_key"`
	Message   string `yaml:"message"`
	Signature string `yaml:"signature"`
	Score     *int   `yaml:"score,omitempty"`
}

// Save writes entries to path as a fixture of the given kind, creating
// parent directories as needed.
func Save(path string, kind Kind, entries []Entry) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: unknown kind %q", ErrFixture, kind)
	}

	doc := document{
		Version:     Version,
		Kind:        kind,
		GeneratedAt: time.Now().UTC(),
		Inputs:      make([]record, len(entries)),
	}
	for i, e := range entries {
		r := record{
			PublicKey: input.ToBase64URL(e.Input.PublicKey[:]),
			Message:   e.Input.Message,
			Signature: input.ToBase64URL(e.Input.Signature[:]),
		}
		if kind == KindByzantine {
			score := e.Score
			r.Score = &score
		}
		doc.Inputs[i] = r
	}

	data, err := yaml.Marshal(&doc)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrFixture, path, err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("%w: %v", ErrFixture, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %v", ErrFixture, err)
	}
	return nil
}

// Load reads and validates the fixture at path. Random and byzantine
// inputs must verify; forged inputs only need the right sizes.
func Load(path string) (File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("%w: %v", ErrFixture, err)
	}

	var doc document
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return File{}, fmt.Errorf("%w: %s: %v", ErrFixture, path, err)
	}
	if err := doc.validate(); err != nil {
		return File{}, fmt.Errorf("%w: %s: %v", ErrFixture, path, err)
	}

	f := File{
		Kind:        doc.Kind,
		GeneratedAt: doc.GeneratedAt,
		Entries:     make([]Entry, 0, len(doc.Inputs)),
	}
	for i, r := range doc.Inputs {
		e, err := r.decode(doc.Kind)
		if err != nil {
			return File{}, fmt.Errorf("%w: %s: input %d: %v", ErrFixture, path, i, err)
		}
		f.Entries = append(f.Entries, e)
	}
	return f, nil
}

func (d *document) validate() error {
	if d.Version != Version {
		return fmt.Errorf("unsupported version %d, expected %d", d.Version, Version)
	}
	if !d.Kind.Valid() {
		return fmt.Errorf("unknown kind %q", d.Kind)
	}
	if len(d.Inputs) == 0 {
		return fmt.Errorf("no inputs")
	}
	return nil
}

func (r record) decode(kind Kind) (Entry, error) {
	if r.Message != input.Message {
		return Entry{}, fmt.Errorf("unexpected message %q", r.Message)
	}
	pk, err := input.FromBase64URL(r.PublicKey)
	if err != nil {
		return Entry{}, fmt.Errorf("public_key: %v", err)
	}
	sig, err := input.FromBase64URL(r.Signature)
	if err != nil {
		return Entry{}, fmt.Errorf("signature: %v", err)
	}

	var in input.BenchmarkInput
	if kind.validated() {
		in, err = input.New(pk, sig)
	} else {
		in, err = input.Parse(pk, sig)
	}
	if err != nil {
		return Entry{}, err
	}

	e := Entry{Input: in}
	if kind == KindByzantine {
		if r.Score == nil {
			return Entry{}, fmt.Errorf("missing score")
		}
		e.Score = *r.Score
	}
	return e, nil
}
