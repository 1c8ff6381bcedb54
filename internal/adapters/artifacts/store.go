// Package artifacts persists and restores the model bundle produced by the
// offline build: fitted encoders, projection parameters, both index
// snapshots and the known-email list, in a single msgpack file.
package artifacts

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/gofrs/flock"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/okian/leadrank/internal/domain/embed"
	"github.com/okian/leadrank/internal/domain/feature"
)

const (
	bundleFile = "bundle.msgpack"
	lockFile   = "build.lock"

	lockRetryInterval = 100 * time.Millisecond
	lockTimeout       = 30 * time.Second
)

// Meta describes the bundle contents. Dimensions are recorded so the serving
// bootstrap can refuse a bundle that does not match its own encoder setup.
type Meta struct {
	EmbeddingDim      int                 `msgpack:"embedding_dim"`
	TextDim           int                 `msgpack:"text_dim"`
	TabularDim        int                 `msgpack:"tabular_dim"`
	TopK              int                 `msgpack:"top_k"`
	HasEmail          bool                `msgpack:"has_email"`
	TextVariant       string              `msgpack:"text_variant"`
	ModelName         string              `msgpack:"model_name"`
	Schema            feature.Schema      `msgpack:"schema"`
	CategoricalValues map[string][]string `msgpack:"categorical_values"`
	BuiltAtUnix       int64               `msgpack:"built_at_unix"`
	RecordCount       int                 `msgpack:"record_count"`
}

// IndexSnapshot is the persisted form of one flat index.
type IndexSnapshot struct {
	IDs     []string    `msgpack:"ids"`
	Vectors [][]float32 `msgpack:"vectors"`
}

// Bundle is everything the serving path needs, frozen at build time.
type Bundle struct {
	Meta     Meta                              `msgpack:"meta"`
	Encoders map[string]feature.FrequencyTable `msgpack:"encoders"`
	Tabular  embed.TabularParams               `msgpack:"tabular"`
	All      IndexSnapshot                     `msgpack:"all"`
	High     IndexSnapshot                     `msgpack:"high"`
	Emails   []string                          `msgpack:"emails"`
}

// Validate checks the bundle's internal consistency: snapshot vector counts
// match their id lists and every vector has the recorded embedding dimension.
func (b *Bundle) Validate() error {
	if b.Meta.EmbeddingDim <= 0 {
		return fmt.Errorf("%w: non-positive embedding dim %d", ErrCorruptBundle, b.Meta.EmbeddingDim)
	}
	if b.Meta.TextDim+b.Meta.TabularDim != b.Meta.EmbeddingDim {
		return fmt.Errorf("%w: text dim %d + tabular dim %d != embedding dim %d",
			ErrCorruptBundle, b.Meta.TextDim, b.Meta.TabularDim, b.Meta.EmbeddingDim)
	}
	for name, snap := range map[string]IndexSnapshot{"all": b.All, "high": b.High} {
		if len(snap.IDs) != len(snap.Vectors) {
			return fmt.Errorf("%w: %s index has %d ids but %d vectors",
				ErrCorruptBundle, name, len(snap.IDs), len(snap.Vectors))
		}
		for i, vec := range snap.Vectors {
			if len(vec) != b.Meta.EmbeddingDim {
				return fmt.Errorf("%w: %s index vector %d has dim %d, want %d",
					ErrCorruptBundle, name, i, len(vec), b.Meta.EmbeddingDim)
			}
		}
	}
	if len(b.High.IDs) > len(b.All.IDs) {
		return fmt.Errorf("%w: high index larger than all index", ErrCorruptBundle)
	}
	return nil
}

// Store reads and writes bundles under a single artifact directory.
type Store struct {
	dir string
}

// NewStore returns a store rooted at dir. The directory is created on the
// first Save, not here.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Dir returns the artifact directory.
func (s *Store) Dir() string { return s.dir }

// BundlePath returns the path of the published bundle file.
func (s *Store) BundlePath() string { return filepath.Join(s.dir, bundleFile) }

// Save validates and publishes the bundle atomically. The bundle is encoded
// to a temporary file in the artifact directory and renamed over the final
// name, so readers only ever observe a complete bundle. A file lock
// serializes concurrent builders.
func (s *Store) Save(ctx context.Context, b *Bundle) error {
	if err := b.Validate(); err != nil {
		return err
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("create artifact dir: %w", err)
	}

	unlock, err := s.acquireLock(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	// Emails are persisted sorted so two builds over the same data produce
	// byte-identical bundles.
	sort.Strings(b.Emails)

	tmp := s.BundlePath() + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("create temp bundle: %w", err)
	}
	if err := msgpack.NewEncoder(f).Encode(b); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encode bundle: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync temp bundle: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("close temp bundle: %w", err)
	}
	if err := os.Rename(tmp, s.BundlePath()); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("publish bundle: %w", err)
	}
	return nil
}

// Load reads and validates the published bundle.
func (s *Store) Load(ctx context.Context) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.BundlePath())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNoBundle, s.BundlePath())
		}
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	var b Bundle
	if err := msgpack.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrCorruptBundle, err)
	}
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return &b, nil
}

// acquireLock takes the build lock, retrying until the timeout or context
// cancellation. The returned func releases the lock.
func (s *Store) acquireLock(ctx context.Context) (func(), error) {
	l := flock.New(filepath.Join(s.dir, lockFile))
	deadline := time.Now().Add(lockTimeout)
	for {
		locked, err := l.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire build lock: %w", err)
		}
		if locked {
			return func() { _ = l.Unlock() }, nil
		}
		if time.Now().After(deadline) {
			return nil, ErrLockTimeout
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(lockRetryInterval):
		}
	}
}
