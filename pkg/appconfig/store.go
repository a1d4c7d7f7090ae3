// Package appconfig loads a JSON configuration document and answers
// colon-delimited path lookups such as "seat_statuses:available".
package appconfig

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"
)

// PathSeparator splits configuration paths into segments.
const PathSeparator = ":"

// Options selects the configuration source. Exactly one field must be set.
type Options struct {
	Path string
	Raw  map[string]any
}

// Store holds an immutable configuration snapshot. Reads never block;
// Reload swaps the snapshot atomically.
type Store struct {
	path     string
	fromFile bool
	root     atomic.Pointer[Value]
	reloadMu sync.Mutex
}

// New builds a Store from a file path or an in-memory mapping.
func New(opts Options) (*Store, error) {
	switch {
	case opts.Path == "" && opts.Raw == nil:
		return nil, &Error{Op: "new", Err: ErrNoSource}
	case opts.Path != "" && opts.Raw != nil:
		return nil, &Error{Op: "new", Err: ErrTwoSources}
	}

	s := &Store{}
	if opts.Raw != nil {
		root, err := fromAny(opts.Raw)
		if err != nil {
			return nil, &Error{Op: "new", Err: err}
		}
		s.root.Store(&root)
		return s, nil
	}

	s.path = opts.Path
	s.fromFile = true
	if err := s.load("load"); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the backing file. The previous snapshot stays active when
// the new one cannot be loaded.
func (s *Store) Reload() error {
	if !s.fromFile {
		return &Error{Op: "reload", Err: ErrReloadUnsupported}
	}
	return s.load("reload")
}

func (s *Store) load(op string) error {
	s.reloadMu.Lock()
	defer s.reloadMu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		switch {
		case errors.Is(err, fs.ErrNotExist):
			err = fmt.Errorf("%w: %w", ErrFileNotFound, err)
		case errors.Is(err, fs.ErrPermission):
			err = fmt.Errorf("%w: %w", ErrPermission, err)
		}
		return &Error{Op: op, Path: s.path, Err: err}
	}

	raw, err := decodeJSON(data)
	if err != nil {
		return &Error{Op: op, Path: s.path, Err: fmt.Errorf("%w: %w", ErrMalformed, err)}
	}
	if _, ok := raw.(map[string]any); !ok {
		return &Error{Op: op, Path: s.path, Err: fmt.Errorf("%w: got %T", ErrRootNotMapping, raw)}
	}

	root, err := fromAny(raw)
	if err != nil {
		return &Error{Op: op, Path: s.path, Err: err}
	}
	s.root.Store(&root)
	return nil
}

func decodeJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, err
	}
	if err := dec.Decode(&struct{}{}); err != io.EOF {
		return nil, errors.New("unexpected data after top-level value")
	}
	return raw, nil
}

// Root returns the current snapshot.
func (s *Store) Root() Value {
	if r := s.root.Load(); r != nil {
		return *r
	}
	return Value{}
}

// Lookup walks path through the snapshot and fails with a configuration
// error at the first missing key or non-container intermediate value.
func (s *Store) Lookup(path string) (Value, error) {
	v := s.Root()
	if path == "" {
		return v, nil
	}
	for _, segment := range strings.Split(path, PathSeparator) {
		next, err := v.child(segment)
		if err != nil {
			return Value{}, &Error{Op: "lookup", Path: path, Err: err}
		}
		v = next
	}
	return v, nil
}

// Get returns the plain Go value at path, or def when the path is absent.
func (s *Store) Get(path string, def any) any {
	v, err := s.Lookup(path)
	if err != nil {
		return def
	}
	return v.Interface()
}

// Contains reports whether path resolves to a non-null value.
func (s *Store) Contains(path string) bool {
	v, err := s.Lookup(path)
	return err == nil && !v.IsNull()
}

func (s *Store) String(path, def string) string {
	v, err := s.Lookup(path)
	if err != nil {
		return def
	}
	if str, ok := v.AsString(); ok {
		return str
	}
	return def
}

func (s *Store) Int(path string, def int) int {
	v, err := s.Lookup(path)
	if err != nil {
		return def
	}
	if n, ok := v.AsInt(); ok {
		return n
	}
	return def
}

func (s *Store) Bool(path string, def bool) bool {
	v, err := s.Lookup(path)
	if err != nil {
		return def
	}
	if b, ok := v.AsBool(); ok {
		return b
	}
	return def
}

// Shared registry. Consumers that must observe the same loaded file use
// Shared instead of New.
var (
	sharedMu     sync.Mutex
	sharedStores = map[string]*Store{}
)

// Shared returns the process-wide Store for opts, creating it on first use.
func Shared(opts Options) (*Store, error) {
	key, err := registryKey(opts)
	if err != nil {
		return nil, err
	}

	sharedMu.Lock()
	defer sharedMu.Unlock()

	if s, ok := sharedStores[key]; ok {
		return s, nil
	}
	s, err := New(opts)
	if err != nil {
		return nil, err
	}
	sharedStores[key] = s
	return s, nil
}

// ResetShared forgets every shared Store.
func ResetShared() {
	sharedMu.Lock()
	defer sharedMu.Unlock()
	sharedStores = map[string]*Store{}
}

func registryKey(opts Options) (string, error) {
	if opts.Path != "" && opts.Raw == nil {
		abs, err := filepath.Abs(opts.Path)
		if err != nil {
			abs = opts.Path
		}
		return "file:" + abs, nil
	}
	if opts.Raw != nil && opts.Path == "" {
		// encoding/json sorts map keys, so equal mappings share a key.
		b, err := json.Marshal(opts.Raw)
		if err != nil {
			return "", &Error{Op: "new", Err: err}
		}
		return "raw:" + string(b), nil
	}
	if opts.Path == "" {
		return "", &Error{Op: "new", Err: ErrNoSource}
	}
	return "", &Error{Op: "new", Err: ErrTwoSources}
}
