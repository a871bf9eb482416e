package content

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// Store reads content collections from a directory tree laid out as
// <dir>/<collection>/**/*.md. Every call reads the files again.
type Store struct {
	fsys    fs.FS
	schemas map[string]Schema
}

// NewStore returns a Store rooted at dir using the default schemas.
func NewStore(dir string) *Store {
	return NewStoreFS(os.DirFS(dir))
}

// NewStoreFS returns a Store reading from fsys.
func NewStoreFS(fsys fs.FS) *Store {
	return &Store{fsys: fsys, schemas: DefaultSchemas()}
}

// Collections returns the names of the known collections.
func (s *Store) Collections() []string {
	names := make([]string, 0, len(s.schemas))
	for name := range s.schemas {
		names = append(names, name)
	}
	return names
}

func isContentFile(name string) bool {
	switch strings.ToLower(path.Ext(name)) {
	case ".md", ".mdx", ".markdown":
		return true
	}
	return false
}

// GetCollection loads and validates every entry of the named collection,
// drafts included, in lexical path order. A missing collection directory
// yields an empty collection.
func (s *Store) GetCollection(name string) ([]Entry, error) {
	schema, ok := s.schemas[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCollection, name)
	}

	var entries []Entry
	seen := make(map[string]string)
	err := fs.WalkDir(s.fsys, name, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			if p == name && errors.Is(err, fs.ErrNotExist) {
				return fs.SkipDir
			}
			return err
		}
		if d.IsDir() {
			if p != name && strings.HasPrefix(d.Name(), "_") {
				return fs.SkipDir
			}
			return nil
		}
		if !isContentFile(p) || strings.HasPrefix(d.Name(), "_") {
			return nil
		}
		src, err := fs.ReadFile(s.fsys, p)
		if err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
		e, err := schema.Parse(p, src)
		if err != nil {
			return err
		}
		if e.Slug == "" {
			e.Slug = slugFromPath(strings.TrimPrefix(p, name+"/"))
		}
		if e.Slug == "" {
			return &SchemaError{Path: p, Field: "slug", Reason: "cannot derive slug from file name"}
		}
		if prev, dup := seen[e.Slug]; dup {
			return &SchemaError{Path: p, Field: "slug", Reason: fmt.Sprintf("duplicate slug %q, also used by %s", e.Slug, prev)}
		}
		seen[e.Slug] = p
		entries = append(entries, e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetPublishedCollection loads the named collection with drafts removed.
func (s *Store) GetPublishedCollection(name string) ([]Entry, error) {
	entries, err := s.GetCollection(name)
	if err != nil {
		return nil, err
	}
	return Published(entries), nil
}

// GetEntry returns the entry with the given slug, drafts included.
func (s *Store) GetEntry(name, slug string) (Entry, error) {
	entries, err := s.GetCollection(name)
	if err != nil {
		return Entry{}, err
	}
	for _, e := range entries {
		if e.Slug == slug {
			return e, nil
		}
	}
	return Entry{}, ErrNotFound
}

// slugFromPath turns "2024/Hello World.md" into "2024/hello-world" and
// "guides/setup/index.md" into "guides/setup".
func slugFromPath(rel string) string {
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, path.Ext(rel))
	segments := strings.Split(rel, "/")
	if len(segments) > 1 && segments[len(segments)-1] == "index" {
		segments = segments[:len(segments)-1]
	}
	out := segments[:0]
	for _, seg := range segments {
		if s := Slugify(seg); s != "" {
			out = append(out, s)
		}
	}
	return strings.Join(out, "/")
}
