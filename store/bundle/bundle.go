// Package bundle exports and imports a deterministic TAR archive of cell
// encodings, for moving a set of keys between two store.Store instances
// offline (e.g. shipping a multicell.EncodeMultiCell delta's blocks to a
// peer that doesn't yet share a network path).
package bundle

import (
	"archive/tar"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"convex.dev/convex/store"
)

// FormatVersion is the current bundle index schema version.
const FormatVersion = 1

var epoch0 = time.Unix(0, 0).UTC()

// ExportOptions controls bundle export behavior.
type ExportOptions struct {
	// Labels is optional, non-authoritative metadata mapping names to Keys.
	Labels map[string]store.Key
	// IncludeIndex controls whether index.json is included.
	IncludeIndex bool
}

// Export writes a deterministic TAR bundle containing the encodings for the
// given keys. Entry order is lexicographic and TAR headers are normalized,
// so two exports of the same key set produce byte-identical archives. Every
// exported encoding is re-hashed and checked against its key before being
// written.
func Export(ctx context.Context, w io.Writer, s store.Store, keys []store.Key, opts ExportOptions) error {
	if s == nil {
		return fmt.Errorf("bundle: nil Store")
	}

	uniq := make(map[string]store.Key, len(keys))
	for _, k := range keys {
		if !k.Defined() {
			return store.ErrInvalidKey
		}
		uniq[k.String()] = k
	}

	keyStrings := make([]string, 0, len(uniq))
	for ks := range uniq {
		keyStrings = append(keyStrings, ks)
	}
	sort.Strings(keyStrings)

	tw := tar.NewWriter(w)

	blocks := make([]indexBlock, 0, len(keyStrings))
	for _, ks := range keyStrings {
		key := uniq[ks]
		b, err := s.Get(ctx, key)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if got := store.KeyFromEncoding(b); got.String() != key.String() {
			_ = tw.Close()
			return store.ErrImmutable
		}

		entryPath := "blocks/" + key.String()
		if err := writeFile(tw, entryPath, b); err != nil {
			_ = tw.Close()
			return err
		}
		blocks = append(blocks, indexBlock{Key: key.String(), Size: len(b)})
	}

	if opts.IncludeIndex {
		idx := indexJSON{
			Version: FormatVersion,
			Hash:    "sha3-256",
			Blocks:  blocks,
		}

		if len(opts.Labels) > 0 {
			names := make([]string, 0, len(opts.Labels))
			for name := range opts.Labels {
				names = append(names, name)
			}
			sort.Strings(names)

			labels := make([]indexLabel, 0, len(names))
			for _, name := range names {
				if name == "" {
					_ = tw.Close()
					return fmt.Errorf("bundle: empty label name")
				}
				v := opts.Labels[name]
				if !v.Defined() {
					_ = tw.Close()
					return store.ErrInvalidKey
				}
				labels = append(labels, indexLabel{Name: name, Key: v.String()})
			}
			idx.Labels = labels
		}

		b, err := marshalCanonicalIndexJSON(idx)
		if err != nil {
			_ = tw.Close()
			return err
		}
		if err := writeFile(tw, "index.json", b); err != nil {
			_ = tw.Close()
			return err
		}
	}

	return tw.Close()
}

// ImportOptions controls bundle import behavior.
type ImportOptions struct {
	// IgnoreUnknown controls whether unknown TAR entries are ignored.
	// Default (false) is fail-closed: unknown entries cause Import to error.
	IgnoreUnknown bool
}

// Import reads a bundle from r and imports all blocks into s, failing
// closed on any entry it doesn't recognize.
func Import(ctx context.Context, r io.Reader, s store.Store) error {
	return ImportWithOptions(ctx, r, s, ImportOptions{})
}

// ImportWithOptions reads a bundle from r and imports all blocks into s. It
// validates that each block's bytes match both the filename key and the
// recomputed key.
func ImportWithOptions(ctx context.Context, r io.Reader, s store.Store, opts ImportOptions) error {
	if s == nil {
		return fmt.Errorf("bundle: nil Store")
	}

	tr := tar.NewReader(r)
	seen := map[string]struct{}{}

	for {
		h, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		name := cleanTarPath(h.Name)
		if name == "" {
			return fmt.Errorf("bundle: invalid entry path: %q", h.Name)
		}

		if h.Typeflag != tar.TypeReg {
			if opts.IgnoreUnknown {
				continue
			}
			return fmt.Errorf("bundle: unexpected tar entry type: %v (%s)", h.Typeflag, name)
		}

		if name == "index.json" {
			_, _ = io.Copy(io.Discard, tr)
			continue
		}

		if !strings.HasPrefix(name, "blocks/") {
			if opts.IgnoreUnknown {
				_, _ = io.Copy(io.Discard, tr)
				continue
			}
			return fmt.Errorf("bundle: unknown entry: %s", name)
		}

		keyStr := strings.TrimPrefix(name, "blocks/")
		key, derr := store.ParseKey(keyStr)
		if derr != nil || !key.Defined() {
			return store.ErrInvalidKey
		}

		payload, rerr := io.ReadAll(tr)
		if rerr != nil {
			return rerr
		}
		if got := store.KeyFromEncoding(payload); got.String() != key.String() {
			return store.ErrImmutable
		}

		if _, ok := seen[keyStr]; ok {
			return fmt.Errorf("bundle: duplicate block entry: %s", keyStr)
		}
		seen[keyStr] = struct{}{}

		putKey, perr := s.Put(ctx, payload)
		if perr != nil {
			return perr
		}
		if putKey.String() != key.String() {
			return store.ErrImmutable
		}
	}
}

type indexJSON struct {
	Version int          `json:"version"`
	Hash    string       `json:"hash"`
	Blocks  []indexBlock `json:"blocks"`
	Labels  []indexLabel `json:"labels,omitempty"`
}

type indexBlock struct {
	Key  string `json:"key"`
	Size int    `json:"size"`
}

type indexLabel struct {
	Name string `json:"name"`
	Key  string `json:"key"`
}

func marshalCanonicalIndexJSON(idx indexJSON) ([]byte, error) {
	b, err := json.Marshal(idx)
	if err != nil {
		return nil, err
	}
	return append(b, '\n'), nil
}

func writeFile(tw *tar.Writer, name string, content []byte) error {
	hdr := &tar.Header{
		Name:     name,
		Mode:     0o644,
		Size:     int64(len(content)),
		ModTime:  epoch0,
		Typeflag: tar.TypeReg,
	}
	if err := tw.WriteHeader(hdr); err != nil {
		return err
	}
	_, err := io.Copy(tw, bytes.NewReader(content))
	return err
}

func cleanTarPath(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "\\", "/")
	name = strings.TrimPrefix(name, "./")
	name = strings.TrimPrefix(name, "/")
	if name == "" {
		return ""
	}

	parts := strings.Split(name, "/")
	out := make([]string, 0, len(parts))
	for _, part := range parts {
		if part == "" || part == "." || part == ".." {
			return ""
		}
		out = append(out, part)
	}
	return strings.Join(out, "/")
}
