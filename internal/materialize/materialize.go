// Package materialize writes scaffold artefacts to disk. Every operation is
// idempotent: directories and marker files are created only when missing,
// generated files are overwritten wholesale, and nothing is ever read back
// or merged. Progress is reported as [ OK ]/[SKIP] lines.
package materialize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"runtime"

	"github.com/go-ini/ini"
	"github.com/rs/zerolog"
)

// Permission constants.
const (
	DirPerm  os.FileMode = 0755
	FilePerm os.FileMode = 0644
)

// Materializer performs filesystem writes and reports each one to W.
type Materializer struct {
	W   io.Writer
	Log zerolog.Logger
}

// New returns a Materializer reporting to w.
func New(w io.Writer, log zerolog.Logger) *Materializer {
	if w == nil {
		w = io.Discard
	}
	return &Materializer{W: w, Log: log}
}

// EnsureDirectory creates path and any missing parents. An existing
// directory is not an error; a non-directory at path is.
func (m *Materializer) EnsureDirectory(path string) error {
	if info, err := os.Stat(path); err == nil {
		if info.IsDir() {
			fmt.Fprintf(m.W, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("%s exists but is not a directory", path)
	}

	if err := os.MkdirAll(path, DirPerm); err != nil {
		return fmt.Errorf("creating directory %s: %w", path, err)
	}
	// MkdirAll is subject to umask.
	if err := chmod(path, DirPerm); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}
	m.Log.Debug().Str("path", path).Msg("created directory")
	fmt.Fprintf(m.W, "  [ OK ] Created %s\n", path)
	return nil
}

// EnsureFile creates an empty file at path unless one already exists.
// Existing content is never truncated.
func (m *Materializer) EnsureFile(path string) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, FilePerm)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			fmt.Fprintf(m.W, "  [SKIP] %s already exists\n", path)
			return nil
		}
		return fmt.Errorf("creating file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", path, err)
	}
	m.Log.Debug().Str("path", path).Msg("created empty file")
	fmt.Fprintf(m.W, "  [ OK ] Created %s\n", path)
	return nil
}

// WriteStructured serialises v as indented JSON and overwrites path.
func (m *Materializer) WriteStructured(path string, v interface{}) error {
	data, err := EncodeJSON(v)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return m.write(path, data)
}

// WriteText overwrites path with text.
func (m *Materializer) WriteText(path, text string) error {
	return m.write(path, []byte(text))
}

// WriteINI serialises f and overwrites path.
func (m *Materializer) WriteINI(path string, f *ini.File) error {
	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return m.write(path, buf.Bytes())
}

func (m *Materializer) write(path string, data []byte) error {
	_, statErr := os.Stat(path)
	existed := statErr == nil

	if err := os.WriteFile(path, data, FilePerm); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	m.Log.Debug().Str("path", path).Int("bytes", len(data)).Bool("overwrite", existed).Msg("wrote file")
	if existed {
		fmt.Fprintf(m.W, "  [ OK ] Regenerated %s\n", path)
	} else {
		fmt.Fprintf(m.W, "  [ OK ] Created %s\n", path)
	}
	return nil
}

// EncodeJSON renders v with four-space indentation and a trailing newline.
// HTML characters are left unescaped so editor placeholders stay readable.
func EncodeJSON(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// chmod is a no-op on Windows, which has no Unix permission bits.
func chmod(path string, mode os.FileMode) error {
	if runtime.GOOS == "windows" {
		return nil
	}
	return os.Chmod(path, mode)
}
