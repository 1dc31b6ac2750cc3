package filesystem

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"unicode/utf8"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"langmerge/internal/domain"
	"langmerge/internal/domain/entities"
	"langmerge/internal/ports/output"
)

var _ output.TranslationStore = (*Store)(nil)

const (
	dirPerm  = 0o755
	filePerm = 0o644
)

var (
	errInvalidUTF8  = errors.New("invalid UTF-8")
	errTrailingData = errors.New("unexpected data after top-level value")
)

// Store implements output.TranslationStore on the local filesystem.
type Store struct {
	targetFile string
}

// NewStore creates a Store looking for files named targetFile.
func NewStore(targetFile string) *Store {
	return &Store{targetFile: targetFile}
}

// Load reads one flat JSON object. A UTF-8 or UTF-16 byte-order mark is
// accepted; without one the input must be valid UTF-8. Values keep their JSON
// type: strings stay strings, numbers are json.Number, null is nil.
func (s *Store) Load(path string) (entities.Mapping, error) {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		return entities.Mapping{}, nil
	}
	if err != nil {
		return entities.Mapping{}, &domain.LoadError{Path: path, Kind: domain.KindRead, Err: err}
	}
	defer f.Close()

	raw, err := io.ReadAll(f)
	if err != nil {
		return entities.Mapping{}, &domain.LoadError{Path: path, Kind: domain.KindRead, Err: err}
	}
	if !hasUTF16BOM(raw) && !utf8.Valid(raw) {
		return entities.Mapping{}, &domain.LoadError{Path: path, Kind: domain.KindDecode, Err: errInvalidUTF8}
	}

	data, _, err := transform.Bytes(xunicode.BOMOverride(xunicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return entities.Mapping{}, &domain.LoadError{Path: path, Kind: domain.KindDecode, Err: err}
	}

	var m entities.Mapping
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if err := dec.Decode(&m); err != nil {
		return entities.Mapping{}, &domain.LoadError{Path: path, Kind: domain.KindDecode, Err: err}
	}
	if _, err := dec.Token(); err != io.EOF {
		return entities.Mapping{}, &domain.LoadError{Path: path, Kind: domain.KindDecode, Err: errTrailingData}
	}
	if m == nil {
		// "null" at the top level
		m = entities.Mapping{}
	}
	return m, nil
}

func hasUTF16BOM(b []byte) bool {
	return bytes.HasPrefix(b, []byte{0xFF, 0xFE}) || bytes.HasPrefix(b, []byte{0xFE, 0xFF})
}

// Save writes m as indented JSON, creating parent directories.
func (s *Store) Save(path string, m entities.Mapping) error {
	if m == nil {
		m = entities.Mapping{}
	}
	return writeJSON(path, m)
}

// SaveMeta writes the pack descriptor.
func (s *Store) SaveMeta(path string, meta entities.PackMeta) error {
	return writeJSON(path, meta)
}

// writeJSON keeps non-ASCII and HTML characters verbatim. Map keys come out
// sorted, so identical input always gives identical bytes.
func writeJSON(path string, v any) error {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "    ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	if err := os.MkdirAll(filepath.Dir(path), dirPerm); err != nil {
		return fmt.Errorf("mkdir %s: %w", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, unescapeLineSeparators(buf.Bytes()), filePerm); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// unescapeLineSeparators turns the \u2028 and \u2029 escapes encoding/json
// always emits back into raw runes. An escaped backslash ("\\u2028") is left
// alone.
func unescapeLineSeparators(b []byte) []byte {
	if !bytes.Contains(b, []byte(`\u202`)) {
		return b
	}
	out := make([]byte, 0, len(b))
	for i := 0; i < len(b); i++ {
		if b[i] != '\\' || i+1 >= len(b) {
			out = append(out, b[i])
			continue
		}
		if i+5 < len(b) && string(b[i+1:i+5]) == "u202" && (b[i+5] == '8' || b[i+5] == '9') {
			out = utf8.AppendRune(out, rune(0x2020+int(b[i+5]-'0')))
			i += 5
			continue
		}
		out = append(out, b[i], b[i+1])
		i++
	}
	return out
}
