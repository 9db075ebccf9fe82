package prefs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
	"gopkg.in/yaml.v3"
)

// Format is a preference file encoding.
type Format int

const (
	// FormatTOML encodes preferences as TOML tables.
	FormatTOML Format = iota
	// FormatYAML encodes preferences as YAML mappings.
	FormatYAML
	// FormatJSON encodes preferences as JSON objects.
	FormatJSON
)

// String returns the format name.
func (f Format) String() string {
	switch f {
	case FormatTOML:
		return "toml"
	case FormatYAML:
		return "yaml"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// FormatFor returns the format implied by a file name's extension.
func FormatFor(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
}

// Decode parses a preference document into flat path→value pairs.
func Decode(format Format, source string, data []byte) (map[string]any, error) {
	flat := make(map[string]any)

	switch format {
	case FormatTOML:
		var doc map[string]any
		if err := toml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
		flatten("", doc, flat)
	case FormatYAML:
		var doc map[string]any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, &ParseError{Path: source, Message: err.Error(), Err: err}
		}
		flatten("", doc, flat)
	case FormatJSON:
		if len(strings.TrimSpace(string(data))) == 0 {
			return flat, nil
		}
		if !gjson.ValidBytes(data) {
			return nil, &ParseError{Path: source, Message: "invalid JSON"}
		}
		root := gjson.ParseBytes(data)
		if !root.IsObject() {
			return nil, &ParseError{Path: source, Message: "top-level value must be an object"}
		}
		flattenJSON("", root, flat)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}

	return flat, nil
}

// Encode renders flat path→value pairs as a nested preference document.
func Encode(format Format, values map[string]any) ([]byte, error) {
	switch format {
	case FormatTOML:
		return toml.Marshal(nest(values))
	case FormatYAML:
		return yaml.Marshal(nest(values))
	case FormatJSON:
		return encodeJSON(values)
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedFormat, format)
	}
}

// LoadFile merges the preferences stored in path into the store.
// A missing file is not an error.
func (s *Store) LoadFile(path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading preferences %s: %w", path, err)
	}

	values, err := Decode(format, path, data)
	if err != nil {
		return err
	}
	return s.Merge(values, "file")
}

// SaveFile writes every stored value to path, replacing it atomically.
func (s *Store) SaveFile(path string) error {
	format, err := FormatFor(path)
	if err != nil {
		return err
	}

	data, err := Encode(format, s.Snapshot())
	if err != nil {
		return fmt.Errorf("encoding preferences: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating preference directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("creating temporary file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("writing preferences: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("replacing %s: %w", path, err)
	}
	return nil
}

func flatten(prefix string, doc map[string]any, out map[string]any) {
	for key, val := range doc {
		path := prefix + "/" + key
		if sub, ok := val.(map[string]any); ok {
			flatten(path, sub, out)
			continue
		}
		out[path] = val
	}
}

func flattenJSON(prefix string, obj gjson.Result, out map[string]any) {
	obj.ForEach(func(key, val gjson.Result) bool {
		path := prefix + "/" + key.String()
		switch {
		case val.IsObject():
			flattenJSON(path, val, out)
		case val.Type == gjson.String:
			out[path] = val.String()
		case val.Type == gjson.Number:
			out[path] = val.Float()
		case val.Type == gjson.True, val.Type == gjson.False:
			out[path] = val.Bool()
		}
		return true
	})
}

func nest(values map[string]any) map[string]any {
	root := make(map[string]any)
	for path, val := range values {
		segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
		node := root
		for _, seg := range segments[:len(segments)-1] {
			child, ok := node[seg].(map[string]any)
			if !ok {
				child = make(map[string]any)
				node[seg] = child
			}
			node = child
		}
		node[segments[len(segments)-1]] = val
	}
	return root
}

func encodeJSON(values map[string]any) ([]byte, error) {
	paths := make([]string, 0, len(values))
	for p := range values {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	doc := []byte("{}")
	for _, path := range paths {
		var err error
		doc, err = sjson.SetBytes(doc, jsonPath(path), values[path])
		if err != nil {
			return nil, fmt.Errorf("setting %s: %w", path, err)
		}
	}
	return pretty.Pretty(doc), nil
}

var jsonPathEscaper = strings.NewReplacer(".", `\.`, "*", `\*`, "?", `\?`)

// jsonPath converts "/a/b.c/d" into the sjson path `a.b\.c.d`.
func jsonPath(path string) string {
	segments := strings.Split(strings.TrimPrefix(path, "/"), "/")
	for i, seg := range segments {
		segments[i] = jsonPathEscaper.Replace(seg)
	}
	return strings.Join(segments, ".")
}
