package manifest

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

// FileName is the manifest file name inside the working directory.
const FileName = "package.json"

// ErrInvalidManifest is returned when package.json is not a JSON object or
// a field the CLI edits has the wrong type.
var ErrInvalidManifest = errors.New("invalid package.json")

// dependencyFields are the mappings whose keys count as declared.
var dependencyFields = []string{"dependencies", "devDependencies", "peerDependencies"}

var writeOptions = &pretty.Options{
	Indent:   "  ",
	SortKeys: false,
}

// Manifest is the raw content of a package.json file.
type Manifest struct {
	Path string
	data []byte
}

// Path returns the manifest path for dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// Exists reports whether dir contains a package.json.
func Exists(dir string) (bool, error) {
	_, err := os.Stat(Path(dir))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", FileName, err)
}

// Read loads and checks the manifest at path.
func Read(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return Parse(path, data)
}

// Parse wraps data as a manifest located at path.
func Parse(path string, data []byte) (*Manifest, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("%w: %s is not valid JSON", ErrInvalidManifest, path)
	}
	if !gjson.ParseBytes(data).IsObject() {
		return nil, fmt.Errorf("%w: %s must contain a JSON object", ErrInvalidManifest, path)
	}
	return &Manifest{Path: path, data: data}, nil
}

// Bytes returns the current document.
func (m *Manifest) Bytes() []byte {
	return m.data
}

// DeclaredDependencies returns the union of package names across
// dependencies, devDependencies and peerDependencies, in document order.
// Missing or non-object fields contribute nothing.
func (m *Manifest) DeclaredDependencies() []string {
	seen := make(map[string]bool)
	var names []string
	for _, field := range dependencyFields {
		deps := gjson.GetBytes(m.data, field)
		if !deps.IsObject() {
			continue
		}
		deps.ForEach(func(key, _ gjson.Result) bool {
			name := key.String()
			if !seen[name] {
				seen[name] = true
				names = append(names, name)
			}
			return true
		})
	}
	return names
}

// MissingDependencies returns the entries of required not declared in any
// dependency mapping, keeping the order of required.
func (m *Manifest) MissingDependencies(required []string) []string {
	declared := make(map[string]bool)
	for _, name := range m.DeclaredDependencies() {
		declared[name] = true
	}

	var missing []string
	for _, name := range required {
		if !declared[name] {
			missing = append(missing, name)
		}
	}
	return missing
}

// Script returns scripts[name].
func (m *Manifest) Script(name string) (string, bool) {
	r := gjson.GetBytes(m.data, "scripts."+gjson.Escape(name))
	if !r.Exists() {
		return "", false
	}
	return r.String(), true
}

// SetScript sets scripts[name] to command, creating scripts when absent.
// Every other field and script is left as is.
func (m *Manifest) SetScript(name, command string) error {
	scripts := gjson.GetBytes(m.data, "scripts")
	if scripts.Exists() && !scripts.IsObject() {
		return fmt.Errorf("%w: scripts must be an object, got %s", ErrInvalidManifest, scripts.Type)
	}

	data, err := sjson.SetBytes(m.data, "scripts."+gjson.Escape(name), command)
	if err != nil {
		return fmt.Errorf("setting script %q: %w", name, err)
	}
	m.data = data
	return nil
}

// Write overwrites the file with the document indented by two spaces.
func (m *Manifest) Write() error {
	out := pretty.PrettyOptions(m.data, writeOptions)
	if err := os.WriteFile(m.Path, out, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", m.Path, err)
	}
	m.data = out
	return nil
}
