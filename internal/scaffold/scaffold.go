package scaffold

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/ecruz165/tsup-init/internal/prompt"
)

// ConfigFileName is the tsup config written into the working directory.
const ConfigFileName = "tsup.config.ts"

// DefaultFormats are the module formats emitted when none are configured.
var DefaultFormats = []string{"cjs", "esm"}

// ErrOverwriteDeclined is returned when the user keeps an existing config.
var ErrOverwriteDeclined = errors.New("overwrite of " + ConfigFileName + " declined")

//go:embed templates/*.tmpl
var templateFS embed.FS

var configTemplate = template.Must(
	template.New("tsup.config.ts.tmpl").
		Funcs(template.FuncMap{"jsString": jsString, "jsList": jsList}).
		ParseFS(templateFS, "templates/tsup.config.ts.tmpl"),
)

// Options are the tsup build options written into the config.
type Options struct {
	Formats []string
	DTS     bool
	// Splitting is emitted only when non-nil.
	Splitting *bool
}

// ConfigData holds all template variables available to the config template.
type ConfigData struct {
	Entry        string
	Formats      []string
	DTS          bool
	HasSplitting bool
	Splitting    bool
}

// NewConfigData creates ConfigData for entry, filling in default formats.
func NewConfigData(entry string, opts Options) *ConfigData {
	d := &ConfigData{
		Entry:   entry,
		Formats: opts.Formats,
		DTS:     opts.DTS,
	}
	if len(d.Formats) == 0 {
		d.Formats = DefaultFormats
	}
	if opts.Splitting != nil {
		d.HasSplitting = true
		d.Splitting = *opts.Splitting
	}
	return d
}

// Result holds the outcome of writing the config.
type Result struct {
	Path        string
	Overwritten bool
}

// Render executes the config template.
func Render(data *ConfigData) ([]byte, error) {
	var buf bytes.Buffer
	if err := configTemplate.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("executing template %s: %w", configTemplate.Name(), err)
	}
	return buf.Bytes(), nil
}

// WriteConfig renders data into dir/tsup.config.ts. An existing file is
// replaced only when confirm agrees; otherwise ErrOverwriteDeclined is
// returned and the file is left untouched.
func WriteConfig(dir string, data *ConfigData, confirm prompt.Confirmer) (*Result, error) {
	out, err := Render(data)
	if err != nil {
		return nil, err
	}

	path := filepath.Join(dir, ConfigFileName)
	result := &Result{Path: path}

	_, err = os.Stat(path)
	switch {
	case err == nil:
		ok, err := confirm.Confirm(ConfigFileName + " already exists. Overwrite?")
		if err != nil {
			return nil, fmt.Errorf("confirming overwrite: %w", err)
		}
		if !ok {
			return nil, ErrOverwriteDeclined
		}
		result.Overwritten = true
	case !errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("checking %s: %w", path, err)
	}

	if err := os.WriteFile(path, out, 0o644); err != nil {
		return nil, fmt.Errorf("writing %s: %w", path, err)
	}
	return result, nil
}

// jsString renders s as a double-quoted JavaScript string literal.
func jsString(s string) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(s); err != nil {
		return "", err
	}
	return strings.TrimSuffix(buf.String(), "\n"), nil
}

func jsList(items []string) (string, error) {
	quoted := make([]string, len(items))
	for i, item := range items {
		lit, err := jsString(item)
		if err != nil {
			return "", err
		}
		quoted[i] = lit
	}
	return strings.Join(quoted, ", "), nil
}
