package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"

	"github.com/nao1215/redactpdf/internal/model"
)

// DefaultConfigFile is the zone configuration file name searched for by
// FindConfigFile. A .yaml or .yml variant with the same stem is also accepted.
const DefaultConfigFile = "redaction_config.json"

// MetadataPrefix marks top-level keys that are comments or metadata rather
// than document types. Such keys never reach the returned set.
const MetadataPrefix = "_"

//go:embed zone_config.schema.json
var zoneSchemaJSON []byte

const zoneSchemaURL = "zone_config.schema.json"

// zoneSchema compiles the embedded schema once per process.
var zoneSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(zoneSchemaURL, bytes.NewReader(zoneSchemaJSON)); err != nil {
		return nil, fmt.Errorf("add zone schema: %w", err)
	}
	return compiler.Compile(zoneSchemaURL)
})

// configCandidates lists the file names tried in each search directory.
var configCandidates = []string{
	DefaultConfigFile,
	"redaction_config.yaml",
	"redaction_config.yml",
}

// rawBand mirrors model.Band with optional fields so that defaults can be
// told apart from explicit values.
type rawBand struct {
	Enabled bool `json:"enabled"   yaml:"enabled"`
	Height  *int `json:"height_px" yaml:"height_px"`
}

type rawZone struct {
	X      int    `json:"x"     yaml:"x"`
	Y      int    `json:"y"     yaml:"y"`
	Width  *int   `json:"w"     yaml:"w"`
	Height *int   `json:"h"     yaml:"h"`
	Label  string `json:"label" yaml:"label"`
}

type rawZoneConfig struct {
	Description string    `json:"description"      yaml:"description"`
	Header      *rawBand  `json:"header"           yaml:"header"`
	Footer      *rawBand  `json:"footer"           yaml:"footer"`
	CoverZones  []rawZone `json:"cover_page_zones" yaml:"cover_page_zones"`
	SkipPages   []int     `json:"skip_pages"       yaml:"skip_pages"`
}

// LoadZoneConfig reads and validates a zone configuration file.
// It returns ErrConfigNotFound when the file does not exist and
// ErrConfigParse when the content is malformed or violates the schema.
func LoadZoneConfig(path string) (*model.ZoneConfigSet, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("failed to read configuration %s: %w", path, err)
	}

	set, err := ParseZoneConfig(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return set, nil
}

// ParseZoneConfig parses a JSON or YAML zone configuration document.
// Keys starting with MetadataPrefix are dropped; the remaining keys keep
// their declaration order.
//
// A document whose first non-blank byte is '{' is read as JSON, where a
// repeated key keeps its first position and takes the last value. Anything
// else is read as YAML.
func ParseZoneConfig(data []byte) (*model.ZoneConfigSet, error) {
	var (
		entries []docEntry
		err     error
	)
	if isJSONObject(data) {
		entries, err = parseJSONEntries(data)
	} else {
		entries, err = parseYAMLEntries(data)
	}
	if err != nil {
		return nil, err
	}

	active := make([]docEntry, 0, len(entries))
	for _, e := range entries {
		if !strings.HasPrefix(e.key, MetadataPrefix) {
			active = append(active, e)
		}
	}

	if err := validateAgainstSchema(active); err != nil {
		return nil, err
	}

	set := model.NewZoneConfigSet()
	for _, e := range active {
		var raw rawZoneConfig
		if err := e.decode(&raw); err != nil {
			return nil, fmt.Errorf("%w: document type %q: %v", ErrConfigParse, e.key, err)
		}
		set.Add(e.key, raw.toModel())
	}

	return set, nil
}

// docEntry is one top-level key of a zone document together with its value.
type docEntry struct {
	key     string
	generic func() (any, error)
	decode  func(*rawZoneConfig) error
}

func isJSONObject(data []byte) bool {
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// parseJSONEntries streams the top-level object so that key order survives.
func parseJSONEntries(data []byte) ([]docEntry, error) {
	dec := json.NewDecoder(bytes.NewReader(bytes.TrimPrefix(data, []byte("\ufeff"))))
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	var entries []docEntry
	index := make(map[string]int)
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
		}
		key, ok := tok.(string)
		if !ok {
			return nil, fmt.Errorf("%w: unexpected token %v", ErrConfigParse, tok)
		}
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return nil, fmt.Errorf("%w: document type %q: %v", ErrConfigParse, key, err)
		}

		entry := jsonEntry(key, value)
		if i, seen := index[key]; seen {
			entries[i] = entry
			continue
		}
		index[key] = len(entries)
		entries = append(entries, entry)
	}

	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after top-level object", ErrConfigParse)
	}
	return entries, nil
}

func jsonEntry(key string, value json.RawMessage) docEntry {
	return docEntry{
		key: key,
		generic: func() (any, error) {
			var v any
			err := json.Unmarshal(value, &v)
			return v, err
		},
		decode: func(raw *rawZoneConfig) error {
			return json.Unmarshal(value, raw)
		},
	}
}

func parseYAMLEntries(data []byte) ([]docEntry, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if root.Kind != yaml.DocumentNode || len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrConfigParse)
	}
	doc := root.Content[0]
	if doc.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: top level must be a mapping of document types", ErrConfigParse)
	}

	entries := make([]docEntry, 0, len(doc.Content)/2)
	for i := 0; i+1 < len(doc.Content); i += 2 {
		node := doc.Content[i+1]
		entries = append(entries, docEntry{
			key: doc.Content[i].Value,
			generic: func() (any, error) {
				var v any
				err := node.Decode(&v)
				return v, err
			},
			decode: func(raw *rawZoneConfig) error {
				return node.Decode(raw)
			},
		})
	}
	return entries, nil
}

// validateAgainstSchema checks the active (non-metadata) entries against the
// embedded JSON Schema. Values are round-tripped through encoding/json so the
// validator sees the same types for JSON and YAML sources.
func validateAgainstSchema(entries []docEntry) error {
	generic := make(map[string]any, len(entries))
	for _, e := range entries {
		v, err := e.generic()
		if err != nil {
			return fmt.Errorf("%w: document type %q: %v", ErrConfigParse, e.key, err)
		}
		generic[e.key] = v
	}

	encoded, err := json.Marshal(generic)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	var instance any
	if err := json.Unmarshal(encoded, &instance); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigParse, err)
	}

	schema, err := zoneSchema()
	if err != nil {
		return fmt.Errorf("compile zone schema: %w", err)
	}
	if err := schema.Validate(instance); err != nil {
		return fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	return nil
}

// toModel applies defaults and converts to the engine's model.
func (r rawZoneConfig) toModel() model.ZoneConfig {
	cfg := model.ZoneConfig{
		Description: r.Description,
		Header:      r.Header.toModel(model.DefaultHeaderHeight),
		Footer:      r.Footer.toModel(model.DefaultFooterHeight),
		CoverZones:  make([]model.Zone, 0, len(r.CoverZones)),
		SkipPages:   make([]int, 0, len(r.SkipPages)),
	}
	for _, z := range r.CoverZones {
		cfg.CoverZones = append(cfg.CoverZones, z.toModel())
	}
	cfg.SkipPages = append(cfg.SkipPages, r.SkipPages...)
	return cfg
}

func (b *rawBand) toModel(defaultHeight int) model.Band {
	if b == nil {
		return model.Band{}
	}
	band := model.Band{Enabled: b.Enabled}
	switch {
	case b.Height != nil:
		band.Height = *b.Height
	case b.Enabled:
		band.Height = defaultHeight
	}
	return band
}

func (z rawZone) toModel() model.Zone {
	zone := model.Zone{
		X:      z.X,
		Y:      z.Y,
		Width:  model.DefaultZoneWidth,
		Height: model.DefaultZoneHeight,
		Label:  z.Label,
	}
	if z.Width != nil {
		zone.Width = *z.Width
	}
	if z.Height != nil {
		zone.Height = *z.Height
	}
	return zone
}

// Resolve returns the configuration for docType or ErrUnknownDocumentType
// listing the known keys.
func Resolve(set *model.ZoneConfigSet, docType string) (model.ZoneConfig, error) {
	cfg, ok := set.Lookup(docType)
	if !ok {
		return model.ZoneConfig{}, fmt.Errorf("%w %q (available: %s)",
			ErrUnknownDocumentType, docType, strings.Join(set.Types(), ", "))
	}
	return cfg, nil
}

// FindConfigFile searches for the zone configuration file in the following order:
//  1. If configPath is specified, use it directly
//  2. The current directory
//  3. The directory containing the executable
//  4. The XDG config directory (~/.config/redactpdf on Linux)
//
// In each directory redaction_config.json, .yaml and .yml are tried in turn.
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	dirs := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		dirs = append(dirs, cwd)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	dirs = append(dirs, XDGConfigDir())

	return findConfigIn(dirs)
}

// findConfigIn returns the first candidate file present in dirs.
func findConfigIn(dirs []string) string {
	for _, dir := range dirs {
		for _, name := range configCandidates {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}
	}
	return ""
}
