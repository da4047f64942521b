package flexlog

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format names a declarative config syntax (§4.7).
type Format int

const (
	// FormatAuto selects a format from the file extension in LoadFile.
	FormatAuto Format = iota
	FormatYAML
	FormatJSON
	FormatTOML
)

func formatFromExt(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return FormatAuto, fmt.Errorf("flexlog: cannot infer format from extension of %q", path)
	}
}

// decodeRaw parses data in the given format into a RawConfig. Every format
// rejects unknown fields (§4.7: "unrecognized keys are rejected, not
// ignored"), catching typos instead of silently dropping them.
func decodeRaw(data []byte, format Format) (RawConfig, error) {
	var doc RawConfig
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&doc); err != nil {
			return RawConfig{}, fmt.Errorf("flexlog: parsing yaml config: %w", err)
		}
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return RawConfig{}, fmt.Errorf("flexlog: parsing json config: %w", err)
		}
	case FormatTOML:
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		if err := dec.Decode(&doc); err != nil {
			return RawConfig{}, fmt.Errorf("flexlog: parsing toml config: %w", err)
		}
	default:
		return RawConfig{}, fmt.Errorf("flexlog: unknown config format")
	}
	return doc, nil
}

// Load parses data in format and builds a Graph against registry (nil means
// DefaultDeserializers). now seeds time triggers; errHandler receives
// asynchronous appender failures.
func Load(data []byte, format Format, registry *Deserializers, now time.Time, errHandler func(error)) (*Graph, error) {
	if registry == nil {
		registry = DefaultDeserializers
	}
	doc, err := decodeRaw(data, format)
	if err != nil {
		return nil, err
	}
	return Build(doc, registry, now, errHandler)
}

// LoadFile reads path, infers its format from the extension unless format is
// given explicitly, and builds a Graph from it.
func LoadFile(path string, format Format, registry *Deserializers, errHandler func(error)) (*Graph, error) {
	if format == FormatAuto {
		f, err := formatFromExt(path)
		if err != nil {
			return nil, err
		}
		format = f
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("flexlog: reading %q: %w", path, err)
	}
	return Load(data, format, registry, time.Now(), errHandler)
}
