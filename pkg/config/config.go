// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package config

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"gopkg.in/yaml.v3"

	"github.com/walteh/notegrep/pkg/scan"
	"github.com/walteh/notegrep/pkg/undo"
	"github.com/walteh/notegrep/pkg/vault"
)

// 🔌 Parser is the interface for settings parsers
type Parser interface {
	// 📝 Parse parses the settings from bytes
	Parse(ctx context.Context, data []byte) (*Settings, error)

	// 🔍 CanParse checks if this parser can handle the given file
	CanParse(filename string) bool
}

var (
	// 🗺️ parsers is a list of available parsers
	parsers []Parser
)

// 📝 Register registers a parser
func Register(p Parser) {
	parsers = append(parsers, p)
}

// 🎯 GetParser returns a parser that can handle the given file
func GetParser(filename string) Parser {
	for _, p := range parsers {
		if p.CanParse(filename) {
			return p
		}
	}
	return nil
}

// 📚 Settings is the flat persisted panel configuration. Missing fields
// fall back to their defaults; there is no versioning beyond that.
type Settings struct {
	Pattern        string   `json:"pattern" yaml:"pattern" hcl:"pattern,optional"`
	Replacement    string   `json:"replacement" yaml:"replacement" hcl:"replacement,optional"`
	Regex          bool     `json:"regex" yaml:"regex" hcl:"regex,optional"`
	IgnoreCase     bool     `json:"ignore_case" yaml:"ignore_case" hcl:"ignore_case,optional"`
	WholeWord      bool     `json:"whole_word" yaml:"whole_word" hcl:"whole_word,optional"`
	Scope          string   `json:"scope" yaml:"scope" hcl:"scope,optional"`
	DebounceMillis int      `json:"debounce_millis" yaml:"debounce_millis" hcl:"debounce_millis,optional"`
	MaxMatches     int      `json:"max_matches" yaml:"max_matches" hcl:"max_matches,optional"`
	UndoCapacity   int      `json:"undo_capacity" yaml:"undo_capacity" hcl:"undo_capacity,optional"`
	Includes       []string `json:"includes" yaml:"includes" hcl:"includes,optional"`
	Ignores        []string `json:"ignores" yaml:"ignores" hcl:"ignores,optional"`
}

// 🎯 Default returns the settings used when nothing is persisted yet
func Default() Settings {
	return Settings{
		Scope:          string(undo.ScopeVault),
		DebounceMillis: 400,
		MaxMatches:     scan.DefaultMaxMatches,
		UndoCapacity:   undo.DefaultCapacity,
		Includes:       vault.DefaultIncludes,
	}
}

// 🔍 Validate checks the settings and fills defaulted fields
func (s *Settings) Validate() error {
	def := Default()

	switch s.Scope {
	case "":
		s.Scope = def.Scope
	case string(undo.ScopeDocument), string(undo.ScopeVault):
	default:
		return errors.Errorf("scope must be %q or %q, got %q",
			undo.ScopeDocument, undo.ScopeVault, s.Scope)
	}

	if s.DebounceMillis <= 0 {
		s.DebounceMillis = def.DebounceMillis
	}
	if s.MaxMatches <= 0 {
		s.MaxMatches = def.MaxMatches
	}
	if s.UndoCapacity <= 0 {
		s.UndoCapacity = def.UndoCapacity
	}
	if len(s.Includes) == 0 {
		s.Includes = def.Includes
	}
	return nil
}

// 🎯 Load loads settings from a file. A missing file yields the defaults.
func Load(ctx context.Context, path string) (*Settings, error) {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("loading settings")

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		settings := Default()
		return &settings, nil
	}
	if err != nil {
		return nil, errors.Errorf("reading settings file: %w", err)
	}

	p := GetParser(path)
	if p == nil {
		return nil, errors.Errorf("no parser found for file: %s", path)
	}

	settings, err := p.Parse(ctx, data)
	if err != nil {
		return nil, errors.Errorf("parsing settings: %w", err)
	}

	if err := settings.Validate(); err != nil {
		return nil, errors.Errorf("validating settings: %w", err)
	}

	return settings, nil
}

// 💾 Save persists settings as YAML
func Save(ctx context.Context, path string, settings *Settings) error {
	logger := zerolog.Ctx(ctx)
	logger.Debug().Str("path", path).Msg("saving settings")

	data, err := yaml.Marshal(settings)
	if err != nil {
		return errors.Errorf("encoding settings: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Errorf("writing settings file: %w", err)
	}
	return nil
}
