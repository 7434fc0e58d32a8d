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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad_YAML(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		check     func(t *testing.T, s *Settings)
		wantError string
	}{
		{
			name: "full_settings",
			content: `
pattern: foo
replacement: bar
regex: true
ignore_case: true
whole_word: true
scope: document
debounce_millis: 250
max_matches: 500
undo_capacity: 3
includes:
  - "**/*.md"
ignores:
  - "archive/**"
`,
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "foo", s.Pattern)
				assert.Equal(t, "bar", s.Replacement)
				assert.True(t, s.Regex)
				assert.True(t, s.IgnoreCase)
				assert.True(t, s.WholeWord)
				assert.Equal(t, "document", s.Scope)
				assert.Equal(t, 250, s.DebounceMillis)
				assert.Equal(t, 500, s.MaxMatches)
				assert.Equal(t, 3, s.UndoCapacity)
				assert.Equal(t, []string{"**/*.md"}, s.Includes)
				assert.Equal(t, []string{"archive/**"}, s.Ignores)
			},
		},
		{
			name:    "missing_fields_fall_back_to_defaults",
			content: "pattern: foo\n",
			check: func(t *testing.T, s *Settings) {
				def := Default()
				assert.Equal(t, "foo", s.Pattern)
				assert.Equal(t, def.Scope, s.Scope)
				assert.Equal(t, def.DebounceMillis, s.DebounceMillis)
				assert.Equal(t, def.MaxMatches, s.MaxMatches)
				assert.Equal(t, def.UndoCapacity, s.UndoCapacity)
				assert.Equal(t, def.Includes, s.Includes)
			},
		},
		{
			name:    "unknown_fields_ignored",
			content: "pattern: foo\nfuture_knob: 7\n",
			check: func(t *testing.T, s *Settings) {
				assert.Equal(t, "foo", s.Pattern)
			},
		},
		{
			name:      "invalid_scope",
			content:   "scope: galaxy\n",
			wantError: "scope must be",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeFile(t, "settings.yaml", tt.content)
			s, err := Load(context.Background(), path)

			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}

			require.NoError(t, err)
			tt.check(t, s)
		})
	}
}

func TestLoad_HCL(t *testing.T) {
	path := writeFile(t, "settings.hcl", `
pattern     = "foo"
regex       = true
max_matches = 123
`)

	s, err := Load(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, "foo", s.Pattern)
	assert.True(t, s.Regex)
	assert.Equal(t, 123, s.MaxMatches)
	// Defaulted fields still filled.
	assert.Equal(t, Default().UndoCapacity, s.UndoCapacity)
}

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	s, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, Default(), *s)
}

func TestLoad_NoParser(t *testing.T) {
	path := writeFile(t, "settings.toml", "pattern = 'foo'")

	_, err := Load(context.Background(), path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no parser found")
}

func TestSaveLoad_RoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "settings.yaml")

	s := Default()
	s.Pattern = "f(o+)"
	s.Regex = true
	s.UndoCapacity = 7
	require.NoError(t, Save(ctx, path, &s))

	loaded, err := Load(ctx, path)
	require.NoError(t, err)
	assert.Equal(t, s, *loaded)
}
