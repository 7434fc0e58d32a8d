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

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"

	"github.com/walteh/notegrep/pkg/scan"
)

// 🎨 Display configuration
const (
	matchIndent = 4  // spaces to indent match entries
	locWidth    = 35 // base width for path:line:col location
)

// 🎯 Logger renders search results on a console while mirroring every
// event into zerolog
type Logger struct {
	zlog    zerolog.Logger
	console io.Writer
	mu      sync.Mutex
	matches int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 formatMatch formats one match for display: an inclusion marker, the
// path:line:col location, and the snippet with the matched range
// highlighted
func (l *Logger) formatMatch(m scan.Match) string {
	marker := color.New(color.FgGreen).Sprint("✓")
	if !m.Included {
		marker = color.New(color.FgYellow).Sprint("-")
	}

	loc := fmt.Sprintf("%s:%d:%d", m.Path, m.Line+1, m.Start+1)

	snippet := m.Snippet[:m.SnippetStart] +
		color.New(color.Bold, color.FgRed).Sprint(m.Snippet[m.SnippetStart:m.SnippetEnd]) +
		m.Snippet[m.SnippetEnd:]

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", matchIndent, ""),
		marker,
		fmt.Sprintf("%-*s", locWidth, loc),
		snippet)
}

// 📝 LogMatch prints one match entry
func (l *Logger) LogMatch(ctx context.Context, m scan.Match) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.matches++
	fmt.Fprintln(l.console, l.formatMatch(m))

	l.zlog.Debug().
		Str("path", m.Path).
		Int("line", m.Line).
		Int("start", m.Start).
		Int("end", m.End).
		Bool("included", m.Included).
		Msg("match")
}

// 📝 StartSearch prints the search header
func (l *Logger) StartSearch(ctx context.Context, pattern, scope string) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.matches = 0
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(pattern),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(scope))

	l.zlog.Info().
		Str("pattern", pattern).
		Str("scope", scope).
		Msg("starting search")
}

// 📝 EndSearch prints the search summary
func (l *Logger) EndSearch(ctx context.Context, result *scan.CorpusResult) {
	l.mu.Lock()
	defer l.mu.Unlock()

	summary := fmt.Sprintf("%d matches in %d documents", result.Index.Len(), result.DocsScanned)
	if result.Index.Truncated() {
		summary += fmt.Sprintf(" (results truncated at %d)", result.Index.Len())
	}
	fmt.Fprintf(l.console, "\n%s\n", color.New(color.Faint).Sprint(summary))

	for _, term := range result.NotFound {
		fmt.Fprintf(l.console, "%s\n",
			color.New(color.FgYellow).Sprintf("term not found: %s", term))
	}

	l.zlog.Info().
		Int("matches", result.Index.Len()).
		Int("documents", result.DocsScanned).
		Int("read_failures", result.ReadFailures).
		Bool("truncated", result.Index.Truncated()).
		Strs("not_found", result.NotFound).
		Msg("search complete")
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	appText := color.New(color.Bold, color.FgCyan).Sprint("notegrep")
	fmt.Fprintf(l.console, "\n%s %s\n\n", appText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}
