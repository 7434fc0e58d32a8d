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
	"github.com/pterm/pterm"
)

// 📢 Notifier is the fire-and-forget user feedback channel. Failures in
// this channel never affect core correctness, so implementations swallow
// their own errors.
type Notifier interface {
	Notify(msg string)
}

// 🖼️ PtermNotifier renders notifications as pterm prefix messages
type PtermNotifier struct{}

// 🎯 NewPtermNotifier creates a console notifier
func NewPtermNotifier() *PtermNotifier {
	return &PtermNotifier{}
}

// 📝 Notify prints one notification. Never returns an error and never
// panics outward.
func (n *PtermNotifier) Notify(msg string) {
	defer func() { _ = recover() }()
	pterm.Info.WithPrefix(pterm.Prefix{Text: "🔍"}).Println(msg)
}

// 🔇 NopNotifier drops every notification, for tests and quiet mode
type NopNotifier struct{}

// 📝 Notify implements Notifier
func (NopNotifier) Notify(msg string) {}
