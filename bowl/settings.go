// This file is part of bowl - https://github.com/bowl-run/bowl
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

package bowl

import "github.com/bowl-run/bowl/internal/diag"

// Settings holds the three process-wide configuration values read at
// startup (§6): where to load the boot image from, where to load the
// kernel native library from, and how verbosely to log. The command-line
// front end populates these; the core only ever reads them.
type Settings struct {
	BootImagePath string
	KernelLibrary string
	Verbosity     int
}

// Option configures a Heap at construction time via the functional-options
// pattern.
type Option func(*Heap) error

// WithSettings stores s on the heap and, when s.Verbosity > 0, installs a
// commonlog-backed logger named "bowl".
func WithSettings(s Settings) Option {
	return func(h *Heap) error {
		h.settings = s
		if s.Verbosity > 0 {
			h.SetLogger(diag.New("bowl"))
		}
		return nil
	}
}

// WithLogger installs a custom diagnostic logger, overriding whatever
// WithSettings would otherwise have installed.
func WithLogger(l diag.Logger) Option {
	return func(h *Heap) error {
		h.SetLogger(l)
		return nil
	}
}

// Configure applies opts to h in order, stopping at the first error.
func (h *Heap) Configure(opts ...Option) error {
	for _, opt := range opts {
		if err := opt(h); err != nil {
			return err
		}
	}
	return nil
}
