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

// Package diag provides the leveled diagnostic logger used for collector
// and native-module-loader lifecycle events. It wraps commonlog so the
// runtime core depends only on a small interface, while the command-line
// front end wires in the simple backend.
package diag

import "github.com/tliron/commonlog"

// Logger is the subset of commonlog's Logger interface the runtime core
// needs. Keeping it small lets bowl.Heap accept any implementation,
// including the no-op one used by default.
type Logger interface {
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warningf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// commonlogAdapter adapts a commonlog.Logger to Logger.
type commonlogAdapter struct {
	l commonlog.Logger
}

// New wraps the named commonlog logger (created via the simple backend
// once it has been registered, typically from cmd/bowl's main) as a Logger.
func New(name string) Logger {
	return commonlogAdapter{l: commonlog.GetLogger(name)}
}

func (a commonlogAdapter) Debugf(format string, args ...interface{})   { a.l.Debugf(format, args...) }
func (a commonlogAdapter) Infof(format string, args ...interface{})    { a.l.Infof(format, args...) }
func (a commonlogAdapter) Warningf(format string, args ...interface{}) { a.l.Warningf(format, args...) }
func (a commonlogAdapter) Errorf(format string, args ...interface{})   { a.l.Errorf(format, args...) }

// Nop is a Logger that discards everything, used when no logger has been
// configured.
type Nop struct{}

func (Nop) Debugf(string, ...interface{})   {}
func (Nop) Infof(string, ...interface{})    {}
func (Nop) Warningf(string, ...interface{}) {}
func (Nop) Errorf(string, ...interface{})   {}
