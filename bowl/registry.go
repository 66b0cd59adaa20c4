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

// RegisterEntry names one function exported by a native module, for bulk
// registration via RegisterAll (§4.8).
type RegisterEntry struct {
	Name    string
	FnIndex int64
}

// RegisterFunction creates a symbol for name, a function value bound to
// library and fnIndex, and updates *fr.Dictionary to a new map binding the
// symbol to that function, replacing any prior binding (§4.8, C8).
func (h *Heap) RegisterFunction(fr *Frame, name string, library Ref, fnIndex int64) Result {
	if fr.Dictionary == nil {
		msg, err := h.FormatException(fr, "register_function called with no dictionary in scope")
		if err != nil {
			return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
		}
		return Result{Failure: true, Value: msg}
	}

	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = library

	symRes := h.Symbol(&w, []byte(name))
	if symRes.Failure {
		return symRes
	}
	w.Registers[1] = symRes.Value

	fnRes := h.Function(&w, w.Registers[0], fnIndex)
	if fnRes.Failure {
		return fnRes
	}
	w.Registers[2] = fnRes.Value

	putRes := h.Put(&w, *fr.Dictionary, w.Registers[1], w.Registers[2])
	if putRes.Failure {
		return putRes
	}
	*fr.Dictionary = putRes.Value
	return Result{Value: w.Registers[2]}
}

// RegisterAll registers every entry against library in order, stopping at
// the first failure.
func (h *Heap) RegisterAll(fr *Frame, library Ref, entries []RegisterEntry) Result {
	// library is pinned in a register of our own rather than re-passed as
	// a bare parameter: each RegisterFunction call below allocates
	// (Symbol, Function, Put) and can collect, which would otherwise leave
	// every entry after the first binding to a stale, moved cell.
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = library

	for _, e := range entries {
		res := h.RegisterFunction(&w, e.Name, w.Registers[0], e.FnIndex)
		if res.Failure {
			return res
		}
	}
	return Result{Value: w.Registers[0]}
}
