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

// Symbol and String share exactly the same cell layout (length-prefixed
// bytes) and differ only in their type tag (§4.5); newBytesCell builds
// either.

// Symbol allocates a new symbol cell containing a copy of b. Symbols are
// compared and hashed by their bytes; there is no interning table.
func (h *Heap) Symbol(fr *Frame, b []byte) Result {
	return h.newBytesCell(fr, SymbolType, b)
}

// String allocates a new string cell containing a copy of b.
func (h *Heap) String(fr *Frame, b []byte) Result {
	return h.newBytesCell(fr, StringType, b)
}

func (h *Heap) newBytesCell(fr *Frame, t ValueType, b []byte) Result {
	res := h.Allocate(fr, t, int64(len(b)))
	if res.Failure {
		return res
	}
	ref := res.Value
	putU64(h.from, ref+offStringLength, uint64(len(b)))
	copy(h.from[ref+offStringBytes:ref+offStringBytes+Ref(len(b))], b)
	return Result{Value: ref}
}

func (h *Heap) stringLength(ref Ref) int64 {
	return int64(getU64(h.from, ref+offStringLength))
}

// stringBytes returns the cell's raw bytes. The returned slice aliases the
// heap's from-space and must not be retained across any allocation.
func (h *Heap) stringBytes(ref Ref) []byte {
	n := h.stringLength(ref)
	return h.from[ref+offStringBytes : ref+offStringBytes+Ref(n)]
}

// StringLength returns the byte length of a Symbol or String cell.
func (h *Heap) StringLength(ref Ref) int64 { return h.stringLength(ref) }

// StringBytes returns a copy of a Symbol or String cell's bytes. Unlike
// the internal stringBytes, the result is safe to retain across an
// allocation since it does not alias the heap arena.
func (h *Heap) StringBytes(ref Ref) []byte {
	b := h.stringBytes(ref)
	out := make([]byte, len(b))
	copy(out, b)
	return out
}
