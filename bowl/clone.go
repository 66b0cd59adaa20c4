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

// Clone produces a new cell logically equal to v (§4.2, C2). Aggregates
// (list, vector, map) are deep-cloned — every cell of their own structure
// is freshly allocated — while leaf values (symbols, strings, numbers,
// booleans, functions, libraries, exceptions) are immutable, so cloning
// them is a shallow share: the same Ref is returned.
func (h *Heap) Clone(fr *Frame, v Ref) Result {
	if v == Null {
		return Result{Value: Null}
	}
	switch h.Type(v) {
	case ListType:
		return h.cloneList(fr, v)
	case VectorType:
		return h.cloneVector(fr, v)
	case MapType:
		return h.cloneMap(fr, v)
	default:
		return Result{Value: v}
	}
}

func (h *Heap) cloneList(fr *Frame, v Ref) Result {
	rev := h.Reverse(fr, v)
	if rev.Failure {
		return rev
	}
	return h.Reverse(fr, rev.Value)
}

func (h *Heap) cloneVector(fr *Frame, v Ref) Result {
	n := h.vectorLength(v)
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = v

	res := h.Vector(&w, n, Null)
	if res.Failure {
		return res
	}
	w.Registers[1] = res.Value
	for i := int64(0); i < n; i++ {
		h.vectorSet(w.Registers[1], i, h.vectorGet(w.Registers[0], i))
	}
	return Result{Value: w.Registers[1]}
}

func (h *Heap) cloneMap(fr *Frame, v Ref) Result {
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = v

	res := h.newMapCell(&w, h.mapCapacity(w.Registers[0]))
	if res.Failure {
		return res
	}
	w.Registers[1] = res.Value

	capacity := h.mapCapacity(w.Registers[0])
	for i := int64(0); i < capacity; i++ {
		cursor := h.bucketRef(w.Registers[0], i)
		for cursor != Null {
			pair := h.listHead(cursor)
			next := h.listTail(cursor)
			key, value := h.pairKey(pair), h.pairValue(pair)
			w.Registers[2] = next
			putRes := h.insertNoGrow(&w, w.Registers[1], key, value)
			if putRes.Failure {
				return putRes
			}
			w.Registers[1] = putRes.Value
			cursor = w.Registers[2]
		}
	}
	return Result{Value: w.Registers[1]}
}
