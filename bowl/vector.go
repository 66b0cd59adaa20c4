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

// Vector allocates a new fixed-length vector of n elements, every slot
// initialized to fill (§4.5: "constructor fills all slots with the
// provided value reference").
func (h *Heap) Vector(fr *Frame, n int64, fill Ref) Result {
	sub := NewInheritingFrame(fr)
	h.Link(&sub)
	defer h.Unlink(&sub)
	sub.Registers[0] = fill

	res := h.Allocate(&sub, VectorType, n*refFieldSize)
	if res.Failure {
		return res
	}
	ref := res.Value
	putU64(h.from, ref+offVectorLength, uint64(n))
	for i := int64(0); i < n; i++ {
		putRef(h.from, ref+offVectorElements+Ref(i*refFieldSize), sub.Registers[0])
	}
	return Result{Value: ref}
}

func (h *Heap) vectorLength(ref Ref) int64 {
	return int64(getU64(h.from, ref+offVectorLength))
}

func (h *Heap) vectorGet(ref Ref, i int64) Ref {
	return getRef(h.from, ref+offVectorElements+Ref(i*refFieldSize))
}

func (h *Heap) vectorSet(ref Ref, i int64, v Ref) {
	putRef(h.from, ref+offVectorElements+Ref(i*refFieldSize), v)
}

// VectorLength returns the fixed element count of the vector at ref.
func (h *Heap) VectorLength(ref Ref) int64 { return h.vectorLength(ref) }

// VectorGet returns the element at index i of the vector at ref. i must be
// in [0, VectorLength(ref)).
func (h *Heap) VectorGet(ref Ref, i int64) Ref { return h.vectorGet(ref, i) }
