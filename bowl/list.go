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

// List allocates a new cons cell (head . tail). tail may be Null, which
// denotes the empty list; the empty list is never itself allocated as a
// cell (§4.5, Open Question c).
func (h *Heap) List(fr *Frame, head, tail Ref) Result {
	sub := NewInheritingFrame(fr)
	h.Link(&sub)
	defer h.Unlink(&sub)
	sub.Registers[0] = head
	sub.Registers[1] = tail

	res := h.Allocate(&sub, ListType, 0)
	if res.Failure {
		return res
	}
	ref := res.Value
	length := int64(1)
	if sub.Registers[1] != Null {
		length += h.listLength(sub.Registers[1])
	}
	putU64(h.from, ref+offListLength, uint64(length))
	putRef(h.from, ref+offListHead, sub.Registers[0])
	putRef(h.from, ref+offListTail, sub.Registers[1])
	return Result{Value: ref}
}

func (h *Heap) listLength(ref Ref) int64 {
	if ref == Null {
		return 0
	}
	return int64(getU64(h.from, ref+offListLength))
}

func (h *Heap) listHead(ref Ref) Ref {
	return getRef(h.from, ref+offListHead)
}

func (h *Heap) listTail(ref Ref) Ref {
	return getRef(h.from, ref+offListTail)
}

// ListLength returns the number of elements in the list rooted at ref.
func (h *Heap) ListLength(ref Ref) int64 { return h.listLength(ref) }

// ListHead returns the first element of the list rooted at ref. ref must
// not be Null.
func (h *Heap) ListHead(ref Ref) Ref { return h.listHead(ref) }

// ListTail returns the rest of the list rooted at ref, or Null if ref was
// the last cell. ref must not be Null.
func (h *Heap) ListTail(ref Ref) Ref { return h.listTail(ref) }

// Reverse allocates a new list with the same elements as ref in reverse
// order (§4.5: "Reverse allocates `length` new cells").
func (h *Heap) Reverse(fr *Frame, ref Ref) Result {
	sub := NewInheritingFrame(fr)
	h.Link(&sub)
	defer h.Unlink(&sub)

	sub.Registers[0] = ref   // remaining input
	sub.Registers[1] = Null  // accumulator
	for sub.Registers[0] != Null {
		sub.Registers[2] = h.listHead(sub.Registers[0])
		res := h.List(&sub, sub.Registers[2], sub.Registers[1])
		if res.Failure {
			return res
		}
		sub.Registers[1] = res.Value
		sub.Registers[0] = h.listTail(sub.Registers[0])
	}
	return Result{Value: sub.Registers[1]}
}
