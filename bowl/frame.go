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

// Frame is a single stack frame (§3.3, C4). Frames are stack-allocated by
// the host (ordinary Go values, never heap-allocated by the VM's own Heap)
// and chained through Previous. The collector treats the union of
// {Previous chain, the three Registers per frame, the three aliased root
// slots per frame} as the complete root set (§4.3 step 2).
//
// A frame must be linked (Heap.Link) before any allocation that could
// otherwise leave a new cell unreachable, and unlinked (Heap.Unlink) before
// returning to the caller, on every return path including error paths.
type Frame struct {
	Previous   *Frame
	Registers  [3]Ref
	Dictionary *Ref
	Callstack  *Ref
	Datastack  *Ref
}

// NewInheritingFrame returns a frame that inherits Dictionary, Callstack and
// Datastack from prev, with all registers initialized to Null. This is the
// shape used by a primitive that wants to add roots within the same scope
// (§4.4, the BOWL_ALLOCATE_STACK_FRAME macro in the original ABI).
func NewInheritingFrame(prev *Frame) Frame {
	return Frame{
		Previous:   prev,
		Dictionary: prev.Dictionary,
		Callstack:  prev.Callstack,
		Datastack:  prev.Datastack,
	}
}

// NewEmptyFrame returns a frame with all three root slots and all
// registers set to Null, used at the bottom of a new scope (§4.4, the
// BOWL_EMPTY_STACK_FRAME macro).
func NewEmptyFrame(prev *Frame) Frame {
	return Frame{Previous: prev}
}

// Link makes fr the current top frame of h, so that the collector will
// walk its roots. It must be called before any allocation performed on
// fr's behalf.
func (h *Heap) Link(fr *Frame) {
	fr.Previous = h.topFrame
	h.topFrame = fr
}

// Unlink pops fr off the top of h's frame chain. It is a programming error
// to unlink anything other than the current top frame; this is checked
// defensively because a mismatched link/unlink pair would otherwise corrupt
// the GC root set silently.
func (h *Heap) Unlink(fr *Frame) {
	if h.topFrame != fr {
		panic("bowl: Unlink called on a frame that is not the current top frame")
	}
	h.topFrame = fr.Previous
}

// Pop pops a value off fr's datastack, returning the stack-underflow
// exception named in §4.6/§7.2 if the datastack is empty.
func (h *Heap) Pop(fr *Frame, funcName string) Result {
	if fr.Datastack == nil || *fr.Datastack == Null {
		ref, err := h.FormatException(fr, "stack underflow in function '%s'", funcName)
		if err != nil {
			return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
		}
		return Result{Failure: true, Value: ref}
	}
	top := h.listHead(*fr.Datastack)
	*fr.Datastack = h.listTail(*fr.Datastack)
	return Result{Value: top}
}

// Push conses value onto fr's datastack. value is a live Go local until
// List pins it into its own sub-frame register ahead of its first
// allocation, so Push itself doesn't need (and must not clobber) any of
// fr's registers.
func (h *Heap) Push(fr *Frame, value Ref) Result {
	res := h.List(fr, value, *fr.Datastack)
	if res.Failure {
		return res
	}
	*fr.Datastack = res.Value
	return res
}

// roots calls visit once for every GC-visible root slot in h's frame chain:
// the three registers of every frame, and the three aliased slots
// (Dictionary, Callstack, Datastack) of every frame, each visited exactly
// once even though several frames may alias the same slot (§3.3, §4.3).
func (h *Heap) roots(visit func(*Ref)) {
	seen := make(map[*Ref]bool)
	for fr := h.topFrame; fr != nil; fr = fr.Previous {
		for i := range fr.Registers {
			visit(&fr.Registers[i])
		}
		for _, slot := range []*Ref{fr.Dictionary, fr.Callstack, fr.Datastack} {
			if slot == nil || seen[slot] {
				continue
			}
			seen[slot] = true
			visit(slot)
		}
	}
}
