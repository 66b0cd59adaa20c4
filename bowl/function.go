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

// Function allocates a new function cell referring to the fnIndex-th entry
// of library's function table. library may be Null for primitives that are
// not backed by a loaded native module (§4.7, C7/C8).
func (h *Heap) Function(fr *Frame, library Ref, fnIndex int64) Result {
	sub := NewInheritingFrame(fr)
	h.Link(&sub)
	defer h.Unlink(&sub)
	sub.Registers[0] = library

	res := h.Allocate(&sub, FunctionType, 0)
	if res.Failure {
		return res
	}
	ref := res.Value
	putRef(h.from, ref+offFunctionLibrary, sub.Registers[0])
	putU64(h.from, ref+offFunctionIndex, uint64(fnIndex))
	return Result{Value: ref}
}

func (h *Heap) functionLibrary(ref Ref) Ref {
	return getRef(h.from, ref+offFunctionLibrary)
}

func (h *Heap) functionIndex(ref Ref) int64 {
	return int64(getU64(h.from, ref+offFunctionIndex))
}

// FunctionLibrary returns the library ref a function value was bound
// against, or Null for a primitive with no backing native module.
func (h *Heap) FunctionLibrary(ref Ref) Ref { return h.functionLibrary(ref) }

// FunctionIndex returns the function's index into its library's table.
func (h *Heap) FunctionIndex(ref Ref) int64 { return h.functionIndex(ref) }
