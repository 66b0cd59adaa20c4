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

import "math"

// Equals reports whether a and b are equal (§4.2, C2). It short-circuits on
// pointer equality and on a type mismatch, then recurses structurally.
// NaN equals NaN here, unlike IEEE-754 equality, because equality must be
// reflexive for a value to serve as a map key.
func (h *Heap) Equals(a, b Ref) bool {
	return h.equals(a, b)
}

func (h *Heap) equals(a, b Ref) bool {
	if a == b {
		return true
	}
	if a == Null || b == Null {
		return false
	}
	ta, tb := h.Type(a), h.Type(b)
	if ta != tb {
		return false
	}
	switch ta {
	case SymbolType, StringType:
		return string(h.stringBytes(a)) == string(h.stringBytes(b))
	case NumberType:
		na, nb := h.numberValue(a), h.numberValue(b)
		if math.IsNaN(na) && math.IsNaN(nb) {
			return true
		}
		return na == nb
	case BooleanType:
		return h.booleanValue(a) == h.booleanValue(b)
	case ListType:
		return h.listEquals(a, b)
	case VectorType:
		return h.vectorEquals(a, b)
	case MapType:
		return h.mapEquals(a, b)
	case FunctionType, LibraryType:
		return a == b
	case ExceptionType:
		return h.equals(h.exceptionCause(a), h.exceptionCause(b)) &&
			h.equals(h.exceptionMessage(a), h.exceptionMessage(b))
	default:
		return false
	}
}

func (h *Heap) listEquals(a, b Ref) bool {
	for a != Null && b != Null {
		if !h.equals(h.listHead(a), h.listHead(b)) {
			return false
		}
		a, b = h.listTail(a), h.listTail(b)
	}
	return a == Null && b == Null
}

func (h *Heap) vectorEquals(a, b Ref) bool {
	n := h.vectorLength(a)
	if n != h.vectorLength(b) {
		return false
	}
	for i := int64(0); i < n; i++ {
		if !h.equals(h.vectorGet(a, i), h.vectorGet(b, i)) {
			return false
		}
	}
	return true
}

// mapEquals compares maps as sets of entries: equal length and each a
// subset of the other (§4.2).
func (h *Heap) mapEquals(a, b Ref) bool {
	if h.mapLength(a) != h.mapLength(b) {
		return false
	}
	return h.SubsetOf(b, a)
}
