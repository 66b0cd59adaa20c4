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

// Number allocates a new number cell holding f.
func (h *Heap) Number(fr *Frame, f float64) Result {
	res := h.Allocate(fr, NumberType, 0)
	if res.Failure {
		return res
	}
	ref := res.Value
	putU64(h.from, ref+offNumberValue, math.Float64bits(f))
	return Result{Value: ref}
}

func (h *Heap) numberValue(ref Ref) float64 {
	return math.Float64frombits(getU64(h.from, ref+offNumberValue))
}

// Boolean allocates a new boolean cell holding b.
func (h *Heap) Boolean(fr *Frame, b bool) Result {
	res := h.Allocate(fr, BooleanType, 0)
	if res.Failure {
		return res
	}
	ref := res.Value
	var v byte
	if b {
		v = 1
	}
	h.from[ref+offBooleanValue] = v
	return Result{Value: ref}
}

func (h *Heap) booleanValue(ref Ref) bool {
	return h.from[ref+offBooleanValue] != 0
}

// NumberValue returns the float64 held by the number cell at ref.
func (h *Heap) NumberValue(ref Ref) float64 { return h.numberValue(ref) }

// BooleanValue returns the bool held by the boolean cell at ref.
func (h *Heap) BooleanValue(ref Ref) bool { return h.booleanValue(ref) }
