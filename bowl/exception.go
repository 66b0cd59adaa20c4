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

import "fmt"

// Result is the tagged success/exception result used throughout the VM
// API (§4.6, C6; mirrors the original ABI's BowlResult union).
type Result struct {
	Failure bool
	Value   Ref // holds either the success value or the exception value
}

// Exception constructs a new exception cell whose cause may be Null.
func (h *Heap) Exception(fr *Frame, cause, message Ref) Result {
	sub := NewInheritingFrame(fr)
	h.Link(&sub)
	defer h.Unlink(&sub)
	sub.Registers[0] = cause
	sub.Registers[1] = message

	res := h.Allocate(&sub, ExceptionType, 0)
	if res.Failure {
		return res
	}
	ref := res.Value
	putRef(h.from, ref+offExceptionCause, sub.Registers[0])
	putRef(h.from, ref+offExceptionMessage, sub.Registers[1])
	return Result{Value: ref}
}

func (h *Heap) exceptionCause(ref Ref) Ref {
	return getRef(h.from, ref+offExceptionCause)
}

func (h *Heap) exceptionMessage(ref Ref) Ref {
	return getRef(h.from, ref+offExceptionMessage)
}

// FormatException builds a string message via printf-style formatting and
// wraps it in an exception cell whose cause is Null (§4.6). If constructing
// the message or the exception itself runs out of heap, the preallocated
// exceptionOutOfHeap singleton is returned as value with a non-nil error,
// matching "exceptions thrown during exception construction surface the
// preallocated out-of-heap exception".
func (h *Heap) FormatException(fr *Frame, format string, args ...interface{}) (Ref, error) {
	msg := fmt.Sprintf(format, args...)
	sub := NewInheritingFrame(fr)
	h.Link(&sub)
	defer h.Unlink(&sub)

	sres := h.String(&sub, []byte(msg))
	if sres.Failure {
		return h.ExceptionOutOfHeap(), errOutOfHeap
	}
	sub.Registers[0] = sres.Value
	eres := h.Exception(&sub, Null, sub.Registers[0])
	if eres.Failure {
		return h.ExceptionOutOfHeap(), errOutOfHeap
	}
	return eres.Value, nil
}

// Reraise wraps an existing exception with additional outer context,
// forming a cause chain (§4.6). The new exception's cause points to prior.
func (h *Heap) Reraise(fr *Frame, prior Ref, format string, args ...interface{}) Ref {
	msg := fmt.Sprintf(format, args...)
	sub := NewInheritingFrame(fr)
	h.Link(&sub)
	defer h.Unlink(&sub)
	sub.Registers[0] = prior

	sres := h.String(&sub, []byte(msg))
	if sres.Failure {
		return h.ExceptionOutOfHeap()
	}
	sub.Registers[1] = sres.Value
	eres := h.Exception(&sub, sub.Registers[0], sub.Registers[1])
	if eres.Failure {
		return h.ExceptionOutOfHeap()
	}
	return eres.Value
}

var errOutOfHeap = fmt.Errorf("bowl: out of heap while constructing exception")
