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

import "github.com/pkg/errors"

// The three registers of h.staticFrame pin the singletons preallocated at
// heap construction time (§6): a generic sentinel value, and the two
// exceptions that must always be constructible even when the heap has no
// room left to build one on demand. Because staticFrame is linked for the
// lifetime of the Heap, these registers are ordinary GC roots: the collector
// relocates them like any other reachable value, so holding onto the Ref
// returned by these accessors across an allocation is as safe as holding
// onto any other root.
const (
	sentinelRegister                     = 0
	exceptionOutOfHeapRegister           = 1
	exceptionFinalizationFailureRegister = 2
)

// Sentinel returns the generic preallocated sentinel value used where a
// distinguished non-null, non-exception placeholder is required.
func (h *Heap) Sentinel() Ref {
	return h.staticFrame.Registers[sentinelRegister]
}

// ExceptionOutOfHeap returns the preallocated exception raised when an
// allocation fails and no further exception can itself be constructed
// without allocating.
func (h *Heap) ExceptionOutOfHeap() Ref {
	return h.staticFrame.Registers[exceptionOutOfHeapRegister]
}

// ExceptionFinalizationFailure returns the preallocated library-finalization
// exception (§4.3). Nothing in this package raises it: finalizeLibrary logs
// a failed bowl_module_finalize call or handle close instead.
func (h *Heap) ExceptionFinalizationFailure() Ref {
	return h.staticFrame.Registers[exceptionFinalizationFailureRegister]
}

// initSentinels allocates the three preallocated singletons and pins them in
// h.staticFrame's registers. It runs once, against a freshly constructed,
// nearly-empty heap, so the allocations below are not expected to ever need
// a collection; if they somehow fail, the heap's initial size is too small
// to be usable at all and construction fails outright rather than returning
// a Heap whose own out-of-heap exception does not exist yet.
func (h *Heap) initSentinels() error {
	fr := NewInheritingFrame(&h.staticFrame)
	h.Link(&fr)
	defer h.Unlink(&fr)

	sentinelRes := h.Allocate(&fr, SymbolType, 0)
	if sentinelRes.Failure {
		return errBootstrap
	}
	h.staticFrame.Registers[sentinelRegister] = sentinelRes.Value

	outOfHeapRef, err := h.bootstrapException("out of heap")
	if err != nil {
		return err
	}
	h.staticFrame.Registers[exceptionOutOfHeapRegister] = outOfHeapRef

	finalizationRef, err := h.bootstrapException("library finalization failed")
	if err != nil {
		return err
	}
	h.staticFrame.Registers[exceptionFinalizationFailureRegister] = finalizationRef

	return nil
}

// bootstrapException builds a message string and wraps it in a causeless
// exception, exactly like FormatException, but without relying on the
// exceptionOutOfHeap singleton that does not exist yet during bootstrap.
func (h *Heap) bootstrapException(message string) (Ref, error) {
	fr := NewInheritingFrame(&h.staticFrame)
	h.Link(&fr)
	defer h.Unlink(&fr)

	sres := h.String(&fr, []byte(message))
	if sres.Failure {
		return Null, errBootstrap
	}
	fr.Registers[0] = sres.Value

	eres := h.Exception(&fr, Null, fr.Registers[0])
	if eres.Failure {
		return Null, errBootstrap
	}
	return eres.Value, nil
}

var errBootstrap = errors.New("bowl: heap too small to preallocate sentinels")
