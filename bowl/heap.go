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

import (
	"github.com/pkg/errors"

	"github.com/bowl-run/bowl/internal/diag"
)

// defaultHeapSize is the initial size, in bytes, of each of the two
// semi-spaces. It is a power of two, scaled up from typical default stack
// sizes to fit heap-sized data.
const defaultHeapSize = 1 << 16 // 64 KiB

// highWaterMark is the occupancy fraction above which both semi-spaces are
// doubled before the next allocation (§4.1 growth policy).
const highWaterMark = 0.75

// reservedZero is the number of bytes reserved at the start of each
// semi-space so that offset 0 is never a valid cell address and can serve
// as the null Ref.
const reservedZero = 8

// Heap is a two-space copying heap (§4.1, C1). It owns the byte arenas that
// back every Value and drives the collector (§4.3, C3).
type Heap struct {
	from, to []byte // semi-spaces; len(from) == len(to) == size
	size     int
	free     Ref // bump pointer into from; next allocation starts here

	topFrame *Frame // process-wide "current top frame" register (§3.3)

	// staticFrame is a permanent frame at the very bottom of the frame
	// chain (its Previous is always nil and it is linked for the Heap's
	// entire lifetime). Its three registers pin the preallocated
	// singletons named in §6 so that they are rooted like any other
	// reachable value and therefore correctly relocated by the collector,
	// without ever becoming eligible for collection.
	staticFrame Frame

	libraries map[string]Ref // path -> library cell, tracked per §4.7

	insCount int64 // allocations performed, for diagnostics only

	log      diag.Logger
	settings Settings
}

// NewHeap creates a new Heap with two semi-spaces of defaultHeapSize bytes
// each, and preallocates the sentinels named in §6.
func NewHeap() (*Heap, error) {
	return NewHeapSize(defaultHeapSize)
}

// NewHeapSize creates a new Heap whose semi-spaces are each size bytes
// (rounded up to the next power of two, minimum defaultHeapSize).
func NewHeapSize(size int) (*Heap, error) {
	sz := nextPow2(size)
	if sz < defaultHeapSize {
		sz = defaultHeapSize
	}
	h := &Heap{
		from:      make([]byte, sz),
		to:        make([]byte, sz),
		size:      sz,
		free:      reservedZero,
		libraries: make(map[string]Ref),
		log:       diag.Nop{},
	}
	h.topFrame = &h.staticFrame
	if err := h.initSentinels(); err != nil {
		return nil, err
	}
	return h, nil
}

// NewHeapWithOptions creates a heap of defaultHeapSize and applies opts,
// per §6's configuration surface.
func NewHeapWithOptions(opts ...Option) (*Heap, error) {
	h, err := NewHeap()
	if err != nil {
		return nil, err
	}
	if err := h.Configure(opts...); err != nil {
		return nil, err
	}
	return h, nil
}

// SetLogger installs the diagnostic logger used for collector and loader
// lifecycle events (§B.2). A nil logger installs a no-op logger.
func (h *Heap) SetLogger(l diag.Logger) {
	if l == nil {
		l = diag.Nop{}
	}
	h.log = l
}

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// Allocate reserves a new cell of the given type with additional bytes of
// variable-length payload beyond the variant's fixed fields, per §4.1. The
// returned cell is zero-filled through its header (type, location, hash);
// the caller must initialize all variant fields before performing any
// further allocation, since any allocation may trigger a GC that visits
// this cell.
//
// fr is the frame whose roots anchor the allocation; it is consulted only
// if a collection is required.
func (h *Heap) Allocate(fr *Frame, t ValueType, additional int64) Result {
	size := fixedSize(t) + additional
	if ref, ok := h.tryAllocate(size); ok {
		h.initHeader(ref, t)
		return Result{Value: ref}
	}
	h.collect(fr)
	if ref, ok := h.tryAllocate(size); ok {
		h.initHeader(ref, t)
		return Result{Value: ref}
	}
	return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
}

func (h *Heap) tryAllocate(size int64) (Ref, bool) {
	ref := h.free
	end := int64(ref) + size
	if end > int64(h.size) {
		return Null, false
	}
	h.free = Ref(end)
	h.insCount++
	return ref, true
}

func (h *Heap) initHeader(ref Ref, t ValueType) {
	b := h.from
	for i := ref; i < ref+headerSize; i++ {
		b[i] = 0
	}
	b[ref+offType] = byte(t)
}

// fixedSize returns the number of bytes occupied by the header plus a
// variant's fixed-width fields, i.e. byte size before any variable-length
// payload.
func fixedSize(t ValueType) int64 {
	switch t {
	case SymbolType, StringType:
		return offStringBytes
	case LibraryType:
		return offLibraryBytes
	case NumberType:
		return offNumberValue + float64FieldSize
	case BooleanType:
		return offBooleanValue + booleanFieldSize
	case ListType:
		return offListTail + refFieldSize
	case MapType:
		return offMapBuckets
	case FunctionType:
		return offFunctionIndex + fnIndexFieldSize
	case VectorType:
		return offVectorElements
	case ExceptionType:
		return offExceptionMessage + refFieldSize
	default:
		panic(errors.Errorf("bowl: unknown value type %d", t))
	}
}

// occupancy returns the current fraction of a semi-space in use.
func (h *Heap) occupancy() float64 {
	return float64(h.free) / float64(h.size)
}

// InstructionCount returns the number of allocations performed so far, for
// diagnostics, mirroring vm.Instance.InstructionCount.
func (h *Heap) InstructionCount() int64 {
	return h.insCount
}
