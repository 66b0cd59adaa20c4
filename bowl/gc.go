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

// Collect forces a collection, matching the explicit collect_garbage
// primitive named in §4.3.
func (h *Heap) Collect(fr *Frame) {
	h.collect(fr)
}

// collect implements the classic Cheney-style two-space copy (§4.3).
//
// h.from holds the live set on entry; h.to is the empty destination.
// Copying happens into h.to at the byte-array level while h.from's cells
// keep their original bytes intact except for the location field, which is
// overwritten in place to record each cell's forwarding address. Only once
// every reachable cell has been copied and scanned do h.from and h.to swap
// roles.
func (h *Heap) collect(fr *Frame) {
	type libEntry struct {
		path   string
		oldRef Ref
	}
	snapshot := make([]libEntry, 0, len(h.libraries))
	for path, ref := range h.libraries {
		snapshot = append(snapshot, libEntry{path, ref})
	}

	toFree := Ref(reservedZero)
	forwardRoot := func(root *Ref) {
		*root = h.forward(&toFree, *root)
	}
	h.roots(forwardRoot)

	for scan := Ref(reservedZero); scan < toFree; {
		size := h.scanCellSize(scan)
		h.scanCell(scan, &toFree)
		scan += size
	}

	for _, e := range snapshot {
		if loc := h.location(e.oldRef); loc != Null {
			h.libraries[e.path] = loc
		} else {
			h.finalizeLibrary(e.path, e.oldRef)
			delete(h.libraries, e.path)
		}
	}

	h.from, h.to = h.to, h.from
	h.free = toFree

	h.growIfNeeded()

	h.log.Debugf("gc: collection complete, occupancy=%.2f", h.occupancy())
}

// forward resolves ref to its new address, copying the cell into h.to (and
// bumping *toFree) the first time it is seen, per §4.3 step 4. The cell's
// type, used to compute its size, is read from the *old* location in
// h.from, which is never itself overwritten by this pass except for the
// location field — so reading it remains valid for every cell not yet
// forwarded, and forwarded cells skip straight to the cached address.
func (h *Heap) forward(toFree *Ref, ref Ref) Ref {
	if ref == Null {
		return Null
	}
	if loc := h.location(ref); loc != Null {
		return loc
	}
	size := h.ByteSize(ref)
	dst := *toFree
	copy(h.to[dst:dst+Ref(size)], h.from[ref:ref+Ref(size)])
	h.setLocation(ref, dst)
	*toFree = dst + Ref(size)
	return dst
}

// scanCellSize returns the byte size of the cell currently sitting at
// offset scan within h.to, reading its type tag directly (ByteSize itself
// always reads from h.from, which no longer describes this cell once it
// has been copied, so the variant-length fields — already copied
// verbatim — are read from h.to here instead).
func (h *Heap) scanCellSize(scan Ref) Ref {
	t := ValueType(h.to[scan+offType])
	switch t {
	case SymbolType, StringType:
		return offStringBytes + Ref(getU64(h.to, scan+offStringLength))
	case LibraryType:
		return offLibraryBytes + Ref(getU64(h.to, scan+offLibraryLength))
	case NumberType:
		return offNumberValue + float64FieldSize
	case BooleanType:
		return offBooleanValue + booleanFieldSize
	case ListType:
		return offListTail + refFieldSize
	case MapType:
		return offMapBuckets + Ref(getU64(h.to, scan+offMapCapacity))*capacityFieldSize
	case FunctionType:
		return offFunctionIndex + fnIndexFieldSize
	case VectorType:
		return offVectorElements + Ref(getU64(h.to, scan+offVectorLength))*refFieldSize
	case ExceptionType:
		return offExceptionMessage + refFieldSize
	default:
		panic("bowl: unknown value type during collection scan")
	}
}

// scanCell forwards every reference-typed field of the cell at offset scan
// within h.to, per §4.3 step 3.
func (h *Heap) scanCell(scan Ref, toFree *Ref) {
	t := ValueType(h.to[scan+offType])
	switch t {
	case ListType:
		h.forwardField(toFree, scan+offListHead)
		h.forwardField(toFree, scan+offListTail)
	case MapType:
		capacity := Ref(getU64(h.to, scan+offMapCapacity))
		for i := Ref(0); i < capacity; i++ {
			h.forwardField(toFree, scan+offMapBuckets+i*capacityFieldSize)
		}
	case FunctionType:
		h.forwardField(toFree, scan+offFunctionLibrary)
	case VectorType:
		n := Ref(getU64(h.to, scan+offVectorLength))
		for i := Ref(0); i < n; i++ {
			h.forwardField(toFree, scan+offVectorElements+i*refFieldSize)
		}
	case ExceptionType:
		h.forwardField(toFree, scan+offExceptionCause)
		h.forwardField(toFree, scan+offExceptionMessage)
	}
}

func (h *Heap) forwardField(toFree *Ref, fieldOffset Ref) {
	ref := getRef(h.to, fieldOffset)
	putRef(h.to, fieldOffset, h.forward(toFree, ref))
}

// growIfNeeded doubles both semi-spaces when post-collection occupancy
// exceeds highWaterMark (§4.1).
func (h *Heap) growIfNeeded() {
	if h.occupancy() <= highWaterMark {
		return
	}
	newSize := h.size * 2
	newFrom := make([]byte, newSize)
	copy(newFrom, h.from[:h.free])
	h.from = newFrom
	h.to = make([]byte, newSize)
	h.size = newSize
}
