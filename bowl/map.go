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

// DefaultMapCapacity is the bucket count a caller should pass to Map when it
// has no particular starting capacity in mind; it is also the floor used
// when computing a grown capacity (§4.5).
const DefaultMapCapacity = 8

const defaultMapCapacity = DefaultMapCapacity

// mapLoadFactor is the load factor above which put() grows the map.
const mapLoadFactor = 0.75

// Map allocates a new, empty map cell with the given starting bucket
// capacity (bowl_map(stack, capacity) in the native ABI). capacity must be
// at least 1; callers with no particular capacity in mind should pass
// DefaultMapCapacity.
func (h *Heap) Map(fr *Frame, capacity int64) Result {
	return h.newMapCell(fr, capacity)
}

// Each bucket entry is a two-element persistent list [key, value]; buckets
// are themselves persistent lists of such entries. Using ordinary list
// cells for both means an entry or a bucket is a perfectly ordinary value
// (showable, hashable, cloned by the generic list paths) rather than a
// special internal representation.

func (h *Heap) pairEntry(fr *Frame, k, v Ref) Result {
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = k
	w.Registers[1] = v

	inner := h.List(&w, w.Registers[1], Null)
	if inner.Failure {
		return inner
	}
	w.Registers[1] = inner.Value
	return h.List(&w, w.Registers[0], w.Registers[1])
}

func (h *Heap) pairKey(pair Ref) Ref   { return h.listHead(pair) }
func (h *Heap) pairValue(pair Ref) Ref { return h.listHead(h.listTail(pair)) }

func (h *Heap) newMapCell(fr *Frame, capacity int64) Result {
	res := h.Allocate(fr, MapType, capacity*capacityFieldSize)
	if res.Failure {
		return res
	}
	ref := res.Value
	putU64(h.from, ref+offMapLength, 0)
	putU64(h.from, ref+offMapCapacity, uint64(capacity))
	for i := int64(0); i < capacity; i++ {
		putRef(h.from, ref+offMapBuckets+Ref(i*capacityFieldSize), Null)
	}
	return Result{Value: ref}
}

func (h *Heap) mapLength(ref Ref) int64   { return int64(getU64(h.from, ref+offMapLength)) }
func (h *Heap) mapCapacity(ref Ref) int64 { return int64(getU64(h.from, ref+offMapCapacity)) }

func (h *Heap) bucketRef(ref Ref, i int64) Ref {
	return getRef(h.from, ref+offMapBuckets+Ref(i*capacityFieldSize))
}

func (h *Heap) setBucket(ref Ref, i int64, v Ref) {
	putRef(h.from, ref+offMapBuckets+Ref(i*capacityFieldSize), v)
}

func (h *Heap) bucketIndex(key Ref, capacity int64) int64 {
	return int64(h.hash(key) % uint64(capacity))
}

// mapEach visits every (key, value) pair of ref. fn must not allocate,
// since the traversal holds no GC-visible roots of its own; callers that
// need to allocate per entry should instead iterate buckets directly,
// pinning a cursor in a frame register as Put and Merge do.
func (h *Heap) mapEach(ref Ref, fn func(k, v Ref)) {
	capacity := h.mapCapacity(ref)
	for i := int64(0); i < capacity; i++ {
		for cur := h.bucketRef(ref, i); cur != Null; cur = h.listTail(cur) {
			pair := h.listHead(cur)
			fn(h.pairKey(pair), h.pairValue(pair))
		}
	}
}

func (h *Heap) mapGet(ref Ref, key Ref) (Ref, bool) {
	capacity := h.mapCapacity(ref)
	idx := h.bucketIndex(key, capacity)
	for cur := h.bucketRef(ref, idx); cur != Null; cur = h.listTail(cur) {
		pair := h.listHead(cur)
		if h.equals(h.pairKey(pair), key) {
			return h.pairValue(pair), true
		}
	}
	return Null, false
}

func (h *Heap) mapContainsKey(ref Ref, key Ref) bool {
	_, ok := h.mapGet(ref, key)
	return ok
}

// MapLength returns the number of entries in the map at ref.
func (h *Heap) MapLength(ref Ref) int64 { return h.mapLength(ref) }

// ContainsKey reports whether key is bound in the map at ref.
func (h *Heap) ContainsKey(ref, key Ref) bool { return h.mapContainsKey(ref, key) }

// GetOrElse returns the value associated with key in ref, or def if absent.
// Callers may pass the sentinel value as def to distinguish "absent" from
// any value the map can actually hold (§4.5).
func (h *Heap) GetOrElse(ref, key, def Ref) Ref {
	if v, ok := h.mapGet(ref, key); ok {
		return v
	}
	return def
}

// SubsetOf reports whether every entry of sub is present in super with an
// equal value (§4.5).
func (h *Heap) SubsetOf(super, sub Ref) bool {
	if h.mapLength(sub) > h.mapLength(super) {
		return false
	}
	ok := true
	h.mapEach(sub, func(k, v Ref) {
		sv, found := h.mapGet(super, k)
		if !found || !h.equals(sv, v) {
			ok = false
		}
	})
	return ok
}

// Put returns a new map with key bound to value, replacing any existing
// binding (§4.5). Only the bucket touched is rebuilt; every other bucket is
// shared by reference with ref.
func (h *Heap) Put(fr *Frame, ref, key, value Ref) Result {
	if key == Null {
		msg, err := h.FormatException(fr, "map keys must not be null")
		if err != nil {
			return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
		}
		return Result{Failure: true, Value: msg}
	}

	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = ref
	w.Registers[1] = key
	w.Registers[2] = value

	present := h.mapContainsKey(w.Registers[0], w.Registers[1])
	newLength := h.mapLength(w.Registers[0])
	if !present {
		newLength++
	}
	capacity := h.mapCapacity(w.Registers[0])
	if float64(newLength) <= float64(capacity)*mapLoadFactor {
		return h.putSameCapacity(&w, capacity, present)
	}
	grown := int64(nextPow2(int(maxInt64(defaultMapCapacity, newLength*2))))
	return h.putWithRehash(&w, grown)
}

// putSameCapacity rebuilds only the bucket containing w.Registers[1] and
// copies every other bucket pointer unchanged from w.Registers[0].
// w.Registers must hold {map, key, value} on entry.
func (h *Heap) putSameCapacity(w *Frame, capacity int64, present bool) Result {
	idx := h.bucketIndex(w.Registers[1], capacity)
	oldBucket := h.bucketRef(w.Registers[0], idx)

	w2 := NewInheritingFrame(w)
	h.Link(&w2)
	defer h.Unlink(&w2)

	bres := h.rebuildBucketWithPut(&w2, oldBucket, w.Registers[1], w.Registers[2])
	if bres.Failure {
		return bres
	}
	w2.Registers[0] = bres.Value

	mres := h.newMapCell(&w2, capacity)
	if mres.Failure {
		return mres
	}
	newMap := mres.Value
	for i := int64(0); i < capacity; i++ {
		if i == idx {
			h.setBucket(newMap, i, w2.Registers[0])
		} else {
			h.setBucket(newMap, i, h.bucketRef(w.Registers[0], i))
		}
	}
	length := h.mapLength(w.Registers[0])
	if !present {
		length++
	}
	putU64(h.from, newMap+offMapLength, uint64(length))
	return Result{Value: newMap}
}

// rebuildBucketWithPut returns a new bucket list equal to bucket but with
// any existing entry for key removed and (key, value) prepended.
func (h *Heap) rebuildBucketWithPut(fr *Frame, bucket, key, value Ref) Result {
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = key
	w.Registers[1] = value
	w.Registers[2] = Null // accumulator, excluding any existing entry for key

	cursor := bucket
	for cursor != Null {
		pair := h.listHead(cursor)
		next := h.listTail(cursor)
		pk := h.pairKey(pair)
		if h.equals(pk, w.Registers[0]) {
			cursor = next
			continue
		}
		pv := h.pairValue(pair)

		w2 := NewInheritingFrame(&w)
		h.Link(&w2)
		w2.Registers[0] = next
		entryRes := h.pairEntry(&w2, pk, pv)
		if entryRes.Failure {
			h.Unlink(&w2)
			return entryRes
		}
		w2.Registers[1] = entryRes.Value
		consRes := h.List(&w2, w2.Registers[1], w.Registers[2])
		if consRes.Failure {
			h.Unlink(&w2)
			return consRes
		}
		w.Registers[2] = consRes.Value
		cursor = w2.Registers[0]
		h.Unlink(&w2)
	}

	entryRes := h.pairEntry(&w, w.Registers[0], w.Registers[1])
	if entryRes.Failure {
		return entryRes
	}
	w.Registers[0] = entryRes.Value
	return h.List(&w, w.Registers[0], w.Registers[2])
}

// rebuildBucketWithout returns a new bucket list equal to bucket but with
// any entry for key removed, and whether such an entry was found.
func (h *Heap) rebuildBucketWithout(fr *Frame, bucket, key Ref) (Result, bool) {
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = key
	w.Registers[1] = Null // accumulator
	found := false

	cursor := bucket
	for cursor != Null {
		pair := h.listHead(cursor)
		next := h.listTail(cursor)
		pk := h.pairKey(pair)
		if h.equals(pk, w.Registers[0]) {
			found = true
			cursor = next
			continue
		}
		pv := h.pairValue(pair)

		w2 := NewInheritingFrame(&w)
		h.Link(&w2)
		w2.Registers[0] = next
		entryRes := h.pairEntry(&w2, pk, pv)
		if entryRes.Failure {
			h.Unlink(&w2)
			return entryRes, found
		}
		w2.Registers[1] = entryRes.Value
		consRes := h.List(&w2, w2.Registers[1], w.Registers[1])
		if consRes.Failure {
			h.Unlink(&w2)
			return consRes, found
		}
		w.Registers[1] = consRes.Value
		cursor = w2.Registers[0]
		h.Unlink(&w2)
	}
	return Result{Value: w.Registers[1]}, found
}

// putWithRehash builds a fresh map of the given capacity and reinserts
// every entry of w.Registers[0] (skipping any existing entry for
// w.Registers[1]) followed by (w.Registers[1], w.Registers[2]).
func (h *Heap) putWithRehash(fr *Frame, capacity int64) Result {
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = fr.Registers[0]
	w.Registers[1] = fr.Registers[1]
	w.Registers[2] = fr.Registers[2]

	mres := h.newMapCell(&w, capacity)
	if mres.Failure {
		return mres
	}

	w2 := NewInheritingFrame(&w)
	h.Link(&w2)
	defer h.Unlink(&w2)
	w2.Registers[0] = mres.Value // accumulator

	oldCapacity := h.mapCapacity(w.Registers[0])
	for i := int64(0); i < oldCapacity; i++ {
		cursor := h.bucketRef(w.Registers[0], i)
		for cursor != Null {
			pair := h.listHead(cursor)
			next := h.listTail(cursor)
			pk := h.pairKey(pair)
			if h.equals(pk, w.Registers[1]) {
				cursor = next
				continue
			}
			pv := h.pairValue(pair)
			w2.Registers[1] = next
			res := h.insertNoGrow(&w2, w2.Registers[0], pk, pv)
			if res.Failure {
				return res
			}
			w2.Registers[0] = res.Value
			cursor = w2.Registers[1]
		}
	}
	return h.insertNoGrow(&w2, w2.Registers[0], w.Registers[1], w.Registers[2])
}

// insertNoGrow inserts (k, v) into m without changing capacity, used both
// by the common put() path and while rebuilding during a grow.
func (h *Heap) insertNoGrow(fr *Frame, m, k, v Ref) Result {
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = m
	w.Registers[1] = k
	w.Registers[2] = v
	present := h.mapContainsKey(w.Registers[0], w.Registers[1])
	capacity := h.mapCapacity(w.Registers[0])
	return h.putSameCapacity(&w, capacity, present)
}

// Delete returns a new map with key unbound. If key is absent, ref itself
// is returned unchanged (§4.5).
func (h *Heap) Delete(fr *Frame, ref, key Ref) Result {
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = ref
	w.Registers[1] = key

	capacity := h.mapCapacity(w.Registers[0])
	idx := h.bucketIndex(w.Registers[1], capacity)
	oldBucket := h.bucketRef(w.Registers[0], idx)

	bres, found := h.rebuildBucketWithout(&w, oldBucket, w.Registers[1])
	if bres.Failure {
		return bres
	}
	if !found {
		return Result{Value: w.Registers[0]}
	}
	w.Registers[2] = bres.Value

	mres := h.newMapCell(&w, capacity)
	if mres.Failure {
		return mres
	}
	newMap := mres.Value
	for i := int64(0); i < capacity; i++ {
		if i == idx {
			h.setBucket(newMap, i, w.Registers[2])
		} else {
			h.setBucket(newMap, i, h.bucketRef(w.Registers[0], i))
		}
	}
	putU64(h.from, newMap+offMapLength, uint64(h.mapLength(w.Registers[0])-1))
	return Result{Value: newMap}
}

// Merge returns a new map containing every entry of a, then every entry of
// b (so that on overlapping keys, b's value wins; §4.5, Open Question b).
func (h *Heap) Merge(fr *Frame, a, b Ref) Result {
	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)
	w.Registers[0] = a // accumulator
	w.Registers[1] = b // source, rooted for the duration

	capacity := h.mapCapacity(w.Registers[1])
	for i := int64(0); i < capacity; i++ {
		cursor := h.bucketRef(w.Registers[1], i)
		for cursor != Null {
			pair := h.listHead(cursor)
			next := h.listTail(cursor)
			key := h.pairKey(pair)
			value := h.pairValue(pair)
			w.Registers[2] = next
			res := h.Put(&w, w.Registers[0], key, value)
			if res.Failure {
				return res
			}
			w.Registers[0] = res.Value
			cursor = w.Registers[2]
		}
	}
	return Result{Value: w.Registers[0]}
}

func maxInt64(a, b int64) int64 {
	if a > b {
		return a
	}
	return b
}
