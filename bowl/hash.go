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
	"hash/fnv"
	"math"
)

// hash computes and caches value's content hash (§4.2, C2). A cached
// non-zero hash is returned as-is; a cached zero means "not yet computed",
// never "computed to zero" (the post-compute step below guarantees this).
func (h *Heap) hash(ref Ref) uint64 {
	if ref == Null {
		return emptyListHash
	}
	if cached := h.rawHash(ref); cached != 0 {
		return cached
	}
	v := h.computeHash(ref)
	if v == 0 {
		v = 1
	}
	h.setRawHash(ref, v)
	return v
}

const emptyListHash = 1

func (h *Heap) computeHash(ref Ref) uint64 {
	switch h.Type(ref) {
	case SymbolType, StringType:
		return fnvHash(h.stringBytes(ref))
	case NumberType:
		return hashNumber(h.numberValue(ref))
	case BooleanType:
		if h.booleanValue(ref) {
			return 1
		}
		return 2
	case ListType:
		return h.hashList(ref)
	case VectorType:
		return h.hashVector(ref)
	case MapType:
		return h.hashMap(ref)
	case FunctionType, LibraryType:
		return mix(uint64(ref))
	case ExceptionType:
		return mix(h.hash(h.exceptionCause(ref))) ^ mix(h.hash(h.exceptionMessage(ref)))
	default:
		return 0
	}
}

// fnvHash is the FNV-1a hash named in §4.2 for byte-addressed variants.
func fnvHash(b []byte) uint64 {
	f := fnv.New64a()
	f.Write(b)
	return f.Sum64()
}

// hashNumber canonicalizes the IEEE-754 bit pattern so that NaN hashes to a
// single fixed value and -0 and +0 hash identically, matching equals's
// treatment of the same two cases.
func hashNumber(f float64) uint64 {
	if math.IsNaN(f) {
		return canonicalNaNBits
	}
	if f == 0 {
		f = 0 // canonicalize -0 to +0
	}
	return math.Float64bits(f)
}

const canonicalNaNBits = 0x7ff8000000000001

// mix is an order-sensitive avalanche step used to fold child hashes
// together (splitmix64's finalizer).
func mix(x uint64) uint64 {
	x ^= x >> 30
	x *= 0xbf58476d1ce4e5b9
	x ^= x >> 27
	x *= 0x94d049bb133111eb
	x ^= x >> 31
	return x
}

// hashList order-sensitively folds the hash of every element together with
// length, so that lists of different length never collide trivially.
func (h *Heap) hashList(ref Ref) uint64 {
	acc := mix(uint64(h.listLength(ref)))
	for cur := ref; cur != Null; cur = h.listTail(cur) {
		acc = mix(acc ^ h.hash(h.listHead(cur)))
	}
	return acc
}

func (h *Heap) hashVector(ref Ref) uint64 {
	n := h.vectorLength(ref)
	acc := mix(uint64(n))
	for i := int64(0); i < n; i++ {
		acc = mix(acc ^ h.hash(h.vectorGet(ref, i)))
	}
	return acc
}

// hashMap order-insensitively folds every entry's hash via XOR so that two
// maps with the same entries hash equally regardless of bucket layout or
// insertion order (§4.2). Key and value are combined into one per-entry
// hash before folding into acc, rather than mixed independently, so that
// e.g. {5: 5} doesn't collide with the empty map and {a: 1, b: 2} doesn't
// collide with {a: 2, b: 1}.
func (h *Heap) hashMap(ref Ref) uint64 {
	var acc uint64
	h.mapEach(ref, func(k, v Ref) {
		acc ^= mix(mix(h.hash(k)) ^ h.hash(v))
	})
	return acc
}
