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

// Ref is a reference to a value cell: a byte offset into the current
// from-space of a Heap. The zero Ref is the null reference; it represents
// both the empty list and the "no value" case for nullable fields (a
// library-less function, an exception without a cause). No live cell is
// ever allocated at offset 0.
type Ref int64

// Null is the null reference.
const Null Ref = 0

// ValueType discriminates the ten value variants.
type ValueType uint8

const (
	SymbolType ValueType = iota
	ListType
	FunctionType
	MapType
	BooleanType
	NumberType
	StringType
	LibraryType
	VectorType
	ExceptionType
)

func (t ValueType) String() string {
	switch t {
	case SymbolType:
		return "symbol"
	case ListType:
		return "list"
	case FunctionType:
		return "function"
	case MapType:
		return "map"
	case BooleanType:
		return "boolean"
	case NumberType:
		return "number"
	case StringType:
		return "string"
	case LibraryType:
		return "library"
	case VectorType:
		return "vector"
	case ExceptionType:
		return "exception"
	default:
		return "unknown"
	}
}

// headerSize is the size, in bytes, of the three fields common to every
// cell: type (1 byte, padded to 8 for alignment with the fields that
// follow), location (8 bytes) and hash (8 bytes).
const headerSize = 24

const (
	offType     = 0
	offLocation = 8
	offHash     = 16
	offPayload  = headerSize
)

// fixed per-variant field sizes, in bytes, following the header.
const (
	lengthFieldSize   = 8
	refFieldSize      = 8
	float64FieldSize  = 8
	booleanFieldSize  = 1
	handleFieldSize   = 8
	fnIndexFieldSize  = 8
	capacityFieldSize = 8
)

// Symbol/String layout: length(8) + bytes[length]
const (
	offStringLength = offPayload
	offStringBytes  = offPayload + lengthFieldSize
)

// Library layout: handle(8) + length(8) + bytes[length]
const (
	offLibraryHandle = offPayload
	offLibraryLength = offPayload + handleFieldSize
	offLibraryBytes  = offPayload + handleFieldSize + lengthFieldSize
)

// Number layout: value(8)
const offNumberValue = offPayload

// Boolean layout: value(1)
const offBooleanValue = offPayload

// List layout: length(8) + head(8) + tail(8)
const (
	offListLength = offPayload
	offListHead   = offPayload + lengthFieldSize
	offListTail   = offPayload + lengthFieldSize + refFieldSize
)

// Map layout: length(8) + capacity(8) + buckets[capacity](8 each)
const (
	offMapLength   = offPayload
	offMapCapacity = offPayload + lengthFieldSize
	offMapBuckets  = offPayload + lengthFieldSize + capacityFieldSize
)

// Function layout: library(8) + fnIndex(8)
const (
	offFunctionLibrary = offPayload
	offFunctionIndex   = offPayload + refFieldSize
)

// Vector layout: length(8) + elements[length](8 each)
const (
	offVectorLength   = offPayload
	offVectorElements = offPayload + lengthFieldSize
)

// Exception layout: cause(8) + message(8)
const (
	offExceptionCause   = offPayload
	offExceptionMessage = offPayload + refFieldSize
)

// typeName mirrors the original ABI's bowl_type_name: a string for a type,
// independent of any particular value.
func typeName(t ValueType) string {
	return t.String()
}

// newTypeMismatch constructs the formatted exception §4.6/§7.3 requires for
// illegal-argument-type errors: function name, expected type, observed type.
func (h *Heap) newTypeMismatch(fr *Frame, funcName string, value Ref, expected ValueType) (Ref, error) {
	observed := "list"
	if value != Null {
		observed = h.Type(value).String()
	}
	return h.FormatException(fr, "argument of illegal type '%s' in function '%s' (expected type '%s')", observed, funcName, expected)
}

// AssertType raises a formatted exception (via the returned Result) unless
// value has the expected type. The empty list (Null) is considered to have
// ListType, matching §3.1 ("The empty list is represented as the null
// reference").
func (h *Heap) AssertType(fr *Frame, funcName string, value Ref, expected ValueType) Result {
	if value == Null {
		if expected == ListType {
			return Result{Value: value}
		}
	} else if h.Type(value) == expected {
		return Result{Value: value}
	}
	ref, err := h.newTypeMismatch(fr, funcName, value, expected)
	if err != nil {
		return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
	}
	return Result{Failure: true, Value: ref}
}

// Type returns the type of a non-null value. Calling Type on Null is a
// programming error (use the ListType convention for the empty list
// explicitly where needed); it is guarded with a panic so that misuse is
// caught close to its source, rather than silently returning a bogus type
// that compounds the bug downstream.
func (h *Heap) Type(ref Ref) ValueType {
	if ref == Null {
		panic(errors.New("bowl: Type called on the null reference"))
	}
	return ValueType(h.from[ref+offType])
}

// location returns the forwarding field of ref's cell in the from-space.
func (h *Heap) location(ref Ref) Ref {
	return Ref(getU64(h.from, ref+offLocation))
}

func (h *Heap) setLocation(ref Ref, loc Ref) {
	putU64(h.from, ref+offLocation, uint64(loc))
}

// Hash returns the cached hash of value, computing and caching it if
// necessary. See hash.go for the algorithm (§4.2).
func (h *Heap) Hash(ref Ref) uint64 {
	return h.hash(ref)
}

func (h *Heap) rawHash(ref Ref) uint64 {
	return getU64(h.from, ref+offHash)
}

func (h *Heap) setRawHash(ref Ref, v uint64) {
	putU64(h.from, ref+offHash, v)
}

// ByteSize returns the total number of bytes occupied by value's cell,
// including its header. This is the number of bytes the collector copies
// when it relocates the cell (§4.2, P2).
func (h *Heap) ByteSize(ref Ref) int64 {
	if ref == Null {
		return 0
	}
	switch h.Type(ref) {
	case SymbolType, StringType:
		return offStringBytes + h.stringLength(ref)
	case LibraryType:
		return offLibraryBytes + h.libraryNameLength(ref)
	case NumberType:
		return offNumberValue + float64FieldSize
	case BooleanType:
		return offBooleanValue + booleanFieldSize
	case ListType:
		return offListTail + refFieldSize
	case MapType:
		return offMapBuckets + h.mapCapacity(ref)*capacityFieldSize
	case FunctionType:
		return offFunctionIndex + fnIndexFieldSize
	case VectorType:
		return offVectorElements + h.vectorLength(ref)*refFieldSize
	case ExceptionType:
		return offExceptionMessage + refFieldSize
	default:
		panic(errors.Errorf("bowl: unknown value type %d at %d", h.Type(ref), ref))
	}
}

func getU64(b []byte, off Ref) uint64 {
	return uint64(b[off]) | uint64(b[off+1])<<8 | uint64(b[off+2])<<16 | uint64(b[off+3])<<24 |
		uint64(b[off+4])<<32 | uint64(b[off+5])<<40 | uint64(b[off+6])<<48 | uint64(b[off+7])<<56
}

func putU64(b []byte, off Ref, v uint64) {
	b[off] = byte(v)
	b[off+1] = byte(v >> 8)
	b[off+2] = byte(v >> 16)
	b[off+3] = byte(v >> 24)
	b[off+4] = byte(v >> 32)
	b[off+5] = byte(v >> 40)
	b[off+6] = byte(v >> 48)
	b[off+7] = byte(v >> 56)
}

func getRef(b []byte, off Ref) Ref   { return Ref(getU64(b, off)) }
func putRef(b []byte, off Ref, r Ref) { putU64(b, off, uint64(r)) }
