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
	"encoding/binary"
	"io"
	"math"
	"os"

	"github.com/pkg/errors"
)

// A boot image is an opaque blob to everything outside the core (§6); the
// core's own half of the contract is turning that blob into a value graph
// once the external loader hands it over as bytes. The wire format below is
// a simple tagged stream: one byte per node naming its variant, followed by
// that variant's own encoding, with list/vector/map nodes recursively
// containing their children depth-first. It is deliberately far simpler
// than the heap's own in-memory cell layout; the two are not required to
// match.
const (
	imageTagNull    = 0
	imageTagSymbol  = 1
	imageTagString  = 2
	imageTagNumber  = 3
	imageTagBoolean = 4
	imageTagList    = 5
	imageTagVector  = 6
	imageTagMap     = 7
)

// LoadBootImage reads fileName and reconstructs the value graph it encodes
// (§6, "Persisted state").
func (h *Heap) LoadBootImage(fr *Frame, fileName string) Result {
	f, err := os.Open(fileName)
	if err != nil {
		msg, ferr := h.FormatException(fr, "failed to open boot image %q: %v", fileName, err)
		if ferr != nil {
			return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
		}
		return Result{Failure: true, Value: msg}
	}
	defer f.Close()
	return h.decodeImageValue(fr, f)
}

// SaveBootImage writes v's value graph to fileName in the boot image wire
// format. The encoder writes through an errWriter so the many small
// tag/length/payload writes that make up a node only need one error check
// at the end instead of one after each call.
func (h *Heap) SaveBootImage(v Ref, fileName string) error {
	f, err := os.Create(fileName)
	if err != nil {
		return errors.Wrap(err, "SaveBootImage")
	}
	defer f.Close()
	ew := newErrWriter(f)
	h.encodeImageValue(ew, v)
	if ew.err != nil {
		return errors.Wrap(ew.err, "SaveBootImage")
	}
	return nil
}

func (h *Heap) decodeImageValue(fr *Frame, r io.Reader) Result {
	var tag [1]byte
	if _, err := io.ReadFull(r, tag[:]); err != nil {
		msg, ferr := h.FormatException(fr, "truncated boot image: %v", err)
		if ferr != nil {
			return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
		}
		return Result{Failure: true, Value: msg}
	}

	switch tag[0] {
	case imageTagNull:
		return Result{Value: Null}
	case imageTagSymbol, imageTagString:
		b, err := readImageBytes(r)
		if err != nil {
			return h.imageReadError(fr, err)
		}
		if tag[0] == imageTagSymbol {
			return h.Symbol(fr, b)
		}
		return h.String(fr, b)
	case imageTagNumber:
		var bits uint64
		if err := binary.Read(r, binary.LittleEndian, &bits); err != nil {
			return h.imageReadError(fr, err)
		}
		return h.Number(fr, math.Float64frombits(bits))
	case imageTagBoolean:
		var b [1]byte
		if _, err := io.ReadFull(r, b[:]); err != nil {
			return h.imageReadError(fr, err)
		}
		return h.Boolean(fr, b[0] != 0)
	case imageTagList:
		return h.decodeImageList(fr, r)
	case imageTagVector:
		return h.decodeImageVector(fr, r)
	case imageTagMap:
		return h.decodeImageMap(fr, r)
	default:
		return h.imageReadError(fr, errors.Errorf("unknown boot image tag %d", tag[0]))
	}
}

func (h *Heap) imageReadError(fr *Frame, cause error) Result {
	msg, err := h.FormatException(fr, "boot image decode failed: %v", cause)
	if err != nil {
		return Result{Failure: true, Value: h.ExceptionOutOfHeap()}
	}
	return Result{Failure: true, Value: msg}
}

func (h *Heap) decodeImageList(fr *Frame, r io.Reader) Result {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return h.imageReadError(fr, err)
	}

	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)

	// Decode-and-cons one element at a time with the accumulator pinned in
	// a register: a plain []Ref buffer of decoded elements would be
	// invisible to Heap.roots and left dangling by a collection triggered
	// partway through decoding later elements. Consing onto the front as
	// each element arrives builds the list in reverse; Reverse at the end
	// restores the original order.
	w.Registers[0] = Null
	for i := uint64(0); i < n; i++ {
		res := h.decodeImageValue(&w, r)
		if res.Failure {
			return res
		}
		w.Registers[1] = res.Value
		consRes := h.List(&w, w.Registers[1], w.Registers[0])
		if consRes.Failure {
			return consRes
		}
		w.Registers[0] = consRes.Value
	}
	return h.Reverse(&w, w.Registers[0])
}

func (h *Heap) decodeImageVector(fr *Frame, r io.Reader) Result {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return h.imageReadError(fr, err)
	}

	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)

	res := h.Vector(&w, int64(n), Null)
	if res.Failure {
		return res
	}
	w.Registers[0] = res.Value
	for i := uint64(0); i < n; i++ {
		elemRes := h.decodeImageValue(&w, r)
		if elemRes.Failure {
			return elemRes
		}
		h.vectorSet(w.Registers[0], int64(i), elemRes.Value)
	}
	return Result{Value: w.Registers[0]}
}

func (h *Heap) decodeImageMap(fr *Frame, r io.Reader) Result {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return h.imageReadError(fr, err)
	}

	w := NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)

	res := h.Map(&w, defaultMapCapacity)
	if res.Failure {
		return res
	}
	w.Registers[0] = res.Value
	for i := uint64(0); i < n; i++ {
		kRes := h.decodeImageValue(&w, r)
		if kRes.Failure {
			return kRes
		}
		w.Registers[1] = kRes.Value
		vRes := h.decodeImageValue(&w, r)
		if vRes.Failure {
			return vRes
		}
		putRes := h.Put(&w, w.Registers[0], w.Registers[1], vRes.Value)
		if putRes.Failure {
			return putRes
		}
		w.Registers[0] = putRes.Value
	}
	return Result{Value: w.Registers[0]}
}

func readImageBytes(r io.Reader) ([]byte, error) {
	var n uint64
	if err := binary.Read(r, binary.LittleEndian, &n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, err
	}
	return b, nil
}

func (h *Heap) encodeImageValue(w *errWriter, v Ref) {
	if v == Null {
		w.Write([]byte{imageTagNull})
		return
	}
	switch h.Type(v) {
	case SymbolType:
		writeImageTagged(w, imageTagSymbol, h.stringBytes(v))
	case StringType:
		writeImageTagged(w, imageTagString, h.stringBytes(v))
	case NumberType:
		w.Write([]byte{imageTagNumber})
		binary.Write(w, binary.LittleEndian, math.Float64bits(h.numberValue(v)))
	case BooleanType:
		var b byte
		if h.booleanValue(v) {
			b = 1
		}
		w.Write([]byte{imageTagBoolean, b})
	case ListType:
		h.encodeImageList(w, v)
	case VectorType:
		h.encodeImageVector(w, v)
	case MapType:
		h.encodeImageMap(w, v)
	default:
		if w.err == nil {
			w.err = errors.Errorf("value of type %s cannot appear in a boot image", h.Type(v))
		}
	}
}

func (h *Heap) encodeImageList(w *errWriter, v Ref) {
	w.Write([]byte{imageTagList})
	binary.Write(w, binary.LittleEndian, uint64(h.listLength(v)))
	for cur := v; cur != Null && w.err == nil; cur = h.listTail(cur) {
		h.encodeImageValue(w, h.listHead(cur))
	}
}

func (h *Heap) encodeImageVector(w *errWriter, v Ref) {
	w.Write([]byte{imageTagVector})
	n := h.vectorLength(v)
	binary.Write(w, binary.LittleEndian, uint64(n))
	for i := int64(0); i < n && w.err == nil; i++ {
		h.encodeImageValue(w, h.vectorGet(v, i))
	}
}

func (h *Heap) encodeImageMap(w *errWriter, v Ref) {
	w.Write([]byte{imageTagMap})
	binary.Write(w, binary.LittleEndian, uint64(h.mapLength(v)))
	h.mapEach(v, func(k, val Ref) {
		if w.err != nil {
			return
		}
		h.encodeImageValue(w, k)
		h.encodeImageValue(w, val)
	})
}

func writeImageTagged(w *errWriter, tag byte, b []byte) {
	w.Write([]byte{tag})
	binary.Write(w, binary.LittleEndian, uint64(len(b)))
	w.Write(b)
}
