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

package bowl_test

import (
	"testing"

	"github.com/bowl-run/bowl/bowl"
)

func mustNumber(t *testing.T, h *bowl.Heap, fr *bowl.Frame, f float64) bowl.Ref {
	t.Helper()
	res := h.Number(fr, f)
	if res.Failure {
		t.Fatalf("Number(%v) failed: %s", f, h.Show(res.Value))
	}
	return res.Value
}

func buildList(t *testing.T, h *bowl.Heap, fr *bowl.Frame, values ...float64) bowl.Ref {
	t.Helper()
	w := bowl.NewInheritingFrame(fr)
	h.Link(&w)
	defer h.Unlink(&w)

	w.Registers[0] = bowl.Null
	for i := len(values) - 1; i >= 0; i-- {
		w.Registers[1] = mustNumber(t, h, &w, values[i])
		res := h.List(&w, w.Registers[1], w.Registers[0])
		if res.Failure {
			t.Fatalf("List failed: %s", h.Show(res.Value))
		}
		w.Registers[0] = res.Value
	}
	return w.Registers[0]
}

// S1: build [1, 2, 3], reverse it, and check element order.
func TestListReverseScenario(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	xs := buildList(t, h, &fr, 1, 2, 3)
	res := h.Reverse(&fr, xs)
	if res.Failure {
		t.Fatalf("Reverse failed: %s", h.Show(res.Value))
	}
	ys := res.Value

	if got := h.NumberValue(h.ListHead(ys)); got != 3 {
		t.Errorf("head = %v, want 3", got)
	}
	ys = h.ListTail(ys)
	if got := h.NumberValue(h.ListHead(ys)); got != 2 {
		t.Errorf("second = %v, want 2", got)
	}
	ys = h.ListTail(ys)
	if got := h.NumberValue(h.ListHead(ys)); got != 1 {
		t.Errorf("third = %v, want 1", got)
	}
	if tail := h.ListTail(ys); tail != bowl.Null {
		t.Errorf("tail = %v, want Null", tail)
	}
}

// P7: reverse(reverse(xs)) == xs, and both have the same length.
func TestListReverseIsInvolution(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	xs := buildList(t, h, &fr, 10, 20, 30, 40)
	once := h.Reverse(&fr, xs)
	if once.Failure {
		t.Fatalf("first Reverse failed: %s", h.Show(once.Value))
	}
	twice := h.Reverse(&fr, once.Value)
	if twice.Failure {
		t.Fatalf("second Reverse failed: %s", h.Show(twice.Value))
	}

	if !h.Equals(xs, twice.Value) {
		t.Errorf("reverse(reverse(xs)) != xs: %s vs %s", h.Show(xs), h.Show(twice.Value))
	}
	if h.ListLength(xs) != h.ListLength(twice.Value) {
		t.Errorf("length changed across double reverse")
	}
}

func TestListLengthIsIncremental(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	xs := buildList(t, h, &fr, 1, 2, 3, 4, 5)
	if got := h.ListLength(xs); got != 5 {
		t.Errorf("length = %d, want 5", got)
	}
	if h.ListLength(bowl.Null) != 0 {
		t.Errorf("length of empty list should be 0")
	}
}
