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
	"math"
	"testing"

	"github.com/bowl-run/bowl/bowl"
)

// P1: equals(a, b) implies hash(a) == hash(b).
func TestHashEqualsLaw(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	// Each builder pins its first value into fr.Registers[0] before
	// allocating the second, so it stays a GC root across the second
	// allocation instead of sitting in a bare, unrooted Go local.
	builders := []func(){
		func() { fr.Registers[0] = mustString(t, h, &fr, "same"); fr.Registers[1] = mustString(t, h, &fr, "same") },
		func() { fr.Registers[0] = mustNumber(t, h, &fr, 1.5); fr.Registers[1] = mustNumber(t, h, &fr, 1.5) },
		func() {
			fr.Registers[0] = mustNumber(t, h, &fr, math.NaN())
			fr.Registers[1] = mustNumber(t, h, &fr, math.NaN())
		},
		func() {
			fr.Registers[0] = mustNumber(t, h, &fr, 0)
			fr.Registers[1] = mustNumber(t, h, &fr, math.Copysign(0, -1))
		},
		func() {
			fr.Registers[0] = buildList(t, h, &fr, 1, 2, 3)
			fr.Registers[1] = buildList(t, h, &fr, 1, 2, 3)
		},
	}

	for i, build := range builders {
		build()
		a, b := fr.Registers[0], fr.Registers[1]
		if !h.Equals(a, b) {
			t.Fatalf("case %d: expected a and b to be equal", i)
		}
		if h.Hash(a) != h.Hash(b) {
			t.Errorf("case %d: equal values hashed differently (%d vs %d)", i, h.Hash(a), h.Hash(b))
		}
	}
}

// P2, in part: byte_size(v) is positive for a live cell. The lower bound of
// the fixed header size is not checked here.
func TestByteSizeIsPositive(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	// Checked one at a time, right after allocation, rather than collected
	// into a slice literal first: a composite literal's earlier elements
	// would sit in compiler temporaries, not frame registers, while later
	// elements allocate.
	fr.Registers[0] = mustNumber(t, h, &fr, 1)
	if h.ByteSize(fr.Registers[0]) <= 0 {
		t.Errorf("ByteSize(%s) = %d, want > 0", h.Show(fr.Registers[0]), h.ByteSize(fr.Registers[0]))
	}
	fr.Registers[0] = mustString(t, h, &fr, "hello world")
	if h.ByteSize(fr.Registers[0]) <= 0 {
		t.Errorf("ByteSize(%s) = %d, want > 0", h.Show(fr.Registers[0]), h.ByteSize(fr.Registers[0]))
	}
	fr.Registers[0] = buildList(t, h, &fr, 1, 2, 3)
	if h.ByteSize(fr.Registers[0]) <= 0 {
		t.Errorf("ByteSize(%s) = %d, want > 0", h.Show(fr.Registers[0]), h.ByteSize(fr.Registers[0]))
	}
}

func TestCloneSharesLeavesDeepCopiesAggregates(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	leaf := mustNumber(t, h, &fr, 9)
	cloneLeaf := h.Clone(&fr, leaf)
	if cloneLeaf.Failure {
		t.Fatalf("Clone failed: %s", h.Show(cloneLeaf.Value))
	}
	if cloneLeaf.Value != leaf {
		t.Errorf("expected a leaf clone to share the same reference")
	}

	xs := buildList(t, h, &fr, 1, 2, 3)
	cloneList := h.Clone(&fr, xs)
	if cloneList.Failure {
		t.Fatalf("Clone failed: %s", h.Show(cloneList.Value))
	}
	if cloneList.Value == xs {
		t.Errorf("expected a list clone to allocate a new reference")
	}
	if !h.Equals(xs, cloneList.Value) {
		t.Errorf("clone of a list should be equal to the original")
	}
}

func TestShowQuotesAndEscapesStrings(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	s := mustString(t, h, &fr, "line1\nline2\t\"quoted\"\\")
	got := h.Show(s)
	want := `"line1\nline2\t\"quoted\"\\"`
	if got != want {
		t.Errorf("Show = %q, want %q", got, want)
	}
}

func TestAssertTypeRaisesOnMismatch(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	n := mustNumber(t, h, &fr, 1)
	res := h.AssertType(&fr, "double", n, bowl.StringType)
	if !res.Failure {
		t.Fatalf("expected a type-mismatch failure")
	}
	msg := h.Show(res.Value)
	if msg == "" {
		t.Fatalf("expected a non-empty exception message")
	}
}
