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

func mustString(t *testing.T, h *bowl.Heap, fr *bowl.Frame, s string) bowl.Ref {
	t.Helper()
	res := h.String(fr, []byte(s))
	if res.Failure {
		t.Fatalf("String(%q) failed: %s", s, h.Show(res.Value))
	}
	return res.Value
}

// put("a",1), put("b",2), put("a",3): the third put overwrites the first
// rather than growing the map, so the final map holds exactly two entries
// regardless of starting capacity.
func TestMapPutScenario(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	mres := h.Map(&fr, bowl.DefaultMapCapacity)
	if mres.Failure {
		t.Fatalf("Map failed: %s", h.Show(mres.Value))
	}
	m := mres.Value

	w := bowl.NewInheritingFrame(&fr)
	h.Link(&w)
	defer h.Unlink(&w)

	put := func(m bowl.Ref, k string, v float64) bowl.Ref {
		w.Registers[0] = m
		w.Registers[1] = mustString(t, h, &w, k)
		w.Registers[2] = mustNumber(t, h, &w, v)
		res := h.Put(&w, w.Registers[0], w.Registers[1], w.Registers[2])
		if res.Failure {
			t.Fatalf("Put(%q, %v) failed: %s", k, v, h.Show(res.Value))
		}
		return res.Value
	}

	m = put(m, "a", 1)
	m = put(m, "b", 2)
	m = put(m, "a", 3)

	if got := h.MapLength(m); got != 2 {
		t.Fatalf("length = %d, want 2", got)
	}

	sentinel := h.Sentinel()
	w.Registers[0] = m // pinned across the mustString allocations below

	w.Registers[1] = mustString(t, h, &w, "a")
	if got := h.NumberValue(h.GetOrElse(w.Registers[0], w.Registers[1], sentinel)); got != 3 {
		t.Errorf("get(a) = %v, want 3", got)
	}
	w.Registers[1] = mustString(t, h, &w, "b")
	if got := h.NumberValue(h.GetOrElse(w.Registers[0], w.Registers[1], sentinel)); got != 2 {
		t.Errorf("get(b) = %v, want 2", got)
	}
	w.Registers[1] = mustString(t, h, &w, "c")
	if got := h.GetOrElse(w.Registers[0], w.Registers[1], sentinel); got != sentinel {
		t.Errorf("get(c) = %v, want sentinel", got)
	}
}

// A map constructed with a given starting capacity holds entries and
// reports correct length well before growth would kick in, regardless of
// what that starting capacity was.
func TestMapStartsAtRequestedCapacity(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	mres := h.Map(&fr, 4)
	if mres.Failure {
		t.Fatalf("Map failed: %s", h.Show(mres.Value))
	}
	fr.Registers[0] = mres.Value
	fr.Registers[1] = mustString(t, h, &fr, "a")
	fr.Registers[2] = mustNumber(t, h, &fr, 1)

	putRes := h.Put(&fr, fr.Registers[0], fr.Registers[1], fr.Registers[2])
	if putRes.Failure {
		t.Fatalf("Put failed: %s", h.Show(putRes.Value))
	}
	if got := h.MapLength(putRes.Value); got != 1 {
		t.Fatalf("length = %d, want 1", got)
	}
}

// P3: get_or_else(put(m, k, v), k, _) == v.
func TestMapPutGetLaw(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	mres := h.Map(&fr, bowl.DefaultMapCapacity)
	if mres.Failure {
		t.Fatal("Map failed")
	}
	fr.Registers[0] = mres.Value
	fr.Registers[1] = mustString(t, h, &fr, "key")
	fr.Registers[2] = mustNumber(t, h, &fr, 42)

	res := h.Put(&fr, fr.Registers[0], fr.Registers[1], fr.Registers[2])
	if res.Failure {
		t.Fatalf("Put failed: %s", h.Show(res.Value))
	}

	sentinel := h.Sentinel()
	got := h.GetOrElse(res.Value, fr.Registers[1], sentinel)
	if !h.Equals(got, fr.Registers[2]) {
		t.Errorf("get_or_else(put(m,k,v), k, _) = %s, want %s", h.Show(got), h.Show(fr.Registers[2]))
	}
}

// P4: get_or_else(delete(put(m, k, v), k), k, sentinel) == sentinel.
func TestMapPutDeleteLaw(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	sentinel := h.Sentinel()

	mres := h.Map(&fr, bowl.DefaultMapCapacity)
	fr.Registers[0] = mres.Value
	fr.Registers[1] = mustString(t, h, &fr, "key")
	fr.Registers[2] = mustNumber(t, h, &fr, 1)

	putRes := h.Put(&fr, fr.Registers[0], fr.Registers[1], fr.Registers[2])
	if putRes.Failure {
		t.Fatalf("Put failed: %s", h.Show(putRes.Value))
	}
	fr.Registers[0] = putRes.Value

	delRes := h.Delete(&fr, fr.Registers[0], fr.Registers[1])
	if delRes.Failure {
		t.Fatalf("Delete failed: %s", h.Show(delRes.Value))
	}

	got := h.GetOrElse(delRes.Value, fr.Registers[1], sentinel)
	if got != sentinel {
		t.Errorf("get_or_else(delete(put(m,k,v),k), k, sentinel) = %s, want sentinel", h.Show(got))
	}
}

// P5: put(put(m, k, v), k, v) is equal to put(m, k, v) (idempotent put).
func TestMapPutIsIdempotent(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	mres := h.Map(&fr, bowl.DefaultMapCapacity)
	fr.Registers[0] = mres.Value
	fr.Registers[1] = mustString(t, h, &fr, "key")
	fr.Registers[2] = mustNumber(t, h, &fr, 7)

	once := h.Put(&fr, fr.Registers[0], fr.Registers[1], fr.Registers[2])
	if once.Failure {
		t.Fatalf("first Put failed: %s", h.Show(once.Value))
	}
	twice := h.Put(&fr, once.Value, fr.Registers[1], fr.Registers[2])
	if twice.Failure {
		t.Fatalf("second Put failed: %s", h.Show(twice.Value))
	}

	if !h.Equals(once.Value, twice.Value) {
		t.Errorf("put(put(m,k,v),k,v) != put(m,k,v): %s vs %s", h.Show(once.Value), h.Show(twice.Value))
	}
}

// P6: merging maps with disjoint keys sums their lengths and keeps every
// entry retrievable.
func TestMapMergeDisjointKeys(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	w := bowl.NewInheritingFrame(&fr)
	h.Link(&w)
	defer h.Unlink(&w)

	build := func(pairs map[string]float64) bowl.Ref {
		mres := h.Map(&w, bowl.DefaultMapCapacity)
		if mres.Failure {
			t.Fatalf("Map failed: %s", h.Show(mres.Value))
		}
		m := mres.Value
		for k, v := range pairs {
			w.Registers[0] = m
			w.Registers[1] = mustString(t, h, &w, k)
			w.Registers[2] = mustNumber(t, h, &w, v)
			res := h.Put(&w, w.Registers[0], w.Registers[1], w.Registers[2])
			if res.Failure {
				t.Fatalf("Put failed: %s", h.Show(res.Value))
			}
			m = res.Value
		}
		return m
	}

	// build uses all of w's registers as scratch, so each finished map is
	// pinned in fr's registers instead, where the next build cannot
	// overwrite it.
	fr.Registers[0] = build(map[string]float64{"a": 1, "b": 2})
	fr.Registers[1] = build(map[string]float64{"c": 3, "d": 4})
	a, b := fr.Registers[0], fr.Registers[1]

	res := h.Merge(&w, fr.Registers[0], fr.Registers[1])
	if res.Failure {
		t.Fatalf("Merge failed: %s", h.Show(res.Value))
	}
	merged := res.Value

	if got, want := h.MapLength(merged), h.MapLength(a)+h.MapLength(b); got != want {
		t.Errorf("length = %d, want %d", got, want)
	}

	sentinel := h.Sentinel()
	for k, v := range map[string]float64{"a": 1, "b": 2, "c": 3, "d": 4} {
		key := mustString(t, h, &w, k)
		got := h.GetOrElse(merged, key, sentinel)
		if got == sentinel {
			t.Errorf("key %q missing after merge", k)
			continue
		}
		if h.NumberValue(got) != v {
			t.Errorf("merged[%q] = %v, want %v", k, h.NumberValue(got), v)
		}
	}
}

func TestMapSubsetOf(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	fr := bowl.NewEmptyFrame(nil)
	h.Link(&fr)
	defer h.Unlink(&fr)

	mres := h.Map(&fr, bowl.DefaultMapCapacity)
	fr.Registers[0] = mres.Value
	fr.Registers[1] = mustString(t, h, &fr, "a")
	fr.Registers[2] = mustNumber(t, h, &fr, 1)
	res := h.Put(&fr, fr.Registers[0], fr.Registers[1], fr.Registers[2])
	sub := res.Value

	fr.Registers[0] = sub
	fr.Registers[1] = mustString(t, h, &fr, "b")
	fr.Registers[2] = mustNumber(t, h, &fr, 2)
	res = h.Put(&fr, fr.Registers[0], fr.Registers[1], fr.Registers[2])
	super := res.Value

	if !h.SubsetOf(super, sub) {
		t.Errorf("expected sub to be a subset of super")
	}
	if h.SubsetOf(sub, super) {
		t.Errorf("did not expect super to be a subset of sub")
	}
}
