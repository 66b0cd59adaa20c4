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
	"strings"
	"testing"

	"github.com/bowl-run/bowl/bowl"
)

// S3: push "hello" onto the datastack, pop it, push 5.0; the datastack
// should end up holding a single value, 5.0.
func TestPushPopScenario(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	var datastack bowl.Ref
	fr := bowl.NewEmptyFrame(nil)
	fr.Datastack = &datastack
	h.Link(&fr)
	defer h.Unlink(&fr)

	fr.Registers[0] = mustString(t, h, &fr, "hello")
	if res := h.Push(&fr, fr.Registers[0]); res.Failure {
		t.Fatalf("Push failed: %s", h.Show(res.Value))
	}

	pop := h.Pop(&fr, "test")
	if pop.Failure {
		t.Fatalf("Pop failed: %s", h.Show(pop.Value))
	}
	if !h.Equals(pop.Value, fr.Registers[0]) {
		t.Fatalf("popped %s, want %q", h.Show(pop.Value), "hello")
	}

	fr.Registers[0] = mustNumber(t, h, &fr, 5.0)
	if res := h.Push(&fr, fr.Registers[0]); res.Failure {
		t.Fatalf("Push failed: %s", h.Show(res.Value))
	}

	if got := h.ListLength(datastack); got != 1 {
		t.Fatalf("datastack length = %d, want 1", got)
	}
	if got := h.NumberValue(h.ListHead(datastack)); got != 5.0 {
		t.Fatalf("datastack top = %v, want 5.0", got)
	}
}

// S6: popping from an empty datastack raises an exception naming the
// calling function.
func TestPopFromEmptyStackRaises(t *testing.T) {
	h, err := bowl.NewHeap()
	if err != nil {
		t.Fatal(err)
	}
	var datastack bowl.Ref
	fr := bowl.NewEmptyFrame(nil)
	fr.Datastack = &datastack
	h.Link(&fr)
	defer h.Unlink(&fr)

	res := h.Pop(&fr, "my-primitive")
	if !res.Failure {
		t.Fatalf("expected failure popping from an empty stack")
	}
	msg := h.Show(res.Value)
	if !strings.Contains(msg, "my-primitive") {
		t.Fatalf("exception message %q does not name the primitive", msg)
	}
}
