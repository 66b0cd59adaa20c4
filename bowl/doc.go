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

// Package bowl implements the runtime core of the Bowl virtual machine: a
// tagged, heap-allocated value model, a relocating (Cheney-style) garbage
// collector, the frame-chain protocol that lets native primitives cooperate
// with the collector, persistent list/map/vector containers, and the native
// module loader.
//
// The VM is single-threaded and cooperative. Host applications that need
// concurrency should run one Heap per goroutine/thread; nothing in this
// package synchronizes access to a single Heap.
//
// Everything a primitive needs flows through a *Frame: arguments are popped
// from the datastack named in the frame, results are constructed through the
// Heap reachable from that frame, and results are pushed back onto the
// datastack. A primitive never holds a bare Ref across a call that can
// allocate without first pinning it in a frame register or a already-linked
// value (see Heap.Link and the package-level documentation on Ref).
package bowl
