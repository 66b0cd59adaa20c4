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

// Tokenizer maps a source string value to a list of token values. The
// surface parser/tokenizer itself is an external collaborator (§1); the
// core only needs to know how to ask one to turn text into a list it can
// push onto a datastack.
type Tokenizer interface {
	Tokenize(h *Heap, fr *Frame, source Ref) Result
}

// LoadSource asks tok to tokenize source and pushes the resulting token
// list onto fr's datastack. This is the hand-off point between the surface
// tokenizer and whatever reads from the datastack afterward; the core
// neither implements nor invokes tokenization itself, it only owns this one
// entry point for a collaborator's result to cross into.
func (h *Heap) LoadSource(fr *Frame, tok Tokenizer, source Ref) Result {
	res := tok.Tokenize(h, fr, source)
	if res.Failure {
		return res
	}
	return h.Push(fr, res.Value)
}
