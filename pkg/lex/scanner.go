// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package lex

// Scanner is a function which reports how many leading items of its input it
// accepts, or zero if it does not match at all.  Adapted from
// pkg/util/source/lex.Scanner in the teacher package, specialised to operate
// over bytes since spec.md's spans are byte offsets (rather than runes).
type Scanner func(items []byte) uint

// And combines zero or more scanners such that the resulting scanner succeeds
// only if every one of them matches a prefix of the same input; it accepts
// the longest of those prefixes.
func And(scanners ...Scanner) Scanner {
	return func(items []byte) uint {
		n := uint(0)

		for _, scanner := range scanners {
			m := scanner(items)
			if m == 0 {
				return 0
			}

			n = max(n, m)
		}

		return n
	}
}

// Or combines zero or more scanners such that the resulting scanner succeeds
// if any of them succeeds, tried left to right.
func Or(scanners ...Scanner) Scanner {
	return func(items []byte) uint {
		for _, scanner := range scanners {
			if n := scanner(items); n > 0 {
				return n
			}
		}

		return 0
	}
}

// Unit matches a fixed sequence of bytes exactly.
func Unit(chars ...byte) Scanner {
	return func(items []byte) uint {
		if len(items) < len(chars) {
			return 0
		}

		for i, c := range chars {
			if items[i] != c {
				return 0
			}
		}

		return uint(len(chars))
	}
}

// Within accepts any single byte within the inclusive range [lowest,highest].
func Within(lowest, highest byte) Scanner {
	return func(items []byte) uint {
		if len(items) != 0 && lowest <= items[0] && items[0] <= highest {
			return 1
		}

		return 0
	}
}

// Many matches zero or more repetitions of the given scanner.
func Many(acceptor Scanner) Scanner {
	return func(items []byte) uint {
		index := uint(0)

		for index < uint(len(items)) {
			n := acceptor(items[index:])
			if n == 0 {
				break
			}

			index += n
		}

		return index
	}
}

// Until matches everything up to (but not including) the next occurrence of
// item, or the end of input if item never occurs.
func Until(item byte) Scanner {
	return func(items []byte) uint {
		index := uint(0)

		for index < uint(len(items)) && items[index] != item {
			index++
		}

		return index
	}
}

// Eof matches only the empty input.
func Eof() Scanner {
	return func(items []byte) uint {
		if len(items) == 0 {
			return 1
		}

		return 0
	}
}
