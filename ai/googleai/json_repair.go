// Copyright 2026 Groundline Authors
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


package googleai

import "strings"

// repairJSON fixes the one malformation the model produces often enough to
// matter: an object key whose opening quote was dropped, as in
// `, conclusion": "y"`. Anything it does not recognize passes through
// untouched.
func repairJSON(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 16)

	runes := []rune(s)
	for i := 0; i < len(runes); {
		r := runes[i]
		b.WriteRune(r)
		i++
		if r != '{' && r != ',' {
			continue
		}

		for i < len(runes) && isSpaceRune(runes[i]) {
			b.WriteRune(runes[i])
			i++
		}

		// A key should open with a quote here. A bare identifier running
		// straight into `":` means the opening quote went missing.
		start := i
		for i < len(runes) && isKeyRune(runes[i]) {
			i++
		}
		if i > start && i+1 < len(runes) && runes[i] == '"' && runes[i+1] == ':' {
			b.WriteRune('"')
		}
		for j := start; j < i; j++ {
			b.WriteRune(runes[j])
		}
	}

	return b.String()
}

func isSpaceRune(r rune) bool {
	return r == ' ' || r == '\t' || r == '\n' || r == '\r'
}

func isKeyRune(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
