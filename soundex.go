package sieve

import "strings"

// ═══════════════════════════════════════════════════════════════════════════════
// SOUNDEX: PHONETIC HASHING
// ═══════════════════════════════════════════════════════════════════════════════
// Soundex maps a word to a 4-character code so that words which SOUND alike
// hash to the same bucket, independent of spelling differences.
//
// EXAMPLE:
// --------
//
//	Soundex("robert") == Soundex("rupert") == "r163"
//
// ALGORITHM (see spec §4.2):
//  1. Lowercase and strip. A single-character input returns itself unchanged.
//  2. Map letters to digits:
//     {a,e,i,o,u,h,w,y} -> 0
//     {b,f,p,v}         -> 1
//     {c,g,j,k,q,s,x,z} -> 2
//     {d,t}             -> 3
//     l                 -> 4
//     {m,n}             -> 5
//     r                 -> 6
//  3. Collapse adjacent letters sharing a digit to the first letter; two
//     letters sharing a digit, separated by a single h/w/y, also collapse.
//  4. The first output character is the original first letter; drop every
//     remaining 0 from position 2 onward.
//  5. Right-pad with '0' to length 4, or truncate to 4.
//
// No suitable Soundex library exists in the reference pack (the one hit,
// standardbeagle-lci, hand-rolls a simplified non-conformant variant), so
// this follows the letter-class table directly — see DESIGN.md.
// ═══════════════════════════════════════════════════════════════════════════════

var soundexDigits = map[byte]byte{
	'a': '0', 'e': '0', 'i': '0', 'o': '0', 'u': '0', 'h': '0', 'w': '0', 'y': '0',
	'b': '1', 'f': '1', 'p': '1', 'v': '1',
	'c': '2', 'g': '2', 'j': '2', 'k': '2', 'q': '2', 's': '2', 'x': '2', 'z': '2',
	'd': '3', 't': '3',
	'l': '4',
	'm': '5', 'n': '5',
	'r': '6',
}

func isSilentSeparator(b byte) bool {
	return b == 'h' || b == 'w' || b == 'y'
}

// Soundex returns the 4-character phonetic code for word, per spec §4.2.
// Blank input returns "". A single-letter input is returned unchanged.
func Soundex(word string) string {
	w := strings.ToLower(strings.TrimSpace(word))
	if w == "" {
		return ""
	}
	if len(w) == 1 {
		return w
	}
	if _, known := soundexDigits[w[0]]; !known {
		return w[:1] + "000"
	}

	out := []byte{w[0]}
	lastDigit := soundexDigits[w[0]]

	// An h/w/y between two real letters is transparent to the "same digit
	// as before" comparison, per the collapse rule.
	for i := 1; i < len(w); i++ {
		c := w[i]
		digit, known := soundexDigits[c]
		if !known {
			continue
		}
		if isSilentSeparator(c) {
			// h/w/y never emits a digit and never resets lastDigit, so a
			// following letter of the same class as the one before the
			// separator is still collapsed into it.
			continue
		}
		if digit == lastDigit {
			continue
		}
		if digit != '0' {
			out = append(out, digit)
		}
		lastDigit = digit
	}

	code := string(out)
	if len(code) >= 4 {
		return code[:4]
	}
	return code + strings.Repeat("0", 4-len(code))
}
