package sieve

import (
	"regexp"
	"strings"

	iradix "github.com/hashicorp/go-immutable-radix"
)

// ═══════════════════════════════════════════════════════════════════════════════
// PERMUTERM TRIE: SUBSTRING AND WILDCARD RESOLUTION
// ═══════════════════════════════════════════════════════════════════════════════
// A permuterm trie stores every ROTATION of every dictionary term, each
// rotation ending in a sentinel END character that never occurs in
// normalized text. A wildcard query with a single '*' can always be
// rewritten into a PREFIX query against one of a term's rotations:
//
//	term "hello" + END (EndMarker, drawn here as '$'), rotations:
//	  hello$  ello$h  llo$he  lo$hel  o$hell  $hello
//
//	query "he*lo" canonicalizes to "he*lo$", rotates so the '*' is at the
//	tail ("lo$he*"), drops the trailing '*' ("lo$he"), and becomes a
//	PREFIX lookup: rotations starting with "lo$he" include "lo$hel" — match.
//
// Storage is a github.com/hashicorp/go-immutable-radix tree keyed by the
// rotation bytes; WalkPrefix implements prefix_lookup directly. This is a
// real ecosystem trie, not a hand-rolled one — see DESIGN.md.
// ═══════════════════════════════════════════════════════════════════════════════

// EndMarker is the sentinel character appended before rotating a term. It
// is never produced by Normalize, so it never collides with real text.
const EndMarker = '\x00'

// PermutermTrie maps every rotation of every dictionary term to the
// original term(s) that produced it.
type PermutermTrie struct {
	tree *iradix.Tree
}

// NewPermutermTrie creates an empty permuterm trie.
func NewPermutermTrie() *PermutermTrie {
	return &PermutermTrie{tree: iradix.New()}
}

// rotations returns every rotation of term+END, including the term itself
// rotated to have END at the tail.
func rotations(term string) []string {
	s := term + string(EndMarker)
	out := make([]string, len(s))
	for i := range s {
		out[i] = s[i:] + s[:i]
	}
	return out
}

// Insert adds every rotation of term to the trie, each mapping back to
// term. Safe to call with a term already present (rotations merge).
func (t *PermutermTrie) Insert(term string) {
	for _, r := range rotations(term) {
		key := []byte(r)
		terms := t.termsAt(key)
		if !containsString(terms, term) {
			terms = append(terms, term)
		}
		tree, _, _ := t.tree.Insert(key, terms)
		t.tree = tree
	}
}

func (t *PermutermTrie) termsAt(key []byte) []string {
	v, ok := t.tree.Get(key)
	if !ok {
		return nil
	}
	return v.([]string)
}

func containsString(xs []string, x string) bool {
	for _, s := range xs {
		if s == x {
			return true
		}
	}
	return false
}

// PrefixLookup returns every term with at least one stored rotation that
// starts with prefix, deduplicated.
func (t *PermutermTrie) PrefixLookup(prefix string) []string {
	seen := map[string]struct{}{}
	var out []string
	t.tree.Root().WalkPrefix([]byte(prefix), func(k []byte, v interface{}) bool {
		for _, term := range v.([]string) {
			if _, ok := seen[term]; !ok {
				seen[term] = struct{}{}
				out = append(out, term)
			}
		}
		return false
	})
	return out
}

// ═══════════════════════════════════════════════════════════════════════════════
// WILDCARD PATTERN RESOLUTION
// ═══════════════════════════════════════════════════════════════════════════════

// ResolveWildcard returns every dictionary term matching a pattern that may
// contain a single logical '*' run, per spec §4.4:
//  1. Canonicalize: append END, fold the substring between the first and
//     last '*' into a single '*'.
//  2. Rotate so the (single) '*' sits at the tail, then drop it.
//  3. Prefix-lookup the rotated string in the trie.
//  4. Re-match each candidate against the original pattern (wildcard as
//     regex) to discard false positives from the rotation/fold step.
func (t *PermutermTrie) ResolveWildcard(pattern string) []string {
	canon := canonicalizeWildcard(pattern)
	star := strings.IndexByte(canon, '*')
	if star < 0 {
		// No wildcard at all: direct rotation lookup, i.e. an exact term.
		canon = strings.TrimSuffix(canon, string(EndMarker))
		if t.exists(canon) {
			return []string{canon}
		}
		return nil
	}

	rotated := canon[star+1:] + canon[:star]
	candidates := t.PrefixLookup(rotated)

	matcher := wildcardMatcher(pattern)
	var out []string
	for _, c := range candidates {
		if matcher.MatchString(c) {
			out = append(out, c)
		}
	}
	return out
}

func (t *PermutermTrie) exists(term string) bool {
	for _, r := range rotations(term) {
		if _, ok := t.tree.Get([]byte(r)); ok {
			return true
		}
	}
	return false
}

// canonicalizeWildcard appends END and collapses everything between the
// first and last '*' into a single '*'.
func canonicalizeWildcard(pattern string) string {
	first := strings.IndexByte(pattern, '*')
	last := strings.LastIndexByte(pattern, '*')
	if first < 0 {
		return pattern + string(EndMarker)
	}
	folded := pattern[:first+1] + pattern[last+1:]
	return folded + string(EndMarker)
}

// wildcardMatcher compiles pattern ('*' = any run of characters, including
// none) into a full-string regexp.
func wildcardMatcher(pattern string) *regexp.Regexp {
	var b strings.Builder
	b.WriteByte('^')
	for _, r := range pattern {
		if r == '*' {
			b.WriteString(".*")
		} else {
			b.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	b.WriteByte('$')
	return regexp.MustCompile(b.String())
}

// DictionaryTermsWithSubstring prefix-looks-up substr in the trie. When
// ignoreEndMarker is true, substr is treated as an already-rotated query
// (the speller's use case) where no trailing END has been appended.
func (t *PermutermTrie) DictionaryTermsWithSubstring(substr string, ignoreEndMarker bool) []string {
	if ignoreEndMarker {
		return t.PrefixLookup(substr)
	}
	return t.PrefixLookup(substr + string(EndMarker))
}
