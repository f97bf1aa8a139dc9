/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package traverse

import "strings"

// rootPrefix is the scan-all marker: every relative path this package
// produces carries a leading slash, so "/" is a prefix of all of them
// (spec §4.4: "a special scan-all marker... yields the single prefix /").
const rootPrefix = "/"

// Filter is the compiled whitelist/blacklist of one scan, translated once
// from the caller's dotted package-filter list (spec §6).
type Filter struct {
	whitelist []string
	blacklist []string
}

// NewFilter compiles a package filter list (spec §6): entries beginning
// with "-" are blacklist, others whitelist; an empty entry or an empty
// list means scan everything. A prefix present in both lists is dropped
// from the whitelist.
func NewFilter(entries []string) *Filter {
	var white, black []string
	if len(entries) == 0 {
		white = append(white, rootPrefix)
	}
	for _, e := range entries {
		if e == "" {
			white = append(white, rootPrefix)
			continue
		}
		if strings.HasPrefix(e, "-") {
			black = append(black, toPrefix(e[1:]))
		} else {
			white = append(white, toPrefix(e))
		}
	}
	if len(white) == 0 {
		white = append(white, rootPrefix)
	}

	blackSet := make(map[string]bool, len(black))
	for _, b := range black {
		blackSet[b] = true
	}
	filtered := white[:0:0]
	for _, w := range white {
		if !blackSet[w] {
			filtered = append(filtered, w)
		}
	}
	return &Filter{whitelist: dedupe(filtered), blacklist: dedupe(black)}
}

// toPrefix translates a dotted package prefix into a slash-separated path
// prefix with leading and trailing slashes.
func toPrefix(pkg string) string {
	if pkg == "" {
		return rootPrefix
	}
	return rootPrefix + strings.ReplaceAll(pkg, ".", "/") + "/"
}

func dedupe(s []string) []string {
	seen := make(map[string]bool, len(s))
	out := s[:0]
	for _, v := range s {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}

func (f *Filter) inWhitelist(relPath string) bool {
	for _, w := range f.whitelist {
		if strings.HasPrefix(relPath, w) {
			return true
		}
	}
	return false
}

func (f *Filter) blacklisted(relPath string) bool {
	for _, b := range f.blacklist {
		if relPath == b {
			return true
		}
	}
	return false
}

func (f *Filter) blacklistPrefixes(relPath string) bool {
	for _, b := range f.blacklist {
		if strings.HasPrefix(relPath, b) {
			return true
		}
	}
	return false
}

// classifyDir returns the directory-traversal decision for relPath (spec
// §4.4): prune the subtree outright, or the in_whitelist/keep_recursing
// flags that govern whether files here are scanned and whether recursion
// continues.
func (f *Filter) classifyDir(relPath string) (prune, inWhitelist, keepRecursing bool) {
	if f.blacklisted(relPath) {
		return true, false, false
	}
	inWhitelist = f.inWhitelist(relPath)
	keepRecursing = relPath == rootPrefix || f.isProperPrefixOfAnyWhitelist(relPath)
	return false, inWhitelist, keepRecursing
}

func (f *Filter) isProperPrefixOfAnyWhitelist(relPath string) bool {
	for _, w := range f.whitelist {
		if w != relPath && strings.HasPrefix(w, relPath) {
			return true
		}
	}
	return false
}

// archiveEntryInScope reports whether an archive entry path is in scope:
// some whitelist prefix is a prefix of it, and no blacklist prefix is a
// prefix of it (spec §4.4).
func (f *Filter) archiveEntryInScope(entryPath string) bool {
	return f.inWhitelist(entryPath) && !f.blacklistPrefixes(entryPath)
}
