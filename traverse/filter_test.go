/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package traverse

import "testing"

func TestNewFilterScanAllByDefault(t *testing.T) {
	f := NewFilter(nil)
	if !f.archiveEntryInScope("/anything/at/all/A.class") {
		t.Error("empty filter list should scan everything")
	}
}

func TestNewFilterEmptyEntryMeansScanAll(t *testing.T) {
	f := NewFilter([]string{""})
	if !f.archiveEntryInScope("/p/A.class") {
		t.Error("empty-string entry should mean scan everything")
	}
}

func TestNewFilterWhitelistBlacklist(t *testing.T) {
	// spec §4.4 scenario: whitelist "w", blacklist "w.b".
	f := NewFilter([]string{"w", "-w.b"})

	if !f.archiveEntryInScope("/w/A.class") {
		t.Error("/w/A.class should be in scope")
	}
	if f.archiveEntryInScope("/w/b/B.class") {
		t.Error("/w/b/B.class should be excluded by the blacklist")
	}
	if f.archiveEntryInScope("/other/C.class") {
		t.Error("/other/C.class should be out of scope (not under whitelist)")
	}
}

func TestNewFilterBlacklistedWhitelistEntryDropped(t *testing.T) {
	// A prefix present in both lists is removed from the whitelist (spec §4.4).
	f := NewFilter([]string{"w", "-w"})
	if f.archiveEntryInScope("/w/A.class") {
		t.Error("a prefix blacklisted and whitelisted identically should end up out of scope")
	}
}

func TestClassifyDirPruneAndRecurse(t *testing.T) {
	f := NewFilter([]string{"w.p"})

	prune, inWhitelist, keepRecursing := f.classifyDir("/")
	if prune || inWhitelist || !keepRecursing {
		t.Errorf("root: prune=%v inWhitelist=%v keepRecursing=%v, want false/false/true", prune, inWhitelist, keepRecursing)
	}

	prune, inWhitelist, keepRecursing = f.classifyDir("/w/")
	if prune || inWhitelist || !keepRecursing {
		t.Errorf("/w/: prune=%v inWhitelist=%v keepRecursing=%v, want false/false/true", prune, inWhitelist, keepRecursing)
	}

	prune, inWhitelist, keepRecursing = f.classifyDir("/w/p/")
	if prune || !inWhitelist {
		t.Errorf("/w/p/: prune=%v inWhitelist=%v, want false/true", prune, inWhitelist)
	}

	prune, inWhitelist, keepRecursing = f.classifyDir("/other/")
	if prune || inWhitelist || keepRecursing {
		t.Errorf("/other/: prune=%v inWhitelist=%v keepRecursing=%v, want false/false/false", prune, inWhitelist, keepRecursing)
	}
}

func TestClassifyDirBlacklistPrunes(t *testing.T) {
	f := NewFilter([]string{"-w.b"})
	prune, _, _ := f.classifyDir("/w/b/")
	if !prune {
		t.Error("/w/b/ should be pruned by the -w.b blacklist entry")
	}
}
