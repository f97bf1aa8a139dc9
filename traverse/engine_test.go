/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package traverse

import (
	"archive/zip"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"testing"
	"time"

	"github.com/spf13/afero"
)

func TestScanDirectoryWhitelistBlacklist(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/w/A.class", "classA")
	writeFile(t, fs, "/root/w/b/B.class", "classB")
	writeFile(t, fs, "/root/other/C.class", "classC")

	var seen []string
	engine := &Engine{
		Fs:     fs,
		Filter: NewFilter([]string{"w", "-w.b"}),
		OnClassfile: func(absPath, relPath string, data []byte) error {
			seen = append(seen, relPath)
			return nil
		},
	}

	if _, err := engine.Scan([]string{"/root"}); err != nil {
		t.Fatalf("Scan: %v", err)
	}

	sort.Strings(seen)
	want := []string{"/w/A.class"}
	if len(seen) != len(want) || seen[0] != want[0] {
		t.Errorf("seen = %v, want %v", seen, want)
	}
}

func TestScanTimestampOnlyTracksHighest(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/A.class", "a")

	called := false
	engine := &Engine{
		Fs:            fs,
		Filter:        NewFilter(nil),
		TimestampOnly: true,
		OnClassfile: func(absPath, relPath string, data []byte) error {
			called = true
			return nil
		},
	}

	highest, err := engine.Scan([]string{"/root"})
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if called {
		t.Error("OnClassfile should not be invoked in timestamp-only mode")
	}
	if highest.IsZero() {
		t.Error("expected a non-zero highest modification time")
	}
}

func TestScanPatternMatcherInvoked(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/root/resources/data.txt", "hello")

	var gotRel string
	var gotData []byte
	re := regexp.MustCompile(`\.txt$`)
	engine := &Engine{
		Fs:     fs,
		Filter: NewFilter(nil),
		Patterns: []PatternMatcher{{
			Regex: re,
			Handler: func(absPath, relPath string, r io.Reader) error {
				gotRel = relPath
				data, err := io.ReadAll(r)
				gotData = data
				return err
			},
		}},
	}

	if _, err := engine.Scan([]string{"/root"}); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if gotRel != "/resources/data.txt" {
		t.Errorf("gotRel = %q, want /resources/data.txt", gotRel)
	}
	if string(gotData) != "hello" {
		t.Errorf("gotData = %q, want hello", gotData)
	}
}

func TestScanArchiveEntries(t *testing.T) {
	dir := t.TempDir()
	archivePath := filepath.Join(dir, "lib.jar")
	writeTestJar(t, archivePath, map[string]string{
		"w/A.class":   "classA",
		"w/b/B.class": "classB",
		"other/C.class": "classC",
	})

	var seen []string
	engine := &Engine{
		Fs:     afero.NewOsFs(),
		Filter: NewFilter([]string{"w", "-w.b"}),
		OnClassfile: func(absPath, relPath string, data []byte) error {
			seen = append(seen, relPath)
			return nil
		},
	}

	if _, err := engine.Scan([]string{archivePath}); err != nil {
		t.Fatalf("Scan: %v", err)
	}
	sort.Strings(seen)
	if len(seen) != 1 || seen[0] != "/w/A.class" {
		t.Errorf("seen = %v, want [/w/A.class]", seen)
	}
}

func writeFile(t *testing.T, fs afero.Fs, path, content string) {
	t.Helper()
	if err := afero.WriteFile(fs, path, []byte(content), 0644); err != nil {
		t.Fatalf("WriteFile(%s): %v", path, err)
	}
}

func writeTestJar(t *testing.T, path string, entries map[string]string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("creating archive: %v", err)
	}
	defer f.Close()

	w := zip.NewWriter(f)
	for name, content := range entries {
		fw, err := w.CreateHeader(&zip.FileHeader{
			Name:     name,
			Modified: time.Now(),
			Method:   zip.Deflate,
		})
		if err != nil {
			t.Fatalf("creating entry %s: %v", name, err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("writing entry %s: %v", name, err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("closing archive: %v", err)
	}
}
