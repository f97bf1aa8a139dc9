/*
 * classgraph - a classpath relation indexer
 * Licensed under Mozilla Public License 2.0 (MPL 2.0)
 */

package main

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"classgraph/internal/config"
	"classgraph/scanner"
)

func newScanCmd() *cobra.Command {
	var includes, excludes, patterns []string
	var useArchiveTimestamps bool

	cmd := &cobra.Command{
		Use:   "scan <root>...",
		Short: "Scan one or more classpath roots and report discovered classes",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(args, includes, excludes, patterns, useArchiveTimestamps)
		},
	}

	cmd.Flags().StringArrayVar(&includes, "include", nil, "whitelist a dotted package prefix (repeatable)")
	cmd.Flags().StringArrayVar(&excludes, "exclude", nil, "blacklist a dotted package prefix (repeatable)")
	cmd.Flags().StringArrayVar(&patterns, "pattern", nil, "name=regex path-pattern registration (repeatable)")
	cmd.Flags().BoolVar(&useArchiveTimestamps, "use-archive-timestamps", false,
		"track archive entries' own timestamps instead of the archive file's")

	return cmd
}

func runScan(roots, includes, excludes, patterns []string, useArchiveTimestamps bool) error {
	filterEntries := make([]string, 0, len(includes)+len(excludes))
	filterEntries = append(filterEntries, includes...)
	for _, e := range excludes {
		filterEntries = append(filterEntries, "-"+e)
	}

	s := scanner.New(afero.NewOsFs(), nil)

	for _, spec := range patterns {
		name, re, err := parsePatternFlag(spec)
		if err != nil {
			return err
		}
		matchName := name
		s.RegisterPathPatternMatch(re, func(absPath, relPath string, data []byte) error {
			fmt.Printf("[pattern:%s] %s (%d bytes)\n", matchName, relPath, len(data))
			return nil
		})
	}

	config.GetInstance().UseArchiveEntryTimestamps = useArchiveTimestamps

	if err := s.Scan(roots, filterEntries); err != nil {
		return err
	}

	printSummary(s)
	return nil
}

// parsePatternFlag splits a --pattern name=regex flag value and compiles
// the regex half.
func parsePatternFlag(spec string) (name string, re *regexp.Regexp, err error) {
	idx := strings.Index(spec, "=")
	if idx < 0 {
		return "", nil, fmt.Errorf("--pattern value %q must be name=regex", spec)
	}
	name = spec[:idx]
	re, err = regexp.Compile(spec[idx+1:])
	if err != nil {
		return "", nil, fmt.Errorf("--pattern %q: %w", spec, err)
	}
	return name, re, nil
}

func printSummary(s *scanner.Scanner) {
	names := s.AllClassNames()
	sort.Strings(names)

	width := 80
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		width = w
	}
	nameColumn := width - 12
	if nameColumn < 20 {
		nameColumn = 20
	}

	classColor := color.New(color.FgCyan)
	ifaceColor := color.New(color.FgGreen)

	fmt.Printf("%-*s %-10s %s\n", nameColumn, "NAME", "KIND", "DESCENDANTS")
	for _, name := range names {
		kind := s.KindOf(name)
		var descendants int
		if kind == "interface" {
			descendants = len(s.SubinterfacesOf(name)) + len(s.ClassesImplementing(name))
			ifaceColor.Printf("%-*s %-10s %d\n", nameColumn, name, kind, descendants)
		} else {
			descendants = len(s.SubclassesOf(name))
			classColor.Printf("%-*s %-10s %d\n", nameColumn, name, kind, descendants)
		}
	}
	fmt.Printf("\n%d classes/interfaces discovered; last scan timestamp %s\n",
		len(names), s.LastScanTime().Format("2006-01-02T15:04:05Z07:00"))
}
