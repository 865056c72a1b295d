package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"

	"github.com/mfroeh/regrep/regex"
)

var groupColors = []*color.Color{
	color.New(color.FgRed),
	color.New(color.FgGreen),
	color.New(color.FgYellow),
	color.New(color.FgBlue),
	color.New(color.FgMagenta),
	color.New(color.FgCyan),
}

var cli struct {
	Pattern string   `arg:"" name:"pattern" help:"Regex pattern to use in search" type:"string"`
	Paths   []string `arg:"" optional:"" name:"path" help:"Files or directories to search; reads stdin if none given" type:"path"`
}

func main() {
	kong.Parse(&cli,
		kong.Name("regrep"),
		kong.Description("Searches stdin, files or directories for lines matching a regex pattern, with backreference support."),
		kong.UsageOnError(),
	)

	re, err := regex.Compile(cli.Pattern)
	if err != nil {
		log.Fatalf("failed to build regex: %v", err)
	}

	anyMatch := false

	if len(cli.Paths) == 0 {
		anyMatch = searchLines("", os.Stdin, re)
	}

	for _, path := range cli.Paths {
		info, err := os.Lstat(path)
		if err != nil {
			log.Fatalf("%s: %v", path, err)
		}

		var matched bool
		if info.IsDir() {
			matched, err = recursivelySearchDir(path, re)
		} else {
			matched, err = searchFile(path, re)
		}
		if err != nil {
			log.Fatalf("%v", err)
		}
		anyMatch = anyMatch || matched
	}

	if !anyMatch {
		os.Exit(1)
	}
}

func recursivelySearchDir(path string, re *regex.Regex) (bool, error) {
	anyMatch := false
	err := filepath.WalkDir(path, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}

		// resolve symlinks
		var info os.FileInfo
		for {
			info, err = os.Stat(path)
			// symlinks may be broken, in that case, just ignore them
			if err != nil {
				if errors.Is(err, fs.ErrNotExist) {
					return nil
				}
				return err
			}
			if info.Mode()&fs.ModeSymlink != fs.ModeSymlink {
				break
			}

			path, err = os.Readlink(path)
			if err != nil {
				return err
			}
		}

		// symlink may resolve to a directory, in which case we just ignore it
		if info.IsDir() {
			return nil
		}

		matched, err := searchFile(path, re)
		anyMatch = anyMatch || matched
		return err
	})

	return anyMatch, err
}

func searchFile(path string, re *regex.Regex) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()
	return searchLines(path, f, re), nil
}

// searchLines prints every matching line of r, prefixed with its line number
// and, for named sources, a one-time file header. It reports whether any line
// matched.
func searchLines(name string, r io.Reader, re *regex.Regex) bool {
	printedHeader := false
	anyMatch := false

	scanner := bufio.NewScanner(r)
	for lineno := 1; scanner.Scan(); lineno++ {
		line := scanner.Text()
		matches := re.FindAllMatches(line, -1)
		if len(matches) == 0 {
			continue
		}
		anyMatch = true

		if name != "" && !printedHeader {
			printedHeader = true
			fmt.Println(name, ":")
		}

		out := strings.Builder{}
		runes := []rune(line)
		lastMatchEnd := 0
		for _, m := range matches {
			out.WriteString(string(runes[lastMatchEnd:m.Start]))
			out.WriteString(formatMatch(runes, m))
			lastMatchEnd = m.End
		}
		out.WriteString(string(runes[lastMatchEnd:]))

		if name != "" {
			fmt.Printf("%d:%s\n", lineno, out.String())
		} else {
			fmt.Println(out.String())
		}
	}

	if printedHeader {
		fmt.Println()
	}

	return anyMatch
}

// formatMatch colors the whole match and gives the first few capture groups
// their own color each.
func formatMatch(runes []rune, m *regex.Match) string {
	if len(m.Groups) == 0 || len(m.Groups) >= len(groupColors) {
		return groupColors[0].Sprint(m.Text())
	}

	out := strings.Builder{}
	off := m.Start
	for i, span := range m.Groups {
		// unset groups and groups nested inside an already printed one are
		// folded into the surrounding color
		if span.Start < 0 || span.Start < off {
			continue
		}
		groupColors[0].Fprint(&out, string(runes[off:span.Start]))
		groupColors[i+1].Fprint(&out, string(runes[span.Start:span.End]))
		off = span.End
	}
	groupColors[0].Fprint(&out, string(runes[off:m.End]))
	return out.String()
}
