// Package source reads candidate lines from files or standard input.
package source

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// Result is the candidate set read at startup.
type Result struct {
	Lines []string
	// Truncated is set when input remained after MaxLines lines were read.
	Truncated bool
}

// ReadLines reads every file in paths in order, or stdin when paths is empty,
// stripping ANSI escape sequences from each line. At most maxLines lines are
// kept; zero means no limit.
func ReadLines(paths []string, stdin io.Reader, maxLines int) (Result, error) {
	var res Result
	if len(paths) == 0 {
		if err := readFrom(&res, stdin, maxLines); err != nil {
			return Result{}, fmt.Errorf("read stdin: %w", err)
		}
		return res, nil
	}
	for _, path := range paths {
		if res.Truncated {
			break
		}
		if err := readFile(&res, path, maxLines); err != nil {
			return Result{}, err
		}
	}
	return res, nil
}

func readFile(res *Result, path string, maxLines int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if err := readFrom(res, f, maxLines); err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return nil
}

// readFrom appends newline-separated lines from r. Lines have no length
// limit; a final line without a newline is kept.
func readFrom(res *Result, r io.Reader, maxLines int) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			if full(*res, maxLines) {
				res.Truncated = true
				return nil
			}
			res.Lines = append(res.Lines, Clean(strings.TrimSuffix(line, "\n")))
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func full(res Result, maxLines int) bool {
	return maxLines > 0 && len(res.Lines) >= maxLines
}

// Clean strips ANSI escape sequences and a trailing carriage return.
func Clean(line string) string {
	return ansi.Strip(strings.TrimSuffix(line, "\r"))
}
