// Package logfile is the append-only analysis history: one line per tick,
// written with a scoped open/append/close and read back from the tail.
package logfile

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkgerrors "github.com/pkg/errors"
)

// TimestampLayout prefixes every history line.
const TimestampLayout = "2006-01-02 15:04:05"

const separator = " - "

type Writer struct {
	Path string
}

// FormatLine renders one history line without the trailing newline.
func FormatLine(ts time.Time, text string) string {
	return ts.Format(TimestampLayout) + separator + text
}

// Append writes line plus a newline. The file is closed before returning,
// also when the write fails.
func (w *Writer) Append(line string) (err error) {
	f, err := os.OpenFile(w.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return pkgerrors.Wrap(err, "open history")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = pkgerrors.Wrap(cerr, "close history")
		}
	}()

	bw := bufio.NewWriter(f)
	if _, err := bw.WriteString(line + "\n"); err != nil {
		return pkgerrors.Wrap(err, "write history")
	}
	if err := bw.Flush(); err != nil {
		return pkgerrors.Wrap(err, "flush history")
	}
	return nil
}

// Count lines quickly enough for a long-running log
func (w *Writer) LineCount() (int, error) {
	f, err := os.Open(w.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return 0, nil
		}
		return 0, err
	}
	defer f.Close()

	r := bufio.NewReader(f)
	count := 0
	for {
		_, err := r.ReadString('\n')
		if err == io.EOF {
			break
		}
		if err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// Tail returns the last n lines in file order, without newlines. A missing
// file is reported as an error wrapping os.ErrNotExist.
func (w *Writer) Tail(n int) ([]string, error) {
	f, err := os.Open(w.Path)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "open history")
	}
	defer f.Close()

	if n <= 0 {
		return nil, nil
	}

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return nil, nil
	}

	lines, err := readLinesBackward(f, info.Size(), n)
	if err != nil {
		return nil, pkgerrors.Wrap(err, "read history")
	}
	reverseStrings(lines)
	return lines, nil
}

func readLinesBackward(f *os.File, size int64, n int) ([]string, error) {
	const chunk = 8192
	var (
		pos     = size
		lines   []string
		partial []byte
	)

	for pos > 0 && len(lines) < n {
		readSize := pos
		if readSize > chunk {
			readSize = chunk
		}
		pos -= readSize

		if _, err := f.Seek(pos, io.SeekStart); err != nil {
			return nil, err
		}

		sz := int(readSize)
		tmp := make([]byte, sz, sz+len(partial))
		if _, err := io.ReadFull(f, tmp); err != nil {
			return nil, err
		}

		lines, partial = extractLinesFromEnd(append(tmp, partial...), lines, n)
	}

	// The first line of the file has no newline in front of it.
	if len(lines) < n && len(partial) > 0 {
		lines = append(lines, string(partial))
	}

	return lines, nil
}

func extractLinesFromEnd(buf []byte, lines []string, n int) ([]string, []byte) {
	for i := len(buf) - 1; i >= 0 && len(lines) < n; i-- {
		if buf[i] == '\n' {
			if line := strings.TrimRight(string(buf[i+1:]), "\r"); line != "" {
				lines = append(lines, line)
			}
			buf = buf[:i]
		}
	}
	return lines, buf
}

func reverseStrings(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// Entry is a parsed history line.
type Entry struct {
	Time time.Time
	Text string
}

// ParseLine splits a history line into its timestamp and analysis text.
func ParseLine(line string) (Entry, error) {
	ts, text, ok := strings.Cut(line, separator)
	if !ok {
		return Entry{}, fmt.Errorf("missing separator in %q", line)
	}
	t, err := parseTimestamp(strings.TrimSpace(ts))
	if err != nil {
		return Entry{}, err
	}
	return Entry{Time: t, Text: text}, nil
}

func parseTimestamp(tsStr string) (time.Time, error) {
	layouts := []string{
		TimestampLayout,
		time.RFC3339,
		"2006-01-02T15:04:05",
	}
	for _, lay := range layouts {
		if t, err := time.ParseInLocation(lay, tsStr, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unable to parse timestamp %q", tsStr)
}

func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
