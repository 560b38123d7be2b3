package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

// errNoLogs is returned when the log file has not been written yet.
var errNoLogs = errors.New("no logs found")

// tailLines returns the last n lines of the file at path, or every line
// when n is zero or less.
func tailLines(path string, n int) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errNoLogs
		}
		return nil, err
	}
	defer file.Close()

	var ring []string
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if n > 0 && len(ring) == n {
			ring = ring[1:]
		}
		ring = append(ring, scanner.Text())
	}
	return ring, scanner.Err()
}

// followLog copies lines appended to path to w until ctx is done. The file
// is polled, so it may be created or truncated while following.
func followLog(ctx context.Context, path string, w io.Writer, interval time.Duration) error {
	var offset int64
	if info, err := os.Stat(path); err == nil {
		offset = info.Size()
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}

		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		if info.Size() < offset {
			offset = 0
		}
		if info.Size() == offset {
			continue
		}
		n, err := copyFrom(path, offset, w)
		if err != nil {
			return err
		}
		offset += n
	}
}

func copyFrom(path string, offset int64, w io.Writer) (int64, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer file.Close()
	if _, err := file.Seek(offset, io.SeekStart); err != nil {
		return 0, err
	}
	return io.Copy(w, file)
}

func showLogs(ctx context.Context, w io.Writer, path string, lines int, follow bool, interval time.Duration) error {
	tail, err := tailLines(path, lines)
	switch {
	case errors.Is(err, errNoLogs) && !follow:
		fmt.Fprintln(w, warnStyle.Render("No logs found"))
		return nil
	case err != nil && !errors.Is(err, errNoLogs):
		return err
	}
	for _, line := range tail {
		fmt.Fprintln(w, line)
	}
	if !follow {
		return nil
	}
	return followLog(ctx, path, w, interval)
}
