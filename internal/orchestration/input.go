package orchestration

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/xgallom/brno-number/internal/config"
)

// ReadLines returns the expressions in r, one per line. Blank lines and
// lines starting with '#' are skipped.
func ReadLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines, sc.Err()
}

// CollectExpressions gathers the lines to evaluate: the batch file, if
// any, followed by the expressions given on the command line. A batch
// file named "-" is read from stdin.
func CollectExpressions(cfg config.AppConfig, stdin io.Reader) ([]string, error) {
	var exprs []string
	if cfg.BatchFile != "" {
		r := stdin
		if cfg.BatchFile != "-" {
			f, err := os.Open(cfg.BatchFile)
			if err != nil {
				return nil, fmt.Errorf("open batch file: %w", err)
			}
			defer f.Close()
			r = f
		}
		lines, err := ReadLines(r)
		if err != nil {
			return nil, fmt.Errorf("read batch file %s: %w", cfg.BatchFile, err)
		}
		exprs = append(exprs, lines...)
	}
	return append(exprs, cfg.Exprs...), nil
}
