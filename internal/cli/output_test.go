package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xgallom/brno-number/internal/orchestration"
)

func TestWriteResultsToFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	results := []orchestration.Result{
		{Index: 0, Expr: "1/3 + 1/6", Value: eval(t, "1/3 + 1/6")},
		{Index: 1, Expr: "1/", Err: errors.New("syntax error at 2: unexpected end of input")},
		{Index: 2, Expr: "1/0", Value: eval(t, "1/0")},
	}

	testCases := []struct {
		name       string
		outputFile string
		dump       bool
		contains   []string
	}{
		{
			name:       "plain results",
			outputFile: filepath.Join(tmpDir, "results.txt"),
			contains:   []string{"# numcalc results", "# Lines: 3", "1/3 + 1/6 = 1/2", "# 1/: error:", "1/0 = nan"},
		},
		{
			name:       "nested directory with dump",
			outputFile: filepath.Join(tmpDir, "nested", "dir", "results.txt"),
			dump:       true,
			contains:   []string{"1/3 + 1/6 = 1/2", "kind: ordinary", "kind: nan"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			err := WriteResultsToFile(results, OutputConfig{OutputFile: tc.outputFile, Dump: tc.dump})
			require.NoError(t, err)

			content, err := os.ReadFile(tc.outputFile)
			require.NoError(t, err)
			for _, s := range tc.contains {
				assert.Contains(t, string(content), s)
			}
		})
	}

	t.Run("no output file", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, WriteResultsToFile(results, OutputConfig{}))
	})
}

func TestFormatQuietResult(t *testing.T) {
	t.Parallel()
	tests := []struct {
		src  string
		want string
	}{
		{"2/4", "1/2"},
		{"0 - 3", "-3"},
		{"0/0", "undefined"},
		{"1 < 2", "true"},
		{"2^400", "2582249878086908589655919172003011874329705792829223512830659356540647622016841194629645353280137831435903171972747493376"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, FormatQuietResult(eval(t, tt.src)), tt.src)
	}
}

func TestDisplayResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		src         string
		config      OutputConfig
		contains    []string
		notContains []string
	}{
		{
			name:        "default",
			src:         "1/3 + 1/3",
			contains:    []string{"2/3\n"},
			notContains: []string{"ordinary", "kind:"},
		},
		{
			name:     "verbose",
			src:      "1/3 + 1/3",
			config:   OutputConfig{Verbose: true},
			contains: []string{"1/3 + 1/3 = 2/3", "[ordinary]", "ms"},
		},
		{
			name:     "quiet",
			src:      "7",
			config:   OutputConfig{Quiet: true},
			contains: []string{"7\n"},
		},
		{
			name:     "dump flag",
			src:      "3",
			config:   OutputConfig{Dump: true},
			contains: []string{"3\n", "num : size 1 expo 1 data [ 3 ]"},
		},
		{
			name:     "dump function",
			src:      "dump(3)",
			contains: []string{"kind: ordinary"},
		},
		{
			name:        "boolean never dumps",
			src:         "1 < 2",
			config:      OutputConfig{Dump: true},
			contains:    []string{"true"},
			notContains: []string{"kind:"},
		},
		{
			name:     "truncated",
			src:      "2^400",
			contains: []string{"...", "(truncated)"},
		},
		{
			name:        "quiet never truncates",
			src:         "2^400",
			config:      OutputConfig{Quiet: true},
			notContains: []string{"..."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			DisplayResult(eval(t, tt.src), tt.src, 2*time.Millisecond, tt.config, &buf)
			output := buf.String()
			for _, s := range tt.contains {
				assert.Contains(t, output, s)
			}
			for _, s := range tt.notContains {
				assert.NotContains(t, output, s)
			}
		})
	}
}

func TestSaveResults(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()
	outputFile := filepath.Join(tmpDir, "out.txt")

	results := []orchestration.Result{
		{Expr: "1 + 1", Value: eval(t, "1 + 1")},
		{Expr: "x", Err: errors.New("unknown identifier")},
	}

	var buf bytes.Buffer
	require.NoError(t, SaveResults(&buf, results, OutputConfig{}))
	assert.Empty(t, buf.String(), "nothing to do without an output file")

	require.NoError(t, SaveResults(&buf, results, OutputConfig{OutputFile: outputFile}))
	assert.Contains(t, buf.String(), "Results saved to")
	data, err := os.ReadFile(outputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "1 + 1 = 2")

	buf.Reset()
	require.NoError(t, SaveResults(&buf, results, OutputConfig{OutputFile: filepath.Join(tmpDir, "q.txt"), Quiet: true}))
	assert.Empty(t, buf.String())
}
