package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testThemes = []string{"dark", "light", "none", "orange"}

func TestGenerateCompletion(t *testing.T) {
	t.Parallel()
	tests := []struct {
		shell    string
		contains []string
	}{
		{"bash", []string{
			"complete -F _numcalc numcalc",
			`compgen -W "dark light none orange"`,
			"--file|-f)",
			"--output|-o)",
			`compgen -W "bash zsh fish powershell"`,
			"--help -h --version",
		}},
		{"zsh", []string{
			"#compdef numcalc",
			"'(-e --expr)'{-e,--expr}'[Evaluate an expression]:expression:' \\",
			"'--theme[Color theme]:theme:(dark light none orange)'",
			"'--dump[Print the hex limb dump of results]' \\",
			"    '*:expression:'",
			"'(-f --file)'{-f,--file}'[Evaluate each line of a file]:file:_files'",
		}},
		{"fish", []string{
			"complete -c numcalc -f",
			"complete -c numcalc -l theme -d 'Color theme' -xa 'dark light none orange'",
			"complete -c numcalc -s f -l file -d 'Evaluate each line of a file' -rF",
			"complete -c numcalc -s e -l expr -d 'Evaluate an expression' -x",
		}},
		{"powershell", []string{
			"'--theme' { @('dark', 'light', 'none', 'orange') }",
			"Register-ArgumentCompleter -Native -CommandName 'numcalc'",
			"@{ Name = '--serve'; Description = 'Start the HTTP evaluation service' }",
			"@{ Name = '-q'; Description = 'Print bare results only' }",
			"'--log-level' { @('debug', 'info', 'warn', 'error') }",
		}},
	}

	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, GenerateCompletion(&buf, tt.shell, testThemes))
			for _, s := range tt.contains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestGenerateCompletionAlias(t *testing.T) {
	t.Parallel()
	var ps, full bytes.Buffer
	require.NoError(t, GenerateCompletion(&ps, "ps", testThemes))
	require.NoError(t, GenerateCompletion(&full, "powershell", testThemes))
	assert.Equal(t, full.String(), ps.String())
}

func TestGenerateCompletionUnsupported(t *testing.T) {
	t.Parallel()
	err := GenerateCompletion(&bytes.Buffer{}, "tcsh", testThemes)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported shell: tcsh")
}

func TestCompletionFlagsAreComplete(t *testing.T) {
	t.Parallel()
	seen := map[string]bool{}
	for _, f := range completionFlags {
		require.NotEmpty(t, f.Long, "every flag has a long form")
		assert.False(t, seen[f.Long], "duplicate flag %s", f.Long)
		seen[f.Long] = true
		assert.False(t, strings.Contains(f.Help, "'"), "help text of %s must not contain quotes", f.Long)
		if f.Kind == argChoice {
			assert.NotEmpty(t, f.Choices, "%s offers choices", f.Long)
		}
	}
	for _, name := range []string{"expr", "file", "serve", "tui", "repl", "max-exp", "dump", "theme", "completion"} {
		assert.True(t, seen[name], "missing %s", name)
	}
}
