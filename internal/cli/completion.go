package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"
)

type argKind int

const (
	argNone   argKind = iota // switch without a value
	argText                  // free-form value
	argFile                  // path
	argTheme                 // one of the registered themes
	argChoice                // one of Choices
)

// completionFlag describes one command line flag to the shell generators.
type completionFlag struct {
	Long    string
	Short   string
	Help    string
	Kind    argKind
	Arg     string // value label shown by zsh
	Choices []string
}

var completionFlags = []completionFlag{
	{Long: "help", Short: "h", Help: "Show help message"},
	{Long: "version", Help: "Show version and CPU features"},
	{Long: "expr", Short: "e", Help: "Evaluate an expression", Kind: argText, Arg: "expression"},
	{Long: "file", Short: "f", Help: "Evaluate each line of a file", Kind: argFile, Arg: "file"},
	{Long: "repl", Help: "Start the interactive prompt"},
	{Long: "tui", Help: "Start the terminal workbench"},
	{Long: "serve", Help: "Start the HTTP evaluation service"},
	{Long: "addr", Help: "Listen address for --serve", Kind: argChoice, Arg: "address", Choices: []string{":8080", "127.0.0.1:8080"}},
	{Long: "timeout", Help: "Maximum run time", Kind: argChoice, Arg: "duration", Choices: []string{"10s", "30s", "1m", "5m", "10m"}},
	{Long: "workers", Help: "Batch concurrency", Kind: argChoice, Arg: "count", Choices: []string{"0", "1", "2", "4", "8"}},
	{Long: "max-exp", Help: "Largest exponent accepted by ^", Kind: argChoice, Arg: "number", Choices: []string{"1000", "100000", "1000000"}},
	{Long: "max-len", Help: "Longest expression accepted by --serve", Kind: argChoice, Arg: "number", Choices: []string{"1024", "4096", "65536"}},
	{Long: "quiet", Short: "q", Help: "Print bare results only"},
	{Long: "verbose", Short: "v", Help: "Show value kinds and timings"},
	{Long: "dump", Help: "Print the hex limb dump of results"},
	{Long: "output", Short: "o", Help: "Also write results to a file", Kind: argFile, Arg: "file"},
	{Long: "theme", Help: "Color theme", Kind: argTheme, Arg: "theme"},
	{Long: "no-color", Help: "Disable colors"},
	{Long: "log-level", Help: "Log level", Kind: argChoice, Arg: "level", Choices: []string{"debug", "info", "warn", "error"}},
	{Long: "completion", Help: "Generate completion script", Kind: argChoice, Arg: "shell", Choices: []string{"bash", "zsh", "fish", "powershell"}},
}

type completionData struct {
	Flags  []completionFlag
	Themes []string
}

const bashCompletion = `# bash completion for numcalc; source it from ~/.bashrc

_numcalc() {
    local cur="${COMP_WORDS[COMP_CWORD]}"
    local prev="${COMP_WORDS[COMP_CWORD-1]}"
    COMPREPLY=()

    case "${prev}" in
{{- range .Flags}}{{with bashCase . $.Themes}}
{{.}}{{end}}{{end}}
    esac

    if [[ "${cur}" == -* ]]; then
        COMPREPLY=( $(compgen -W "{{optionNames .Flags}}" -- "${cur}") )
    fi
}

complete -F _numcalc numcalc
`

const zshCompletion = `#compdef numcalc
# zsh completion for numcalc; place it in a directory on $fpath

_arguments -s \
{{- range .Flags}}
    {{zshSpec . $.Themes}} \
{{- end}}
    '*:expression:'
`

const fishCompletion = `# fish completion for numcalc; save it as ~/.config/fish/completions/numcalc.fish
complete -c numcalc -f
{{range .Flags}}{{fishLine . $.Themes}}
{{end}}`

const powershellCompletion = `# PowerShell completion for numcalc; add it to $PROFILE
Register-ArgumentCompleter -Native -CommandName 'numcalc' -ScriptBlock {
    param($wordToComplete, $commandAst, $cursorPosition)

    $elements = $commandAst.CommandElements
    $prev = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }
    $values = switch ($prev) {
{{- range .Flags}}{{with psCase . $.Themes}}
{{.}}{{end}}{{end}}
        default { $null }
    }
    if ($values) {
        $values | Where-Object { $_ -like "$wordToComplete*" } | ForEach-Object {
            [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)
        }
        return
    }

    @(
{{- range .Flags}}
        @{ Name = '--{{.Long}}'; Description = '{{.Help}}' }
{{- if .Short}}
        @{ Name = '-{{.Short}}'; Description = '{{.Help}}' }
{{- end}}{{end}}
    ) | Where-Object { $_.Name -like "$wordToComplete*" } | ForEach-Object {
        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)
    }
}
`

var completionFuncs = template.FuncMap{
	"optionNames": optionNames,
	"bashCase":    bashCase,
	"zshSpec":     zshSpec,
	"fishLine":    fishLine,
	"psCase":      psCase,
}

var completionTemplates = map[string]*template.Template{
	"bash":       template.Must(template.New("bash").Funcs(completionFuncs).Parse(bashCompletion)),
	"zsh":        template.Must(template.New("zsh").Funcs(completionFuncs).Parse(zshCompletion)),
	"fish":       template.Must(template.New("fish").Funcs(completionFuncs).Parse(fishCompletion)),
	"powershell": template.Must(template.New("powershell").Funcs(completionFuncs).Parse(powershellCompletion)),
}

// GenerateCompletion writes the completion script for shell to out. themes
// are the values offered for --theme. "ps" is accepted for powershell.
func GenerateCompletion(out io.Writer, shell string, themes []string) error {
	name := shell
	if name == "ps" {
		name = "powershell"
	}
	tmpl, ok := completionTemplates[name]
	if !ok {
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	if err := tmpl.Execute(out, completionData{Flags: completionFlags, Themes: themes}); err != nil {
		return fmt.Errorf("completion %s generation failed: %w", name, err)
	}
	return nil
}

// names returns the spellings of f, long form first.
func (f completionFlag) names() []string {
	names := []string{"--" + f.Long}
	if f.Short != "" {
		names = append(names, "-"+f.Short)
	}
	return names
}

func (f completionFlag) values(themes []string) []string {
	switch f.Kind {
	case argTheme:
		return themes
	case argChoice:
		return f.Choices
	default:
		return nil
	}
}

func optionNames(flags []completionFlag) string {
	var all []string
	for _, f := range flags {
		all = append(all, f.names()...)
	}
	return strings.Join(all, " ")
}

func bashCase(f completionFlag, themes []string) string {
	var reply string
	switch f.Kind {
	case argFile:
		reply = `COMPREPLY=( $(compgen -f -- "${cur}") )`
	case argTheme, argChoice:
		reply = fmt.Sprintf(`COMPREPLY=( $(compgen -W "%s" -- "${cur}") )`, strings.Join(f.values(themes), " "))
	default:
		return ""
	}
	return fmt.Sprintf("        %s)\n            %s\n            return 0\n            ;;", strings.Join(f.names(), "|"), reply)
}

func zshSpec(f completionFlag, themes []string) string {
	var arg string
	switch f.Kind {
	case argText:
		arg = ":" + f.Arg + ":"
	case argFile:
		arg = ":" + f.Arg + ":_files"
	case argTheme, argChoice:
		arg = fmt.Sprintf(":%s:(%s)", f.Arg, strings.Join(f.values(themes), " "))
	}
	if f.Short == "" {
		return fmt.Sprintf("'--%s[%s]%s'", f.Long, f.Help, arg)
	}
	return fmt.Sprintf("'(-%s --%s)'{-%s,--%s}'[%s]%s'", f.Short, f.Long, f.Short, f.Long, f.Help, arg)
}

func fishLine(f completionFlag, themes []string) string {
	var b strings.Builder
	b.WriteString("complete -c numcalc")
	if f.Short != "" {
		fmt.Fprintf(&b, " -s %s", f.Short)
	}
	fmt.Fprintf(&b, " -l %s -d '%s'", f.Long, f.Help)
	switch f.Kind {
	case argText:
		b.WriteString(" -x")
	case argFile:
		b.WriteString(" -rF")
	case argTheme, argChoice:
		fmt.Fprintf(&b, " -xa '%s'", strings.Join(f.values(themes), " "))
	}
	return b.String()
}

func psCase(f completionFlag, themes []string) string {
	vals := f.values(themes)
	if len(vals) == 0 {
		return ""
	}
	quoted := make([]string, len(vals))
	for i, v := range vals {
		quoted[i] = "'" + v + "'"
	}
	list := strings.Join(quoted, ", ")
	lines := make([]string, 0, 2)
	for _, n := range f.names() {
		lines = append(lines, fmt.Sprintf("        '%s' { @(%s) }", n, list))
	}
	return strings.Join(lines, "\n")
}
