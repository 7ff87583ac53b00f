package config

import (
	"flag"
	"os"
	"strconv"
	"strings"
	"time"
)

// envBinding ties NUMCALC_<key> to the flags that take precedence over it.
type envBinding struct {
	key   string
	flags []string
	set   func(*AppConfig, string)
}

// Unparsable values leave the field unchanged.
var envBindings = []envBinding{
	{"WORKERS", []string{"workers"}, intSetter(func(c *AppConfig) *int { return &c.Workers })},
	{"MAX_EXP", []string{"max-exp"}, func(c *AppConfig, v string) {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.MaxPowerExp = n
		}
	}},
	{"MAX_LEN", []string{"max-len"}, intSetter(func(c *AppConfig) *int { return &c.MaxExprLen })},
	{"TIMEOUT", []string{"timeout"}, func(c *AppConfig, v string) {
		if d, err := time.ParseDuration(v); err == nil {
			c.Timeout = d
		}
	}},
	{"EXPR", []string{"e", "expr"}, func(c *AppConfig, v string) {
		for _, e := range strings.Split(v, ";") {
			if e = strings.TrimSpace(e); e != "" {
				c.Exprs = append(c.Exprs, e)
			}
		}
	}},
	{"FILE", []string{"f", "file"}, stringSetter(func(c *AppConfig) *string { return &c.BatchFile })},
	{"ADDR", []string{"addr"}, stringSetter(func(c *AppConfig) *string { return &c.Addr })},
	{"OUTPUT", []string{"o", "output"}, stringSetter(func(c *AppConfig) *string { return &c.OutputFile })},
	{"THEME", []string{"theme"}, stringSetter(func(c *AppConfig) *string { return &c.Theme })},
	{"LOG_LEVEL", []string{"log-level"}, stringSetter(func(c *AppConfig) *string { return &c.LogLevel })},
	{"VERBOSE", []string{"v", "verbose"}, boolSetter(func(c *AppConfig) *bool { return &c.Verbose })},
	{"QUIET", []string{"q", "quiet"}, boolSetter(func(c *AppConfig) *bool { return &c.Quiet })},
	{"DUMP", []string{"dump"}, boolSetter(func(c *AppConfig) *bool { return &c.Dump })},
	{"NO_COLOR", []string{"no-color"}, boolSetter(func(c *AppConfig) *bool { return &c.NoColor })},
	{"TUI", []string{"tui"}, boolSetter(func(c *AppConfig) *bool { return &c.TUI })},
	{"SERVE", []string{"serve"}, boolSetter(func(c *AppConfig) *bool { return &c.Serve })},
}

func intSetter(field func(*AppConfig) *int) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if n, err := strconv.Atoi(v); err == nil {
			*field(c) = n
		}
	}
}

func stringSetter(field func(*AppConfig) *string) func(*AppConfig, string) {
	return func(c *AppConfig, v string) { *field(c) = v }
}

func boolSetter(field func(*AppConfig) *bool) func(*AppConfig, string) {
	return func(c *AppConfig, v string) {
		if b, ok := parseEnvBool(v); ok {
			*field(c) = b
		}
	}
}

// parseEnvBool accepts true/1/yes/on and false/0/no/off in any case.
func parseEnvBool(v string) (value, ok bool) {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "true", "1", "yes", "on":
		return true, true
	case "false", "0", "no", "off":
		return false, true
	}
	return false, false
}

// applyEnvOverrides fills cfg from NUMCALC_* variables. A flag given on the
// command line, in either spelling, wins over its variable.
func applyEnvOverrides(cfg *AppConfig, fs *flag.FlagSet) {
	explicit := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { explicit[f.Name] = true })

	for _, b := range envBindings {
		if anyExplicit(explicit, b.flags) {
			continue
		}
		if v, ok := os.LookupEnv(EnvPrefix + b.key); ok && v != "" {
			b.set(cfg, v)
		}
	}
}

func anyExplicit(explicit map[string]bool, names []string) bool {
	for _, n := range names {
		if explicit[n] {
			return true
		}
	}
	return false
}
