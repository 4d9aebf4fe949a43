// Package flagx lets several flag sets share one argument list: the config
// file flag, the server flags and the admin tool's command name.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// splitFlag reports whether arg looks like a flag, and separates an inline
// "=value" from its name.
func splitFlag(arg string) (name string, inline bool, ok bool) {
	if !strings.HasPrefix(arg, "-") || arg == "-" {
		return "", false, false
	}
	name, _, inline = strings.Cut(arg, "=")
	return name, inline, true
}

// FilterArgs returns the subset of args made of the allowed flags and their
// values, in their original order. Both "-b memory" and "-b=memory" are
// recognised; a token starting with "-" is never consumed as a value.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]bool, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = true
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, inline, ok := splitFlag(args[i])
		if !ok || !allowed[name] {
			continue
		}
		out = append(out, args[i])
		if inline {
			continue
		}
		if next := i + 1; next < len(args) && !strings.HasPrefix(args[next], "-") {
			out = append(out, args[next])
			i = next
		}
	}
	return out
}

// ConfigPath returns the JSON config file named by -c or -config, or "".
// The last occurrence wins.
func ConfigPath(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to config file")
	fs.StringVar(&path, "c", "", "path to config file (short)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

// SplitCommand takes a leading non-flag token as a command name and returns
// it with the remaining args. Without one, cmd is "" and args are unchanged.
func SplitCommand(args []string) (cmd string, rest []string) {
	if len(args) == 0 || strings.HasPrefix(args[0], "-") {
		return "", args
	}
	return args[0], args[1:]
}
