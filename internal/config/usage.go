// Package config provides the configuration management for the combicalc
// application. This file renders the grouped, colored usage message.
package config

import (
	"flag"
	"fmt"
	"strings"

	"github.com/agbru/combicalc/internal/ui"
)

// flagGroup lists flags shown together under one heading in the usage text.
type flagGroup struct {
	title string
	names []string
}

var usageGroups = []flagGroup{
	{"Space", []string{"op", "n", "k", "workers", "rank", "combination"}},
	{"Execution", []string{"algo", "timeout"}},
	{"Output", []string{"json", "quiet", "output", "v", "no-color"}},
	{"Server", []string{"server", "port"}},
	{"Misc", []string{"completion"}},
}

// shorthands maps long flag names to their one-letter aliases.
var shorthands = map[string]string{
	"workers": "w",
	"output":  "o",
	"quiet":   "q",
}

// setCustomUsage installs a usage function that groups the flags by concern
// and shows the environment variable that can replace each of them.
func setCustomUsage(fs *flag.FlagSet) {
	fs.Usage = func() {
		out := fs.Output()
		fmt.Fprintf(out, "%sUsage:%s %s [options]\n\n", ui.ColorBold(), ui.ColorReset(), fs.Name())
		fmt.Fprintf(out, "Counts, ranks, unranks and partitions the k-combinations of {0..n-1}.\n")

		for _, group := range usageGroups {
			fmt.Fprintf(out, "\n%s%s:%s\n", ui.ColorBlue(), group.title, ui.ColorReset())
			for _, name := range group.names {
				f := fs.Lookup(name)
				if f == nil {
					continue
				}
				label := "-" + name
				if short, ok := shorthands[name]; ok {
					label = fmt.Sprintf("-%s, -%s", short, name)
				}
				fmt.Fprintf(out, "  %s%-22s%s %s", ui.ColorGreen(), label, ui.ColorReset(), f.Usage)
				if f.DefValue != "" && f.DefValue != "false" {
					fmt.Fprintf(out, " (default %s)", f.DefValue)
				}
				if env := envName(name); env != "" {
					fmt.Fprintf(out, " %s[$%s]%s", ui.ColorCyan(), env, ui.ColorReset())
				}
				fmt.Fprintln(out)
			}
		}

		fmt.Fprintf(out, "\n%sExamples:%s\n", ui.ColorBlue(), ui.ColorReset())
		fmt.Fprintf(out, "  %s -op count -n 20000 -k 3\n", fs.Name())
		fmt.Fprintf(out, "  %s -op unrank -n 52 -k 5 -rank 1299480\n", fs.Name())
		fmt.Fprintf(out, "  %s -op partition -n 100 -k 6 -workers 8 -o plan.json\n", fs.Name())
		fmt.Fprintf(out, "  %s -server -port 8080\n", fs.Name())
	}
}

// envName returns the environment variable that overrides a flag, or "" if
// the flag has none.
func envName(flagName string) string {
	switch flagName {
	case "v":
		return EnvPrefix + "VERBOSE"
	case "completion":
		return ""
	}
	return EnvPrefix + strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}
