// Package cli provides shell completion script generation for various shells.
package cli

import (
	"fmt"
	"io"
	"strings"
)

// completionFlag describes one flag for the completion scripts.
type completionFlag struct {
	name   string
	short  string
	desc   string
	values []string
	file   bool
}

// completionFlags lists the flags offered by every completion script. The
// algo values are filled in from the registered counters.
func completionFlags(counters []string) []completionFlag {
	return []completionFlag{
		{name: "help", short: "h", desc: "Show help message"},
		{name: "version", short: "V", desc: "Show version information"},
		{name: "op", desc: "Operation to run", values: []string{"count", "rank", "unrank", "partition", "sweep"}},
		{name: "n", desc: "Universe size"},
		{name: "k", desc: "Selection size"},
		{name: "workers", short: "w", desc: "Number of workers", values: []string{"1", "2", "4", "8", "16"}},
		{name: "rank", desc: "Rank to decode"},
		{name: "combination", desc: "Combination to rank, e.g. 0,1,3"},
		{name: "algo", desc: "Counter to use", values: append(append([]string{}, counters...), "all")},
		{name: "timeout", desc: "Maximum execution time", values: []string{"1m", "5m", "10m", "30m", "1h"}},
		{name: "v", desc: "Verbose output"},
		{name: "json", desc: "Output in JSON format"},
		{name: "quiet", short: "q", desc: "Quiet mode for scripts"},
		{name: "output", short: "o", desc: "Partition plan file", file: true},
		{name: "no-color", desc: "Disable colored output"},
		{name: "server", desc: "Start HTTP server mode"},
		{name: "port", desc: "Server port", values: []string{"8080", "3000", "5000", "9000"}},
		{name: "completion", desc: "Generate completion script", values: []string{"bash", "zsh", "fish", "powershell"}},
	}
}

// GenerateCompletion generates a shell completion script for the specified shell.
//
// Parameters:
//   - out: The writer to output the completion script.
//   - shell: The shell type ("bash", "zsh", "fish", "powershell").
//   - counters: The registered counter names offered for -algo.
//
// Returns:
//   - error: An error if the shell is not supported or the write fails.
func GenerateCompletion(out io.Writer, shell string, counters []string) error {
	flags := completionFlags(counters)
	var script string
	switch shell {
	case "bash":
		script = bashCompletion(flags)
	case "zsh":
		script = zshCompletion(flags)
	case "fish":
		script = fishCompletion(flags)
	case "powershell", "ps":
		script = powerShellCompletion(flags)
	default:
		return fmt.Errorf("unsupported shell: %s (accepted values: bash, zsh, fish, powershell)", shell)
	}
	_, err := io.WriteString(out, script)
	return err
}

// flagNames returns the dashed spellings of a flag, long form first.
func (f completionFlag) flagNames() []string {
	names := []string{"-" + f.name}
	if len(f.name) > 1 {
		names = append(names, "--"+f.name)
	}
	if f.short != "" {
		names = append(names, "-"+f.short)
	}
	return names
}

func bashCompletion(flags []completionFlag) string {
	var b strings.Builder
	b.WriteString("# Bash completion script for combicalc\n")
	b.WriteString("# Add this to your ~/.bashrc or ~/.bash_completion\n\n")
	b.WriteString("_combicalc_completions() {\n")
	b.WriteString("    local cur prev opts\n")
	b.WriteString("    COMPREPLY=()\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n\n")

	var opts []string
	for _, f := range flags {
		opts = append(opts, f.flagNames()...)
	}
	fmt.Fprintf(&b, "    opts=%q\n\n", strings.Join(opts, " "))

	b.WriteString("    case \"${prev}\" in\n")
	for _, f := range flags {
		switch {
		case f.file:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=( $(compgen -f -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(f.flagNames(), "|"))
		case len(f.values) > 0:
			fmt.Fprintf(&b, "        %s)\n            COMPREPLY=( $(compgen -W %q -- \"${cur}\") )\n            return 0\n            ;;\n",
				strings.Join(f.flagNames(), "|"), strings.Join(f.values, " "))
		}
	}
	b.WriteString("    esac\n\n")
	b.WriteString("    if [[ \"${cur}\" == -* ]]; then\n")
	b.WriteString("        COMPREPLY=( $(compgen -W \"${opts}\" -- \"${cur}\") )\n")
	b.WriteString("        return 0\n")
	b.WriteString("    fi\n")
	b.WriteString("}\n\n")
	b.WriteString("complete -F _combicalc_completions combicalc\n")
	return b.String()
}

func zshCompletion(flags []completionFlag) string {
	var b strings.Builder
	b.WriteString("#compdef combicalc\n\n")
	b.WriteString("# Zsh completion script for combicalc\n")
	b.WriteString("# Add this to your ~/.zshrc or place in $fpath\n\n")
	b.WriteString("_combicalc() {\n")
	b.WriteString("    _arguments -s")
	for _, f := range flags {
		spec := ""
		switch {
		case f.file:
			spec = ":file:_files"
		case len(f.values) > 0:
			spec = fmt.Sprintf(":%s:(%s)", f.name, strings.Join(f.values, " "))
		}
		names := f.flagNames()
		if len(names) == 1 {
			fmt.Fprintf(&b, " \\\n        '%s[%s]%s'", names[0], f.desc, spec)
			continue
		}
		fmt.Fprintf(&b, " \\\n        '(%s)'{%s}'[%s]%s'",
			strings.Join(names, " "), strings.Join(names, ","), f.desc, spec)
	}
	b.WriteString("\n}\n\n_combicalc \"$@\"\n")
	return b.String()
}

func fishCompletion(flags []completionFlag) string {
	var b strings.Builder
	b.WriteString("# Fish completion script for combicalc\n")
	b.WriteString("# Add this to ~/.config/fish/completions/combicalc.fish\n\n")
	b.WriteString("complete -c combicalc -f\n")
	for _, f := range flags {
		line := "complete -c combicalc"
		if f.short != "" {
			line += " -s " + f.short
		}
		if len(f.name) == 1 {
			line += " -o " + f.name
		} else {
			line += " -l " + f.name
		}
		line += fmt.Sprintf(" -d '%s'", f.desc)
		switch {
		case f.file:
			line += " -rF"
		case len(f.values) > 0:
			line += fmt.Sprintf(" -xa '%s'", strings.Join(f.values, " "))
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

func powerShellCompletion(flags []completionFlag) string {
	var b strings.Builder
	b.WriteString("# PowerShell completion script for combicalc\n")
	b.WriteString("# Add this to your $PROFILE\n\n")
	b.WriteString("Register-ArgumentCompleter -CommandName 'combicalc' -Native -ScriptBlock {\n")
	b.WriteString("    param($wordToComplete, $commandAst, $cursorPosition)\n\n")
	b.WriteString("    $options = @(\n")
	for _, f := range flags {
		for _, name := range f.flagNames() {
			fmt.Fprintf(&b, "        @{Name = '%s'; Description = '%s' }\n", name, f.desc)
		}
	}
	b.WriteString("    )\n\n")
	b.WriteString("    $elements = $commandAst.CommandElements\n")
	b.WriteString("    $prevElement = if ($elements.Count -gt 2) { $elements[-2].ToString() } else { '' }\n\n")
	b.WriteString("    switch ($prevElement) {\n")
	for _, f := range flags {
		if len(f.values) == 0 {
			continue
		}
		quoted := make([]string, len(f.values))
		for i, v := range f.values {
			quoted[i] = "'" + v + "'"
		}
		names := make([]string, 0, 3)
		for _, name := range f.flagNames() {
			names = append(names, "'"+name+"'")
		}
		fmt.Fprintf(&b, "        { $_ -in @(%s) } {\n", strings.Join(names, ", "))
		fmt.Fprintf(&b, "            @(%s) | Where-Object { $_ -like \"$wordToComplete*\" } | ForEach-Object {\n", strings.Join(quoted, ", "))
		b.WriteString("                [System.Management.Automation.CompletionResult]::new($_, $_, 'ParameterValue', $_)\n")
		b.WriteString("            }\n")
		b.WriteString("            return\n")
		b.WriteString("        }\n")
	}
	b.WriteString("    }\n\n")
	b.WriteString("    $options | Where-Object { $_.Name -like \"$wordToComplete*\" } | ForEach-Object {\n")
	b.WriteString("        [System.Management.Automation.CompletionResult]::new($_.Name, $_.Name, 'ParameterName', $_.Description)\n")
	b.WriteString("    }\n")
	b.WriteString("}\n")
	return b.String()
}
