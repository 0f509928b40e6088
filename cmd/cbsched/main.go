package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"
	"golang.org/x/term"

	"github.com/flowir/cbsched/cmdbuffer"
	"github.com/flowir/cbsched/hlo"
	"github.com/flowir/cbsched/hlotext"
)

func main() {
	var (
		input       = flag.String("input", "", "Path to textual IR file")
		commands    = flag.String("commands", "", "Eligible command kinds, comma-separated (default: version-gated set)")
		minRun      = flag.Int("min", 1, "Minimum run length for a region")
		toolkit     = flag.Int("toolkit", 12030, "Build-time capability version")
		driver      = flag.Int("driver", 12030, "Runtime capability version")
		verbose     = flag.Bool("v", false, "Verbose pass logging")
		interactive = flag.Bool("i", false, "Interactive region browser")
	)
	flag.Parse()

	if *input == "" {
		fmt.Fprintln(os.Stderr, "Usage: cbsched -input <file.hlo> [-commands fusion,copy] [-min n]")
		fmt.Fprintln(os.Stderr, "       cbsched -input <file.hlo> -i  (interactive mode)")
		os.Exit(1)
	}

	kinds := commandKinds(*commands, int32(*toolkit), int32(*driver))

	if *interactive {
		if err := runInteractive(*input, kinds, *minRun, int32(*toolkit), int32(*driver)); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*input, kinds, *minRun, int32(*toolkit), int32(*driver), *verbose); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// commandKinds resolves the eligible command set. The capability-version
// policy lives here, in the caller: the pass consumes the resulting set as
// opaque data.
func commandKinds(commaList string, toolkitVersion, driverVersion int32) []hlo.OpKind {
	if commaList != "" {
		var kinds []hlo.OpKind
		for _, s := range strings.Split(commaList, ",") {
			if s = strings.TrimSpace(s); s != "" {
				kinds = append(kinds, hlo.OpKind(s))
			}
		}
		return kinds
	}

	// When compiled against a newer toolkit than the installed driver, only
	// features both support may be enabled.
	v := toolkitVersion
	if driverVersion < v {
		v = driverVersion
	}
	kinds := []hlo.OpKind{"fusion", "copy", "memset"}
	if v >= 12030 {
		kinds = append(kinds, "custom-call")
	}
	if v >= 12040 {
		kinds = append(kinds, "while", "conditional")
	}
	return kinds
}

func run(input string, kinds []hlo.OpKind, minRun int, toolkitVersion, driverVersion int32, verbose bool) error {
	src, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	mod, err := hlotext.Parse(string(src))
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}

	if verbose {
		log, err := zap.NewDevelopment()
		if err != nil {
			return fmt.Errorf("create logger: %w", err)
		}
		defer log.Sync()
		cmdbuffer.SetLogger(log)
	}

	styled := term.IsTerminal(int(os.Stdout.Fd()))
	heading := func(s string) string {
		if styled {
			return headingStyle.Render(s)
		}
		return s
	}

	fmt.Printf("%s\n%s\n", heading("Before:"), mod.String())

	pass := cmdbuffer.New(toolkitVersion, driverVersion, cmdbuffer.WithMinCommands(minRun))
	changed, err := pass.Run(mod, cmdbuffer.NewCommandConfig(kinds...))
	if err != nil {
		return fmt.Errorf("run pass: %w", err)
	}

	if !changed {
		fmt.Println(heading("No command buffer regions found."))
		return nil
	}

	if err := hlo.VerifyModule(mod); err != nil {
		return fmt.Errorf("verify transformed module: %w", err)
	}

	fmt.Printf("%s\n%s", heading("After:"), mod.String())
	return nil
}

var headingStyle = lipgloss.NewStyle().
	Bold(true).
	Foreground(lipgloss.Color("#FAFAFA")).
	Background(lipgloss.Color("#7D56F4")).
	Padding(0, 1)
