package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	cPrompt   = color.New(color.FgCyan, color.Bold)
	cError    = color.New(color.FgRed, color.Bold)
	cCmd      = color.New(color.FgYellow, color.Bold)
	cGreeting = color.New(color.Bold)
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start an interactive REPL session",
	Long:  "Open a persistent session against the history store and the last run. Type 'help' for available commands.",
	Args:  cobra.NoArgs,
	RunE:  runShell,
}

// shellHandlers maps REPL verbs to the command handlers they share with the
// CLI. min is the number of required arguments.
var shellHandlers = map[string]struct {
	min int
	run func(*cobra.Command, []string) error
}{
	"list":    {0, runList},
	"summary": {0, runSummary},
	"history": {1, runHistory},
	"trend":   {1, runTrend},
	"improve": {1, runImprove},
	"show":    {0, runShow},
}

func runShell(cmd *cobra.Command, _ []string) error {
	cGreeting.Println("poolstats shell")
	cMuted.Println("type 'help' or 'exit'")
	fmt.Println()

	scanner := bufio.NewScanner(os.Stdin)
	for {
		cPrompt.Print("poolstats")
		cMuted.Print("> ")
		if !scanner.Scan() {
			fmt.Println()
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		tokens := strings.Fields(line)
		verb, args := tokens[0], tokens[1:]

		switch verb {
		case "exit", "quit":
			return nil
		case "help":
			shellHelp()
			continue
		}

		h, ok := shellHandlers[verb]
		if !ok {
			cWarn.Fprintf(os.Stderr, "unknown command %q, type 'help'\n", verb)
			continue
		}
		if len(args) < h.min {
			cError.Fprintf(os.Stderr, "usage: %s <participant>\n", verb)
			continue
		}
		if err := runShellVerb(cmd, verb, args, h.run); err != nil {
			cError.Fprintf(os.Stderr, "error: %v\n", err)
		}
	}
	return nil
}

// runShellVerb maps positional REPL arguments onto the flag variables the
// handler reads, then restores them.
func runShellVerb(cmd *cobra.Command, verb string, args []string, run func(*cobra.Command, []string) error) error {
	switch verb {
	case "improve":
		from, to := improveFrom, improveTo
		defer func() { improveFrom, improveTo = from, to }()
		if len(args) > 1 {
			improveFrom = args[1]
		}
		if len(args) > 2 {
			improveTo = args[2]
		}
		args = args[:1]
	case "show":
		section := showSection
		defer func() { showSection = section }()
		showSection = "categories"
		if len(args) > 0 {
			showSection = args[0]
		}
		args = nil
	case "history", "trend":
		args = args[:1]
	}
	return run(cmd, args)
}

func shellHelp() {
	fmt.Println()
	type entry struct{ cmd, desc string }
	rows := []entry{
		{"list", "list recorded seasons"},
		{"summary", "per-participant history overview"},
		{"history <participant>", "season-by-season snapshots"},
		{"trend <participant>", "season-over-season deltas"},
		{"improve <participant> [from] [to]", "compare two seasons"},
		{"show [categories|odds|h2h]", "print the last stored run"},
		{"help", "show this message"},
		{"exit / quit", "close the session"},
	}
	for _, r := range rows {
		fmt.Print("  ")
		cCmd.Printf("%-38s", r.cmd)
		fmt.Println(r.desc)
	}
	fmt.Println()
}
