package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Vladistone/godialog"
	"github.com/Vladistone/godialog/internal/cli"
)

// Version is set at build time
var Version = "dev"

// Exit codes follow the zenity convention: 0 success, 1 cancelled, 2 failed
const (
	exitCancelled = 1
	exitFailed    = 2
)

var (
	flagTitle    string
	flagText     string
	flagDefault  string
	flagFilters  []string
	flagMultiple bool
	flagHidden   bool
	flagTimeout  time.Duration
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	config, err := cli.LoadConfig()
	if err != nil {
		log.Printf("Warning: failed to load config: %v", err)
		config = cli.DefaultConfig()
	}
	if config.Script != "" {
		src, err := os.ReadFile(config.Script)
		if err != nil {
			log.Printf("Warning: failed to read script %s: %v", config.Script, err)
		} else {
			godialog.SetScript(src)
		}
	}

	rootCmd := &cobra.Command{
		Use:     "godialog",
		Short:   "Show native OS dialogs from the command line",
		Version: Version,
		Long: `godialog shows native operating-system dialogs and prints the result.

Selected paths go to stdout, one per line. Exit codes follow the zenity
convention: 0 on success, 1 when the user cancelled, 2 on failure.

The backend is picked per platform and desktop session: Cocoa panels,
the xdg-desktop-portal file chooser, kdialog/zenity, or PowerShell.
A Tengo script (config key "script") can answer dialogs for automation.`,
	}

	rootCmd.PersistentFlags().StringVar(&flagTitle, "title", "", "dialog title")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", config.Timeout,
		"kill external dialog processes after this duration (0 disables)")

	dialogCmds := []struct {
		use   string
		short string
		kind  godialog.Kind
	}{
		{"open-file", "Pick one file", godialog.KindOpenFile},
		{"open-files", "Pick multiple files", godialog.KindOpenFiles},
		{"open-folder", "Pick a folder", godialog.KindOpenFolder},
		{"save-file", "Pick a file name to save to", godialog.KindSaveFile},
		{"message", "Ask a yes/no question", godialog.KindMessage},
		{"color", "Pick a color", godialog.KindColor},
		{"font", "Pick a font", godialog.KindFont},
	}

	for _, c := range dialogCmds {
		kind := c.kind
		cmd := &cobra.Command{
			Use:   c.use,
			Short: c.short,
			Run: func(cmd *cobra.Command, args []string) {
				os.Exit(runDialog(kind))
			},
		}
		switch kind {
		case godialog.KindOpenFile, godialog.KindOpenFiles, godialog.KindSaveFile:
			cmd.Flags().StringSliceVar(&flagFilters, "filter", nil,
				`file filter as "Label:ext1,ext2" (repeatable)`)
			cmd.Flags().StringVar(&flagDefault, "default", "", "initial path")
			cmd.Flags().BoolVar(&flagHidden, "show-hidden", false, "show hidden files")
			if kind == godialog.KindOpenFile {
				cmd.Flags().BoolVar(&flagMultiple, "multiple", false, "allow multiple selection")
			}
		case godialog.KindOpenFolder:
			cmd.Flags().StringVar(&flagDefault, "default", "", "initial path")
		case godialog.KindMessage:
			cmd.Flags().StringVar(&flagText, "text", "", "message body")
		}
		rootCmd.AddCommand(cmd)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "backends",
		Short: "List probed dialog backends for this session",
		Run: func(cmd *cobra.Command, args []string) {
			os.Exit(runBackends())
		},
	})

	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitFailed)
	}
}

func runDialog(kind godialog.Kind) int {
	req := &godialog.Request{
		Kind:        kind,
		Title:       flagTitle,
		Text:        flagText,
		DefaultPath: flagDefault,
		Filters:     parseFilters(flagFilters),
		Options: godialog.Options{
			AllowMultiple: flagMultiple,
			ShowHidden:    flagHidden,
		},
	}

	kit := godialog.New(&godialog.Config{Timeout: flagTimeout})
	defer kit.Close()

	res := kit.Show(context.Background(), req)
	switch res.Outcome {
	case godialog.OutcomeSelected:
		for _, p := range res.Paths {
			fmt.Println(p)
		}
	case godialog.OutcomeConfirmed:
		if !res.Confirmed {
			return exitCancelled
		}
	case godialog.OutcomeColor:
		fmt.Println(res.Color)
	case godialog.OutcomeFont:
		fmt.Printf("%s %g\n", res.Font.Family, res.Font.Size)
	case godialog.OutcomeCancelled:
		return exitCancelled
	case godialog.OutcomeFailed:
		fmt.Fprintf(os.Stderr, "godialog: %v\n", res.Err)
		return exitFailed
	}
	return 0
}

func runBackends() int {
	kit := godialog.New(nil)
	defer kit.Close()

	backends, err := kit.Registry().Backends()
	if err != nil {
		fmt.Fprintf(os.Stderr, "godialog: %v\n", err)
		return exitFailed
	}
	for _, d := range backends {
		kinds := make([]string, 0, len(d.Kinds()))
		for _, k := range d.Kinds() {
			kinds = append(kinds, string(k))
		}
		fmt.Printf("%-12s priority=%-3d mode=%-16s kinds=%s\n",
			d.ID, d.Priority, d.Mode, strings.Join(kinds, ","))
	}
	return 0
}

// parseFilters converts "Label:png,jpg" strings into filters
func parseFilters(specs []string) []godialog.Filter {
	filters := make([]godialog.Filter, 0, len(specs))
	for _, spec := range specs {
		label := ""
		exts := spec
		if idx := strings.IndexByte(spec, ':'); idx >= 0 {
			label = spec[:idx]
			exts = spec[idx+1:]
		}
		f := godialog.Filter{Label: label}
		for _, e := range strings.Split(exts, ",") {
			if e = strings.TrimSpace(e); e != "" {
				f.Extensions = append(f.Extensions, e)
			}
		}
		if len(f.Extensions) > 0 {
			filters = append(filters, f)
		}
	}
	return filters
}
