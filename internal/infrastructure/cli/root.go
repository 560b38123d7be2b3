package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/spf13/cobra"

	"github.com/doeshing/wtf-go/internal/app"
	"github.com/doeshing/wtf-go/internal/domain"
	"github.com/doeshing/wtf-go/internal/infrastructure/ai"
	"github.com/doeshing/wtf-go/internal/pkg/filesystem"
	"github.com/doeshing/wtf-go/internal/ports"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
	Paths   filesystem.Paths

	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer

	// Providers and Clipboard replace the real adapters when set.
	Providers ai.Options
	Clipboard ports.Clipboard
}

func (o Options) withDefaults() Options {
	if o.Paths.ConfigDir == "" {
		o.Paths = filesystem.DefaultPaths()
	}
	if o.Stdin == nil {
		o.Stdin = os.Stdin
	}
	if o.Stdout == nil {
		o.Stdout = os.Stdout
	}
	if o.Stderr == nil {
		o.Stderr = os.Stderr
	}
	if o.Clipboard == nil {
		o.Clipboard = NewClipboard()
	}
	return o
}

func (o Options) container(ctx context.Context, verbose bool, timeout time.Duration) (*app.Container, error) {
	return app.BuildContainer(ctx, app.Options{
		Paths:     o.Paths,
		Verbose:   o.Verbose || verbose,
		Timeout:   timeout,
		Stdin:     o.Stdin,
		Stdout:    o.Stdout,
		Stderr:    o.Stderr,
		Providers: o.Providers,
	})
}

// NewRootCmd wires the cobra root command for wtf.
func NewRootCmd(opts Options) *cobra.Command {
	opts = opts.withDefaults()

	var (
		provider      string
		model         string
		execute       bool
		debug         bool
		showHistory   bool
		showLogsFlag  bool
		showConfig    bool
		lines         int
		follow        bool
		timeout       time.Duration
		exportHistory string
	)

	root := &cobra.Command{
		Use:   "wtf [description...]",
		Short: "WTF - Convert natural language to shell commands",
		Long: "wtf turns a plain-language description into a shell command using an AI provider.\n" +
			"The command is printed and copied to the clipboard, or run after confirmation with --execute.",
		Example: "  wtf find all go files modified today\n" +
			"  wtf -p anthropic -e show disk usage sorted by size\n" +
			"  wtf --history -n 5",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			container, err := opts.container(ctx, debug, timeout)
			if err != nil {
				return err
			}
			defer container.Close()

			switch {
			case showConfig:
				cfg, err := container.ConfigStore.Load(ctx)
				if err != nil {
					return err
				}
				renderConfig(opts.Stdout, cfg, container.Paths)
				return nil
			case showHistory:
				entries, err := container.HistoryStore.Load()
				if err != nil {
					return err
				}
				renderHistory(opts.Stdout, entries, lines, time.Now())
				return nil
			case showLogsFlag:
				ctx, stop := signal.NotifyContext(ctx, os.Interrupt)
				defer stop()
				return showLogs(ctx, opts.Stdout, container.Paths.LogFile, lines, follow, domain.LogFollowInterval)
			case exportHistory != "":
				n, err := container.HistoryStore.Export(ctx, exportHistory)
				if err != nil {
					return err
				}
				fmt.Fprintf(opts.Stderr, "Exported %d entries to %s\n", n, exportHistory)
				return nil
			}

			if len(args) == 0 {
				return &UsageError{Message: "Please provide a command description"}
			}

			if !container.ConfigStore.Exists() {
				renderWelcome(opts.Stderr, container.Paths)
			}

			service := container.TranslateService
			service.Prompter = NewPrompter(opts.Stdin, opts.Stderr)
			service.Clipboard = opts.Clipboard
			service.Indicator = NewSpinner(opts.Stderr)

			_, err = service.Run(ctx, domain.TranslateRequest{
				Words:    args,
				Provider: provider,
				Model:    model,
				Execute:  execute,
			})
			return err
		},
	}

	flags := root.Flags()
	flags.StringVarP(&provider, "provider", "p", "", "AI provider to use")
	flags.StringVarP(&model, "model", "m", "", "Model to use")
	flags.BoolVarP(&execute, "execute", "e", false, "Execute the generated command after confirmation")
	flags.BoolVarP(&debug, "debug", "d", false, "Show debug information")
	flags.BoolVar(&showHistory, "history", false, "Show command history")
	flags.BoolVar(&showLogsFlag, "logs", false, "Show debug logs")
	flags.BoolVar(&showConfig, "show-config", false, "Show current configuration")
	flags.IntVarP(&lines, "lines", "n", domain.DefaultHistoryLimit, "Number of lines to show for logs/history (0 for all)")
	flags.BoolVarP(&follow, "follow", "f", false, "Follow log output")
	flags.DurationVar(&timeout, "timeout", domain.DefaultRequestTimeout, "Time limit for the provider request")
	flags.StringVar(&exportHistory, "export-history", "", "Export history to a file (.db/.sqlite for SQLite, otherwise JSON Lines)")

	root.SetFlagErrorFunc(usageErrorFunc)
	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	return root
}
