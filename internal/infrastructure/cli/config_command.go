package cli

import (
	"errors"
	"fmt"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/doeshing/wtf-go/internal/domain"
)

// NewConfigCmd wires the wtf-config command that edits the configuration file.
func NewConfigCmd(opts Options) *cobra.Command {
	opts = opts.withDefaults()

	root := &cobra.Command{
		Use:           "wtf-config",
		Short:         "Manage wtf configuration",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetIn(opts.Stdin)
	root.SetOut(opts.Stdout)
	root.SetErr(opts.Stderr)
	root.SetFlagErrorFunc(usageErrorFunc)

	root.AddCommand(
		&cobra.Command{
			Use:   "set-key <provider> <api-key>",
			Short: "Store the API key for a provider",
			Args:  usageArgs(cobra.ExactArgs(2)),
			RunE: func(cmd *cobra.Command, args []string) error {
				container, err := opts.container(cmd.Context(), false, 0)
				if err != nil {
					return err
				}
				defer container.Close()

				if err := container.ConfigStore.SetAPIKey(cmd.Context(), args[0], args[1]); err != nil {
					return err
				}
				fmt.Fprintf(opts.Stdout, "API key set for %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "set-default <provider>",
			Short: "Set the default provider",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE: func(cmd *cobra.Command, args []string) error {
				container, err := opts.container(cmd.Context(), false, 0)
				if err != nil {
					return err
				}
				defer container.Close()

				if err := container.ConfigStore.SetDefaultProvider(cmd.Context(), args[0]); err != nil {
					return err
				}
				fmt.Fprintf(opts.Stdout, "Default provider set to %s\n", args[0])
				return nil
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print the configuration with API keys masked",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				container, err := opts.container(cmd.Context(), false, 0)
				if err != nil {
					return err
				}
				defer container.Close()

				cfg, err := container.ConfigStore.Load(cmd.Context())
				if err != nil {
					return err
				}
				enc := yaml.NewEncoder(opts.Stdout)
				enc.SetIndent(2)
				if err := enc.Encode(cfg.Redacted()); err != nil {
					return err
				}
				return enc.Close()
			},
		},
		&cobra.Command{
			Use:   "diff",
			Short: "Show how the configuration differs from the built-in defaults",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				container, err := opts.container(cmd.Context(), false, 0)
				if err != nil {
					return err
				}
				defer container.Close()

				cfg, err := container.ConfigStore.Load(cmd.Context())
				if err != nil {
					return err
				}
				diff := cmp.Diff(domain.DefaultConfig().Redacted(), cfg.Redacted(), cmpopts.EquateEmpty())
				if diff == "" {
					fmt.Fprintln(opts.Stdout, "Configuration matches the defaults")
					return nil
				}
				fmt.Fprintln(opts.Stdout, "(-default +current)")
				fmt.Fprint(opts.Stdout, diff)
				return nil
			},
		},
		&cobra.Command{
			Use:   "doctor",
			Short: "Check configuration, API keys and history",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				container, err := opts.container(cmd.Context(), false, 0)
				if err != nil {
					return err
				}
				defer container.Close()

				report, err := container.DoctorService.Run(cmd.Context())
				renderHealth(opts.Stdout, report)
				if err != nil {
					return err
				}
				if report.Failed() {
					return errors.New("some checks failed")
				}
				return nil
			},
		},
		&cobra.Command{
			Use:   "path",
			Short: "Print the configuration file location",
			Args:  usageArgs(cobra.NoArgs),
			RunE: func(cmd *cobra.Command, _ []string) error {
				fmt.Fprintln(opts.Stdout, opts.Paths.ConfigFile)
				return nil
			},
		},
	)
	return root
}
