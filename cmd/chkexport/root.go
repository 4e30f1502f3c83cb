package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

const toolPathEnvVar = "CHKEXPORT_TOOL"

func newRootCommand() *cobra.Command {
	var configFlag string
	var toolFlag string

	rootCmd := &cobra.Command{
		Use:   "chkexport [input-path]",
		Short: "Batch-export .chk archives through the external extraction tool",
		Long: `chkexport discovers .chk archives under the input path, runs the external
extraction tool once per file, skips inputs completed on prior runs, and
writes a manifest of the output files the batch produced.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) > 1 {
				return &usageError{fmt.Errorf("expected one input path, got %d arguments", len(args))}
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			return runExport(cmd, configFlag, toolFlag, args[0])
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "configuration file path")
	rootCmd.Flags().StringVarP(&toolFlag, "tool", "t", "", "extraction tool path (overrides "+toolPathEnvVar+" and the config)")
	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err}
	})

	rootCmd.AddCommand(newHistoryCommand(&configFlag))
	rootCmd.AddCommand(newConfigCommand(&configFlag))

	return rootCmd
}
