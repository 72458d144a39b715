package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"

	"github.com/blimu-dev/openapi-gen/internal/cli"
)

func main() {
	root := newRootCmd()
	root.AddCommand(newValidateCmd())

	if err := root.Execute(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var p cli.RunGenerateParams

	cmd := &cobra.Command{
		Use:           "openapi-gen",
		Short:         "Generate Go models, routes and TypeScript decoders from an OpenAPI document",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunGenerate(cmd.Context(), p)
		},
	}

	cmd.Flags().BoolVarP(&p.Verbose, "verbose", "v", false, "Log phase timings and counts")
	cmd.Flags().StringVarP(&p.Root, "root", "r", "", "Working directory to run in")
	cmd.Flags().StringVarP(&p.File, "file", "f", "", "OpenAPI document (yaml/json) to generate from")
	cmd.Flags().StringVarP(&p.Out, "out", "o", "", "Output base directory (models go to <out>/go and <out>/ts)")
	cmd.Flags().StringVarP(&p.ConfigPath, "config", "c", "", "Path to openapi-gen.yaml config")
	cmd.Flags().StringVar(&p.Document, "document", "", "Generate only the named document from config")

	return cmd
}

func newValidateCmd() *cobra.Command {
	var input string
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate an OpenAPI document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cli.RunValidate(cmd.Context(), input)
		},
	}
	cmd.Flags().StringVar(&input, "input", "", "OpenAPI document (yaml/json)")
	_ = cmd.MarkFlagRequired("input")
	return cmd
}
