package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "0.1.0"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "jumpserver-mcp",
		Short: "JumpServer database credentials MCP server",
		Long: "Resolve JumpServer database assets into temporary MySQL credentials, " +
			"exposed as an MCP tool over stdio or streamable HTTP",
		Version:      Version,
		SilenceUsage: true,
		// MCP clients launch the binary without arguments
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), serveOptions{})
		},
	}

	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(resolveCmd())

	return rootCmd
}
