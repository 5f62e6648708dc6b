package cmd

import (
	"github.com/spf13/cobra"

	"github.com/leanlens/leanlens/internal/iocache"
	"github.com/leanlens/leanlens/internal/mcp"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the LeanLens MCP server",
	Long:  `Launch an MCP server that allows AI agents to run waste analysis via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Stdio carries the protocol, so the logger setup in sharedSetup
		// writing to stderr keeps the transport clean.
		return sharedSetup(cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		store, err := iocache.NewReportStore(cfg.StoreBackend, cfg.StoreDBConnect)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
		return mcp.StartMCPServer(rootCtx, cfg, store)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
