package main

import (
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/ekaya-inc/jumpserver-mcp/pkg/config"
	"github.com/ekaya-inc/jumpserver-mcp/pkg/services"
)

func resolveCmd() *cobra.Command {
	var params services.ResolveParams

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Resolve a database asset into temporary credentials",
		Long:  "Run the credential workflow once and print the connection details as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(Version)
			if err != nil {
				return err
			}

			a, err := newApp(cfg)
			if err != nil {
				return err
			}
			defer a.Close()

			creds, err := a.service.Resolve(cmd.Context(), params)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(creds)
		},
	}

	cmd.Flags().StringVar(&params.AssetName, "asset", services.DefaultAssetName, "JumpServer database asset name")
	cmd.Flags().StringVar(&params.Account, "account", services.DefaultAccount, "JumpServer account name")
	cmd.Flags().StringVar(&params.OrgID, "org", "", "JumpServer organization ID (default from JUMPSERVER_ORG_ID)")

	return cmd
}
