package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobpilot/internal/infra/credentials"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage collaborator API tokens",
}

var tokenSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Store an API token for " + strings.Join(credentials.KnownProviders(), ", "),
	RunE: func(cmd *cobra.Command, _ []string) error {
		provider := strings.ToLower(strings.TrimSpace(viper.GetString("token.provider")))
		token := viper.GetString("token.value")

		ctx, cancel := commandContext(cmd, 10*time.Second)
		defer cancel()
		runner, pool, err := openRunner(ctx, "token")
		if err != nil {
			return err
		}
		defer pool.Close()

		props := map[string]any{"updated_by": app, "updated_at": time.Now().UTC().Format(time.RFC3339)}
		if err := credentials.NewStore(runner).Set(ctx, provider, token, props); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s token stored\n", provider)
		return nil
	},
}

func init() {
	tokenSetCmd.Flags().String("provider", "", "provider name")
	tokenSetCmd.Flags().String("token", "", "token value (env JOBCTL_TOKEN)")
	_ = viper.BindPFlag("token.provider", tokenSetCmd.Flags().Lookup("provider"))
	_ = viper.BindPFlag("token.value", tokenSetCmd.Flags().Lookup("token"))
	_ = viper.BindEnv("token.value", "JOBCTL_TOKEN")

	tokenCmd.AddCommand(tokenSetCmd)
	rootCmd.AddCommand(tokenCmd)
}
