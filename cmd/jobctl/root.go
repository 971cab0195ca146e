package main

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"jobpilot/internal/infra"
)

const app = "jobctl"

var (
	cfgFile string

	rootCmd = &cobra.Command{
		Use:          app,
		Short:        "jobctl administers the jobpilot database and runs one-off auto-apply batches",
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "optional jobctl.yaml with flag defaults")
	rootCmd.PersistentFlags().String("database-url", "", "PostgreSQL connection string (env DATABASE_URL)")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "verbose SQL logging")

	_ = viper.BindPFlag("database-url", rootCmd.PersistentFlags().Lookup("database-url"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
	_ = viper.BindEnv("database-url", "DATABASE_URL")
}

func initConfig() {
	if cfgFile == "" {
		return
	}
	viper.SetConfigFile(cfgFile)
	cobra.CheckErr(viper.ReadInConfig())
}

func databaseURL() (string, error) {
	url := strings.TrimSpace(viper.GetString("database-url"))
	if url == "" {
		return "", errors.New("database url is required (--database-url or DATABASE_URL)")
	}
	return url, nil
}

func cliLogger(cmd string) infra.Logger {
	env := "production"
	if viper.GetBool("debug") {
		env = "development"
	}
	return infra.NewLogger(env).With().Str("cmd", cmd).Logger()
}

// openRunner connects with the pgx pool used by the services.
func openRunner(ctx context.Context, cmd string) (*infra.SQLRunner, *pgxpool.Pool, error) {
	url, err := databaseURL()
	if err != nil {
		return nil, nil, err
	}
	pool, err := infra.NewDBPool(ctx, &infra.Config{DatabaseURL: url})
	if err != nil {
		return nil, nil, err
	}
	return infra.NewSQLRunner(pool, cliLogger(cmd)), pool, nil
}

func commandContext(cmd *cobra.Command, timeout time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), timeout)
}
