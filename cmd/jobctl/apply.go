package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"jobpilot/internal/autoapply"
	"jobpilot/internal/bootstrap"
	"jobpilot/internal/infra"
)

const (
	PromptYes = "Yes"
	PromptNo  = "No"
)

var errAborted = errors.New("aborted")

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Run one auto-apply batch for a user",
	RunE: func(cmd *cobra.Command, _ []string) error {
		userID, _ := cmd.Flags().GetString("user")
		maxApps, _ := cmd.Flags().GetInt("max")
		yes, _ := cmd.Flags().GetBool("yes")
		userID = strings.TrimSpace(userID)
		if userID == "" {
			return errors.New("--user is required")
		}

		cfg, err := infra.LoadConfig()
		if err != nil {
			return err
		}
		if url, err := databaseURL(); err == nil {
			cfg.DatabaseURL = url
		}
		logger := cliLogger("apply")

		svc, err := bootstrap.Build(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer svc.Close()

		user, err := svc.Users.GetByID(cmd.Context(), userID)
		if err != nil {
			return fmt.Errorf("load user: %w", err)
		}
		limit := svc.AutoApply.ResolveCap(maxApps)
		if !yes {
			prompt := promptui.Select{
				Label: fmt.Sprintf("Send up to %d applications for %s?", limit, user.DisplayName()),
				Items: []string{PromptYes, PromptNo},
			}
			_, choice, err := prompt.Run()
			if err != nil {
				return err
			}
			if choice != PromptYes {
				return errAborted
			}
		}

		res, err := svc.AutoApply.Run(cmd.Context(), autoapply.Request{
			UserID:          user.ID,
			MaxApplications: limit,
			Trigger:         app,
		})
		if err != nil {
			return err
		}
		printResult(cmd.OutOrStdout(), res)
		return nil
	},
}

func printResult(w io.Writer, res *autoapply.Result) {
	fmt.Fprintln(w, res.Message)
	fmt.Fprintf(w, "found %d, sent %d, failed %d, skipped %d (cap %d)\n", res.JobsFound, res.Applications, res.Failed, res.Skipped, res.Cap)
	for _, r := range res.Results {
		line := fmt.Sprintf("  %-18s %s @ %s", r.Outcome, r.JobTitle, r.Company)
		if r.Error != "" {
			line += ": " + r.Error
		}
		fmt.Fprintln(w, line)
	}
}

func init() {
	applyCmd.Flags().String("user", "", "user ID")
	applyCmd.Flags().Int("max", 0, "maximum applications (0 uses the configured default)")
	applyCmd.Flags().BoolP("yes", "y", false, "do not ask for confirmation")
	rootCmd.AddCommand(applyCmd)
}
