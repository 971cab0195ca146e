package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"jobpilot/internal/adapter/repo"
	"jobpilot/internal/domain"
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Manage user plans",
}

var planSetCmd = &cobra.Command{
	Use:   "set",
	Short: "Assign a plan to a user identified by --id or --email",
	RunE: func(cmd *cobra.Command, _ []string) error {
		id, _ := cmd.Flags().GetString("id")
		email, _ := cmd.Flags().GetString("email")
		planName, _ := cmd.Flags().GetString("plan")
		id, email = strings.TrimSpace(id), strings.TrimSpace(email)
		if id == "" && email == "" {
			return errors.New("either --id or --email must be provided")
		}
		plan, err := domain.ParsePlan(planName)
		if err != nil {
			return fmt.Errorf("%w %q", err, planName)
		}

		ctx, cancel := commandContext(cmd, 10*time.Second)
		defer cancel()
		runner, pool, err := openRunner(ctx, "plan")
		if err != nil {
			return err
		}
		defer pool.Close()
		users := repo.NewUserRepository(runner)

		if id == "" {
			user, err := users.GetByLogin(ctx, email)
			if err != nil {
				return fmt.Errorf("load user %s: %w", email, err)
			}
			id = user.ID
		}
		user, err := users.UpdatePlan(ctx, id, plan)
		if err != nil {
			return fmt.Errorf("update plan: %w", err)
		}
		quota := "unlimited"
		if q := user.Plan.MonthlyQuota(); q != domain.UnlimitedQuota {
			quota = fmt.Sprintf("%d/month", q)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "user %s (%s) is now on plan %s, quota %s\n", user.ID, user.Email, user.Plan, quota)
		return nil
	},
}

func init() {
	planSetCmd.Flags().String("id", "", "user ID (UUID)")
	planSetCmd.Flags().String("email", "", "user email")
	planSetCmd.Flags().String("plan", string(domain.UserPlanStarter), "free, starter, professional or enterprise")
	planCmd.AddCommand(planSetCmd)
	rootCmd.AddCommand(planCmd)
}
