package main

import (
	"errors"
	"fmt"

	"clicker_webapp/internal/app"
	"clicker_webapp/internal/domain"

	"github.com/spf13/cobra"
)

var (
	userID       int64
	userName     string
	userReferral string
	auditLimit   int
	auditCat     string
)

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "manage players",
}

var userCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "register a player (if missing) and print a session token pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, pool := connect(ctx)
		defer pool.Close()

		ladder, err := app.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		svc, err := app.NewServices(cfg, pool, ladder)
		if err != nil {
			return err
		}

		_, err = svc.Accounts.Register(ctx, domain.Registration{
			ID:           userID,
			Username:     userName,
			FirstName:    userName,
			ReferralCode: userReferral,
		})
		switch {
		case errors.Is(err, domain.ErrAlreadyRegistered):
			fmt.Fprintf(cmd.OutOrStdout(), "user %d already exists\n", userID)
		case err != nil:
			return err
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "user %d created\n", userID)
		}

		tokens, err := svc.Accounts.IssueTokens(userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "access_token=%s\nrefresh_token=%s\n", tokens.AccessToken, tokens.RefreshToken)
		return nil
	},
}

var userAuditCmd = &cobra.Command{
	Use:   "audit",
	Short: "print the player's recent audit log, or a whole category with --category",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		cfg, pool := connect(ctx)
		defer pool.Close()

		ladder, err := app.Migrate(ctx, pool)
		if err != nil {
			return err
		}
		svc, err := app.NewServices(cfg, pool, ladder)
		if err != nil {
			return err
		}

		var logs []*domain.AuditLog
		if auditCat != "" {
			logs, err = svc.Audit.GetLogsByCategory(ctx, auditCat, auditLimit)
		} else {
			logs, err = svc.Audit.GetUserAuditLogs(ctx, userID, auditLimit)
		}
		if err != nil {
			return err
		}
		for _, l := range logs {
			fmt.Fprintf(cmd.OutOrStdout(), "%s  %-12d %-9s %-20s %v\n",
				l.CreatedAt.Format("2006-01-02 15:04:05"), l.UserID, l.Category, l.Action, l.Details)
		}
		return nil
	},
}

func init() {
	userCmd.PersistentFlags().Int64Var(&userID, "id", 1234567890, "telegram user id")
	userCreateCmd.Flags().StringVar(&userName, "username", "testuser", "username")
	userCreateCmd.Flags().StringVar(&userReferral, "ref", "", "referral code of the inviting player")
	userAuditCmd.Flags().IntVar(&auditLimit, "limit", 50, "number of entries")
	userAuditCmd.Flags().StringVar(&auditCat, "category", "", "auth, referral, economy or task")

	userCmd.AddCommand(userCreateCmd, userAuditCmd)
	rootCmd.AddCommand(userCmd)
}
