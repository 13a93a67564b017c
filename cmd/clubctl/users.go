package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"trips-club/internal/auth"
)

func init() {
	rootCmd.AddCommand(userCmd)
	userCmd.AddCommand(userAddCmd)
	rootCmd.AddCommand(adminCmd)
	adminCmd.AddCommand(adminPromoteCmd)
	rootCmd.AddCommand(tokenCmd)

	userAddCmd.Flags().StringP("name", "n", "", "Display name")
	tokenCmd.Flags().Duration("ttl", 24*time.Hour, "Token lifetime")
}

var userCmd = &cobra.Command{
	Use:   "user",
	Short: "Manage members",
}

var userAddCmd = &cobra.Command{
	Use:   "add EMAIL",
	Short: "Create a member",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		user, err := current.users.CreateUser(cmd.Context(), args[0], name)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Created user %d <%s>\n", user.ID, user.Email)
		return nil
	},
}

var adminCmd = &cobra.Command{
	Use:   "admin",
	Short: "Manage admin access",
}

var adminPromoteCmd = &cobra.Command{
	Use:   "promote USER_ID ROLE",
	Short: "Grant SUPER_ADMIN or EDITOR to a user",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		admin, err := current.admin.PromoteUserToAdmin(cmd.Context(), userID, args[1], 0)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "User %d is now %s (admin id %d)\n", userID, admin.Role, admin.ID)
		return nil
	},
}

var tokenCmd = &cobra.Command{
	Use:   "token USER_ID",
	Short: "Mint a development bearer token for a user",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		userID, err := parseUserID(args[0])
		if err != nil {
			return err
		}
		user, err := current.users.GetUserByID(cmd.Context(), userID)
		if err != nil {
			return err
		}
		ttl, _ := cmd.Flags().GetDuration("ttl")

		token, err := auth.GenerateToken(user.ID, user.Email, ttl)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), token)
		return nil
	},
}
