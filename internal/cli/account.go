package cli

import (
	"errors"

	"github.com/spf13/cobra"
)

func newLoginCmd() *cobra.Command {
	var identifier, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in with a username or email",
		RunE: func(cmd *cobra.Command, args []string) error {
			status := device.Accounts.Login(cmd.Context(), identifier, password)
			out.Print(statusResult(status))
			if !status.Success {
				return errors.New(status.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&identifier, "user", "u", "", "Username or email (required)")
	cmd.Flags().StringVarP(&password, "pass", "p", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newSignupCmd() *cobra.Command {
	var username, email, password string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and sign in with it",
		Long: `Create an account and sign in with it.

Progress made on this device as a guest carries over into the new account.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			status := device.Accounts.Signup(cmd.Context(), username, email, password)
			out.Print(statusResult(status))
			if !status.Success {
				return errors.New(status.Message)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&username, "user", "", "Username (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email (required)")
	cmd.Flags().StringVar(&password, "pass", "", "Password (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("pass")

	return cmd
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential and play as a guest",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := device.Accounts.Logout(cmd.Context())
			if err != nil {
				return err
			}
			out.Print(profileResult(profile))
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in identity",
		RunE: func(cmd *cobra.Command, args []string) error {
			profile, err := device.Accounts.Refresh(cmd.Context())
			if err != nil {
				return err
			}
			out.Print(profileResult(profile))
			return nil
		},
	}
}
