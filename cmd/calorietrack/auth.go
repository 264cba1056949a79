package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func guestCmd(dev func() *device) *cobra.Command {
	return &cobra.Command{
		Use:   "guest",
		Short: "Use the tracker without an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			u, err := dev().auth.StartAsGuest(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Started as %s (%s). Data stays on this device.\n", u.DisplayName, u.ID)
			return nil
		},
	}
}

func signUpCmd(dev func() *device) *cobra.Command {
	var email, password, name string
	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account",
		Long: "Create an account. When started from a guest session the guest's " +
			"local settings and recent meals are uploaded to the new account.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := dev()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if d.auth.IsGuest(ctx) {
				u, err := d.auth.ConvertGuestToUser(ctx, email, password, name)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "Signed up as %s.\n", u.Email)
				res, err := d.sync.SyncToCloud(ctx)
				if err != nil {
					return fmt.Errorf("upload guest data: %w", err)
				}
				fmt.Fprintf(out, "Uploaded settings and %d meals (%d failed).\n", res.MealsSynced, res.MealsFailed)
				return nil
			}

			u, err := d.auth.SignUpWithEmail(ctx, email, password, name)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Signed up as %s.\n", u.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (at least 6 characters)")
	cmd.Flags().StringVar(&name, "name", "", "display name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func signInCmd(dev func() *device) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "signin",
		Short: "Sign in and replace local data with the cloud copy",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := dev()
			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if email == "" {
				last, err := d.auth.LastLoginEmail(ctx)
				if err != nil {
					return err
				}
				if last == "" {
					return fmt.Errorf("--email is required")
				}
				email = last
			}

			u, err := d.auth.SignInWithEmail(ctx, email, password)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Signed in as %s.\n", u.Email)

			res, err := d.sync.SyncFromCloud(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Restored %d meals from the cloud (%d failed).\n", res.MealsSynced, res.MealsFailed)
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email (defaults to the last one used)")
	cmd.Flags().StringVar(&password, "password", "", "account password")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func signOutCmd(dev func() *device) *cobra.Command {
	return &cobra.Command{
		Use:   "signout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := dev().auth.SignOut(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Signed out.")
			return nil
		},
	}
}

func whoamiCmd(dev func() *device) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := dev()
			out := cmd.OutOrStdout()
			u := d.auth.CurrentUser(cmd.Context())
			switch {
			case u == nil:
				fmt.Fprintln(out, "Signed out.")
				if last, _ := d.auth.LastLoginEmail(cmd.Context()); last != "" {
					fmt.Fprintf(out, "Last signed in as %s.\n", last)
				}
			case u.IsGuest:
				fmt.Fprintf(out, "%s (%s)\n", u.DisplayName, u.ID)
			default:
				fmt.Fprintf(out, "%s <%s> (%s)\n", u.DisplayName, u.Email, u.ID)
			}
			return nil
		},
	}
}

func healthCmd(dev func() *device) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the remote API is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !dev().sync.CheckConnection(cmd.Context()) {
				return fmt.Errorf("remote API is unreachable")
			}
			fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return nil
		},
	}
}
