package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/service"
)

// NewResetCommand creates the reset command.
func NewResetCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Discard the stored database and re-seed it",
		Long: `Delete the stored database and write the seed fixtures in its place.

The session record is left alone; run "homelist auth logout" to clear it.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if err := a.store.Reset(cmd.Context()); err != nil {
					return err
				}
				return f.Done("database reset to seed data")
			})
		},
	}
}

// NewAuthCommand creates the auth command group.
func NewAuthCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign up, log in and manage passwords",
	}
	cmd.AddCommand(newSignupCommand(rootOpts))
	cmd.AddCommand(newLoginCommand(rootOpts))
	cmd.AddCommand(newLogoutCommand(rootOpts))
	cmd.AddCommand(newWhoamiCommand(rootOpts))
	cmd.AddCommand(newPasswdCommand(rootOpts))
	cmd.AddCommand(newForgotCommand(rootOpts))
	cmd.AddCommand(newResetPasswordCommand(rootOpts))
	return cmd
}

func newSignupCommand(rootOpts *RootOptions) *cobra.Command {
	var req service.SignupRequest
	var role string

	cmd := &cobra.Command{
		Use:   "signup",
		Short: "Create an account and log in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			req.Role = domain.Role(role)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				u, err := a.auth.Signup(cmd.Context(), req)
				if err != nil {
					return err
				}
				return f.Emit(u, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Signed up and logged in as %s\n", u.Name)
					writeUser(w, u)
				})
			})
		},
	}
	cmd.Flags().StringVar(&req.Name, "name", "", "display name")
	cmd.Flags().StringVar(&req.Email, "email", "", "email address")
	cmd.Flags().StringVar(&req.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&req.Password, "password", "", "password")
	cmd.Flags().StringVar(&role, "role", "", "buyer|agent|admin (default buyer)")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLoginCommand(rootOpts *RootOptions) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and remember the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				u, err := a.auth.Login(cmd.Context(), email, password)
				if err != nil {
					return err
				}
				return f.Emit(u, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Logged in as %s\n", u.Name)
				})
			})
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "email address")
	cmd.Flags().StringVar(&password, "password", "", "password")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}

func newLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Clear the session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if err := a.auth.Logout(cmd.Context()); err != nil {
					return err
				}
				return f.Done("logged out")
			})
		},
	}
}

func newWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the session user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				u, ok := a.auth.User()
				if !ok {
					return f.Emit(nil, func(w io.Writer) {
						fmt.Fprintln(w, "Not logged in.")
					})
				}
				return f.Emit(u, func(w io.Writer) { writeUser(w, u) })
			})
		},
	}
}

func newPasswdCommand(rootOpts *RootOptions) *cobra.Command {
	var current, next string

	cmd := &cobra.Command{
		Use:   "passwd",
		Short: "Change the session user's password",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if err := a.auth.UpdatePassword(cmd.Context(), current, next); err != nil {
					return err
				}
				return f.Done("password updated")
			})
		},
	}
	cmd.Flags().StringVar(&current, "current", "", "current password")
	cmd.Flags().StringVar(&next, "new", "", "new password")
	_ = cmd.MarkFlagRequired("current")
	_ = cmd.MarkFlagRequired("new")
	return cmd
}

// printNotifier delivers reset links by printing them, standing in for email.
type printNotifier struct {
	w io.Writer
}

func (n printNotifier) NotifyPasswordReset(_ context.Context, email, link string) error {
	_, err := fmt.Fprintf(n.w, "reset link for %s: %s\n", email, link)
	return err
}

func newForgotCommand(rootOpts *RootOptions) *cobra.Command {
	var email string

	cmd := &cobra.Command{
		Use:   "forgot",
		Short: "Request a password reset link",
		Long: `Request a password reset link for an email address.

The reply is the same whether or not the address is registered. The link
itself is "delivered" on stderr.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			notifier := service.WithResetNotifier(printNotifier{w: cmd.ErrOrStderr()})
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				msg, err := a.auth.RequestPasswordReset(cmd.Context(), email)
				if err != nil {
					return err
				}
				return f.Done(msg)
			}, notifier)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newResetPasswordCommand(rootOpts *RootOptions) *cobra.Command {
	var token, password string

	cmd := &cobra.Command{
		Use:   "reset-password",
		Short: "Set a new password with a reset token",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if err := a.auth.ResetPassword(cmd.Context(), token, password); err != nil {
					return err
				}
				return f.Done("password has been reset, you can now log in")
			})
		},
	}
	cmd.Flags().StringVar(&token, "token", "", "token from the reset link")
	cmd.Flags().StringVar(&password, "password", "", "new password")
	_ = cmd.MarkFlagRequired("token")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
