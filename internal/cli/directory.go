package cli

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"
)

// NewUserCommand creates the user command group.
func NewUserCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Look up user profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				u, err := a.svc.Users.GetUser(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return f.Emit(u, func(w io.Writer) { writeUser(w, u) })
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				users, err := a.svc.Users.ListUsers(cmd.Context())
				if err != nil {
					return err
				}
				return f.Emit(users, func(w io.Writer) { writeUsers(w, users) })
			})
		},
	})
	return cmd
}

// NewAgentCommand creates the agent command group.
func NewAgentCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Look up agent profiles",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "show <id>",
		Short: "Show an agent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				ag, err := a.svc.Users.GetAgent(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return f.Emit(ag, func(w io.Writer) {
					fmt.Fprintf(w, "%s  %s  %s  %s  rating %s\n", ag.ID, ag.Name, ag.Email, ag.Phone, strconv.FormatFloat(ag.Rating, 'f', 1, 64))
				})
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List every agent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				agents, err := a.svc.Users.ListAgents(cmd.Context())
				if err != nil {
					return err
				}
				return f.Emit(agents, func(w io.Writer) { writeAgents(w, agents) })
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "for-user <user-id>",
		Short: "Show the agent profile linked to a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				ag, err := a.svc.Users.GetAgentByUserID(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return f.Emit(ag, func(w io.Writer) {
					fmt.Fprintf(w, "%s  %s (user %s)\n", ag.ID, ag.Name, ag.AgentUserID)
				})
			})
		},
	})
	return cmd
}
