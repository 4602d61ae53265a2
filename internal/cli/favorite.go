package cli

import (
	"io"

	"github.com/spf13/cobra"
)

// NewFavoriteCommand creates the favorite command group. Every subcommand
// acts for the session user.
func NewFavoriteCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorite",
		Aliases: []string{"fav"},
		Short:   "Manage the session user's saved listings",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved listings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if _, err := a.sessionUserID(); err != nil {
					return err
				}
				if err := a.listings.RefreshFavorites(cmd.Context()); err != nil {
					return err
				}
				favs := a.listings.Favorites()
				return f.Emit(favs, func(w io.Writer) { writeFavorites(w, favs) })
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "add <listing-id>",
		Short: "Save a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if err := a.listings.AddFavorite(cmd.Context(), args[0]); err != nil {
					return err
				}
				return f.Done("saved " + args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "remove <listing-id>",
		Short: "Unsave a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if err := a.listings.RemoveFavorite(cmd.Context(), args[0]); err != nil {
					return err
				}
				return f.Done("removed " + args[0] + " from favorites")
			})
		},
	})
	return cmd
}
