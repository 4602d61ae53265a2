package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

// NewSearchCommand creates the saved-search command group.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Save and re-run listing searches",
	}
	cmd.AddCommand(newSearchSaveCommand(rootOpts))
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved searches, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				userID, err := a.sessionUserID()
				if err != nil {
					return err
				}
				searches, err := a.svc.Listings.ListSavedSearches(cmd.Context(), userID)
				if err != nil {
					return err
				}
				return f.Emit(searches, func(w io.Writer) { writeSavedSearches(w, searches) })
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				userID, err := a.sessionUserID()
				if err != nil {
					return err
				}
				if err := a.svc.Listings.DeleteSavedSearch(cmd.Context(), userID, args[0]); err != nil {
					return err
				}
				return f.Done("deleted saved search " + args[0])
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "run <id>",
		Short: "List the listings matching a saved search",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				userID, err := a.sessionUserID()
				if err != nil {
					return err
				}
				listings, err := a.svc.Listings.RunSavedSearch(cmd.Context(), userID, args[0])
				if err != nil {
					return err
				}
				return f.Emit(listings, func(w io.Writer) { writeListings(w, listings) })
			})
		},
	})
	return cmd
}

func newSearchSaveCommand(rootOpts *RootOptions) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save the given filters under a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			filters := ff.build(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				userID, err := a.sessionUserID()
				if err != nil {
					return err
				}
				saved, err := a.svc.Listings.SaveSearch(cmd.Context(), userID, args[0], filters)
				if err != nil {
					return err
				}
				return f.Emit(saved, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Saved search %s (%s): %s\n", saved.ID, saved.Name, describeFilters(saved.Filters))
				})
			})
		},
	}
	ff.register(cmd, false)
	return cmd
}
