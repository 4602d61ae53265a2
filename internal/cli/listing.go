package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/export"
	"github.com/roach88/homelist/internal/schema"
)

// NewListingCommand creates the listing command group.
func NewListingCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "listing",
		Aliases: []string{"listings"},
		Short:   "Browse and manage property listings",
	}
	cmd.AddCommand(newListingListCommand(rootOpts))
	cmd.AddCommand(newListingShowCommand(rootOpts))
	cmd.AddCommand(newListingMineCommand(rootOpts))
	cmd.AddCommand(newListingCreateCommand(rootOpts))
	cmd.AddCommand(newListingUpdateCommand(rootOpts))
	cmd.AddCommand(newListingDeleteCommand(rootOpts))
	cmd.AddCommand(newListingVisibilityCommand(rootOpts, "hide", true))
	cmd.AddCommand(newListingVisibilityCommand(rootOpts, "unhide", false))
	cmd.AddCommand(newListingContactCommand(rootOpts))
	cmd.AddCommand(newListingExportCommand(rootOpts))
	return cmd
}

func newListingListCommand(rootOpts *RootOptions) *cobra.Command {
	var ff filterFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Search listings, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			filters := ff.build(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if filters.IncludeHidden {
					if _, err := a.requireRole(domain.RoleAdmin); err != nil {
						return err
					}
				}
				if err := a.listings.FetchListings(cmd.Context(), filters); err != nil {
					return err
				}
				listings := a.listings.Listings()
				f.VerboseLog("%d listing(s) matched %s", len(listings), describeFilters(filters))
				return f.Emit(listings, func(w io.Writer) { writeListings(w, listings) })
			})
		},
	}
	ff.register(cmd, true)
	return cmd
}

func newListingShowCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show a listing (counts as a view)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				l, err := a.listings.GetListingDetails(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return f.Emit(l, func(w io.Writer) { writeListing(w, l) })
			})
		},
	}
}

// agentReport is the output of "listing mine".
type agentReport struct {
	Listings           []domain.Listing `json:"listings"`
	TotalViews         int64            `json:"totalViews"`
	TotalContactClicks int64            `json:"totalContactClicks"`
}

func newListingMineCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mine",
		Short: "List your own listings with their views and contact clicks",
		Long: `List every listing posted by the logged-in agent, hidden ones included,
with per-listing and total view and contact-click counts.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				u, err := a.requireRole(domain.RoleAgent)
				if err != nil {
					return err
				}
				filters := domain.ListingFilters{PostedBy: u.ID, IncludeHidden: true}
				if err := a.listings.FetchListings(cmd.Context(), filters); err != nil {
					return err
				}
				report := agentReport{Listings: a.listings.Listings()}
				if report.Listings == nil {
					report.Listings = []domain.Listing{}
				}
				for _, l := range report.Listings {
					report.TotalViews += l.Views
					report.TotalContactClicks += l.ContactClicks
				}
				return f.Emit(report, func(w io.Writer) { writeAgentReport(w, report) })
			})
		},
	}
}

func newListingCreateCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Post a listing from a YAML file",
		Long: `Post a listing described by a YAML file ("-" reads stdin).

The file is checked against the listing schema before anything is stored.
Only agents can post, and only under their own account: postedByUserId
defaults to the session user and must name it when given.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			data, err := readInput(cmd, file)
			if err != nil {
				_ = f.Error(ErrCodeValidation, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to read listing file", err)
			}
			draft, err := schema.Draft(data)
			if err != nil {
				return f.Fail(err)
			}
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				u, err := a.requireRole(domain.RoleAgent)
				if err != nil {
					return err
				}
				switch draft.PostedByUserID {
				case "":
					draft.PostedByUserID = u.ID
				case u.ID:
				default:
					return forbidden("listings can only be posted under your own account")
				}
				l, err := a.listings.AddListing(cmd.Context(), draft)
				if err != nil {
					return err
				}
				return f.Emit(l, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Posted listing %s\n", l.ID)
					writeListing(w, l)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "listing YAML file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newListingUpdateCommand(rootOpts *RootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Apply a partial update from a YAML file (posting agent only)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			data, err := readInput(cmd, file)
			if err != nil {
				_ = f.Error(ErrCodeValidation, err.Error(), nil)
				return WrapExitError(ExitCommandError, "failed to read patch file", err)
			}
			patch, err := schema.Patch(data)
			if err != nil {
				return f.Fail(err)
			}
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				u, err := a.requireRole(domain.RoleAgent)
				if err != nil {
					return err
				}
				if err := a.requireOwner(cmd.Context(), u, args[0], false); err != nil {
					return err
				}
				l, err := a.listings.UpdateListing(cmd.Context(), args[0], patch)
				if err != nil {
					return err
				}
				return f.Emit(l, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Updated listing %s\n", l.ID)
					writeListing(w, l)
				})
			})
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "patch YAML file, or - for stdin")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func newListingDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a listing and every favorite of it (posting agent or admin)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				u, err := a.requireRole(domain.RoleAgent, domain.RoleAdmin)
				if err != nil {
					return err
				}
				if err := a.requireOwner(cmd.Context(), u, args[0], true); err != nil {
					return err
				}
				if err := a.listings.DeleteListing(cmd.Context(), args[0]); err != nil {
					return err
				}
				return f.Done("deleted listing " + args[0])
			})
		},
	}
}

func newListingVisibilityCommand(rootOpts *RootOptions, use string, hidden bool) *cobra.Command {
	short := "Show a hidden listing again (admin only)"
	if hidden {
		short = "Hide a listing from public search (admin only)"
	}
	return &cobra.Command{
		Use:   use + " <id>",
		Short: short,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if _, err := a.requireRole(domain.RoleAdmin); err != nil {
					return err
				}
				l, err := a.listings.ToggleListingVisibility(cmd.Context(), args[0], hidden)
				if err != nil {
					return err
				}
				return f.Emit(l, func(w io.Writer) {
					state := "visible"
					if l.IsHidden {
						state = "hidden"
					}
					fmt.Fprintf(w, "✓ Listing %s is now %s\n", l.ID, state)
				})
			})
		},
	}
}

func newListingContactCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "contact <id>",
		Short: "Record a contact click on a listing",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if err := a.listings.IncrementContactClicks(cmd.Context(), args[0]); err != nil {
					return err
				}
				return f.Done("contact recorded for " + args[0])
			})
		},
	}
}

func newListingExportCommand(rootOpts *RootOptions) *cobra.Command {
	var ff filterFlags
	var output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write matching listings to an Excel workbook (admin only)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f := rootOpts.formatter(cmd)
			filters := ff.build(cmd)
			return rootOpts.withApp(cmd.Context(), f, func(a *app) error {
				if _, err := a.requireRole(domain.RoleAdmin); err != nil {
					return err
				}
				listings, err := a.svc.Listings.List(cmd.Context(), filters)
				if err != nil {
					return err
				}
				if err := writeExport(output, listings); err != nil {
					_ = f.Error(ErrCodeInternal, err.Error(), nil)
					return WrapExitError(ExitCommandError, "failed to write export", err)
				}
				return f.Emit(map[string]any{"path": output, "rows": len(listings)}, func(w io.Writer) {
					fmt.Fprintf(w, "✓ Exported %d listing(s) to %s\n", len(listings), output)
				})
			})
		},
	}
	ff.register(cmd, true)
	cmd.Flags().StringVarP(&output, "output", "o", "listings.xlsx", "output workbook path")
	return cmd
}

func writeExport(path string, listings []domain.Listing) (err error) {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer func() {
		err = errors.Join(err, out.Close())
	}()
	return export.Listings(out, listings)
}

// readInput reads path, or stdin when path is "-".
func readInput(cmd *cobra.Command, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(cmd.InOrStdin())
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return data, nil
}
