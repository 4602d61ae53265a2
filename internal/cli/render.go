package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/roach88/homelist/internal/domain"
	"github.com/roach88/homelist/internal/format"
)

const timeLayout = "2006-01-02 15:04"

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	mutedStyle  = lipgloss.NewStyle().Faint(true)
)

// renderTable writes rows under headers, or empty when there are no rows.
func renderTable(w io.Writer, empty string, headers []string, rows [][]string) {
	if len(rows) == 0 {
		fmt.Fprintln(w, empty)
		return
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		Headers(headers...).
		Rows(rows...)
	fmt.Fprintln(w, t)
}

func writeListings(w io.Writer, listings []domain.Listing) {
	rows := make([][]string, 0, len(listings))
	for _, l := range listings {
		title := l.Title
		if l.IsHidden {
			title += mutedStyle.Render(" (hidden)")
		}
		rows = append(rows, []string{
			l.ID,
			title,
			string(l.Type) + "/" + string(l.PropertyType),
			format.PriceLine(l),
			format.Area(l.Area),
			l.District + ", " + l.City,
			strconv.FormatInt(l.Views, 10),
		})
	}
	renderTable(w, "No listings found.", []string{"ID", "TITLE", "TYPE", "PRICE", "AREA", "LOCATION", "VIEWS"}, rows)
}

func writeAgentReport(w io.Writer, r agentReport) {
	rows := make([][]string, 0, len(r.Listings))
	for _, l := range r.Listings {
		status := string(l.Status)
		if l.IsHidden {
			status += mutedStyle.Render(" (hidden)")
		}
		rows = append(rows, []string{
			l.ID,
			l.Title,
			format.PriceLine(l),
			status,
			format.Number(float64(l.Views)),
			format.Number(float64(l.ContactClicks)),
		})
	}
	renderTable(w, "You have not posted any listings yet.", []string{"ID", "TITLE", "PRICE", "STATUS", "VIEWS", "CONTACTS"}, rows)
	fmt.Fprintf(w, "%d listing(s), %s views, %s contact clicks\n",
		len(r.Listings), format.Number(float64(r.TotalViews)), format.Number(float64(r.TotalContactClicks)))
}

func writeListing(w io.Writer, l domain.Listing) {
	fmt.Fprintf(w, "%s  %s\n", l.ID, lipgloss.NewStyle().Bold(true).Render(l.Title))
	fmt.Fprintf(w, "  Price:     %s\n", format.PriceLine(l))
	fmt.Fprintf(w, "  Type:      %s / %s (%s)\n", l.Type, l.PropertyType, l.Status)
	fmt.Fprintf(w, "  Area:      %s, %d bed, %d bath\n", format.Area(l.Area), l.Bedrooms, l.Bathrooms)
	fmt.Fprintf(w, "  Address:   %s, %s, %s\n", l.Address, l.District, l.City)
	fmt.Fprintf(w, "  Posted:    %s by %s\n", l.PostedAt.Format(timeLayout), l.PostedByUserID)
	fmt.Fprintf(w, "  Views:     %s, contact clicks: %s\n", format.Number(float64(l.Views)), format.Number(float64(l.ContactClicks)))
	if l.IsHidden {
		fmt.Fprintln(w, "  Hidden:    yes")
	}
	if l.Description != "" {
		fmt.Fprintf(w, "\n%s\n", l.Description)
	}
}

func writeUser(w io.Writer, u domain.User) {
	fmt.Fprintf(w, "%s  %s <%s>  %s\n", u.ID, u.Name, u.Email, u.Role)
}

func writeUsers(w io.Writer, users []domain.User) {
	rows := make([][]string, 0, len(users))
	for _, u := range users {
		rows = append(rows, []string{u.ID, u.Name, u.Email, u.Phone, string(u.Role)})
	}
	renderTable(w, "No users found.", []string{"ID", "NAME", "EMAIL", "PHONE", "ROLE"}, rows)
}

func writeAgents(w io.Writer, agents []domain.Agent) {
	rows := make([][]string, 0, len(agents))
	for _, a := range agents {
		rows = append(rows, []string{
			a.ID,
			a.Name,
			a.AgentUserID,
			strconv.FormatFloat(a.Rating, 'f', 1, 64),
			strconv.Itoa(a.TotalListings),
		})
	}
	renderTable(w, "No agents found.", []string{"ID", "NAME", "USER", "RATING", "LISTINGS"}, rows)
}

func writeFavorites(w io.Writer, favs []domain.Favorite) {
	rows := make([][]string, 0, len(favs))
	for _, f := range favs {
		rows = append(rows, []string{f.ID, f.ListingID, f.CreatedAt.Format(timeLayout)})
	}
	renderTable(w, "No favorites yet.", []string{"ID", "LISTING", "SAVED"}, rows)
}

func writeSavedSearches(w io.Writer, searches []domain.SavedSearch) {
	rows := make([][]string, 0, len(searches))
	for _, s := range searches {
		rows = append(rows, []string{s.ID, s.Name, describeFilters(s.Filters), s.CreatedAt.Format(timeLayout)})
	}
	renderTable(w, "No saved searches.", []string{"ID", "NAME", "FILTERS", "CREATED"}, rows)
}

func writeInbox(w io.Writer, rows []domain.ConversationDisplay) {
	out := make([][]string, 0, len(rows))
	for _, r := range rows {
		out = append(out, []string{r.ID, r.OtherParticipantName, r.LastMessageText, r.LastMessageAt.Format(timeLayout)})
	}
	renderTable(w, "No conversations yet.", []string{"ID", "WITH", "LAST MESSAGE", "AT"}, out)
}

func writeMessages(w io.Writer, conversationID string, msgs []domain.ChatMessageDisplay) {
	fmt.Fprintf(w, "Conversation %s\n", conversationID)
	if len(msgs) == 0 {
		fmt.Fprintln(w, mutedStyle.Render("  (no messages)"))
		return
	}
	for _, m := range msgs {
		fmt.Fprintf(w, "  [%s] %s: %s\n", m.Timestamp.In(time.UTC).Format(timeLayout), m.SenderName, m.Text)
	}
}

// describeFilters renders the set fields of f as key=value pairs.
func describeFilters(f domain.ListingFilters) string {
	var parts []string
	add := func(k, v string) { parts = append(parts, k+"="+v) }
	if f.PostedBy != "" {
		add("postedBy", f.PostedBy)
	}
	if f.Type != "" {
		add("type", string(f.Type))
	}
	if f.PropertyType != "" {
		add("property", string(f.PropertyType))
	}
	if f.MinPrice != nil {
		add("minPrice", strconv.FormatInt(*f.MinPrice, 10))
	}
	if f.MaxPrice != nil {
		add("maxPrice", strconv.FormatInt(*f.MaxPrice, 10))
	}
	if f.MinArea != nil {
		add("minArea", format.Number(*f.MinArea))
	}
	if f.MaxArea != nil {
		add("maxArea", format.Number(*f.MaxArea))
	}
	if f.Bedrooms != nil {
		add("bedrooms", strconv.Itoa(*f.Bedrooms))
	}
	if f.District != "" {
		add("district", f.District)
	}
	if f.City != "" {
		add("city", f.City)
	}
	if f.SearchQuery != "" {
		add("q", strconv.Quote(f.SearchQuery))
	}
	if len(parts) == 0 {
		return "(any)"
	}
	return strings.Join(parts, " ")
}
