package cli

import (
	"github.com/spf13/cobra"

	"github.com/roach88/homelist/internal/domain"
)

// filterFlags binds the listing filter flags shared by "listing list" and
// "search save".
type filterFlags struct {
	listingType  string
	propertyType string
	minPrice     int64
	maxPrice     int64
	minArea      float64
	maxArea      float64
	bedrooms     int
	district     string
	city         string
	query        string
	all          bool
}

func (ff *filterFlags) register(cmd *cobra.Command, withHidden bool) {
	fl := cmd.Flags()
	fl.StringVar(&ff.listingType, "type", "", "sale|rent")
	fl.StringVar(&ff.propertyType, "property", "", "apartment|house|land|office|shophouse|villa")
	fl.Int64Var(&ff.minPrice, "min-price", 0, "minimum price")
	fl.Int64Var(&ff.maxPrice, "max-price", 0, "maximum price")
	fl.Float64Var(&ff.minArea, "min-area", 0, "minimum area in m²")
	fl.Float64Var(&ff.maxArea, "max-area", 0, "maximum area in m²")
	fl.IntVar(&ff.bedrooms, "bedrooms", 0, "at least this many bedrooms")
	fl.StringVar(&ff.district, "district", "", "district, substring match")
	fl.StringVar(&ff.city, "city", "", "city, substring match")
	fl.StringVarP(&ff.query, "query", "q", "", "free-text search over title, description and address")
	if withHidden {
		fl.BoolVar(&ff.all, "all", false, "include hidden listings (admin view)")
	}
}

// build converts the flags the user actually set into filters.
// Unset numeric flags stay nil so they do not constrain the search.
func (ff *filterFlags) build(cmd *cobra.Command) domain.ListingFilters {
	changed := cmd.Flags().Changed
	f := domain.ListingFilters{
		Type:          domain.ListingType(ff.listingType),
		PropertyType:  domain.PropertyType(ff.propertyType),
		District:      ff.district,
		City:          ff.city,
		SearchQuery:   ff.query,
		IncludeHidden: ff.all,
	}
	if changed("min-price") {
		f.MinPrice = &ff.minPrice
	}
	if changed("max-price") {
		f.MaxPrice = &ff.maxPrice
	}
	if changed("min-area") {
		f.MinArea = &ff.minArea
	}
	if changed("max-area") {
		f.MaxArea = &ff.maxArea
	}
	if changed("bedrooms") {
		f.Bedrooms = &ff.bedrooms
	}
	return f
}
