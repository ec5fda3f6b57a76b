package model

// FilterOptions narrows the room catalog.  Capacity <= 1 disables the
// capacity floor and Zone "all" disables the zone clause.  StartTime and
// EndTime are carried for the presentation layer and do not affect room
// membership.
type FilterOptions struct {
	Capacity    int      `json:"capacity"`
	Zone        string   `json:"zone"`
	Date        string   `json:"date"`
	StartTime   string   `json:"startTime,omitempty"`
	EndTime     string   `json:"endTime,omitempty"`
	Amenities   []string `json:"amenities"`
	SearchQuery string   `json:"searchQuery"`
}

// DefaultFilters returns the filters a fresh session starts with.
func DefaultFilters(date string) FilterOptions {
	return FilterOptions{
		Capacity:  1,
		Zone:      ZoneAll,
		Date:      date,
		Amenities: []string{},
	}
}

// FilterPatch is a partial update of FilterOptions; nil fields are left
// untouched.
type FilterPatch struct {
	Capacity    *int      `json:"capacity,omitempty"`
	Zone        *string   `json:"zone,omitempty"`
	Date        *string   `json:"date,omitempty"`
	StartTime   *string   `json:"startTime,omitempty"`
	EndTime     *string   `json:"endTime,omitempty"`
	Amenities   *[]string `json:"amenities,omitempty"`
	SearchQuery *string   `json:"searchQuery,omitempty"`
}

// Apply returns f with the non-nil fields of p copied over.
func (p FilterPatch) Apply(f FilterOptions) FilterOptions {
	if p.Capacity != nil {
		f.Capacity = *p.Capacity
	}
	if p.Zone != nil {
		f.Zone = *p.Zone
	}
	if p.Date != nil {
		f.Date = *p.Date
	}
	if p.StartTime != nil {
		f.StartTime = *p.StartTime
	}
	if p.EndTime != nil {
		f.EndTime = *p.EndTime
	}
	if p.Amenities != nil {
		f.Amenities = append([]string(nil), (*p.Amenities)...)
	}
	if p.SearchQuery != nil {
		f.SearchQuery = *p.SearchQuery
	}
	return f
}
