package models

// FilterState drives the catalog discovery query
type FilterState struct {
	Genres         []string `json:"genres"`
	HideUnreleased bool     `json:"hideUnreleased"`
	Sort           SortKey  `json:"sortOption"`
}

// DefaultFilters returns the filter state used at startup and after a reset
func DefaultFilters() FilterState {
	return FilterState{
		Genres:         []string{},
		HideUnreleased: false,
		Sort:           SortPopularity,
	}
}

// Clone returns a deep copy
func (f FilterState) Clone() FilterState {
	genres := make([]string, len(f.Genres))
	copy(genres, f.Genres)
	f.Genres = genres
	return f
}

// FilterUpdate is a partial change of the pending filters. Nil fields are
// left untouched.
type FilterUpdate struct {
	Genres         *[]string `json:"genres,omitempty"`
	HideUnreleased *bool     `json:"hideUnreleased,omitempty"`
	Sort           *SortKey  `json:"sortOption,omitempty"`
}

// Merge applies the update to a copy of f
func (u FilterUpdate) Merge(f FilterState) FilterState {
	out := f.Clone()
	if u.Genres != nil {
		out.Genres = make([]string, len(*u.Genres))
		copy(out.Genres, *u.Genres)
	}
	if u.HideUnreleased != nil {
		out.HideUnreleased = *u.HideUnreleased
	}
	if u.Sort != nil {
		out.Sort = *u.Sort
	}
	return out
}
