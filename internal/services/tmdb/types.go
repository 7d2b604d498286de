package tmdb

// Movie is the raw movie payload shared by list and detail endpoints.
// List endpoints fill GenreIDs; the detail endpoint fills Genres, Runtime,
// Credits and Videos.
type Movie struct {
	ID           int        `json:"id"`
	Title        string     `json:"title"`
	Overview     string     `json:"overview"`
	ReleaseDate  string     `json:"release_date"`
	VoteAverage  float64    `json:"vote_average"`
	VoteCount    int        `json:"vote_count"`
	Popularity   float64    `json:"popularity"`
	PosterPath   string     `json:"poster_path"`
	BackdropPath string     `json:"backdrop_path"`
	GenreIDs     []int      `json:"genre_ids,omitempty"`
	Genres       []Genre    `json:"genres,omitempty"`
	Runtime      int        `json:"runtime,omitempty"`
	Credits      *Credits   `json:"credits,omitempty"`
	Videos       *VideoList `json:"videos,omitempty"`
}

// Genre is an entry of /genre/movie/list
type Genre struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// GenreList is the response of /genre/movie/list
type GenreList struct {
	Genres []Genre `json:"genres"`
}

// Credits holds the cast and crew appended to a detail response
type Credits struct {
	Cast []CastMember `json:"cast"`
	Crew []CrewMember `json:"crew"`
}

// CastMember is one billed actor
type CastMember struct {
	Name      string `json:"name"`
	Character string `json:"character"`
	Order     int    `json:"order"`
}

// CrewMember is one crew credit
type CrewMember struct {
	Name       string `json:"name"`
	Job        string `json:"job"`
	Department string `json:"department"`
}

// VideoList wraps the results of a videos listing
type VideoList struct {
	Results []Video `json:"results"`
}

// Video is a trailer, teaser, clip or similar hosted externally
type Video struct {
	Key      string `json:"key"`
	Name     string `json:"name"`
	Site     string `json:"site"`
	Type     string `json:"type"`
	Official bool   `json:"official"`
}

// PagedResponse is the envelope of discover, search and recommendation lists
type PagedResponse struct {
	Page         int     `json:"page"`
	Results      []Movie `json:"results"`
	TotalPages   int     `json:"total_pages"`
	TotalResults int     `json:"total_results"`
}

// HasMore reports whether further pages exist after this one
func (p *PagedResponse) HasMore() bool {
	return p.Page < p.TotalPages
}
