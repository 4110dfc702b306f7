package kakao

// Response is the envelope of every search endpoint
type Response[D any] struct {
	Meta      Meta `json:"meta"`
	Documents []D  `json:"documents"`
}

// Meta carries paging information
type Meta struct {
	TotalCount    int  `json:"total_count"`
	PageableCount int  `json:"pageable_count"`
	IsEnd         bool `json:"is_end"`
}

// ImageDocument is one result of /v2/search/image
type ImageDocument struct {
	Collection      string `json:"collection"`
	ThumbnailURL    string `json:"thumbnail_url"`
	ImageURL        string `json:"image_url"`
	Width           int    `json:"width"`
	Height          int    `json:"height"`
	DisplaySitename string `json:"display_sitename"`
	DocURL          string `json:"doc_url"`
	Datetime        string `json:"datetime"`
}

// VideoDocument is one result of /v2/search/vclip
type VideoDocument struct {
	Title     string `json:"title"`
	URL       string `json:"url"`
	Datetime  string `json:"datetime"`
	PlayTime  int    `json:"play_time"`
	Thumbnail string `json:"thumbnail"`
	Author    string `json:"author"`
}

// ErrorResponse is returned with non-200 statuses
type ErrorResponse struct {
	ErrorType string `json:"errorType"`
	Message   string `json:"message"`
}
