package model

// PaginatedPosts is one fixed-size page of the sorted post collection.
// CurrentPage echoes the requested page even when it is out of range; an
// out-of-range request carries an empty Posts slice, not an error.
type PaginatedPosts struct {
	Posts       []Post `json:"posts"`
	TotalPages  int    `json:"totalPages"`
	CurrentPage int    `json:"currentPage"`
}
