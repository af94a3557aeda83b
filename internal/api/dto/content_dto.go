package dto

// ArticleCreateRequest payload for new articles.
type ArticleCreateRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Image   string   `json:"image"`
	Tags    []string `json:"tags"`
}

// ArticleUpdateRequest payload for edits; full replacement of mutable fields.
type ArticleUpdateRequest struct {
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Image   string   `json:"image"`
	Tags    []string `json:"tags"`
}

// CommentCreateRequest payload for new comments.
type CommentCreateRequest struct {
	Content  string `json:"content"`
	ParentID string `json:"parentId"`
}
