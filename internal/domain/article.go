package domain

import "time"

// Article is the content resource. The core cares about AuthorID for
// ownership checks; the rest is cache payload.
type Article struct {
	ID         string    `json:"id"`
	Title      string    `json:"title"`
	Content    string    `json:"content"`
	Image      string    `json:"image,omitempty"`
	Tags       []string  `json:"tags"`
	AuthorID   string    `json:"authorId"`
	AuthorName string    `json:"authorName,omitempty"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ArticleList is the paginated result envelope that gets cached whole.
type ArticleList struct {
	Items []Article `json:"items"`
	Total int64     `json:"total"`
	Page  int       `json:"page"`
	Limit int       `json:"limit"`
}

// ArticleSummary aggregates content counts for the dashboard.
type ArticleSummary struct {
	Total                  int64   `json:"total"`
	AverageReadTimeMinutes float64 `json:"averageReadTimeMinutes"`
}

// DayCount is one bucket of a per-day aggregate.
type DayCount struct {
	Day   string `json:"day"`
	Count int64  `json:"count"`
}

// AuthorCount is one row of the articles-by-author aggregate.
type AuthorCount struct {
	AuthorID   string `json:"authorId"`
	AuthorName string `json:"authorName"`
	Count      int64  `json:"count"`
}

// CommentedArticle is one row of the top-by-comments aggregate.
type CommentedArticle struct {
	ArticleID string `json:"articleId"`
	Title     string `json:"title"`
	Comments  int64  `json:"comments"`
}
