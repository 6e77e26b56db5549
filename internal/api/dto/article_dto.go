package dto

import "time"

// CreateArticleRequest payload. Attachments are stored file references in
// display order.
type CreateArticleRequest struct {
	Title       string   `json:"title"`
	Text        string   `json:"text"`
	CategoryID  *string  `json:"category_id"`
	Attachments []string `json:"attachments"`
}

// UpdateArticleRequest is a partial update; absent fields are left
// untouched.
type UpdateArticleRequest struct {
	Title       *string  `json:"title"`
	Text        *string  `json:"text"`
	CategoryID  *string  `json:"category_id"`
	Attachments []string `json:"attachments"`
}

// ArticleResponse response.
type ArticleResponse struct {
	ID          string    `json:"id"`
	AuthorID    string    `json:"author_id"`
	Title       string    `json:"title"`
	Text        string    `json:"text"`
	CategoryID  *string   `json:"category_id"`
	Category    string    `json:"category"`
	Attachments []string  `json:"attachments"`
	DateCreated time.Time `json:"date_created"`
}

// CreateCategoryRequest payload.
type CreateCategoryRequest struct {
	Title string `json:"title"`
}

// CategoryResponse response.
type CategoryResponse struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}
