package domain

// MaxCategoryTitleLength bounds category titles at creation.
const MaxCategoryTitleLength = 30

// Category groups knowledgebase articles.
type Category struct {
	ID    string
	Title string
}
