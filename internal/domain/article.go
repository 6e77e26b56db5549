package domain

import (
	"strings"
	"time"
)

// Article is a knowledgebase entry. CategoryID is a weak reference: deleting
// a category leaves articles pointing at the removed id.
type Article struct {
	ID            string
	AuthorID      string
	Title         string
	Text          string
	CategoryID    *string
	CategoryTitle string
	Attachments   []string
	DateCreated   time.Time
}

// ArticleMatchesWords reports whether the article's title or body contains
// any of the given words, case-insensitively. Words are combined with OR:
// matching a single word matches the article.
func ArticleMatchesWords(article Article, words []string) bool {
	if len(words) == 0 {
		return true
	}
	title := strings.ToLower(article.Title)
	text := strings.ToLower(article.Text)
	for _, word := range words {
		w := strings.ToLower(word)
		if w == "" {
			continue
		}
		if strings.Contains(title, w) || strings.Contains(text, w) {
			return true
		}
	}
	return false
}
