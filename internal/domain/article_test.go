package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArticleMatchesWords(t *testing.T) {
	article := Article{
		Title: "Fixing a printer jam",
		Text:  "Open the rear tray and remove the stuck page.",
	}

	assert.True(t, ArticleMatchesWords(article, []string{"printer"}))
	assert.True(t, ArticleMatchesWords(article, []string{"tray"}), "body text is searched too")
	assert.True(t, ArticleMatchesWords(article, []string{"PRINTER"}), "matching is case insensitive")

	// words are OR-combined: one hit is enough
	assert.True(t, ArticleMatchesWords(article, []string{"nonsense", "jam"}))
	assert.False(t, ArticleMatchesWords(article, []string{"nonsense", "gibberish"}))

	assert.True(t, ArticleMatchesWords(article, nil), "no words matches everything")
	assert.True(t, ArticleMatchesWords(article, []string{}))
}

func TestArticleMatchesWordsIsUnionOfSingles(t *testing.T) {
	articles := []Article{
		{ID: "1", Title: "printer jam", Text: ""},
		{ID: "2", Title: "vpn setup", Text: "connect the printer over vpn"},
		{ID: "3", Title: "password reset", Text: ""},
	}
	words := []string{"printer", "jam"}

	for _, article := range articles {
		single := false
		for _, word := range words {
			if ArticleMatchesWords(article, []string{word}) {
				single = true
				break
			}
		}
		assert.Equal(t, single, ArticleMatchesWords(article, words), "article %s", article.ID)
	}
}
