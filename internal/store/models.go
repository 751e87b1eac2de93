// Package store provides SQLite-backed persistence for ingested corpus
// articles. Only normalized input text lives here; run results never do.
package store

import (
	"strconv"

	"github.com/google/uuid"
)

// Article is one normalized article of a raw corpus file.
type Article struct {
	ID        string `json:"id"`
	Source    string `json:"source"`   // file the article came from
	Position  int    `json:"position"` // 0-based index within Source
	Body      string `json:"body"`     // normalized, space separated words
	CreatedAt int64  `json:"createdAt"`
}

// articleNamespace scopes the name-based article ids.
var articleNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("yarowsky/articles"))

// ArticleID derives the stable id of the article at position in source, so
// re-ingesting a file maps onto the same rows.
func ArticleID(source string, position int) string {
	return uuid.NewSHA1(articleNamespace, []byte(source+"#"+strconv.Itoa(position))).String()
}

// Storer defines the interface for article persistence.
type Storer interface {
	UpsertArticle(a *Article) error
	GetArticle(id string) (*Article, error)
	ListArticles(source string) ([]*Article, error)
	CountArticles() (int, error)
	DeleteSource(source string) (int, error)
	ReplaceSource(source string, articles []*Article) (int, error)

	Export() ([]byte, error)
	Import(data []byte) error
	Close() error
}
