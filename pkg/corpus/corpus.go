// Package corpus loads articles into documents for the bootstrapping
// engine, either from a folder of raw files or from the article store.
package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kittclouds/yarowsky/internal/store"
	"github.com/kittclouds/yarowsky/pkg/docstore"
	"github.com/kittclouds/yarowsky/pkg/preprocess"
)

// ErrNoCorpus is returned when a source has nothing to read from.
var ErrNoCorpus = errors.New("corpus not found")

// Source yields the documents of a corpus in a stable order.
type Source interface {
	Documents(ctx context.Context) ([]docstore.Document, error)
}

// DocumentID names the article at position in source.
func DocumentID(source string, position int) string {
	return source + "#" + strconv.Itoa(position)
}

// FolderSource reads every regular file under Root, in lexical path order.
type FolderSource struct {
	Root string
}

// Documents splits and normalizes each file. Document sources are paths
// relative to Root using forward slashes.
func (f FolderSource) Documents(ctx context.Context) ([]docstore.Document, error) {
	info, err := os.Stat(f.Root)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoCorpus, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrNoCorpus, f.Root)
	}

	var docs []docstore.Document
	err = filepath.WalkDir(f.Root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		rel, err := filepath.Rel(f.Root, path)
		if err != nil {
			return err
		}
		raw, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}
		docs = append(docs, FromRaw(filepath.ToSlash(rel), string(raw))...)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("load folder %s: %w", f.Root, err)
	}
	return docs, nil
}

// FromRaw splits the contents of one raw file into documents.
func FromRaw(source, raw string) []docstore.Document {
	articles := preprocess.Articles(raw)
	docs := make([]docstore.Document, len(articles))
	for i, words := range articles {
		docs[i] = docstore.Document{
			ID:     DocumentID(source, i),
			Source: source,
			Words:  words,
		}
	}
	return docs
}

// ArticleLister is the part of the article store SQLiteSource reads.
type ArticleLister interface {
	ListArticles(source string) ([]*store.Article, error)
}

// SQLiteSource reads ingested articles, ordered by source then position.
type SQLiteSource struct {
	Store ArticleLister
}

// Documents returns every stored article as a document.
func (s SQLiteSource) Documents(ctx context.Context) ([]docstore.Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	articles, err := s.Store.ListArticles("")
	if err != nil {
		return nil, fmt.Errorf("list articles: %w", err)
	}
	if len(articles) == 0 {
		return nil, fmt.Errorf("%w: article store is empty", ErrNoCorpus)
	}
	docs := make([]docstore.Document, len(articles))
	for i, a := range articles {
		docs[i] = docstore.Document{
			ID:     DocumentID(a.Source, a.Position),
			Source: a.Source,
			Words:  strings.Fields(a.Body),
		}
	}
	return docs, nil
}

// Load reads src into a fresh document store.
func Load(ctx context.Context, src Source) (*docstore.Store, error) {
	docs, err := src.Documents(ctx)
	if err != nil {
		return nil, err
	}
	ds := docstore.New()
	ds.Hydrate(docs)
	return ds, nil
}
