package search

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"unicode"
)

type Result struct {
	Title   string `json:"title"`
	Path    string `json:"path"`
	Part    string `json:"part"`
	Snippet string `json:"snippet"`
}

type SearchResponse struct {
	Total   uint64   `json:"total"`
	Results []Result `json:"results"`
}

type SQLiteSearcher struct {
	db *sql.DB
}

func NewSQLiteSearcher(path string) (*SQLiteSearcher, error) {
	db, err := openDB(path)
	if err != nil {
		return nil, err
	}
	return &SQLiteSearcher{db: db}, nil
}

func (s *SQLiteSearcher) Close() error {
	return s.db.Close()
}

// Search runs a prefix match of every query term against page titles and
// text, best matches first. A non-empty part restricts results to one
// top-level directory.
func (s *SQLiteSearcher) Search(ctx context.Context, queryString, part string, limit, offset int) (SearchResponse, error) {
	queryString = sanitizeQuery(queryString)
	if queryString == "" {
		return SearchResponse{Results: []Result{}}, nil
	}
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	query := `SELECT p.title, p.path, p.part,
		        snippet(pages_fts, 1, '<mark>', '</mark>', '…', 16),
		        COUNT(*) OVER() AS total
		 FROM pages_fts
		 JOIN pages p ON p.rowid = pages_fts.rowid
		 WHERE pages_fts MATCH ?`
	args := []any{queryString}

	if part != "" {
		query += ` AND p.part = ?`
		args = append(args, part)
	}

	query += ` ORDER BY pages_fts.rank LIMIT ? OFFSET ?`
	args = append(args, limit, offset)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return SearchResponse{}, fmt.Errorf("search query: %w", err)
	}
	defer func() { _ = rows.Close() }()

	resp := SearchResponse{Results: make([]Result, 0)}
	for rows.Next() {
		var r Result
		var total uint64
		if err := rows.Scan(&r.Title, &r.Path, &r.Part, &r.Snippet, &total); err != nil {
			return SearchResponse{}, fmt.Errorf("scan result: %w", err)
		}
		resp.Total = total
		resp.Results = append(resp.Results, r)
	}
	if err := rows.Err(); err != nil {
		return SearchResponse{}, fmt.Errorf("iterate results: %w", err)
	}

	return resp, nil
}

// sanitizeQuery turns free text into an FTS5 query of quoted prefix terms.
// Punctuation and the boolean operators are dropped.
func sanitizeQuery(q string) string {
	var b strings.Builder
	for _, r := range q {
		switch {
		case unicode.IsLetter(r), unicode.IsDigit(r), r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune(' ')
		}
	}

	var terms []string
	for _, t := range strings.Fields(b.String()) {
		switch strings.ToUpper(t) {
		case "AND", "OR", "NOT", "NEAR":
			continue
		}
		terms = append(terms, `"`+t+`"*`)
	}
	return strings.Join(terms, " ")
}
