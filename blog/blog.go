// Package blog loads Markdown articles with YAML front matter.
package blog

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"gopkg.in/yaml.v3"

	"portfolio/api/models"
)

const (
	wordsPerMinute = 200
	excerptLen     = 150
	defaultTitle   = "Untitled"
)

var extensions = []string{".mdx", ".md"}

// reservedSlugs collide with static routes under /blog.
var reservedSlugs = []string{"tags"}

type frontMatter struct {
	Title   string   `yaml:"title"`
	Date    string   `yaml:"date"`
	Excerpt string   `yaml:"excerpt"`
	Tags    []string `yaml:"tags"`
	Author  string   `yaml:"author"`
}

// Store reads posts from a directory on every call, so edits show up
// without a restart.
type Store struct {
	dir    string
	author string
	md     goldmark.Markdown
	policy *bluemonday.Policy
	logger zerolog.Logger
	now    func() time.Time
}

func NewStore(dir, author string, logger zerolog.Logger) *Store {
	return &Store{
		dir:    dir,
		author: author,
		md:     goldmark.New(goldmark.WithExtensions(extension.GFM)),
		policy: bluemonday.UGCPolicy(),
		logger: logger.With().Str("component", "blog").Logger(),
		now:    time.Now,
	}
}

// AllPosts returns every post, newest first. A missing directory yields
// no posts.
func (s *Store) AllPosts() ([]models.BlogPost, error) {
	entries, err := os.ReadDir(s.dir)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.BlogPost{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read blog directory: %w", err)
	}

	posts := []models.BlogPost{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if !slices.Contains(extensions, ext) {
			continue
		}
		slug := strings.TrimSuffix(e.Name(), ext)
		if slices.Contains(reservedSlugs, slug) {
			s.logger.Warn().Str("file", e.Name()).Msg("skipping post with reserved slug")
			continue
		}
		post, err := s.load(filepath.Join(s.dir, e.Name()), slug)
		if err != nil {
			s.logger.Warn().Err(err).Str("file", e.Name()).Msg("skipping unreadable post")
			continue
		}
		posts = append(posts, *post)
	}

	slices.SortStableFunc(posts, func(a, b models.BlogPost) int {
		return parseDate(b.Date).Compare(parseDate(a.Date))
	})
	return posts, nil
}

// PostBySlug returns the post stored as slug.mdx or slug.md, or nil.
func (s *Store) PostBySlug(slug string) (*models.BlogPost, error) {
	if slug == "" || strings.ContainsAny(slug, `/\`) || strings.Contains(slug, "..") || slices.Contains(reservedSlugs, slug) {
		return nil, nil
	}
	for _, ext := range extensions {
		path := filepath.Join(s.dir, slug+ext)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		return s.load(path, slug)
	}
	return nil, nil
}

// PostsByTag returns the posts carrying tag, newest first.
func (s *Store) PostsByTag(tag string) ([]models.BlogPost, error) {
	posts, err := s.AllPosts()
	if err != nil {
		return nil, err
	}
	out := []models.BlogPost{}
	for _, p := range posts {
		if slices.Contains(p.Tags, tag) {
			out = append(out, p)
		}
	}
	return out, nil
}

// AllTags returns the sorted set of tags used by any post.
func (s *Store) AllTags() ([]string, error) {
	posts, err := s.AllPosts()
	if err != nil {
		return nil, err
	}
	tags := []string{}
	for _, p := range posts {
		tags = append(tags, p.Tags...)
	}
	slices.Sort(tags)
	return slices.Compact(tags), nil
}

// RelatedPosts returns up to limit posts sharing a tag with slug, the
// most shared tags first.
func (s *Store) RelatedPosts(slug string, limit int) ([]models.BlogPost, error) {
	posts, err := s.AllPosts()
	if err != nil {
		return nil, err
	}
	idx := slices.IndexFunc(posts, func(p models.BlogPost) bool { return p.Slug == slug })
	if idx < 0 {
		return []models.BlogPost{}, nil
	}
	current := posts[idx]

	type scored struct {
		post   models.BlogPost
		shared int
	}
	var candidates []scored
	for _, p := range posts {
		if p.Slug == slug {
			continue
		}
		n := 0
		for _, t := range p.Tags {
			if slices.Contains(current.Tags, t) {
				n++
			}
		}
		if n > 0 {
			candidates = append(candidates, scored{p, n})
		}
	}
	slices.SortStableFunc(candidates, func(a, b scored) int { return b.shared - a.shared })

	out := []models.BlogPost{}
	for i := 0; i < len(candidates) && i < limit; i++ {
		out = append(out, candidates[i].post)
	}
	return out, nil
}

func (s *Store) load(path, slug string) (*models.BlogPost, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read post %s: %w", slug, err)
	}
	fm, body, err := splitFrontMatter(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid front matter in %s: %w", slug, err)
	}

	var html bytes.Buffer
	if err := s.md.Convert(body, &html); err != nil {
		return nil, fmt.Errorf("failed to render post %s: %w", slug, err)
	}

	post := &models.BlogPost{
		Slug:     slug,
		Title:    fm.Title,
		Date:     fm.Date,
		Excerpt:  fm.Excerpt,
		Content:  s.policy.Sanitize(html.String()),
		Tags:     fm.Tags,
		Author:   fm.Author,
		ReadTime: ReadTime(string(body)),
	}
	if post.Title == "" {
		post.Title = defaultTitle
	}
	if post.Date == "" {
		post.Date = s.now().UTC().Format(time.RFC3339)
	}
	if post.Excerpt == "" {
		post.Excerpt = Excerpt(string(body))
	}
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Author == "" {
		post.Author = s.author
	}
	return post, nil
}

// splitFrontMatter separates a leading "---" delimited YAML block from the
// Markdown body.
func splitFrontMatter(raw []byte) (frontMatter, []byte, error) {
	var fm frontMatter
	raw = bytes.TrimPrefix(raw, []byte("\ufeff"))
	if !bytes.HasPrefix(raw, []byte("---")) {
		return fm, raw, nil
	}
	rest := raw[3:]
	nl := bytes.IndexByte(rest, '\n')
	if nl < 0 || len(bytes.TrimSpace(rest[:nl])) != 0 {
		return fm, raw, nil
	}
	rest = rest[nl+1:]

	end := bytes.Index(rest, []byte("\n---"))
	var header []byte
	switch {
	case bytes.HasPrefix(rest, []byte("---")):
		header, rest = nil, rest[3:]
	case end >= 0:
		header, rest = rest[:end], rest[end+4:]
	default:
		return fm, raw, nil
	}
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[i+1:]
	} else {
		rest = nil
	}

	if err := yaml.Unmarshal(header, &fm); err != nil {
		return fm, nil, err
	}
	return fm, rest, nil
}

// ReadTime estimates minutes to read body, never less than one.
func ReadTime(body string) int {
	words := len(strings.Fields(body))
	return max(1, (words+wordsPerMinute-1)/wordsPerMinute)
}

// Excerpt returns the first excerptLen characters of body followed by an
// ellipsis.
func Excerpt(body string) string {
	r := []rune(body)
	if len(r) > excerptLen {
		r = r[:excerptLen]
	}
	return string(r) + "..."
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseDate(s string) time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
