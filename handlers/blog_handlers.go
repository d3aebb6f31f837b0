package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"portfolio/api/models"
)

const defaultRelatedLimit = 3

// BlogSource reads published posts.
type BlogSource interface {
	AllPosts() ([]models.BlogPost, error)
	PostBySlug(slug string) (*models.BlogPost, error)
	PostsByTag(tag string) ([]models.BlogPost, error)
	AllTags() ([]string, error)
	RelatedPosts(slug string, limit int) ([]models.BlogPost, error)
}

type BlogHandlers struct {
	Blog   BlogSource
	logger zerolog.Logger
}

func NewBlogHandlers(blog BlogSource, logger zerolog.Logger) *BlogHandlers {
	return &BlogHandlers{Blog: blog, logger: logger.With().Str("component", "blog").Logger()}
}

func (h *BlogHandlers) List(c *gin.Context) {
	posts, err := h.Blog.AllPosts()
	if err != nil {
		h.fail(c, err, "list")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *BlogHandlers) Tags(c *gin.Context) {
	tags, err := h.Blog.AllTags()
	if err != nil {
		h.fail(c, err, "tags")
		return
	}
	c.JSON(http.StatusOK, tags)
}

func (h *BlogHandlers) ByTag(c *gin.Context) {
	posts, err := h.Blog.PostsByTag(c.Param("tag"))
	if err != nil {
		h.fail(c, err, "by_tag")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *BlogHandlers) Get(c *gin.Context) {
	post, err := h.Blog.PostBySlug(c.Param("slug"))
	if err != nil {
		h.fail(c, err, "get")
		return
	}
	if post == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Post not found"})
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *BlogHandlers) Related(c *gin.Context) {
	limit := defaultRelatedLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		limit = n
	}
	posts, err := h.Blog.RelatedPosts(c.Param("slug"), limit)
	if err != nil {
		h.fail(c, err, "related")
		return
	}
	c.JSON(http.StatusOK, posts)
}

func (h *BlogHandlers) fail(c *gin.Context, err error, op string) {
	h.logger.Error().Err(err).Str("op", op).Msg("blog request failed")
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load blog content"})
}
