package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/opencatalog/blogext/middleware"
	"github.com/opencatalog/blogext/repository"
	"github.com/opencatalog/blogext/utils"
)

// BlogController manages CRUD operations for blog posts.
type BlogController struct {
	repo repository.PostRepository
}

// NewBlogController creates a new BlogController instance.
func NewBlogController(repo repository.PostRepository) *BlogController {
	return &BlogController{repo: repo}
}

// ListPosts returns all blog posts, newest first.
func (b *BlogController) ListPosts(ctx *gin.Context) {
	const cacheKey = "cache:blog:list"
	if body, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", body)
		return
	}

	posts, err := b.repo.List(ctx.Request.Context())
	if err != nil {
		utils.Error(ctx, http.StatusInternalServerError, 50021, "failed to list blog posts")
		return
	}

	items := make([]map[string]interface{}, 0, len(posts))
	for i := range posts {
		items = append(items, posts[i].ToView())
	}

	payload := gin.H{"posts": items}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 0)
	utils.Success(ctx, payload)
}

// GetPost returns a single blog post.
func (b *BlogController) GetPost(ctx *gin.Context) {
	postID := ctx.Param("id")

	cacheKey := "cache:blog:detail:" + postID
	if body, ok := utils.CacheGetBytes(cacheKey); ok {
		ctx.Data(http.StatusOK, "application/json", body)
		return
	}

	post, err := b.repo.GetByID(ctx.Request.Context(), postID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40401, "blog post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50022, "failed to load blog post")
		return
	}

	payload := gin.H{"post": post.ToView()}
	utils.CacheSetJSON(cacheKey, utils.JSONResponse{Code: 0, Message: "success", Data: payload}, 0)
	utils.Success(ctx, payload)
}

// CreatePost accepts a multipart form with title, content, an optional
// thumbnail file, and any number of image files. Sysadmin only.
func (b *BlogController) CreatePost(ctx *gin.Context) {
	in := b.readForm(ctx)
	actor := getActor(ctx)
	id, err := b.repo.Create(ctx.Request.Context(), actor, in)
	if err != nil {
		if errors.Is(err, repository.ErrValidation) {
			utils.Error(ctx, http.StatusBadRequest, 40021, "please fill in all fields")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50023, "failed to create blog post")
		return
	}

	utils.InvalidateByPrefix("cache:blog:")
	utils.Success(ctx, gin.H{"id": id})
}

// UpdatePost edits an existing post. New images are appended after the
// existing ones; a new thumbnail replaces the old reference.
func (b *BlogController) UpdatePost(ctx *gin.Context) {
	postID := ctx.Param("id")
	in := b.readForm(ctx)
	if err := b.repo.Update(ctx.Request.Context(), postID, in); err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			utils.Error(ctx, http.StatusNotFound, 40402, "blog post not found")
		case errors.Is(err, repository.ErrValidation):
			utils.Error(ctx, http.StatusBadRequest, 40022, "please fill in all fields")
		default:
			utils.Error(ctx, http.StatusInternalServerError, 50024, "failed to update blog post")
		}
		return
	}

	utils.InvalidateByPrefix("cache:blog:")
	utils.Success(ctx, gin.H{"id": postID})
}

// DeletePost removes a post. Uploaded files it referenced stay on disk.
func (b *BlogController) DeletePost(ctx *gin.Context) {
	postID := ctx.Param("id")

	if err := b.repo.Delete(ctx.Request.Context(), postID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			utils.Error(ctx, http.StatusNotFound, 40403, "blog post not found")
			return
		}
		utils.Error(ctx, http.StatusInternalServerError, 50025, "failed to delete blog post")
		return
	}

	utils.InvalidateByPrefix("cache:blog:")
	utils.Success(ctx, gin.H{"message": "blog post deleted"})
}

// readForm extracts the post fields and files from a multipart form.
// Title and content are sanitized before anything touches the database.
func (b *BlogController) readForm(ctx *gin.Context) repository.PostInput {
	in := repository.PostInput{
		Title:   utils.Sanitize(strings.TrimSpace(ctx.PostForm("title"))),
		Content: utils.Sanitize(ctx.PostForm("content")),
	}

	if fh, err := ctx.FormFile("thumbnail"); err == nil {
		in.Thumbnail = fh
	}
	if form, err := ctx.MultipartForm(); err == nil && form != nil {
		in.Images = form.File["images"]
	}
	return in
}

func getActor(ctx *gin.Context) string {
	if v, exists := ctx.Get(middleware.ContextUsernameKey); exists {
		if name, ok := v.(string); ok {
			return name
		}
	}
	return ""
}
