package repository

import (
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strings"

	"gorm.io/gorm"

	"github.com/opencatalog/blogext/models"
	"github.com/opencatalog/blogext/storage"
)

var (
	// ErrNotFound reports an unknown post id. It is a normal outcome for
	// read/update/delete, not a server failure.
	ErrNotFound = errors.New("blog post not found")
	// ErrValidation reports an empty title or content after trimming.
	ErrValidation = errors.New("title and content are required")
)

// PostRepository exposes blog post CRUD composed with the upload store.
type PostRepository interface {
	Create(ctx context.Context, actor string, in PostInput) (string, error)
	GetByID(ctx context.Context, id string) (*models.Post, error)
	List(ctx context.Context) ([]models.Post, error)
	Update(ctx context.Context, id string, in PostInput) error
	Delete(ctx context.Context, id string) error
}

// PostInput carries the form fields of a create or update request.
// Thumbnail and Images may be nil/empty; a missing file simply means
// nothing to store.
type PostInput struct {
	Title     string
	Content   string
	Thumbnail *multipart.FileHeader
	Images    []*multipart.FileHeader
}

// GormPostRepository is the gorm-backed implementation.
type GormPostRepository struct {
	db    *gorm.DB
	store *storage.UploadStore
}

// NewPostRepository creates a post repository over the given database and
// upload store.
func NewPostRepository(db *gorm.DB, store *storage.UploadStore) *GormPostRepository {
	return &GormPostRepository{db: db, store: store}
}

// Create stores any submitted files, validates the text fields, and
// persists a new post. Uploads run before validation on purpose: a
// rejected form leaves its files on disk, matching the portal's historic
// behavior. Returns the generated post id.
func (r *GormPostRepository) Create(ctx context.Context, actor string, in PostInput) (string, error) {
	thumbnail := r.saveThumbnail(in.Thumbnail)
	images := r.saveImages(in.Images)

	if strings.TrimSpace(in.Title) == "" || strings.TrimSpace(in.Content) == "" {
		return "", ErrValidation
	}

	post := &models.Post{
		Title:     in.Title,
		Content:   in.Content,
		Author:    actor,
		Thumbnail: thumbnail,
		Images:    models.EncodeImages(images),
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(post).Error
	})
	if err != nil {
		return "", fmt.Errorf("create blog post: %w", err)
	}
	return post.ID, nil
}

// GetByID fetches a single post. No side effects.
func (r *GormPostRepository) GetByID(ctx context.Context, id string) (*models.Post, error) {
	var post models.Post
	if err := r.db.WithContext(ctx).First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("load blog post: %w", err)
	}
	return &post, nil
}

// List returns all posts, newest first.
func (r *GormPostRepository) List(ctx context.Context) ([]models.Post, error) {
	var posts []models.Post
	if err := r.db.WithContext(ctx).Order("created DESC").Find(&posts).Error; err != nil {
		return nil, fmt.Errorf("list blog posts: %w", err)
	}
	return posts, nil
}

// Update overwrites title/content, replaces the thumbnail when a new file
// is supplied, and appends any new images to the existing list. An unknown
// id stops the operation before any file is written. Validation failure
// rolls the transaction back, but files already stored stay on disk.
func (r *GormPostRepository) Update(ctx context.Context, id string, in PostInput) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		post.Title = in.Title
		post.Content = in.Content

		if thumbnail := r.saveThumbnail(in.Thumbnail); thumbnail != nil {
			post.Thumbnail = thumbnail
		}
		post.AppendImages(r.saveImages(in.Images))

		if strings.TrimSpace(post.Title) == "" || strings.TrimSpace(post.Content) == "" {
			return ErrValidation
		}
		return tx.Save(&post).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrValidation) {
			return err
		}
		return fmt.Errorf("update blog post: %w", err)
	}
	return nil
}

// Delete removes a post. Files it referenced are not reclaimed.
func (r *GormPostRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post models.Post
		if err := tx.First(&post, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}
		return tx.Delete(&post).Error
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return err
		}
		return fmt.Errorf("delete blog post: %w", err)
	}
	return nil
}

// saveThumbnail stores an optional thumbnail file. nil means nothing was
// submitted or the store declined the file.
func (r *GormPostRepository) saveThumbnail(fh *multipart.FileHeader) *string {
	if fh == nil {
		return nil
	}
	if path := r.store.Save(fh, "thumb"); path != "" {
		return &path
	}
	return nil
}

// saveImages stores each submitted image, skipping the ones the store
// declined. Order of the surviving paths follows submission order.
func (r *GormPostRepository) saveImages(files []*multipart.FileHeader) []string {
	var paths []string
	for _, fh := range files {
		if path := r.store.Save(fh, "img"); path != "" {
			paths = append(paths, path)
		}
	}
	return paths
}
