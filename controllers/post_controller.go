package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pfplabs/croaker/models"
	"github.com/pfplabs/croaker/store"
	"github.com/pfplabs/croaker/utils"
)

// PostController serves the publish history.
type PostController struct {
	store *store.Store
}

// NewPostController creates a new PostController instance.
func NewPostController(st *store.Store) *PostController {
	return &PostController{store: st}
}

// ListPosts returns the newest posts, optionally filtered by status.
// Query params: limit (default 20, max 100), status (pending|posted|failed).
func (p *PostController) ListPosts(ctx *gin.Context) {
	limit := 20
	if raw := ctx.Query("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			utils.Error(ctx, http.StatusBadRequest, 40001, "invalid limit")
			return
		}
		if parsed > 100 {
			parsed = 100
		}
		limit = parsed
	}

	status := ctx.Query("status")
	switch status {
	case "", models.StatusPending, models.StatusPosted, models.StatusFailed:
	default:
		utils.Error(ctx, http.StatusBadRequest, 40002, "invalid status")
		return
	}

	posts, err := p.store.RecentPosts(limit, status)
	if err != nil {
		utils.Sugar.Errorw("failed to list posts", "err", err)
		utils.Error(ctx, http.StatusInternalServerError, 50001, "failed to list posts")
		return
	}
	utils.Success(ctx, gin.H{"posts": posts, "count": len(posts)})
}
