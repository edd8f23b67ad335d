package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kairowan/users-api/internal/domain"
	"github.com/kairowan/users-api/internal/service"
	resp "github.com/kairowan/users-api/internal/transport/http/response"
)

type PostHandler struct{ posts *service.PostService }

func NewPostHandler(s *service.PostService) *PostHandler { return &PostHandler{posts: s} }

// List GET /users/:id/posts
func (h *PostHandler) List(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	ps, err := h.posts.List(userID)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, ps)
}

func (h *PostHandler) Create(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in domain.PostCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.posts.Create(userID, in)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

func (h *PostHandler) Get(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	postID, ok := pathID(c, "pid")
	if !ok {
		return
	}
	p, err := h.posts.Get(userID, postID)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Update(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	postID, ok := pathID(c, "pid")
	if !ok {
		return
	}
	var in domain.PostUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	p, err := h.posts.Update(userID, postID, in)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *PostHandler) Delete(c *gin.Context) {
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	postID, ok := pathID(c, "pid")
	if !ok {
		return
	}
	if err := h.posts.Delete(userID, postID); err != nil {
		resp.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
