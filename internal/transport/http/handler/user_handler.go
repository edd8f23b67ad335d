package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kairowan/users-api/internal/domain"
	"github.com/kairowan/users-api/internal/service"
	resp "github.com/kairowan/users-api/internal/transport/http/response"
)

type UserHandler struct{ users *service.UserService }

func NewUserHandler(s *service.UserService) *UserHandler { return &UserHandler{users: s} }

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return id, true
}

func queryInt(c *gin.Context, name string, def int) (int, bool) {
	s := c.Query(name)
	if s == "" {
		return def, true
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		resp.Error(c, http.StatusBadRequest, "invalid "+name)
		return 0, false
	}
	return v, true
}

// List GET /users?skip&limit
func (h *UserHandler) List(c *gin.Context) {
	skip, ok := queryInt(c, "skip", 0)
	if !ok {
		return
	}
	limit, ok := queryInt(c, "limit", 100)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.users.List(skip, limit))
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	u, err := h.users.Get(id)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Create(c *gin.Context) {
	var in domain.UserCreate
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.users.Create(in)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, u)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in domain.UserUpdate
	if err := c.ShouldBindJSON(&in); err != nil {
		resp.Error(c, http.StatusBadRequest, err.Error())
		return
	}
	u, err := h.users.Update(id, in)
	if err != nil {
		resp.FromError(c, err)
		return
	}
	c.JSON(http.StatusOK, u)
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.users.Delete(id); err != nil {
		resp.FromError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
