package handler

import (
	"path/filepath"

	"github.com/gin-gonic/gin"
)

type PageHandler struct {
	publicDir string
}

func NewPageHandler(publicDir string) *PageHandler {
	return &PageHandler{publicDir: publicDir}
}

func (h *PageHandler) Login(c *gin.Context) {
	c.File(filepath.Join(h.publicDir, "login.html"))
}

func (h *PageHandler) HomeDetail(c *gin.Context) {
	c.File(filepath.Join(h.publicDir, "HomeDetail.html"))
}
