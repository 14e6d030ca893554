//go:build debug

package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func registerDebugRoutes(s *TalkServer, r *gin.Engine) {
	r.GET("/debug", func(c *gin.Context) {
		msg := NewDebugMessage()
		s.AddMessage(msg)
		msg.Wait()
		c.String(http.StatusOK, "ok")
	})
}
