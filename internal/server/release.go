//go:build !debug

package server

import "github.com/gin-gonic/gin"

func registerDebugRoutes(*TalkServer, *gin.Engine) {}
