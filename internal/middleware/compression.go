package middleware

import (
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// compressionExcludedPaths already carry their own encoding: promhttp
// gzips /metrics itself.
var compressionExcludedPaths = []string{"/metrics"}

// compressionExcludedRoutes serve xlsx workbooks, which are zip archives.
var compressionExcludedRoutes = []string{`^/api/dispatch/carts/[^/]+/export$`}

// Compression returns a middleware that gzips responses for clients that
// accept it, leaving workbook exports and metrics untouched.
func Compression() gin.HandlerFunc {
	return gzip.Gzip(gzip.DefaultCompression,
		gzip.WithExcludedExtensions([]string{".xlsx", ".zip", ".gz"}),
		gzip.WithExcludedPaths(compressionExcludedPaths),
		gzip.WithExcludedPathsRegexs(compressionExcludedRoutes),
	)
}
