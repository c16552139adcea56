package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/pointledger/internal/server/http/dto"
)

// MaxDecompressedBody caps the size of a gzip request body after inflation.
const MaxDecompressedBody = 64 << 10

// DecompressRequest inflates gzip encoded request bodies up to MaxDecompressedBody bytes.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !isGzip(c.GetHeader("Content-Encoding")) {
			c.Next()
			return
		}

		body := c.Request.Body
		reader, err := gzip.NewReader(body)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusBadRequest, dto.ErrorResponse{Code: "BAD_REQUEST", Message: "malformed gzip body"})
			return
		}
		defer body.Close()
		defer reader.Close()

		c.Request.Body = http.MaxBytesReader(c.Writer, io.NopCloser(reader), MaxDecompressedBody)
		c.Request.Header.Del("Content-Encoding")
		c.Request.ContentLength = -1
		c.Next()
	}
}

func isGzip(encoding string) bool {
	for _, token := range strings.Split(encoding, ",") {
		if strings.EqualFold(strings.TrimSpace(token), "gzip") {
			return true
		}
	}
	return false
}
