package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
)

func TestBrotli(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func(chunks ...string) *gin.Engine {
		r := gin.New()
		r.Use(Brotli())
		r.GET("/x", func(c *gin.Context) {
			c.Status(http.StatusOK)
			for _, chunk := range chunks {
				if _, err := c.Writer.WriteString(chunk); err != nil {
					t.Errorf("write: %v", err)
				}
			}
		})
		return r
	}

	request := func(r *gin.Engine) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set("Accept-Encoding", "br")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w
	}

	t.Run("SmallResponseStaysIdentity", func(t *testing.T) {
		r := newRouter("tiny body")
		w := request(r)

		if enc := w.Header().Get("Content-Encoding"); enc != "" {
			t.Fatalf("Content-Encoding = %q, want none", enc)
		}
		if w.Body.String() != "tiny body" {
			t.Errorf("body = %q, want %q", w.Body.String(), "tiny body")
		}
	})

	t.Run("LargeResponseCompressed", func(t *testing.T) {
		big := strings.Repeat("abcdefgh", 256)
		r := newRouter(big)
		w := request(r)

		if enc := w.Header().Get("Content-Encoding"); enc != "br" {
			t.Fatalf("Content-Encoding = %q, want br", enc)
		}
		got, err := io.ReadAll(brotli.NewReader(w.Body))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(got) != big {
			t.Errorf("decoded body mismatch (%d bytes, want %d)", len(got), len(big))
		}
	})

	t.Run("SmallTailAfterCompressedWrites", func(t *testing.T) {
		// A write that crosses the threshold followed by a short tail: the
		// whole body must decode as one brotli stream, tail included.
		big := strings.Repeat("abcdefgh", 256)
		tail := "short tail"
		r := newRouter(big, tail)
		w := request(r)

		if enc := w.Header().Get("Content-Encoding"); enc != "br" {
			t.Fatalf("Content-Encoding = %q, want br", enc)
		}
		got, err := io.ReadAll(brotli.NewReader(w.Body))
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if string(got) != big+tail {
			t.Errorf("decoded body mismatch (%d bytes, want %d)", len(got), len(big+tail))
		}
	})
}
