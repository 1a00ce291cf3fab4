package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestResolveClientID(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func() *gin.Engine {
		r := gin.New()
		r.GET("/x", ResolveClientID(), func(c *gin.Context) {
			c.String(http.StatusOK, GetClientID(c))
		})
		return r
	}

	t.Run("HeaderIdentity", func(t *testing.T) {
		r := newRouter()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		req.Header.Set(HeaderClientID, "device-abc")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", w.Code)
		}
		if w.Body.String() != "device-abc" {
			t.Errorf("client id = %q, want device-abc", w.Body.String())
		}
	})

	t.Run("MissingIdentityRejected", func(t *testing.T) {
		r := newRouter()
		req := httptest.NewRequest(http.MethodGet, "/x", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", w.Code)
		}
	})
}
