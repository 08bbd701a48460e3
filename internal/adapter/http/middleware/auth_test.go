package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	. "github.com/onsi/gomega"

	"todolist/internal/adapter/http/middleware"
)

func extract(header string, cookie string) string {
	gin.SetMode(gin.TestMode)

	req := httptest.NewRequest(http.MethodGet, "/", nil)

	if header != "" {
		req.Header.Set("Authorization", header)
	}

	if cookie != "" {
		req.AddCookie(&http.Cookie{Name: middleware.TokenCookie, Value: cookie})
	}

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = req

	return middleware.ExtractToken(c)
}

func TestExtractToken(t *testing.T) {
	RegisterTestingT(t)

	Expect(extract("Bearer abc", "")).To(Equal("abc"))
	Expect(extract("bearer abc", "")).To(Equal("abc"))
	Expect(extract("", "from-cookie")).To(Equal("from-cookie"))
	Expect(extract("Bearer header", "cookie")).To(Equal("header"))
	Expect(extract("Basic abc", "cookie")).To(Equal("cookie"))
	Expect(extract("Bearer ", "")).To(BeEmpty())
	Expect(extract("", "")).To(BeEmpty())
}

func TestCurrentUserMissing(t *testing.T) {
	RegisterTestingT(t)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	_, ok := middleware.CurrentUser(c)
	Expect(ok).To(BeFalse())

	_, ok = middleware.CurrentClaims(c)
	Expect(ok).To(BeFalse())

	Expect(func() { middleware.MustCurrentUser(c) }).To(Panic())
}
