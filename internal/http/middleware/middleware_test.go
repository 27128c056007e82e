package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/core/config"
	"basegraph.app/storyforge/internal/http/middleware"
	"basegraph.app/storyforge/internal/session"
)

var _ = Describe("Session", func() {
	var (
		router  *gin.Engine
		manager *session.Manager
		cfg     config.SessionConfig
		seen    *session.Session
		logSID  string
	)

	BeforeEach(func() {
		gin.SetMode(gin.TestMode)
		cfg = config.SessionConfig{
			MaxDocuments: 5,
			IdleTTL:      time.Hour,
			HeaderName:   "X-Session-ID",
			CookieName:   "storyforge_session",
		}
		manager = session.NewManager(cfg)
		seen = nil
		logSID = ""

		router = gin.New()
		router.Use(middleware.Session(manager, cfg, false))
		router.GET("/whoami", func(c *gin.Context) {
			seen = middleware.SessionFrom(c)
			if sid := logger.GetLogFields(c.Request.Context()).SessionID; sid != nil {
				logSID = *sid
			}
			c.Status(http.StatusOK)
		})
	})

	request := func(mutate func(*http.Request)) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
		if mutate != nil {
			mutate(req)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("creates a session and echoes its id in header and cookie", func() {
		w := request(nil)

		sid := w.Header().Get("X-Session-ID")
		Expect(uuid.Validate(sid)).To(Succeed())
		Expect(seen.ID).To(Equal(sid))
		Expect(logSID).To(Equal(sid))
		Expect(w.Header().Get("Set-Cookie")).To(ContainSubstring("storyforge_session=" + sid))
		Expect(w.Header().Get("Set-Cookie")).To(ContainSubstring("HttpOnly"))
		Expect(manager.Len()).To(Equal(1))
	})

	It("reuses the session named by the header", func() {
		first := request(nil).Header().Get("X-Session-ID")
		firstSession := seen

		request(func(r *http.Request) { r.Header.Set("X-Session-ID", first) })

		Expect(seen).To(BeIdenticalTo(firstSession))
		Expect(manager.Len()).To(Equal(1))
	})

	It("falls back to the cookie", func() {
		first := request(nil).Header().Get("X-Session-ID")

		w := request(func(r *http.Request) {
			r.AddCookie(&http.Cookie{Name: "storyforge_session", Value: first})
		})

		Expect(w.Header().Get("X-Session-ID")).To(Equal(first))
		Expect(manager.Len()).To(Equal(1))
	})

	It("replaces an id that is not a uuid", func() {
		w := request(func(r *http.Request) { r.Header.Set("X-Session-ID", "../../etc/passwd") })

		sid := w.Header().Get("X-Session-ID")
		Expect(sid).NotTo(Equal("../../etc/passwd"))
		Expect(uuid.Validate(sid)).To(Succeed())
	})
})

var _ = Describe("Recovery", func() {
	It("answers 500 with a JSON error", func() {
		gin.SetMode(gin.TestMode)
		router := gin.New()
		router.Use(middleware.Recovery(), middleware.Logger("/health"))
		router.GET("/boom", func(c *gin.Context) {
			panic("boom")
		})

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

		Expect(w.Code).To(Equal(http.StatusInternalServerError))
		Expect(w.Body.String()).To(MatchJSON(`{"error":"internal server error","code":"internal"}`))
	})

	It("releases the session lock after a panic", func() {
		gin.SetMode(gin.TestMode)
		cfg := config.SessionConfig{IdleTTL: time.Hour, HeaderName: "X-Session-ID", CookieName: "sid", MaxDocuments: 1}
		manager := session.NewManager(cfg)

		router := gin.New()
		router.Use(middleware.Recovery(), middleware.Session(manager, cfg, false))
		router.GET("/boom", func(c *gin.Context) { panic("boom") })
		router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))
		sid := w.Header().Get("X-Session-ID")

		done := make(chan int, 1)
		go func() {
			req := httptest.NewRequest(http.MethodGet, "/ok", nil)
			req.Header.Set("X-Session-ID", sid)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)
			done <- w.Code
		}()

		Eventually(done).Should(Receive(Equal(http.StatusOK)))
	})
})
