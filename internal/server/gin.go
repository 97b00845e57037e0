package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/reoring/idjson/internal/model"
	js "github.com/reoring/idjson/jsonschema"
	"github.com/reoring/idjson/middleware"
	ginmw "github.com/reoring/idjson/middleware/gin"
)

func (s *Server) ginRouter() http.Handler {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.logRequest(c.Request.Method, c.Request.URL.Path, c.Writer.Status(), start)
	})

	r.GET("/healthz", func(c *gin.Context) {
		ginmw.JSON(c, http.StatusOK, s.codec, map[string]string{"status": "ok"})
	})
	r.GET("/api/post", func(c *gin.Context) {
		ginmw.JSON(c, http.StatusOK, s.codec, model.Sample())
	})
	if s.nativeEngine() {
		r.POST("/api/post", ginmw.DecodeJSON[model.ParentModel](s.native), func(c *gin.Context) {
			dm, _ := ginmw.GetDecoded[model.ParentModel](c)
			if h := malformedHeader(dm.Presence); h != "" {
				c.Header(MalformedHeader, h)
			}
			ginmw.JSON(c, http.StatusOK, s.codec, dm.Value)
		})
	} else {
		r.POST("/api/post", func(c *gin.Context) {
			var m model.ParentModel
			if err := c.ShouldBindWith(&m, ginmw.Binding{Codec: s.codec}); err != nil {
				ginmw.JSON(c, http.StatusBadRequest, s.codec, middleware.ErrorPayload(middleware.IssuesFrom(err)))
				return
			}
			ginmw.JSON(c, http.StatusOK, s.codec, m)
		})
	}
	r.GET("/schema", func(c *gin.Context) {
		ginmw.JSON(c, http.StatusOK, s.codec, js.For[model.ParentModel]())
	})
	r.GET("/openapi.json", func(c *gin.Context) {
		b, err := s.openAPIJSON()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusOK, "application/json", b)
	})
	r.GET("/openapi.yaml", func(c *gin.Context) {
		b, err := s.openAPIYAML()
		if err != nil {
			c.AbortWithError(http.StatusInternalServerError, err)
			return
		}
		c.Data(http.StatusOK, "application/yaml", b)
	})
	return r
}
