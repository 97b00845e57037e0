package server

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/reoring/idjson/internal/model"
	js "github.com/reoring/idjson/jsonschema"
	echomw "github.com/reoring/idjson/middleware/echo"
)

func (s *Server) echoRouter() http.Handler {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.JSONSerializer = echomw.Serializer{Codec: s.codec}
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)
			if err != nil {
				c.Error(err)
			}
			s.logRequest(c.Request().Method, c.Request().URL.Path, c.Response().Status, start)
			return nil
		}
	})

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	e.GET("/api/post", func(c echo.Context) error {
		return c.JSON(http.StatusOK, model.Sample())
	})
	if s.nativeEngine() {
		e.POST("/api/post", func(c echo.Context) error {
			dm, _ := echomw.GetDecoded[model.ParentModel](c)
			if h := malformedHeader(dm.Presence); h != "" {
				c.Response().Header().Set(MalformedHeader, h)
			}
			return c.JSON(http.StatusOK, dm.Value)
		}, echomw.DecodeJSON[model.ParentModel](s.native))
	} else {
		e.POST("/api/post", func(c echo.Context) error {
			var m model.ParentModel
			if err := c.Bind(&m); err != nil {
				return err
			}
			return c.JSON(http.StatusOK, m)
		})
	}
	e.GET("/schema", func(c echo.Context) error {
		return c.JSON(http.StatusOK, js.For[model.ParentModel]())
	})
	e.GET("/openapi.json", func(c echo.Context) error {
		b, err := s.openAPIJSON()
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, b)
	})
	e.GET("/openapi.yaml", func(c echo.Context) error {
		b, err := s.openAPIYAML()
		if err != nil {
			return err
		}
		return c.Blob(http.StatusOK, "application/yaml", b)
	})
	return e
}
