package echomw

import (
	"bytes"
	"fmt"
	"io"
	"net/http"

	gojson "github.com/goccy/go-json"
	"github.com/labstack/echo/v4"

	idjson "github.com/reoring/idjson"
	"github.com/reoring/idjson/middleware"
)

// Serializer adapts a middleware.Codec to echo.JSONSerializer so c.JSON and
// c.Bind go through the identifier-aware pipeline.
type Serializer struct {
	Codec middleware.Codec
}

var _ echo.JSONSerializer = Serializer{}

func (s Serializer) Serialize(c echo.Context, i interface{}, indent string) error {
	b, err := s.Codec.Marshal(i)
	if err != nil {
		return err
	}
	if indent != "" {
		if b, err = reindent(b, indent); err != nil {
			return err
		}
	}
	_, err = c.Response().Write(b)
	return err
}

func (s Serializer) Deserialize(c echo.Context, i interface{}) error {
	b, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error()).SetInternal(err)
	}
	if err := s.Codec.Unmarshal(b, i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, middleware.ErrorPayload(middleware.IssuesFrom(err))).SetInternal(err)
	}
	return nil
}

func reindent(b []byte, indent string) ([]byte, error) {
	var buf bytes.Buffer
	if err := gojson.Indent(&buf, b, "", indent); err != nil {
		return nil, fmt.Errorf("echomw: indent: %w", err)
	}
	return buf.Bytes(), nil
}

// DecodeJSON decodes the request body into T via s, stores Decoded[T] in the
// request context on success, or returns 400 with Issues on failure.
func DecodeJSON[T any](s *idjson.Serializer) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var dm idjson.Decoded[T]
			pm, err := s.DecodeReader(c.Request().Body, &dm.Value)
			if err != nil {
				return c.JSON(http.StatusBadRequest, middleware.ErrorPayload(middleware.IssuesFrom(err)))
			}
			dm.Presence = pm
			ctx := middleware.ContextWithDecoded(c.Request().Context(), dm)
			c.SetRequest(c.Request().WithContext(ctx))
			return next(c)
		}
	}
}

// GetDecoded fetches Decoded[T] from echo.Context.
func GetDecoded[T any](c echo.Context) (idjson.Decoded[T], bool) {
	return middleware.DecodedFromContext[T](c.Request().Context())
}
