package ginmw

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/gin-gonic/gin/render"

	idjson "github.com/reoring/idjson"
	"github.com/reoring/idjson/middleware"
)

var jsonContentType = []string{"application/json; charset=utf-8"}

// Render writes Data through Codec; use it with c.Render.
type Render struct {
	Codec middleware.Codec
	Data  any
}

var _ render.Render = Render{}

func (r Render) Render(w http.ResponseWriter) error {
	r.WriteContentType(w)
	b, err := r.Codec.Marshal(r.Data)
	if err != nil {
		return err
	}
	_, err = w.Write(b)
	return err
}

func (r Render) WriteContentType(w http.ResponseWriter) {
	header := w.Header()
	if val := header["Content-Type"]; len(val) == 0 {
		header["Content-Type"] = jsonContentType
	}
}

// Binding reads request bodies through Codec; use it with c.ShouldBindWith.
type Binding struct {
	Codec middleware.Codec
}

var _ binding.BindingBody = Binding{}

func (Binding) Name() string { return "idjson" }

func (b Binding) Bind(req *http.Request, obj any) error {
	if req == nil || req.Body == nil {
		return http.ErrBodyNotAllowed
	}
	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}
	return b.BindBody(body, obj)
}

func (b Binding) BindBody(body []byte, obj any) error {
	return b.Codec.Unmarshal(body, obj)
}

// JSON renders data with status through codec.
func JSON(c *gin.Context, status int, codec middleware.Codec, data any) {
	c.Render(status, Render{Codec: codec, Data: data})
}

// DecodeJSON decodes the request body into T via s, stores Decoded[T] in the
// context, and on failure returns 400 with Issues payload.
func DecodeJSON[T any](s *idjson.Serializer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var dm idjson.Decoded[T]
		pm, err := s.DecodeReader(c.Request.Body, &dm.Value)
		if err != nil {
			JSON(c, http.StatusBadRequest, s, middleware.ErrorPayload(middleware.IssuesFrom(err)))
			c.Abort()
			return
		}
		dm.Presence = pm
		// store decoded in request context
		c.Request = c.Request.WithContext(middleware.ContextWithDecoded(c.Request.Context(), dm))
		c.Next()
	}
}

// GetDecoded fetches Decoded[T] from gin.Context.
func GetDecoded[T any](c *gin.Context) (idjson.Decoded[T], bool) {
	return middleware.DecodedFromContext[T](c.Request.Context())
}
