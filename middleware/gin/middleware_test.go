package ginmw

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	idjson "github.com/reoring/idjson"
	"github.com/reoring/idjson/codec"
	"github.com/reoring/idjson/jsoniterx"
	"github.com/reoring/idjson/middleware"
)

type account struct {
	AccountId int64
	ManagerId *int64
	Name      string
}

func newRouter(c middleware.Codec) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/account", func(ctx *gin.Context) {
		JSON(ctx, http.StatusOK, c, account{AccountId: 12, Name: "a"})
	})
	r.POST("/bind", func(ctx *gin.Context) {
		var a account
		if err := ctx.ShouldBindWith(&a, Binding{Codec: c}); err != nil {
			JSON(ctx, http.StatusBadRequest, c, middleware.ErrorPayload(middleware.IssuesFrom(err)))
			return
		}
		JSON(ctx, http.StatusOK, c, a)
	})
	return r
}

func request(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRenderAndBinding(t *testing.T) {
	codecs := map[string]middleware.Codec{
		"native":    codec.NewSerializer(),
		"jsoniterx": jsoniterx.New(jsoniterx.Options{}),
	}
	for name, c := range codecs {
		t.Run(name, func(t *testing.T) {
			r := newRouter(c)
			rec := request(r, http.MethodGet, "/account", "")
			require.Equal(t, http.StatusOK, rec.Code)
			require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
			require.JSONEq(t, `{"AccountId":"12","ManagerId":null,"Name":"a"}`, rec.Body.String())

			rec = request(r, http.MethodPost, "/bind", `{"AccountId":"5","ManagerId":"x","Name":"b"}`)
			require.Equal(t, http.StatusOK, rec.Code)
			require.JSONEq(t, `{"AccountId":"5","ManagerId":null,"Name":"b"}`, rec.Body.String())

			rec = request(r, http.MethodPost, "/bind", `{"AccountId":"x"}`)
			require.Equal(t, http.StatusBadRequest, rec.Code)
			require.Contains(t, rec.Body.String(), `"issues"`)
		})
	}
}

func TestDecodeJSON(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := codec.NewSerializer()
	r := gin.New()
	r.POST("/decode", DecodeJSON[account](s), func(c *gin.Context) {
		dm, ok := GetDecoded[account](c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"seen": dm.Presence.Seen("Name"), "account": dm.Value.AccountId})
	})

	rec := request(r, http.MethodPost, "/decode", `{"AccountId":"77","Name":"n"}`)
	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"seen":true,"account":77}`, rec.Body.String())

	rec = request(r, http.MethodPost, "/decode", `{"AccountId":"7x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.Contains(t, rec.Body.String(), `"path":"AccountId"`)
}

func TestDecodeJSON_ErrorUsesSerializer(t *testing.T) {
	gin.SetMode(gin.TestMode)
	s := codec.NewSerializer(idjson.WithIndent("", "  "))
	r := gin.New()
	r.POST("/decode", DecodeJSON[account](s), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	rec := request(r, http.MethodPost, "/decode", `{"AccountId":"7x"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	require.True(t, strings.HasPrefix(rec.Body.String(), "{\n  \"issues\": ["), rec.Body.String())
	require.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
}
