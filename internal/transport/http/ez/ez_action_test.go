package ez

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go-gin-gallery/internal/domain"
	mdw "go-gin-gallery/internal/transport/http/middleware"
)

func init() { gin.SetMode(gin.TestMode) }

type nameIn struct {
	Name string `json:"name" binding:"required,max=5"`
	Age  int    `json:"age"`
}

type envelope struct {
	Code int                 `json:"code"`
	Msg  string              `json:"msg"`
	Data map[string][]string `json:"data"`
}

func do(t *testing.T, r *gin.Engine, method, path, body string) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	var env envelope
	if w.Code >= 400 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// withUser 模拟鉴权中间件
func withUser(uid, role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if uid != "" {
			c.Set(mdw.KeyUserID, uid)
			c.Set(mdw.KeyRole, role)
		}
		c.Next()
	}
}

func newEngine(uid, role string) (*gin.Engine, EZ) {
	r := gin.New()
	g := r.Group("/", withUser(uid, role))
	return r, New(g, nil)
}

func TestRegisterAction_BindJSON(t *testing.T) {
	r, e := newEngine("", "")
	RegisterAction(e, Action[nameIn, gin.H]{
		Method: http.MethodPost, Path: "/things", Binder: BindJSON, Status: http.StatusCreated,
		Handler: func(c *gin.Context, in *nameIn) (gin.H, error) {
			return gin.H{"name": in.Name}, nil
		},
	})

	w, _ := do(t, r, http.MethodPost, "/things", `{"name":"abc"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"name":"abc"}`, w.Body.String())

	cases := []struct {
		name  string
		body  string
		field string
		msg   string
	}{
		{"empty body", "", "name", "This field is required."},
		{"missing", `{}`, "name", "This field is required."},
		{"too long", `{"name":"abcdef"}`, "name", "Ensure this field has no more than 5 characters."},
		{"wrong type", `{"name":"a","age":"x"}`, "age", "Incorrect type. Expected int."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			w, env := do(t, r, http.MethodPost, "/things", tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, 400, env.Code)
			assert.Equal(t, []string{tc.msg}, env.Data[tc.field])
		})
	}

	w, env := do(t, r, http.MethodPost, "/things", `{"name":`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, env.Data, domain.NonFieldKey)
}

func TestRegisterAction_StatusAndMethods(t *testing.T) {
	r, e := newEngine("u1", "user")
	RegisterAction(e, Action[struct{}, any]{
		Method: http.MethodDelete, Path: "/things/:id", Status: http.StatusNoContent,
		Handler: func(c *gin.Context, _ *struct{}) (any, error) { return gin.H{"ignored": true}, nil },
	})
	RegisterAction(e, Action[struct{}, gin.H]{
		Method: http.MethodPatch, Path: "/things/:id",
		Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) {
			id, err := ParamID(c, "id")
			if err != nil {
				return nil, err
			}
			return gin.H{"id": id, "user": UserID(c)}, nil
		},
	})

	w, _ := do(t, r, http.MethodDelete, "/things/1", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w, _ = do(t, r, http.MethodPatch, "/things/7", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"id":7,"user":"u1"}`, w.Body.String())

	for _, id := range []string{"abc", "0", "-1"} {
		w, env := do(t, r, http.MethodPatch, "/things/"+id, "")
		assert.Equal(t, http.StatusNotFound, w.Code, id)
		assert.Equal(t, 404, env.Code)
	}
}

func TestRegisterAction_AuthAndRoles(t *testing.T) {
	ok := func(c *gin.Context, _ *struct{}) (gin.H, error) { return gin.H{}, nil }

	r, e := newEngine("", "")
	RegisterAction(e, Action[struct{}, gin.H]{Method: http.MethodGet, Path: "/me", Auth: true, Handler: ok})
	w, env := do(t, r, http.MethodGet, "/me", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Equal(t, "Unauthorized", env.Msg)

	r, e = newEngine("u1", "user")
	RegisterAction(e, Action[struct{}, gin.H]{Method: http.MethodGet, Path: "/admin", Auth: true, Roles: []string{"admin"}, Handler: ok})
	w, _ = do(t, r, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusForbidden, w.Code)

	r, e = newEngine("u2", "admin")
	RegisterAction(e, Action[struct{}, gin.H]{Method: http.MethodGet, Path: "/admin", Auth: true, Roles: []string{"admin"}, Handler: ok})
	w, _ = do(t, r, http.MethodGet, "/admin", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRegisterAction_ErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
		msg    string
		field  string
	}{
		{"not found", fmt.Errorf("load: %w", domain.ErrNotFound), http.StatusNotFound, "Not found.", ""},
		{"unauthorized", domain.ErrUnauthorized, http.StatusUnauthorized, "Authentication credentials were not provided.", ""},
		{"credentials", domain.ErrInvalidCredentials, http.StatusBadRequest, "Bad Request", domain.NonFieldKey},
		{"duplicate email", domain.ErrDuplicateEmail, http.StatusBadRequest, "Bad Request", "email"},
		{"validation", domain.NewValidationError("title", "This field is required."), http.StatusBadRequest, "Bad Request", "title"},
		{"max bytes", &http.MaxBytesError{Limit: 1}, http.StatusRequestEntityTooLarge, "request body too large", ""},
		{"forbidden", Forbidden("nope"), http.StatusForbidden, "nope", ""},
		{"internal", errors.New("db password leaked"), http.StatusInternalServerError, "Internal Server Error", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r, e := newEngine("", "")
			RegisterAction(e, Action[struct{}, gin.H]{
				Method: http.MethodGet, Path: "/fail",
				Handler: func(c *gin.Context, _ *struct{}) (gin.H, error) { return nil, tc.err },
			})
			w, env := do(t, r, http.MethodGet, "/fail", "")
			assert.Equal(t, tc.status, w.Code)
			assert.Equal(t, tc.status, env.Code)
			assert.Equal(t, tc.msg, env.Msg)
			if tc.field != "" {
				assert.NotEmpty(t, env.Data[tc.field])
			}
			assert.NotContains(t, w.Body.String(), "leaked")
		})
	}
}

func TestRegisterAction_BindQuery(t *testing.T) {
	type q struct {
		Limit int    `form:"limit" binding:"omitempty,gte=1,lte=100"`
		Q     string `form:"q"`
	}
	r, e := newEngine("", "")
	RegisterAction(e, Action[q, gin.H]{
		Method: http.MethodGet, Path: "/list", Binder: BindQuery,
		Handler: func(c *gin.Context, in *q) (gin.H, error) { return gin.H{"limit": in.Limit, "q": in.Q}, nil },
	})

	w, _ := do(t, r, http.MethodGet, "/list?limit=5&q=x", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"limit":5,"q":"x"}`, w.Body.String())

	w, env := do(t, r, http.MethodGet, "/list?limit=500", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"Ensure this value is less than or equal to 100."}, env.Data["limit"])
}
