package godispatch

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(order *[]string, name string) MiddlewareFunc {
	return func(c *Context) error {
		*order = append(*order, name)
		return nil
	}
}

func failWith(order *[]string, name string, err error) MiddlewareFunc {
	return func(c *Context) error {
		*order = append(*order, name)
		return err
	}
}

func serve(engine *Engine, method, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestNoMatchIs404WithEmptyBody(t *testing.T) {
	t.Parallel()
	engine := New()
	engine.Use(record(&[]string{}, "app"))
	_, err := engine.GET("/", func(c *Context) { c.Success("ok") })
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())

	// method mismatch on a registered path is a 404 too
	w = serve(engine, http.MethodPost, "/")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestTierOrdering(t *testing.T) {
	t.Parallel()
	engine := New()
	group := NewRouterGroup()
	engine.UseGroup(group)

	var order []string
	engine.Use(record(&order, "app1"))
	engine.Use(record(&order, "app2"))
	group.Use(record(&order, "group1"))
	group.Use(record(&order, "group2"))

	route, err := group.GET("/things", func(c *Context) { order = append(order, "handler") })
	require.NoError(t, err)
	route.Use(record(&order, "route1")).Use(record(&order, "route2"))

	w := serve(engine, http.MethodGet, "/things")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"app1", "app2", "group1", "group2", "route1", "route2", "handler"}, order)
}

func TestEmptyTiersAreStillTraversed(t *testing.T) {
	t.Parallel()
	engine := New()

	var order []string
	_, err := engine.GET("/", func(c *Context) { order = append(order, "handler") })
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"handler"}, order)
}

func TestErrorShortCircuitsTierAndPipeline(t *testing.T) {
	t.Parallel()
	engine := New()
	group := NewRouterGroup()
	engine.UseGroup(group)

	var order []string
	boom := errors.New("boom")
	group.Use(record(&order, "group1"))
	group.Use(failWith(&order, "group2", boom))
	group.Use(record(&order, "group3"))
	group.UseForError(ErrorMiddlewareFunc(func(err error, c *Context) error {
		order = append(order, "recover")
		assert.Equal(t, boom, errors.Cause(err))
		c.Writer.WriteHeader(http.StatusTeapot)
		return nil
	}))

	route, err := group.GET("/x", func(c *Context) { order = append(order, "handler") })
	require.NoError(t, err)
	route.Use(record(&order, "route1"))

	w := serve(engine, http.MethodGet, "/x")
	assert.Equal(t, http.StatusTeapot, w.Code)
	assert.Equal(t, []string{"group1", "group2", "recover"}, order)
}

func TestResolutionTerminatesPipeline(t *testing.T) {
	t.Parallel()
	engine := New()

	var order []string
	engine.Use(failWith(&order, "app1", errors.New("nope")))
	engine.UseForError(ErrorMiddlewareFunc(func(err error, c *Context) error {
		order = append(order, "resolved")
		c.Writer.WriteHeader(http.StatusForbidden)
		return nil
	}))
	engine.RouterGroup.Use(record(&order, "group1"))

	route, err := engine.GET("/", func(c *Context) { order = append(order, "handler") })
	require.NoError(t, err)
	route.Use(record(&order, "route1"))

	w := serve(engine, http.MethodGet, "/")
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Equal(t, []string{"app1", "resolved"}, order)
}

func TestErrorChainResignalsWithinTier(t *testing.T) {
	t.Parallel()
	engine := New()

	var order []string
	first := errors.New("first")
	second := errors.New("second")

	engine.Use(failWith(&order, "app1", first))
	engine.UseForError(ErrorMiddlewareFunc(func(err error, c *Context) error {
		order = append(order, "em1")
		assert.Equal(t, first, err)
		return second
	}))
	engine.UseForError(ErrorMiddlewareFunc(func(err error, c *Context) error {
		order = append(order, "em2")
		assert.Equal(t, second, err)
		c.Writer.WriteHeader(http.StatusBadRequest)
		return nil
	}))

	_, err := engine.GET("/", func(c *Context) { order = append(order, "handler") })
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/")
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, []string{"app1", "em1", "em2"}, order)
}

func TestErrorNeverCrossesTiers(t *testing.T) {
	t.Parallel()
	engine := New()
	group := NewRouterGroup()
	engine.UseGroup(group)

	var order []string
	engine.UseForError(ErrorMiddlewareFunc(func(err error, c *Context) error {
		order = append(order, "app-em")
		return nil
	}))
	group.Use(failWith(&order, "group1", errors.New("stays here")))

	route, err := group.GET("/x", func(c *Context) { order = append(order, "handler") })
	require.NoError(t, err)
	route.UseForError(ErrorMiddlewareFunc(func(err error, c *Context) error {
		order = append(order, "route-em")
		return nil
	}))

	w := serve(engine, http.MethodGet, "/x")
	// the group tier has no recovery chain: the pipeline stops without a
	// response and without consulting the application or route chains
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Body.String())
	assert.Equal(t, []string{"group1"}, order)
}

func TestExhaustedRecoveryNeverReachesHandler(t *testing.T) {
	t.Parallel()
	engine := New()

	var order []string
	engine.Use(failWith(&order, "app1", errors.New("unrecovered")))
	engine.UseForError(ErrorMiddlewareFunc(func(err error, c *Context) error {
		order = append(order, "em1")
		return err
	}))

	_, err := engine.GET("/", func(c *Context) { order = append(order, "handler") })
	require.NoError(t, err)

	serve(engine, http.MethodGet, "/")
	assert.Equal(t, []string{"app1", "em1"}, order)
}

func TestGroupsMatchInRegistrationOrder(t *testing.T) {
	t.Parallel()
	engine := New()
	first := NewRouterGroup()
	second := NewRouterGroup()
	engine.UseGroup(first)
	engine.UseGroup(second)

	_, err := first.GET(`/users/(?P<id>\d+)`, func(c *Context) {
		fmt.Fprint(c.Writer, "first")
	})
	require.NoError(t, err)
	_, err = second.GET(`/users/(?P<id>\d+)`, func(c *Context) {
		fmt.Fprint(c.Writer, "second")
	})
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/users/1")
	assert.Equal(t, "first", w.Body.String())
}

func TestRoutesMatchInInsertionOrder(t *testing.T) {
	t.Parallel()
	engine := New()

	_, err := engine.GET(`/users/(?P<id>\d+)`, func(c *Context) {
		fmt.Fprint(c.Writer, "numeric")
	})
	require.NoError(t, err)
	_, err = engine.GET(`/users/(?P<name>\w+)`, func(c *Context) {
		fmt.Fprint(c.Writer, "word")
	})
	require.NoError(t, err)

	assert.Equal(t, "numeric", serve(engine, http.MethodGet, "/users/42").Body.String())
	assert.Equal(t, "word", serve(engine, http.MethodGet, "/users/bob").Body.String())
}

func TestDispatchBindsPatternAndParams(t *testing.T) {
	t.Parallel()
	engine := New()

	_, err := engine.GET(`/users/(?P<id>\d+)`, func(c *Context) {
		require.NotNil(t, c.Pattern)
		assert.Equal(t, `/users/(?P<id>\d+)`, c.Pattern.Source())
		assert.Equal(t, "42", c.Param("id"))
		c.Success(c.Param("id"))
	})
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/users/42")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(engine, http.MethodGet, "/users/abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRootScenario(t *testing.T) {
	t.Parallel()
	engine := New()
	_, err := engine.GET("/", func(c *Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		fmt.Fprint(c.Writer, `{"message":"ok"}`)
	})
	require.NoError(t, err)

	w := serve(engine, http.MethodGet, "/")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"message":"ok"}`, w.Body.String())

	w = serve(engine, http.MethodGet, "/missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestEchoScenario(t *testing.T) {
	t.Parallel()
	engine := New()
	invalidBody := errors.New("InvalidBody")

	route, err := engine.POST("/echo", func(c *Context) {
		fmt.Fprint(c.Writer, c.Body.(string))
	})
	require.NoError(t, err)
	route.Use(MiddlewareFunc(func(c *Context) error {
		body := strings.TrimSpace(readBody(c))
		if !strings.HasPrefix(body, "{") {
			return invalidBody
		}
		c.Body = body
		return nil
	}))
	route.UseForError(ErrorMiddlewareFunc(func(err error, c *Context) error {
		if err != invalidBody {
			return err
		}
		c.Writer.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(c.Writer, "invalid request body")
		return nil
	}))

	w := httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`"just a string"`)))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", w.Body.String())

	w = httptest.NewRecorder()
	engine.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/echo", strings.NewReader(`{"a":1}`)))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, `{"a":1}`, w.Body.String())
}

func readBody(c *Context) string {
	b := make([]byte, 1024)
	n, _ := c.Request.Body.Read(b)
	return string(b[:n])
}
