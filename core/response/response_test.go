package response_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/flintframework/flint/core/response"
)

func TestConstructors(t *testing.T) {
	t.Parallel()

	t.Run("string sets text plain", func(t *testing.T) {
		t.Parallel()

		r := response.String("hello")
		assert.Equal(t, http.StatusOK, r.StatusCode)
		assert.Equal(t, "text/plain; charset=utf-8", r.Header.Get("Content-Type"))
		assert.Equal(t, "hello", string(r.Body))
	})

	t.Run("html sets text html", func(t *testing.T) {
		t.Parallel()

		r := response.HTMLWithStatus("<h1>hi</h1>", http.StatusCreated)
		assert.Equal(t, http.StatusCreated, r.StatusCode)
		assert.Equal(t, "text/html; charset=utf-8", r.Header.Get("Content-Type"))
	})

	t.Run("json marshals the value", func(t *testing.T) {
		t.Parallel()

		r, err := response.JSON(map[string]int{"count": 3})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, r.StatusCode)
		assert.Equal(t, "application/json; charset=utf-8", r.Header.Get("Content-Type"))
		assert.JSONEq(t, `{"count":3}`, string(r.Body))
	})

	t.Run("json reports unmarshalable values", func(t *testing.T) {
		t.Parallel()

		_, err := response.JSON(make(chan int))
		assert.Error(t, err)
	})

	t.Run("no content has empty body", func(t *testing.T) {
		t.Parallel()

		r := response.NoContent()
		assert.Equal(t, http.StatusNoContent, r.StatusCode)
		assert.Empty(t, r.Body)
	})

	t.Run("redirect sets location", func(t *testing.T) {
		t.Parallel()

		r := response.Redirect("/login")
		assert.Equal(t, http.StatusFound, r.StatusCode)
		assert.Equal(t, "/login", r.Header.Get("Location"))

		r = response.RedirectPermanent("/new")
		assert.Equal(t, http.StatusMovedPermanently, r.StatusCode)

		r = response.RedirectSeeOther("/done")
		assert.Equal(t, http.StatusSeeOther, r.StatusCode)
	})

	t.Run("redirect outside 3xx falls back to 302", func(t *testing.T) {
		t.Parallel()

		r := response.RedirectWithStatus("/x", http.StatusOK)
		assert.Equal(t, http.StatusFound, r.StatusCode)
	})
}

func TestWrite(t *testing.T) {
	t.Parallel()

	t.Run("writes status headers and body", func(t *testing.T) {
		t.Parallel()

		r := response.StringWithStatus("created", http.StatusCreated)
		r.Header.Add("X-Custom", "a")
		r.Header.Add("X-Custom", "b")

		w := httptest.NewRecorder()
		require.NoError(t, r.Write(w))

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Equal(t, "created", w.Body.String())
		assert.Equal(t, []string{"a", "b"}, w.Header().Values("X-Custom"))
	})

	t.Run("zero status defaults to 200", func(t *testing.T) {
		t.Parallel()

		r := &response.Response{Header: make(http.Header)}
		w := httptest.NewRecorder()
		require.NoError(t, r.Write(w))
		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestClone(t *testing.T) {
	t.Parallel()

	orig := response.String("body")
	cp := orig.Clone()
	cp.Header.Set("X-Changed", "yes")
	cp.Body[0] = 'B'

	assert.Empty(t, orig.Header.Get("X-Changed"))
	assert.Equal(t, "body", string(orig.Body))
}

func TestHTTPError(t *testing.T) {
	t.Parallel()

	t.Run("carries status and message", func(t *testing.T) {
		t.Parallel()

		err := response.ErrNotFound
		assert.Equal(t, http.StatusNotFound, err.StatusCode())
		assert.Equal(t, "Not Found", err.Error())
	})

	t.Run("with message and details copy", func(t *testing.T) {
		t.Parallel()

		err := response.ErrBadRequest.
			WithMessage("name is required").
			WithDetails(map[string]any{"field": "name"})

		assert.Equal(t, "name is required", err.Error())
		assert.Equal(t, "name", err.Details["field"])
		// The predefined error is untouched.
		assert.Equal(t, "Bad Request", response.ErrBadRequest.Message)
	})

	t.Run("by status falls back to 500", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, response.ErrConflict, response.ByStatus(http.StatusConflict))
		assert.Equal(t, response.ErrInternalServerError, response.ByStatus(http.StatusTeapot))
	})
}
