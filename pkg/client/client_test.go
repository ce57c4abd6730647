package client

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFakeAPI(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()

	mux.HandleFunc("/auth/signin", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		if body["password"] != "secret1" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"success":false,"message":"invalid email or password","error":"Unauthorized"}`)
			return
		}
		http.SetCookie(w, &http.Cookie{Name: "token", Value: "session", Path: "/", HttpOnly: true})
		_, _ = io.WriteString(w, `{"success":true,"user":{"id":7,"name":"Sita","email":"`+body["email"]+`","role":"user"}}`)
	})

	mux.HandleFunc("/auth/getMe", func(w http.ResponseWriter, r *http.Request) {
		if cookie, err := r.Cookie("token"); err != nil || cookie.Value != "session" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"success":false,"message":"not authorized, no token","error":"Unauthorized"}`)
			return
		}
		_, _ = io.WriteString(w, `{"success":true,"user":{"id":7,"name":"Sita","role":"user"}}`)
	})

	mux.HandleFunc("/products", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "jar", r.URL.Query().Get("search"))
		assert.Equal(t, "5", r.URL.Query().Get("ward"))
		assert.False(t, r.URL.Query().Has("page"))
		_, _ = io.WriteString(w, `{"success":true,"products":[{"id":1,"name":"Jar","price":"10.5"}],"pagination":{"total":1,"page":1,"page_size":12,"total_pages":1,"has_more":false}}`)
	})

	mux.HandleFunc("/complaint/create", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "Overflowing bin", r.FormValue("title"))
		file, header, err := r.FormFile("image")
		require.NoError(t, err)
		defer file.Close()
		body, _ := io.ReadAll(file)
		assert.Equal(t, "bin.png", header.Filename)
		assert.Equal(t, "PNG", string(body))
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"success":true,"complaint":{"id":3,"title":"Overflowing bin","status":"pending","image_url":"https://cdn.example.com/complaints/x.png"}}`)
	})

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestSigninKeepsSession(t *testing.T) {
	srv := newFakeAPI(t)
	c, err := New(srv.URL + "/")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Me(ctx)
	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	user, err := c.Signin(ctx, "sita@example.com", "secret1")
	require.NoError(t, err)
	assert.Equal(t, uint(7), user.ID)

	me, err := c.Me(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sita", me.Name)
}

func TestAPIErrorDecoded(t *testing.T) {
	srv := newFakeAPI(t)
	c, err := New(srv.URL)
	require.NoError(t, err)

	_, err = c.Signin(context.Background(), "sita@example.com", "wrong")

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Unauthorized", apiErr.Code)
	assert.Equal(t, "invalid email or password", apiErr.Message)
}

func TestListProductsQuery(t *testing.T) {
	srv := newFakeAPI(t)
	c, err := New(srv.URL)
	require.NoError(t, err)

	products, page, err := c.ListProducts(context.Background(), ProductQuery{Search: "jar", Ward: 5})

	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "10.5", products[0].Price.String())
	assert.Equal(t, 12, page.PageSize)
}

func TestCreateComplaintMultipart(t *testing.T) {
	srv := newFakeAPI(t)
	c, err := New(srv.URL)
	require.NoError(t, err)

	complaint, err := c.CreateComplaint(context.Background(), ComplaintForm{
		Title:       "Overflowing bin",
		Description: "Not emptied",
		Location:    "Ward 5",
		Category:    "garbage_overflow",
	}, &Upload{Name: "bin.png", ContentType: "image/png", Body: strings.NewReader("PNG")})

	require.NoError(t, err)
	assert.Equal(t, uint(3), complaint.ID)
}
