package handler

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/deppfellow/memwarzz/internal/config"
	"github.com/deppfellow/memwarzz/internal/errs"
	"github.com/deppfellow/memwarzz/internal/middleware"
	"github.com/deppfellow/memwarzz/internal/model"
	"github.com/deppfellow/memwarzz/internal/server"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testServer() *server.Server {
	logger := zerolog.Nop()
	return &server.Server{
		Config: &config.Config{
			Primary: config.Primary{Env: "local"},
			App:     config.DefaultAppConfig(),
		},
		Logger: &logger,
	}
}

func newEcho(s *server.Server) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.NewGlobalMiddlewares(s).GlobalErrorHandler
	return e
}

func TestHandle_BindsAndValidates(t *testing.T) {
	s := testServer()
	h := NewHandler(s)
	e := newEcho(s)

	e.POST("/battles/:id/votes", Handle(h, func(c echo.Context, req *model.VoteRequest) (*model.VoteRequest, error) {
		return req, nil
	}, http.StatusCreated, &model.VoteRequest{}))

	battleID := "0b9a6a43-3f55-4bb4-9f0f-52b1f9d1c001"
	memeID := "0b9a6a43-3f55-4bb4-9f0f-52b1f9d1c002"

	req := httptest.NewRequest(http.MethodPost, "/battles/"+battleID+"/votes",
		strings.NewReader(`{"voted_meme_id":"`+memeID+`"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body model.VoteRequest
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, memeID, body.VotedMemeID)

	req = httptest.NewRequest(http.MethodPost, "/battles/not-a-uuid/votes", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var httpErr errs.HTTPError
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &httpErr))
	fields := make([]string, 0, len(httpErr.Errors))
	for _, fe := range httpErr.Errors {
		fields = append(fields, fe.Field)
	}
	assert.ElementsMatch(t, []string{"id", "voted_meme_id"}, fields)
}

func TestHandle_FreshRequestPerCall(t *testing.T) {
	s := testServer()
	e := newEcho(s)

	e.POST("/sponsors", Handle(NewHandler(s), func(c echo.Context, req *model.CreateSponsorRequest) (*model.CreateSponsorRequest, error) {
		return req, nil
	}, http.StatusOK, &model.CreateSponsorRequest{}))

	send := func(body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/sponsors", strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	first := send(`{"company_name":"Doge Labs","contact_email":"a@doge.io","logo_url":"https://doge.io/logo.png","website_url":"https://doge.io"}`)
	require.Equal(t, http.StatusOK, first.Code)

	// fields from the first request must not leak into the second
	second := send(`{"company_name":"Wojak Inc","contact_email":"b@wojak.io","logo_url":"https://wojak.io/logo.png"}`)
	require.Equal(t, http.StatusOK, second.Code)

	var body model.CreateSponsorRequest
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &body))
	assert.Equal(t, "Wojak Inc", body.CompanyName)
	assert.Nil(t, body.WebsiteURL)
}

func TestHandleNoContent(t *testing.T) {
	s := testServer()
	e := newEcho(s)

	called := false
	e.DELETE("/memes/:id", HandleNoContent(NewHandler(s), func(c echo.Context, req *model.MemeIDRequest) error {
		called = true
		return nil
	}, http.StatusNoContent, &model.MemeIDRequest{}))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/memes/0b9a6a43-3f55-4bb4-9f0f-52b1f9d1c001", nil))

	assert.True(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.Bytes())
}

func TestFresh(t *testing.T) {
	template := &model.FeedRequest{Limit: 7}
	got := fresh(template)

	assert.NotSame(t, template, got)
	assert.Zero(t, got.Limit)
}

func multipartBody(t *testing.T, field, filename string, data []byte, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if field != "" {
		part, err := w.CreateFormFile(field, filename)
		require.NoError(t, err)
		_, err = part.Write(data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return &buf, w.FormDataContentType()
}

func TestFormFile(t *testing.T) {
	e := echo.New()

	body, contentType := multipartBody(t, "image", "pepe.png", []byte("\x89PNG\r\n\x1a\n"), map[string]string{"caption": "gm"})
	req := httptest.NewRequest(http.MethodPost, "/", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	c := e.NewContext(req, httptest.NewRecorder())

	file, closeFile, err := formFile(c, "image")
	require.NoError(t, err)
	defer closeFile()
	require.NotNil(t, file)
	assert.Equal(t, "pepe.png", file.Filename)
	assert.EqualValues(t, 8, file.Size)

	data, err := io.ReadAll(file.Content)
	require.NoError(t, err)
	assert.Equal(t, []byte("\x89PNG\r\n\x1a\n"), data)

	missing, closeMissing, err := formFile(c, "file")
	require.NoError(t, err)
	defer closeMissing()
	assert.Nil(t, missing)
}

func TestFormFile_NotMultipart(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	_, closeFile, err := formFile(c, "file")
	defer closeFile()

	var httpErr *errs.HTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
}

func TestEmailPreview(t *testing.T) {
	s := testServer()
	h := NewEmailPreviewHandler(s)
	e := newEcho(s)
	e.GET("/emails/:template", HandleFile(h.Handler, h.Preview, http.StatusOK, &EmailPreviewRequest{}, "preview.html", echo.MIMETextHTMLCharsetUTF8))

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emails/welcome", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "attachment; filename=preview.html", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "pepe_the_frog")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/emails/unknown", nil))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckHealth_NoBackends(t *testing.T) {
	s := testServer()
	e := newEcho(s)
	e.GET("/status", NewHealthHandler(s).CheckHealth)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "local", body["environment"])
}
