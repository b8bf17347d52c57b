package controllers

import (
	"bytes"
	"context"
	"encoding/base64"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 1x1 透明 PNG
var tinyPNG, _ = base64.StdEncoding.DecodeString(
	"iVBORw0KGgoAAAANSUhEUgAAAAEAAAABCAQAAAC1HAwCAAAAC0lEQVR42mNkYAAAAAYAAjCB0C8AAAAASUVORK5CYII=")

type mockImageStore struct {
	data        []byte
	contentType string
	extension   string
}

func (m *mockImageStore) Upload(_ context.Context, data []byte, contentType, extension string) (string, error) {
	m.data, m.contentType, m.extension = data, contentType, extension
	return "https://img.example.test/clientiq/avatar" + extension, nil
}

func multipartRequest(t *testing.T, field string, content []byte) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if field != "" {
		part, err := mw.CreateFormFile(field, "upload.bin")
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

func serveUpload(uc *UploadController, req *http.Request) *httptest.ResponseRecorder {
	r := newRouter(nil, http.MethodPost, "/upload", uc.UploadImage)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestUploadImage(t *testing.T) {
	store := &mockImageStore{}
	uc := NewUploadController(store)

	w := serveUpload(uc, multipartRequest(t, "", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "No file provided", messageOf(t, w))

	w = serveUpload(uc, multipartRequest(t, "file", []byte("just some text, not an image")))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "Invalid file type. Use JPEG, PNG, WebP or GIF.", messageOf(t, w))

	oversized := append(append([]byte{}, tinyPNG...), make([]byte, MaxImageSize)...)
	w = serveUpload(uc, multipartRequest(t, "file", oversized))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "File too large. Max 5MB.", messageOf(t, w))
	assert.Nil(t, store.data)

	w = serveUpload(uc, multipartRequest(t, "file", tinyPNG))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.JSONEq(t, `{"url":"https://img.example.test/clientiq/avatar.png"}`, w.Body.String())
	assert.Equal(t, "image/png", store.contentType)
	assert.Equal(t, tinyPNG, store.data)
}

func TestUploadImage_NotConfigured(t *testing.T) {
	w := serveUpload(NewUploadController(nil), multipartRequest(t, "file", tinyPNG))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
