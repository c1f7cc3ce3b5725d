package fileHandler_test

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"materials-service/internal/diskStore"
	"materials-service/internal/handler/fileHandler"
	"materials-service/internal/repository/catalogueRepo"
	"materials-service/internal/service/fileService"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	router    *gin.Engine
	uploadDir string
}

func setup(t *testing.T) fixture {
	t.Helper()
	dir := t.TempDir()

	repo, err := catalogueRepo.New(filepath.Join(dir, "files.json"))
	require.NoError(t, err)

	uploadDir := filepath.Join(dir, "uploads")
	store, err := diskStore.New(uploadDir)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	fileHandler.NewFileHandler(fileService.New(repo, store, 1<<20)).Register(router)
	return fixture{router: router, uploadDir: uploadDir}
}

func multipartUpload(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = io.WriteString(part, content)
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func (f fixture) do(t *testing.T, method, path string, body io.Reader, contentType string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func uploadFields(module string) map[string]string {
	return map[string]string{"subject": "math", "moduleType": module, "type": "muhazire"}
}

func TestStatus(t *testing.T) {
	f := setup(t)
	w := f.do(t, http.MethodGet, "/api/status", nil, "")
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.NotEmpty(t, resp["status"])
	assert.NotEmpty(t, resp["timestamp"])
}

func TestUploadAndRead(t *testing.T) {
	f := setup(t)

	body, ct := multipartUpload(t, uploadFields("lecture"), "Mühazirə 1.pdf", "pdf bytes")
	w := f.do(t, http.MethodPost, "/api/upload", body, ct)
	require.Equal(t, http.StatusOK, w.Code)

	resp := decode(t, w)
	assert.Equal(t, true, resp["success"])
	file := resp["file"].(map[string]any)
	assert.NotEmpty(t, file["id"])
	assert.Equal(t, "Mühazirə 1.pdf", file["originalname"])
	assert.NotEqual(t, file["originalname"], file["filename"])
	// The response exposes no filesystem path.
	assert.NotContains(t, file, "path")

	list := f.do(t, http.MethodGet, "/api/files/math/lecture", nil, "")
	require.Equal(t, http.StatusOK, list.Code)
	var bucket []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &bucket))
	require.Len(t, bucket, 1)
	assert.Equal(t, file["id"], bucket[0]["id"])

	download := f.do(t, http.MethodGet, "/uploads/"+file["filename"].(string), nil, "")
	require.Equal(t, http.StatusOK, download.Code)
	assert.Equal(t, "pdf bytes", download.Body.String())
	assert.Equal(t, "application/pdf", download.Header().Get("Content-Type"))
}

func TestUploadRejectionsLeaveNoOrphan(t *testing.T) {
	tests := []struct {
		name     string
		fields   map[string]string
		filename string
	}{
		{"disallowed extension", uploadFields("lecture"), "evil.exe"},
		{"missing subject", map[string]string{"moduleType": "lecture", "type": "muhazire"}, "a.pdf"},
		{"missing module type", map[string]string{"subject": "math", "type": "muhazire"}, "a.pdf"},
		{"unknown module type", uploadFields("workshop"), "a.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			body, ct := multipartUpload(t, tt.fields, tt.filename, "content")
			w := f.do(t, http.MethodPost, "/api/upload", body, ct)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Equal(t, false, decode(t, w)["success"])

			entries, err := os.ReadDir(f.uploadDir)
			require.NoError(t, err)
			assert.Empty(t, entries)

			list := f.do(t, http.MethodGet, "/api/files/math/lecture", nil, "")
			assert.Equal(t, "[]", list.Body.String())
		})
	}
}

func TestUploadWithoutFile(t *testing.T) {
	f := setup(t)

	body, ct := multipartUpload(t, uploadFields("lecture"), "", "")
	w := f.do(t, http.MethodPost, "/api/upload", body, ct)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUpdateFilename(t *testing.T) {
	f := setup(t)

	body, ct := multipartUpload(t, uploadFields("lecture"), "old.pdf", "content")
	w := f.do(t, http.MethodPost, "/api/upload", body, ct)
	require.Equal(t, http.StatusOK, w.Code)
	id := decode(t, w)["file"].(map[string]any)["id"].(string)

	payload, _ := json.Marshal(gin.H{"fileId": id, "module": "lecture", "subject": "math", "newName": "Chapter 2"})
	rename := f.do(t, http.MethodPost, "/api/update-filename", bytes.NewReader(payload), "application/json")
	require.Equal(t, http.StatusOK, rename.Code)
	assert.Equal(t, true, decode(t, rename)["success"])

	list := f.do(t, http.MethodGet, "/api/files/math/lecture", nil, "")
	var bucket []map[string]any
	require.NoError(t, json.Unmarshal(list.Body.Bytes(), &bucket))
	require.Len(t, bucket, 1)
	assert.Equal(t, "Chapter 2", bucket[0]["originalname"])
}

func TestMutationNotFoundIsSoft(t *testing.T) {
	f := setup(t)

	payload, _ := json.Marshal(gin.H{
		"fileId":  "0b39c2d4-7a8e-4a50-9c3f-0d6f62f1a111",
		"module":  "lecture",
		"subject": "math",
		"newName": "x",
	})
	w := f.do(t, http.MethodPost, "/api/update-filename", bytes.NewReader(payload), "application/json")
	require.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	assert.Equal(t, false, resp["success"])
	assert.Equal(t, "Fayl tapılmadı", resp["message"])
}

func TestMutationStructuralErrors(t *testing.T) {
	f := setup(t)

	t.Run("malformed id", func(t *testing.T) {
		payload, _ := json.Marshal(gin.H{"fileId": "not-a-uuid", "module": "lecture", "subject": "math"})
		w := f.do(t, http.MethodPost, "/api/delete-file", bytes.NewReader(payload), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed module type", func(t *testing.T) {
		payload, _ := json.Marshal(gin.H{
			"fileId":  "0b39c2d4-7a8e-4a50-9c3f-0d6f62f1a111",
			"module":  "workshop",
			"subject": "math",
		})
		w := f.do(t, http.MethodPost, "/api/delete-file", bytes.NewReader(payload), "application/json")
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDeleteFile(t *testing.T) {
	f := setup(t)

	body, ct := multipartUpload(t, uploadFields("lecture"), "doc.pdf", "content")
	w := f.do(t, http.MethodPost, "/api/upload", body, ct)
	require.Equal(t, http.StatusOK, w.Code)
	file := decode(t, w)["file"].(map[string]any)

	payload, _ := json.Marshal(gin.H{"fileId": file["id"], "module": "lecture", "subject": "math"})
	del := f.do(t, http.MethodPost, "/api/delete-file", bytes.NewReader(payload), "application/json")
	require.Equal(t, http.StatusOK, del.Code)
	assert.Equal(t, true, decode(t, del)["success"])

	list := f.do(t, http.MethodGet, "/api/files/math/lecture", nil, "")
	assert.Equal(t, "[]", list.Body.String())

	download := f.do(t, http.MethodGet, "/uploads/"+file["filename"].(string), nil, "")
	assert.Equal(t, http.StatusNotFound, download.Code)

	// Repeated delete of the same id is a soft not-found.
	again := f.do(t, http.MethodPost, "/api/delete-file", bytes.NewReader(payload), "application/json")
	require.Equal(t, http.StatusOK, again.Code)
	assert.Equal(t, false, decode(t, again)["success"])
}

func TestUnknownSubjectReadsAsEmpty(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodGet, "/api/files/astronomy/lecture", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "[]", w.Body.String())

	w = f.do(t, http.MethodGet, "/api/teacher-files/astronomy", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var files map[string][]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &files))
	assert.Len(t, files, 3)
	assert.Empty(t, files["lecture"])
}

func TestGetData(t *testing.T) {
	f := setup(t)

	w := f.do(t, http.MethodGet, "/api/data", nil, "")
	require.Equal(t, http.StatusOK, w.Code)
	var data map[string]map[string][]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &data))
	assert.Contains(t, data, "math")
	assert.Contains(t, data["math"], "colloquium")
}
