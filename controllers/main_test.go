package controllers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campusboard/config"
	"campusboard/models"
	"campusboard/routes"
	"campusboard/utils"
)

// newTestRouter builds the full router against a fresh in-memory SQLite
// database and an in-memory session store (no Redis configured).
func newTestRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	tmp := t.TempDir()
	cfg := config.AppConfig{
		AppPort:            "0",
		GinMode:            "test",
		GinPath:            filepath.Join(tmp, "access.log"),
		RateLimitPerMinute: 10000,
		AllowedOrigins:     []string{"*"},
		LogLevel:           "error",
		LogPath:            filepath.Join(tmp, "app.log"),
		SessionTTLHours:    1,
		UploadDir:          filepath.Join(tmp, "uploads"),
		AllowedUploadExts:  []string{"png", "jpg", "jpeg", "gif", "pdf", "docx", "ppt", "pptx"},
		PasswordMinLength:  6,
		PasswordScheme:     config.PasswordSchemeBcrypt,
	}
	config.Set(cfg)
	utils.ResetRedis()
	require.NoError(t, utils.InitLogger(cfg))

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Post{},
		&models.Task{},
		&models.HelpRequest{},
		&models.HelpReply{},
	))

	return routes.SetupRouter(db), db
}

// registerAndLogin creates an account through the API and returns a live
// session token for it.
func registerAndLogin(t *testing.T, r *gin.Engine, username, password string) string {
	t.Helper()

	w := doJSON(t, r, http.MethodPost, "/register", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "register %s: %s", username, w.Body.String())

	w = doJSON(t, r, http.MethodPost, "/login", "", gin.H{
		"username": username,
		"password": password,
	})
	require.Equal(t, http.StatusOK, w.Code, "login %s: %s", username, w.Body.String())

	data := decodeData(t, w)
	token, _ := data["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// doJSON performs a request with an optional JSON body and bearer token.
func doJSON(t *testing.T, r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(b)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// doMultipart posts a multipart form with text fields and an optional file.
func doMultipart(t *testing.T, r *gin.Engine, path, token string, fields map[string]string, fileName string, fileContent []byte) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if fileName != "" {
		fw, err := mw.CreateFormFile("file", fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

// decodeData unwraps the data field of the standard response envelope.
func decodeData(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var resp struct {
		Code    int                    `json:"code"`
		Message string                 `json:"message"`
		Data    map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Data
}
