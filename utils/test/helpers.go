package test

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
)

// PerformRequest runs a request against router and records the response.
// payload is JSON encoded unless it is already a []byte.
func PerformRequest(t *testing.T, method, path string, payload interface{}, headers map[string]string, router *gin.Engine) (*httptest.ResponseRecorder, error) {
	t.Helper()

	var body io.Reader
	switch p := payload.(type) {
	case nil:
	case []byte:
		body = bytes.NewReader(p)
	default:
		raw, err := json.Marshal(p)
		if err != nil {
			return nil, err
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, path, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	for key, value := range headers {
		req.Header.Set(key, value)
	}

	res := httptest.NewRecorder()
	router.ServeHTTP(res, req)

	return res, nil
}

// CreateEnvFile creates a new file with Key=Value format.
func CreateEnvFile(filePath string, data map[string]string) (string, error) {
	file, err := os.Create(filePath)
	if err != nil {
		return "", err
	}
	defer file.Close()

	writer := bufio.NewWriter(file)
	defer writer.Flush()

	for key, value := range data {
		_, err := writer.WriteString(fmt.Sprintf("%s='%s'\n", key, value))
		if err != nil {
			return "", err
		}
	}

	return filePath, nil
}
