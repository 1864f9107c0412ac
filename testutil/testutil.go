// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/danielhkuo/party-registry/cliparse"
	"github.com/danielhkuo/party-registry/db"
)

// TestOrigin is on the allow-list of GetTestConfig
const TestOrigin = "http://localhost:5173"

// GetTestConfig returns a standard test configuration backed by a fresh
// SQLite file and upload directory under t.TempDir()
func GetTestConfig(t *testing.T) cliparse.Config {
	t.Helper()
	dir := t.TempDir()

	return cliparse.Config{
		Port:           3001,
		DatabaseURL:    "file:" + filepath.Join(dir, "test.db") + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)",
		DatabaseType:   cliparse.DatabaseSQLite,
		AllowedOrigins: []string{TestOrigin},
		UploadDir:      filepath.Join(dir, "uploads"),
		MaxUploadSize:  1 << 20,
		MaxOpenConns:   cliparse.DefaultMaxOpenConns,
		QueueTimeout:   5 * time.Second,
	}
}

// SetupTestDB opens the configured database and creates the schema. The
// connection is closed when the test ends.
func SetupTestDB(t *testing.T, cfg cliparse.Config) *sqlx.DB {
	t.Helper()

	conn, err := db.Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(context.Background(), conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// CreateTestParty inserts an active party directly and returns its ID
func CreateTestParty(t *testing.T, conn *sqlx.DB, name, abbreviation string, registeredAt time.Time) string {
	t.Helper()

	id := uuid.NewString()
	_, err := conn.Exec(conn.Rebind(`
		INSERT INTO party (id, name, abbreviation, ideology, founding_date, headquarters,
		                   representative_color, logo_url, active, registered_at)
		VALUES (?, ?, ?, NULL, '2020-01-01', 'Cusco', NULL, NULL, ?, ?)
	`), id, name, abbreviation, true, registeredAt.UTC())
	if err != nil {
		t.Fatalf("Failed to create test party: %v", err)
	}

	return id
}

// CountRows returns the number of party rows, active or not
func CountRows(t *testing.T, conn *sqlx.DB) int {
	t.Helper()

	var n int
	if err := conn.Get(&n, "SELECT COUNT(*) FROM party"); err != nil {
		t.Fatalf("Failed to count parties: %v", err)
	}
	return n
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// MakeMultipartRequest builds a multipart/form-data request from fields
// and an optional file part (skipped when fileName is empty)
func MakeMultipartRequest(t *testing.T, method, path string, fields map[string]string, fileField, fileName string, content []byte) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("Failed to write field %s: %v", k, err)
		}
	}
	if fileName != "" {
		part, err := mw.CreateFormFile(fileField, fileName)
		if err != nil {
			t.Fatalf("Failed to create file part: %v", err)
		}
		part.Write(content)
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("Failed to close multipart writer: %v", err)
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
