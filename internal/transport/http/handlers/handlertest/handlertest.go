// Package handlertest holds request builders shared by the handler tests.
package handlertest

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sort"
	"strings"
	"testing"
	"time"

	"onboarding/internal/domain/auth"
)

const Secret = "handler-test-secret"

// PNG is the smallest body the upload MIME sniffer accepts as image/png.
var PNG = []byte("\x89PNG\r\n\x1a\nbody")

type File struct {
	Field       string
	Name        string
	ContentType string
	Data        []byte
}

type Envelope struct {
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
	Pagination *struct {
		Page  int `json:"page"`
		Total int `json:"total"`
	} `json:"pagination"`
	Error *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func Token(t *testing.T, userID, role string) string {
	t.Helper()
	tok, err := auth.GenerateToken(Secret, auth.Claims{UserID: userID, Role: role}, time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	return tok
}

// Multipart encodes fields in key order followed by files.
func Multipart(t *testing.T, fields map[string]string, files ...File) (io.Reader, string) {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := writer.WriteField(k, fields[k]); err != nil {
			t.Fatalf("write field: %v", err)
		}
	}
	for _, f := range files {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", `form-data; name="`+f.Field+`"; filename="`+f.Name+`"`)
		header.Set("Content-Type", f.ContentType)
		part, err := writer.CreatePart(header)
		if err != nil {
			t.Fatalf("create part: %v", err)
		}
		if _, err := part.Write(f.Data); err != nil {
			t.Fatalf("write part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}
	return &body, writer.FormDataContentType()
}

// JSON encodes v as a request body.
func JSON(t *testing.T, v any) (io.Reader, string) {
	t.Helper()
	raw, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("encode body: %v", err)
	}
	return bytes.NewReader(raw), "application/json"
}

// Do serves one request and decodes the JSON envelope when there is one.
func Do(t *testing.T, h http.Handler, method, path, token string, body io.Reader, contentType string) (*httptest.ResponseRecorder, Envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var env Envelope
	if strings.HasPrefix(rr.Header().Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(rr.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response: %v (%s)", err, rr.Body.String())
		}
	}
	return rr, env
}

// Decode unmarshals the envelope data into v.
func Decode(t *testing.T, env Envelope, v any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, v); err != nil {
		t.Fatalf("decode data: %v (%s)", err, env.Data)
	}
}
