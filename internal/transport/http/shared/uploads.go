package shared

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"sort"
	"strings"
	"time"

	"onboarding/internal/domain/formdata"
	"onboarding/internal/domain/uploads"
	"onboarding/internal/transport/http/api"
)

var (
	ErrInvalidMultipart = errors.New("invalid multipart payload")
	ErrInvalidPayload   = errors.New("invalid request payload")
	ErrFileTooLarge     = errors.New("file exceeds maximum size")
	ErrEmptyFile        = errors.New("empty file is not allowed")
)

// FileSaver stores one uploaded file and returns its public path.
type FileSaver interface {
	Save(ctx context.Context, folder, name, contentType string, data []byte) (string, error)
}

type UploadRecorder interface {
	RecordUploads(n int)
}

// Form is a decoded form submission: flat body fields plus the stored paths
// of every uploaded file keyed by multipart field.
type Form struct {
	Fields map[string]string
	Files  map[string][]string
}

// File returns the first stored path for field.
func (f Form) File(field string) string {
	if paths := f.Files[field]; len(paths) > 0 {
		return paths[0]
	}
	return ""
}

// FirstFiles maps every field to its first stored path.
func (f Form) FirstFiles() map[string]string {
	out := make(map[string]string, len(f.Files))
	for field, paths := range f.Files {
		if len(paths) > 0 {
			out[field] = paths[0]
		}
	}
	return out
}

// Uploader decodes multipart, urlencoded and JSON submissions. Files are
// classified by field name and MIME type before anything is written.
type Uploader struct {
	Storage     FileSaver
	MaxBytes    int64
	MaxFileSize int64
	Metrics     UploadRecorder
	Now         func() time.Time
}

func NewUploader(storage FileSaver, maxBytes int64) *Uploader {
	return &Uploader{Storage: storage, MaxBytes: maxBytes, MaxFileSize: maxBytes, Now: time.Now}
}

func (u *Uploader) Parse(r *http.Request) (Form, error) {
	contentType := strings.ToLower(strings.TrimSpace(r.Header.Get("Content-Type")))
	switch {
	case strings.HasPrefix(contentType, "multipart/form-data"):
		return u.parseMultipart(r)
	case strings.HasPrefix(contentType, "application/json"):
		return parseJSON(r)
	default:
		if err := r.ParseForm(); err != nil {
			return Form{}, ErrInvalidPayload
		}
		return Form{Fields: formdata.Clean(r.PostForm), Files: map[string][]string{}}, nil
	}
}

func (u *Uploader) parseMultipart(r *http.Request) (Form, error) {
	if err := r.ParseMultipartForm(u.memoryLimit()); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Form{}, ErrFileTooLarge
		}
		return Form{}, ErrInvalidMultipart
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	fields := make([]string, 0, len(r.MultipartForm.File))
	for field := range r.MultipartForm.File {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	type pending struct {
		field       string
		folder      uploads.Folder
		name        string
		contentType string
		data        []byte
	}
	var staged []pending
	for _, field := range fields {
		headers := r.MultipartForm.File[field]
		if len(headers) > uploads.MaxFilesPerField {
			return Form{}, fmt.Errorf("%w: %s", uploads.ErrTooManyFiles, field)
		}
		for _, header := range headers {
			data, err := u.read(header)
			if err != nil {
				return Form{}, err
			}
			mime := uploads.DetectMIME(header.Header.Get("Content-Type"), data)
			folder, err := uploads.Classify(field, mime)
			if err != nil {
				return Form{}, err
			}
			staged = append(staged, pending{
				field:       field,
				folder:      folder,
				name:        uploads.StoredName(header.Filename, u.now()),
				contentType: mime,
				data:        data,
			})
		}
	}

	files := make(map[string][]string, len(fields))
	for _, p := range staged {
		ref, err := u.Storage.Save(r.Context(), string(p.folder), p.name, p.contentType, p.data)
		if err != nil {
			return Form{}, fmt.Errorf("store upload %s: %w", p.field, err)
		}
		files[p.field] = append(files[p.field], ref)
	}
	if u.Metrics != nil {
		u.Metrics.RecordUploads(len(staged))
	}
	return Form{Fields: formdata.Clean(r.MultipartForm.Value), Files: files}, nil
}

func (u *Uploader) read(header *multipart.FileHeader) ([]byte, error) {
	limit := u.MaxFileSize
	if limit <= 0 {
		limit = u.memoryLimit()
	}
	if header.Size > limit {
		return nil, ErrFileTooLarge
	}
	file, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload: %w", err)
	}
	content, err := io.ReadAll(io.LimitReader(file, limit+1))
	closeErr := file.Close()
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close upload: %w", closeErr)
	}
	if int64(len(content)) > limit {
		return nil, ErrFileTooLarge
	}
	if len(content) == 0 {
		return nil, ErrEmptyFile
	}
	return content, nil
}

func (u *Uploader) memoryLimit() int64 {
	if u.MaxBytes > 0 {
		return u.MaxBytes
	}
	return 32 << 20
}

func (u *Uploader) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

// parseJSON accepts a nested JSON object and flattens it into the same
// dotted keys a multipart form would carry.
func parseJSON(r *http.Request) (Form, error) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return Form{}, ErrFileTooLarge
		}
		return Form{}, ErrInvalidPayload
	}
	form := Form{Fields: map[string]string{}, Files: map[string][]string{}}
	if len(bytes.TrimSpace(body)) == 0 {
		return form, nil
	}
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var tree map[string]any
	if err := dec.Decode(&tree); err != nil {
		return Form{}, ErrInvalidPayload
	}
	form.Fields = formdata.Flatten(tree)
	return form, nil
}

// FailUpload maps a Parse error onto the response. Unknown errors are 500.
func FailUpload(w http.ResponseWriter, err error, production bool, requestID string) {
	switch {
	case errors.Is(err, uploads.ErrUnsupportedField):
		api.Fail(w, http.StatusBadRequest, "unsupported_file", uploads.ErrUnsupportedField.Error(), requestID)
	case errors.Is(err, uploads.ErrUnsupportedMIME):
		api.Fail(w, http.StatusBadRequest, "unsupported_file_type", uploads.ErrUnsupportedMIME.Error(), requestID)
	case errors.Is(err, uploads.ErrTooManyFiles):
		api.Fail(w, http.StatusBadRequest, "too_many_files", err.Error(), requestID)
	case errors.Is(err, ErrFileTooLarge):
		api.Fail(w, http.StatusRequestEntityTooLarge, "payload_too_large", ErrFileTooLarge.Error(), requestID)
	case errors.Is(err, ErrEmptyFile), errors.Is(err, ErrInvalidMultipart), errors.Is(err, ErrInvalidPayload):
		api.Fail(w, http.StatusBadRequest, "invalid_payload", err.Error(), requestID)
	default:
		api.Internal(w, err, production, requestID)
	}
}
