// AngelaMos | 2026
// fakes_test.go

package asset

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"io/fs"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"), bytes.Repeat([]byte{0}, 64)...)

type recordingStore struct {
	mu        sync.Mutex
	files     map[string][]byte
	deletes   []string
	deleteErr error
}

func newRecordingStore() *recordingStore {
	return &recordingStore{files: make(map[string][]byte)}
}

func (s *recordingStore) EnsureDir(context.Context) error { return nil }
func (s *recordingStore) Ping(context.Context) error      { return nil }

func (s *recordingStore) Exists(_ context.Context, name string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.files[name]
	return ok, nil
}

func (s *recordingStore) Write(_ context.Context, name string, r io.Reader) (int64, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return 0, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.files[name] = b
	return int64(len(b)), nil
}

func (s *recordingStore) Open(context.Context, string) (File, error) {
	return nil, fs.ErrNotExist
}

func (s *recordingStore) Delete(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deletes = append(s.deletes, name)
	if s.deleteErr != nil {
		return s.deleteErr
	}
	if _, ok := s.files[name]; !ok {
		return fmt.Errorf("delete asset: %w", fs.ErrNotExist)
	}
	delete(s.files, name)
	return nil
}

func fixedManager(store Store) *Manager {
	m := NewManager(store, nil)
	m.now = func() time.Time { return time.Unix(1700000000, 0) }
	m.newID = func() string { return "abcd1234" }
	return m
}

func fileHeader(t *testing.T, field, filename string, content []byte) *multipart.FileHeader {
	t.Helper()

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(1<<20))

	return req.MultipartForm.File[field][0]
}
