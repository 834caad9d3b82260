package gdrive

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"

	"github.com/vbonduro/vistoria/internal/domain"
)

// fakeDrive is an in-memory stand-in for the Drive v3 endpoints the store
// calls.
type fakeDrive struct {
	mu          sync.Mutex
	files       map[string][]byte
	shared      map[string]bool
	failSharing bool
}

func (f *fakeDrive) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	path := r.URL.Path
	switch {
	case r.Method == http.MethodPost && strings.HasSuffix(path, "/files"):
		body, _ := io.ReadAll(r.Body)
		id := "file-" + string(rune('a'+len(f.files)))
		// The multipart body carries JSON metadata and then the media; keep
		// the whole thing, tests only check the media is in there.
		f.files[id] = body
		writeJSON(w, http.StatusOK, map[string]string{"id": id})

	case r.Method == http.MethodPost && strings.HasSuffix(path, "/permissions"):
		if f.failSharing {
			writeJSON(w, http.StatusForbidden, map[string]any{"error": map[string]any{"code": 403, "message": "sharing disabled"}})
			return
		}
		id := strings.TrimSuffix(strings.TrimPrefix(path, "/files/"), "/permissions")
		f.shared[id] = true
		writeJSON(w, http.StatusOK, map[string]string{"id": "perm-1"})

	case strings.HasPrefix(path, "/files/"):
		id := strings.TrimPrefix(path, "/files/")
		data, ok := f.files[id]
		if !ok {
			writeJSON(w, http.StatusNotFound, map[string]any{"error": map[string]any{"code": 404, "message": "File not found"}})
			return
		}
		switch {
		case r.Method == http.MethodDelete:
			delete(f.files, id)
			w.WriteHeader(http.StatusNoContent)
		case r.URL.Query().Get("alt") == "media":
			_, _ = w.Write(data)
		default:
			writeJSON(w, http.StatusOK, map[string]string{"id": id, "mimeType": "image/jpeg"})
		}

	default:
		http.NotFound(w, r)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func newTestStore(t *testing.T) (*DrivePhotoStore, *fakeDrive) {
	t.Helper()
	fake := &fakeDrive{files: map[string][]byte{}, shared: map[string]bool{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	store, err := NewWithOptions(context.Background(), "folder-1",
		option.WithEndpoint(srv.URL+"/"),
		option.WithHTTPClient(srv.Client()),
		option.WithoutAuthentication(),
	)
	require.NoError(t, err)
	return store, fake
}

func TestDrivePhotoStoreSaveSharesFile(t *testing.T) {
	store, fake := newTestStore(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "item_1", "image/jpeg", bytes.NewReader([]byte("jpeg-bytes")))
	require.NoError(t, err)
	assert.Equal(t, "file-a", key)
	assert.True(t, fake.shared[key])
	assert.Contains(t, string(fake.files[key]), "jpeg-bytes")
	assert.Equal(t, "https://drive.google.com/uc?export=view&id=file-a", store.URL(key))
}

func TestDrivePhotoStoreSaveRemovesFileWhenSharingFails(t *testing.T) {
	store, fake := newTestStore(t)
	fake.failSharing = true

	_, err := store.Save(context.Background(), "item_1", "image/jpeg", bytes.NewReader([]byte("x")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrTransient))
	assert.Empty(t, fake.files)
}

func TestDrivePhotoStoreGetAndDelete(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	key, err := store.Save(ctx, "item_1", "image/jpeg", bytes.NewReader([]byte("payload")))
	require.NoError(t, err)

	rc, mime, err := store.Get(ctx, key)
	require.NoError(t, err)
	defer rc.Close()
	body, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", mime)
	assert.Contains(t, string(body), "payload")

	require.NoError(t, store.Delete(ctx, key))

	_, _, err = store.Get(ctx, key)
	assert.True(t, errors.Is(err, domain.ErrNotFound))
}
