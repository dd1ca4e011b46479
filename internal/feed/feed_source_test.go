package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/alizain-patel/shifts-online/internal/shared/apperror"
)

const sampleFeed = `[
	{"user_id": "U1", "name": "Asha", "event": "Punch In", "datetime_iso": "2025-08-27T03:30:00", "timezone": "IST", "is_at_approved_location": true},
	{"user_id": 42, "name": "Ben", "event": "Punch Out", "datetime": "26/08/2025 18:00:00 IST", "is_at_approved_location": "false", "note": "left for the day"},
	{"user_id": "U3", "event": "On Leave", "date": "2025-08-25", "time": "09:00:00", "work_mode": "Remote"}
]`

func TestHTTPSource_Load(t *testing.T) {
	var gotReq *http.Request
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReq = r.Clone(context.Background())
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(sampleFeed))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, 600*time.Second, 5*time.Second)
	src.now = func() time.Time { return time.Unix(6000, 0) }

	snap, err := src.Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, snap.Records, 3)
	assert.NotEmpty(t, snap.ID)
	assert.Contains(t, snap.Source, srv.URL)
	assert.Nil(t, snap.FileModifiedAt)

	// Cache-busting bucket: unix 6000 / ttl 600 = 10.
	assert.Equal(t, "10", gotReq.URL.Query().Get("v"))
	assert.Equal(t, "no-cache", gotReq.Header.Get("Cache-Control"))
	assert.Equal(t, "no-cache", gotReq.Header.Get("Pragma"))
	assert.Equal(t, "application/json", gotReq.Header.Get("Accept"))
	assert.Equal(t, "shifts-online", gotReq.Header.Get("User-Agent"))

	// Tolerant field decoding: numeric user_id, string bool, tri-state.
	assert.Equal(t, "42", snap.Records[1].UserID.String())
	assert.Equal(t, TriTrue, snap.Records[0].AtApprovedLocation)
	assert.Equal(t, TriFalse, snap.Records[1].AtApprovedLocation)
	assert.Equal(t, TriUnknown, snap.Records[2].AtApprovedLocation)
	assert.Equal(t, "Remote", snap.Records[2].WorkMode)
}

func TestHTTPSource_LoadErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, 600*time.Second, 5*time.Second)
	_, err := src.Load(context.Background())
	assert.Error(t, err)

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeSourceUnavailable, appErr.Code)
}

func TestHTTPSource_BadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"not": "an array"}`))
	}))
	defer srv.Close()

	src := NewHTTPSource(srv.URL, 600*time.Second, 5*time.Second)
	_, err := src.Load(context.Background())
	assert.Error(t, err)
}

func TestFileSource_Load(t *testing.T) {
	path := filepath.Join(t.TempDir(), "user_status_dashboard.json")
	assert.NoError(t, os.WriteFile(path, []byte(sampleFeed), 0o644))

	src := NewFileSource(path)
	snap, err := src.Load(context.Background())
	assert.NoError(t, err)
	assert.Len(t, snap.Records, 3)
	assert.Contains(t, snap.Source, path)
	assert.NotNil(t, snap.FileModifiedAt)
}

func TestFileSource_Missing(t *testing.T) {
	src := NewFileSource(filepath.Join(t.TempDir(), "absent.json"))
	_, err := src.Load(context.Background())
	assert.Error(t, err)

	var appErr *apperror.AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperror.CodeSourceUnavailable, appErr.Code)
}
