package sheets

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/feedplanner/internal/config"
)

func newTestRepository(t *testing.T, handler http.HandlerFunc) *GoogleSheetRepository {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	repo, err := newRepository(context.Background(), "sheet-1", nil, option.WithEndpoint(ts.URL+"/"), option.WithoutAuthentication())
	require.NoError(t, err)
	return repo
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func TestNewGoogleSheetRepository_RequiresConfig(t *testing.T) {
	_, err := NewGoogleSheetRepository(context.Background(), config.SheetsConfig{SpreadsheetID: "sheet-1"}, nil)
	assert.Error(t, err)
}

func TestEnsureSheet_Existing(t *testing.T) {
	var posts int
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			posts++
		}
		writeJSON(w, http.StatusOK, `{"sheets":[{"properties":{"title":"Sheet1"}},{"properties":{"title":"FeedPlans"}}]}`)
	})

	created, err := repo.EnsureSheet(context.Background(), "FeedPlans")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Zero(t, posts)
}

func TestEnsureSheet_AddsMissingTab(t *testing.T) {
	var added sheetsapi.BatchUpdateSpreadsheetRequest
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodPost {
			assert.True(t, strings.HasSuffix(r.URL.Path, ":batchUpdate"), r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&added))
			writeJSON(w, http.StatusOK, `{"spreadsheetId":"sheet-1"}`)
			return
		}
		writeJSON(w, http.StatusOK, `{"sheets":[{"properties":{"title":"Sheet1"}}]}`)
	})

	created, err := repo.EnsureSheet(context.Background(), "FeedPlans")
	require.NoError(t, err)
	assert.True(t, created)
	require.Len(t, added.Requests, 1)
	require.NotNil(t, added.Requests[0].AddSheet)
	assert.Equal(t, "FeedPlans", added.Requests[0].AddSheet.Properties.Title)

	_, err = repo.EnsureSheet(context.Background(), "")
	assert.Error(t, err)
}

func TestReadRange_MissingTab(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, `{"error":{"code":400,"message":"Unable to parse range: FeedPlans!A1:J1","status":"INVALID_ARGUMENT"}}`)
	})

	_, err := repo.ReadRange(context.Background(), "FeedPlans!A1:J1")
	assert.ErrorIs(t, err, ErrSheetNotFound)
}

func TestReadRange_OtherAPIError(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusForbidden, `{"error":{"code":403,"message":"The caller does not have permission","status":"PERMISSION_DENIED"}}`)
	})

	_, err := repo.ReadRange(context.Background(), "FeedPlans!A1:J1")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrSheetNotFound)
}

func TestWriteRows(t *testing.T) {
	var got sheetsapi.ValueRange
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.True(t, strings.HasSuffix(r.URL.Path, ":append"), r.URL.Path)
		assert.Equal(t, "USER_ENTERED", r.URL.Query().Get("valueInputOption"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"spreadsheetId":"sheet-1"}`))
	})

	err := repo.WriteRows(context.Background(), "FeedPlans!A:J", [][]interface{}{{"2026-01-01", "Maize", 80}})
	require.NoError(t, err)
	require.Len(t, got.Values, 1)
	assert.Equal(t, "Maize", got.Values[0][1])
}

func TestWriteRows_Guards(t *testing.T) {
	calls := 0
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) { calls++ })

	assert.Error(t, repo.WriteRows(context.Background(), "", [][]interface{}{{"x"}}))
	assert.NoError(t, repo.WriteRows(context.Background(), "FeedPlans!A:J", nil))
	assert.Zero(t, calls)
}

func TestReadRange(t *testing.T) {
	repo := newTestRepository(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"range":"FeedPlans!A1:J1","values":[["Date","Bird Type"]]}`))
	})

	values, err := repo.ReadRange(context.Background(), "FeedPlans!A1:J1")
	require.NoError(t, err)
	require.Len(t, values, 1)
	assert.Equal(t, "Bird Type", values[0][1])

	_, err = repo.ReadRange(context.Background(), "")
	assert.Error(t, err)
}
