package google

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"github.com/mmynk/partio/internal/models"
	"github.com/mmynk/partio/internal/sheets"
)

// fakeSheetsAPI serves the values endpoints the client uses plus AddSheet.
// Like the real API, a range on a tab that does not exist is a 400.
type fakeSheetsAPI struct {
	mu        sync.Mutex
	tabs      map[string][][]interface{}
	addedTabs []string
}

func (f *fakeSheetsAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const prefix = "/v4/spreadsheets/sheet-1/values/"

	f.mu.Lock()
	defer f.mu.Unlock()
	w.Header().Set("Content-Type", "application/json")

	if r.URL.Path == "/v4/spreadsheets/sheet-1:batchUpdate" && r.Method == http.MethodPost {
		var req gsheet.BatchUpdateSpreadsheetRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		for _, sub := range req.Requests {
			if sub.AddSheet == nil {
				continue
			}
			title := sub.AddSheet.Properties.Title
			f.tabs[title] = nil
			f.addedTabs = append(f.addedTabs, title)
		}
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1"})
		return
	}

	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotFound)
		return
	}
	rng := strings.TrimPrefix(r.URL.Path, prefix)
	tab := strings.SplitN(strings.TrimSuffix(rng, ":clear"), "!", 2)[0]

	if _, ok := f.tabs[tab]; !ok {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{"error": map[string]any{
			"code":    http.StatusBadRequest,
			"message": "Unable to parse range: " + strings.TrimSuffix(rng, ":clear"),
			"status":  "INVALID_ARGUMENT",
		}})
		return
	}

	switch {
	case r.Method == http.MethodGet:
		json.NewEncoder(w).Encode(map[string]any{"range": rng, "majorDimension": "ROWS", "values": f.tabs[tab]})
	case r.Method == http.MethodPost && strings.HasSuffix(rng, ":clear"):
		f.tabs[tab] = nil
		json.NewEncoder(w).Encode(map[string]any{"spreadsheetId": "sheet-1", "clearedRange": rng})
	case r.Method == http.MethodPut:
		if r.URL.Query().Get("valueInputOption") != "RAW" {
			http.Error(w, "valueInputOption must be RAW", http.StatusBadRequest)
			return
		}
		var vr gsheet.ValueRange
		if err := json.NewDecoder(r.Body).Decode(&vr); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.tabs[tab] = vr.Values
		json.NewEncoder(w).Encode(map[string]any{"updatedRows": len(vr.Values)})
	default:
		http.Error(w, "unexpected request", http.StatusMethodNotAllowed)
	}
}

func (f *fakeSheetsAPI) added() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.addedTabs...)
}

func newTestClient(t *testing.T, api *fakeSheetsAPI) *Client {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), "sheet-1",
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)
	return c
}

func TestClient_ReadRows(t *testing.T) {
	api := &fakeSheetsAPI{tabs: map[string][][]interface{}{
		"Payments": {
			{"ID", "FromID", "ToID", "Amount"},
			{"p1", "b", "a", 12.5},
		},
	}}
	c := newTestClient(t, api)

	rows, err := c.ReadRows(context.Background(), "Payments")
	require.NoError(t, err)
	assert.Equal(t, [][]string{
		{"ID", "FromID", "ToID", "Amount"},
		{"p1", "b", "a", "12.5"},
	}, rows)

	// The Members tab does not exist in this spreadsheet.
	rows, err = c.ReadRows(context.Background(), "Members")
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestClient_ReadRows_OtherBadRequestsFail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"error": {"code": 400, "message": "Invalid requests", "status": "INVALID_ARGUMENT"}}`))
	}))
	t.Cleanup(srv.Close)

	c, err := New(context.Background(), "sheet-1",
		goption.WithEndpoint(srv.URL+"/"),
		goption.WithHTTPClient(srv.Client()),
	)
	require.NoError(t, err)

	_, err = c.ReadRows(context.Background(), "Members")
	require.Error(t, err)
}

func TestClient_WriteRows_CreatesMissingTab(t *testing.T) {
	api := &fakeSheetsAPI{tabs: map[string][][]interface{}{}}
	c := newTestClient(t, api)
	ctx := context.Background()

	require.NoError(t, c.WriteRows(ctx, "Payments", [][]string{{"ID", "FromID", "ToID", "Amount"}}))
	assert.Equal(t, []string{"Payments"}, api.added())

	// The tab exists now; a second write only clears and updates it.
	require.NoError(t, c.WriteRows(ctx, "Payments", [][]string{{"ID", "FromID", "ToID", "Amount"}}))
	assert.Len(t, api.added(), 1)

	rows, err := c.ReadRows(ctx, "Payments")
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"ID", "FromID", "ToID", "Amount"}}, rows)
}

func TestClient_PullFromSpreadsheetWithoutPaymentsTab(t *testing.T) {
	api := &fakeSheetsAPI{tabs: map[string][][]interface{}{
		"Members":  {{"ID", "Name"}, {"a", "Alice"}},
		"Expenses": {{"ID", "Amount", "PayerID", "SplitType"}, {"e1", "10", "a", "equal"}},
	}}
	c := newTestClient(t, api)

	snap, err := sheets.Pull(context.Background(), c)
	require.NoError(t, err)
	assert.Len(t, snap.Members, 1)
	assert.Len(t, snap.Expenses, 1)
	assert.Nil(t, snap.Payments)
}

func TestClient_PushPull(t *testing.T) {
	api := &fakeSheetsAPI{tabs: map[string][][]interface{}{
		"Members": {{"stale", "row"}},
	}}
	c := newTestClient(t, api)
	ctx := context.Background()

	snap := models.Snapshot{
		Members: []models.Member{{ID: "a", Name: "Alice"}, {ID: "b", Name: "Bob"}},
		Expenses: []models.Expense{
			{ID: "e1", Description: "Dinner", Amount: 90, PayerID: "a", Split: models.EqualSplit{}},
		},
		Payments: []models.Payment{},
	}
	require.NoError(t, sheets.Push(ctx, c, snap))

	got, err := sheets.Pull(ctx, c)
	require.NoError(t, err)
	assert.Equal(t, snap, got)
}

func TestNew_RequiresSpreadsheetID(t *testing.T) {
	_, err := New(context.Background(), "  ")
	require.Error(t, err)
}

func TestCredentials(t *testing.T) {
	file := filepath.Join(t.TempDir(), "sa.json")
	require.NoError(t, os.WriteFile(file, []byte(`{"type":"service_account"}`), 0o600))

	got, err := Credentials(`{"inline":true}`, file)
	require.NoError(t, err)
	assert.JSONEq(t, `{"inline":true}`, string(got))

	got, err = Credentials("", file)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"service_account"}`, string(got))

	_, err = Credentials("", filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)

	_, err = Credentials("", "")
	require.Error(t, err)
}
