package crm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertContactCreatesWhenEmailUnknown(t *testing.T) {
	var created map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case contactsBase + "/search":
			json.NewEncoder(w).Encode(map[string]any{"results": []any{}})
		case contactsBase:
			require.Equal(t, http.MethodPost, r.Method)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&created))
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "123"})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewHubSpotClient("token", nil, WithBaseURL(srv.URL))
	id, err := c.UpsertContact(context.Background(), ContactInput{
		Name:     "Ana Gomez",
		Email:    "ana@example.com",
		Phone:    "573001112233",
		Language: "ES",
	})
	require.NoError(t, err)
	assert.Equal(t, "123", id)

	props := created["properties"].(map[string]any)
	assert.Equal(t, "Ana", props["firstname"])
	assert.Equal(t, "Gomez", props["lastname"])
	assert.Equal(t, "es", props["preferred_language"])
	assert.Equal(t, "WhatsApp Bot", props["source"])
}

func TestUpsertContactPatchesExisting(t *testing.T) {
	patched := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == contactsBase+"/search":
			json.NewEncoder(w).Encode(map[string]any{"results": []map[string]string{{"id": "77"}}})
		case r.URL.Path == contactsBase+"/77" && r.Method == http.MethodPatch:
			patched = true
			w.WriteHeader(http.StatusOK)
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewHubSpotClient("token", nil, WithBaseURL(srv.URL))
	id, err := c.UpsertContact(context.Background(), ContactInput{Name: "Ana", Email: "ana@example.com"})
	require.NoError(t, err)
	assert.Equal(t, "77", id)
	assert.True(t, patched)
}

func TestCreateDealAssociatesContact(t *testing.T) {
	associated := false
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == dealsBase && r.Method == http.MethodPost:
			var body map[string]any
			json.NewDecoder(r.Body).Decode(&body)
			props := body["properties"].(map[string]any)
			assert.Equal(t, "pipe-1", props["pipeline"])
			assert.Equal(t, "stage-1", props["dealstage"])
			assert.Equal(t, "owner-1", props["hubspot_owner_id"])
			w.WriteHeader(http.StatusCreated)
			json.NewEncoder(w).Encode(map[string]string{"id": "deal-9"})
		case r.URL.Path == "/crm/v4/objects/deals/deal-9/associations/contacts/77" && r.Method == http.MethodPut:
			associated = true
			w.Write([]byte(`{}`))
		default:
			t.Errorf("unexpected %s %s", r.Method, r.URL.Path)
		}
	}))
	defer srv.Close()

	c := NewHubSpotClient("token", nil, WithBaseURL(srv.URL), WithPipeline("pipe-1", "stage-1"))
	id, err := c.CreateDeal(context.Background(), DealInput{
		ContactRef:  "77",
		OwnerRef:    "owner-1",
		Title:       "[Cartagena] Villas via WhatsApp",
		Description: "City: Cartagena",
	})
	require.NoError(t, err)
	assert.Equal(t, "deal-9", id)
	assert.True(t, associated)
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"Ana", "Ana", ""},
		{"Ana Gomez", "Ana", "Gomez"},
		{"Ana Maria Gomez", "Ana", "Maria Gomez"},
		{"", "", ""},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		if first != tt.first || last != tt.last {
			t.Errorf("splitName(%q) = %q, %q; want %q, %q", tt.in, first, last, tt.first, tt.last)
		}
	}
}
