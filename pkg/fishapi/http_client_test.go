package fishapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-fishboard/components/tracker"
)

const fishPayload = `[
  {"id": 1, "name": "Big Bertha", "notes": "Dock regular", "weigh_ins": [
    {"date": "2024-05-01", "weight": 5.5, "length": 18.5, "girth": null, "location": "Dock", "bait": "Worm"},
    {"date": "2024-06-01T07:30:00", "weight": null, "location": "", "bait": null},
    {"date": "2024-07-01T07:30:00.123456", "weight": 3},
    {"date": "2024-08-01T07:30:00Z", "weight": 4}
  ]},
  {"id": 2, "name": "Lefty", "notes": null, "weigh_ins": []}
]`

func TestHTTPClientFetchFish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/fish" {
			t.Fatalf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if _, err := uuid.Parse(r.Header.Get(RequestIDHeader)); err != nil {
			t.Fatalf("expected uuid request id, got %q", r.Header.Get(RequestIDHeader))
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, fishPayload)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL + "/"})
	require.NoError(t, err)
	fish, err := client.FetchFish(context.Background())
	require.NoError(t, err)
	require.Len(t, fish, 2)

	bertha := fish[0]
	assert.Equal(t, "Big Bertha", bertha.Name)
	require.Len(t, bertha.WeighIns, 4)
	assert.Equal(t, 5.5, bertha.WeighIns[0].Weight)
	require.NotNil(t, bertha.WeighIns[0].Length)
	assert.Equal(t, 18.5, *bertha.WeighIns[0].Length)
	assert.Nil(t, bertha.WeighIns[0].Girth)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), bertha.WeighIns[0].Date)
	assert.Zero(t, bertha.WeighIns[1].Weight, "null weight counts as zero")
	assert.Empty(t, bertha.WeighIns[1].Bait)
	assert.Equal(t, 7, bertha.WeighIns[2].Date.Hour())
	assert.Equal(t, time.August, bertha.WeighIns[3].Date.Month())
	assert.Empty(t, fish[1].Notes)
}

func TestHTTPClientAddFish(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/add_fish" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseForm(); err != nil {
			t.Fatalf("parse form: %v", err)
		}
		if r.PostForm.Get("name") != "Lefty" || r.PostForm.Get("notes") != "shy" || r.PostForm.Get("password") != "pw" {
			t.Fatalf("unexpected form %v", r.PostForm)
		}
		_, _ = io.WriteString(w, `{"status": "Fish added"}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	result, err := client.AddFish(context.Background(), tracker.AddFishInput{Name: "Lefty", Notes: "shy", Password: "pw"})
	require.NoError(t, err)
	assert.Equal(t, "Fish added", result.Message)
}

func TestHTTPClientUploadWeighIns(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/admin/upload_csv" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		if r.FormValue("password") != "pw" {
			t.Fatalf("missing password")
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer file.Close()
		content, _ := io.ReadAll(file)
		if header.Filename != "weigh_ins.csv" || string(content) != "1,2024-05-01,5" {
			t.Fatalf("unexpected upload %s %q", header.Filename, content)
		}
		_, _ = io.WriteString(w, `{"detail": {"rows": 1}}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	result, err := client.UploadWeighIns(context.Background(), tracker.UploadWeighInsInput{
		Filename: "weigh_ins.csv",
		Content:  []byte("1,2024-05-01,5"),
		Password: "pw",
	})
	require.NoError(t, err)
	assert.Equal(t, `{"rows": 1}`, result.Message)
}

func TestHTTPClientRemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = io.WriteString(w, `{"detail": "Invalid password"}`)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.AddFish(context.Background(), tracker.AddFishInput{Name: "x", Password: "bad"})
	var remote *tracker.RemoteError
	require.True(t, errors.As(err, &remote), "expected RemoteError, got %v", err)
	assert.Equal(t, http.StatusUnauthorized, remote.Status)
	assert.Equal(t, "Invalid password", remote.Detail)
}

func TestHTTPClientRemoteErrorPlainBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream exploded", http.StatusInternalServerError)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.FetchFish(context.Background())
	var remote *tracker.RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "upstream exploded", remote.Detail)
}

func TestHTTPClientUnreachable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
	url := server.URL
	server.Close()

	client, err := NewHTTPClient(HTTPConfig{BaseURL: url, Timeout: time.Second})
	require.NoError(t, err)
	_, err = client.FetchFish(context.Background())
	assert.ErrorIs(t, err, tracker.ErrUnreachable)
}

func TestHTTPClientCustomRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(RequestIDHeader) != "req-1" {
			t.Fatalf("unexpected request id %q", r.Header.Get(RequestIDHeader))
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL, RequestID: func() string { return "req-1" }})
	require.NoError(t, err)
	fish, err := client.FetchFish(context.Background())
	require.NoError(t, err)
	assert.Empty(t, fish)
}

func TestNewHTTPClientValidatesBaseURL(t *testing.T) {
	_, err := NewHTTPClient(HTTPConfig{})
	require.Error(t, err)
	_, err = NewHTTPClient(HTTPConfig{BaseURL: "not a url"})
	require.Error(t, err)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: "http://127.0.0.1:8000/", Timeout: -1})
	require.NoError(t, err)
	assert.Equal(t, "http://127.0.0.1:8000", client.BaseURL())
	assert.Zero(t, client.client.Timeout)
}

func TestRawMessage(t *testing.T) {
	assert.Equal(t, "ok", rawMessage([]byte(`"ok"`)))
	assert.Equal(t, `[1,2]`, rawMessage([]byte(`[1,2]`)))
	assert.Empty(t, rawMessage([]byte(`null`)))
	assert.Empty(t, rawMessage(nil))
}

func TestParseDateRejectsUnknownLayout(t *testing.T) {
	_, err := parseDate("05/01/2024")
	require.Error(t, err)
	parsed, err := parseDate("")
	require.NoError(t, err)
	assert.True(t, parsed.IsZero())
}

func TestHTTPClientKeepsFishWithUnreadableDate(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `[{"id": 7, "name": "Odd", "weigh_ins": [
			{"date": "2024-05-01 10:00:00", "weight": 2},
			{"date": "2024-06-01", "weight": 3}
		]}]`)
	}))
	t.Cleanup(server.Close)

	var logs bytes.Buffer
	client, err := NewHTTPClient(HTTPConfig{
		BaseURL: server.URL,
		Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
	})
	require.NoError(t, err)

	fish, err := client.FetchFish(context.Background())
	require.NoError(t, err)
	require.Len(t, fish, 1)
	require.Len(t, fish[0].WeighIns, 2)
	assert.True(t, fish[0].WeighIns[0].Date.IsZero())
	assert.Equal(t, 2.0, fish[0].WeighIns[0].Weight)
	assert.Equal(t, "6/1/2024", tracker.FormatDate(fish[0].WeighIns[1].Date))
	assert.Contains(t, logs.String(), "unrecognized weigh-in date")
	assert.Contains(t, logs.String(), "2024-05-01 10:00:00")
}

func TestHTTPClientForwardsContextRequestID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(RequestIDHeader) != "inbound-7" {
			t.Fatalf("expected inbound request id, got %q", r.Header.Get(RequestIDHeader))
		}
		_, _ = io.WriteString(w, `[]`)
	}))
	t.Cleanup(server.Close)

	client, err := NewHTTPClient(HTTPConfig{BaseURL: server.URL})
	require.NoError(t, err)
	_, err = client.FetchFish(tracker.WithRequestID(context.Background(), "inbound-7"))
	require.NoError(t, err)
}
