package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLogin(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/login" || r.Method != http.MethodPost {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var creds credentials
		if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
			t.Fatalf("decode credentials: %v", err)
		}
		if creds.Email != "a@b.c" || creds.Password != "secret" {
			t.Errorf("credentials = %+v", creds)
		}
		json.NewEncoder(w).Encode(Token{AccessToken: "tok-123", Email: creds.Email})
	}))
	defer srv.Close()

	c := New(srv.URL)
	tok, err := c.Login(context.Background(), "a@b.c", "secret")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tok.AccessToken != "tok-123" || tok.Email != "a@b.c" {
		t.Errorf("token = %+v", tok)
	}
}

func TestLoginRejected(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"detail": "Invalid credentials"})
	}))
	defer srv.Close()

	_, err := New(srv.URL).Login(context.Background(), "a@b.c", "wrong")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Status != http.StatusUnauthorized || apiErr.Detail != "Invalid credentials" {
		t.Errorf("apiErr = %+v", apiErr)
	}
	if !IsApplicationError(err) {
		t.Error("IsApplicationError should be true for a server rejection")
	}
}

func TestAPIErrorWithoutDetail(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	err := New(srv.URL).Signup(context.Background(), "a@b.c", "pw")
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %v", err)
	}
	if apiErr.Detail != "" {
		t.Errorf("Detail = %q, want empty", apiErr.Detail)
	}
	if apiErr.Error() != "server returned status 500" {
		t.Errorf("Error() = %q", apiErr.Error())
	}
}

func TestNetworkErrorIsNotApplicationError(t *testing.T) {
	// Point at a server that is not listening.
	c := New("http://127.0.0.1:1")
	_, err := c.ListDocuments(context.Background())
	if err == nil {
		t.Fatal("expected a network error")
	}
	if IsApplicationError(err) {
		t.Error("connection failure must not classify as an application error")
	}
}

func TestListDocumentsSendsBearerToken(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("Authorization = %q", got)
		}
		json.NewEncoder(w).Encode(documentList{
			Contracts: []DocumentRef{{ID: 7, Filename: "lease.pdf"}},
			Total:     1,
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	c.SetToken("tok-123")
	docs, err := c.ListDocuments(context.Background())
	if err != nil {
		t.Fatalf("ListDocuments: %v", err)
	}
	if len(docs) != 1 || docs[0].ID != 7 || docs[0].Filename != "lease.pdf" {
		t.Errorf("docs = %+v", docs)
	}
}

func TestQueryPayload(t *testing.T) {
	var got QueryRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/query" {
			t.Errorf("path = %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&got); err != nil {
			t.Fatalf("decode query: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"answer":          "because clause 4 says so",
			"conversation_id": "conv-1",
		})
	}))
	defer srv.Close()

	c := New(srv.URL)
	resp, err := c.Query(context.Background(), QueryRequest{
		Question: "why?",
		History:  []Message{{Role: RoleUser, Content: "why?"}},
	})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if got.Question != "why?" || len(got.History) != 1 {
		t.Errorf("request = %+v", got)
	}
	if NormalizeAnswer(resp.Answer) != "because clause 4 says so" {
		t.Errorf("answer = %s", resp.Answer)
	}
	if resp.ConversationID != "conv-1" {
		t.Errorf("conversation id = %q", resp.ConversationID)
	}
}

func TestQueryOmitsUnsetConversationID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var raw map[string]json.RawMessage
		if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if _, present := raw["conversation_id"]; present {
			t.Error("conversation_id must be omitted until the backend assigns one")
		}
		w.Write([]byte(`{"answer":"ok"}`))
	}))
	defer srv.Close()

	if _, err := New(srv.URL).Query(context.Background(), QueryRequest{Question: "q"}); err != nil {
		t.Fatalf("Query: %v", err)
	}
}

func TestUploadMultipart(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("file")
		if err != nil {
			t.Fatalf("form file: %v", err)
		}
		defer f.Close()
		if hdr.Filename != "report.pdf" {
			t.Errorf("filename = %q", hdr.Filename)
		}
		json.NewEncoder(w).Encode(UploadResult{NumChunks: 12})
	}))
	defer srv.Close()

	dir := t.TempDir()
	path := filepath.Join(dir, "report.pdf")
	if err := os.WriteFile(path, []byte("%PDF-1.4 fake"), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := New(srv.URL).Upload(context.Background(), path)
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if result.NumChunks != 12 {
		t.Errorf("NumChunks = %d, want 12", result.NumChunks)
	}
}

func TestIsTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := New(srv.URL).ListDocuments(ctx)
	if err == nil {
		t.Fatal("expected timeout error")
	}
	if !IsTimeout(err) {
		t.Errorf("IsTimeout(%v) = false, want true", err)
	}
	if IsTimeout(errors.New("some other error")) {
		t.Error("IsTimeout should be false for unrelated errors")
	}
}
