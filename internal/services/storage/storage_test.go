package storage

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestObjectKey(t *testing.T) {
	tests := []struct {
		email   string
		want    string
		wantErr bool
	}{
		{"alex.cruz@example.com", "alex.cruz_resume.pdf", false},
		{" jo+camp@example.com ", "jo+camp_resume.pdf", false},
		{"we/ird@example.com", "we_ird_resume.pdf", false},
		{"no-at-sign", "", true},
		{"@example.com", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			got, err := ObjectKey(tt.email)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ObjectKey() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ObjectKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestObjectURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{"public base url", Config{PublicBaseURL: "https://cdn.example.com/", Bucket: "b"}, "https://cdn.example.com/k.pdf"},
		{"custom endpoint", Config{Endpoint: "https://acct.r2.cloudflarestorage.com", Bucket: "resumes"}, "https://acct.r2.cloudflarestorage.com/resumes/k.pdf"},
		{"aws", Config{Bucket: "resumes", Region: "us-west-2"}, "https://resumes.s3.us-west-2.amazonaws.com/k.pdf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &Store{cfg: tt.cfg}
			if got := s.objectURL("k.pdf"); got != tt.want {
				t.Errorf("objectURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestSaveResume_Disabled(t *testing.T) {
	s, err := New(context.Background(), Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if s.Enabled() {
		t.Fatal("store without bucket should be disabled")
	}
	if _, err := s.SaveResume(context.Background(), "a@b.c", []byte("%PDF-")); !errors.Is(err, ErrNotConfigured) {
		t.Errorf("SaveResume() error = %v, want ErrNotConfigured", err)
	}
}

// TestSaveResume_PutsObject runs against a fake S3 endpoint.
func TestSaveResume_PutsObject(t *testing.T) {
	var gotMethod, gotPath, gotType, gotBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath, gotType = r.Method, r.URL.Path, r.Header.Get("Content-Type")
		b, _ := io.ReadAll(r.Body)
		gotBody = string(b)
		w.Header().Set("ETag", `"abc"`)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s, err := New(context.Background(), Config{
		Endpoint:  srv.URL,
		Bucket:    "resumes",
		AccessKey: "key",
		SecretKey: "secret",
		Region:    "auto",
	})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	obj, err := s.SaveResume(context.Background(), "alex@example.com", []byte("%PDF-1.7 body"))
	if err != nil {
		t.Fatalf("SaveResume() error = %v", err)
	}

	if gotMethod != http.MethodPut || gotPath != "/resumes/alex_resume.pdf" {
		t.Errorf("request = %s %s", gotMethod, gotPath)
	}
	if gotType != "application/pdf" {
		t.Errorf("Content-Type = %q", gotType)
	}
	if !strings.Contains(gotBody, "%PDF-1.7 body") {
		t.Errorf("body = %q", gotBody)
	}
	if obj.Key != "alex_resume.pdf" || obj.URL != srv.URL+"/resumes/alex_resume.pdf" {
		t.Errorf("SaveResume() = %+v", obj)
	}
}
