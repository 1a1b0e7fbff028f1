package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

func TestFromText(t *testing.T) {
	got, err := FromText("  photosynthesis \n")
	if err != nil || got != "photosynthesis" {
		t.Errorf("FromText = %q, %v; want %q, nil", got, err, "photosynthesis")
	}
	if _, err := FromText(" \n\t"); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("FromText(blank) err = %v, want ErrEmptyContent", err)
	}
}

func TestFromFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
		return p
	}

	tests := []struct {
		name    string
		path    string
		want    string
		wantErr error
	}{
		{"text", write("notes.txt", "mitochondria\n"), "mitochondria", nil},
		{"markdown upper ext", write("notes.MD", "# Cells"), "# Cells", nil},
		{"pdf", write("paper.pdf", "%PDF"), "", ErrUnsupportedFile},
		{"image", write("scan.png", "png"), "", ErrUnsupportedFile},
		{"empty", write("empty.md", "   "), "", ErrEmptyContent},
	}
	for _, tt := range tests {
		got, err := FromFile(tt.path)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("%s: err = %v, want %v", tt.name, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got != tt.want {
			t.Errorf("%s: FromFile = %q, %v; want %q", tt.name, got, err, tt.want)
		}
	}
}

func TestFromFile_TooLarge(t *testing.T) {
	p := filepath.Join(t.TempDir(), "big.txt")
	f, err := os.Create(p)
	if err != nil {
		t.Fatal(err)
	}
	if err := f.Truncate(MaxFileSize + 1); err != nil {
		t.Fatal(err)
	}
	f.Close()

	if _, err := FromFile(p); !errors.Is(err, ErrFileTooLarge) {
		t.Errorf("err = %v, want ErrFileTooLarge", err)
	}
}

func TestIsSheet(t *testing.T) {
	for path, want := range map[string]bool{
		"deck.xlsx": true,
		"deck.CSV":  true,
		"deck.md":   false,
		"deck":      false,
	} {
		if got := IsSheet(path); got != want {
			t.Errorf("IsSheet(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestFetchURL(t *testing.T) {
	var gotPath, gotAccept string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAccept = r.Header.Get("Accept")
		switch {
		case strings.HasSuffix(r.URL.Path, "/empty"):
			w.Write([]byte("  "))
		case strings.HasSuffix(r.URL.Path, "/gone"):
			w.WriteHeader(http.StatusNotFound)
		default:
			w.Write([]byte("Title: Rivers\n\nThe Nile is long."))
		}
	}))
	defer srv.Close()

	f := NewFetcher(srv.URL+"/", 5*time.Second)
	ctx := context.Background()

	text, err := f.FetchURL(ctx, "https://example.com/rivers")
	if err != nil {
		t.Fatalf("FetchURL: %v", err)
	}
	if !strings.Contains(text, "The Nile") {
		t.Errorf("text = %q", text)
	}
	if gotPath != "/https://example.com/rivers" {
		t.Errorf("proxy path = %q", gotPath)
	}
	if gotAccept != "text/plain" {
		t.Errorf("Accept = %q, want text/plain", gotAccept)
	}

	if _, err := f.FetchURL(ctx, "https://example.com/empty"); !errors.Is(err, ErrEmptyContent) {
		t.Errorf("empty page err = %v, want ErrEmptyContent", err)
	}
	if _, err := f.FetchURL(ctx, "https://example.com/gone"); err == nil || !strings.Contains(err.Error(), "404") {
		t.Errorf("404 err = %v", err)
	}
	if _, err := f.FetchURL(ctx, "ftp://example.com"); err == nil {
		t.Error("expected error for non-http url")
	}
}

func TestMarkdownFiles(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"b.md", "a/notes.markdown", "a/skip.txt", ".git/HEAD.md", "c/deep/z.MD"} {
		full := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("Q: q\nA: a"), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	got, err := MarkdownFiles(dir)
	if err != nil {
		t.Fatalf("MarkdownFiles: %v", err)
	}
	want := []string{
		filepath.Join(dir, "a/notes.markdown"),
		filepath.Join(dir, "b.md"),
		filepath.Join(dir, "c/deep/z.MD"),
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("MarkdownFiles = %v, want %v", got, want)
	}
}
