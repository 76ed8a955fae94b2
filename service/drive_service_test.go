package service

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"google.golang.org/api/option"

	"print-order/models"
)

// fakeDrive serves the subset of the Drive v3 API used by DriveService
func fakeDrive(t *testing.T, files map[string]models.UploadedFile) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/files" {
			var list []map[string]string
			for id := range files {
				list = append(list, map[string]string{"id": id})
			}
			json.NewEncoder(w).Encode(map[string]interface{}{"files": list})
			return
		}

		id := strings.TrimPrefix(r.URL.Path, "/files/")
		file, ok := files[id]
		if !ok {
			http.Error(w, `{"error": {"code": 404, "message": "not found"}}`, http.StatusNotFound)
			return
		}
		if r.URL.Query().Get("alt") == "media" {
			w.Write(file.Content)
			return
		}
		json.NewEncoder(w).Encode(map[string]interface{}{
			"id":       id,
			"name":     file.Name,
			"mimeType": file.MediaType,
			"size":     strconv.FormatInt(file.Size, 10), // int64 fields travel as strings
		})
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestDriveService(t *testing.T, srv *httptest.Server, maxFileSize int64) *DriveService {
	t.Helper()
	ds, err := NewDriveService(context.Background(), maxFileSize,
		option.WithEndpoint(srv.URL+"/"),
		option.WithoutAuthentication(),
		option.WithHTTPClient(srv.Client()),
	)
	if err != nil {
		t.Fatalf("NewDriveService: %v", err)
	}
	return ds
}

func TestDriveService_FetchFiles(t *testing.T) {
	doc := pdfUpload("thesis.pdf", 2)
	srv := fakeDrive(t, map[string]models.UploadedFile{"id-1": doc})
	ds := newTestDriveService(t, srv, 0)

	files, err := ds.FetchFiles(context.Background(), []string{"id-1"})
	if err != nil {
		t.Fatalf("FetchFiles: %v", err)
	}
	if len(files) != 1 {
		t.Fatalf("got %d files, want 1", len(files))
	}
	got := files[0]
	if got.Name != "thesis.pdf" || got.MediaType != models.MediaTypePDF || got.Size != doc.Size || string(got.Content) != string(doc.Content) {
		t.Errorf("file = %s %s %d bytes, want thesis.pdf application/pdf %d bytes", got.Name, got.MediaType, got.Size, doc.Size)
	}
}

func TestDriveService_SkipsDownloadOfLargeFiles(t *testing.T) {
	doc := pdfUpload("big.pdf", 1)
	srv := fakeDrive(t, map[string]models.UploadedFile{"id-1": doc})
	ds := newTestDriveService(t, srv, 10)

	files, err := ds.FetchFiles(context.Background(), []string{"id-1"})
	if err != nil {
		t.Fatalf("FetchFiles: %v", err)
	}
	if files[0].Content != nil || files[0].Size != doc.Size {
		t.Errorf("large file downloaded or resized: %d bytes content, size %d", len(files[0].Content), files[0].Size)
	}

	// The upload policy rejects it afterwards
	if err := (UploadPolicy{MaxFileSize: 10}).CheckDocuments(files); err == nil {
		t.Error("oversized Drive file passed the upload policy")
	}
}

func TestDriveService_ListFolderPDFs(t *testing.T) {
	srv := fakeDrive(t, map[string]models.UploadedFile{"id-1": pdfUpload("a.pdf", 1)})
	ds := newTestDriveService(t, srv, 0)

	ids, err := ds.ListFolderPDFs(context.Background(), "folder")
	if err != nil {
		t.Fatalf("ListFolderPDFs: %v", err)
	}
	if len(ids) != 1 || ids[0] != "id-1" {
		t.Errorf("ids = %v, want [id-1]", ids)
	}
}

func TestDriveService_ListFolderPDFs_EscapesFolderID(t *testing.T) {
	var query string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query().Get("q")
		json.NewEncoder(w).Encode(map[string]interface{}{"files": []interface{}{}})
	}))
	t.Cleanup(srv.Close)
	ds := newTestDriveService(t, srv, 0)

	if _, err := ds.ListFolderPDFs(context.Background(), `it's\odd`); err != nil {
		t.Fatalf("ListFolderPDFs: %v", err)
	}
	want := `'it\'s\\odd' in parents and mimeType='application/pdf' and trashed=false`
	if query != want {
		t.Errorf("q = %s, want %s", query, want)
	}
}

func TestDriveService_MissingFile(t *testing.T) {
	srv := fakeDrive(t, nil)
	ds := newTestDriveService(t, srv, 0)

	if _, err := ds.FetchFiles(context.Background(), []string{"nope"}); err == nil {
		t.Error("FetchFiles succeeded for a missing file")
	}
}
