package forms

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"reflect"
	"strings"
	"testing"
)

func TestFromRequestParsesURLEncodedForm(t *testing.T) {
	form := url.Values{}
	form.Set("_collection", "comments")
	form.Add("title", "first")
	form.Add("title", "This is great")
	form.Add("tags[]", "a")
	form.Add("tags[]", "b")

	req := httptest.NewRequest(http.MethodPost, "/!/guest-entries/create", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	sub, err := FromRequest(req, 0, WithSite("default"))
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	if got := sub.String("title"); got != "This is great" {
		t.Fatalf("expected last value to win, got %q", got)
	}
	if got := sub.Value("tags"); !reflect.DeepEqual(got, []string{"a", "b"}) {
		t.Fatalf("expected tags list, got %#v", got)
	}
	if sub.Site() != "default" {
		t.Fatalf("expected site option to apply")
	}
	want := []string{"_collection", "tags", "title"}
	if got := sub.Keys(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected keys %v got %v", want, got)
	}
}

func TestFromRequestCollectsMultipartFiles(t *testing.T) {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	_ = writer.WriteField("_collection", "albums")
	for _, name := range []string{"one.txt", "two.txt"} {
		part, err := writer.CreateFormFile("attachments[]", name)
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		_, _ = part.Write([]byte("content of " + name))
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/!/guest-entries/create", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	sub, err := FromRequest(req, 0)
	if err != nil {
		t.Fatalf("FromRequest: %v", err)
	}
	files := sub.Files("attachments")
	if len(files) != 2 {
		t.Fatalf("expected 2 uploads, got %d", len(files))
	}
	if files[0].Filename != "one.txt" || files[1].Filename != "two.txt" {
		t.Fatalf("expected upload order to be preserved, got %q %q", files[0].Filename, files[1].Filename)
	}
	rc, err := files[1].Open()
	if err != nil {
		t.Fatalf("open upload: %v", err)
	}
	defer rc.Close()
	data, _ := io.ReadAll(rc)
	if string(data) != "content of two.txt" {
		t.Fatalf("unexpected upload content %q", data)
	}
	if !sub.Has("attachments") || sub.HasValue("attachments") {
		t.Fatalf("expected attachments to be a file-only key")
	}
}

func TestSubmissionValuesAreCopies(t *testing.T) {
	tags := []string{"a"}
	sub := New(map[string]any{"tags": tags})
	tags[0] = "mutated"

	got := sub.Value("tags").([]string)
	if got[0] != "a" {
		t.Fatalf("expected submission to copy input lists")
	}
	got[0] = "changed"
	if sub.Value("tags").([]string)[0] != "a" {
		t.Fatalf("expected Value to return a copy")
	}
}

func TestStringOfMissingKeyIsEmpty(t *testing.T) {
	var sub Submission
	if sub.String("missing") != "" || sub.Has("missing") {
		t.Fatalf("expected zero submission to be empty")
	}
}
