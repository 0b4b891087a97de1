package web

import (
	"bytes"
	"strings"
	"testing"
	"testing/fstest"
)

func testTemplatesFS() fstest.MapFS {
	return fstest.MapFS{
		"layouts/base.html": {Data: []byte(`{{define "base"}}<title>{{.Title}}</title>{{template "content" .}}{{template "footer" .}}{{end}}`)},
		"partials/footer.html": {Data: []byte(`{{define "footer"}}<footer>{{.CurrentYear}}</footer>{{end}}`)},
		"pages/index.html": {Data: []byte(`{{define "content"}}<h1 class="{{navClass .CurrentPath "/"}}">home</h1>{{end}}`)},
		"pages/about.html": {Data: []byte(`{{define "content"}}<h1>about</h1>{{end}}`)},
	}
}

func TestTemplates_Render(t *testing.T) {
	tmpl, err := NewTemplates(testTemplatesFS())
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	tests := []struct {
		name string
		page string
		data PageData
		want []string
	}{
		{
			name: "home marks active link",
			page: "index",
			data: PageData{Title: "Home", CurrentPath: "/", CurrentYear: 2031},
			want: []string{"<title>Home</title>", `class="active"`, "<footer>2031</footer>"},
		},
		{
			name: "about",
			page: "about",
			data: PageData{Title: "About", CurrentPath: "/about", CurrentYear: 1999},
			want: []string{"<h1>about</h1>", "<footer>1999</footer>"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := tmpl.Render(&buf, tt.page, tt.data); err != nil {
				t.Fatalf("Render() error = %v", err)
			}
			for _, want := range tt.want {
				if !strings.Contains(buf.String(), want) {
					t.Errorf("Render() = %q, want to contain %q", buf.String(), want)
				}
			}
		})
	}
}

func TestTemplates_RenderUnknownPage(t *testing.T) {
	tmpl, err := NewTemplates(testTemplatesFS())
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	var buf bytes.Buffer
	err = tmpl.Render(&buf, "missing", PageData{})
	if err == nil {
		t.Fatal("Render() should fail for unknown page")
	}
	if !strings.Contains(err.Error(), `"missing" not found`) {
		t.Errorf("Render() error = %v", err)
	}
}

func TestTemplates_Has(t *testing.T) {
	tmpl, err := NewTemplates(testTemplatesFS())
	if err != nil {
		t.Fatalf("NewTemplates() error = %v", err)
	}

	if !tmpl.Has("index") {
		t.Error("Has(index) = false, want true")
	}
	if tmpl.Has("contact") {
		t.Error("Has(contact) = true, want false")
	}
}

func TestNewTemplates_Errors(t *testing.T) {
	tests := []struct {
		name string
		fs   fstest.MapFS
	}{
		{
			name: "no pages",
			fs: fstest.MapFS{
				"layouts/base.html": {Data: []byte(`{{define "base"}}{{end}}`)},
			},
		},
		{
			name: "unparseable page",
			fs: fstest.MapFS{
				"pages/index.html": {Data: []byte(`{{define "content"}}{{.Title}`)},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTemplates(tt.fs); err == nil {
				t.Error("NewTemplates() should return error")
			}
		})
	}
}
