package services

import (
	"archive/zip"
	"bytes"
	"strings"
	"testing"
)

func TestExtractTextPlain(t *testing.T) {
	out, err := ExtractText("notes.txt", "text/plain", []byte("hello\n\n  world\t"))
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out != "hello world" {
		t.Errorf("out = %q, want %q", out, "hello world")
	}
}

func TestExtractTextHTML(t *testing.T) {
	html := []byte("<!DOCTYPE html><html><body><h1>Title</h1><p>Some&nbsp;text &amp; more</p></body></html>")
	out, err := ExtractText("page.html", "text/html", html)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out != "Title Some text & more" {
		t.Errorf("out = %q", out)
	}
}

func TestExtractTextDOCX(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	doc, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create entry: %v", err)
	}
	_, _ = doc.Write([]byte(`<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <w:body><w:p><w:r><w:t>Hello</w:t></w:r><w:r><w:t>World</w:t></w:r></w:p></w:body>
</w:document>`))
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}

	out, err := ExtractText("doc.docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document", buf.Bytes())
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out != "Hello World" {
		t.Errorf("out = %q, want %q", out, "Hello World")
	}
}

func TestExtractTextUnsupportedBinary(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0xFF, 0xFE, 0x00, 0x10}
	out, err := ExtractText("blob.bin", "application/octet-stream", data)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	if out != UnsupportedTypeText {
		t.Errorf("out = %q, want unsupported sentinel", out)
	}
}

func TestExtractTextCorruptPDF(t *testing.T) {
	data := []byte{0x00, 0x01, 0x02, 0x03, 0x04}
	_, err := ExtractText("doc.pdf", "application/pdf", data)
	if err == nil {
		t.Fatal("want error for claimed pdf without header")
	}
	if !strings.Contains(err.Error(), "pdf") {
		t.Errorf("err = %v, want pdf mention", err)
	}
}

func TestExtractTextEmpty(t *testing.T) {
	if _, err := ExtractText("empty.txt", "text/plain", nil); err == nil {
		t.Fatal("want error for empty file")
	}
}
