package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strings"

	pdf "github.com/ledongthuc/pdf"
)

// UnsupportedTypeText is stored as the extracted text when a file's type has
// no extractor. Upload keeps the file either way; only the text is degraded.
const UnsupportedTypeText = "file type not supported for text extraction"

// ExtractText determines the true file type from bytes (sniffing first, then
// declared mime/extension) and extracts plain text.
// Supported: PDF, DOCX, TXT/MD, HTML (strip tags).
func ExtractText(originalName string, mimeType string, data []byte) (string, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	mt := strings.ToLower(strings.TrimSpace(mimeType))

	if len(data) == 0 {
		return "", fmt.Errorf("empty file: name=%s mime=%s", originalName, mimeType)
	}

	if isPDF(data) {
		return extractPDF(data)
	}
	if isZip(data) {
		// Could be docx/xlsx/other zip. Only docx carries prose worth keeping.
		if zipHasPrefix(data, "word/") {
			return extractDOCX(data)
		}
		return UnsupportedTypeText, nil
	}

	if looksLikeHTML(data) || mt == "text/html" || ext == ".html" || ext == ".htm" {
		return extractHTML(string(data)), nil
	}

	if isProbablyText(data) || mt == "text/plain" || ext == ".txt" || ext == ".md" || ext == ".markdown" {
		return collapseWhitespace(string(data)), nil
	}

	// Declared pdf/docx that failed the magic-byte check is corrupt, not
	// merely unsupported.
	if mt == "application/pdf" || ext == ".pdf" {
		return "", fmt.Errorf("file claims pdf but missing %%PDF header: name=%s head=%s", originalName, firstBytesHex(data, 16))
	}
	if mt == "application/vnd.openxmlformats-officedocument.wordprocessingml.document" || ext == ".docx" {
		return "", fmt.Errorf("file claims docx but is not a valid zip container: name=%s", originalName)
	}

	return UnsupportedTypeText, nil
}

func isPDF(b []byte) bool {
	return len(b) >= 5 && string(b[:5]) == "%PDF-"
}

func isZip(b []byte) bool {
	return len(b) >= 4 && b[0] == 'P' && b[1] == 'K' && b[2] == 3 && b[3] == 4
}

func zipHasPrefix(zipBytes []byte, prefix string) bool {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if strings.HasPrefix(f.Name, prefix) {
			return true
		}
	}
	return false
}

func looksLikeHTML(b []byte) bool {
	s := strings.ToLower(string(b[:min(len(b), 2048)]))
	trimmed := strings.TrimSpace(s)
	if strings.HasPrefix(trimmed, "<!doctype") || strings.HasPrefix(trimmed, "<html") {
		return true
	}
	// also catch saved error pages
	return strings.Contains(s, "<html") && strings.Contains(s, "</html>")
}

func isProbablyText(b []byte) bool {
	// Mostly printable/whitespace bytes and no NULs.
	sample := b[:min(len(b), 4096)]
	good := 0
	for _, c := range sample {
		if c == 0x00 {
			return false
		}
		if c == '\n' || c == '\r' || c == '\t' || (c >= 0x20 && c <= 0x7E) || c >= 0x80 {
			good++
		}
	}
	return float64(good)/float64(len(sample)) > 0.9
}

func firstBytesHex(b []byte, n int) string {
	n = min(len(b), n)
	const hexdigits = "0123456789abcdef"
	out := make([]byte, 0, n*2)
	for i := 0; i < n; i++ {
		out = append(out, hexdigits[b[i]>>4], hexdigits[b[i]&0x0f])
	}
	return string(out)
}

func extractPDF(data []byte) (string, error) {
	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("pdf reader: %w", err)
	}
	plain, err := r.GetPlainText()
	if err != nil {
		return "", fmt.Errorf("pdf plaintext: %w", err)
	}
	b, err := io.ReadAll(plain)
	if err != nil {
		return "", fmt.Errorf("pdf read: %w", err)
	}
	return collapseWhitespace(string(b)), nil
}

func extractDOCX(zipBytes []byte) (string, error) {
	zr, err := zip.NewReader(bytes.NewReader(zipBytes), int64(len(zipBytes)))
	if err != nil {
		return "", err
	}
	var doc *zip.File
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			doc = f
			break
		}
	}
	if doc == nil {
		return "", fmt.Errorf("docx missing word/document.xml")
	}
	rc, err := doc.Open()
	if err != nil {
		return "", err
	}
	b, _ := io.ReadAll(rc)
	_ = rc.Close()
	s := collapseWhitespace(extractXMLText(b, "t"))
	if s == "" {
		return "", fmt.Errorf("no text extracted from docx")
	}
	return s, nil
}

// extractXMLText gathers the character data of every element whose local name
// matches tag (DOCX text runs live in <w:t>).
func extractXMLText(xmlBytes []byte, tag string) string {
	dec := xml.NewDecoder(bytes.NewReader(xmlBytes))
	var out strings.Builder
	for {
		tok, err := dec.Token()
		if err != nil {
			break
		}
		se, ok := tok.(xml.StartElement)
		if !ok || se.Name.Local != tag {
			continue
		}
		var v string
		_ = dec.DecodeElement(&v, &se)
		if v != "" {
			out.WriteString(v)
			out.WriteString(" ")
		}
	}
	return out.String()
}

func extractHTML(s string) string {
	re := regexp.MustCompile(`(?s)<[^>]*>`)
	s = re.ReplaceAllString(s, " ")
	s = strings.ReplaceAll(s, "&nbsp;", " ")
	s = strings.ReplaceAll(s, "&amp;", "&")
	return collapseWhitespace(s)
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, " ", " ")
	return strings.Join(strings.Fields(s), " ")
}
