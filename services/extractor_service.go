package services

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/unidoc/unipdf/v3/common/license"
	"github.com/unidoc/unipdf/v3/extractor"
	"github.com/unidoc/unipdf/v3/model"
)

// InitPDFLicense registers the UniDoc metered license key. PDF extraction
// fails without a valid key; other formats are unaffected.
func InitPDFLicense(key string) error {
	if key == "" {
		return fmt.Errorf("unidoc license key is empty")
	}
	if err := license.SetMeteredKey(key); err != nil {
		return fmt.Errorf("failed to set unidoc license key: %w", err)
	}
	return nil
}

// SupportedExtensions lists the upload formats the extractor handles.
func SupportedExtensions() []string {
	return []string{".pdf", ".txt", ".md", ".docx", ".doc"}
}

// IsSupportedFile reports whether the path has a supported extension.
func IsSupportedFile(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, supported := range SupportedExtensions() {
		if ext == supported {
			return true
		}
	}
	return false
}

// ExtractTextFromFile reads a file and returns its text content.
// It automatically handles different file types.
func ExtractTextFromFile(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".txt", ".md":
		content, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return string(content), nil
	case ".pdf":
		return extractTextFromPDF(path)
	case ".docx", ".doc":
		// Legacy .doc files in the wild are usually OOXML with the old
		// extension; genuine pre-OOXML binaries fail here.
		return extractTextFromDOCX(path)
	default:
		return "", fmt.Errorf("unsupported file type: %s", ext)
	}
}

// extractTextFromPDF uses UniPDF to get all text from a PDF file.
func extractTextFromPDF(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	pdfReader, err := model.NewPdfReader(f)
	if err != nil {
		return "", err
	}

	numPages, err := pdfReader.GetNumPages()
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	for i := 1; i <= numPages; i++ {
		page, err := pdfReader.GetPage(i)
		if err != nil {
			return "", err
		}

		ex, err := extractor.New(page)
		if err != nil {
			return "", err
		}

		text, err := ex.ExtractText()
		if err != nil {
			return "", err
		}
		sb.WriteString(text)
		sb.WriteString("\n\n") // Add space between pages
	}

	return sb.String(), nil
}

// extractTextFromDOCX pulls the text runs out of word/document.xml. A docx
// file is a zip archive of XML parts.
func extractTextFromDOCX(path string) (string, error) {
	reader, err := zip.OpenReader(path)
	if err != nil {
		return "", fmt.Errorf("could not open %s as a docx archive: %w", filepath.Base(path), err)
	}
	defer reader.Close()

	for _, file := range reader.File {
		if file.Name == "word/document.xml" {
			rc, err := file.Open()
			if err != nil {
				return "", err
			}
			defer rc.Close()
			return readDOCXRuns(rc)
		}
	}
	return "", fmt.Errorf("no word/document.xml found in %s", filepath.Base(path))
}

func readDOCXRuns(r io.Reader) (string, error) {
	decoder := xml.NewDecoder(r)
	var sb strings.Builder
	inText := false
	for {
		token, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", fmt.Errorf("malformed document.xml: %w", err)
		}
		switch t := token.(type) {
		case xml.StartElement:
			if t.Name.Local == "t" {
				inText = true
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "p":
				sb.WriteString("\n")
			}
		case xml.CharData:
			if inText {
				sb.Write(t)
			}
		}
	}
	return sb.String(), nil
}
