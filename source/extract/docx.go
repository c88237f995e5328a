package extract

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
)

const docxDocumentPath = "word/document.xml"

// DOCX extracts the plain text of a Word document. A .docx file is a zip
// archive whose main body lives in word/document.xml; text runs (w:t) are
// concatenated with paragraph breaks preserved as newlines.
func DOCX(data []byte) (string, error) {
	archive, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("%w: not a zip archive: %v", ErrMalformed, err)
	}

	var body *zip.File
	for _, f := range archive.File {
		if f.Name == docxDocumentPath {
			body = f
			break
		}
	}
	if body == nil {
		return "", fmt.Errorf("%w: %s missing", ErrMalformed, docxDocumentPath)
	}

	rc, err := body.Open()
	if err != nil {
		return "", fmt.Errorf("%w: open %s: %v", ErrMalformed, docxDocumentPath, err)
	}
	defer rc.Close()

	var b strings.Builder
	decoder := xml.NewDecoder(rc)
	inTextRun := false
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: parse %s: %v", ErrMalformed, docxDocumentPath, err)
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "t":
				inTextRun = true
			case "tab":
				b.WriteByte('\t')
			case "br":
				b.WriteByte('\n')
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inTextRun = false
			case "p":
				b.WriteByte('\n')
			}
		case xml.CharData:
			if inTextRun {
				b.Write(t)
			}
		}
	}

	return strings.TrimSpace(b.String()), nil
}
