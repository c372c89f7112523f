package export

import (
	"archive/zip"
	"bytes"
	"embed"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"path"
	"strings"
	"text/template"
	"time"

	"github.com/eventi/backend/internal/domain/event"
)

//go:embed all:templates/report_docx
var defaultDocxFS embed.FS

const (
	defaultDocxRoot  = "templates/report_docx"
	documentPartName = "word/document.xml"
)

// DocxRenderer fills a Word template with the selected events.
//
// The template is a .docx package whose word/document.xml is a text/template.
// It receives "events" (a list of maps with the keys titolo, categoria,
// data_inizio, data_fine, paese, citta, settore, tipologia, descrizione and
// created_by), "total_events" and "report_date". Values are XML-escaped.
type DocxRenderer struct {
	templatePath string
}

var _ Renderer = (*DocxRenderer)(nil)

// NewDocxRenderer creates a renderer for the template at templatePath.
// An empty path uses the built-in template.
func NewDocxRenderer(templatePath string) *DocxRenderer {
	return &DocxRenderer{templatePath: templatePath}
}

// Filename returns eventi_report_YYYYmmdd_HHMMSS.docx
func (r *DocxRenderer) Filename(t time.Time) string {
	return "eventi_report_" + t.Format("20060102_150405") + ".docx"
}

// ContentType returns the Word MIME type
func (r *DocxRenderer) ContentType() string {
	return ContentTypeDOCX
}

// docxPart is one file of the template package
type docxPart struct {
	name string
	data []byte
}

// Render writes the filled document to w
func (r *DocxRenderer) Render(w io.Writer, events []event.Event, generatedAt time.Time) error {
	parts, err := r.loadParts()
	if err != nil {
		return err
	}

	zw := zip.NewWriter(w)
	rendered := false
	for _, part := range parts {
		data := part.data
		if part.name == documentPartName {
			data, err = executeDocument(part.data, docxContext(events, generatedAt))
			if err != nil {
				return err
			}
			rendered = true
		}
		fw, err := zw.Create(part.name)
		if err != nil {
			return NewRenderError(ErrCodeRenderFailed, "failed to write document part", err)
		}
		if _, err := fw.Write(data); err != nil {
			return NewRenderError(ErrCodeRenderFailed, "failed to write document part", err)
		}
	}
	if !rendered {
		return NewRenderError(ErrCodeInvalidTemplate, "template has no "+documentPartName, nil)
	}
	if err := zw.Close(); err != nil {
		return NewRenderError(ErrCodeRenderFailed, "failed to finish document", err)
	}
	return nil
}

// loadParts reads every file of the configured or built-in template package
func (r *DocxRenderer) loadParts() ([]docxPart, error) {
	if r.templatePath == "" {
		return loadEmbeddedParts()
	}

	zr, err := zip.OpenReader(r.templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrTemplateNotFound
		}
		return nil, NewRenderError(ErrCodeInvalidTemplate, "failed to open template", err)
	}
	defer zr.Close()

	parts := make([]docxPart, 0, len(zr.File))
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return nil, NewRenderError(ErrCodeInvalidTemplate, "failed to read template part "+f.Name, err)
		}
		data, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			return nil, NewRenderError(ErrCodeInvalidTemplate, "failed to read template part "+f.Name, err)
		}
		parts = append(parts, docxPart{name: f.Name, data: data})
	}
	return parts, nil
}

func loadEmbeddedParts() ([]docxPart, error) {
	var parts []docxPart
	err := fs.WalkDir(defaultDocxFS, defaultDocxRoot, func(p string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() {
			return err
		}
		data, err := defaultDocxFS.ReadFile(p)
		if err != nil {
			return err
		}
		parts = append(parts, docxPart{name: strings.TrimPrefix(p, defaultDocxRoot+"/"), data: data})
		return nil
	})
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidTemplate, "failed to load built-in template", err)
	}
	return parts, nil
}

func executeDocument(source []byte, data map[string]any) ([]byte, error) {
	tmpl, err := template.New(path.Base(documentPartName)).Option("missingkey=zero").Parse(string(source))
	if err != nil {
		return nil, NewRenderError(ErrCodeInvalidTemplate, "invalid document template", err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, NewRenderError(ErrCodeRenderFailed, "failed to fill document template", err)
	}
	return buf.Bytes(), nil
}

// docxContext builds the template data with XML-escaped values
func docxContext(events []event.Event, generatedAt time.Time) map[string]any {
	rows := make([]map[string]string, 0, len(events))
	for i := range events {
		e := &events[i]
		rows = append(rows, map[string]string{
			"titolo":      escapeXML(e.Titolo),
			"categoria":   escapeXML(string(e.Categoria)),
			"data_inizio": formatDate(&e.DataInizio),
			"data_fine":   formatDate(e.DataFine),
			"paese":       escapeXML(string(e.Paese)),
			"citta":       escapeXML(e.Citta),
			"settore":     escapeXML(e.SettoreNome()),
			"tipologia":   escapeXML(e.Tipologia),
			"descrizione": escapeXML(e.Descrizione),
			"created_by":  escapeXML(e.CreatedByName),
		})
	}
	return map[string]any{
		"events":       rows,
		"total_events": len(events),
		"report_date":  generatedAt.Format(TimestampLayout),
	}
}

// lineBreak closes the current text run, breaks the line and reopens it
const lineBreak = `</w:t><w:br/><w:t xml:space="preserve">`

func escapeXML(s string) string {
	var buf bytes.Buffer
	if err := xml.EscapeText(&buf, []byte(s)); err != nil {
		return fmt.Sprintf("%q", s)
	}
	escaped := strings.ReplaceAll(buf.String(), "&#xD;", "")
	return strings.ReplaceAll(escaped, "&#xA;", lineBreak)
}

