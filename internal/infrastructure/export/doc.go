// Package export renders event reports as Word and Excel documents.
//
// This package contains:
//   - Renderer, the common interface of the report formats
//   - DocxRenderer, which fills a .docx template whose word/document.xml is a text/template
//   - XLSXRenderer, which builds a styled workbook with excelize
//
// Renderers write a complete document to the writer or fail; callers render into a
// temporary file and only stream it once rendering succeeded.
package export
