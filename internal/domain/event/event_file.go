package event

import (
	"path"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/eventi/backend/internal/domain/shared"
)

// FileType is the recognized document type of an attachment
type FileType string

const (
	FileTypeNone FileType = ""
	FileTypeDOCX FileType = "docx"
	FileTypePDF  FileType = "pdf"
	FileTypeXLSX FileType = "xlsx"
)

// IsValid reports whether the type is one of the recognized values or blank
func (t FileType) IsValid() bool {
	switch t {
	case FileTypeNone, FileTypeDOCX, FileTypePDF, FileTypeXLSX:
		return true
	}
	return false
}

// Display returns the human-readable label
func (t FileType) Display() string {
	switch t {
	case FileTypeDOCX:
		return "Word Document"
	case FileTypePDF:
		return "PDF Document"
	case FileTypeXLSX:
		return "Excel Spreadsheet"
	}
	return ""
}

// DetectFileType infers the type from the file extension.
// Unknown extensions yield FileTypeNone.
func DetectFileType(filename string) FileType {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")
	t := FileType(ext)
	if t != FileTypeNone && t.IsValid() {
		return t
	}
	return FileTypeNone
}

// Column limits
const (
	MaxFileKeyLength   = 255
	MaxFileTitleLength = 255
)

// EventFile is a document attached to an event and stored in the object store.
type EventFile struct {
	ID          int64
	EventID     int64
	Key         string
	Title       string
	FileType    FileType
	Description string
	CreatedByID *int64
	CreatedAt   time.Time
}

// NewEventFile builds the attachment record for an object already stored under key.
// An empty title falls back to the base name without extension, an empty or unknown
// type is inferred from the key.
func NewEventFile(eventID int64, key, title string, fileType FileType, description string, uploaderID int64) (*EventFile, error) {
	if key == "" {
		return nil, shared.NewDomainError("INVALID_FILE", "Il file è obbligatorio.")
	}
	if utf8.RuneCountInString(key) > MaxFileKeyLength {
		return nil, shared.NewDomainError("INVALID_FILE", "Il percorso del file è troppo lungo.")
	}

	title = strings.TrimSpace(title)
	if title == "" {
		title = TitleFromFilename(key)
	}
	if utf8.RuneCountInString(title) > MaxFileTitleLength {
		title = string([]rune(title)[:MaxFileTitleLength])
	}

	if fileType == FileTypeNone || !fileType.IsValid() {
		fileType = DetectFileType(key)
	}

	return &EventFile{
		EventID:     eventID,
		Key:         key,
		Title:       title,
		FileType:    fileType,
		Description: description,
		CreatedByID: &uploaderID,
		CreatedAt:   time.Now(),
	}, nil
}

// Filename returns the last segment of the object key
func (f *EventFile) Filename() string {
	return path.Base(f.Key)
}

// TitleFromFilename strips directories and the extension from a file name
func TitleFromFilename(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// MaxFileSlugLength caps the slugged base name of stored attachments
const MaxFileSlugLength = 50

// FileKey builds the object key of an uploaded attachment:
// {prefix}/{eventID}/{slug of the base name}{lowercased extension}.
func FileKey(prefix string, eventID int64, filename string) string {
	name := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	ext := strings.ToLower(path.Ext(name))
	slug := shared.Slugify(strings.TrimSuffix(name, path.Ext(name)))
	if len(slug) > MaxFileSlugLength {
		slug = strings.TrimRight(slug[:MaxFileSlugLength], "-")
	}
	if slug == "" {
		slug = "file"
	}
	return path.Join(prefix, strconv.FormatInt(eventID, 10), slug+ext)
}

// WithKeySuffix inserts suffix before the extension of key
func WithKeySuffix(key, suffix string) string {
	ext := path.Ext(key)
	return strings.TrimSuffix(key, ext) + "_" + suffix + ext
}
