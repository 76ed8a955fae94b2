package models

// Media types accepted by the upload flows
const (
	MediaTypePDF  = "application/pdf"
	MediaTypePNG  = "image/png"
	MediaTypeJPEG = "image/jpeg"
)

// UploadedFile represents a file handle received from an upload, a collage or a Drive import
type UploadedFile struct {
	Name      string `json:"name"` // Unique within a registry
	Size      int64  `json:"size"` // Bytes
	MediaType string `json:"mediaType"`
	Content   []byte `json:"-"`
}

// FileRecord represents an admitted file paired with its print configuration
type FileRecord struct {
	File         UploadedFile `json:"file"`
	Config       PrintConfig  `json:"config"`
	PageCount    int          `json:"pageCount"`              // 0 until the page counter reports
	PageCountErr string       `json:"pageCountErr,omitempty"` // Set when the page counter failed
	Generation   uint64       `json:"-"`                      // Admission token, see PageCountToken
}

// PageCountToken identifies the admission a page count request was issued for.
// A result carrying a token whose generation no longer matches the live record is discarded.
type PageCountToken struct {
	Name       string
	Generation uint64
}

// FileRecordResponse represents a file record as returned by the API
type FileRecordResponse struct {
	Name         string      `json:"name"`
	Size         int64       `json:"size"`
	MediaType    string      `json:"mediaType"`
	PageCount    int         `json:"pageCount"`
	PageCountErr string      `json:"pageCountErr,omitempty"`
	Selected     bool        `json:"selected"`
	Config       PrintConfig `json:"config"`
}

// AddFilesResponse represents the response after an upload batch
type AddFilesResponse struct {
	Admitted []string `json:"admitted"`
	Skipped  []string `json:"skipped"` // Duplicate names silently dropped
	Message  string   `json:"message"`
}

// DriveImportRequest represents the request body for importing files from Google Drive
// Example: {"fileIds": ["1AbC...", "1XyZ..."]} or {"folderId": "1TtK..."}
type DriveImportRequest struct {
	FileIDs  []string `json:"fileIds"`
	FolderID string   `json:"folderId,omitempty"` // Imports every PDF in the folder
}

// SelectionResponse represents the currently selected file of a session
type SelectionResponse struct {
	Selected string `json:"selected"` // Empty when nothing is selected
}

// SessionResponse represents a newly created session
type SessionResponse struct {
	SessionID string `json:"sessionId"`
}
