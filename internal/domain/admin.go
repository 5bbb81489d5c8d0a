package domain

import "fmt"

// UploadKind selects the admin upload endpoint.
type UploadKind int

const (
	UploadLocations UploadKind = iota
	UploadDocuments
)

func (k UploadKind) String() string {
	switch k {
	case UploadLocations:
		return "locations"
	case UploadDocuments:
		return "documents"
	default:
		return fmt.Sprintf("UploadKind(%d)", int(k))
	}
}

// UploadResult is the outcome of a successful upload. The concrete type is
// fixed by the endpoint that was called, so each variant names its own
// count field.
type UploadResult interface {
	Kind() UploadKind
	Files() int
	// Added is the number of items the backend ingested.
	Added() int
}

// LocationsUploaded is returned by the locations upload endpoint.
type LocationsUploaded struct {
	FilesUploaded  int
	LocationsAdded int
}

func (r LocationsUploaded) Kind() UploadKind { return UploadLocations }
func (r LocationsUploaded) Files() int       { return r.FilesUploaded }
func (r LocationsUploaded) Added() int       { return r.LocationsAdded }

// DocumentsUploaded is returned by the documents upload endpoint.
type DocumentsUploaded struct {
	FilesUploaded int
	DocsAdded     int
}

func (r DocumentsUploaded) Kind() UploadKind { return UploadDocuments }
func (r DocumentsUploaded) Files() int       { return r.FilesUploaded }
func (r DocumentsUploaded) Added() int       { return r.DocsAdded }

// UploadSummary is the message shown after a successful upload.
func UploadSummary(r UploadResult) string {
	return fmt.Sprintf("Upload successful! Files uploaded: %d. Added items: %d", r.Files(), r.Added())
}

// ResetTarget selects which backend collection to clear.
type ResetTarget int

const (
	ResetLocations ResetTarget = iota
	ResetDocuments
)

func (t ResetTarget) String() string {
	switch t {
	case ResetLocations:
		return "locations"
	case ResetDocuments:
		return "documents"
	default:
		return fmt.Sprintf("ResetTarget(%d)", int(t))
	}
}

// ResetResult carries the backend's confirmation message.
type ResetResult struct {
	Message string
}

// UploadFile is one file handed to an upload endpoint.
type UploadFile struct {
	Name string
	Path string
	Size int64
}
