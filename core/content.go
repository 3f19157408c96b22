// Package core provides the Loom SDK request/response model and client types.
package core

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// ContentPart is one atomic unit of message content. The built-in kinds are
// Text, ImageReference, and FileReference; each validates its own invariants
// in its constructor, so downstream code can trust an already-built value.
type ContentPart interface {
	// ContentType returns the wire discriminator for this content part.
	ContentType() string
}

// ImageDetail specifies the level of detail for image processing.
type ImageDetail string

const (
	// ImageDetailAuto lets the model decide the appropriate detail level.
	ImageDetailAuto ImageDetail = "auto"
	// ImageDetailLow uses fewer tokens for faster processing.
	ImageDetailLow ImageDetail = "low"
	// ImageDetailHigh uses more tokens for detailed analysis.
	ImageDetailHigh ImageDetail = "high"
)

// Text is plain text content. The payload is never empty.
type Text struct {
	Text string
}

// NewText creates a text content part. The text must be non-empty.
func NewText(s string) (Text, error) {
	if s == "" {
		return Text{}, invalidValue("text", "must be non-empty")
	}
	return Text{Text: s}, nil
}

// ContentType returns the wire discriminator for Text.
func (Text) ContentType() string { return "text" }

// ImageReference is image content referenced by URL.
type ImageReference struct {
	// URL is an absolute HTTPS URL or data URL.
	URL string
	// Detail is the requested processing detail level. Empty means auto.
	Detail ImageDetail
}

// NewImageReference creates an image content part. The URL must parse as an
// absolute URI.
func NewImageReference(rawURL string, detail ImageDetail) (ImageReference, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ImageReference{}, invalidValuef("image_url", "malformed URL %q: %v", rawURL, err)
	}
	if !u.IsAbs() {
		return ImageReference{}, invalidValuef("image_url", "URL %q must be absolute", rawURL)
	}
	switch detail {
	case "", ImageDetailAuto, ImageDetailLow, ImageDetailHigh:
	default:
		return ImageReference{}, invalidValuef("detail", "unknown detail level %q", detail)
	}
	return ImageReference{URL: rawURL, Detail: detail}, nil
}

// ContentType returns the wire discriminator for ImageReference.
func (ImageReference) ContentType() string { return "image_url" }

// FileReference is file content referenced by file ID or URL.
type FileReference struct {
	// FileID is a server-assigned file identifier.
	FileID string
	// URL is an absolute URL to the file.
	URL string
	// Filename is the recommended display name for the file.
	Filename string
}

// NewFileReference creates a file content part. At least one of fileID or
// fileURL must be set; a non-empty fileURL must be absolute.
func NewFileReference(fileID, fileURL, filename string) (FileReference, error) {
	if fileID == "" && fileURL == "" {
		return FileReference{}, invalidValue("file", "either file_id or file_url is required")
	}
	if fileURL != "" {
		u, err := url.Parse(fileURL)
		if err != nil || !u.IsAbs() {
			return FileReference{}, invalidValuef("file_url", "URL %q must be absolute", fileURL)
		}
	}
	return FileReference{FileID: fileID, URL: fileURL, Filename: filename}, nil
}

// ContentType returns the wire discriminator for FileReference.
func (FileReference) ContentType() string { return "file" }

// contentPartWire is the discriminated wire form shared by all content parts.
type contentPartWire struct {
	Type     string `json:"type"`
	Text     string `json:"text,omitempty"`
	ImageURL string `json:"image_url,omitempty"`
	Detail   string `json:"detail,omitempty"`
	FileID   string `json:"file_id,omitempty"`
	FileURL  string `json:"file_url,omitempty"`
	Filename string `json:"filename,omitempty"`
}

// marshalContentPart maps a content part to its wire form. The mapping is
// pure and deterministic; decodeContentPart is its exact inverse.
func marshalContentPart(p ContentPart) (contentPartWire, error) {
	switch v := p.(type) {
	case Text:
		return contentPartWire{Type: v.ContentType(), Text: v.Text}, nil
	case ImageReference:
		return contentPartWire{Type: v.ContentType(), ImageURL: v.URL, Detail: string(v.Detail)}, nil
	case FileReference:
		return contentPartWire{Type: v.ContentType(), FileID: v.FileID, FileURL: v.URL, Filename: v.Filename}, nil
	default:
		return contentPartWire{}, &Error{
			Detail: fmt.Sprintf("unsupported content part %T", p),
			Err:    ErrInvalidValue,
		}
	}
}

// decodeContentPart reconstructs a content part from its wire form. An
// unrecognized discriminator is a decoding error, never silently dropped.
func decodeContentPart(w contentPartWire) (ContentPart, error) {
	switch w.Type {
	case "text":
		return Text{Text: w.Text}, nil
	case "image_url":
		return ImageReference{URL: w.ImageURL, Detail: ImageDetail(w.Detail)}, nil
	case "file":
		return FileReference{FileID: w.FileID, URL: w.FileURL, Filename: w.Filename}, nil
	default:
		return nil, &Error{
			Detail: fmt.Sprintf("unrecognized content part type %q", w.Type),
			Err:    ErrDecode,
		}
	}
}

// MarshalJSON encodes the part in its discriminated wire form.
func (t Text) MarshalJSON() ([]byte, error) {
	w, err := marshalContentPart(t)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// MarshalJSON encodes the part in its discriminated wire form.
func (i ImageReference) MarshalJSON() ([]byte, error) {
	w, err := marshalContentPart(i)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}

// MarshalJSON encodes the part in its discriminated wire form.
func (f FileReference) MarshalJSON() ([]byte, error) {
	w, err := marshalContentPart(f)
	if err != nil {
		return nil, err
	}
	return json.Marshal(w)
}
