// Package apidef holds the declarative model of a remote API: the MIME and
// status vocabulary, the library-wide response defaults, route declarations
// and the cascade that merges response rules across layers.
package apidef

import "strings"

// MIMEType is a media type string as it appears in Content-Type headers.
type MIMEType string

// MIMENone stands for "no content type". In a request it means no
// Content-Type is synthesized; in an expected set it accepts responses
// that carry no Content-Type header.
const MIMENone MIMEType = ""

const (
	MIMEJSON               MIMEType = "application/json"
	MIMEXWWWFormUrlencoded MIMEType = "application/x-www-form-urlencoded"
	MIMEMultipartFormData  MIMEType = "multipart/form-data"
	MIMEOctetStream        MIMEType = "application/octet-stream"
	MIMEXML                MIMEType = "application/xml"
	MIMEPDF                MIMEType = "application/pdf"
	MIMEZip                MIMEType = "application/zip"
	MIMETextPlain          MIMEType = "text/plain"
	MIMETextHTML           MIMEType = "text/html"
	MIMETextCSS            MIMEType = "text/css"
	MIMETextCSV            MIMEType = "text/csv"
	MIMETextJavaScript     MIMEType = "text/javascript"
	MIMEImagePNG           MIMEType = "image/png"
	MIMEImageJPEG          MIMEType = "image/jpeg"
	MIMEImageGIF           MIMEType = "image/gif"
	MIMEImageWebP          MIMEType = "image/webp"
	MIMEImageSVG           MIMEType = "image/svg+xml"
	MIMEAudioAAC           MIMEType = "audio/aac"
	MIMEAudioMPEG          MIMEType = "audio/mpeg"
	MIMEAudioOGG           MIMEType = "audio/ogg"
	MIMEAudioWAV           MIMEType = "audio/wav"
	MIMEVideoMP4           MIMEType = "video/mp4"
	MIMEVideoWebM          MIMEType = "video/webm"
)

// noneAlias is how MIMENone is spelled in catalog files.
const noneAlias = "none"

// ParseMIMEType normalizes a catalog value into a MIMEType. "none" and the
// empty string both map to MIMENone.
func ParseMIMEType(s string) MIMEType {
	s = strings.TrimSpace(s)
	if strings.EqualFold(s, noneAlias) {
		return MIMENone
	}
	return MIMEType(strings.ToLower(s))
}

// MediaType extracts the bare media type from a Content-Type header value:
// the part before the first ';' or ',', trimmed and lower-cased.
func MediaType(header string) MIMEType {
	if i := strings.IndexAny(header, ";,"); i >= 0 {
		header = header[:i]
	}
	return MIMEType(strings.ToLower(strings.TrimSpace(header)))
}

func (m MIMEType) String() string {
	if m == MIMENone {
		return noneAlias
	}
	return string(m)
}
