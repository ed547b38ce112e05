package vision

import "regexp"

var dataURIRegex = regexp.MustCompile(`^data:([^;]+);base64,(.+)$`)

// Image is a base64-encoded raster with its mime type.
type Image struct {
	MIME    string
	Payload string
}

// NormalizeImage accepts either a raw base64 payload or a full data URI.
// Data URIs are split into mime type and payload; anything unparsable is
// treated as a bare payload with the default image/png mime type.
func NormalizeImage(raw string) Image {
	if m := dataURIRegex.FindStringSubmatch(raw); m != nil {
		return Image{MIME: m[1], Payload: m[2]}
	}
	return Image{MIME: "image/png", Payload: raw}
}

// DataURI renders the image as a data URI for the vision request.
func (img Image) DataURI() string {
	return "data:" + img.MIME + ";base64," + img.Payload
}
