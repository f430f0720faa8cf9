package codec

import "bytes"

// Magic byte prefixes for the four supported containers. WEBP payloads start
// with a RIFF chunk; the WEBP fourcc sits at offset 8 and is checked
// separately in Matches.
var signatures = map[string][]byte{
	MimeJPEG: {0xFF, 0xD8},
	MimePNG:  {0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A},
	MimeWEBP: {0x52, 0x49, 0x46, 0x46},
	MimeBMP:  {0x42, 0x4D},
}

var webpFourCC = []byte{0x57, 0x45, 0x42, 0x50}

// Matches reports whether the payload carries the signature of the given
// mime type. Unknown mime types never match.
func Matches(data []byte, mimeType string) bool {
	sig, ok := signatures[mimeType]
	if !ok {
		return false
	}
	if !bytes.HasPrefix(data, sig) {
		return false
	}
	if mimeType == MimeWEBP {
		return len(data) >= 12 && bytes.Equal(data[8:12], webpFourCC)
	}
	return true
}

// Sniff detects the container format of a payload from its signature,
// returning the mime type or "" when none matches.
func Sniff(data []byte) string {
	for _, mime := range []string{MimePNG, MimeJPEG, MimeWEBP, MimeBMP} {
		if Matches(data, mime) {
			return mime
		}
	}
	return ""
}
