package export

import (
	"encoding/base64"
	"errors"
	"strings"
)

var ErrInvalidDataURI = errors.New("export: invalid data URI")

// Encode returns the standard base64 encoding of b.
func Encode(b []byte) string {
	return base64.StdEncoding.EncodeToString(b)
}

// Decode reverses Encode.
func Decode(s string) ([]byte, error) {
	return base64.StdEncoding.DecodeString(s)
}

// DataURI builds a base64 data URI for b.
func DataURI(mediaType string, b []byte) string {
	return "data:" + mediaType + ";base64," + Encode(b)
}

// DecodeDataURI parses a base64 data URI built by DataURI.
func DecodeDataURI(uri string) (mediaType string, data []byte, err error) {
	rest, ok := strings.CutPrefix(uri, "data:")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	meta, payload, ok := strings.Cut(rest, ",")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}
	mediaType, ok = strings.CutSuffix(meta, ";base64")
	if !ok {
		return "", nil, ErrInvalidDataURI
	}

	data, err = Decode(payload)
	if err != nil {
		return "", nil, errors.Join(ErrInvalidDataURI, err)
	}
	return mediaType, data, nil
}
