package media

import (
	"sort"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

// allowedImageTypes maps each accepted content type to the extension used in
// object names.
var allowedImageTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

var allowedDescription = describeAllowed()

func describeAllowed() string {
	names := make([]string, 0, len(allowedImageTypes))
	for contentType := range allowedImageTypes {
		names = append(names, strings.TrimPrefix(contentType, "image/"))
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}

// sniffImage detects the content type from the bytes themselves; the client's
// declared type and filename are ignored.
func sniffImage(data []byte) (contentType, ext string, ok bool) {
	detected := mimetype.Detect(data)
	for m := detected; m != nil; m = m.Parent() {
		if ext, found := allowedImageTypes[m.String()]; found {
			return m.String(), ext, true
		}
	}
	return detected.String(), "", false
}
