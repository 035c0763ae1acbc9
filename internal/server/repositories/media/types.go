package media

import (
	"fmt"
	"mime"
	"strings"

	"github.com/dmitrijs2005/mediakeeper/internal/common"
)

var allowedPrefixes = []string{"audio/", "video/", "image/"}

var knownExtensions = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/gif":       ".gif",
	"image/webp":      ".webp",
	"image/svg+xml":   ".svg",
	"image/bmp":       ".bmp",
	"image/tiff":      ".tiff",
	"audio/mpeg":      ".mp3",
	"audio/wav":       ".wav",
	"audio/x-wav":     ".wav",
	"audio/ogg":       ".ogg",
	"audio/flac":      ".flac",
	"audio/aac":       ".aac",
	"audio/mp4":       ".m4a",
	"video/mp4":       ".mp4",
	"video/webm":      ".webm",
	"video/ogg":       ".ogv",
	"video/quicktime": ".mov",
	"video/x-msvideo": ".avi",
	"video/mpeg":      ".mpeg",
}

// ParseContentType validates a declared payload type against the
// audio/video/image allow-list and returns the bare, lower-cased media type.
// Parameters such as charset are ignored.
func ParseContentType(contentType string) (string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", fmt.Errorf("%w: %q", common.ErrorInvalidPayloadType, contentType)
	}
	mediaType = strings.ToLower(mediaType)

	for _, p := range allowedPrefixes {
		if strings.HasPrefix(mediaType, p) && len(mediaType) > len(p) {
			return mediaType, nil
		}
	}
	return "", fmt.Errorf("%w: %q", common.ErrorInvalidPayloadType, contentType)
}

// ExtensionFor maps an allowed media type to a file extension with a leading
// dot. Unlisted subtypes fall back to the subtype itself, stripped of "x-"
// and "+suffix" decorations and anything that is not a letter or digit.
func ExtensionFor(mediaType string) string {
	if ext, ok := knownExtensions[mediaType]; ok {
		return ext
	}

	_, sub, _ := strings.Cut(mediaType, "/")
	sub = strings.TrimPrefix(sub, "x-")
	sub, _, _ = strings.Cut(sub, "+")

	var b strings.Builder
	for _, r := range sub {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return ".bin"
	}
	return "." + b.String()
}
