package recipe

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"foodgram/domain"
	"foodgram/internal/utils/storage"
)

const recipeImageFolder = "recipes/images"

// decodeImage accepts a "data:image/<type>;base64,<payload>" URI or a bare base64 payload
// and returns the raw bytes once they sniff as an allowed image type.
func decodeImage(encoded string) ([]byte, error) {
	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(payload, "data:") {
		header, data, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, domain.ErrInvalidImageFormat
		}
		payload = data
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, err)
	}
	if len(data) == 0 {
		return nil, domain.ErrImageRequired
	}

	if _, _, err := storage.DetectContentType(data, storage.AllowImage...); err != nil {
		if errors.Is(err, storage.ErrFileTypeNotAllowed) {
			return nil, fmt.Errorf("%w: %v", domain.ErrInvalidImageFormat, err)
		}
		return nil, err
	}
	return data, nil
}
