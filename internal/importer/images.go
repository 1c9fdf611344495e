package importer

import (
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/sweeezy/backend/internal/fetch"
)

// mirrorImage downloads the image at rawURL and writes it into the upload
// directory under a generated name, returning the local "/media/..." path.
// On any fetch or write failure the original external URL is returned so
// the article still renders.
func (i *Importer) mirrorImage(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	data := i.fetcher.Bytes(rawURL, fetch.AuxTimeout)
	if len(data) == 0 {
		return rawURL
	}

	if err := os.MkdirAll(i.uploadDir, 0o755); err != nil {
		return rawURL
	}

	name := uuid.NewString() + ".jpg"
	if err := os.WriteFile(filepath.Join(i.uploadDir, name), data, 0o644); err != nil {
		return rawURL
	}

	return "/media/" + name
}
