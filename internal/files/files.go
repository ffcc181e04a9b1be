// Package files stores candidate uploads (CVs and photos) and hands back a
// reference that is saved on the candidate record.
package files

import (
	"context"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/frahmantamala/people-console/internal"
	"github.com/google/uuid"
)

type Upload struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

type FileStore interface {
	// Put stores the upload under folder and returns its reference (a key or URL).
	Put(ctx context.Context, folder string, up Upload) (string, error)
	// Delete removes the object behind a reference returned by Put.
	Delete(ctx context.Context, ref string) error
}

var ErrFileStorage = internal.NewExternalError("failed to store file", internal.ErrCodeFileFailed, nil)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9._-]+`)

// ObjectKey builds a collision free key: <prefix>/<folder>/<unix>_<uuid>_<clean name>.
func ObjectKey(prefix, folder, name string, now time.Time) string {
	base := filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	clean := strings.Trim(unsafeChars.ReplaceAllString(base, "_"), "_")
	if clean == "" || clean == "." {
		clean = "file"
	}
	file := fmt.Sprintf("%d_%s_%s", now.Unix(), uuid.NewString(), clean)
	return path.Join(prefix, folder, file)
}
