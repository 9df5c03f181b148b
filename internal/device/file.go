package device

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/MKhiriev/go-pim-sync/internal/utils"
)

// FileLink is a Link over a device image persisted as a JSON file. The image
// is loaded by OpenFileLink and written back whenever a read-write
// collection is closed or finalised.
type FileLink struct {
	*MemoryLink
	path string
}

// OpenFileLink loads the device image at path. A missing file yields an
// empty device owned by userName.
func OpenFileLink(path, userName string) (*FileLink, error) {
	img := Image{UserName: userName}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("read device image: %w", err)
	default:
		if err = json.Unmarshal(data, &img); err != nil {
			return nil, fmt.Errorf("decode device image: %w", err)
		}
		if img.UserName == "" {
			img.UserName = userName
		}
	}

	return &FileLink{MemoryLink: NewMemoryLinkFromImage(img), path: path}, nil
}

// Path returns the location of the device image.
func (f *FileLink) Path() string {
	return f.path
}

func (f *FileLink) CloseCollection(ctx context.Context, h Handle) error {
	f.mu.Lock()
	open, ok := f.handles[h]
	f.mu.Unlock()

	if err := f.MemoryLink.CloseCollection(ctx, h); err != nil {
		return err
	}
	if ok && open.readWrite {
		return f.Save()
	}
	return nil
}

// Save writes the current image to disk.
func (f *FileLink) Save() error {
	payload, err := json.MarshalIndent(f.Snapshot(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode device image: %w", err)
	}
	if err = utils.WriteFileAtomic(f.path, payload, 0o600); err != nil {
		return fmt.Errorf("write device image: %w", err)
	}
	return nil
}
