package signal

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cperrin88/gendetect/pkg/errors"
	"github.com/cperrin88/gendetect/pkg/fsutil"
	"github.com/mholt/archives"
)

// Named is a signal set together with the name it was loaded under.
type Named struct {
	Name string
	Path string
	Set  Set
}

// batchExtensions are the file extensions LoadBatch picks up.
var batchExtensions = map[string]bool{
	".h":      true,
	".txt":    true,
	".dump":   true,
	".macros": true,
	".yaml":   true,
	".yml":    true,
	".toml":   true,
}

// LoadBatch loads every dump and profile found under root. root may be a
// directory or any archive format mholt/archives recognises (tar.gz, zip,
// 7z, ...). Results are ordered by path inside the batch.
func LoadBatch(ctx context.Context, root string) ([]Named, error) {
	fsys, err := archives.FileSystem(ctx, root, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open %s: %w", errors.ErrSignalBatch, root, err)
	}
	if closer, ok := fsys.(io.Closer); ok {
		defer func() { _ = closer.Close() }()
	}

	var batch []Named
	walkFn := func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() || !batchExtensions[strings.ToLower(path.Ext(p))] {
			return nil
		}
		named, err := loadEntry(fsys, p)
		if err != nil {
			return err
		}
		batch = append(batch, named)
		return nil
	}

	if err := fs.WalkDir(fsys, ".", walkFn); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrSignalBatch, err)
	}

	sort.Slice(batch, func(i, j int) bool { return batch[i].Path < batch[j].Path })
	return batch, nil
}

func loadEntry(fsys fs.FS, p string) (Named, error) {
	file, err := fsys.Open(p)
	if err != nil {
		return Named{}, fmt.Errorf("failed to open %s: %w", p, err)
	}
	defer func() { _ = file.Close() }()

	name, set, err := Load(p, file)
	if err != nil {
		return Named{}, err
	}
	return Named{Name: name, Path: p, Set: set}, nil
}

// PackBatch writes the contents of sourceDir into a gzip-compressed tarball
// at archivePath so a collection of dumps can be shipped as one file.
func PackBatch(ctx context.Context, sourceDir, archivePath string) error {
	absolutePath, err := filepath.Abs(sourceDir)
	if err != nil {
		return fmt.Errorf("failed to get absolute path for source directory: %w", err)
	}

	files, err := archives.FilesFromDisk(ctx, nil, map[string]string{
		absolutePath + string(os.PathSeparator): "",
	})
	if err != nil {
		return fmt.Errorf("failed to read files from disk: %w", err)
	}

	out, err := fsutil.CreateFile(archivePath)
	if err != nil {
		return fmt.Errorf("failed to create output file %s: %w", archivePath, err)
	}
	defer func() { _ = out.Close() }()

	format := archives.CompressedArchive{
		Compression: archives.Gz{},
		Archival:    archives.Tar{},
	}
	if err := format.Archive(ctx, out, files); err != nil {
		return fmt.Errorf("failed to create archive: %w", err)
	}
	return out.Sync()
}
