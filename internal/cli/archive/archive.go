package archive

import (
	"archive/tar"
	"archive/zip"
	"bytes"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
)

// Kind names a supported archive layout, detected from the asset file name.
type Kind string

const (
	KindZip     Kind = "zip"
	KindTarGzip Kind = "tar.gz"
	KindTarXz   Kind = "tar.xz"
	KindTarZstd Kind = "tar.zst"
)

// UnsupportedArchiveError reports an asset whose name matches no supported
// archive suffix although extraction was requested.
type UnsupportedArchiveError struct {
	Name string
}

func (e *UnsupportedArchiveError) Error() string {
	return fmt.Sprintf("cannot extract %q: unsupported archive suffix", e.Name)
}

// MissingMembersError reports requested members absent from the archive.
type MissingMembersError struct {
	Members []string
}

func (e *MissingMembersError) Error() string {
	return fmt.Sprintf("missing archive members: %s", strings.Join(e.Members, ", "))
}

type entry struct {
	path string
	body []byte
	mode os.FileMode
}

// DetectKind maps an asset file name to its archive kind by suffix.
func DetectKind(name string) (Kind, error) {
	switch {
	case strings.HasSuffix(name, ".zip"):
		return KindZip, nil
	case strings.HasSuffix(name, ".tar.gz"), strings.HasSuffix(name, ".tgz"):
		return KindTarGzip, nil
	case strings.HasSuffix(name, ".tar.xz"):
		return KindTarXz, nil
	case strings.HasSuffix(name, ".tar.zst"):
		return KindTarZstd, nil
	default:
		return "", &UnsupportedArchiveError{Name: name}
	}
}

// Extract unpacks the named members of the archive in content into destDir
// and returns the paths written in member order. A nil members list unpacks
// every regular file. Permission bits recorded in the archive, notably the
// executable bit, survive extraction.
func Extract(name string, content []byte, members []string, destDir string) ([]string, error) {
	kind, err := DetectKind(name)
	if err != nil {
		return nil, err
	}
	entries, err := readEntries(kind, content)
	if err != nil {
		return nil, err
	}
	if len(members) > 0 {
		entries, err = selectMembers(entries, members)
		if err != nil {
			return nil, err
		}
	}
	return writeEntries(destDir, entries)
}

func readEntries(kind Kind, content []byte) ([]entry, error) {
	if kind == KindZip {
		return readZipEntries(content)
	}
	return readTarEntries(kind, content)
}

func readZipEntries(content []byte) ([]entry, error) {
	zipReader, err := zip.NewReader(bytes.NewReader(content), int64(len(content)))
	if err != nil {
		return nil, err
	}
	var entries []entry
	for _, file := range zipReader.File {
		if !file.Mode().IsRegular() {
			continue
		}
		entryPath, err := normalizeEntryName(file.Name)
		if err != nil {
			return nil, err
		}
		readCloser, err := file.Open()
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(readCloser)
		closeErr := readCloser.Close()
		if err != nil {
			return nil, err
		}
		if closeErr != nil {
			return nil, closeErr
		}
		entries = append(entries, entry{path: entryPath, body: body, mode: file.Mode().Perm()})
	}
	return entries, nil
}

func readTarEntries(kind Kind, content []byte) ([]entry, error) {
	reader, closer, err := openCompressedReader(kind, content)
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	tarReader := tar.NewReader(reader)
	var entries []entry
	for {
		header, err := tarReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if !header.FileInfo().Mode().IsRegular() {
			continue
		}
		entryPath, err := normalizeEntryName(header.Name)
		if err != nil {
			return nil, err
		}
		body, err := io.ReadAll(tarReader)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry{path: entryPath, body: body, mode: header.FileInfo().Mode().Perm()})
	}
	return entries, nil
}

func openCompressedReader(kind Kind, content []byte) (io.Reader, io.Closer, error) {
	baseReader := bytes.NewReader(content)
	switch kind {
	case KindTarGzip:
		gzipReader, err := gzip.NewReader(baseReader)
		if err != nil {
			return nil, nil, err
		}
		return gzipReader, gzipReader, nil
	case KindTarXz:
		xzReader, err := xz.NewReader(baseReader)
		if err != nil {
			return nil, nil, err
		}
		return xzReader, nil, nil
	case KindTarZstd:
		decoder, err := zstd.NewReader(baseReader)
		if err != nil {
			return nil, nil, err
		}
		readCloser := decoder.IOReadCloser()
		return readCloser, readCloser, nil
	default:
		return nil, nil, fmt.Errorf("unsupported archive kind %q", kind)
	}
}

// selectMembers keeps the entries named in members, in member order, and
// collects every name with no matching entry so the error lists them all.
func selectMembers(entries []entry, members []string) ([]entry, error) {
	byPath := make(map[string]entry, len(entries))
	for _, e := range entries {
		byPath[e.path] = e
	}

	var selected []entry
	var missing []string
	for _, member := range members {
		e, ok := byPath[filepath.ToSlash(member)]
		if !ok {
			missing = append(missing, member)
			continue
		}
		selected = append(selected, e)
	}
	if len(missing) > 0 {
		return nil, &MissingMembersError{Members: missing}
	}
	return selected, nil
}

func writeEntries(destDir string, entries []entry) ([]string, error) {
	var written []string
	for _, e := range entries {
		targetPath, err := resolveTargetPath(destDir, e.path)
		if err != nil {
			return nil, err
		}
		if err := os.MkdirAll(filepath.Dir(targetPath), 0o755); err != nil {
			return nil, err
		}
		mode := e.mode
		if mode == 0 {
			mode = 0o644
		}
		if err := os.WriteFile(targetPath, e.body, mode); err != nil {
			return nil, err
		}
		// WriteFile applies the mode only when it creates the file.
		if err := os.Chmod(targetPath, mode); err != nil {
			return nil, err
		}
		written = append(written, targetPath)
	}
	return written, nil
}

func normalizeEntryName(value string) (string, error) {
	cleaned := filepath.Clean(value)
	cleaned = strings.TrimPrefix(cleaned, "./")
	if cleaned == "." || cleaned == "" {
		return "", fmt.Errorf("invalid archive entry path %q", value)
	}
	if filepath.IsAbs(cleaned) || cleaned == ".." || strings.HasPrefix(cleaned, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry path escapes root: %q", value)
	}
	return filepath.ToSlash(cleaned), nil
}

func resolveTargetPath(root, rel string) (string, error) {
	target := filepath.Join(root, filepath.FromSlash(rel))
	cleanRoot := filepath.Clean(root)
	cleanTarget := filepath.Clean(target)
	if cleanTarget != cleanRoot && !strings.HasPrefix(cleanTarget, cleanRoot+string(filepath.Separator)) {
		return "", fmt.Errorf("archive entry path escapes target root: %q", rel)
	}
	return target, nil
}
