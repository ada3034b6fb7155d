package util

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/xid"
)

// EnsureDir ensures a directory exists.
func EnsureDir(p string) error {
	s, err := os.Stat(p)
	if err == nil {
		if !s.IsDir() {
			return fmt.Errorf("path exists but is not a directory: %s", p)
		}
		return nil
	}
	return os.MkdirAll(p, 0775)
}

// EnsurePath ensures a directory exists, given a file path. This
// calls EnsureDir with the path's directory.
func EnsurePath(p string) error {
	dir := filepath.Dir(p)
	return EnsureDir(dir)
}

// AtomicWriteFile writes data to a temporary file in the target's
// directory and renames it into place. A process killed mid-write leaves
// only the temp file behind; the target is either absent, the prior
// content, or the fully-new content.
func AtomicWriteFile(path string, data []byte, perm os.FileMode) error {
	tmp := fmt.Sprintf("%s.tmp-%s", path, xid.New().String())
	if err := os.WriteFile(tmp, data, perm); err != nil {
		return err
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	return nil
}

// CopyFile copies the file at src to dst, creating dst's directory
// if needed.
func CopyFile(src, dst string) error {
	if err := EnsurePath(dst); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return err
	}

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, info.Mode())
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
