// Package fileutil holds small file-copy helpers used when audio moves
// between run stages without transformation.
package fileutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
)

// CopyFile streams src to dst with default permissions (0o644).
func CopyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// CopyFileVerified copies src to dst and re-reads dst to confirm its size
// and SHA256 digest match the source. A mismatched dst is removed rather
// than left behind.
func CopyFileVerified(src, dst string) error {
	if err := CopyFile(src, dst); err != nil {
		return err
	}
	srcSize, srcSum, err := digest(src)
	if err != nil {
		return err
	}
	dstSize, dstSum, err := digest(dst)
	if err != nil {
		_ = os.Remove(dst)
		return err
	}
	if srcSize != dstSize {
		_ = os.Remove(dst)
		return fmt.Errorf("copy size mismatch: source %d bytes, copied %d bytes", srcSize, dstSize)
	}
	if srcSum != dstSum {
		_ = os.Remove(dst)
		return fmt.Errorf("copy hash mismatch: %s", dst)
	}
	return nil
}

func digest(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()

	hasher := sha256.New()
	size, err := io.Copy(hasher, f)
	if err != nil {
		return 0, "", err
	}
	return size, hex.EncodeToString(hasher.Sum(nil)), nil
}
