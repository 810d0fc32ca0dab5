package management

import (
	"archive/tar"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	securejoin "github.com/cyphar/filepath-securejoin"
)

// writeTar archives dirs (relative to baseDir) into dest. The archive is
// built in a hidden temp file next to dest and renamed into place, so dest
// only ever appears complete.
func writeTar(dest, baseDir string, dirs []string) (err error) {
	tmp, err := os.CreateTemp(filepath.Dir(dest), "."+filepath.Base(dest)+".*.part")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	tw := tar.NewWriter(tmp)
	for _, dir := range dirs {
		if err = addTree(tw, baseDir, dir); err != nil {
			return err
		}
	}
	if err = tw.Close(); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Chmod(tmpName, 0o644); err != nil {
		return err
	}
	return os.Rename(tmpName, dest)
}

func addTree(tw *tar.Writer, baseDir, dir string) error {
	return filepath.Walk(filepath.Join(baseDir, dir), func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		relPath, err := filepath.Rel(baseDir, path)
		if err != nil {
			return err
		}

		var link string
		if info.Mode()&os.ModeSymlink != 0 {
			if link, err = os.Readlink(path); err != nil {
				return err
			}
		}

		header, err := tar.FileInfoHeader(info, link)
		if err != nil {
			return err
		}
		header.Name = filepath.ToSlash(relPath)
		if info.IsDir() {
			header.Name += "/"
		}

		if err := tw.WriteHeader(header); err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(tw, file)
		return err
	})
}

// extractTar unpacks src into destDir and returns the top-level entry
// names in archive order. Entry paths are resolved inside destDir, so
// "../" names or symlinked parents cannot write outside it.
func extractTar(src, destDir string) ([]string, error) {
	f, err := os.Open(src)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var (
		top  []string
		seen = map[string]bool{}
	)
	tr := tar.NewReader(f)
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return top, nil
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", src, err)
		}
		if header.Typeflag == tar.TypeXGlobalHeader {
			continue
		}

		target, err := securejoin.SecureJoin(destDir, header.Name)
		if err != nil {
			return nil, fmt.Errorf("resolving %s: %w", header.Name, err)
		}
		if target == destDir {
			continue
		}
		if name := topLevel(destDir, target); name != "" && !seen[name] {
			seen[name] = true
			top = append(top, name)
		}

		mode := header.FileInfo().Mode().Perm()
		switch header.Typeflag {
		case tar.TypeDir:
			if err := os.MkdirAll(target, mode|0o700); err != nil {
				return nil, err
			}
		case tar.TypeReg:
			if err := writeEntry(tr, target, mode); err != nil {
				return nil, err
			}
			_ = os.Chtimes(target, header.ModTime, header.ModTime)
		case tar.TypeSymlink:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return nil, err
			}
			if err := os.Symlink(header.Linkname, target); err != nil {
				return nil, err
			}
		case tar.TypeLink:
			// hardlinks point at an earlier entry, which must also be inside destDir
			source, err := securejoin.SecureJoin(destDir, header.Linkname)
			if err != nil {
				return nil, fmt.Errorf("resolving link %s: %w", header.Linkname, err)
			}
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				return nil, err
			}
			if err := os.Link(source, target); err != nil {
				return nil, fmt.Errorf("linking %s: %w", header.Name, err)
			}
		default:
			return nil, fmt.Errorf("unsupported entry %s (type %q)", header.Name, header.Typeflag)
		}
	}
}

func writeEntry(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return err
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, mode|0o600)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, r); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}

func topLevel(root, target string) string {
	rel, err := filepath.Rel(root, target)
	if err != nil {
		return ""
	}
	return strings.SplitN(filepath.ToSlash(rel), "/", 2)[0]
}
