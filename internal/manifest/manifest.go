// Package manifest rewrites the image reference of a deployment manifest in place. Manifests are treated as text,
// not parsed YAML, so every line other than the image line is left byte-for-byte untouched (comments, key order,
// anchors and formatting all survive).
package manifest

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrNoImageReference is returned when a manifest contains no image line. The file is left unchanged.
var ErrNoImageReference = errors.New("manifest: no image reference found")

// imageLine matches a YAML "image:" key with a value, optionally as the first key of a list item.
var imageLine = regexp.MustCompile(`^(\s*(?:-\s+)?)image:[ \t]+\S.*$`)

// RewriteImage points every image line in the manifest at ref and returns how many lines were changed. If no line
// matches, the file is not written and ErrNoImageReference is returned.
func RewriteImage(path, ref string) (int, error) {
	info, err := os.Stat(path)
	if err != nil {
		return 0, err
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}

	updated, count := rewrite(content, ref)
	if count == 0 {
		return 0, fmt.Errorf("%w in %s", ErrNoImageReference, path)
	}

	err = writeAtomic(path, updated, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	return count, nil
}

func rewrite(content []byte, ref string) ([]byte, int) {
	lines := bytes.SplitAfter(content, []byte("\n"))
	count := 0

	for i, line := range lines {
		body, ending := splitLineEnding(line)

		match := imageLine.FindSubmatch(body)
		if match == nil {
			continue
		}

		replaced := make([]byte, 0, len(match[1])+len(ref)+len(ending)+7)
		replaced = append(replaced, match[1]...)
		replaced = append(replaced, "image: "...)
		replaced = append(replaced, ref...)
		replaced = append(replaced, ending...)

		lines[i] = replaced
		count++
	}

	return bytes.Join(lines, nil), count
}

// splitLineEnding separates a line from its terminator so CRLF files keep their line endings.
func splitLineEnding(line []byte) ([]byte, []byte) {
	switch {
	case bytes.HasSuffix(line, []byte("\r\n")):
		return line[:len(line)-2], line[len(line)-2:]
	case bytes.HasSuffix(line, []byte("\n")):
		return line[:len(line)-1], line[len(line)-1:]
	default:
		return line, nil
	}
}

// writeAtomic replaces path with content so a failure part way through never leaves a truncated manifest.
func writeAtomic(path string, content []byte, perm os.FileMode) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	_, err = tmp.Write(content)
	if err != nil {
		tmp.Close()
		return err
	}

	err = tmp.Chmod(perm)
	if err != nil {
		tmp.Close()
		return err
	}

	err = tmp.Close()
	if err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
