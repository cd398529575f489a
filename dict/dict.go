package dict

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/safefile-io/safefile/fileio"
	"github.com/safefile-io/safefile/result"
)

// Dictionary is an ordered set of key/value string pairs bound to a file
// path. It is not safe for concurrent use; cross-process safety comes from
// the advisory lock taken during Save.
type Dictionary struct {
	path   string
	keys   []string
	values map[string]string
}

// New returns an empty dictionary bound to path.
func New(path string) *Dictionary {
	return &Dictionary{
		path:   path,
		values: make(map[string]string),
	}
}

// Load reads and parses the dictionary at path. A missing file is not an
// error: it loads as an empty dictionary, matching the first-run case.
func Load(path string) (*Dictionary, error) {
	d := New(path)

	fd, err := fileio.Open(path, fileio.AccessRead, 0)
	if err != nil {
		if result.CodeOf(err) == result.NotFound {
			return d, nil
		}
		return nil, err
	}
	defer fd.Close()

	data, err := io.ReadAll(fd)
	if err != nil {
		return nil, result.Wrapf(err, result.Translate(err), "read %q", path)
	}
	if err := d.parse(data); err != nil {
		return nil, err
	}
	return d, nil
}

func (d *Dictionary) parse(data []byte) error {
	scanner := bufio.NewScanner(bytes.NewReader(data))
	lineno := 0
	for scanner.Scan() {
		lineno++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		key, rawValue, ok := strings.Cut(line, "=")
		if !ok {
			return result.Newf(result.Generic,
				"%s:%d: malformed dictionary line %q", d.path, lineno, line)
		}

		key = strings.TrimSpace(key)
		value := strings.TrimSpace(rawValue)
		if strings.HasPrefix(value, `"`) {
			unquoted, err := strconv.Unquote(value)
			if err != nil {
				return result.Newf(result.Generic,
					"%s:%d: malformed quoted value %q", d.path, lineno, value)
			}
			value = unquoted
		}
		d.Set(key, value)
	}
	if err := scanner.Err(); err != nil {
		return result.Wrapf(err, result.Generic, "scan %q", d.path)
	}
	return nil
}

// Path returns the file the dictionary is bound to.
func (d *Dictionary) Path() string {
	return d.path
}

// Get returns the value for key and whether it is present.
func (d *Dictionary) Get(key string) (string, bool) {
	v, ok := d.values[key]
	return v, ok
}

// Set stores a value, preserving first-insertion order for new keys.
func (d *Dictionary) Set(key, value string) {
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
}

// Delete removes a key and reports whether it was present.
func (d *Dictionary) Delete(key string) bool {
	if _, ok := d.values[key]; !ok {
		return false
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the keys in insertion order.
func (d *Dictionary) Keys() []string {
	keys := make([]string, len(d.keys))
	copy(keys, d.keys)
	return keys
}

// Len returns the number of entries.
func (d *Dictionary) Len() int {
	return len(d.keys)
}

// Save writes the dictionary back to its file atomically: the file is
// opened (created on first save), the advisory lock is taken with the given
// bound, the new content is staged in a sibling and committed over the
// original. A crash at any point leaves either the old or the new content
// on disk, never a mixture.
func (d *Dictionary) Save(lockWait time.Duration) error {
	fd, err := fileio.Open(d.path,
		fileio.AccessRead|fileio.AccessWrite|fileio.OpenCreate, 0o644)
	if err != nil {
		return err
	}
	defer fd.Close()

	if err := fd.Lock(lockWait); err != nil {
		return err
	}

	return fileio.Update(fd, func(temp *fileio.Descriptor) error {
		for _, k := range d.keys {
			if _, err := fmt.Fprintf(temp, "%s = %q\n", k, d.values[k]); err != nil {
				return err
			}
		}
		return temp.Sync()
	})
}
