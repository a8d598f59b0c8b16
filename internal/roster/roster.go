// Package roster reads the local player description files. Each file holds
// one player; only the first line starting with "name:" is looked at.
package roster

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/rostermatch/pkg/constants"
	"github.com/agentstation/rostermatch/pkg/errors"
	"github.com/agentstation/rostermatch/pkg/logging"
)

// Record is a local player taken from one description file.
type Record struct {
	// Name is the display name with surrounding quotes removed.
	Name string
	// SourceFile is the file's base name.
	SourceFile string
	// Path is the full path of the description file.
	Path string
	// Position is the 1-based index of the file among all description
	// files in sorted order. Skipped files still consume a position.
	Position int
}

// Roster is the result of scanning a players directory.
type Roster struct {
	Dir     string
	Files   int
	Records []Record
	// Skipped lists files without a usable name line.
	Skipped []string
}

// Collect scans dir for files matching pattern in filename order. A missing
// directory or an unreadable file is an error; a file without a name line
// is skipped.
func Collect(ctx context.Context, dir, pattern string) (*Roster, error) {
	if pattern == "" {
		pattern = constants.DefaultPlayersPattern
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, errors.NewValidationError("players_pattern", pattern, err.Error())
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.WrapIO("read", dir, errors.NewNotFoundError("players directory", dir))
		}
		return nil, errors.WrapIO("read", dir, err)
	}

	logger := logging.FromContext(ctx)
	r := &Roster{Dir: dir}

	// os.ReadDir returns entries sorted by filename
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if ok, _ := filepath.Match(pattern, entry.Name()); !ok {
			continue
		}

		r.Files++
		path := filepath.Join(dir, entry.Name())

		name, found, err := ReadName(path)
		if err != nil {
			return nil, err
		}
		if !found || name == "" {
			logger.Debug().Str("file", entry.Name()).Msg("No name line, skipping description file")
			r.Skipped = append(r.Skipped, entry.Name())
			continue
		}

		r.Records = append(r.Records, Record{
			Name:       name,
			SourceFile: entry.Name(),
			Path:       path,
			Position:   r.Files,
		})
	}

	return r, nil
}

// ReadName returns the value of the first line starting with "name:".
// found is false when the file has no such line.
func ReadName(path string) (name string, found bool, err error) {
	f, err := os.Open(path)
	if err != nil {
		return "", false, errors.WrapIO("open", path, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, constants.NameField) {
			return ParseNameValue(strings.TrimPrefix(line, constants.NameField)), true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, errors.WrapIO("read", path, err)
	}
	return "", false, nil
}

// ParseNameValue trims the raw value after "name:" and strips one pair of
// matching single or double quotes.
func ParseNameValue(raw string) string {
	value := strings.TrimSpace(raw)
	for _, q := range []string{`"`, `'`} {
		if strings.HasPrefix(value, q) && strings.HasSuffix(value, q) {
			if len(value) < 2 {
				return ""
			}
			return value[1 : len(value)-1]
		}
	}
	return value
}
