package repository // repository persists seat assignments

import (
	"bufio"         // bufio reads the store line by line
	"context"       // context matches the Store signature of the SQL repository
	"errors"        // errors for os.ErrNotExist checks
	"fmt"           // fmt builds lines and error messages
	"os"            // os opens and renames files
	"path/filepath" // filepath locates the temp file next to the target
	"strconv"       // strconv parses booleans and ints
	"strings"       // strings splits records

	"github.com/iliyamo/cabin-seat-reservation/internal/model"
)

// fieldsPerRecord is the number of comma-separated fields in one line.
const fieldsPerRecord = 6

// FileStore keeps seat assignments in a plain text file, one passenger
// per line, no header.  Names cannot contain commas; the format has no
// escaping.
type FileStore struct {
	Path string
}

// NewFileStore returns a FileStore for path.
func NewFileStore(path string) *FileStore { return &FileStore{Path: path} }

// Load reads every record in file order.  A missing file is an empty
// store.  Blank lines are skipped; any malformed line aborts the load
// with ErrMalformedRecord and the line number.
func (s *FileStore) Load(ctx context.Context) ([]model.SeatAssignment, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	var out []model.SeatAssignment
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		rec, err := ParseRecord(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", s.Path, lineNo, err)
		}
		rec.Seq = len(out)
		out = append(out, rec)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Save replaces the file with the given records.  The data is written to
// a temporary file in the same directory and renamed over the target.
func (s *FileStore) Save(ctx context.Context, records []model.SeatAssignment) error {
	dir := filepath.Dir(s.Path)
	tmp, err := os.CreateTemp(dir, filepath.Base(s.Path)+".*.tmp")
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	w := bufio.NewWriter(tmp)
	for _, rec := range records {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := FormatRecord(rec)
		if err != nil {
			return err
		}
		if _, err := w.WriteString(line + "\n"); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), s.Path); err != nil {
		return err
	}
	committed = true
	return nil
}

// FormatRecord renders one record as a line without the trailing newline.
func FormatRecord(rec model.SeatAssignment) (string, error) {
	last := rec.Preference
	if rec.Grouped {
		last = rec.GroupName
	}
	if strings.ContainsAny(rec.Name, ",\n") || strings.ContainsAny(last, ",\n") {
		return "", fmt.Errorf("%w: %q contains a separator", ErrMalformedRecord, rec.Name)
	}
	return fmt.Sprintf("%s,%t,%d,%d,%t,%s", rec.Name, rec.Economy, rec.Row, rec.Column, rec.Grouped, last), nil
}

// ParseRecord parses one line of the file format.
func ParseRecord(line string) (model.SeatAssignment, error) {
	var rec model.SeatAssignment
	fields := strings.Split(line, ",")
	if len(fields) != fieldsPerRecord {
		return rec, fmt.Errorf("%w: want %d fields, got %d", ErrMalformedRecord, fieldsPerRecord, len(fields))
	}
	var err error
	rec.Name = fields[0]
	if rec.Name == "" {
		return rec, fmt.Errorf("%w: empty name", ErrMalformedRecord)
	}
	if rec.Economy, err = strconv.ParseBool(fields[1]); err != nil {
		return rec, fmt.Errorf("%w: class flag %q", ErrMalformedRecord, fields[1])
	}
	if rec.Row, err = strconv.Atoi(fields[2]); err != nil {
		return rec, fmt.Errorf("%w: row %q", ErrMalformedRecord, fields[2])
	}
	if rec.Column, err = strconv.Atoi(fields[3]); err != nil {
		return rec, fmt.Errorf("%w: column %q", ErrMalformedRecord, fields[3])
	}
	if rec.Grouped, err = strconv.ParseBool(fields[4]); err != nil {
		return rec, fmt.Errorf("%w: group flag %q", ErrMalformedRecord, fields[4])
	}
	if rec.Grouped {
		rec.GroupName = fields[5]
		if rec.GroupName == "" {
			return rec, fmt.Errorf("%w: empty group name", ErrMalformedRecord)
		}
	} else {
		rec.Preference = fields[5]
	}
	return rec, nil
}
