package dataset

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"
)

const (
	MinCP = 1
	MaxCP = 9999
)

const utf8BOM = "\ufeff"

// ParseCP validates user input for a CP query.
func ParseCP(input string) (int, error) {
	trimmed := strings.TrimSpace(input)
	cp, err := strconv.Atoi(trimmed)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidInput, trimmed)
	}
	if err := checkCP(cp); err != nil {
		return 0, err
	}
	return cp, nil
}

func checkCP(cp int) error {
	if cp < MinCP || cp > MaxCP {
		return fmt.Errorf("%w: %d is outside %d-%d", ErrInvalidInput, cp, MinCP, MaxCP)
	}
	return nil
}

// ResourcePath is the slash-separated location of a CP's CSV below the
// data root.
func ResourcePath(cp int, kind Kind) string {
	dir := fmt.Sprintf("cp%d", cp)
	if kind == Shadow {
		return path.Join(dir, fmt.Sprintf("cp%d_shadow_purified_evolutions.csv", cp))
	}
	return path.Join(dir, fmt.Sprintf("cp%d_all_evolutions.csv", cp))
}

// Loader reads datasets from a data root. It keeps no state between loads.
type Loader struct {
	fsys   fs.FS
	root   string
	logger *zap.Logger
}

type Option func(*Loader)

func WithLogger(logger *zap.Logger) Option {
	return func(l *Loader) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLoader reads from fsys. root is only used to build the identifiers shown
// to the user.
func NewLoader(fsys fs.FS, root string, opts ...Option) *Loader {
	l := &Loader{fsys: fsys, root: root, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func NewDirLoader(dir string, opts ...Option) *Loader {
	return NewLoader(os.DirFS(dir), dir, opts...)
}

func (l *Loader) Root() string {
	return l.root
}

// Resource is the identifier of a CP's CSV as displayed in messages.
func (l *Loader) Resource(cp int, kind Kind) string {
	rel := ResourcePath(cp, kind)
	if l.root == "" {
		return rel
	}
	return filepath.Join(l.root, filepath.FromSlash(rel))
}

// LoadByCP validates raw user input and loads the matching dataset.
func (l *Loader) LoadByCP(ctx context.Context, input string, kind Kind) (*Dataset, error) {
	cp, err := ParseCP(input)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, cp, kind)
}

func (l *Loader) Load(ctx context.Context, cp int, kind Kind) (*Dataset, error) {
	if err := checkCP(cp); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	resource := l.Resource(cp, kind)
	f, err := l.fsys.Open(ResourcePath(cp, kind))
	if err != nil {
		l.logger.Warn("open dataset failed", zap.String("resource", resource), zap.Error(err))
		return nil, &LoadError{Resource: resource, Err: err}
	}
	defer f.Close()

	headers, records, err := readRecords(f)
	if err != nil {
		l.logger.Warn("parse dataset failed", zap.String("resource", resource), zap.Error(err))
		return nil, &LoadError{Resource: resource, Err: err}
	}

	kept := records[:0]
	for _, rec := range records {
		if strings.TrimSpace(rec.Get(ColPokemon)) != "" {
			kept = append(kept, rec)
		}
	}
	if len(kept) == 0 {
		return nil, &EmptyDatasetError{Resource: resource}
	}

	l.logger.Info("dataset loaded",
		zap.String("resource", resource),
		zap.Stringer("kind", kind),
		zap.Int("rows", len(kept)),
		zap.Int("dropped", len(records)-len(kept)),
	)
	return &Dataset{
		Kind:     kind,
		CP:       cp,
		Resource: resource,
		Headers:  headers,
		Records:  kept,
	}, nil
}

// readRecords parses header-keyed CSV. Blank lines are skipped and short or
// long rows are tolerated; cells beyond the header are ignored.
func readRecords(r io.Reader) ([]string, []Record, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	headers, err := reader.Read()
	if errors.Is(err, io.EOF) {
		// zero-byte file: reported as empty, not malformed
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)

	var records []Record
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) == 1 && strings.TrimSpace(row[0]) == "" {
			continue
		}

		rec := make(Record, len(headers))
		for i, header := range headers {
			if i < len(row) {
				rec[header] = row[i]
			} else {
				rec[header] = ""
			}
		}
		records = append(records, rec)
	}
	return headers, records, nil
}
