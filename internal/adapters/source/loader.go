// Package source reads benchmark CSV files from disk or over HTTP.
package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/okian/benchmatrix/internal/domain/model"
	"github.com/okian/benchmatrix/pkg/logger"
)

// Column aliases, in priority order.
var (
	DefaultModelFields = []string{"Model version", "model", "Model", "name"}
	organizationFields = []string{"Organization", "organization"}
	countryFields      = []string{"Country", "country"}
	releaseDateFields  = []string{"Release date", "release_date"}
)

// Loader fetches and parses one benchmark CSV per call. It is safe for
// concurrent use.
type Loader struct {
	dataDir string
	client  *http.Client
	timeout time.Duration
	log     logger.Logger
}

// NewLoader creates a loader with configuration options.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		client:  http.DefaultClient,
		timeout: defaultFetchTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.log == nil {
		l.log = logger.Named("source")
	}
	return l
}

// Load reads every row of src.
func (l *Loader) Load(ctx context.Context, src model.BenchmarkSource) ([]model.RawScoreRow, error) {
	rc, err := l.open(ctx, src.File)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	rows, err := Parse(rc, src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.File, err)
	}
	l.log.Debug(ctx, "source parsed",
		logger.String("benchmark", src.ID),
		logger.String("file", src.File),
		logger.Int("rows", len(rows)),
	)
	return rows, nil
}

func isURL(p string) bool {
	return strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://")
}

func (l *Loader) open(ctx context.Context, file string) (io.ReadCloser, error) {
	if !isURL(file) {
		path := file
		if !filepath.IsAbs(path) && l.dataDir != "" {
			path = filepath.Join(l.dataDir, path)
		}
		f, err := os.Open(path) //nolint:gosec // path comes from operator config
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
		}
		return f, nil
	}

	ctx, cancel := context.WithTimeout(ctx, l.timeout)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file, nil)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	resp, err := l.client.Do(req)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_ = resp.Body.Close()
		cancel()
		return nil, fmt.Errorf("%w: %s returned %s", ErrFetchFailed, file, resp.Status)
	}
	return &cancelBody{ReadCloser: resp.Body, cancel: cancel}, nil
}

// cancelBody releases the fetch timeout once the body is closed.
type cancelBody struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelBody) Close() error {
	defer b.cancel()
	return b.ReadCloser.Close()
}

// columns holds header positions resolved once per file; -1 means absent.
type columns struct {
	version, score, organization, country, releaseDate int
}

func lookup(index map[string]int, aliases []string) int {
	for _, a := range aliases {
		if i, ok := index[a]; ok {
			return i
		}
	}
	return -1
}

func resolve(header []string, src model.BenchmarkSource) (columns, error) {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}

	modelFields := src.ModelFields
	if len(modelFields) == 0 {
		modelFields = DefaultModelFields
	}
	cols := columns{
		version:      lookup(index, modelFields),
		score:        lookup(index, []string{src.ScoreKey}),
		organization: lookup(index, organizationFields),
		country:      lookup(index, countryFields),
		releaseDate:  lookup(index, releaseDateFields),
	}
	if cols.score < 0 {
		return cols, fmt.Errorf("score column %q: %w", src.ScoreKey, ErrMissingColumn)
	}
	return cols, nil
}

func cell(record []string, i int) (string, bool) {
	if i < 0 || i >= len(record) {
		return "", false
	}
	return strings.TrimSpace(record[i]), true
}

// versionCell reports a version for any non-empty cell. A cell of blanks is
// kept untrimmed so it canonicalizes as an empty model, not the unknown one.
func versionCell(record []string, i int) (string, bool) {
	if i < 0 || i >= len(record) || record[i] == "" {
		return "", false
	}
	if v := strings.TrimSpace(record[i]); v != "" {
		return v, true
	}
	return record[i], true
}

// Parse reads CSV rows from r. The header is resolved once against src's
// aliases; the score column is required, every other column is optional.
func Parse(r io.Reader, src model.BenchmarkSource) ([]model.RawScoreRow, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptySource
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols, err := resolve(header, src)
	if err != nil {
		return nil, err
	}

	var rows []model.RawScoreRow
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return rows, fmt.Errorf("read row %d: %w", len(rows)+1, err)
		}

		var row model.RawScoreRow
		row.Version, row.HasVersion = versionCell(record, cols.version)
		row.Organization, _ = cell(record, cols.organization)
		row.Country, _ = cell(record, cols.country)
		row.ReleaseDate, _ = cell(record, cols.releaseDate)
		row.RawScore, _ = cell(record, cols.score)
		row.Score = ParseScore(row.RawScore)
		rows = append(rows, row)
	}
	return rows, nil
}

// ParseScore parses a decimal written with either '.' or ',' as the decimal
// separator. When both appear, the last one is the decimal separator and the
// other is treated as grouping. Unparseable or empty input yields NaN.
func ParseScore(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	dot, comma := strings.LastIndex(s, "."), strings.LastIndex(s, ",")
	switch {
	case comma >= 0 && dot >= 0 && comma > dot:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case comma >= 0 && dot >= 0:
		s = strings.ReplaceAll(s, ",", "")
	case comma >= 0:
		if strings.Count(s, ",") > 1 {
			return math.NaN()
		}
		s = strings.Replace(s, ",", ".", 1)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) {
		return math.NaN()
	}
	return v
}
