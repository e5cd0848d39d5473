package loaders

import (
	"bytes"
	"encoding/csv"
	"errors"
	"strings"

	"lifestats/internal/models"
)

// TableLoaderInterface is what delimited-export parsers need from a loader.
type TableLoaderInterface interface {
	Load() (*Table, error)
	Path() string
}

// Table is a delimited export: the header row and the raw rows below it.
type Table struct {
	Columns []string
	Rows    [][]string
}

func (t *Table) Index() map[string]int {
	index := make(map[string]int, len(t.Columns))
	for i, name := range t.Columns {
		index[name] = i
	}
	return index
}

// Column returns the position of the first of names present in the header.
func (t *Table) Column(names ...string) (int, bool) {
	index := t.Index()
	for _, name := range names {
		if i, ok := index[name]; ok {
			return i, true
		}
	}
	return 0, false
}

// Require fails with a *models.ValidationError naming the first column the header lacks.
func (t *Table) Require(columns ...string) error {
	index := t.Index()
	for _, name := range columns {
		if _, ok := index[name]; !ok {
			return &models.ValidationError{Record: "header", Reason: "missing column " + name}
		}
	}
	return nil
}

type CsvLoader struct {
	root         *Root
	relativePath string
}

func NewCsvLoader(root *Root, relativePath string) *CsvLoader {
	return &CsvLoader{root: root, relativePath: relativePath}
}

func (l *CsvLoader) Path() string {
	return l.root.Resolve(l.relativePath)
}

func (l *CsvLoader) Load() (*Table, error) {
	data, err := l.root.ReadFile(l.relativePath)
	if err != nil {
		return nil, err
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = ','
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		return nil, &models.LoadError{Path: l.Path(), Err: err}
	}
	if len(records) == 0 {
		return nil, &models.LoadError{Path: l.Path(), Err: errors.New("missing header row")}
	}

	columns := records[0]
	if len(columns) > 0 {
		columns[0] = strings.TrimPrefix(columns[0], "\ufeff")
	}
	return &Table{Columns: columns, Rows: records[1:]}, nil
}
