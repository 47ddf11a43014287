// Package importer loads catalog items from spreadsheets. A workbook holds
// one sheet per item kind (words, phrases, groups); a CSV file holds one
// kind. The first row names the columns.
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/abhisek/lexicon/internal/catalog"
)

// Result holds the parsed items and per-row problems.
type Result struct {
	Items     []catalog.Item
	Processed int
	Skipped   int
	Errors    []string
}

// ImportFile reads path by extension. kind selects the item kind for CSV
// files and for workbooks whose sheet names are not kind names; it may be
// empty otherwise.
func ImportFile(path string, kind catalog.Kind) (*Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".csv") {
		if kind == "" {
			kind = kindForName(strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)))
		}
		return ReadCSV(f, kind)
	}
	return ReadWorkbook(f, kind)
}

// ReadWorkbook parses an xlsx workbook.
func ReadWorkbook(r io.Reader, kind catalog.Kind) (*Result, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	res := &Result{}
	sheets := f.GetSheetList()
	for _, sheet := range sheets {
		k := kindForName(sheet)
		if k == "" && len(sheets) == 1 {
			k = kind
		}
		if k == "" {
			continue
		}
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
		}
		parseRows(k, sheet, rows, res)
	}
	return res, nil
}

// ReadCSV parses comma-separated rows of one kind.
func ReadCSV(r io.Reader, kind catalog.Kind) (*Result, error) {
	if !kind.Valid() {
		return nil, fmt.Errorf("unknown item kind %q", kind)
	}
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	res := &Result{}
	parseRows(kind, "csv", rows, res)
	return res, nil
}

func kindForName(name string) catalog.Kind {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "word", "words", "standalone":
		return catalog.KindStandalone
	case "phrase", "phrases", "compound":
		return catalog.KindCompound
	case "group", "groups":
		return catalog.KindGroup
	}
	return ""
}

// row gives named access to one spreadsheet row.
type row struct {
	cols   map[string]int
	values []string
}

func (r row) get(name string) string {
	i, ok := r.cols[name]
	if !ok || i >= len(r.values) {
		return ""
	}
	return strings.TrimSpace(r.values[i])
}

func parseRows(kind catalog.Kind, source string, rows [][]string, res *Result) {
	if len(rows) == 0 {
		return
	}
	cols := make(map[string]int, len(rows[0]))
	for i, h := range rows[0] {
		cols[strings.ToLower(strings.TrimSpace(h))] = i
	}

	for i, values := range rows[1:] {
		r := row{cols: cols, values: values}
		if r.get("id") == "" && r.get("text") == "" && r.get("words") == "" && r.get("name") == "" {
			continue // blank line
		}
		res.Processed++
		it, err := parseItem(kind, r)
		if err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("%s row %d: %v", source, i+2, err))
			continue
		}
		res.Items = append(res.Items, it)
	}
}

func parseItem(kind catalog.Kind, r row) (catalog.Item, error) {
	id, err := strconv.ParseInt(r.get("id"), 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid id %q", r.get("id"))
	}
	traits, err := parseTraits(r)
	if err != nil {
		return nil, err
	}
	meanings, err := optionalInt(r.get("meanings"))
	if err != nil {
		return nil, fmt.Errorf("meanings: %w", err)
	}

	switch kind {
	case catalog.KindStandalone:
		text := r.get("text")
		if text == "" {
			return nil, fmt.Errorf("word %d has no text", id)
		}
		comps, err := parseComponents(r.get("components"))
		if err != nil {
			return nil, err
		}
		return &catalog.Standalone{ID: id, Text: text, Components: comps, MeaningCount: meanings, Traits: traits}, nil
	case catalog.KindCompound:
		words, err := parseIDs(r.get("words"))
		if err != nil {
			return nil, fmt.Errorf("words: %w", err)
		}
		if len(words) == 0 {
			return nil, fmt.Errorf("phrase %d has no words", id)
		}
		return &catalog.Compound{ID: id, WordIDs: words, MeaningCount: meanings, Traits: traits}, nil
	case catalog.KindGroup:
		members, err := parseMembers(r.get("members"))
		if err != nil {
			return nil, err
		}
		return &catalog.Group{ID: id, Name: r.get("name"), Members: members, Traits: traits}, nil
	}
	return nil, fmt.Errorf("unknown item kind %q", kind)
}

func parseTraits(r row) (catalog.Traits, error) {
	var t catalog.Traits
	cats, err := parseIDs(r.get("categories"))
	if err != nil {
		return t, fmt.Errorf("categories: %w", err)
	}
	for _, c := range cats {
		t.Categories = append(t.Categories, int(c))
	}
	if t.Level, err = catalog.ParseLevel(r.get("level")); err != nil {
		return t, err
	}
	if f := r.get("frequency"); f != "" {
		if t.Frequency, err = strconv.ParseFloat(f, 64); err != nil || t.Frequency < 0 {
			return t, fmt.Errorf("invalid frequency %q", f)
		}
	}
	return t, nil
}

// parseComponents reads "root:lauf; ending:en".
func parseComponents(s string) ([]catalog.Component, error) {
	var out []catalog.Component
	for _, part := range splitList(s, ";") {
		kind, text, ok := strings.Cut(part, ":")
		kind, text = strings.TrimSpace(kind), strings.TrimSpace(text)
		if !ok || kind == "" || text == "" {
			return nil, fmt.Errorf("invalid component %q, want kind:text", part)
		}
		out = append(out, catalog.Component{Kind: strings.ToLower(kind), Text: text})
	}
	return out, nil
}

// parseMembers reads "w:1, p:10"; w is a word id and p a phrase id.
func parseMembers(s string) ([]catalog.Member, error) {
	var out []catalog.Member
	for _, part := range splitList(s, ",") {
		prefix, raw, ok := strings.Cut(part, ":")
		id, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if !ok || err != nil || id <= 0 {
			return nil, fmt.Errorf("invalid member %q, want w:<id> or p:<id>", part)
		}
		switch strings.ToLower(strings.TrimSpace(prefix)) {
		case "w", "word":
			out = append(out, catalog.Member{StandaloneID: id})
		case "p", "phrase":
			out = append(out, catalog.Member{CompoundID: id})
		default:
			return nil, fmt.Errorf("invalid member %q, want w:<id> or p:<id>", part)
		}
	}
	return out, nil
}

// parseIDs reads ids separated by commas or spaces.
func parseIDs(s string) ([]int64, error) {
	var out []int64
	for _, f := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' }) {
		id, err := strconv.ParseInt(f, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid id %q", f)
		}
		out = append(out, id)
	}
	return out, nil
}

func optionalInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	return strconv.Atoi(s)
}

func splitList(s, sep string) []string {
	var out []string
	for _, p := range strings.Split(s, sep) {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
