// Package lexicon reads and writes the word list. JSON is the native
// format; CSV and XLSX sheets with word, zh_cn and phonetic columns are
// accepted for import.
package lexicon

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/vytor/wortdrill/internal/logger"
	"github.com/vytor/wortdrill/internal/models"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("lexicon: unsupported file format")

// Load reads the lexicon at path, choosing the format by extension.
// Blank entries are skipped and duplicate words keep their first occurrence.
func Load(ctx context.Context, path string) ([]models.Word, error) {
	log := logger.FromContext(ctx).WithPrefix("lexicon")

	var (
		words []models.Word
		err   error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		words, err = loadJSON(path)
	case ".csv":
		words, err = loadCSV(path)
	case ".xlsx":
		words, err = loadXLSX(path)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		log.Error("failed to load %s: %v", path, err)
		return nil, err
	}

	words = clean(ctx, words)
	log.Info("loaded %d words from %s", len(words), path)
	return words, nil
}

func clean(ctx context.Context, words []models.Word) []models.Word {
	log := logger.FromContext(ctx).WithPrefix("lexicon")

	seen := make(map[string]struct{}, len(words))
	out := make([]models.Word, 0, len(words))
	for i, w := range words {
		w.Word = strings.TrimSpace(w.Word)
		w.ZhCN = strings.TrimSpace(w.ZhCN)
		w.Phonetic = strings.TrimSpace(w.Phonetic)
		if w.Word == "" {
			continue
		}
		if _, dup := seen[w.Word]; dup {
			log.Warn("duplicate word %q at entry %d, keeping the first", w.Word, i)
			continue
		}
		seen[w.Word] = struct{}{}
		out = append(out, w)
	}
	return out
}

func loadJSON(path string) ([]models.Word, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var words []models.Word
	if err := json.Unmarshal(data, &words); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return words, nil
}

func loadCSV(path string) ([]models.Word, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		rows = append(rows, record)
	}
	return fromRows(rows), nil
}

func loadXLSX(path string) ([]models.Word, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("%s has no sheets", path)
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows of %s: %w", path, err)
	}
	return fromRows(rows), nil
}

// columns maps field names to row offsets.
type columns struct {
	word, zhCN, phonetic int
}

var defaultColumns = columns{word: 0, zhCN: 1, phonetic: 2}

// fromRows converts table rows to words. A first row whose cells name the
// columns is used as the header; otherwise columns are word, zh_cn, phonetic.
func fromRows(rows [][]string) []models.Word {
	if len(rows) == 0 {
		return nil
	}

	cols := defaultColumns
	if header, ok := parseHeader(rows[0]); ok {
		cols = header
		rows = rows[1:]
	}

	words := make([]models.Word, 0, len(rows))
	for _, row := range rows {
		words = append(words, models.Word{
			Word:     cell(row, cols.word),
			ZhCN:     cell(row, cols.zhCN),
			Phonetic: cell(row, cols.phonetic),
		})
	}
	return words
}

func parseHeader(row []string) (columns, bool) {
	cols := columns{word: -1, zhCN: -1, phonetic: -1}
	for i, name := range row {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "word":
			cols.word = i
		case "zh_cn", "zh-cn", "translation":
			cols.zhCN = i
		case "phonetic", "ipa":
			cols.phonetic = i
		}
	}
	return cols, cols.word >= 0
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}

// Save writes words as indented JSON, replacing path atomically.
func Save(path string, words []models.Word) error {
	data, err := json.MarshalIndent(words, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	tmpPath := path + ".tmp"
	if err := os.WriteFile(tmpPath, append(data, '\n'), 0o644); err != nil {
		return err
	}
	return os.Rename(tmpPath, path)
}
