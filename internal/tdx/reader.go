package tdx

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"ashare/internal/models"
)

// ReadDayFile loads and decodes one vendor day file. The symbol is taken
// from the file name, e.g. "sh600000.day" -> "sh600000".
func ReadDayFile(path string) ([]models.DailyBar, error) {
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read day file: %w", err)
	}
	return Decode(SymbolFromFilename(path), buf)
}

// ListDayFiles returns the day files under dir, sorted by name so runs are
// deterministic.
func ListDayFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list day dir: %w", err)
	}
	var paths []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".day") {
			continue
		}
		paths = append(paths, filepath.Join(dir, e.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

// SymbolFromFilename strips the directory and .day suffix.
func SymbolFromFilename(path string) string {
	return strings.TrimSuffix(filepath.Base(path), ".day")
}

// SplitSymbol separates the exchange prefix from the numeric code. Symbols
// without a two-letter prefix come back with an empty exchange.
func SplitSymbol(symbol string) (exchange, code string) {
	if len(symbol) > 2 && (symbol[0] < '0' || symbol[0] > '9') && (symbol[1] < '0' || symbol[1] > '9') {
		return symbol[:2], symbol[2:]
	}
	return "", symbol
}
