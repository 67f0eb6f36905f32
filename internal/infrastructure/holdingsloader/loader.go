package holdingsloader

import (
	"bufio"
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"livetrack/internal/domain/entity"
)

const defaultHoldingsFilePath = "data/holdings.txt"

// HoldingsFileLoader loads seed holdings from a plain-text file. Each line is
// "coin_id amount [avg_buy_price]", fields separated by spaces, tabs or commas.
type HoldingsFileLoader struct {
	filePath   string
	loggerInfo func(msg string, args ...any)
}

// NewHoldingsFileLoader creates a new HoldingsFileLoader. An empty path uses data/holdings.txt.
func NewHoldingsFileLoader(filePath string, loggerInfo func(msg string, args ...any)) *HoldingsFileLoader {
	if filePath == "" {
		filePath = defaultHoldingsFilePath
	}
	return &HoldingsFileLoader{
		filePath:   filePath,
		loggerInfo: loggerInfo,
	}
}

// Path returns the file the loader reads.
func (l *HoldingsFileLoader) Path() string {
	return l.filePath
}

// LoadHoldings reads holdings from the configured file path. Invalid and
// duplicate lines are skipped with a log line. Returned holdings carry no id.
func (l *HoldingsFileLoader) LoadHoldings() ([]entity.Holding, error) {
	file, err := os.Open(l.filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open holdings file %s: %w", l.filePath, err)
	}
	defer file.Close()

	var holdings []entity.Holding
	seen := make(map[string]struct{})
	scanner := bufio.NewScanner(file)
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		h, err := parseLine(line)
		if err != nil {
			l.info("Skipping invalid holdings line", "file", l.filePath, "line_number", lineNum, "error", err)
			continue
		}
		if _, dup := seen[h.CoinID]; dup {
			l.info("Skipping duplicate coin in holdings file", "file", l.filePath, "line_number", lineNum, "coin_id", h.CoinID)
			continue
		}
		seen[h.CoinID] = struct{}{}
		holdings = append(holdings, h)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error scanning holdings file %s: %w", l.filePath, err)
	}

	l.info("Holdings loaded successfully from file", "count", len(holdings), "path", l.filePath)
	return holdings, nil
}

func (l *HoldingsFileLoader) info(msg string, args ...any) {
	if l.loggerInfo != nil {
		l.loggerInfo(msg, args...)
	}
}

func parseLine(line string) (entity.Holding, error) {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ' ' || r == '\t' || r == ','
	})
	if len(fields) < 2 || len(fields) > 3 {
		return entity.Holding{}, fmt.Errorf("expected 2 or 3 fields, got %d", len(fields))
	}

	coinID := strings.ToLower(fields[0])
	amount, err := parseNonNegative(fields[1])
	if err != nil {
		return entity.Holding{}, fmt.Errorf("amount: %w", err)
	}

	var avg float64
	if len(fields) == 3 {
		if avg, err = parseNonNegative(fields[2]); err != nil {
			return entity.Holding{}, fmt.Errorf("avg_buy_price: %w", err)
		}
	}

	return entity.Holding{CoinID: coinID, Amount: amount, AvgBuyPrice: avg}, nil
}

func parseNonNegative(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	if v < 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%q must be a finite non-negative number", s)
	}
	return v, nil
}
