package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/moznion/go-optional"
	"go.uber.org/zap"

	"github.com/tidemark-lab/tidemark/internal/logger"
	"github.com/tidemark-lab/tidemark/internal/types"
)

// Compile-time interface check.
var _ Provider = (*CSVProvider)(nil)

// CSVProvider reads price series from a directory of per-symbol CSV files
// named <symbol>.csv. Files are parsed once and cached; timestamps must be
// RFC 3339 and strictly increasing.
type CSVProvider struct {
	dir string
	log *logger.Logger

	mu    sync.Mutex
	cache map[string][]types.Bar
}

// NewCSVProvider creates a provider reading from the given directory.
func NewCSVProvider(dir string, log *logger.Logger) *CSVProvider {
	return &CSVProvider{
		dir:   dir,
		log:   log,
		cache: make(map[string][]types.Bar),
	}
}

// Fetch implements Provider.
func (p *CSVProvider) Fetch(ctx context.Context, symbol string, start, end optional.Option[time.Time]) ([]types.Bar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	bars, err := p.load(symbol)
	if err != nil {
		return nil, err
	}

	return filterRange(bars, start, end), nil
}

func (p *CSVProvider) load(symbol string) ([]types.Bar, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if bars, ok := p.cache[symbol]; ok {
		return bars, nil
	}

	path := filepath.Join(p.dir, symbol+".csv")
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open data file for %s: %w", symbol, err)
	}
	defer file.Close()

	var bars []types.Bar
	if err := gocsv.UnmarshalFile(file, &bars); err != nil {
		return nil, fmt.Errorf("failed to parse data file for %s: %w", symbol, err)
	}

	if err := types.ValidateBars(bars); err != nil {
		return nil, fmt.Errorf("invalid data file for %s: %w", symbol, err)
	}

	p.cache[symbol] = bars
	p.log.Debug("Loaded price series",
		zap.String("symbol", symbol),
		zap.String("path", path),
		zap.Int("bars", len(bars)),
	)

	return bars, nil
}
