package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/tidemark-lab/tidemark/internal/types"
)

type ConfigTestSuite struct {
	suite.Suite
	dir string
}

func TestConfigSuite(t *testing.T) {
	suite.Run(t, new(ConfigTestSuite))
}

func (suite *ConfigTestSuite) SetupTest() {
	suite.dir = suite.T().TempDir()
}

func (suite *ConfigTestSuite) writeConfig(content string) string {
	path := filepath.Join(suite.dir, "config.yaml")
	suite.Require().NoError(os.WriteFile(path, []byte(content), 0644))
	return path
}

func (suite *ConfigTestSuite) TestLoadValidConfig() {
	path := suite.writeConfig(`
data_dir: ./data
max_concurrent_backtests: 4
log_level: debug
runs:
  - symbol: AAPL
    strategy:
      kind: sma_crossover
      sma_crossover:
        short_window: 20
        long_window: 50
  - symbol: MSFT
    strategy:
      kind: rsi
      rsi:
        period: 14
        overbought: 70
        oversold: 30
  - symbol: GOOG
    strategy:
      kind: combined
      combined:
        confirmation_window: 3
        a:
          kind: sma_crossover
          sma_crossover:
            short_window: 10
            long_window: 30
        b:
          kind: macd
          macd:
            fast_period: 12
            slow_period: 26
            signal_period: 9
`)

	config, err := Load(path)
	suite.NoError(err)
	suite.Equal("./data", config.DataDir)
	suite.Equal(4, config.MaxConcurrentBacktests)
	suite.Equal("debug", config.LogLevel)
	suite.Len(config.Runs, 3)

	suite.Equal("AAPL", config.Runs[0].Symbol)
	suite.Equal(types.StrategyKindSMACrossover, config.Runs[0].Strategy.Kind)
	suite.Equal(20, config.Runs[0].Strategy.SMACrossover.ShortWindow)

	combined := config.Runs[2].Strategy
	suite.Equal(types.StrategyKindCombined, combined.Kind)
	suite.Equal(3, combined.Combined.ConfirmationWindow)
	suite.Equal(types.StrategyKindMACD, combined.Combined.B.Kind)
}

func (suite *ConfigTestSuite) TestLoadMissingFile() {
	_, err := Load(filepath.Join(suite.dir, "nope.yaml"))
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestLoadMalformedYAML() {
	path := suite.writeConfig("data_dir: [unterminated")
	_, err := Load(path)
	suite.Error(err)
	suite.Contains(err.Error(), "failed to parse")
}

func (suite *ConfigTestSuite) TestLoadRejectsEmptyRuns() {
	path := suite.writeConfig(`
data_dir: ./data
runs: []
`)
	_, err := Load(path)
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestLoadRejectsUnknownStrategyKind() {
	path := suite.writeConfig(`
data_dir: ./data
runs:
  - symbol: AAPL
    strategy:
      kind: momentum
`)
	_, err := Load(path)
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestLoadRejectsMissingVariant() {
	path := suite.writeConfig(`
data_dir: ./data
runs:
  - symbol: AAPL
    strategy:
      kind: macd
`)
	_, err := Load(path)
	suite.Error(err)
	suite.Contains(err.Error(), "macd")
}

func (suite *ConfigTestSuite) TestLoadRejectsInvalidLogLevel() {
	path := suite.writeConfig(`
data_dir: ./data
log_level: verbose
runs:
  - symbol: AAPL
    strategy:
      kind: sma_crossover
      sma_crossover:
        short_window: 20
        long_window: 50
`)
	_, err := Load(path)
	suite.Error(err)
}

func (suite *ConfigTestSuite) TestGenerateSchemaJSON() {
	schema, err := (&Config{}).GenerateSchemaJSON()
	suite.NoError(err)
	suite.Contains(schema, "backtest-config")
	suite.Contains(schema, "data_dir")
	suite.Contains(schema, "runs")
}
