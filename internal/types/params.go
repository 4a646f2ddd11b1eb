package types

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// StrategyKind discriminates the strategy parameter variants.
type StrategyKind string

const (
	StrategyKindSMACrossover StrategyKind = "sma_crossover"
	StrategyKindMACD         StrategyKind = "macd"
	StrategyKindRSI          StrategyKind = "rsi"
	StrategyKindCombined     StrategyKind = "combined"
)

// SMACrossoverParams configures the simple moving average crossover strategy.
type SMACrossoverParams struct {
	ShortWindow int `yaml:"short_window" json:"short_window" validate:"required,gt=0"`
	LongWindow  int `yaml:"long_window" json:"long_window" validate:"required,gtfield=ShortWindow"`
}

// MACDParams configures the MACD strategy.
type MACDParams struct {
	FastPeriod   int `yaml:"fast_period" json:"fast_period" validate:"required,gt=0"`
	SlowPeriod   int `yaml:"slow_period" json:"slow_period" validate:"required,gtfield=FastPeriod"`
	SignalPeriod int `yaml:"signal_period" json:"signal_period" validate:"required,gt=0"`
}

// RSIParams configures the RSI recovery strategy.
type RSIParams struct {
	Period     int     `yaml:"period" json:"period" validate:"required,gt=0"`
	Overbought float64 `yaml:"overbought" json:"overbought" validate:"required,gt=0,lte=100"`
	Oversold   float64 `yaml:"oversold" json:"oversold" validate:"required,gte=0,ltfield=Overbought"`
}

// CombinedParams configures the confirmation-window combinator over two
// upstream strategies.
type CombinedParams struct {
	ConfirmationWindow int             `yaml:"confirmation_window" json:"confirmation_window" validate:"required,gte=1"`
	A                  *StrategyParams `yaml:"a" json:"a" validate:"required"`
	B                  *StrategyParams `yaml:"b" json:"b" validate:"required"`
}

// StrategyParams is a closed, tagged parameter set: Kind selects the variant
// and exactly one of the variant fields must be populated. Immutable once a
// strategy is constructed from it.
type StrategyParams struct {
	Kind         StrategyKind        `yaml:"kind" json:"kind" validate:"required,oneof=sma_crossover macd rsi combined"`
	SMACrossover *SMACrossoverParams `yaml:"sma_crossover,omitempty" json:"sma_crossover,omitempty"`
	MACD         *MACDParams         `yaml:"macd,omitempty" json:"macd,omitempty"`
	RSI          *RSIParams          `yaml:"rsi,omitempty" json:"rsi,omitempty"`
	Combined     *CombinedParams     `yaml:"combined,omitempty" json:"combined,omitempty"`
}

var validate = validator.New()

// Validate checks that the parameter set is well formed: the variant matching
// Kind must be present, the other variants absent, and the variant's own
// constraints satisfied. Combined parameters are validated recursively.
func (p StrategyParams) Validate() error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("invalid strategy parameters: %w", err)
	}

	variants := map[StrategyKind]bool{
		StrategyKindSMACrossover: p.SMACrossover != nil,
		StrategyKindMACD:         p.MACD != nil,
		StrategyKindRSI:          p.RSI != nil,
		StrategyKindCombined:     p.Combined != nil,
	}

	for kind, present := range variants {
		if kind == p.Kind && !present {
			return fmt.Errorf("strategy parameters: kind is %q but the %q variant is not set", p.Kind, kind)
		}
		if kind != p.Kind && present {
			return fmt.Errorf("strategy parameters: kind is %q but the %q variant is set", p.Kind, kind)
		}
	}

	switch p.Kind {
	case StrategyKindSMACrossover:
		return wrapVariantErr(validate.Struct(p.SMACrossover))
	case StrategyKindMACD:
		return wrapVariantErr(validate.Struct(p.MACD))
	case StrategyKindRSI:
		return wrapVariantErr(validate.Struct(p.RSI))
	case StrategyKindCombined:
		if err := wrapVariantErr(validate.Struct(p.Combined)); err != nil {
			return err
		}
		if err := p.Combined.A.Validate(); err != nil {
			return fmt.Errorf("combined upstream a: %w", err)
		}
		if err := p.Combined.B.Validate(); err != nil {
			return fmt.Errorf("combined upstream b: %w", err)
		}
	}

	return nil
}

func wrapVariantErr(err error) error {
	if err != nil {
		return fmt.Errorf("invalid strategy parameters: %w", err)
	}

	return nil
}

// DisplayName derives the strategy's display name deterministically from its
// parameters, e.g. "SMA_Cross_20_50" or "MACD_12_26_9".
func (p StrategyParams) DisplayName() string {
	switch p.Kind {
	case StrategyKindSMACrossover:
		return fmt.Sprintf("SMA_Cross_%d_%d", p.SMACrossover.ShortWindow, p.SMACrossover.LongWindow)
	case StrategyKindMACD:
		return fmt.Sprintf("MACD_%d_%d_%d", p.MACD.FastPeriod, p.MACD.SlowPeriod, p.MACD.SignalPeriod)
	case StrategyKindRSI:
		return fmt.Sprintf("RSI_%d_%g_%g", p.RSI.Period, p.RSI.Overbought, p.RSI.Oversold)
	case StrategyKindCombined:
		return fmt.Sprintf("Combined_%d[%s+%s]",
			p.Combined.ConfirmationWindow, p.Combined.A.DisplayName(), p.Combined.B.DisplayName())
	default:
		return string(p.Kind)
	}
}
