// Package config loads tool configuration from an optional YAML file
// plus environment overrides (prefix BANKLEDGER_).
package config

import (
	"errors"
	"fmt"

	"github.com/spf13/viper"
)

type Config struct {
	// OwnerName is the account holder's full name, for the
	// personal-withdrawal fuzzy match. Optional.
	OwnerName string

	// OwnBankNames / OwnBankBICs identify the operator's own bank.
	OwnBankNames []string
	OwnBankBICs  []string

	// LargeTxThreshold is the large-transaction report cutoff.
	LargeTxThreshold float64

	// RulesFile optionally points at extra keyword rules (YAML).
	RulesFile string

	Tax TaxConfig
}

type TaxConfig struct {
	Year         int
	Months       int
	AnnualIncome float64
	PayrollBase  float64
}

// Load reads bankledger.yaml from path (or the working directory when
// path is empty). A missing config file is fine: every key has a
// default or is optional.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("bankledger")
	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.AddConfigPath(".")
	}
	v.SetEnvPrefix("BANKLEDGER")
	v.AutomaticEnv()

	v.SetDefault("large_tx_threshold", 50_000)
	v.SetDefault("tax.months", 12)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}

	cfg := &Config{
		OwnerName:        v.GetString("owner_name"),
		OwnBankNames:     v.GetStringSlice("own_bank_names"),
		OwnBankBICs:      v.GetStringSlice("own_bank_bics"),
		LargeTxThreshold: v.GetFloat64("large_tx_threshold"),
		RulesFile:        v.GetString("rules_file"),
		Tax: TaxConfig{
			Year:         v.GetInt("tax.year"),
			Months:       v.GetInt("tax.months"),
			AnnualIncome: v.GetFloat64("tax.annual_income"),
			PayrollBase:  v.GetFloat64("tax.payroll_base"),
		},
	}
	return cfg, nil
}
