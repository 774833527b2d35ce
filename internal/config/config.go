package config

import (
	"fmt"
	"strconv"

	"github.com/spf13/viper"
)

// Configuration keys consumed by the accounting engine.
const (
	KeyTaxPercent          = "accounting.tax_percent"
	KeyAlertDays           = "accounting.alert_days"
	KeyVatEnabled          = "vat.enabled"
	KeyInstallmentsEnabled = "installments.enabled"
	KeyDeadlineFromApprove = "installments.from_approval"
)

// Reader supplies typed configuration values to the engine. Every
// computation receives an explicit Reader instead of reaching for a
// global lookup, so tests can run against fixed maps.
type Reader interface {
	Float(key string, def float64) (float64, error)
	Int(key string, def int) (int, error)
	Bool(key string, def bool) bool
}

// ViperReader reads configuration through viper, with defaults applied
// the same way the rest of the stack configures itself.
type ViperReader struct{}

func NewViperReader() *ViperReader {
	viper.SetDefault(KeyTaxPercent, 10.0)
	viper.SetDefault(KeyAlertDays, 30)
	viper.SetDefault(KeyVatEnabled, false)
	viper.SetDefault(KeyInstallmentsEnabled, false)
	viper.SetDefault(KeyDeadlineFromApprove, false)
	return &ViperReader{}
}

func (r *ViperReader) Float(key string, def float64) (float64, error) {
	if !viper.IsSet(key) {
		return def, nil
	}
	raw := viper.GetString(key)
	val, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("config %s: malformed numeric value %q: %w", key, raw, err)
	}
	return val, nil
}

func (r *ViperReader) Int(key string, def int) (int, error) {
	if !viper.IsSet(key) {
		return def, nil
	}
	raw := viper.GetString(key)
	val, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("config %s: malformed numeric value %q: %w", key, raw, err)
	}
	return val, nil
}

func (r *ViperReader) Bool(key string, def bool) bool {
	if !viper.IsSet(key) {
		return def
	}
	return viper.GetBool(key)
}

// StaticReader is a fixed-map Reader for tests and embedded callers.
type StaticReader map[string]interface{}

func (s StaticReader) Float(key string, def float64) (float64, error) {
	raw, ok := s[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case float64:
		return v, nil
	case int:
		return float64(v), nil
	case string:
		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("config %s: malformed numeric value %q: %w", key, v, err)
		}
		return val, nil
	default:
		return 0, fmt.Errorf("config %s: unsupported value type %T", key, raw)
	}
}

func (s StaticReader) Int(key string, def int) (int, error) {
	raw, ok := s[key]
	if !ok {
		return def, nil
	}
	switch v := raw.(type) {
	case int:
		return v, nil
	case float64:
		return int(v), nil
	case string:
		val, err := strconv.Atoi(v)
		if err != nil {
			return 0, fmt.Errorf("config %s: malformed numeric value %q: %w", key, v, err)
		}
		return val, nil
	default:
		return 0, fmt.Errorf("config %s: unsupported value type %T", key, raw)
	}
}

func (s StaticReader) Bool(key string, def bool) bool {
	if raw, ok := s[key]; ok {
		if v, ok := raw.(bool); ok {
			return v
		}
	}
	return def
}
