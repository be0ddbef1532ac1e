package units_test

import (
	"reflect"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/govalues/units"
)

type serverConfig struct {
	MaxRequestSize units.DataSize    `mapstructure:"max-request-size"`
	IdleTimeout    units.Duration    `mapstructure:"idle-timeout"`
	MaxRows        units.Count       `mapstructure:"max-rows"`
	SampleSize     units.Quantity    `mapstructure:"sample-size"`
	Workers        units.ThreadCount `mapstructure:"workers"`
}

func TestStringToUnitsHookFunc(t *testing.T) {
	yml := `
max-request-size: 512MB
idle-timeout: 30s
max-rows: 23K
sample-size: "1500"
workers: 1.5C
`
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(yml)))

	var cfg serverConfig
	require.NoError(t, v.Unmarshal(&cfg, viper.DecodeHook(units.StringToUnitsHookFunc())))

	assert.True(t, cfg.MaxRequestSize.Equal(units.MustParseDataSize("512MB")))
	assert.True(t, cfg.IdleTimeout.Equal(units.MustParseDuration("30s")))
	assert.True(t, cfg.MaxRows.Equal(units.MustParseCount("23K")))
	assert.True(t, cfg.SampleSize.Equal(units.MustParseQuantity("1500")))
	assert.Equal(t, units.MustParseThreadCount("1.5C"), cfg.Workers)
}

func TestStringToUnitsHookFunc_BadValue(t *testing.T) {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader("max-request-size: ten megabytes\n")))

	var cfg serverConfig
	err := v.Unmarshal(&cfg, viper.DecodeHook(units.StringToUnitsHookFunc()))
	assert.Error(t, err)
}

func TestStringToUnitsHookFunc_PassThrough(t *testing.T) {
	hook := units.StringToUnitsHookFunc()

	// Values that are not strings or not unit types pass through untouched.
	out, err := hook(reflect.TypeOf(42), reflect.TypeOf(units.DataSize{}), 42)
	require.NoError(t, err)
	assert.Equal(t, 42, out)

	out, err = hook(reflect.TypeOf(""), reflect.TypeOf(""), "10MB")
	require.NoError(t, err)
	assert.Equal(t, "10MB", out)
}
