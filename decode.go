package units

import (
	"reflect"

	"github.com/go-viper/mapstructure/v2"
)

// StringToUnitsHookFunc returns a [mapstructure] decode hook that converts
// strings to the value types in this package, so configuration files can
// hold values like "512MB", "10s", "23K", or "1.5C" in fields typed as
// [DataSize], [Duration], [Count], [Quantity], or [ThreadCount].
//
// [mapstructure]: https://pkg.go.dev/github.com/go-viper/mapstructure/v2
func StringToUnitsHookFunc() mapstructure.DecodeHookFuncType {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		s, ok := data.(string)
		if !ok {
			return data, nil
		}
		switch t {
		case reflect.TypeOf(DataSize{}):
			return ParseDataSize(s)
		case reflect.TypeOf(Duration{}):
			return ParseDuration(s)
		case reflect.TypeOf(Count{}):
			return ParseCount(s)
		case reflect.TypeOf(Quantity{}):
			return ParseQuantity(s)
		case reflect.TypeOf(ThreadCount(0)):
			return ParseThreadCount(s)
		}
		return data, nil
	}
}
