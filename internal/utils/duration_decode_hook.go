package utils

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
)

const durationDecodeErrorTemplateConstant = "invalid duration %q: use whole seconds or a duration such as 90s or 2m"

// SecondsDurationDecodeHook decodes time.Duration fields from bare numbers as seconds
// and from Go duration strings such as "1m30s".
func SecondsDurationDecodeHook() mapstructure.DecodeHookFuncType {
	durationType := reflect.TypeOf(time.Duration(0))
	return func(sourceType reflect.Type, targetType reflect.Type, data any) (any, error) {
		if targetType != durationType {
			return data, nil
		}

		switch typedValue := data.(type) {
		case time.Duration:
			return typedValue, nil
		case int:
			return time.Duration(typedValue) * time.Second, nil
		case int64:
			return time.Duration(typedValue) * time.Second, nil
		case uint:
			return time.Duration(typedValue) * time.Second, nil
		case float64:
			return time.Duration(typedValue * float64(time.Second)), nil
		case string:
			return ParseSecondsDuration(typedValue)
		default:
			return data, nil
		}
	}
}

// ParseSecondsDuration reads a number of seconds or a Go duration string.
func ParseSecondsDuration(candidate string) (time.Duration, error) {
	trimmedCandidate := strings.TrimSpace(candidate)
	if seconds, numberError := strconv.ParseFloat(trimmedCandidate, 64); numberError == nil {
		return time.Duration(seconds * float64(time.Second)), nil
	}
	duration, durationError := time.ParseDuration(trimmedCandidate)
	if durationError != nil {
		return 0, fmt.Errorf(durationDecodeErrorTemplateConstant, candidate)
	}
	return duration, nil
}
