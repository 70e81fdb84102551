package msg

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"sync"

	"github.com/spf13/viper"
)

var (
	mutex    sync.RWMutex
	messages = map[string]string{}
)

// Init loads message templates from a YAML file. Keys from later files
// override earlier ones.
func Init(filepath string) error {
	v := viper.New()
	v.SetConfigFile(filepath)
	v.SetConfigType("yml")

	if err := v.ReadInConfig(); err != nil {
		return fmt.Errorf("read messages %s: %w", filepath, err)
	}

	loaded := make(map[string]string)
	parseMessageMap("", v.AllSettings(), loaded)

	mutex.Lock()
	defer mutex.Unlock()
	for key, value := range loaded {
		messages[key] = value
	}
	return nil
}

// parseMessageMap reads the yml tree recursively into dotted keys
func parseMessageMap(prefix string, data map[string]any, result map[string]string) {
	for key, value := range data {
		fullKey := key
		if prefix != "" {
			fullKey = prefix + "." + key
		}

		switch v := value.(type) {
		case string:
			result[fullKey] = v
		case map[string]any:
			parseMessageMap(fullKey, v, result)
		}
	}
}

// GetMessage returns the message for key with {0}, {1}... replaced by args.
// Unknown keys fall back to the key itself followed by the arguments so a log
// line is never lost.
func GetMessage(key string, args ...any) string {
	mutex.RLock()
	message, exists := messages[key]
	mutex.RUnlock()

	if !exists {
		if len(args) == 0 {
			return key
		}
		parts := make([]string, 0, len(args))
		for _, arg := range args {
			parts = append(parts, argToString(arg))
		}
		return key + " " + strings.Join(parts, " ")
	}

	for i, arg := range args {
		message = strings.ReplaceAll(message, fmt.Sprintf("{%d}", i), argToString(arg))
	}

	return message
}

func argToString(arg any) string {
	if arg == nil {
		return "<nil>"
	}
	if err, ok := arg.(error); ok {
		return err.Error()
	}
	if isPrimitive(arg) {
		return primitiveToString(arg)
	}
	if s, ok := arg.(fmt.Stringer); ok {
		return s.String()
	}
	jsonBytes, err := json.Marshal(arg)
	if err != nil {
		return fmt.Sprintf("%v", arg)
	}
	return string(jsonBytes)
}

// isPrimitive checks if the provided value is of a primitive kind.
func isPrimitive(value any) bool {
	switch reflect.TypeOf(value).Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64, reflect.String:
		return true
	default:
		return false
	}
}

func primitiveToString(value any) string {
	switch v := value.(type) {
	case string:
		return v
	case bool:
		return strconv.FormatBool(v)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	default:
		return fmt.Sprintf("%v", value)
	}
}
