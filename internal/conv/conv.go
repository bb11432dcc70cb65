package conv

import (
	"encoding/json"
	"strconv"
)

// AsInt coerces numeric and numeric string values into an int; anything else yields 0.
func AsInt(v interface{}) int {
	switch actual := v.(type) {
	case int:
		return actual
	case int32:
		return int(actual)
	case int64:
		return int(actual)
	case uint64:
		return int(actual)
	case float64:
		return int(actual)
	case float32:
		return int(actual)
	case json.Number:
		i, _ := actual.Int64()
		return int(i)
	case string:
		i, _ := strconv.Atoi(actual)
		return i
	case *int:
		if actual != nil {
			return *actual
		}
	}
	return 0
}

// AsString renders scalar JSON values as text; nil yields "".
func AsString(v interface{}) string {
	switch actual := v.(type) {
	case nil:
		return ""
	case string:
		return actual
	case bool:
		return strconv.FormatBool(actual)
	case float64:
		return strconv.FormatFloat(actual, 'f', -1, 64)
	case int:
		return strconv.Itoa(actual)
	case json.Number:
		return actual.String()
	}
	data, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(data)
}
