package patch

import (
	"encoding/json"
	"fmt"
	"reflect"
	"sort"
)

// GeneratePatchesFromInitial returns the ops that copy every non-zero value of
// initial over current. Ops are ordered by path so output is stable.
func GeneratePatchesFromInitial[T any](current, initial T) ([]Operation, error) {
	currentMap, err := toMap(current)
	if err != nil {
		return nil, fmt.Errorf("failed to convert current state: %w", err)
	}
	initialMap, err := toMap(initial)
	if err != nil {
		return nil, fmt.Errorf("failed to convert initial state: %w", err)
	}

	patches := make([]Operation, 0)
	generatePatchesFromMap("", currentMap, initialMap, &patches)
	return patches, nil
}

func toMap(v any) (map[string]any, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var out map[string]any
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func generatePatchesFromMap(prefix string, current, initial map[string]any, patches *[]Operation) {
	keys := make([]string, 0, len(initial))
	for key := range initial {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		initialValue := initial[key]
		if isZeroValue(initialValue) {
			continue
		}

		path := prefix + "/" + escapeJSONPointer(key)
		currentValue, existsInCurrent := current[key]

		if initialMap, ok := initialValue.(map[string]any); ok {
			if currentMap, ok := currentValue.(map[string]any); ok {
				generatePatchesFromMap(path, currentMap, initialMap, patches)
			} else {
				*patches = append(*patches, Replace(path, initialValue))
			}
			continue
		}

		if !existsInCurrent {
			*patches = append(*patches, Add(path, initialValue))
		} else if !reflect.DeepEqual(currentValue, initialValue) {
			*patches = append(*patches, Replace(path, initialValue))
		}
	}
}

func isZeroValue(v any) bool {
	switch val := v.(type) {
	case nil:
		return true
	case string:
		return val == ""
	case float64:
		return val == 0
	case bool:
		return !val
	case []any:
		return len(val) == 0
	case map[string]any:
		return len(val) == 0
	default:
		return false
	}
}
