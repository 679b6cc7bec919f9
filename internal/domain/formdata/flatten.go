package formdata

import (
	"fmt"
	"strconv"
)

// Flatten is the inverse of Parse: object keys are joined with dots and
// array positions are written in brackets. Nil array holes are skipped.
func Flatten(tree map[string]any) map[string]string {
	out := map[string]string{}
	for key, value := range tree {
		flattenInto(out, key, value)
	}
	return out
}

func flattenInto(out map[string]string, prefix string, value any) {
	switch v := value.(type) {
	case nil:
	case map[string]any:
		for key, child := range v {
			flattenInto(out, prefix+"."+key, child)
		}
	case []any:
		for i, child := range v {
			flattenInto(out, prefix+"["+strconv.Itoa(i)+"]", child)
		}
	case string:
		out[prefix] = v
	default:
		out[prefix] = fmt.Sprint(v)
	}
}
