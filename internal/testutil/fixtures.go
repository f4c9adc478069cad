package testutil

import (
	"encoding/json"
	"fmt"
)

// FactorInput returns a small factor-analysis input in the loosely typed
// form the data builders accept: three factors over six variables with
// descriptions.
func FactorInput() map[string]interface{} {
	return map[string]interface{}{
		"factors":   []interface{}{"MR1", "MR2", "MR3"},
		"variables": []interface{}{"worry", "nervous", "sad", "hopeless", "tired", "sleep"},
		"loadings": []interface{}{
			[]interface{}{0.82, 0.10, 0.05},
			[]interface{}{0.75, 0.20, 0.00},
			[]interface{}{0.12, 0.78, 0.10},
			[]interface{}{0.05, 0.66, 0.31},
			[]interface{}{0.02, 0.15, 0.71},
			[]interface{}{0.10, 0.05, 0.58},
		},
		"variable_info": []interface{}{
			map[string]interface{}{"variable": "worry", "description": "I worry a lot"},
			map[string]interface{}{"variable": "nervous", "description": "I feel nervous"},
			map[string]interface{}{"variable": "sad", "description": "I feel sad"},
			map[string]interface{}{"variable": "hopeless", "description": "I feel hopeless"},
			map[string]interface{}{"variable": "tired", "description": "I feel tired"},
			map[string]interface{}{"variable": "sleep", "description": "I sleep poorly"},
		},
	}
}

// MixtureInput returns a small Gaussian-mixture input: two clusters over
// three standardized variables.
func MixtureInput() map[string]interface{} {
	return map[string]interface{}{
		"clusters":    []interface{}{"C1", "C2"},
		"variables":   []interface{}{"income", "age", "debt"},
		"means":       []interface{}{[]interface{}{1.2, -0.8}, []interface{}{-0.4, 0.6}, []interface{}{0.1, 0.05}},
		"proportions": []interface{}{0.6, 0.4},
		"variable_info": []interface{}{
			map[string]interface{}{"variable": "income", "description": "Annual income"},
			map[string]interface{}{"variable": "age", "description": "Age in years"},
			map[string]interface{}{"variable": "debt", "description": "Outstanding debt"},
		},
	}
}

// ComponentReply builds a well-formed reply naming every component
// "Name <ID>" and interpreting it as "Interpretation of <ID>.".
func ComponentReply(ids ...string) string {
	type entry struct {
		Name           string `json:"name"`
		Interpretation string `json:"interpretation"`
	}

	buf := []byte("{")
	for i, id := range ids {
		if i > 0 {
			buf = append(buf, ',')
		}
		key, _ := json.Marshal(id)
		val, _ := json.Marshal(entry{
			Name:           fmt.Sprintf("Name %s", id),
			Interpretation: fmt.Sprintf("Interpretation of %s.", id),
		})
		buf = append(buf, key...)
		buf = append(buf, ':')
		buf = append(buf, val...)
	}
	return string(append(buf, '}'))
}
