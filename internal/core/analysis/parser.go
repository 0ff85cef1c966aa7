package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"noticeflow/internal/models"
)

// departmentPayload mirrors the schema the model is asked for. Email decodes
// to nil for JSON null or an absent field.
type departmentPayload struct {
	Name  string  `json:"name"`
	Email *string `json:"email"`
}

// ParseDepartments maps the model's raw response to the department list.
// The response is untrusted: anything that does not decode into the expected
// shape is an error. Accepted shapes are a bare JSON array and an object
// wrapping it under a "departments" key, with or without markdown fences.
func ParseDepartments(raw string) ([]models.Department, error) {
	body := stripFences(raw)
	if body == "" {
		return nil, fmt.Errorf("empty model response")
	}

	var payload []departmentPayload
	if err := json.Unmarshal([]byte(body), &payload); err != nil {
		var wrapper struct {
			Departments []departmentPayload `json:"departments"`
		}
		if err2 := json.Unmarshal([]byte(body), &wrapper); err2 != nil {
			return nil, fmt.Errorf("decode departments: %w", err)
		}
		if wrapper.Departments == nil {
			return nil, fmt.Errorf("response object has no departments array")
		}
		payload = wrapper.Departments
	}

	departments := make([]models.Department, 0, len(payload))
	for i, p := range payload {
		name := strings.TrimSpace(p.Name)
		if name == "" {
			return nil, fmt.Errorf("department %d has no name", i)
		}
		email := p.Email
		if email != nil && strings.TrimSpace(*email) == "" {
			email = nil
		}
		departments = append(departments, models.Department{Name: name, Email: email})
	}
	return departments, nil
}

// stripFences removes a surrounding markdown code fence, which some models
// emit even in JSON mode.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	}
	return strings.TrimSpace(s)
}
