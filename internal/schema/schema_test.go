package schema_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/nyashahama/ai-readiness-assessments/internal/assessment"
	"github.com/nyashahama/ai-readiness-assessments/internal/schema"
)

func newValidator(t *testing.T) *schema.Validator {
	t.Helper()
	v, err := schema.NewValidator()
	if err != nil {
		t.Fatalf("NewValidator: %v", err)
	}
	return v
}

func TestValidate_Accepts(t *testing.T) {
	v := newValidator(t)
	tests := []struct {
		kind assessment.Kind
		body string
	}{
		{assessment.KindShadowAI, `{"email":"a@b.co","contact_name":"A","company_name":"B","ai_policy":"none","risk_concerns":["bias","ip_loss"]}`},
		{assessment.KindShadowAI, `{"email":"a@b.co","contact_name":"A","company_name":"B","ai_policy":"totally_made_up"}`},
		{assessment.KindBusinessReadiness, `{"email":"a@b.co","contact_name":"A","company_name":"B","marketing_opt_in":true}`},
		{assessment.KindBoardGovernance, `{"email":"a@b.co","contact_name":"A","company_name":"B","ethics":"published"}`},
		{assessment.KindPersonalReadiness, `{"email":"a@b.co","contact_name":"A","time_available":"1_to_3h"}`},
	}
	for _, tt := range tests {
		if err := v.Validate(tt.kind, []byte(tt.body)); err != nil {
			t.Errorf("%s %s: unexpected error: %v", tt.kind, tt.body, err)
		}
	}
}

func TestValidate_Rejects(t *testing.T) {
	v := newValidator(t)
	tests := []struct {
		name      string
		kind      assessment.Kind
		body      string
		wantField string
	}{
		{"missing email", assessment.KindShadowAI, `{"contact_name":"A","company_name":"B"}`, "email"},
		{"malformed email", assessment.KindShadowAI, `{"email":"nope","contact_name":"A","company_name":"B"}`, "email"},
		{"company required", assessment.KindBoardGovernance, `{"email":"a@b.co","contact_name":"A"}`, "company_name"},
		{"wrong type", assessment.KindShadowAI, `{"email":"a@b.co","contact_name":"A","company_name":"B","ai_policy":5}`, "ai_policy"},
		{"bad identifier", assessment.KindBusinessReadiness, `{"email":"a@b.co","contact_name":"A","company_name":"B","strategy":"DROP TABLE"}`, "strategy"},
		{"multi not a list", assessment.KindShadowAI, `{"email":"a@b.co","contact_name":"A","company_name":"B","risk_concerns":"bias"}`, "risk_concerns"},
		{"unknown field", assessment.KindPersonalReadiness, `{"email":"a@b.co","contact_name":"A","shoe_size":"9"}`, "shoe_size"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.kind, []byte(tt.body))
			if !errors.Is(err, schema.ErrInvalid) {
				t.Fatalf("err = %v, want ErrInvalid", err)
			}
			var se *schema.Error
			if !errors.As(err, &se) {
				t.Fatalf("err is %T, want *schema.Error", err)
			}
			found := false
			for _, f := range se.Fields {
				if strings.Contains(f.Field, tt.wantField) || strings.Contains(f.Message, tt.wantField) {
					found = true
				}
			}
			if !found {
				t.Errorf("no field error mentions %q: %+v", tt.wantField, se.Fields)
			}
		})
	}
}

func TestValidate_NotAnObject(t *testing.T) {
	v := newValidator(t)
	for _, body := range []string{`[]`, `"hello"`, `null`, `{`} {
		if err := v.Validate(assessment.KindShadowAI, []byte(body)); !errors.Is(err, schema.ErrInvalid) {
			t.Errorf("%s: err = %v, want ErrInvalid", body, err)
		}
	}
}

func TestValidate_UnknownKind(t *testing.T) {
	v := newValidator(t)
	if err := v.Validate("tarot", []byte(`{}`)); !errors.Is(err, assessment.ErrUnknownKind) {
		t.Errorf("err = %v, want ErrUnknownKind", err)
	}
}
