package assessment

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// UnmarshalResult decodes a Result previously produced by json.Marshal,
// restoring the concrete ReportData type from the kind discriminator.
func UnmarshalResult(raw []byte) (Result, error) {
	var env struct {
		Kind     Kind            `json:"kind"`
		Data     json.RawMessage `json:"data"`
		Metadata Metadata        `json:"metadata"`
	}
	if err := json.Unmarshal(raw, &env); err != nil {
		return Result{}, fmt.Errorf("assessment: decode result: %w", err)
	}

	var (
		data ReportData
		err  error
	)
	switch env.Kind {
	case KindShadowAI:
		data, err = decodeData[ShadowAIData](env.Data)
	case KindBusinessReadiness:
		data, err = decodeData[BusinessReadinessData](env.Data)
	case KindBoardGovernance:
		data, err = decodeData[BoardGovernanceData](env.Data)
	case KindPersonalReadiness:
		data, err = decodeData[PersonalReadinessData](env.Data)
	default:
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownKind, env.Kind)
	}
	if err != nil {
		return Result{}, fmt.Errorf("assessment: decode %s data: %w", env.Kind, err)
	}
	return Result{Kind: env.Kind, Data: data, Metadata: env.Metadata}, nil
}

func decodeData[T ReportData](raw json.RawMessage) (ReportData, error) {
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return nil, err
	}
	return v, nil
}

// Fields flattens report data into the string map a mail-merge template or
// CRM property list expects. Nested groups are joined with underscores, so
// the ai_policy status becomes "ai_policy_status".
func Fields(d ReportData) (map[string]string, error) {
	raw, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("assessment: encode data: %w", err)
	}
	var tree map[string]any
	if err := json.Unmarshal(raw, &tree); err != nil {
		return nil, fmt.Errorf("assessment: decode data: %w", err)
	}
	out := make(map[string]string, len(tree)*4)
	flatten("", tree, out)
	return out, nil
}

func flatten(prefix string, node map[string]any, out map[string]string) {
	for k, v := range node {
		key := k
		if prefix != "" {
			key = prefix + "_" + k
		}
		switch t := v.(type) {
		case map[string]any:
			flatten(key, t, out)
		case string:
			out[key] = t
		case float64:
			out[key] = strconv.FormatFloat(t, 'f', -1, 64)
		case bool:
			out[key] = strconv.FormatBool(t)
		case nil:
			out[key] = Placeholder
		default:
			out[key] = fmt.Sprint(t)
		}
	}
}

// SortedFieldNames returns the keys of a flattened field map in order.
func SortedFieldNames(fields map[string]string) []string {
	names := make([]string, 0, len(fields))
	for k := range fields {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}
