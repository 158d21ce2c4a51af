package fetch

import "encoding/json"

// NormalizePayload unwraps the upstream response envelope. Upstream API
// versions disagree on shape: some return the payload array directly, others
// wrap it as {"data": [...]}. The cache always stores the unwrapped shape so
// consumers never see the envelope. Bodies that match neither shape pass
// through unchanged.
func NormalizePayload(body json.RawMessage) json.RawMessage {
	if isJSONArray(body) {
		return body
	}

	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(body, &envelope); err == nil && isJSONArray(envelope.Data) {
		return envelope.Data
	}

	return body
}

func isJSONArray(raw json.RawMessage) bool {
	for _, b := range raw {
		switch b {
		case ' ', '\t', '\n', '\r':
			continue
		default:
			return b == '['
		}
	}
	return false
}
