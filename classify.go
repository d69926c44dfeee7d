package mallclient

import (
	"encoding/json"
	"net/http"
	"strings"
)

// credentialPhrases mark 401 detail text that is a credential rejection, not
// a session expiry. The backend historically answered in Chinese, so both
// renderings are recognized.
var credentialPhrases = []string{
	MsgInvalidCredentials,
	"用户名或密码错误",
}

// errorBody is the error envelope of the storefront API. detail is a string
// for most statuses and a list of {msg} objects for validation failures.
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func detailString(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	var detail string
	if err := json.Unmarshal(envelope.Detail, &detail); err != nil {
		return ""
	}
	return strings.TrimSpace(detail)
}

func firstValidationMsg(body []byte) string {
	var envelope errorBody
	if err := json.Unmarshal(body, &envelope); err != nil {
		return ""
	}
	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err != nil {
		return ""
	}
	if len(items) == 0 {
		return ""
	}
	return strings.TrimSpace(items[0].Msg)
}

func isCredentialRejection(detail string) bool {
	for _, phrase := range credentialPhrases {
		if strings.Contains(detail, phrase) {
			return true
		}
	}
	return false
}

// classify maps a non-2xx response to a displayable message. authExpired is
// true only for the 401 branch that means the session itself is dead, which
// is the one branch with side effects (clear session, redirect to login).
func classify(status int, body []byte, isLoginEndpoint bool) (msg string, authExpired bool) {
	switch status {
	case http.StatusBadRequest:
		if detail := detailString(body); detail != "" {
			return detail, false
		}
		return MsgBadRequest, false

	case http.StatusUnauthorized:
		detail := detailString(body)
		// The login endpoint rejecting a 401 is always bad credentials,
		// never an expired session.
		if isLoginEndpoint {
			if detail != "" {
				return detail, false
			}
			return MsgInvalidCredentials, false
		}
		if detail != "" && isCredentialRejection(detail) {
			return detail, false
		}
		return MsgSessionExpired, true

	case http.StatusForbidden:
		if detail := detailString(body); detail != "" {
			return detail, false
		}
		return MsgNoPermission, false

	case http.StatusUnprocessableEntity:
		if msg := firstValidationMsg(body); msg != "" {
			return msg, false
		}
		return MsgMalformedData, false

	case http.StatusInternalServerError:
		return MsgServerError, false

	default:
		return MsgRequestFailed, false
	}
}
