package session

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
)

// Session is the in-memory view of the current user's authentication state.
// The bearer token is deliberately not part of it; the token lives only in
// storage and is attached to requests straight from there.
type Session struct {
	LoggedIn bool
	Username string
	UserID   string
}

// User identifies an authenticated account as returned by the login endpoint.
type User struct {
	Username string
	ID       string
}

// persistedUser is the storage form of the session, written under the "user"
// key. The userId field has historically been written as a number, a string,
// or null, so reads accept all three and normalize to string.
type persistedUser struct {
	LoggedIn bool            `json:"isLoggedIn"`
	Username string          `json:"username"`
	UserID   json.RawMessage `json:"userId"`
}

func encodeUser(s Session) ([]byte, error) {
	out := persistedUser{
		LoggedIn: s.LoggedIn,
		Username: s.Username,
	}
	if s.UserID == "" {
		out.UserID = json.RawMessage("null")
	} else if isJSONNumber(s.UserID) {
		out.UserID = json.RawMessage(s.UserID)
	} else {
		quoted, err := json.Marshal(s.UserID)
		if err != nil {
			return nil, err
		}
		out.UserID = quoted
	}
	return json.Marshal(out)
}

func decodeUser(data []byte) (Session, error) {
	var raw persistedUser
	if err := json.Unmarshal(data, &raw); err != nil {
		return Session{}, err
	}
	return Session{
		LoggedIn: raw.LoggedIn,
		Username: raw.Username,
		UserID:   normalizeUserID(raw.UserID),
	}, nil
}

func normalizeUserID(raw json.RawMessage) string {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || string(trimmed) == "null" {
		return ""
	}

	var asString string
	if err := json.Unmarshal(trimmed, &asString); err == nil {
		return asString
	}

	var asNumber json.Number
	if err := json.Unmarshal(trimmed, &asNumber); err == nil {
		return asNumber.String()
	}

	return strings.TrimSpace(string(trimmed))
}

func isJSONNumber(s string) bool {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return true
	}
	return false
}
