package models

// Session is the authenticated-visitor context held per chat in the session
// repository. A session is considered logged in only when both token and
// customer id carry real values; the legacy storage sometimes persisted the
// literal strings "null" and "undefined", which count as absent.
type Session struct {
	UserID     int64  `json:"user_id"`
	Token      string `json:"token"`
	CustomerID string `json:"id_customer"`
	Role       string `json:"role"`
}

func (s *Session) IsLoggedIn() bool {
	if s == nil {
		return false
	}
	return present(s.Token) && present(s.CustomerID)
}

func present(v string) bool {
	return v != "" && v != "null" && v != "undefined"
}
