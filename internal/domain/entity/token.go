package entity

// Token is the OAuth2 token document exactly as the provider returned it.
// No schema is enforced; the document is persisted and reloaded verbatim,
// and a new token always replaces the old one wholesale.
type Token map[string]any

// AccessToken returns the bearer credential, or "" when the document has none.
func (t Token) AccessToken() string {
	s, _ := t["access_token"].(string)
	return s
}
