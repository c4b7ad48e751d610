package user

// Principal is the caller behind a verified access token. UserID is the
// member id used by every roster and match operation.
type Principal struct {
	UserID string
	AppID  string
	Roles  []string
}
