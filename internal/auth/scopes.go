package auth

// Scopes recognised by the API.
const (
	ScopeActivitiesWrite = "activities:write"
	ScopeActivitiesRead  = "activities:read"
	ScopeLeaderboardRead = "leaderboard:read"
	ScopeProfileWrite    = "profile:write"
)

// AllScopes lists every scope, in the order tokens are issued with them.
func AllScopes() []string {
	return []string{ScopeActivitiesWrite, ScopeActivitiesRead, ScopeLeaderboardRead, ScopeProfileWrite}
}
