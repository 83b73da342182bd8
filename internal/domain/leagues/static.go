package leagues

// staticIDs is the built-in league list used when no config file is wanted.
var staticIDs = []ID{
	"4328", // English Premier League
	"4335", // Spanish La Liga
	"4331", // German Bundesliga
	"4332", // Italian Serie A
	"4334", // French Ligue 1
	"4351", // Brazilian Serie A
	"4480", // UEFA Champions League
}

// Static returns a copy of the built-in league list.
func Static() []ID {
	out := make([]ID, len(staticIDs))
	copy(out, staticIDs)
	return out
}
