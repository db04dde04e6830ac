package types

// CommunicationPreferences captures the channels a customer has opted into.
type CommunicationPreferences struct {
	Email             bool `json:"email"`
	SMS               bool `json:"sms"`
	PushNotifications bool `json:"push_notifications"`
}

// SportsProfile describes a customer's sporting interests, used for
// recommendation personalization.
type SportsProfile struct {
	PreferredSports   []string          `json:"preferred_sports"`
	SkillLevel        map[string]string `json:"skill_level"`
	FavoriteTeams     []string          `json:"favorite_teams"`
	Interests         []string          `json:"interests"`
	ActivityFrequency string            `json:"activity_frequency"`
}
