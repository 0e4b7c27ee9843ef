package entity

import "time"

// GuildConfig holds the per-guild notification settings plus the channel
// name → id mapping the host keeps in sync. The delivery fallback chain
// resolves named channels ("bot-spam", "general", ...) through Channels.
type GuildConfig struct {
	GuildID       string            `json:"guild_id"`
	TargetChannel string            `json:"target_channel,omitempty"`
	PingRole      string            `json:"ping_role,omitempty"`
	VoiceChannel  string            `json:"voice_channel,omitempty"`
	Speaker       string            `json:"speaker,omitempty"`
	Timezones     []string          `json:"timezones,omitempty"`
	Channels      map[string]string `json:"channels,omitempty"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

// UserTimezone is the authoritative copy of a user's zone preference.
type UserTimezone struct {
	UserID    string    `json:"user_id"`
	Timezone  string    `json:"timezone"`
	UpdatedAt time.Time `json:"updated_at"`
}
