package config

// Config holds all configuration for the application.
type Config struct {
	DBName        string
	MigrationsDir string
	Port          string
	LogLevel      string
	Slack         SlackConfig
	Turso         TursoConfig
	ProjectID     string
	Bye           ByeConfig
}
type SlackConfig struct {
	Token         string
	ChannelID     string
	SigningSecret string
}
type TursoConfig struct {
	PrimaryURL string
	AuthToken  string
}

// ByeConfig selects who sits out a round with an odd number of players.
type ByeConfig struct {
	Policy string
	Seed   uint64
}

const (
	ByePolicyLowest = "lowest"
	ByePolicyRandom = "random"
)
