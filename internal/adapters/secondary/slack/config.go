package slack

type Config struct {
	BotToken         string `envconfig:"BOT_TOKEN"`
	SigningSecret    string `envconfig:"SIGNING_SECRET"`
	ChannelID        string `envconfig:"CHANNEL_ID"`
	DashboardBaseURL string `envconfig:"DASHBOARD_BASE_URL"`
}
