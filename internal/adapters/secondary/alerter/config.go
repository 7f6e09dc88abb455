package alerter

type Config struct {
	BotToken  string `envconfig:"BOT_TOKEN"`
	ChannelID string `envconfig:"CHANNEL_ID"`
	Mention   string `envconfig:"MENTION"` // "<!channel>" или "<@U0xxxx>", опционально
}
