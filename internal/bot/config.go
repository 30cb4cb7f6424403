package bot

type Config struct {
	DbName          string `env:"DB_NAME" envDefault:"tradiebot.sqlite"`
	BotToken        string `env:"BOT_TOKEN,notEmpty"`
	ApiBaseUrl      string `env:"API_BASE_URL" envDefault:"http://localhost:8787/api/v1"`
	CommandsTimeout int    `env:"COMMANDS_TIMEOUT" envDefault:"30"`
}
