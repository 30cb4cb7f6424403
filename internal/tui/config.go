package tui

type Config struct {
	ApiBaseUrl string `env:"API_BASE_URL" envDefault:"http://localhost:8787/api/v1"`
	ApiToken   string `env:"API_TOKEN"`
	UserId     string `env:"USER_ID" envDefault:"demo-user"`
	LogFile    string `env:"LOG_FILE" envDefault:"tradietrack.log"`
}
