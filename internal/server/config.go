package server

type Config struct {
	Addr     string `env:"ADDR" envDefault:":8787"`
	DbName   string `env:"DB_NAME"`
	ApiToken string `env:"API_TOKEN"`
	Seed     bool   `env:"SEED" envDefault:"false"`
}
