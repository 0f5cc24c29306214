package http

type Config struct {
	Port         uint   `mapstructure:"port"`
	ClientOrigin string `mapstructure:"client_origin"`
	PublicDir    string `mapstructure:"public_dir"`
}
