package main

type Settings struct {
	Port        int    `env:"PORT,default=3000"`
	JWTSecret   string `env:"JWT_SECRET,required=true"`
	BasePath    string `env:"BASE_PATH,default=/"`
	CORSOrigin  string `env:"CORS_ORIGIN,default=*"`
	Environment string `env:"ENVIRONMENT,default=development"`
	PushEnabled bool   `env:"PUSH_ENABLED,default=true"`
}
