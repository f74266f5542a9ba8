package config

// App holds application settings loaded from the environment. The authorized
// admin email is injected here instead of living in a mutable global.
type App struct {
	Port       string
	AdminEmail string

	AWSRegion          string
	AWSAccessKeyID     string
	AWSSecretAccessKey string
	SESFromAddress     string
}

// LoadApp reads application settings with sensible defaults. Call after
// InitDB so godotenv has already run.
func LoadApp() *App {
	return &App{
		Port:       getEnv("PORT", "8080"),
		AdminEmail: getEnv("ADMIN_EMAIL", "admin@example.com"),

		AWSRegion:          getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:     getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
		SESFromAddress:     getEnv("SES_FROM_ADDRESS", ""),
	}
}
