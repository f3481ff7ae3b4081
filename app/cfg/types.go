package cfg

type Cfg struct {
	// Database configuration
	DBPath string

	// Wildberries API
	WBAPIKey string
	WBAPIURL string

	// OpenRouter API
	OpenRouterAPIKey string
	OpenRouterModel  string
	OpenRouterAPIURL string

	// Telegram bot
	TelegramBotToken string
	TelegramChatID   string
	TelegramAPIURL   string

	// Application configuration
	Port              string
	WorkerCount       int
	SchedulerInterval int
	LookbackHours     int
	APIAccessKey      string
	RedisAddr         string
	PromptFile        string
	EditTTLMinutes    int

	// Application metadata
	UserAgent string
	Timezone  string
	Debug     bool
	Version   string
}
