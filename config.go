package zero2prod

// Config represents the main config
type Config struct {
	DB struct {
		Type string // "postgres", "sqlite" or "bolt"
		Path string // sqlite/bolt file path
		DSN  string // postgres connection string
	}

	HTTP struct {
		Addr    string
		BaseURL string // public URL embedded in confirmation links
	}

	SMTP struct {
		Host     string
		Port     int
		Username string
		Password string
		From     string
	}

	Newsletter struct {
		Product struct {
			Name string
		}
		Resend struct {
			Cron string // cron spec for re-sending pending confirmations
		}
	}

	Auth struct {
		HashWorkers int64 // bcrypt pool size; defaults to NumCPU
	}

	Sentry struct {
		DSN string
	}

	AMQP struct {
		URL   string
		Queue string
	}
}
