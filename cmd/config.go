package cmd

type Config struct {
	HTTPPort              string
	DBHost                string
	DBPort                string
	DBUser                string
	DBPassword            string
	DBName                string
	DBSslMode             string
	DefaultBWLimit        int
	DefaultColorLimit     int
	QuotaWarningThreshold float64
	MinTopupAmount        int
	MaxActiveOrders       int
	CSVIdempotencyMode    string
}
