package cmd

type Config struct {
	HTTPPort   string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSslMode  string

	RedisAddr     string
	RedisPassword string

	LedgerAPIURL           string
	LedgerUsername         string
	LedgerPassword         string
	LedgerLicenseNumber    string
	LedgerManifestLocation string
	LedgerTraining         string

	CatalogAPIURL string
	CatalogAPIKey string

	RouteAPIURL      string
	RouteAPIKey      string
	WarehouseAddress string
}
