package config

import (
	"os"
	"strconv"
)

// AmazonConfig contains Amazon Advertising API configuration
type AmazonConfig struct {
	ClientID             string
	ClientSecret         string
	RefreshToken         string
	AdvertisingAccountID string
	Marketplace          string
	APIEndpoint          string
	TokenEndpoint        string
}

// GetAmazonConfig returns Amazon Advertising API configuration
func GetAmazonConfig() *AmazonConfig {
	return &AmazonConfig{
		ClientID:             os.Getenv("AMAZON_CLIENT_ID"),
		ClientSecret:         os.Getenv("AMAZON_CLIENT_SECRET"),
		RefreshToken:         os.Getenv("AMAZON_REFRESH_TOKEN"),
		AdvertisingAccountID: os.Getenv("AMAZON_ADVERTISING_ACCOUNT_ID"),
		Marketplace:          getEnv("AMAZON_MARKETPLACE", "EU"),
		APIEndpoint:          getEnv("AMAZON_API_ENDPOINT", "https://advertising-api-eu.amazon.com"),
		TokenEndpoint:        getEnv("AMAZON_TOKEN_ENDPOINT", "https://api.amazon.com/auth/o2/token"),
	}
}

// IsConfigured reports whether all required API credentials are present
func (c *AmazonConfig) IsConfigured() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}
	return value
}
