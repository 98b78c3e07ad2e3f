package mail_fx

import (
	"log"
	"os"
	"strconv"

	"go.uber.org/fx"

	"modelflow/internal/services"
)

var Module = fx.Provide(provideMailService)

// Without SMTP_HOST the service degrades to a no-op sender; upgrade
// resolutions are still visible through the API.
func provideMailService() services.IMailService {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		log.Println("SMTP not configured, mail notifications disabled")
		return services.NewNoopMailService()
	}

	port, err := strconv.Atoi(os.Getenv("SMTP_PORT"))
	if err != nil {
		port = 587
	}

	cfg := services.SMTPConfig{
		Host:       host,
		Port:       port,
		Username:   os.Getenv("SMTP_USERNAME"),
		Password:   os.Getenv("SMTP_PASSWORD"),
		From:       os.Getenv("SMTP_FROM"),
		FromName:   "ModelFlow Studio",
		UseSSL:     port == 465,
		RequireTLS: true,

		AppName: "ModelFlow Studio",
	}

	mailService, err := services.NewSMTPMailService(cfg)
	if err != nil {
		log.Printf("Failed to initialize SMTP mail service: %v", err)
		return services.NewNoopMailService()
	}

	return mailService
}
