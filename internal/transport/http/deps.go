package http

import (
	"time"

	"github.com/kanzleiworks/fristen-api/internal/infrastructure/dynamo"
	s3infra "github.com/kanzleiworks/fristen-api/internal/infrastructure/s3"
	"github.com/kanzleiworks/fristen-api/internal/infrastructure/smtp"
	snsinfra "github.com/kanzleiworks/fristen-api/internal/infrastructure/sns"
)

// Deps holds all infrastructure dependencies for the router.
type Deps struct {
	DeadlineRepo     *dynamo.DeadlineRepo
	UserRepo         *dynamo.UserRepo
	NotificationRepo *dynamo.NotificationRepo
	HolidayRepo      *dynamo.HolidayRepo
	SettingsRepo     *dynamo.SettingsRepo
	Mailer           smtp.Mailer
	ReportStore      *s3infra.ReportStore    // nil disables sweep report archiving
	EventPublisher   snsinfra.EventPublisher // nil disables sweep events
	Location         *time.Location
}
