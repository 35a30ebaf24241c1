// Package deps holds the process-wide collaborators that handlers share.
// Defaults are safe for tests and local development; serve replaces them
// from config.
package deps

import (
	"saas-api/internal/domain/plans"
	"saas-api/internal/infra/events"
	"saas-api/internal/infra/lock"
	"saas-api/internal/infra/mail"
)

var (
	Events events.Publisher = events.NewLogPublisher()
	Mail   mail.Sender      = mail.LogSender{}
	Locker lock.Locker      = lock.NewLocalLocker()
	Plans  *plans.Catalogue = plans.NewCatalogue("", "", "")
)
