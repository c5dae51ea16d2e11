// Package services holds the application logic behind the HTTP handlers:
// session lookup, the overtime approval lifecycle, admin CRUD and reports.
package services

import (
	"overtime-approval/cache"
	"overtime-approval/events"
	"overtime-approval/notify"
	"overtime-approval/repository"
)

type Repositories struct {
	Profiles    repository.ProfileRepository
	Categories  repository.CategoryRepository
	Submissions repository.SubmissionRepository
}

type Services struct {
	Session  *SessionService
	Overtime *OvertimeService
	Admin    *AdminService
	Report   *ReportService
}

func New(repos Repositories, c *cache.Cache, publisher events.Publisher, notifier notify.Notifier) *Services {
	if publisher == nil {
		publisher = events.Nop{}
	}
	if notifier == nil {
		notifier = notify.Nop{}
	}

	return &Services{
		Session:  NewSessionService(repos.Profiles),
		Overtime: NewOvertimeService(repos, c, publisher, notifier),
		Admin:    NewAdminService(repos, c),
		Report:   NewReportService(repos.Submissions),
	}
}
