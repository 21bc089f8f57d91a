package router

import (
	"github.com/labstack/echo/v4"

	"meetly/core/middleware"
	"meetly/modules/meeting/controller"
)

// MeetingRouter registers meeting routes.
type MeetingRouter struct {
	MeetingController *controller.MeetingController
}

func NewMeetingRouter(meetingController *controller.MeetingController) *MeetingRouter {
	return &MeetingRouter{
		MeetingController: meetingController,
	}
}

// Setup registers meeting routes. Booking is public; everything touching
// a host's own meetings is authenticated.
func (r *MeetingRouter) Setup(api *echo.Group, mw *middleware.Middleware) {
	meeting := api.Group("/meeting")

	meeting.POST("/public/create", r.MeetingController.CreateBooking)

	protected := meeting.Group("", mw.AuthMiddleware())
	protected.GET("/user/all", r.MeetingController.GetMyMeetings)
	protected.PUT("/cancel/:id", r.MeetingController.CancelMeeting)
	protected.PUT("/reschedule/:id", r.MeetingController.RescheduleMeeting)
}
