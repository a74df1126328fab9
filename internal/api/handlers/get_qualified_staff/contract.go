package get_qualified_staff

import (
	"context"

	getQualifiedStaff "github.com/m04kA/SMC-SalonBooking/internal/usecase/get_qualified_staff"
)

type GetQualifiedStaffUseCase interface {
	Execute(ctx context.Context, req *getQualifiedStaff.Request) (*getQualifiedStaff.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
