package apptracker

import (
	"github.com/stretchr/testify/mock"
)

type MockAppTracker struct {
	mock.Mock
}

var _ AppTracker = (*MockAppTracker)(nil)

func (sv *MockAppTracker) CaptureException(exception error) string {
	args := sv.Called(exception)
	return args.String(0)
}
