package testutil

import (
	"context"
	"os"

	"github.com/stretchr/testify/mock"
)

// MockVCS is a testify mock of the git collaborator used by repository
// actions
type MockVCS struct {
	mock.Mock
}

// NewPermissiveVCS returns a MockVCS that accepts every call. Clone and
// Init create the target directory so later steps find a checkout.
func NewPermissiveVCS() *MockVCS {
	m := new(MockVCS)
	m.On("Clone", mock.Anything, mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_ = os.MkdirAll(args.String(2), 0755)
		}).Return(nil).Maybe()
	m.On("Init", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) {
			_ = os.MkdirAll(args.String(1), 0755)
		}).Return(nil).Maybe()
	m.On("AddRemote", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SubmoduleUpdate", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("SubmodulePull", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Fetch", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Pull", mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Changes", mock.Anything, mock.Anything).Return([]string(nil), nil).Maybe()
	m.On("Unpushed", mock.Anything, mock.Anything).Return(false, nil).Maybe()
	m.On("CommitAll", mock.Anything, mock.Anything, mock.Anything).Return(nil).Maybe()
	m.On("Push", mock.Anything, mock.Anything).Return(nil).Maybe()
	return m
}

func (m *MockVCS) Clone(ctx context.Context, url, path string) error {
	return m.Called(ctx, url, path).Error(0)
}

func (m *MockVCS) Init(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}

func (m *MockVCS) AddRemote(ctx context.Context, dir, name, url string) error {
	return m.Called(ctx, dir, name, url).Error(0)
}

func (m *MockVCS) SubmoduleUpdate(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}

func (m *MockVCS) SubmodulePull(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}

func (m *MockVCS) Fetch(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}

func (m *MockVCS) Pull(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}

func (m *MockVCS) Changes(ctx context.Context, dir string) ([]string, error) {
	args := m.Called(ctx, dir)
	changes, _ := args.Get(0).([]string)
	return changes, args.Error(1)
}

func (m *MockVCS) Unpushed(ctx context.Context, dir string) (bool, error) {
	args := m.Called(ctx, dir)
	return args.Bool(0), args.Error(1)
}

func (m *MockVCS) CommitAll(ctx context.Context, dir, message string) error {
	return m.Called(ctx, dir, message).Error(0)
}

func (m *MockVCS) Push(ctx context.Context, dir string) error {
	return m.Called(ctx, dir).Error(0)
}
